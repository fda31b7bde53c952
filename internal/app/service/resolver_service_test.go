package service

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/linkdeck/linkdeck/internal/app/model"
	"github.com/linkdeck/linkdeck/internal/app/repository"
)

func strPtr(s string) *string { return &s }

func activeLink() *model.Link {
	return &model.Link{
		ID:             "link-1",
		UserID:         "user-1",
		Title:          "Example",
		DestinationURL: "https://x.com/page?ref=old",
		ShortCode:      "abc123",
		IsActive:       true,
		UTMSource:      strPtr("facebook"),
		UTMMedium:      strPtr("cpc"),
	}
}

func TestResolve_ShortLinkRedirect(t *testing.T) {
	var recorded model.ClickEvent
	done := make(chan struct{})
	links := &mockLinkRepository{
		findActiveFn: func(ctx context.Context, code string) (*model.Link, error) {
			if code != "abc123" {
				t.Fatalf("unexpected code %s", code)
			}
			return activeLink(), nil
		},
	}
	sink := &mockClickSink{
		recordFn: func(event model.ClickEvent) error {
			recorded = event
			close(done)
			return nil
		},
	}

	svc := NewResolverService(ResolverDeps{
		Links:  links,
		Pages:  &mockPageRepository{},
		Clicks: sink,
	})

	res, err := svc.Resolve(context.Background(), "abc123", RequestMeta{
		IP:        "203.0.113.9",
		UserAgent: "Mozilla/5.0",
		Referrer:  "https://t.co/xyz",
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !res.IsRedirect() {
		t.Fatal("expected a redirect resolution")
	}

	u, err := url.Parse(res.RedirectURL)
	if err != nil {
		t.Fatalf("redirect URL did not parse: %v", err)
	}
	q := u.Query()
	if q.Get("ref") != "old" || q.Get("utm_source") != "facebook" || q.Get("utm_medium") != "cpc" {
		t.Fatalf("unexpected redirect query: %s", u.RawQuery)
	}

	if !waitForSignal(done) {
		t.Fatal("click event was never recorded")
	}
	if recorded.LinkID != "link-1" {
		t.Errorf("expected click for link-1, got %s", recorded.LinkID)
	}
	if recorded.IP != "203.0.113.9" {
		t.Errorf("expected click IP to be forwarded, got %s", recorded.IP)
	}
}

func TestResolve_ClickFailureDoesNotAffectRedirect(t *testing.T) {
	attempted := make(chan struct{})
	links := &mockLinkRepository{
		findActiveFn: func(ctx context.Context, code string) (*model.Link, error) {
			return activeLink(), nil
		},
		incrementFn: func(ctx context.Context, id string) error {
			return errors.New("store outage")
		},
	}
	sink := &mockClickSink{
		recordFn: func(event model.ClickEvent) error {
			defer close(attempted)
			return errors.New("stream outage")
		},
	}

	svc := NewResolverService(ResolverDeps{
		Links:  links,
		Pages:  &mockPageRepository{},
		Clicks: sink,
	})

	res, err := svc.Resolve(context.Background(), "abc123", RequestMeta{})
	if err != nil {
		t.Fatalf("analytics failure must not surface, got %v", err)
	}
	if !res.IsRedirect() {
		t.Fatal("expected a redirect resolution despite analytics outage")
	}
	if !waitForSignal(attempted) {
		t.Fatal("click record was never attempted")
	}
}

func TestResolve_InactiveLinkFallsThroughToPage(t *testing.T) {
	// An inactive (or expired) link never matches the hot-path query, so the
	// repository reports not-found and resolution falls through to the page.
	viewed := make(chan struct{})
	pages := &mockPageRepository{
		findPublicFn: func(ctx context.Context, slug string) (*model.LandingPage, error) {
			return &model.LandingPage{
				ID:          "page-1",
				Slug:        slug,
				ProfileName: "Jane Doe",
				Visibility:  model.VisibilityPublic,
				Links:       []model.Link{{ID: "l1", Title: "First", IsActive: true}},
			}, nil
		},
		incrementFn: func(ctx context.Context, id string) error {
			defer close(viewed)
			return nil
		},
	}

	svc := NewResolverService(ResolverDeps{
		Links: &mockLinkRepository{},
		Pages: pages,
	})

	res, err := svc.Resolve(context.Background(), "janedoe", RequestMeta{})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if res.IsRedirect() {
		t.Fatal("expected a page resolution")
	}
	if res.Page == nil || res.Page.ProfileName != "Jane Doe" {
		t.Fatalf("unexpected page payload: %+v", res.Page)
	}
	if !waitForSignal(viewed) {
		t.Fatal("view count was never incremented")
	}
}

func TestResolve_UnknownSegmentIsNotFound(t *testing.T) {
	svc := NewResolverService(ResolverDeps{
		Links: &mockLinkRepository{},
		Pages: &mockPageRepository{},
	})

	_, err := svc.Resolve(context.Background(), "missing", RequestMeta{})
	if !errors.Is(err, ErrSegmentNotFound) {
		t.Fatalf("expected ErrSegmentNotFound, got %v", err)
	}
}

func TestResolve_PrivatePageIsNotFound(t *testing.T) {
	// The repository only surfaces public pages; a private row behaves like a
	// missing one.
	pages := &mockPageRepository{
		findPublicFn: func(ctx context.Context, slug string) (*model.LandingPage, error) {
			return nil, repository.ErrPageNotFound
		},
	}

	svc := NewResolverService(ResolverDeps{
		Links: &mockLinkRepository{},
		Pages: pages,
	})

	_, err := svc.Resolve(context.Background(), "janedoe", RequestMeta{})
	if !errors.Is(err, ErrSegmentNotFound) {
		t.Fatalf("expected ErrSegmentNotFound, got %v", err)
	}
}

func TestResolve_CorruptDestinationAbortsRedirect(t *testing.T) {
	links := &mockLinkRepository{
		findActiveFn: func(ctx context.Context, code string) (*model.Link, error) {
			link := activeLink()
			link.DestinationURL = "/relative/only"
			return link, nil
		},
	}

	svc := NewResolverService(ResolverDeps{
		Links: links,
		Pages: &mockPageRepository{},
	})

	_, err := svc.Resolve(context.Background(), "abc123", RequestMeta{})
	if !errors.Is(err, ErrBadDestination) {
		t.Fatalf("expected ErrBadDestination, got %v", err)
	}
}

func TestResolve_ShortLinkWinsOverPage(t *testing.T) {
	links := &mockLinkRepository{
		findActiveFn: func(ctx context.Context, code string) (*model.Link, error) {
			return activeLink(), nil
		},
	}
	pages := &mockPageRepository{
		findPublicFn: func(ctx context.Context, slug string) (*model.LandingPage, error) {
			t.Fatal("page lookup must not run when the code matches")
			return nil, nil
		},
	}

	svc := NewResolverService(ResolverDeps{Links: links, Pages: pages})

	res, err := svc.Resolve(context.Background(), "abc123", RequestMeta{})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !res.IsRedirect() {
		t.Fatal("expected a redirect resolution")
	}
}

func TestResolve_FilterShortCircuitsMisses(t *testing.T) {
	filter := NewSegmentFilter(0)
	filter.Seed([]string{"known"})

	links := &mockLinkRepository{
		findActiveFn: func(ctx context.Context, code string) (*model.Link, error) {
			t.Fatal("database lookup must not run on a definite filter miss")
			return nil, nil
		},
	}

	svc := NewResolverService(ResolverDeps{
		Links:  links,
		Pages:  &mockPageRepository{},
		Filter: filter,
	})

	_, err := svc.Resolve(context.Background(), "definitely-missing", RequestMeta{})
	if !errors.Is(err, ErrSegmentNotFound) {
		t.Fatalf("expected ErrSegmentNotFound, got %v", err)
	}
}
