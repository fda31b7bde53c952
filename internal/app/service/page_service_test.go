package service

import (
	"context"
	"errors"
	"testing"

	"github.com/linkdeck/linkdeck/internal/app/model"
)

func TestPageService_CreatePage_SlugTaken(t *testing.T) {
	pages := &mockPageRepository{
		slugExistsFn: func(ctx context.Context, slug string) (bool, error) {
			return slug == "janedoe", nil
		},
	}

	svc := NewPageService(pages, &mockLinkRepository{}, nil)
	_, err := svc.CreatePage(context.Background(), CreatePageInput{
		UserID:      "user-1",
		Slug:        "janedoe",
		ProfileName: "Jane Doe",
	})
	if !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestPageService_CreatePage_DefaultsPublic(t *testing.T) {
	var created *model.LandingPage
	pages := &mockPageRepository{
		createFn: func(ctx context.Context, page *model.LandingPage) error {
			created = page
			return nil
		},
	}

	svc := NewPageService(pages, &mockLinkRepository{}, nil)
	_, err := svc.CreatePage(context.Background(), CreatePageInput{
		UserID:      "user-1",
		Slug:        "janedoe",
		ProfileName: "Jane Doe",
	})
	if err != nil {
		t.Fatalf("CreatePage returned error: %v", err)
	}
	if created == nil || created.Visibility != model.VisibilityPublic {
		t.Fatalf("expected new page to default to public, got %+v", created)
	}
}

func TestPageService_AddPageLink_PositionAppends(t *testing.T) {
	pages := &mockPageRepository{
		getWithLinksFn: func(ctx context.Context, id string) (*model.LandingPage, error) {
			return &model.LandingPage{
				ID:     id,
				UserID: "user-1",
				Links:  []model.Link{{ID: "l1"}, {ID: "l2"}},
			}, nil
		},
	}
	var created *model.Link
	links := &mockLinkRepository{
		createFn: func(ctx context.Context, link *model.Link) error {
			created = link
			return nil
		},
	}

	svc := NewPageService(pages, links, nil)
	link, err := svc.AddPageLink(context.Background(), "user-1", "page-1", AddPageLinkInput{
		Title:          "Third",
		DestinationURL: "https://example.com/3",
	})
	if err != nil {
		t.Fatalf("AddPageLink returned error: %v", err)
	}
	if created == nil {
		t.Fatal("expected link to be created")
	}
	if link.Position != 2 {
		t.Fatalf("expected new link appended at position 2, got %d", link.Position)
	}
	if link.LandingPageID == nil || *link.LandingPageID != "page-1" {
		t.Fatal("expected link to reference its page")
	}
}

func TestPageService_ReorderPageLinks(t *testing.T) {
	pages := &mockPageRepository{
		getWithLinksFn: func(ctx context.Context, id string) (*model.LandingPage, error) {
			return &model.LandingPage{
				ID:     id,
				UserID: "user-1",
				Links: []model.Link{
					{ID: "l1", Position: 0},
					{ID: "l2", Position: 1},
					{ID: "l3", Position: 2},
				},
			}, nil
		},
	}
	positions := map[string]int{}
	links := &mockLinkRepository{
		updateFn: func(ctx context.Context, link *model.Link) error {
			positions[link.ID] = link.Position
			return nil
		},
	}

	svc := NewPageService(pages, links, nil)
	if err := svc.ReorderPageLinks(context.Background(), "user-1", "page-1", []string{"l3", "l1", "l2"}); err != nil {
		t.Fatalf("ReorderPageLinks returned error: %v", err)
	}

	// l3 moves to 0, l1 to 1, l2 to 2; every position changed so every link
	// is rewritten.
	want := map[string]int{"l3": 0, "l1": 1, "l2": 2}
	for id, pos := range want {
		if positions[id] != pos {
			t.Errorf("link %s: expected position %d, got %d", id, pos, positions[id])
		}
	}
}

func TestPageService_ReorderPageLinks_ForeignLink(t *testing.T) {
	pages := &mockPageRepository{
		getWithLinksFn: func(ctx context.Context, id string) (*model.LandingPage, error) {
			return &model.LandingPage{
				ID:     id,
				UserID: "user-1",
				Links:  []model.Link{{ID: "l1"}},
			}, nil
		},
	}

	svc := NewPageService(pages, &mockLinkRepository{}, nil)
	err := svc.ReorderPageLinks(context.Background(), "user-1", "page-1", []string{"intruder"})
	if err == nil {
		t.Fatal("expected reorder with foreign link id to fail")
	}
}
