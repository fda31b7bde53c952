package urlrewrite

import (
	"errors"
	"net/url"
	"testing"

	"github.com/linkdeck/linkdeck/internal/app/model"
)

func strPtr(s string) *string { return &s }

func mustParse(t *testing.T, raw string) url.Values {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("result did not parse: %v", err)
	}
	return u.Query()
}

func TestBuild_SetsUTMFields(t *testing.T) {
	link := &model.Link{
		DestinationURL: "https://x.com/page?ref=old",
		UTMSource:      strPtr("facebook"),
		UTMMedium:      strPtr("cpc"),
	}

	got, err := Build(link)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	q := mustParse(t, got)
	if q.Get("ref") != "old" {
		t.Errorf("expected existing ref=old to survive, got %q", q.Get("ref"))
	}
	if q.Get("utm_source") != "facebook" {
		t.Errorf("expected utm_source=facebook, got %q", q.Get("utm_source"))
	}
	if q.Get("utm_medium") != "cpc" {
		t.Errorf("expected utm_medium=cpc, got %q", q.Get("utm_medium"))
	}
	if q.Has("utm_campaign") {
		t.Errorf("empty UTM field must not be set")
	}
}

func TestBuild_OverwritesExistingUTM(t *testing.T) {
	link := &model.Link{
		DestinationURL: "https://x.com/?utm_source=twitter&utm_source=old",
		UTMSource:      strPtr("newsletter"),
	}

	got, err := Build(link)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	q := mustParse(t, got)
	if vals := q["utm_source"]; len(vals) != 1 || vals[0] != "newsletter" {
		t.Fatalf("expected single utm_source=newsletter, got %v", vals)
	}
}

func TestBuild_CustomParams(t *testing.T) {
	link := &model.Link{
		DestinationURL: "https://x.com/page",
		CustomParams: model.CustomParams{
			{Key: "ref", Value: "partner1"},
			{Key: "", Value: "x"},
			{Key: "drop", Value: ""},
			{Key: "ref", Value: "partner2"},
		},
	}

	got, err := Build(link)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	q := mustParse(t, got)
	if vals := q["ref"]; len(vals) != 1 || vals[0] != "partner2" {
		t.Fatalf("expected later duplicate to win with single value, got %v", vals)
	}
	if q.Has("drop") {
		t.Errorf("pair with empty value must be dropped")
	}
	if len(q) != 1 {
		t.Errorf("expected only ref in query, got %v", q)
	}
}

func TestBuild_NoParamsLeavesURLIntact(t *testing.T) {
	link := &model.Link{DestinationURL: "https://x.com/a/b?k=v"}

	got, err := Build(link)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if got != "https://x.com/a/b?k=v" {
		t.Fatalf("expected URL unchanged, got %s", got)
	}
}

func TestBuild_RejectsRelativeDestination(t *testing.T) {
	for _, raw := range []string{"/relative/path", "not a url at all", "x.com/page", ""} {
		_, err := Build(&model.Link{DestinationURL: raw})
		if !errors.Is(err, ErrInvalidDestination) {
			t.Errorf("destination %q: expected ErrInvalidDestination, got %v", raw, err)
		}
	}
}
