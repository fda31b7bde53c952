package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/linkdeck/linkdeck/internal/app/model"
	"github.com/linkdeck/linkdeck/internal/app/repository"
)

func TestLinkService_CreateLink_GeneratesCode(t *testing.T) {
	var created *model.Link
	repo := &mockLinkRepository{
		createFn: func(ctx context.Context, link *model.Link) error {
			created = link
			return nil
		},
	}

	svc := NewLinkService(repo, nil, nil)
	link, err := svc.CreateLink(context.Background(), CreateLinkInput{
		UserID:         "user-1",
		Title:          "Example",
		DestinationURL: "https://example.com",
	})
	if err != nil {
		t.Fatalf("CreateLink returned error: %v", err)
	}

	if created == nil {
		t.Fatal("expected repository create to be called")
	}
	if len(link.ShortCode) != defaultCodeLength {
		t.Fatalf("expected generated code of length %d, got %q", defaultCodeLength, link.ShortCode)
	}
	for _, r := range link.ShortCode {
		if !strings.ContainsRune(shortCodeAlphabet, r) {
			t.Fatalf("generated code %q contains invalid character %q", link.ShortCode, r)
		}
	}
	if link.LandingPageID != nil {
		t.Fatal("standalone links must have no parent page")
	}
	if !link.IsActive {
		t.Fatal("new links start active")
	}
}

func TestLinkService_CreateLink_CustomCodeCollision(t *testing.T) {
	repo := &mockLinkRepository{
		codeExistsFn: func(ctx context.Context, code string) (bool, error) {
			return true, nil
		},
	}

	svc := NewLinkService(repo, nil, nil)
	_, err := svc.CreateLink(context.Background(), CreateLinkInput{
		UserID:         "user-1",
		Title:          "Example",
		DestinationURL: "https://example.com",
		ShortCode:      "taken",
	})
	if !errors.Is(err, ErrShortCodeTaken) {
		t.Fatalf("expected ErrShortCodeTaken, got %v", err)
	}
}

func TestLinkService_CreateLink_GeneratedCollisionGrowsCode(t *testing.T) {
	collisions := 0
	repo := &mockLinkRepository{
		codeExistsFn: func(ctx context.Context, code string) (bool, error) {
			if collisions < 2 {
				collisions++
				return true, nil
			}
			return false, nil
		},
	}

	svc := NewLinkService(repo, nil, nil)
	link, err := svc.CreateLink(context.Background(), CreateLinkInput{
		UserID:         "user-1",
		Title:          "Example",
		DestinationURL: "https://example.com",
	})
	if err != nil {
		t.Fatalf("CreateLink returned error: %v", err)
	}
	if len(link.ShortCode) != defaultCodeLength+2 {
		t.Fatalf("expected code to grow by one per collision, got length %d", len(link.ShortCode))
	}
}

func TestLinkService_CreateLink_RejectsRelativeDestination(t *testing.T) {
	svc := NewLinkService(&mockLinkRepository{}, nil, nil)
	_, err := svc.CreateLink(context.Background(), CreateLinkInput{
		UserID:         "user-1",
		Title:          "Example",
		DestinationURL: "/not/absolute",
	})
	if !errors.Is(err, ErrInvalidDestinationURL) {
		t.Fatalf("expected ErrInvalidDestinationURL, got %v", err)
	}
}

func TestLinkService_GetLink_WrongOwnerHidden(t *testing.T) {
	repo := &mockLinkRepository{
		getFn: func(ctx context.Context, id string) (*model.Link, error) {
			return &model.Link{ID: id, UserID: "someone-else"}, nil
		},
	}

	svc := NewLinkService(repo, nil, nil)
	_, err := svc.GetLink(context.Background(), "user-1", "link-1")
	if !errors.Is(err, repository.ErrLinkNotFound) {
		t.Fatalf("expected ErrLinkNotFound for foreign link, got %v", err)
	}
}

func TestLinkService_UpdateLink_PartialMerge(t *testing.T) {
	repo := &mockLinkRepository{
		getFn: func(ctx context.Context, id string) (*model.Link, error) {
			return &model.Link{
				ID:             id,
				UserID:         "user-1",
				Title:          "Old title",
				DestinationURL: "https://old.example.com",
				ShortCode:      "abc123",
				IsActive:       true,
			}, nil
		},
		updateFn: func(ctx context.Context, link *model.Link) error {
			if link.Title != "New title" {
				t.Fatalf("expected title update, got %s", link.Title)
			}
			if link.DestinationURL != "https://old.example.com" {
				t.Fatalf("untouched destination changed: %s", link.DestinationURL)
			}
			if link.IsActive {
				t.Fatal("expected link to be deactivated")
			}
			return nil
		},
	}

	svc := NewLinkService(repo, nil, nil)
	title := "New title"
	inactive := false
	_, err := svc.UpdateLink(context.Background(), "user-1", "link-1", UpdateLinkInput{
		Title:    &title,
		IsActive: &inactive,
	})
	if err != nil {
		t.Fatalf("UpdateLink returned error: %v", err)
	}
}

func TestLinkService_DeleteLink_ForeignLinkRefused(t *testing.T) {
	deleted := false
	repo := &mockLinkRepository{
		getFn: func(ctx context.Context, id string) (*model.Link, error) {
			return &model.Link{ID: id, UserID: "someone-else"}, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}

	svc := NewLinkService(repo, nil, nil)
	err := svc.DeleteLink(context.Background(), "user-1", "link-1")
	if !errors.Is(err, repository.ErrLinkNotFound) {
		t.Fatalf("expected ErrLinkNotFound, got %v", err)
	}
	if deleted {
		t.Fatal("foreign link must not be deleted")
	}
}
