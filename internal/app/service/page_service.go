package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/linkdeck/linkdeck/internal/app/model"
	"github.com/linkdeck/linkdeck/internal/app/repository"
)

var (
	// ErrSlugTaken signals a collision on the globally unique page slug.
	ErrSlugTaken = errors.New("slug is already taken")
)

// PageService defines behaviour-level operations on landing pages and their
// child links.
type PageService interface {
	CreatePage(ctx context.Context, input CreatePageInput) (*model.LandingPage, error)
	GetPage(ctx context.Context, userID, id string) (*model.LandingPage, error)
	ListPages(ctx context.Context, userID string) ([]model.LandingPage, error)
	UpdatePage(ctx context.Context, userID, id string, input UpdatePageInput) (*model.LandingPage, error)
	DeletePage(ctx context.Context, userID, id string) error
	AddPageLink(ctx context.Context, userID, pageID string, input AddPageLinkInput) (*model.Link, error)
	ReorderPageLinks(ctx context.Context, userID, pageID string, orderedLinkIDs []string) error
}

type pageService struct {
	pages  repository.PageRepository
	links  repository.LinkRepository
	filter *SegmentFilter
}

// NewPageService returns a service implementation backed by the given
// repositories. filter is optional.
func NewPageService(pages repository.PageRepository, links repository.LinkRepository, filter *SegmentFilter) PageService {
	return &pageService{pages: pages, links: links, filter: filter}
}

// CreatePageInput captures data required to create a landing page.
type CreatePageInput struct {
	UserID      string
	Slug        string
	ProfileName string
	Bio         *string
	ThemeConfig *model.ThemeConfig
}

// UpdatePageInput captures fields that can be changed on an existing page.
type UpdatePageInput struct {
	Slug        *string
	ProfileName *string
	Bio         *string
	ThemeConfig *model.ThemeConfig
	Visibility  *string
}

// AddPageLinkInput captures data required to attach a link to a page. The
// short code is always generated; page links are not custom-addressable.
type AddPageLinkInput struct {
	Title          string
	Description    *string
	DestinationURL string
}

func (s *pageService) CreatePage(ctx context.Context, input CreatePageInput) (*model.LandingPage, error) {
	taken, err := s.pages.SlugExists(ctx, input.Slug)
	if err != nil {
		return nil, fmt.Errorf("check slug: %w", err)
	}
	if taken {
		return nil, ErrSlugTaken
	}

	page := &model.LandingPage{
		ID:          uuid.New().String(),
		UserID:      input.UserID,
		Slug:        input.Slug,
		ProfileName: input.ProfileName,
		Bio:         input.Bio,
		ThemeConfig: input.ThemeConfig,
		Visibility:  model.VisibilityPublic,
	}

	if err := s.pages.Create(ctx, page); err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	if s.filter != nil {
		s.filter.Add(page.Slug)
	}
	return page, nil
}

func (s *pageService) GetPage(ctx context.Context, userID, id string) (*model.LandingPage, error) {
	page, err := s.pages.GetByIDWithLinks(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}
	if page.UserID != userID {
		return nil, repository.ErrPageNotFound
	}
	return page, nil
}

func (s *pageService) ListPages(ctx context.Context, userID string) ([]model.LandingPage, error) {
	pages, err := s.pages.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return pages, nil
}

func (s *pageService) UpdatePage(ctx context.Context, userID, id string, input UpdatePageInput) (*model.LandingPage, error) {
	page, err := s.GetPage(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Slug != nil && *input.Slug != page.Slug {
		taken, err := s.pages.SlugExists(ctx, *input.Slug)
		if err != nil {
			return nil, fmt.Errorf("check slug: %w", err)
		}
		if taken {
			return nil, ErrSlugTaken
		}
		page.Slug = *input.Slug
		if s.filter != nil {
			s.filter.Add(page.Slug)
		}
	}
	if input.ProfileName != nil {
		page.ProfileName = *input.ProfileName
	}
	if input.Bio != nil {
		page.Bio = input.Bio
	}
	if input.ThemeConfig != nil {
		page.ThemeConfig = input.ThemeConfig
	}
	if input.Visibility != nil {
		if *input.Visibility != model.VisibilityPublic && *input.Visibility != model.VisibilityPrivate {
			return nil, fmt.Errorf("invalid visibility %q", *input.Visibility)
		}
		page.Visibility = *input.Visibility
	}

	if err := s.pages.Update(ctx, page); err != nil {
		return nil, fmt.Errorf("update page: %w", err)
	}
	return page, nil
}

func (s *pageService) DeletePage(ctx context.Context, userID, id string) error {
	if _, err := s.GetPage(ctx, userID, id); err != nil {
		return err
	}
	// Child links survive as standalone links; the repository detaches them.
	if err := s.pages.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	return nil
}

func (s *pageService) AddPageLink(ctx context.Context, userID, pageID string, input AddPageLinkInput) (*model.Link, error) {
	page, err := s.GetPage(ctx, userID, pageID)
	if err != nil {
		return nil, err
	}
	if err := validateDestination(input.DestinationURL); err != nil {
		return nil, err
	}

	code, err := s.generateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate short code: %w", err)
	}

	link := &model.Link{
		ID:             uuid.New().String(),
		UserID:         userID,
		LandingPageID:  &page.ID,
		Title:          input.Title,
		Description:    input.Description,
		DestinationURL: input.DestinationURL,
		ShortCode:      code,
		Position:       len(page.Links),
		IsActive:       true,
	}

	if err := s.links.Create(ctx, link); err != nil {
		return nil, fmt.Errorf("create page link: %w", err)
	}

	if s.filter != nil {
		s.filter.Add(code)
	}
	return link, nil
}

func (s *pageService) ReorderPageLinks(ctx context.Context, userID, pageID string, orderedLinkIDs []string) error {
	page, err := s.GetPage(ctx, userID, pageID)
	if err != nil {
		return err
	}

	owned := make(map[string]*model.Link, len(page.Links))
	for i := range page.Links {
		owned[page.Links[i].ID] = &page.Links[i]
	}

	for pos, id := range orderedLinkIDs {
		link, ok := owned[id]
		if !ok {
			return fmt.Errorf("link %s does not belong to page %s", id, pageID)
		}
		if link.Position == pos {
			continue
		}
		link.Position = pos
		if err := s.links.Update(ctx, link); err != nil {
			return fmt.Errorf("reorder link %s: %w", id, err)
		}
	}
	return nil
}

func (s *pageService) generateCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeRetries; attempt++ {
		code, err := randomCode(defaultCodeLength + attempt)
		if err != nil {
			return "", err
		}
		taken, err := s.links.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", errors.New("could not find a free short code")
}
