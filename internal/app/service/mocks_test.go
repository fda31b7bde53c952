package service

import (
	"context"
	"time"

	"github.com/linkdeck/linkdeck/internal/app/model"
	"github.com/linkdeck/linkdeck/internal/app/repository"
)

type mockLinkRepository struct {
	createFn        func(ctx context.Context, link *model.Link) error
	getFn           func(ctx context.Context, id string) (*model.Link, error)
	findActiveFn    func(ctx context.Context, code string) (*model.Link, error)
	codeExistsFn    func(ctx context.Context, code string) (bool, error)
	listFn          func(ctx context.Context, userID string) ([]model.Link, error)
	updateFn        func(ctx context.Context, link *model.Link) error
	deleteFn        func(ctx context.Context, id string) error
	incrementFn     func(ctx context.Context, id string) error
	allShortCodesFn func(ctx context.Context) ([]string, error)
}

func (m *mockLinkRepository) Create(ctx context.Context, link *model.Link) error {
	if m.createFn != nil {
		return m.createFn(ctx, link)
	}
	return nil
}

func (m *mockLinkRepository) GetByID(ctx context.Context, id string) (*model.Link, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, repository.ErrLinkNotFound
}

func (m *mockLinkRepository) FindActiveStandaloneByCode(ctx context.Context, code string) (*model.Link, error) {
	if m.findActiveFn != nil {
		return m.findActiveFn(ctx, code)
	}
	return nil, repository.ErrLinkNotFound
}

func (m *mockLinkRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	if m.codeExistsFn != nil {
		return m.codeExistsFn(ctx, code)
	}
	return false, nil
}

func (m *mockLinkRepository) ListStandaloneByUser(ctx context.Context, userID string) ([]model.Link, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockLinkRepository) Update(ctx context.Context, link *model.Link) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, link)
	}
	return nil
}

func (m *mockLinkRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockLinkRepository) IncrementClickCount(ctx context.Context, id string) error {
	if m.incrementFn != nil {
		return m.incrementFn(ctx, id)
	}
	return nil
}

func (m *mockLinkRepository) AllShortCodes(ctx context.Context) ([]string, error) {
	if m.allShortCodesFn != nil {
		return m.allShortCodesFn(ctx)
	}
	return nil, nil
}

type mockPageRepository struct {
	createFn       func(ctx context.Context, page *model.LandingPage) error
	getFn          func(ctx context.Context, id string) (*model.LandingPage, error)
	getWithLinksFn func(ctx context.Context, id string) (*model.LandingPage, error)
	findPublicFn   func(ctx context.Context, slug string) (*model.LandingPage, error)
	slugExistsFn   func(ctx context.Context, slug string) (bool, error)
	listFn         func(ctx context.Context, userID string) ([]model.LandingPage, error)
	updateFn       func(ctx context.Context, page *model.LandingPage) error
	deleteFn       func(ctx context.Context, id string) error
	incrementFn    func(ctx context.Context, id string) error
	allSlugsFn     func(ctx context.Context) ([]string, error)
}

func (m *mockPageRepository) Create(ctx context.Context, page *model.LandingPage) error {
	if m.createFn != nil {
		return m.createFn(ctx, page)
	}
	return nil
}

func (m *mockPageRepository) GetByID(ctx context.Context, id string) (*model.LandingPage, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, repository.ErrPageNotFound
}

func (m *mockPageRepository) GetByIDWithLinks(ctx context.Context, id string) (*model.LandingPage, error) {
	if m.getWithLinksFn != nil {
		return m.getWithLinksFn(ctx, id)
	}
	return nil, repository.ErrPageNotFound
}

func (m *mockPageRepository) FindPublicBySlug(ctx context.Context, slug string) (*model.LandingPage, error) {
	if m.findPublicFn != nil {
		return m.findPublicFn(ctx, slug)
	}
	return nil, repository.ErrPageNotFound
}

func (m *mockPageRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	if m.slugExistsFn != nil {
		return m.slugExistsFn(ctx, slug)
	}
	return false, nil
}

func (m *mockPageRepository) ListByUser(ctx context.Context, userID string) ([]model.LandingPage, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockPageRepository) Update(ctx context.Context, page *model.LandingPage) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, page)
	}
	return nil
}

func (m *mockPageRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockPageRepository) IncrementViewCount(ctx context.Context, id string) error {
	if m.incrementFn != nil {
		return m.incrementFn(ctx, id)
	}
	return nil
}

func (m *mockPageRepository) AllSlugs(ctx context.Context) ([]string, error) {
	if m.allSlugsFn != nil {
		return m.allSlugsFn(ctx)
	}
	return nil, nil
}

type mockClickSink struct {
	recordFn func(event model.ClickEvent) error
}

func (m *mockClickSink) Record(event model.ClickEvent) error {
	if m.recordFn != nil {
		return m.recordFn(event)
	}
	return nil
}

func waitForSignal(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	case <-time.After(2 * time.Second):
		return false
	}
}
