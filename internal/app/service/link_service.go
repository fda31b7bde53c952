package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/linkdeck/linkdeck/internal/app/model"
	"github.com/linkdeck/linkdeck/internal/app/repository"
)

const (
	shortCodeAlphabet    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	defaultCodeLength    = 8
	maxCodeRetries       = 5
	maxDestinationLength = 2048
)

var (
	// ErrShortCodeTaken signals a collision on the globally unique short code.
	ErrShortCodeTaken = errors.New("short code is already taken")
	// ErrInvalidDestinationURL signals a destination that is not an absolute URL.
	ErrInvalidDestinationURL = errors.New("destination must be an absolute URL")
)

// LinkService defines behaviour-level operations on standalone short links.
type LinkService interface {
	CreateLink(ctx context.Context, input CreateLinkInput) (*model.Link, error)
	GetLink(ctx context.Context, userID, id string) (*model.Link, error)
	ListLinks(ctx context.Context, userID string) ([]model.Link, error)
	UpdateLink(ctx context.Context, userID, id string, input UpdateLinkInput) (*model.Link, error)
	DeleteLink(ctx context.Context, userID, id string) error
}

type linkService struct {
	repo   repository.LinkRepository
	filter *SegmentFilter
	cache  *LinkCache
}

// NewLinkService returns a service implementation backed by the given
// repository. filter and cache are optional.
func NewLinkService(repo repository.LinkRepository, filter *SegmentFilter, cache *LinkCache) LinkService {
	return &linkService{repo: repo, filter: filter, cache: cache}
}

// CreateLinkInput captures data required to create a standalone link.
type CreateLinkInput struct {
	UserID         string
	Title          string
	Description    *string
	DestinationURL string
	ShortCode      string // empty means generate one
	ExpirationDate *time.Time
	UTMSource      *string
	UTMMedium      *string
	UTMCampaign    *string
	UTMTerm        *string
	UTMContent     *string
	CustomParams   model.CustomParams
}

// UpdateLinkInput captures fields that can be changed on an existing link.
// Nil pointers leave the field untouched.
type UpdateLinkInput struct {
	Title          *string
	Description    *string
	DestinationURL *string
	ExpirationDate *time.Time
	IsActive       *bool
	UTMSource      *string
	UTMMedium      *string
	UTMCampaign    *string
	UTMTerm        *string
	UTMContent     *string
	CustomParams   *model.CustomParams
}

func (s *linkService) CreateLink(ctx context.Context, input CreateLinkInput) (*model.Link, error) {
	if err := validateDestination(input.DestinationURL); err != nil {
		return nil, err
	}

	code := input.ShortCode
	if code == "" {
		generated, err := s.generateShortCode(ctx, defaultCodeLength)
		if err != nil {
			return nil, fmt.Errorf("generate short code: %w", err)
		}
		code = generated
	} else {
		// Short codes are globally unique across all users.
		taken, err := s.repo.CodeExists(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("check short code: %w", err)
		}
		if taken {
			return nil, ErrShortCodeTaken
		}
	}

	link := &model.Link{
		ID:             uuid.New().String(),
		UserID:         input.UserID,
		LandingPageID:  nil,
		Title:          input.Title,
		Description:    input.Description,
		DestinationURL: input.DestinationURL,
		ShortCode:      code,
		ExpirationDate: input.ExpirationDate,
		IsActive:       true,
		UTMSource:      input.UTMSource,
		UTMMedium:      input.UTMMedium,
		UTMCampaign:    input.UTMCampaign,
		UTMTerm:        input.UTMTerm,
		UTMContent:     input.UTMContent,
		CustomParams:   input.CustomParams,
	}

	if err := s.repo.Create(ctx, link); err != nil {
		return nil, fmt.Errorf("create link: %w", err)
	}

	if s.filter != nil {
		s.filter.Add(code)
	}
	return link, nil
}

func (s *linkService) GetLink(ctx context.Context, userID, id string) (*model.Link, error) {
	link, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get link: %w", err)
	}
	if link.UserID != userID {
		return nil, repository.ErrLinkNotFound
	}
	return link, nil
}

func (s *linkService) ListLinks(ctx context.Context, userID string) ([]model.Link, error) {
	links, err := s.repo.ListStandaloneByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}

func (s *linkService) UpdateLink(ctx context.Context, userID, id string, input UpdateLinkInput) (*model.Link, error) {
	link, err := s.GetLink(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		link.Title = *input.Title
	}
	if input.Description != nil {
		link.Description = input.Description
	}
	if input.DestinationURL != nil {
		if err := validateDestination(*input.DestinationURL); err != nil {
			return nil, err
		}
		link.DestinationURL = *input.DestinationURL
	}
	if input.ExpirationDate != nil {
		link.ExpirationDate = input.ExpirationDate
	}
	if input.IsActive != nil {
		link.IsActive = *input.IsActive
	}
	if input.UTMSource != nil {
		link.UTMSource = input.UTMSource
	}
	if input.UTMMedium != nil {
		link.UTMMedium = input.UTMMedium
	}
	if input.UTMCampaign != nil {
		link.UTMCampaign = input.UTMCampaign
	}
	if input.UTMTerm != nil {
		link.UTMTerm = input.UTMTerm
	}
	if input.UTMContent != nil {
		link.UTMContent = input.UTMContent
	}
	if input.CustomParams != nil {
		link.CustomParams = *input.CustomParams
	}

	if err := s.repo.Update(ctx, link); err != nil {
		return nil, fmt.Errorf("update link: %w", err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, link.ShortCode)
	}
	return link, nil
}

func (s *linkService) DeleteLink(ctx context.Context, userID, id string) error {
	link, err := s.GetLink(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete link: %w", err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, link.ShortCode)
	}
	return nil
}

// generateShortCode draws a random code and retries with a longer one on
// collision, mirroring how collisions stay cheap while codes stay short.
func (s *linkService) generateShortCode(ctx context.Context, length int) (string, error) {
	for attempt := 0; attempt < maxCodeRetries; attempt++ {
		code, err := randomCode(length + attempt)
		if err != nil {
			return "", err
		}
		taken, err := s.repo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", errors.New("could not find a free short code")
}

func randomCode(length int) (string, error) {
	buf := make([]byte, length)
	max := big.NewInt(int64(len(shortCodeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = shortCodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

func validateDestination(raw string) error {
	if raw == "" || len(raw) > maxDestinationLength {
		return ErrInvalidDestinationURL
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ErrInvalidDestinationURL
	}
	return nil
}
