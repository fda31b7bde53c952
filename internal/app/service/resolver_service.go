package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/linkdeck/linkdeck/internal/app/model"
	"github.com/linkdeck/linkdeck/internal/app/repository"
	"github.com/linkdeck/linkdeck/internal/app/urlrewrite"
	infraprom "github.com/linkdeck/linkdeck/internal/infra/prometheus"
	"go.uber.org/zap"
)

// recordTimeout bounds the background click bookkeeping so a stalled store
// cannot accumulate goroutines.
const recordTimeout = 5 * time.Second

var (
	// ErrSegmentNotFound signals that a segment names neither an active
	// standalone short link nor a public landing page.
	ErrSegmentNotFound = errors.New("segment not found")
	// ErrBadDestination signals a stored destination URL that cannot be
	// rewritten; the redirect is aborted.
	ErrBadDestination = urlrewrite.ErrInvalidDestination
)

// RequestMeta carries the client context of a resolution request.
type RequestMeta struct {
	IP        string
	UserAgent string
	Referrer  string
	UserID    *string
}

// Resolution is the outcome of resolving a path segment: either a redirect
// target or a landing page to render.
type Resolution struct {
	RedirectURL string
	Page        *model.LandingPage
}

// IsRedirect reports whether the segment resolved to a short link.
func (r *Resolution) IsRedirect() bool { return r.RedirectURL != "" }

// ResolverService maps an inbound path segment to a redirect or a landing
// page. Short links win over pages when both namespaces hold the segment.
type ResolverService interface {
	Resolve(ctx context.Context, segment string, meta RequestMeta) (*Resolution, error)
}

type resolverService struct {
	links  repository.LinkRepository
	pages  repository.PageRepository
	clicks ClickSink
	filter *SegmentFilter
	cache  *LinkCache
	logger *zap.Logger
}

// ResolverDeps groups the resolver's collaborators. Filter and Cache are
// optional fast paths; Clicks may be nil to disable click recording.
type ResolverDeps struct {
	Links  repository.LinkRepository
	Pages  repository.PageRepository
	Clicks ClickSink
	Filter *SegmentFilter
	Cache  *LinkCache
	Logger *zap.Logger
}

// NewResolverService builds the catch-all resolver.
func NewResolverService(deps ResolverDeps) ResolverService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &resolverService{
		links:  deps.Links,
		pages:  deps.Pages,
		clicks: deps.Clicks,
		filter: deps.Filter,
		cache:  deps.Cache,
		logger: logger,
	}
}

func (s *resolverService) Resolve(ctx context.Context, segment string, meta RequestMeta) (*Resolution, error) {
	if s.filter != nil && !s.filter.MightContain(segment) {
		infraprom.ResolutionsTotal.WithLabelValues(infraprom.OutcomeNotFound).Inc()
		return nil, ErrSegmentNotFound
	}

	link, err := s.lookupLink(ctx, segment)
	if err == nil {
		target, err := urlrewrite.Build(link)
		if err != nil {
			// Destinations are validated on write, so a parse failure here
			// means the stored row is corrupt. Abort instead of redirecting
			// somewhere malformed.
			s.logger.Error("stored destination failed to rewrite",
				zap.String("link_id", link.ID),
				zap.String("destination", link.DestinationURL),
				zap.Error(err))
			infraprom.ResolutionsTotal.WithLabelValues(infraprom.OutcomeError).Inc()
			return nil, err
		}

		go s.recordClick(link, meta)

		infraprom.ResolutionsTotal.WithLabelValues(infraprom.OutcomeRedirect).Inc()
		return &Resolution{RedirectURL: target}, nil
	}
	if !errors.Is(err, repository.ErrLinkNotFound) {
		infraprom.ResolutionsTotal.WithLabelValues(infraprom.OutcomeError).Inc()
		return nil, fmt.Errorf("resolve link: %w", err)
	}

	page, err := s.pages.FindPublicBySlug(ctx, segment)
	if err != nil {
		if errors.Is(err, repository.ErrPageNotFound) {
			infraprom.ResolutionsTotal.WithLabelValues(infraprom.OutcomeNotFound).Inc()
			return nil, ErrSegmentNotFound
		}
		infraprom.ResolutionsTotal.WithLabelValues(infraprom.OutcomeError).Inc()
		return nil, fmt.Errorf("resolve page: %w", err)
	}

	go s.recordView(page.ID)

	infraprom.ResolutionsTotal.WithLabelValues(infraprom.OutcomePage).Inc()
	return &Resolution{Page: page}, nil
}

func (s *resolverService) lookupLink(ctx context.Context, code string) (*model.Link, error) {
	if s.cache != nil {
		if link := s.cache.Get(ctx, code); link != nil {
			return link, nil
		}
	}

	link, err := s.links.FindActiveStandaloneByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, link)
	}
	return link, nil
}

// recordClick runs detached from the request: the counter increment and the
// click event publish are both best-effort and their failures only reach the
// log, never the redirect response.
func (s *resolverService) recordClick(link *model.Link, meta RequestMeta) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := s.links.IncrementClickCount(ctx, link.ID); err != nil {
		s.logger.Error("failed to increment click count",
			zap.String("link_id", link.ID), zap.Error(err))
	}

	if s.clicks == nil {
		return
	}
	event := model.ClickEvent{
		LinkID:    link.ID,
		UserID:    meta.UserID,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
		Timestamp: time.Now(),
	}
	if err := s.clicks.Record(event); err != nil {
		s.logger.Error("failed to record click event",
			zap.String("link_id", link.ID), zap.Error(err))
	}
}

func (s *resolverService) recordView(pageID string) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := s.pages.IncrementViewCount(ctx, pageID); err != nil {
		s.logger.Error("failed to increment view count",
			zap.String("page_id", pageID), zap.Error(err))
	}
}
