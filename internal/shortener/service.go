package shortener

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jonesrussell/shorty/internal/domain"
	"github.com/jonesrussell/shorty/internal/logger"
	"github.com/jonesrussell/shorty/internal/shortcode"
	"github.com/jonesrussell/shorty/internal/storage"
)

// Metric label values for resolution outcomes.
const (
	ResolutionKindNumeric = "numeric"
	ResolutionKindKeyword = "keyword"
	OutcomeResolved       = "resolved"
	OutcomeNotFound       = "not_found"
)

// Metrics receives counters from the resolution and creation paths. A nil
// Metrics is replaced with a no-op implementation.
type Metrics interface {
	ObserveResolution(kind, outcome string)
	ObserveHitRecordFailure()
	ObserveLinkCreated(withKeyword bool)
}

type nopMetrics struct{}

func (nopMetrics) ObserveResolution(kind, outcome string) {}
func (nopMetrics) ObserveHitRecordFailure()               {}
func (nopMetrics) ObserveLinkCreated(withKeyword bool)    {}

// Service implements link resolution, creation, and management on top of the
// storage layer. It is safe for concurrent use; all state lives in the store.
type Service struct {
	links      storage.LinkStore
	namespaces storage.NamespaceStore
	owners     storage.OwnerStore
	log        logger.Logger
	metrics    Metrics
}

// New creates a shortener service.
func New(
	links storage.LinkStore,
	namespaces storage.NamespaceStore,
	owners storage.OwnerStore,
	log logger.Logger,
	metrics Metrics,
) *Service {
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &Service{
		links:      links,
		namespaces: namespaces,
		owners:     owners,
		log:        log,
		metrics:    metrics,
	}
}

// Resolve resolves a bare path segment. Marked segments decode to a numeric
// ID and resolve globally; everything else is a keyword lookup in the global
// namespace. All failures, including store errors, normalize to
// domain.ErrNotFound so the caller only ever distinguishes found from not
// found.
func (s *Service) Resolve(ctx context.Context, segment string) (string, error) {
	target, err := ParseTarget(segment)
	if err != nil {
		s.metrics.ObserveResolution(ResolutionKindNumeric, OutcomeNotFound)
		return "", domain.ErrNotFound
	}

	if target.Kind == TargetNumeric {
		return s.resolveNumeric(ctx, target.ID)
	}

	return s.resolveKeyword(ctx, target.Keyword, domain.NamespaceGlobal)
}

// ResolveIn resolves a keyword within a named namespace. A namespace segment
// of the form "~username" addresses that user's personal namespace.
func (s *Service) ResolveIn(ctx context.Context, nsSegment, keyword string) (string, error) {
	ns, err := s.lookupNamespace(ctx, strings.ToLower(nsSegment))
	if err != nil {
		s.reportLookupFailure("namespace", err)
		s.metrics.ObserveResolution(ResolutionKindKeyword, OutcomeNotFound)
		return "", domain.ErrNotFound
	}

	return s.resolveKeyword(ctx, strings.ToLower(keyword), ns.ID)
}

func (s *Service) resolveNumeric(ctx context.Context, id uint64) (string, error) {
	if id > math.MaxInt64 {
		// Decodable but beyond any ID the store can assign.
		s.metrics.ObserveResolution(ResolutionKindNumeric, OutcomeNotFound)
		return "", domain.ErrNotFound
	}

	link, err := s.links.GetByID(ctx, int64(id))
	if err != nil {
		s.reportLookupFailure("link by id", err)
		s.metrics.ObserveResolution(ResolutionKindNumeric, OutcomeNotFound)
		return "", domain.ErrNotFound
	}

	s.recordHit(ctx, link)
	s.metrics.ObserveResolution(ResolutionKindNumeric, OutcomeResolved)

	return link.URL, nil
}

func (s *Service) resolveKeyword(ctx context.Context, keyword string, namespaceID int64) (string, error) {
	link, err := s.links.GetByKeyword(ctx, keyword, namespaceID)
	if err != nil {
		s.reportLookupFailure("link by keyword", err)
		s.metrics.ObserveResolution(ResolutionKindKeyword, OutcomeNotFound)
		return "", domain.ErrNotFound
	}

	s.recordHit(ctx, link)
	s.metrics.ObserveResolution(ResolutionKindKeyword, OutcomeResolved)

	return link.URL, nil
}

// lookupNamespace maps a path namespace segment to a namespace record. The
// "~username" form resolves the owner's numeric ID first, then that owner's
// personal namespace.
func (s *Service) lookupNamespace(ctx context.Context, segment string) (*domain.Namespace, error) {
	if username, ok := strings.CutPrefix(segment, "~"); ok {
		owner, err := s.owners.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		return s.namespaces.GetByOwner(ctx, owner.ID)
	}

	return s.namespaces.GetByName(ctx, segment)
}

// recordHit applies the hit increment and last-used stamp for a resolved
// link. Failures are logged and swallowed so a redirect never fails because
// usage statistics could not be updated.
func (s *Service) recordHit(ctx context.Context, link *domain.Link) {
	if err := s.links.RecordHit(ctx, link.ID, time.Now().UTC()); err != nil {
		s.metrics.ObserveHitRecordFailure()
		s.log.Warn("failed to record hit",
			logger.Int64("link_id", link.ID),
			logger.Error(err),
		)
	}
}

// reportLookupFailure logs unexpected store errors on the resolution path.
// Plain misses are not logged; they are ordinary traffic.
func (s *Service) reportLookupFailure(what string, err error) {
	if !errors.Is(err, domain.ErrNotFound) {
		s.log.Warn("lookup failed", logger.String("lookup", what), logger.Error(err))
	}
}

// CreateParams carries a link creation request.
type CreateParams struct {
	URL     string
	Keyword string
	// Namespace names the target keyword namespace. Empty means the
	// creating owner's personal namespace.
	Namespace string
}

// CreateResult is a created link together with its canonical addresses.
type CreateResult struct {
	Link domain.Link
	// ShortCode is the marker-prefixed base-36 encoding of the link ID.
	ShortCode string
	// KeywordPath is the keyword URL path ("/docs", "/~alice/docs"), empty
	// when the link has no keyword.
	KeywordPath string
}

// Create validates and persists a new link for the given owner. Validation
// problems are collected into a single ValidationErrors value rather than
// returned one at a time. Claiming a keyword requires the keyword permission
// flag; the store's unique constraint is the authoritative duplicate check,
// the pre-check only produces a friendlier error before the insert.
func (s *Service) Create(
	ctx context.Context,
	owner *domain.Owner,
	perms *domain.Permissions,
	params CreateParams,
) (*CreateResult, error) {
	var problems ValidationErrors

	targetURL := normalizeURL(params.URL)
	if !validURL(targetURL) {
		problems = append(problems, msgInvalidURL)
	}

	keyword := strings.ToLower(strings.TrimSpace(params.Keyword))
	if keyword != "" {
		if !perms.Keyword {
			return nil, domain.ErrPermissionDenied
		}
		if !validKeyword(keyword) {
			problems = append(problems, msgInvalidKeyword)
		}
	}

	ns, err := s.creationNamespace(ctx, owner, params.Namespace)
	if err != nil {
		var nsProblems ValidationErrors
		if !errors.As(err, &nsProblems) {
			return nil, err
		}
		// Collected alongside any URL or keyword problems; with no resolved
		// namespace the uniqueness pre-check is moot.
		problems = append(problems, nsProblems...)
	}

	if ns != nil && keyword != "" && validKeyword(keyword) {
		taken, err := s.links.KeywordExists(ctx, keyword, ns.ID)
		if err != nil {
			return nil, fmt.Errorf("check keyword availability: %w", err)
		}
		if taken {
			problems = append(problems, msgKeywordTaken)
		}
	}

	if len(problems) > 0 {
		return nil, problems
	}

	createParams := storage.CreateLinkParams{
		URL:         targetURL,
		OwnerID:     owner.ID,
		NamespaceID: ns.ID,
	}
	if keyword != "" {
		createParams.Keyword = &keyword
	}

	link, err := s.links.Create(ctx, createParams)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveLinkCreated(keyword != "")
	s.log.Info("link created",
		logger.Int64("link_id", link.ID),
		logger.String("owner", owner.Username),
		logger.String("namespace", ns.Name),
	)

	return &CreateResult{
		Link:        *link,
		ShortCode:   shortcode.Encode(uint64(link.ID)),
		KeywordPath: keywordPath(ns.Name, keyword),
	}, nil
}

// creationNamespace resolves the namespace a new link lands in. An empty
// name selects the owner's personal namespace, creating it on first use.
func (s *Service) creationNamespace(ctx context.Context, owner *domain.Owner, name string) (*domain.Namespace, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	// "user" is the reserved name for the personal tier; requesting it means
	// the caller's own namespace.
	if name == "" || name == "user" || name == "~"+strings.ToLower(owner.Username) {
		return s.namespaces.GetOrCreateForOwner(ctx, owner)
	}

	ns, err := s.lookupNamespace(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ValidationErrors{fmt.Sprintf("namespace %q does not exist", name)}
		}
		return nil, fmt.Errorf("resolve namespace: %w", err)
	}

	// Personal namespaces are writable only by their owner.
	if ns.Personal() && (ns.OwnerID == nil || *ns.OwnerID != owner.ID) {
		return nil, domain.ErrPermissionDenied
	}

	return ns, nil
}

// UpdateURL changes an existing link's destination. Only the owning user or
// an admin may update a link, and either needs the edit permission flag. The
// permission check happens before any mutation.
func (s *Service) UpdateURL(
	ctx context.Context,
	actor *domain.Owner,
	perms *domain.Permissions,
	linkID int64,
	rawURL string,
) (*domain.Link, error) {
	link, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		return nil, err
	}

	if !perms.Edit {
		return nil, domain.ErrPermissionDenied
	}
	if link.OwnerID != actor.ID && !perms.Admin {
		return nil, domain.ErrPermissionDenied
	}

	targetURL := normalizeURL(rawURL)
	if !validURL(targetURL) {
		return nil, ValidationErrors{msgInvalidURL}
	}

	if err := s.links.UpdateURL(ctx, linkID, targetURL); err != nil {
		return nil, err
	}

	link.URL = targetURL
	s.log.Info("link updated",
		logger.Int64("link_id", linkID),
		logger.String("actor", actor.Username),
	)

	return link, nil
}

// LinkView is a link record decorated with its canonical addresses for API
// listings.
type LinkView struct {
	domain.Link
	ShortCode   string `json:"short_code"`
	KeywordPath string `json:"keyword_path,omitempty"`
}

// List returns all links created by an owner, newest first.
func (s *Service) List(ctx context.Context, owner *domain.Owner) ([]LinkView, error) {
	owned, err := s.links.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	views := make([]LinkView, 0, len(owned))
	for _, rec := range owned {
		view := LinkView{
			Link:      rec.Link,
			ShortCode: shortcode.Encode(uint64(rec.Link.ID)),
		}
		if rec.Link.Keyword != nil {
			view.KeywordPath = keywordPath(rec.NamespaceName, *rec.Link.Keyword)
		}
		views = append(views, view)
	}

	return views, nil
}

// keywordPath renders the public path for a keyword. Global keywords live at
// the root; namespaced keywords carry their namespace segment, which for
// personal namespaces already includes the "~" prefix.
func keywordPath(namespaceName, keyword string) string {
	if keyword == "" {
		return ""
	}
	if namespaceName == "global" {
		return "/" + keyword
	}
	return "/" + namespaceName + "/" + keyword
}
