package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-intervention-api/internal/models"
)

const (
	domainListCacheKey = "domains:list"
	domainCacheKeyFmt  = "domains:%s"
	domainCachePattern = "domains:*"
)

type domainStore interface {
	List(ctx context.Context) ([]models.BehavioralDomain, error)
	FindByID(ctx context.Context, id string) (*models.BehavioralDomain, error)
}

// DomainService serves the behavioral domain catalog, cached when enabled.
type DomainService struct {
	repo   domainStore
	cache  *CacheService
	logger *zap.Logger
}

// NewDomainService constructs the service. cache may be nil.
func NewDomainService(repo domainStore, cache *CacheService, logger *zap.Logger) *DomainService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DomainService{repo: repo, cache: cache, logger: logger}
}

// List returns every domain. The second return reports a cache hit.
func (s *DomainService) List(ctx context.Context) ([]models.BehavioralDomain, bool, error) {
	var cached []models.BehavioralDomain
	if hit, _ := s.cache.Get(ctx, domainListCacheKey, &cached); hit {
		return cached, true, nil
	}

	domains, err := s.repo.List(ctx)
	if err != nil {
		return nil, false, mapError(err, "behavioral domain", "list behavioral domains")
	}
	if domains == nil {
		domains = []models.BehavioralDomain{}
	}
	_ = s.cache.Set(ctx, domainListCacheKey, domains, 0)
	return domains, false, nil
}

// Get returns one domain.
func (s *DomainService) Get(ctx context.Context, id string) (*models.BehavioralDomain, error) {
	domain, _, err := s.GetCached(ctx, id)
	return domain, err
}

// GetCached returns one domain and whether it came from the cache.
func (s *DomainService) GetCached(ctx context.Context, id string) (*models.BehavioralDomain, bool, error) {
	key := fmt.Sprintf(domainCacheKeyFmt, id)
	var cached models.BehavioralDomain
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	domain, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, false, mapError(err, "behavioral domain", "load behavioral domain")
	}
	_ = s.cache.Set(ctx, key, domain, 0)
	return domain, false, nil
}

// InvalidateCache drops every cached catalog entry, e.g. after migrations reseeded it.
func (s *DomainService) InvalidateCache(ctx context.Context) error {
	return s.cache.Invalidate(ctx, domainCachePattern)
}
