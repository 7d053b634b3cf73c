package suggest

import (
	"context"
	"strings"
	"time"

	"smoothie-catalog/internal/infrastructure/config"
	"smoothie-catalog/internal/pkg/common"

	"go.uber.org/zap"
)

const (
	defaultSuggestLimit = 8
	maxSuggestLimit     = 30
)

// Request asks for image suggestions for one record. At least a title or
// one tag is required.
type Request struct {
	Title        string   `json:"title"`
	Tags         []string `json:"tags"`
	Limit        int      `json:"limit"`
	ForceRefresh bool     `json:"forceRefresh"`
}

// Response is the resolved suggestion result.
type Response struct {
	Query     string   `json:"query"`
	CacheKey  string   `json:"cacheKey"`
	FromCache bool     `json:"fromCache"`
	Providers []string `json:"providers"`
	Items     []Item   `json:"items"`
}

// Service resolves image suggestions: cache first, then the provider chain
// in a fixed priority order with sequential early-exit fan-out.
type Service struct {
	cfg       *config.Config
	store     *Store
	providers []Provider
}

// NewService creates the suggestion service with the standard provider
// order: Unsplash, then Pexels, then Pixabay.
func NewService(cfg *config.Config, store *Store) *Service {
	return &Service{
		cfg:   cfg,
		store: store,
		providers: []Provider{
			NewUnsplashProvider(cfg.Images.UnsplashKey),
			NewPexelsProvider(cfg.Images.PexelsKey),
			NewPixabayProvider(cfg.Images.PixabayKey),
		},
	}
}

// Suggest returns cached or freshly fetched image suggestions.
func (s *Service) Suggest(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.Title) == "" && len(req.Tags) == 0 {
		return nil, common.NewValidationError("either title or tags is required")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultSuggestLimit
	}
	if limit > maxSuggestLimit {
		limit = maxSuggestLimit
	}

	query := BuildQuery(req.Title, req.Tags)
	key := CacheKey(query, limit)

	if !req.ForceRefresh {
		if entry, ok := s.store.Get(key); ok {
			common.LogCacheHit("image-suggestion", key)
			items := entry.Items
			if len(items) > limit {
				items = items[:limit]
			}
			return &Response{
				Query:     query,
				CacheKey:  key,
				FromCache: true,
				Providers: entry.Providers,
				Items:     items,
			}, nil
		}
		common.LogCacheMiss("image-suggestion", key)
	}

	items, contributed := s.fetch(ctx, query, limit)
	if items == nil {
		items = []Item{}
	}

	ttl := s.cfg.Images.CacheTTL
	if len(items) == 0 {
		// a transient all-providers-down result must not live for weeks
		ttl = s.cfg.Images.EmptyCacheTTL
	}

	now := time.Now().UTC()
	entry := Entry{
		Key:       key,
		Query:     query,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		Providers: contributed,
		Items:     items,
	}
	s.store.Put(entry)
	s.store.PersistAsync()

	return &Response{
		Query:     query,
		CacheKey:  key,
		FromCache: false,
		Providers: contributed,
		Items:     items,
	}, nil
}

// fetch walks the provider chain sequentially and stops as soon as the
// accumulated sanitized results reach the limit.
func (s *Service) fetch(ctx context.Context, query string, limit int) ([]Item, []string) {
	var (
		items       []Item
		contributed []string
		seenURL     = make(map[string]struct{})
	)

	for _, provider := range s.providers {
		if len(items) >= limit {
			break
		}
		if !provider.Available() {
			common.LogDebug("provider skipped, no credential",
				zap.String("provider", provider.Name()),
			)
			continue
		}

		start := time.Now()
		callCtx, cancel := context.WithTimeout(ctx, s.cfg.Images.ProviderTimeout)
		results, err := provider.Search(callCtx, query, limit)
		cancel()
		common.LogProviderCall(provider.Name(), time.Since(start), len(results), err)
		if err != nil {
			// transient provider failure contributes zero results
			continue
		}

		added := 0
		for _, item := range results {
			if len(items) >= limit {
				break
			}
			if !isAbsoluteHTTPURL(item.URL) {
				continue
			}
			if _, dup := seenURL[item.URL]; dup {
				continue
			}
			seenURL[item.URL] = struct{}{}
			items = append(items, item)
			added++
		}
		if added > 0 {
			contributed = append(contributed, provider.Name())
		}
	}

	return items, contributed
}

func isAbsoluteHTTPURL(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}
