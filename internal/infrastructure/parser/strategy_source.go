package parser

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"DataDigest/internal/config"
	"DataDigest/internal/domain"
	"DataDigest/internal/ports"
	"DataDigest/internal/scanner"
)

// StrategySource implements ArticleSource via registered scanner strategies.
type StrategySource struct {
	registry *scanner.Registry
	sites    []config.SiteConfig
	logger   *slog.Logger
}

var _ ports.ArticleSource = (*StrategySource)(nil)

// NewStrategySource wires scanner registry with config-defined sites.
func NewStrategySource(reg *scanner.Registry, sites []config.SiteConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sites:    sites,
		logger:   log,
	}
}

// FetchDaily iterates over configured sites and executes their scanners.
// Articles repeated across sites are kept once, first occurrence wins.
func (s *StrategySource) FetchDaily(ctx context.Context, day time.Time, rng *rand.Rand) ([]domain.Article, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	s.debug("fetch daily", "sites", len(s.sites), "day", day.Format("2006-01-02"))

	var aggregated []domain.Article
	seen := map[string]struct{}{}
	for _, site := range s.sites {
		s.debug("process site", "site", site.Name, "scanner", site.Scanner, "categories", len(site.Categories))
		strategy, err := s.registry.Resolve(site.Scanner)
		if err != nil {
			return nil, fmt.Errorf("site %s: %w", site.Name, err)
		}

		req := scanner.Request{
			Day:        day,
			SiteName:   site.Name,
			Options:    site.Options,
			Categories: toScannerCategories(site.Categories),
			Rand:       rng,
		}

		results, err := strategy.Scan(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("scan site %s: %w", site.Name, err)
		}

		kept := 0
		for _, article := range results {
			if article.Publication == "" {
				article.Publication = site.Name
			}
			key := article.URL
			if key == "" {
				key = article.ID
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			aggregated = append(aggregated, article)
			kept++
		}
		s.debug("site produced articles", "site", site.Name, "count", kept)
	}

	s.debug("strategy source done", "total_articles", len(aggregated))
	return aggregated, nil
}

func toScannerCategories(cfg []config.CategoryConfig) []scanner.Category {
	categories := make([]scanner.Category, 0, len(cfg))
	for _, cat := range cfg {
		categories = append(categories, scanner.Category{
			Name: cat.Name,
			URL:  cat.URL,
		})
	}
	return categories
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
