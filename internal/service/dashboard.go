package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"arsip/internal/cache"
	"arsip/internal/model"
	"arsip/internal/repository"
)

const (
	dashboardMonths    = 12
	dashboardUploaders = 5
)

// DashboardService aggregates archive statistics.
type DashboardService interface {
	Stats(ctx context.Context) (*model.DashboardStats, error)
	// MonthlyReport summarises documents created in the given month.
	MonthlyReport(ctx context.Context, year int, month time.Month) (*MonthlyReport, error)
}

type dashboardService struct {
	stats    repository.StatsRepository
	cache    cache.Cache
	log      *zap.Logger
	loc      *time.Location
	cacheTTL time.Duration
	now      func() time.Time
}

func NewDashboardService(d Deps) DashboardService {
	d = d.withDefaults()
	return &dashboardService{
		stats:    d.Stats,
		cache:    d.Cache,
		log:      d.Log,
		loc:      d.Location,
		cacheTTL: d.CacheTTL,
		now:      d.today,
	}
}

// Stats runs the independent aggregates concurrently. A cached snapshot is
// served until a document write invalidates it or the TTL expires.
func (s *dashboardService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	var cached model.DashboardStats
	hit, err := s.cache.GetJSON(ctx, cacheKeyDashboard, &cached)
	if err != nil {
		s.log.Warn("cache_read_failed", zap.String("key", cacheKeyDashboard), zap.Error(err))
	}
	if hit {
		return &cached, nil
	}

	now := s.now()
	since := time.Date(now.Year(), now.Month()-(dashboardMonths-1), 1, 0, 0, 0, 0, s.loc)

	var (
		out     model.DashboardStats
		monthly []model.MonthCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.TotalDocuments, err = s.stats.CountDocuments(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.TotalSPD, err = s.stats.CountInCategory(gctx, model.CategorySlugSPD)
		return err
	})
	g.Go(func() (err error) {
		out.TotalBelanjaan, err = s.stats.CountUnderParent(gctx, model.CategorySlugBelanjaan)
		return err
	})
	g.Go(func() (err error) {
		monthly, err = s.stats.MonthlyCounts(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		out.CategoryBreakdown, err = s.stats.CategoryBreakdown(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.TopUploaders, err = s.stats.TopUploaders(gctx, dashboardUploaders)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out.MonthlyStats = fillMonths(since, dashboardMonths, monthly)

	if err := s.cache.SetJSON(ctx, cacheKeyDashboard, out, s.cacheTTL); err != nil {
		s.log.Warn("cache_write_failed", zap.String("key", cacheKeyDashboard), zap.Error(err))
	}
	return &out, nil
}

// fillMonths returns n consecutive buckets starting at since, with zero
// counts for months that had no documents.
func fillMonths(since time.Time, n int, counts []model.MonthCount) []model.MonthCount {
	type ym struct {
		y int
		m time.Month
	}
	byMonth := make(map[ym]int, len(counts))
	for _, c := range counts {
		byMonth[ym{c.Month.Year(), c.Month.Month()}] += c.Count
	}
	out := make([]model.MonthCount, n)
	for i := range out {
		m := since.AddDate(0, i, 0)
		out[i] = model.MonthCount{Month: m, Count: byMonth[ym{m.Year(), m.Month()}]}
	}
	return out
}
