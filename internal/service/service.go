package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"arsip/internal/archive"
	"arsip/internal/cache"
	"arsip/internal/model"
	"arsip/internal/repository"
	"arsip/internal/storage"
)

// Transactor runs fn inside one database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

const (
	cacheKeyDashboard  = "dashboard:stats"
	cacheKeyCategories = "categories:tree"

	defaultPageSize = 10
	maxPageSize     = 100
)

// Deps wires the services. Unset optional fields get safe defaults.
type Deps struct {
	Tx         Transactor
	Documents  repository.DocumentRepository
	SPD        repository.SPDRepository
	Categories repository.CategoryRepository
	Employees  repository.EmployeeRepository
	Activities repository.ActivityRepository
	Users      repository.UserRepository
	Stats      repository.StatsRepository
	Store      storage.Storage
	Cache      cache.Cache
	Log        *zap.Logger

	Location       *time.Location
	MaxUploadBytes int64
	CacheTTL       time.Duration
	Now            func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Cache == nil {
		d.Cache = cache.Noop{}
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.MaxUploadBytes <= 0 {
		d.MaxUploadBytes = archive.DefaultMaxUploadBytes
	}
	if d.CacheTTL <= 0 {
		d.CacheTTL = 5 * time.Minute
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// today is the current instant in the archive time zone.
func (d Deps) today() time.Time {
	return d.Now().In(d.Location)
}

// PageParams is 1-based page addressing as used by the API.
type PageParams struct {
	Page     int
	PageSize int
}

func (p PageParams) normalize() PageParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

func (p PageParams) query() repository.PageQuery {
	return repository.PageQuery{Limit: p.PageSize, Offset: (p.Page - 1) * p.PageSize}
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items      []model.Document `json:"data"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

func newListResult(res *repository.PageResult[model.Document], p PageParams) *DocumentListResult {
	pages := 0
	if res.Total > 0 {
		pages = (res.Total + p.PageSize - 1) / p.PageSize
	}
	return &DocumentListResult{
		Items:      res.Items,
		Total:      res.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: pages,
	}
}

func requireWriter(actor *model.User) error {
	if !actor.CanWrite() {
		return ErrForbidden
	}
	return nil
}
