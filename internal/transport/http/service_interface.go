package http

import (
	"context"

	"claimsdash/internal/ingest"
	"claimsdash/internal/services"
	"claimsdash/pkg/contracts/domain"
)

// DashboardService is the service surface the handlers depend on. Defined
// here so tests can substitute a stub.
type DashboardService interface {
	LoadFile(ctx context.Context, src ingest.Source) (*services.DashboardSummary, error)
	Summary(ctx context.Context) (*services.DashboardSummary, error)
	KPIs(ctx context.Context) (*services.KPISet, error)
	Pivots(ctx context.Context) (domain.PivotDict, error)
	Records(ctx context.Context, subset string) ([]domain.ClaimRecord, error)
	FilterOptions(ctx context.Context) (map[string][]string, error)
	Filters(ctx context.Context) (domain.FilterState, error)
	SetFilters(ctx context.Context, f domain.FilterState) error
	Reset(ctx context.Context)
	FilteredData(ctx context.Context) (*domain.ProcessedData, error)
	SourceName() string
}
