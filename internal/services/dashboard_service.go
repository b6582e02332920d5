// Package services holds the dashboard session: one in-memory dataset at a
// time, replaced wholesale on upload or reset, with filtered views derived on
// demand.
package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"claimsdash/internal/config"
	"claimsdash/internal/dataprocessing"
	apperrors "claimsdash/internal/errors"
	"claimsdash/internal/infrastructure"
	"claimsdash/internal/ingest"
	"claimsdash/pkg/contracts/domain"
)

// Record subset names accepted by the records and KPI endpoints.
const (
	SubsetAll          = "all"
	SubsetIntimation   = "intimation"
	SubsetRegistered   = "registered"
	SubsetUnderProcess = "under-process"
)

// Broadcaster pushes live updates to connected dashboards. The websocket hub
// satisfies it; tests use a recorder.
type Broadcaster interface {
	BroadcastProgress(source string, fraction float64)
	BroadcastStatus(message string)
	BroadcastError(message string)
	BroadcastRefresh(reason string)
}

// noopBroadcaster is used when no hub is wired (tests, CLI runs).
type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastProgress(string, float64) {}
func (noopBroadcaster) BroadcastStatus(string)            {}
func (noopBroadcaster) BroadcastError(string)             {}
func (noopBroadcaster) BroadcastRefresh(string)           {}

// DashboardSummary is the top-level dataset overview.
type DashboardSummary struct {
	SourceName        string             `json:"source_name"`
	LoadedAt          time.Time          `json:"loaded_at"`
	Filters           domain.FilterState `json:"filters"`
	TotalRecords      int                `json:"total_records"`
	FilteredRecords   int                `json:"filtered_records"`
	IntimationCount   int                `json:"intimation_count"`
	RegisteredCount   int                `json:"registered_count"`
	UnderProcessCount int                `json:"under_process_count"`
}

// KPISet carries the headline metrics per record subset.
type KPISet struct {
	All          domain.KPIData `json:"all"`
	Intimation   domain.KPIData `json:"intimation"`
	Registered   domain.KPIData `json:"registered"`
	UnderProcess domain.KPIData `json:"under_process"`
}

// sessionState is the immutable bundle swapped atomically under the mutex:
// the classified dataset plus the views derived for the active filters.
type sessionState struct {
	sourceName string
	loadedAt   time.Time
	data       *domain.ProcessedData
	filters    domain.FilterState
	filtered   *domain.ProcessedData
	pivots     domain.PivotDict
}

// DashboardService owns the session state and runs the pipeline.
type DashboardService struct {
	cfg       *config.Config
	logger    *slog.Logger
	hub       Broadcaster
	processor *dataprocessing.Processor
	loader    *ingest.Loader

	mu    sync.RWMutex
	state *sessionState
}

// NewDashboardService wires the service. hub may be nil.
func NewDashboardService(cfg *config.Config, hub Broadcaster, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if hub == nil {
		hub = noopBroadcaster{}
	}
	logger = logger.With(slog.String("component", "services.dashboard"))
	return &DashboardService{
		cfg:       cfg,
		logger:    logger,
		hub:       hub,
		processor: dataprocessing.NewProcessor(logger),
		loader:    ingest.NewLoader(cfg.Ingest.ChunkSize, logger),
	}
}

// LoadFile ingests an upload, classifies it, and replaces the session state.
// Progress is streamed to connected dashboards while batches arrive. On
// failure the previous dataset, if any, is kept.
func (s *DashboardService) LoadFile(ctx context.Context, src ingest.Source) (*DashboardSummary, error) {
	start := time.Now()
	s.hub.BroadcastStatus("loading " + src.Name)

	var (
		records []domain.ClaimRecord
		columns map[string]bool
	)

	batches := make(chan ingest.Batch)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(batches)
		return s.loader.Run(gctx, src, batches)
	})
	for batch := range batches {
		records = append(records, batch.Records...)
		columns = batch.Columns
		s.hub.BroadcastProgress(src.Name, batch.Progress)
	}
	if err := g.Wait(); err != nil {
		infrastructure.UploadsTotal.WithLabelValues("error").Inc()
		s.hub.BroadcastError("upload failed: " + err.Error())
		return nil, err
	}

	data := s.processor.Process(ctx, domain.Dataset{
		SourceName: src.Name,
		Records:    records,
		Columns:    columns,
	})

	state := &sessionState{
		sourceName: src.Name,
		loadedAt:   time.Now().UTC(),
		data:       data,
	}
	state.applyFilters(domain.FilterState{})

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	infrastructure.UploadsTotal.WithLabelValues("ok").Inc()
	infrastructure.RecordsProcessed.Add(float64(len(data.All)))
	infrastructure.PipelineDuration.Observe(time.Since(start).Seconds())

	s.hub.BroadcastStatus("dataset ready")
	s.hub.BroadcastRefresh("upload")
	return s.summaryLocked(state), nil
}

// applyFilters recomputes the filtered partitions and pivots for the given
// filter state. Records keep their classification; only membership changes.
func (st *sessionState) applyFilters(f domain.FilterState) {
	st.filters = f

	filtered := &domain.ProcessedData{
		All:     dataprocessing.ApplyFilters(st.data.All, f),
		Columns: st.data.Columns,
	}
	for _, rec := range filtered.All {
		switch rec.Status {
		case domain.StatusIntimationPending:
			filtered.Intimation = append(filtered.Intimation, rec)
		case domain.StatusRegistered:
			filtered.Registered = append(filtered.Registered, rec)
		case domain.StatusUnderProcess:
			filtered.UnderProcess = append(filtered.UnderProcess, rec)
		}
	}

	st.filtered = filtered
	st.pivots = dataprocessing.BuildPivotDict(filtered.Registered, filtered)
}

// SetFilters validates and applies a new filter state, recomputing every
// derived view.
func (s *DashboardService) SetFilters(ctx context.Context, f domain.FilterState) error {
	for category := range f.Categories {
		if !dataprocessing.IsFilterableCategory(category) {
			return apperrors.NewAppValidationError("unknown filter category: " + category)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return apperrors.NewNotFoundError("dataset")
	}
	s.state.applyFilters(f)

	s.logger.InfoContext(ctx, "filters applied",
		slog.Int("matched", len(s.state.filtered.All)),
		slog.Int("total", len(s.state.data.All)))
	s.hub.BroadcastRefresh("filters")
	return nil
}

// Reset drops the session dataset.
func (s *DashboardService) Reset(ctx context.Context) {
	s.mu.Lock()
	s.state = nil
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "session reset")
	s.hub.BroadcastRefresh("reset")
}

// Summary returns the dataset overview for the active filters.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil, apperrors.NewNotFoundError("dataset")
	}
	return s.summaryLocked(s.state), nil
}

func (s *DashboardService) summaryLocked(st *sessionState) *DashboardSummary {
	return &DashboardSummary{
		SourceName:        st.sourceName,
		LoadedAt:          st.loadedAt,
		Filters:           st.filters,
		TotalRecords:      len(st.data.All),
		FilteredRecords:   len(st.filtered.All),
		IntimationCount:   len(st.filtered.Intimation),
		RegisteredCount:   len(st.filtered.Registered),
		UnderProcessCount: len(st.filtered.UnderProcess),
	}
}

// KPIs returns headline metrics for every subset under the active filters.
func (s *DashboardService) KPIs(ctx context.Context) (*KPISet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil, apperrors.NewNotFoundError("dataset")
	}
	f := s.state.filtered
	return &KPISet{
		All:          dataprocessing.SummarizeKPIs(f.All),
		Intimation:   dataprocessing.SummarizeKPIs(f.Intimation),
		Registered:   dataprocessing.SummarizeKPIs(f.Registered),
		UnderProcess: dataprocessing.SummarizeKPIs(f.UnderProcess),
	}, nil
}

// Pivots returns the dashboard pivot tables, computed over the filtered
// registered subset.
func (s *DashboardService) Pivots(ctx context.Context) (domain.PivotDict, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil, apperrors.NewNotFoundError("dataset")
	}
	return s.state.pivots, nil
}

// Records returns a filtered record subset by name.
func (s *DashboardService) Records(ctx context.Context, subset string) ([]domain.ClaimRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil, apperrors.NewNotFoundError("dataset")
	}
	switch subset {
	case SubsetAll:
		return s.state.filtered.All, nil
	case SubsetIntimation:
		return s.state.filtered.Intimation, nil
	case SubsetRegistered:
		return s.state.filtered.Registered, nil
	case SubsetUnderProcess:
		return s.state.filtered.UnderProcess, nil
	default:
		return nil, apperrors.NewNotFoundError("record subset " + subset)
	}
}

// FilterOptions returns the distinct values per filterable category over the
// full (unfiltered) dataset, so deselected values stay visible in the UI.
func (s *DashboardService) FilterOptions(ctx context.Context) (map[string][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil, apperrors.NewNotFoundError("dataset")
	}
	return dataprocessing.FilterOptions(s.state.data.All), nil
}

// Filters returns the active filter state.
func (s *DashboardService) Filters(ctx context.Context) (domain.FilterState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return domain.FilterState{}, apperrors.NewNotFoundError("dataset")
	}
	return s.state.filters, nil
}

// FilteredData returns the filtered processed bundle for export generation.
func (s *DashboardService) FilteredData(ctx context.Context) (*domain.ProcessedData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil, apperrors.NewNotFoundError("dataset")
	}
	return s.state.filtered, nil
}

// SourceName returns the loaded file's name, or "" when no dataset is loaded.
func (s *DashboardService) SourceName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return ""
	}
	return s.state.sourceName
}
