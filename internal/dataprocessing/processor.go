package dataprocessing

import (
	"context"
	"log/slog"

	"claimsdash/pkg/contracts/domain"
)

// Processor runs the synchronous classification pass over a decoded dataset
// and partitions the result by status. It holds no state between runs; every
// invocation produces a wholly new ProcessedData.
type Processor struct {
	logger *slog.Logger
}

// NewProcessor creates a processor with the given logger.
func NewProcessor(logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger: logger.With(slog.String("component", "dataprocessing.processor")),
	}
}

// Process classifies every record and splits the classified set into the
// three status subsets, preserving source order within each. Unmapped records
// remain in the full set only. The function is total: given a well-formed
// record slice it cannot fail.
func (p *Processor) Process(ctx context.Context, ds domain.Dataset) *domain.ProcessedData {
	all := make([]domain.ClaimRecord, len(ds.Records))
	for i, rec := range ds.Records {
		all[i] = Classify(rec)
	}

	data := &domain.ProcessedData{
		All:     all,
		Columns: ds.Columns,
	}
	for _, rec := range all {
		switch rec.Status {
		case domain.StatusIntimationPending:
			data.Intimation = append(data.Intimation, rec)
		case domain.StatusRegistered:
			data.Registered = append(data.Registered, rec)
		case domain.StatusUnderProcess:
			data.UnderProcess = append(data.UnderProcess, rec)
		}
	}

	p.logger.InfoContext(ctx, "classified claim records",
		slog.String("source", ds.SourceName),
		slog.Int("total", len(data.All)),
		slog.Int("intimation", len(data.Intimation)),
		slog.Int("registered", len(data.Registered)),
		slog.Int("under_process", len(data.UnderProcess)),
		slog.Int("unmapped", len(data.All)-len(data.Intimation)-len(data.Registered)-len(data.UnderProcess)))

	return data
}
