package ingest

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"sync/atomic"

	apperrors "claimsdash/internal/errors"
	"claimsdash/pkg/contracts/domain"
)

// DefaultChunkSize is the record batch size when none is configured.
const DefaultChunkSize = 500

// Source describes an upload to load. Size is the byte length when known
// (multipart uploads carry it); zero disables byte-based progress.
type Source struct {
	Name   string
	Reader io.Reader
	Size   int64
}

// Batch is one chunk of decoded records with a progress fraction in [0,1].
// Columns carries the source header set and is populated on every batch; the
// final batch always reports Progress == 1.
type Batch struct {
	Columns  map[string]bool
	Records  []domain.ClaimRecord
	Progress float64
}

// Loader decodes uploads in chunks, emitting batches over a channel so the
// caller can stream progress to dashboard clients while the file loads.
type Loader struct {
	chunkSize int
	logger    *slog.Logger
}

// NewLoader creates a loader. chunkSize <= 0 selects DefaultChunkSize.
func NewLoader(chunkSize int, logger *slog.Logger) *Loader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		chunkSize: chunkSize,
		logger:    logger.With(slog.String("component", "ingest.loader")),
	}
}

// Run decodes src and sends record batches on out until the file is
// exhausted, an error occurs, or ctx is canceled. The caller owns out and
// should close it after Run returns. CSV inputs stream row by row; workbook
// inputs decode fully first and then emit in chunks, since the container
// format cannot be streamed.
func (l *Loader) Run(ctx context.Context, src Source, out chan<- Batch) error {
	format, err := DetectFormat(src.Name)
	if err != nil {
		return err
	}

	l.logger.InfoContext(ctx, "loading upload",
		slog.String("source", src.Name),
		slog.String("format", string(format)),
		slog.Int64("size_bytes", src.Size))

	switch format {
	case FormatCSV:
		return l.runCSV(ctx, src, out)
	default:
		return l.runXLSX(ctx, src, out)
	}
}

func (l *Loader) runCSV(ctx context.Context, src Source, out chan<- Batch) error {
	counted := &countingReader{r: src.Reader}
	cr := csv.NewReader(counted)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	first, err := cr.Read()
	if err == io.EOF {
		return apperrors.NewEmptyDatasetError(src.Name)
	}
	if err != nil {
		return apperrors.NewParsingError("read csv header", err).
			WithContext("source", src.Name)
	}
	h := newHeader(first)

	var total int
	chunk := make([]domain.ClaimRecord, 0, l.chunkSize)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return apperrors.NewParsingError("read csv row", err).
				WithContext("source", src.Name).
				WithContext("row", total+len(chunk)+2)
		}
		if isBlank(row) {
			continue
		}
		chunk = append(chunk, h.record(row))
		if len(chunk) == l.chunkSize {
			total += len(chunk)
			if err := send(ctx, out, Batch{
				Columns:  h.columns,
				Records:  chunk,
				Progress: byteProgress(counted.count(), src.Size),
			}); err != nil {
				return err
			}
			chunk = make([]domain.ClaimRecord, 0, l.chunkSize)
		}
	}

	total += len(chunk)
	if total == 0 {
		return apperrors.NewEmptyDatasetError(src.Name)
	}
	return send(ctx, out, Batch{Columns: h.columns, Records: chunk, Progress: 1})
}

func (l *Loader) runXLSX(ctx context.Context, src Source, out chan<- Batch) error {
	ds, err := DecodeXLSX(src.Reader, src.Name)
	if err != nil {
		return err
	}

	total := len(ds.Records)
	for start := 0; start < total; start += l.chunkSize {
		end := start + l.chunkSize
		if end > total {
			end = total
		}
		if err := send(ctx, out, Batch{
			Columns:  ds.Columns,
			Records:  ds.Records[start:end],
			Progress: float64(end) / float64(total),
		}); err != nil {
			return err
		}
	}
	return nil
}

func send(ctx context.Context, out chan<- Batch, b Batch) error {
	select {
	case out <- b:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// byteProgress maps bytes read to a fraction capped below 1 so only the final
// batch ever reports completion. Unknown sizes report 0.
func byteProgress(read, size int64) float64 {
	if size <= 0 {
		return 0
	}
	p := float64(read) / float64(size)
	if p > 0.99 {
		p = 0.99
	}
	return p
}

// countingReader tracks bytes consumed from the underlying reader.
type countingReader struct {
	r io.Reader
	n atomic.Int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n.Add(int64(n))
	return n, err
}

func (c *countingReader) count() int64 {
	return c.n.Load()
}
