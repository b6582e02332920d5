// Package http exposes the dashboard REST API: upload, summary and KPI
// queries, filter management, and export downloads.
package http

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apperrors "claimsdash/internal/errors"
	"claimsdash/internal/exporter"
	"claimsdash/internal/infrastructure"
	"claimsdash/internal/ingest"
	"claimsdash/pkg/contracts/domain"
)

// uploadFieldName is the multipart form field carrying the claims export.
const uploadFieldName = "file"

// DashboardHandler serves the dashboard API.
type DashboardHandler struct {
	service        DashboardService
	logger         *slog.Logger
	validate       *validator.Validate
	maxUploadBytes int64
}

// NewDashboardHandler creates the handler.
func NewDashboardHandler(service DashboardService, maxUploadBytes int64, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		service:        service,
		logger:         logger.With(slog.String("component", "dashboard_handler")),
		validate:       validator.New(),
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes mounts the API routes.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Route("/claims", func(r chi.Router) {
		r.Post("/", h.Upload)
		r.Delete("/", h.Reset)

		r.Get("/summary", h.GetSummary)
		r.Get("/kpis", h.GetKPIs)
		r.Get("/pivots", h.GetPivots)
		r.Get("/records/{subset}", h.GetRecords)

		r.Get("/filters", h.GetFilters)
		r.Put("/filters", h.PutFilters)
		r.Get("/filter-options", h.GetFilterOptions)

		r.Get("/export/enriched", h.ExportEnriched)
		r.Get("/export/pivots", h.ExportPivots)
		r.Get("/export/pivots-csv", h.ExportPivotsCSV)
		r.Get("/export/partners", h.ExportPartners)
	})

	return r
}

// Upload handles POST /claims: a multipart upload of one CSV or XLSX claims
// export. The previous dataset is replaced only on success.
func (h *DashboardHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile(uploadFieldName)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondError(w, r, apperrors.ErrFileTooLarge)
			return
		}
		h.respondError(w, r, apperrors.ErrMissingFile)
		return
	}
	defer file.Close()

	if _, err := ingest.DetectFormat(header.Filename); err != nil {
		h.respondError(w, r, apperrors.ErrUnsupportedFile)
		return
	}

	summary, err := h.service.LoadFile(r.Context(), ingest.Source{
		Name:   header.Filename,
		Reader: file,
		Size:   header.Size,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "upload processed",
		slog.String("filename", header.Filename),
		slog.Int("records", summary.TotalRecords))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, summary)
}

// Reset handles DELETE /claims.
func (h *DashboardHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.service.Reset(r.Context())
	render.NoContent(w, r)
}

// GetSummary handles GET /summary.
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// GetKPIs handles GET /kpis.
func (h *DashboardHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.service.KPIs(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, kpis)
}

// GetPivots handles GET /pivots.
func (h *DashboardHandler) GetPivots(w http.ResponseWriter, r *http.Request) {
	pivots, err := h.service.Pivots(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, pivots)
}

// GetRecords handles GET /records/{subset}.
func (h *DashboardHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	subset := chi.URLParam(r, "subset")
	records, err := h.service.Records(r.Context(), subset)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, records)
}

// GetFilters handles GET /filters.
func (h *DashboardHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	filters, err := h.service.Filters(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, filters)
}

// PutFilters handles PUT /filters: replaces the active filter state.
func (h *DashboardHandler) PutFilters(w http.ResponseWriter, r *http.Request) {
	var filters domain.FilterState
	if err := render.DecodeJSON(r.Body, &filters); err != nil {
		h.respondError(w, r, apperrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(&filters); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			h.respondError(w, r, apperrors.ErrValidation(verrs[0].Field(), verrs[0].Tag()))
			return
		}
		h.respondError(w, r, apperrors.ErrValidationFailed)
		return
	}

	if err := h.service.SetFilters(r.Context(), filters); err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, filters)
}

// GetFilterOptions handles GET /filter-options.
func (h *DashboardHandler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.service.FilterOptions(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, options)
}

// ExportEnriched handles GET /export/enriched: the four-sheet workbook of
// classified records under the active filters.
func (h *DashboardHandler) ExportEnriched(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.FilteredData(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.setAttachment(w, "claims-enriched.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := exporter.WriteEnrichedWorkbook(w, data); err != nil {
		h.logExportFailure(r, "enriched workbook", err)
		return
	}
	infrastructure.ExportsTotal.WithLabelValues("enriched").Inc()
}

// ExportPivots handles GET /export/pivots: the dashboard pivot tables as a
// workbook, one sheet per category.
func (h *DashboardHandler) ExportPivots(w http.ResponseWriter, r *http.Request) {
	pivots, err := h.service.Pivots(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.setAttachment(w, "claims-pivots.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := exporter.WritePivotWorkbook(w, pivots); err != nil {
		h.logExportFailure(r, "pivot workbook", err)
		return
	}
	infrastructure.ExportsTotal.WithLabelValues("pivots").Inc()
}

// ExportPivotsCSV handles GET /export/pivots-csv: a zip of one BOM-prefixed
// CSV per pivot category.
func (h *DashboardHandler) ExportPivotsCSV(w http.ResponseWriter, r *http.Request) {
	pivots, err := h.service.Pivots(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.setAttachment(w, "claims-pivots-csv.zip", "application/zip")
	if err := exporter.WritePivotCSVZip(w, pivots); err != nil {
		h.logExportFailure(r, "pivot csv archive", err)
		return
	}
	infrastructure.ExportsTotal.WithLabelValues("pivots_csv").Inc()
}

// ExportPartners handles GET /export/partners: per-channel pivot workbooks
// over the registered subset, zipped.
func (h *DashboardHandler) ExportPartners(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.FilteredData(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.setAttachment(w, "claims-partners.zip", "application/zip")
	if err := exporter.WritePartnerZip(w, data.Registered, data); err != nil {
		h.logExportFailure(r, "partner archive", err)
		return
	}
	infrastructure.ExportsTotal.WithLabelValues("partners").Inc()
}

func (h *DashboardHandler) setAttachment(w http.ResponseWriter, filename, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
}

// logExportFailure handles errors after the response header is committed:
// the stream is already partially written, so only logging remains.
func (h *DashboardHandler) logExportFailure(r *http.Request, artifact string, err error) {
	h.logger.ErrorContext(r.Context(), "export failed mid-stream",
		slog.String("artifact", artifact),
		slog.String("error", err.Error()))
}

// respondError translates service errors to API errors and renders them.
func (h *DashboardHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := toAPIError(err)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
	} else {
		h.logger.WarnContext(r.Context(), "request rejected",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
	}
	if renderErr := render.Render(w, r, apperrors.NewErrorResponse(apiErr)); renderErr != nil {
		http.Error(w, apiErr.Message, apiErr.StatusCode)
	}
}

func toAPIError(err error) *apperrors.APIError {
	var apiErr *apperrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperrors.ErrTypeParsing:
			return apperrors.ParseFailedError(appErr)
		case apperrors.ErrTypeEmptyDataset:
			return apperrors.ErrEmptyDataset
		case apperrors.ErrTypeValidation:
			return apperrors.New(http.StatusBadRequest, "VALIDATION_FAILED", appErr.Message)
		case apperrors.ErrTypeNotFound:
			if strings.Contains(appErr.Message, "dataset") {
				return apperrors.ErrNoDataset
			}
			return apperrors.New(http.StatusNotFound, "NOT_FOUND", appErr.Message)
		case apperrors.ErrTypeExport:
			return apperrors.ExportFailedError(appErr.Message, appErr)
		}
	}

	return apperrors.NewWithDetails(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR",
		"Internal server error", fmt.Sprintf("%v", err))
}
