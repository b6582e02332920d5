package errors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorError(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "bad input")
	assert.Equal(t, "bad input", err.Error())
}

func TestAPIErrorRenderSetsStatus(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/kpis", nil)

	require.NoError(t, render.Render(w, r, ErrNoDataset))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NO_DATASET")
}

func TestParseAndEmptyAreDistinct(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, ErrParseFailed.StatusCode)
	assert.Equal(t, http.StatusUnprocessableEntity, ErrEmptyDataset.StatusCode)
	assert.NotEqual(t, ErrParseFailed.ErrorCode, ErrEmptyDataset.ErrorCode)
}

func TestErrValidationCarriesField(t *testing.T) {
	err := ErrValidation("dateFrom", "must be yyyy-MM-dd")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	details, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "dateFrom", details.Field)
}

func TestExportFailedError(t *testing.T) {
	err := ExportFailedError("pivot workbook", fmt.Errorf("disk full"))

	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	assert.Equal(t, "EXPORT_FAILED", err.ErrorCode)
	assert.Contains(t, err.Message, "pivot workbook")
	assert.Equal(t, "disk full", err.Details)
}

func TestAppErrorFormatting(t *testing.T) {
	cause := fmt.Errorf("unexpected EOF")
	err := NewParsingError("decode workbook", cause)

	assert.Equal(t, "[PARSING] decode workbook: unexpected EOF", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))

	bare := NewAppValidationError("unknown filter category")
	assert.Equal(t, "[VALIDATION] unknown filter category", bare.Error())
}

func TestAppErrorWithContext(t *testing.T) {
	err := NewEmptyDatasetError("claims.csv")

	assert.Equal(t, ErrTypeEmptyDataset, err.Type)
	assert.Equal(t, "claims.csv", err.Context["source"])
}

func TestIsType(t *testing.T) {
	parse := NewParsingError("bad header", nil)
	wrapped := fmt.Errorf("load failed: %w", parse)

	assert.True(t, IsType(parse, ErrTypeParsing))
	assert.True(t, IsType(wrapped, ErrTypeParsing))
	assert.False(t, IsType(wrapped, ErrTypeExport))
	assert.False(t, IsType(fmt.Errorf("plain"), ErrTypeParsing))
	assert.False(t, IsType(nil, ErrTypeParsing))
}
