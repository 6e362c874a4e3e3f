package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondConflict(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondConflict(rec, "пересечение", []int64{3, 7})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, http.StatusConflict, body.Code)
	assert.Equal(t, []int64{3, 7}, body.ConflictingIDs)
}

func TestRespondError_OmitsConflictingIDs(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondNotFound(rec, "не найдено")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), "conflictingIds")
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Date string `json:"date"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"date":"2025-03-07"}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "2025-03-07", dst.Date)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"unknown":1}`))
	assert.Error(t, DecodeJSON(r, &dst))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.Error(t, DecodeJSON(r, &dst))
}
