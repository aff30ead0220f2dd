package pkg

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: product", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: invalid token", ErrUnauthorized), http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("%w: email", ErrAlreadyExists), http.StatusConflict},
		{fmt.Errorf("%w: name is required", ErrBadRequest), http.StatusBadRequest},
		{errors.New("disk full"), http.StatusInternalServerError},
		{ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestError_WritesMessage(t *testing.T) {
	rec := httptest.NewRecorder()

	Error(rec, fmt.Errorf("%w: price must be a number", ErrBadRequest))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bad request: price must be a number", resp.Message)
}

func TestJSON_WritesBarePayload(t *testing.T) {
	tests := []struct {
		name string
		data any
		want string
	}{
		{"object", map[string]string{"message": "ok"}, `{"message":"ok"}`},
		{"array", []string{"a", "b"}, `["a","b"]`},
		{"empty array", []string{}, `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			JSON(rec, http.StatusCreated, tt.data)

			assert.Equal(t, http.StatusCreated, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}
