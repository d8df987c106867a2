package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid credentials", ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"wrapped validation", fmt.Errorf("%w: coordinates", ErrValidation), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"conflict", ErrUserAlreadyExists, http.StatusConflict, "USER_ALREADY_EXISTS"},
		{"wrapped storage", fmt.Errorf("%w: disk full", ErrStorage), http.StatusInternalServerError, "STORAGE_FAILURE"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_SurfacesStorageMessage(t *testing.T) {
	err := fmt.Errorf("%w: database is locked", ErrStorage)
	resp := MapErrorToHTTP(err).ToErrorResponse()
	assert.Equal(t, "storage failure: database is locked", resp.Error)
}

func TestMapErrorToHTTP_HidesUnknownDetails(t *testing.T) {
	resp := MapErrorToHTTP(errors.New("secret internals")).ToErrorResponse()
	assert.Equal(t, "internal server error", resp.Error)
}
