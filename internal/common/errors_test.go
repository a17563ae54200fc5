package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"not found", ErrNotFound, http.StatusNotFound},
		{"unauthorized", NewError(ErrUnauthorized, "invalid credentials"), http.StatusUnauthorized},
		{"forbidden", NewError(ErrForbidden, "signup not allowed"), http.StatusForbidden},
		{"bad request", NewError(ErrBadRequest, "title is required"), http.StatusBadRequest},
		{"conflict wrapped", fmt.Errorf("tx: %w", NewError(ErrConflict, "userid already exists")), http.StatusConflict},
		{"unavailable", ErrServiceUnavailable, http.StatusServiceUnavailable},
		{"unique violation", fmt.Errorf("insert: %w", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}), http.StatusConflict},
		{"unknown", errors.New("disk I/O error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromError(tt.err))
		})
	}
}

func TestError_MessageAndKind(t *testing.T) {
	err := NewError(ErrConflict, "invitation already used")

	assert.Equal(t, "invitation already used", err.Error())
	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}))
	assert.False(t, IsUniqueViolation(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))
}
