// Copyright (c) 2026 Push-It. All rights reserved.

package dberr_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushit/pushit/internal/platform/apperr"
	"github.com/pushit/pushit/internal/platform/dberr"
)

/*
TestWrap_NoRows maps the pgx no-rows sentinel to NotFound.
*/
func TestWrap_NoRows(t *testing.T) {
	err := dberr.Wrap(pgx.ErrNoRows)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
}

/*
TestWrap_UniqueViolation maps SQLSTATE 23505 to Conflict.
*/
func TestWrap_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation}

	err := dberr.Wrap(pgErr)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusConflict, ae.HTTPStatus)
}

/*
TestWrap_Busy maps connection starvation to the typed 503.
*/
func TestWrap_Busy(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"connection_exception", &pgconn.PgError{Code: pgerrcode.ConnectionException}},
		{"too_many_connections", &pgconn.PgError{Code: pgerrcode.TooManyConnections}},
		{"cannot_connect_now", &pgconn.PgError{Code: pgerrcode.CannotConnectNow}},
		{"acquire_deadline", context.DeadlineExceeded},
		{"closed_tx", pgx.ErrTxClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := dberr.Wrap(tt.err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, http.StatusServiceUnavailable, ae.HTTPStatus)
			assert.Equal(t, "Service is busy, please retry shortly", ae.Message)
		})
	}
}

/*
TestWrap_Unknown maps everything else to Internal.
*/
func TestWrap_Unknown(t *testing.T) {
	err := dberr.Wrap(errors.New("disk on fire"))

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusInternalServerError, ae.HTTPStatus)
}

/*
TestWrap_Nil passes nil through untouched.
*/
func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil))
}

/*
TestIsUniqueViolation covers the typed predicate used by the auth store.
*/
func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, dberr.IsUniqueViolation(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
	assert.False(t, dberr.IsUniqueViolation(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}))
	assert.False(t, dberr.IsUniqueViolation(errors.New("nope")))
}

/*
TestIsForeignKeyViolation covers the typed predicate used by the chat store.
*/
func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, dberr.IsForeignKeyViolation(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}))
	assert.False(t, dberr.IsForeignKeyViolation(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
}
