package pgerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))

	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "22001"}))
	assert.False(t, IsUniqueViolation(errors.New("plain error")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestIsUniqueViolationOf(t *testing.T) {
	err := &pgconn.PgError{Code: CodeUniqueViolation, ConstraintName: "uq_bookings_technician_slot"}
	assert.True(t, IsUniqueViolationOf(err, "uq_bookings_technician_slot"))
	assert.False(t, IsUniqueViolationOf(err, "uq_other"))

	pqErr := &pq.Error{Code: CodeUniqueViolation, Constraint: "uq_bookings_technician_slot"}
	assert.True(t, IsUniqueViolationOf(pqErr, "uq_bookings_technician_slot"))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&pgconn.PgError{Code: CodeSerializationFailure}))
	assert.True(t, IsRetryable(&pq.Error{Code: CodeDeadlockDetected}))
	assert.False(t, IsRetryable(&pq.Error{Code: CodeCheckViolation}))
	assert.True(t, IsCheckViolation(&pq.Error{Code: CodeCheckViolation}))
}
