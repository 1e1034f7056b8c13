package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MaintenanceBooking/pkg/dbmetrics"
)

type stubTx struct {
	dbmetrics.DBExecutor
	commits   int
	rollbacks int
	commitErr error
}

func (s *stubTx) Commit() error {
	s.commits++
	return s.commitErr
}

func (s *stubTx) Rollback() error {
	s.rollbacks++
	return nil
}

type stubBeginner struct {
	tx    *stubTx
	opts  []*sql.TxOptions
	begin error
}

func (s *stubBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	s.opts = append(s.opts, opts)
	if s.begin != nil {
		return nil, s.begin
	}
	return s.tx, nil
}

func TestTransactionManager_CommitsOnSuccess(t *testing.T) {
	beginner := &stubBeginner{tx: &stubTx{}}
	manager := NewTransactionManager(beginner)

	err := manager.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, beginner.tx.commits)
	assert.Equal(t, 0, beginner.tx.rollbacks)
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	beginner := &stubBeginner{tx: &stubTx{}}
	manager := NewTransactionManager(beginner)
	boom := errors.New("boom")

	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, beginner.tx.commits)
	assert.Equal(t, 1, beginner.tx.rollbacks)
	require.Len(t, beginner.opts, 1)
	assert.Equal(t, sql.LevelSerializable, beginner.opts[0].Isolation)
}

func TestTransactionManager_NestedReusesOuterTx(t *testing.T) {
	beginner := &stubBeginner{tx: &stubTx{}}
	manager := NewTransactionManager(beginner)

	err := manager.Do(context.Background(), func(ctx context.Context) error {
		return manager.Do(ctx, func(ctx context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Len(t, beginner.opts, 1)
	assert.Equal(t, 1, beginner.tx.commits)
}

func TestTransactionManager_CommitAndBeginErrors(t *testing.T) {
	commitFail := &stubBeginner{tx: &stubTx{commitErr: errors.New("conn reset")}}
	err := NewTransactionManager(commitFail).Do(context.Background(), func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrCommitTx)

	beginFail := &stubBeginner{begin: errors.New("pool exhausted")}
	err = NewTransactionManager(beginFail).DoReadOnly(context.Background(), func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrBeginTx)
}
