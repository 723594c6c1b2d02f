package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupMockGateway(t *testing.T) (sqlmock.Sqlmock, *Gateway) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return mock, NewGateway(db, zap.NewNop())
}

func TestExecuteTransaction_CommitsAllSteps(t *testing.T) {
	mock, gw := setupMockGateway(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO a`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO b`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := gw.ExecuteTransaction(ctx,
		func(ctx context.Context) error {
			_, err := gw.Execute(ctx, `INSERT INTO a VALUES ($1)`, 1)
			return err
		},
		func(ctx context.Context) error {
			_, err := gw.Execute(ctx, `INSERT INTO b VALUES ($1)`, 2)
			return err
		},
	)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteTransaction_RollsBackOnStepError(t *testing.T) {
	mock, gw := setupMockGateway(t)
	ctx := context.Background()
	stepErr := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO a`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectRollback()

	secondRan := false
	err := gw.ExecuteTransaction(ctx,
		func(ctx context.Context) error {
			_, err := gw.Execute(ctx, `INSERT INTO a VALUES ($1)`, 1)
			return err
		},
		func(ctx context.Context) error { return stepErr },
		func(ctx context.Context) error {
			secondRan = true
			return nil
		},
	)

	assert.ErrorIs(t, err, stepErr)
	assert.False(t, secondRan)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteTransaction_NestedJoinsOuterTransaction(t *testing.T) {
	mock, gw := setupMockGateway(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE a`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := gw.ExecuteTransaction(ctx, func(ctx context.Context) error {
		return gw.ExecuteTransaction(ctx, func(ctx context.Context) error {
			_, err := gw.Execute(ctx, `UPDATE a SET x = 1`)
			return err
		})
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuerier_OutsideTransactionUsesPool(t *testing.T) {
	mock, gw := setupMockGateway(t)

	mock.ExpectQuery(`SELECT 1`).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	var n int
	require.NoError(t, gw.QueryRow(context.Background(), `SELECT 1`).Scan(&n))
	assert.Equal(t, 1, n)
	require.NoError(t, mock.ExpectationsWereMet())
}
