package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Querier *sql.DB 与 *sql.Tx 的公共方法
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxStep 事务中的一个步骤；ctx 携带当前事务，repository 通过 Gateway 自动使用它
type TxStep func(ctx context.Context) error

type txKey struct{}

// Gateway 参数化查询 + 多步骤事务
type Gateway struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewGateway(db *sql.DB, logger *zap.Logger) *Gateway {
	return &Gateway{db: db, logger: logger}
}

// Querier 返回 ctx 中的事务，否则返回连接池
func (g *Gateway) Querier(ctx context.Context) Querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return g.db
}

func (g *Gateway) Execute(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return g.Querier(ctx).ExecContext(ctx, query, args...)
}

func (g *Gateway) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return g.Querier(ctx).QueryContext(ctx, query, args...)
}

func (g *Gateway) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return g.Querier(ctx).QueryRowContext(ctx, query, args...)
}

// ExecuteTransaction 在同一个事务中依次执行 steps，任一步骤失败则整体回滚。
// 已经处于事务中时直接复用外层事务。
func (g *Gateway) ExecuteTransaction(ctx context.Context, steps ...TxStep) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		for _, step := range steps {
			if err := step(ctx); err != nil {
				return err
			}
		}
		return nil
	}

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	txCtx := context.WithValue(ctx, txKey{}, tx)

	for i, step := range steps {
		if err := step(txCtx); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				g.logger.Error("Failed to rollback transaction",
					zap.Int("step", i),
					zap.Error(rbErr),
				)
			}
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Ping 健康检查
func (g *Gateway) Ping(ctx context.Context) error {
	return g.db.PingContext(ctx)
}
