package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/foodgram-backend/internal/data/aggregates"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"gorm.io/gorm"
)

// InjectedTxRunner runs aggregate bodies with injectable begin/commit
// failures. With DB set the body runs inside a real transaction that is
// rolled back whenever a failure is injected; without it the body sees no
// transaction at all.
type InjectedTxRunner struct {
	DB *gorm.DB

	FailBegin  error
	FailCommit error

	mu            sync.Mutex
	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.bump(&r.BeginCalls)
	if r.FailBegin != nil {
		return r.FailBegin
	}

	var tx *gorm.DB
	if r.DB != nil {
		tx = r.DB.WithContext(ctx).Begin()
		if tx.Error != nil {
			return tx.Error
		}
	}
	rollback := func() {
		if tx != nil {
			_ = tx.Rollback().Error
		}
		r.bump(&r.RollbackCalls)
	}

	if fn != nil {
		if err := fn(dbctx.Context{Ctx: ctx, Tx: tx}); err != nil {
			rollback()
			return err
		}
	}
	if r.FailCommit != nil {
		rollback()
		return r.FailCommit
	}
	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			r.bump(&r.RollbackCalls)
			return err
		}
	}
	r.bump(&r.CommitCalls)
	return nil
}

func (r *InjectedTxRunner) bump(counter *int) {
	r.mu.Lock()
	*counter++
	r.mu.Unlock()
}
