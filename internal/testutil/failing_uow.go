package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/alexanderramin/neurofit/internal/db"
)

// FaultyUoW runs transactions like the SQLite unit of work but makes one
// write fail, so tests can check that a multi-statement use case rolls back.
//
// The write that fails is the ExecContext whose query contains Match (every
// write matches when Match is empty) after Skip matching writes have gone
// through. Reads are never intercepted.
type FaultyUoW struct {
	DB    *sql.DB
	Match string
	Skip  int32
	Err   error

	seen atomic.Int32
}

// Matched returns how many writes matched so far, including the failed one.
func (u *FaultyUoW) Matched() int { return int(u.seen.Load()) }

func (u *FaultyUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if fnErr := fn(ctx, &faultyTx{DBTX: tx, uow: u}); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type faultyTx struct {
	db.DBTX
	uow *FaultyUoW
}

func (f *faultyTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if strings.Contains(query, f.uow.Match) && f.uow.seen.Add(1) == f.uow.Skip+1 {
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
