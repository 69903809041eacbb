package db

import (
	"context"
	"database/sql"
)

type TxFn func(ctx context.Context, tx *sql.Tx) error

// Worker funnels every write through one goroutine so the single SQLite
// connection never sees concurrent transactions.
type Worker struct {
	db    *sql.DB
	queue chan writeReq
	done  chan struct{}
}

type writeReq struct {
	ctx    context.Context
	fn     TxFn
	result chan error
}

func NewWorker(db *sql.DB) *Worker {
	w := &Worker{
		db:    db,
		queue: make(chan writeReq, 64),
		done:  make(chan struct{}),
	}
	go w.run()
	return w
}

// Close drains the queue and stops the worker goroutine.
func (w *Worker) Close() {
	close(w.queue)
	<-w.done
}

// Do runs fn inside a transaction on the write goroutine and returns its
// outcome.  If the caller's context expires while the request is queued
// or executing, Do returns early; an in-flight transaction still
// completes, its result discarded into the buffered channel.
func (w *Worker) Do(ctx context.Context, fn TxFn) error {
	req := writeReq{ctx: ctx, fn: fn, result: make(chan error, 1)}

	select {
	case w.queue <- req:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) run() {
	defer close(w.done)
	for req := range w.queue {
		req.result <- w.exec(req.ctx, req.fn)
	}
}

func (w *Worker) exec(ctx context.Context, fn TxFn) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
