// Package mocks provides thin error-injecting wrappers around a real
// repository.Database (normally the in-memory implementation), so
// orchestrator tests can exercise failure paths the in-memory store has
// no natural way to trigger (a failed lock acquisition, a write that
// conflicts underneath a commit).
package mocks

import (
	"context"
	"sync"

	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
	"github.com/crunchynapkin404/team-planner-sub001/internal/repository"
)

// FaultyDatabase wraps a repository.Database and lets a test force
// specific operations to fail.
type FaultyDatabase struct {
	repository.Database

	mu           sync.RWMutex
	beginTxErr   error
	advisoryLock error
	createShift  error
}

// NewFaultyDatabase wraps db with no faults injected yet.
func NewFaultyDatabase(db repository.Database) *FaultyDatabase {
	return &FaultyDatabase{Database: db}
}

// SetBeginTxError forces the next BeginTx call to return err.
func (f *FaultyDatabase) SetBeginTxError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.beginTxErr = err
}

// SetAdvisoryLockError forces every AdvisoryLock call on transactions
// returned from BeginTx to return err.
func (f *FaultyDatabase) SetAdvisoryLockError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.advisoryLock = err
}

// SetCreateShiftError forces every ShiftRepository().Create call on
// transactions returned from BeginTx to return err, simulating a
// concurrent write that the repository itself rejects at commit time.
func (f *FaultyDatabase) SetCreateShiftError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createShift = err
}

// BeginTx returns the injected error if set, otherwise a faultyTransaction
// wrapping the real one so later faults still apply.
func (f *FaultyDatabase) BeginTx(ctx context.Context) (repository.Transaction, error) {
	f.mu.RLock()
	beginErr := f.beginTxErr
	f.mu.RUnlock()
	if beginErr != nil {
		return nil, beginErr
	}

	tx, err := f.Database.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return &faultyTransaction{Transaction: tx, parent: f}, nil
}

type faultyTransaction struct {
	repository.Transaction
	parent *FaultyDatabase
}

func (t *faultyTransaction) AdvisoryLock(ctx context.Context, key string) error {
	t.parent.mu.RLock()
	err := t.parent.advisoryLock
	t.parent.mu.RUnlock()
	if err != nil {
		return err
	}
	return t.Transaction.AdvisoryLock(ctx, key)
}

func (t *faultyTransaction) ShiftRepository() repository.ShiftRepository {
	return &faultyShiftRepository{ShiftRepository: t.Transaction.ShiftRepository(), parent: t.parent}
}

type faultyShiftRepository struct {
	repository.ShiftRepository
	parent *FaultyDatabase
}

func (r *faultyShiftRepository) Create(ctx context.Context, shift *entity.Shift) error {
	r.parent.mu.RLock()
	err := r.parent.createShift
	r.parent.mu.RUnlock()
	if err != nil {
		return err
	}
	return r.ShiftRepository.Create(ctx, shift)
}
