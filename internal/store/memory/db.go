// Package memory holds in-process implementations of the repository
// contracts. They back the service tests and local runs without MongoDB.
package memory

import (
	"context"
	"sync"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"github.com/Beka01247/kwaaka-menu/internal/publication"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type menuKey struct {
	tenantID uuid.UUID
	menuID   uuid.UUID
}

// DB is shared by the repositories it hands out. A failed transaction undoes
// only its own writes.
type DB struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	menus        map[menuKey]domain.MenuState
	publications map[publication.Key][]byte
	events       []domain.MenuEventRecord
	tasks        map[primitive.ObjectID]domain.ParsingTask
}

func New() *DB {
	return &DB{
		menus:        make(map[menuKey]domain.MenuState),
		publications: make(map[publication.Key][]byte),
		tasks:        make(map[primitive.ObjectID]domain.ParsingTask),
	}
}

func (db *DB) Menus() *MenuRepository {
	return &MenuRepository{db: db}
}

func (db *DB) Publications() *PublicationStore {
	return &PublicationStore{db: db}
}

func (db *DB) MenuEvents() *MenuEventRepository {
	return &MenuEventRepository{db: db}
}

func (db *DB) ParsingTasks() *ParsingTaskRepository {
	return &ParsingTaskRepository{db: db}
}

type txKey struct{}

// journal collects the undo steps of one transaction's writes so a rollback
// leaves writes made outside the transaction in place.
type journal struct {
	db    *DB
	undos []func()
}

func (db *DB) txJournal(ctx context.Context) *journal {
	j, _ := ctx.Value(txKey{}).(*journal)
	if j == nil || j.db != db {
		return nil
	}
	return j
}

// onRollback registers undo for the current transaction, if any. Callers
// hold db.mu.
func (db *DB) onRollback(ctx context.Context, undo func()) {
	if j := db.txJournal(ctx); j != nil {
		j.undos = append(j.undos, undo)
	}
}

func (db *DB) rollback(j *journal) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := len(j.undos) - 1; i >= 0; i-- {
		j.undos[i]()
	}
	j.undos = nil
}

// WithinTransaction serializes transactions against each other. Writes made
// outside any transaction are not blocked and survive a rollback. A nested
// call joins the outer transaction.
func (db *DB) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if db.txJournal(ctx) != nil {
		return fn(ctx)
	}

	db.txMu.Lock()
	defer db.txMu.Unlock()

	j := &journal{db: db}
	txCtx := context.WithValue(ctx, txKey{}, j)
	if err := fn(txCtx); err != nil {
		db.rollback(j)
		return err
	}
	if err := ctx.Err(); err != nil {
		db.rollback(j)
		return err
	}
	return nil
}
