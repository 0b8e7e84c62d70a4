// Package memory implementa los puertos de persistencia en memoria (modo desarrollo y tests).
// Las transacciones se serializan con un mutex y se deshacen con un journal de undo.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/service-stock-api/internal/application/ledger"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
)

// Ensure Store implements ledger.TxRunner.
var _ ledger.TxRunner = (*Store)(nil)

// Store estado completo en memoria.
type Store struct {
	mu sync.Mutex

	holders    map[string]entity.Holder
	users      map[string]entity.User
	categories map[string]entity.Category
	models     map[string]entity.Model
	items      map[string]entity.Item
	skus       map[string]entity.SKUCode
	positions  map[string]entity.StockPosition
	transfers  map[string]entity.Transfer
	jobs       map[string]entity.JobEntry
	events     []entity.LedgerEvent

	// orden de inserción para listados estables
	seq   int64
	order map[string]int64
}

// NewStore construye un almacenamiento vacío.
func NewStore() *Store {
	return &Store{
		holders:    map[string]entity.Holder{},
		users:      map[string]entity.User{},
		categories: map[string]entity.Category{},
		models:     map[string]entity.Model{},
		items:      map[string]entity.Item{},
		skus:       map[string]entity.SKUCode{},
		positions:  map[string]entity.StockPosition{},
		transfers:  map[string]entity.Transfer{},
		jobs:       map[string]entity.JobEntry{},
		order:      map[string]int64{},
	}
}

type txState struct {
	undo []func()
}

func (t *txState) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

// Run ejecuta fn con repositorios atados a una transacción; si fn falla se deshacen sus escrituras.
func (s *Store) Run(ctx context.Context, fn func(r ledger.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &txState{}
	repos := ledger.TxRepos{
		Stock:     &StockRepo{s: s, tx: t},
		Transfers: &TransferRepo{s: s, tx: t},
		Jobs:      &JobRepo{s: s, tx: t},
		Events:    &LedgerEventRepo{s: s, tx: t},
	}
	if err := fn(repos); err != nil {
		t.rollback()
		return err
	}
	return nil
}

// acquire toma el mutex salvo que la llamada ocurra dentro de Run (que ya lo tiene).
func (s *Store) acquire(t *txState) func() {
	if t != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) track(id string) {
	if _, ok := s.order[id]; ok {
		return
	}
	s.seq++
	s.order[id] = s.seq
}

// put guarda v en m[k] registrando el undo si hay transacción.
func put[K comparable, V any](t *txState, m map[K]V, k K, v V) {
	if t != nil {
		old, existed := m[k]
		t.undo = append(t.undo, func() {
			if existed {
				m[k] = old
			} else {
				delete(m, k)
			}
		})
	}
	m[k] = v
}

// Repos accesores de repositorios fuera de transacción.
func (s *Store) Holders() *HolderRepo           { return &HolderRepo{s: s} }
func (s *Store) Users() *UserRepo               { return &UserRepo{s: s} }
func (s *Store) Categories() *CategoryRepo      { return &CategoryRepo{s: s} }
func (s *Store) Models() *ModelRepo             { return &ModelRepo{s: s} }
func (s *Store) Items() *ItemRepo               { return &ItemRepo{s: s} }
func (s *Store) SKUCodes() *SKUCodeRepo         { return &SKUCodeRepo{s: s} }
func (s *Store) Stock() *StockRepo              { return &StockRepo{s: s} }
func (s *Store) Transfers() *TransferRepo       { return &TransferRepo{s: s} }
func (s *Store) Jobs() *JobRepo                 { return &JobRepo{s: s} }
func (s *Store) LedgerEvents() *LedgerEventRepo { return &LedgerEventRepo{s: s} }

// page aplica limit/offset; limit <= 0 devuelve todo desde offset.
func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// sortNewest ordena por fecha descendente y, a igual fecha, por orden de inserción descendente.
func sortNewest[T any](s *Store, list []T, at func(T) time.Time, id func(T) string) {
	sort.SliceStable(list, func(i, j int) bool {
		ti, tj := at(list[i]), at(list[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return s.order[id(list[i])] > s.order[id(list[j])]
	})
}

// sortOldest ordena por orden de inserción ascendente.
func sortOldest[T any](s *Store, list []T, id func(T) string) {
	sort.SliceStable(list, func(i, j int) bool {
		return s.order[id(list[i])] < s.order[id(list[j])]
	})
}

func inRange(at time.Time, from, to *time.Time) bool {
	if from != nil && at.Before(*from) {
		return false
	}
	if to != nil && at.After(*to) {
		return false
	}
	return true
}
