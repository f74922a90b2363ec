// Package memory implementa los puertos de persistencia en memoria con el mismo contrato
// transaccional que PostgreSQL. Las transacciones se serializan con un bloqueo global y
// trabajan sobre una copia de los índices; un error descarta la copia (Rollback).
package memory

import (
	"context"
	"maps"
	"sync"

	appmovement "github.com/jhoicas/gestion-prep/internal/application/movement"
	"github.com/jhoicas/gestion-prep/internal/domain/entity"
	"github.com/jhoicas/gestion-prep/internal/domain/repository"
)

var _ appmovement.TxRunner = (*Store)(nil)

type lineRow struct {
	line entity.MovementLine
	seq  int64
}

// state son los índices de un instante. Los valores nunca se modifican en sitio:
// cada escritura guarda un puntero nuevo, así clone puede copiar solo los mapas.
type state struct {
	seq int64

	sites      map[string]*entity.Site
	units      map[string]*entity.Unit
	trains     map[string]*entity.Train
	equipment  map[string]*entity.Equipment
	stocks     map[string]*entity.Stock
	categories map[string]*entity.ArticleCategory

	platinageTypes map[string]*entity.PlatinageType
	platinages     map[string]*entity.Platinage
	phases         map[string]*entity.Phase

	articles  map[string]*entity.Article
	movements map[string]*entity.Movement
	lines     map[string]*lineRow
	history   map[string][]*entity.HistoryEntry // por movement_id, append-only
}

func newState() *state {
	return &state{
		sites:      map[string]*entity.Site{},
		units:      map[string]*entity.Unit{},
		trains:     map[string]*entity.Train{},
		equipment:  map[string]*entity.Equipment{},
		stocks:     map[string]*entity.Stock{},
		categories: map[string]*entity.ArticleCategory{},

		platinageTypes: map[string]*entity.PlatinageType{},
		platinages:     map[string]*entity.Platinage{},
		phases:         map[string]*entity.Phase{},

		articles:   map[string]*entity.Article{},
		movements:  map[string]*entity.Movement{},
		lines:      map[string]*lineRow{},
		history:    map[string][]*entity.HistoryEntry{},
	}
}

func (s *state) clone() *state {
	return &state{
		seq:        s.seq,
		sites:      maps.Clone(s.sites),
		units:      maps.Clone(s.units),
		trains:     maps.Clone(s.trains),
		equipment:  maps.Clone(s.equipment),
		stocks:     maps.Clone(s.stocks),
		categories: maps.Clone(s.categories),

		platinageTypes: maps.Clone(s.platinageTypes),
		platinages:     maps.Clone(s.platinages),
		phases:         maps.Clone(s.phases),

		articles:   maps.Clone(s.articles),
		movements:  maps.Clone(s.movements),
		lines:      maps.Clone(s.lines),
		history:    maps.Clone(s.history),
	}
}

func (s *state) next() int64 {
	s.seq++
	return s.seq
}

// view abstrae dónde leen y escriben los repositorios: el estado confirmado (con bloqueo
// por operación) o la copia privada de una transacción en curso.
type view interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error) error
}

type storeView struct{ s *Store }

func (v storeView) read(fn func(st *state) error) error {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return fn(v.s.data)
}

func (v storeView) write(fn func(st *state) error) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(v.s.data)
}

type txView struct{ st *state }

func (v txView) read(fn func(st *state) error) error  { return fn(v.st) }
func (v txView) write(fn func(st *state) error) error { return fn(v.st) }

// Store es la base en memoria. El valor cero no es usable; usar New.
type Store struct {
	mu   sync.RWMutex
	data *state
}

// New crea un store vacío.
func New() *Store {
	return &Store{data: newState()}
}

// Run ejecuta fn con repos atados a una copia del estado. Si fn devuelve nil la copia
// pasa a ser el estado confirmado; si no, se descarta.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	lineRepo repository.MovementLineRepository,
	articleRepo repository.ArticleRepository,
	historyRepo repository.HistoryRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.data.clone()
	v := txView{st: snap}
	if err := fn(&MovementRepo{v: v}, &LineRepo{v: v}, &ArticleRepo{v: v}, &HistoryRepo{v: v}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.data = snap
	return nil
}

// Movements devuelve el repositorio de BMM fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{v: storeView{s}} }

// Lines devuelve el repositorio de líneas fuera de transacción.
func (s *Store) Lines() *LineRepo { return &LineRepo{v: storeView{s}} }

// Articles devuelve el repositorio de artículos fuera de transacción.
func (s *Store) Articles() *ArticleRepo { return &ArticleRepo{v: storeView{s}} }

// History devuelve el repositorio de historial fuera de transacción.
func (s *Store) History() *HistoryRepo { return &HistoryRepo{v: storeView{s}} }

// Catalog devuelve el repositorio del referencial.
func (s *Store) Catalog() *CatalogRepo { return &CatalogRepo{v: storeView{s}} }
