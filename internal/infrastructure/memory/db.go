// Package memory implementa los repositorios del ledger en memoria (tests y desarrollo).
// Cada transacción toma el lock exclusivo, trabaja sobre el estado vivo y restaura una
// copia tomada al inicio si fn devuelve error.
package memory

import (
	"fmt"
	"sync"

	"github.com/jhoicas/trade-ledger/internal/domain/entity"
)

type state struct {
	events      []*entity.StockEvent
	projections map[string]*entity.StockProjection
	inbound     map[string]*entity.InboundRecord
	outbound    map[string]*entity.OutboundRecord
	adjustments map[string]*entity.AdjustmentRecord
	partners    []*entity.Partner
	seq         int64
}

func newState() *state {
	return &state{
		projections: make(map[string]*entity.StockProjection),
		inbound:     make(map[string]*entity.InboundRecord),
		outbound:    make(map[string]*entity.OutboundRecord),
		adjustments: make(map[string]*entity.AdjustmentRecord),
	}
}

// clone copia profunda; los valores se copian para que un rollback no vea mutaciones posteriores.
func (s *state) clone() *state {
	c := newState()
	c.seq = s.seq
	c.events = make([]*entity.StockEvent, len(s.events))
	for i, e := range s.events {
		ev := *e
		c.events[i] = &ev
	}
	for k, v := range s.projections {
		p := *v
		c.projections[k] = &p
	}
	for k, v := range s.inbound {
		r := *v
		c.inbound[k] = &r
	}
	for k, v := range s.outbound {
		r := *v
		c.outbound[k] = &r
	}
	for k, v := range s.adjustments {
		r := *v
		c.adjustments[k] = &r
	}
	c.partners = append(c.partners, s.partners...)
	return c
}

func (s *state) nextSeq() int64 {
	s.seq++
	return s.seq
}

// DB base de datos en memoria.
type DB struct {
	mu sync.RWMutex
	st *state

	faultMu sync.Mutex
	faults  map[string]error
}

// NewDB crea una base vacía.
func NewDB() *DB {
	return &DB{st: newState(), faults: make(map[string]error)}
}

// FailNext hace que la próxima llamada a op (p. ej. "events.Create", "projections.Increment") devuelva err.
func (db *DB) FailNext(op string, err error) {
	db.faultMu.Lock()
	defer db.faultMu.Unlock()
	db.faults[op] = err
}

func (db *DB) fault(op string) error {
	db.faultMu.Lock()
	defer db.faultMu.Unlock()
	if err, ok := db.faults[op]; ok {
		delete(db.faults, op)
		return fmt.Errorf("memory %s: %w", op, err)
	}
	return nil
}

// AddPartner registra un cliente/proveedor (el directorio se mantiene fuera del núcleo).
func (db *DB) AddPartner(p *entity.Partner) {
	db.mu.Lock()
	defer db.mu.Unlock()
	cp := *p
	db.st.partners = append(db.st.partners, &cp)
}

// access encapsula el acceso al estado: dentro de una tx el lock ya lo tiene el runner.
type access struct {
	db   *DB
	inTx bool
}

func (a access) read(fn func(st *state) error) error {
	if !a.inTx {
		a.db.mu.RLock()
		defer a.db.mu.RUnlock()
	}
	return fn(a.db.st)
}

func (a access) write(op string, fn func(st *state) error) error {
	if err := a.db.fault(op); err != nil {
		return err
	}
	if !a.inTx {
		a.db.mu.Lock()
		defer a.db.mu.Unlock()
	}
	return fn(a.db.st)
}
