// Package cart implements the persisted shopping cart: an in-memory line list
// mirrored into a bbolt bucket after every mutation, the way the original
// storefront mirrored its cart into browser local storage.
package cart

import (
	"sync"

	"github.com/asaskevich/EventBus"
	jsoniter "github.com/json-iterator/go"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/paodecos/storefront/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	cartBucket = []byte("cart")
	linesKey   = []byte("lines")
)

type Store struct {
	mu    sync.Mutex
	db    *bbolt.DB
	bus   EventBus.Bus
	lines []domain.CartLine
}

// NewStore loads the persisted line list from db. A missing key or a corrupt
// payload yields an empty cart; persistence problems are never fatal. A nil
// db yields a memory-only store.
func NewStore(db *bbolt.DB, bus EventBus.Bus) (*Store, error) {
	s := &Store{db: db, bus: bus}
	if db == nil {
		return s, nil
	}
	err := db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(cartBucket)
		if err != nil {
			return err
		}
		data := b.Get(linesKey)
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &s.lines); err != nil {
			zap.L().Warn("cart: discarding corrupt persisted cart", zap.Error(err))
			s.lines = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// persist writes the full line list under the fixed key. Called with s.mu
// held. Write failures are logged and swallowed; the in-memory cart stays
// authoritative for this process.
func (s *Store) persist() {
	if s.db == nil {
		return
	}
	data, err := json.Marshal(s.lines)
	if err != nil {
		zap.L().Error("cart: marshal failed", zap.Error(err))
		return
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(cartBucket).Put(linesKey, data)
	})
	if err != nil {
		zap.L().Error("cart: persist failed", zap.Error(err))
	}
}

func (s *Store) changed() {
	s.persist()
	if s.bus != nil {
		s.bus.Publish(domain.EventCartUpdated, s.itemCountLocked())
	}
}

// Add upserts a line for the product, incrementing quantity or creating a
// fresh snapshot line. The product's current stock is the ceiling; an existing
// line has its stock snapshot refreshed since the caller looked the product up
// at mutation time.
func (s *Store) Add(p domain.Product, qty int) error {
	if qty <= 0 {
		qty = 1
	}
	if p.Stock <= 0 {
		return ErrOutOfStock
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ProductID == p.ID {
			if s.lines[i].Quantity+qty > p.Stock {
				return &InsufficientStockError{Available: p.Stock}
			}
			s.lines[i].Quantity += qty
			s.lines[i].Stock = p.Stock
			s.changed()
			return nil
		}
	}

	if qty > p.Stock {
		return &InsufficientStockError{Available: p.Stock}
	}
	s.lines = append(s.lines, domain.NewCartLine(p, qty))
	s.changed()
	return nil
}

// Remove deletes the line for productID. Removing an absent line is a no-op,
// not an error.
func (s *Store) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.changed()
			return
		}
	}
}

// SetQuantity sets the line quantity directly. A quantity of zero or less
// removes the line. The line's snapshot stock is the ceiling, so direct
// quantity updates cannot overshoot what Add would allow.
func (s *Store) SetQuantity(productID string, n int) error {
	if n <= 0 {
		s.Remove(productID)
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			if n > s.lines[i].Stock {
				return &InsufficientStockError{Available: s.lines[i].Stock}
			}
			s.lines[i].Quantity = n
			s.changed()
			return nil
		}
	}
	return nil
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	s.changed()
}

// Lines returns a copy of the current line list in insertion order.
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Total is the sum of price times quantity over all lines.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, l := range s.lines {
		total += l.LineTotal()
	}
	return total
}

// ItemCount is the sum of quantities over all lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemCountLocked()
}

func (s *Store) itemCountLocked() int {
	var n int
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}
