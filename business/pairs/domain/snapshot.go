// Package domain holds the Stage-0 snapshot slot: the published SymbolMap
// and the atomic single-writer/multi-reader container it lives in.
package domain

import (
	"sync/atomic"

	venuedomain "github.com/fd1az/spreadscanner/business/venue/domain"
)

// Slot is a single-writer, multi-reader atomic container for the latest
// SymbolMap. Stage-0 is the sole writer; Stage-1 and Stage-2 read it
// without ever observing a torn (partially updated) map, because each
// publish swaps in a brand new map by reference rather than mutating the
// one readers may be holding.
type Slot struct {
	v atomic.Pointer[venuedomain.SymbolMap]
}

// NewSlot returns an empty, ready-to-use Slot.
func NewSlot() *Slot {
	s := &Slot{}
	empty := venuedomain.SymbolMap{}
	s.v.Store(&empty)
	return s
}

// Publish atomically replaces the snapshot with m.
func (s *Slot) Publish(m venuedomain.SymbolMap) {
	s.v.Store(&m)
}

// Load returns the current snapshot. Safe to call concurrently with
// Publish; the returned map must be treated as read-only.
func (s *Slot) Load() venuedomain.SymbolMap {
	return *s.v.Load()
}

// Empty reports whether the current snapshot carries no pairs yet.
func (s *Slot) Empty() bool {
	return len(s.Load()) == 0
}
