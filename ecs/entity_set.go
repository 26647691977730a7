package ecs

import (
	"iter"
	"slices"

	"github.com/kamstrup/intmap"
)

// EntitySet is an insertion-ordered set of entities. Iterating while the set
// is being modified is allowed: entities deleted mid-iteration are skipped
// and entities added mid-iteration are not visited.
//
// Deletes leave a tombstone in the order slice; tombstones are compacted away
// once they outnumber live entries.
type EntitySet struct {
	index *intmap.Map[Entity, uint64]
	order []setEntry
	seq   uint64
	dead  int
}

// setEntry is live while the index maps its entity to the same sequence number.
type setEntry struct {
	entity Entity
	seq    uint64
}

const minCompaction = 32

// NewEntitySet creates a set holding entities in the given order.
func NewEntitySet(entities ...Entity) *EntitySet {
	s := &EntitySet{
		index: intmap.New[Entity, uint64](max(len(entities), 16)),
		order: make([]setEntry, 0, len(entities)),
	}
	for _, e := range entities {
		s.Add(e)
	}
	return s
}

func (s *EntitySet) live(entry setEntry) bool {
	seq, ok := s.index.Get(entry.entity)
	return ok && seq == entry.seq
}

// Add inserts e at the end of the set. It returns false if e was already present.
func (s *EntitySet) Add(e Entity) bool {
	if s.index.Has(e) {
		return false
	}
	s.seq++
	s.index.Put(e, s.seq)
	s.order = append(s.order, setEntry{entity: e, seq: s.seq})
	return true
}

// Delete removes e. It returns false if e was not present.
func (s *EntitySet) Delete(e Entity) bool {
	if !s.index.Has(e) {
		return false
	}
	s.index.Del(e)
	s.dead++
	if s.dead >= minCompaction && s.dead*2 > len(s.order) {
		s.order = slices.DeleteFunc(s.order, func(entry setEntry) bool { return !s.live(entry) })
		s.dead = 0
	}
	return true
}

// Has reports whether e is in the set.
func (s *EntitySet) Has(e Entity) bool {
	return s.index.Has(e)
}

// Len returns the number of entities in the set.
func (s *EntitySet) Len() int {
	return s.index.Len()
}

// Clear removes every entity.
func (s *EntitySet) Clear() {
	s.index.Clear()
	s.order = s.order[:0]
	s.dead = 0
}

// First returns the oldest entity in the set.
func (s *EntitySet) First() (Entity, bool) {
	for _, entry := range s.order {
		if s.live(entry) {
			return entry.entity, true
		}
	}
	return 0, false
}

// Last returns the newest entity in the set.
func (s *EntitySet) Last() (Entity, bool) {
	for i := len(s.order) - 1; i >= 0; i-- {
		if s.live(s.order[i]) {
			return s.order[i].entity, true
		}
	}
	return 0, false
}

// All iterates in insertion order.
func (s *EntitySet) All() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for _, entry := range slices.Clone(s.order) {
			if !s.live(entry) {
				continue
			}
			if !yield(entry.entity) {
				return
			}
		}
	}
}

// Reversed iterates newest first.
func (s *EntitySet) Reversed() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		snapshot := slices.Clone(s.order)
		for i := len(snapshot) - 1; i >= 0; i-- {
			if !s.live(snapshot[i]) {
				continue
			}
			if !yield(snapshot[i].entity) {
				return
			}
		}
	}
}

// Slice returns a copy of the set's contents in insertion order.
func (s *EntitySet) Slice() []Entity {
	out := make([]Entity, 0, s.Len())
	for _, entry := range s.order {
		if s.live(entry) {
			out = append(out, entry.entity)
		}
	}
	return out
}
