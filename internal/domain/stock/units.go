package stock

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrUnknownUnit indicates a unit label outside the managed set.
var ErrUnknownUnit = errors.New("unit is not in the managed unit set")

// UnitSet is an ordered set of lowercase unit labels. The zero value is empty.
// Insertion order is kept for display.
type UnitSet struct {
	units []string
}

// NewUnitSet builds a set from initial, normalizing and deduplicating entries.
func NewUnitSet(initial ...string) UnitSet {
	var set UnitSet
	for _, unit := range initial {
		set, _ = set.Add(unit)
	}
	return set
}

// Units returns a copy of the entries in insertion order.
func (s UnitSet) Units() []string {
	out := make([]string, len(s.units))
	copy(out, s.units)
	return out
}

// Len reports the number of entries.
func (s UnitSet) Len() int {
	return len(s.units)
}

// Contains reports whether unit is present, ignoring case and surrounding space.
func (s UnitSet) Contains(unit string) bool {
	needle := normalizeUnit(unit)
	for _, u := range s.units {
		if u == needle {
			return true
		}
	}
	return false
}

// Add returns the set with candidate appended. Blank or already present
// candidates leave the set unchanged and report false.
func (s UnitSet) Add(candidate string) (UnitSet, bool) {
	unit := normalizeUnit(candidate)
	if unit == "" || s.Contains(unit) {
		return s, false
	}

	next := make([]string, len(s.units), len(s.units)+1)
	copy(next, s.units)
	return UnitSet{units: append(next, unit)}, true
}

// Remove returns the set without any entry equal to unit.
func (s UnitSet) Remove(unit string) (UnitSet, bool) {
	next := make([]string, 0, len(s.units))
	for _, u := range s.units {
		if u != unit {
			next = append(next, u)
		}
	}
	if len(next) == len(s.units) {
		return s, false
	}
	return UnitSet{units: next}, true
}

func normalizeUnit(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

// UnitSubscriber receives the full unit list after every effective change.
// A non-nil error discards the change.
type UnitSubscriber func(ctx context.Context, units []string) error

// UnitManager guards a UnitSet and notifies a subscriber on changes.
type UnitManager struct {
	mu       sync.Mutex
	set      UnitSet
	onChange UnitSubscriber
}

// NewUnitManager creates a manager seeded with initial.
func NewUnitManager(initial []string, onChange UnitSubscriber) *UnitManager {
	return &UnitManager{set: NewUnitSet(initial...), onChange: onChange}
}

// Units returns the current entries.
func (m *UnitManager) Units() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set.Units()
}

// Add inserts candidate and reports whether the set changed.
func (m *UnitManager) Add(ctx context.Context, candidate string) (bool, error) {
	return m.apply(ctx, func(s UnitSet) (UnitSet, bool) { return s.Add(candidate) })
}

// Remove deletes unit and reports whether the set changed.
func (m *UnitManager) Remove(ctx context.Context, unit string) (bool, error) {
	return m.apply(ctx, func(s UnitSet) (UnitSet, bool) { return s.Remove(unit) })
}

// Contains reports whether unit is part of the current set.
func (m *UnitManager) Contains(unit string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set.Contains(unit)
}

// Replace swaps the whole set without notifying the subscriber.
func (m *UnitManager) Replace(units []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set = NewUnitSet(units...)
}

func (m *UnitManager) apply(ctx context.Context, mutate func(UnitSet) (UnitSet, bool)) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, changed := mutate(m.set)
	if !changed {
		return false, nil
	}
	if m.onChange != nil {
		if err := m.onChange(ctx, next.Units()); err != nil {
			return false, err
		}
	}
	m.set = next
	return true, nil
}
