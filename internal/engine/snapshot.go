package engine

import (
	"fmt"
	"github.com/myrjola/dossier/internal/models"
	"regexp"
	"slices"
	"sort"
	"sync"
)

// DefaultSlots are always listed, whether or not they hold a snapshot.
var DefaultSlots = []string{"page-a", "page-b", "page-c"}

var slotShape = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// SnapshotStore is an in-memory mapping from slot name to an independent copy of a state.
type SnapshotStore struct {
	mu    sync.Mutex
	slots map[string]models.VisibleState
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		mu:    sync.Mutex{},
		slots: make(map[string]models.VisibleState),
	}
}

// ValidSlot reports whether slot is a usable slot name.
func ValidSlot(slot string) bool {
	return slotShape.MatchString(slot)
}

func invalidSlot(slot string) *Error {
	return &Error{Kind: KindInvalidSlot, Status: 0, Message: fmt.Sprintf("%q is not a valid slot name", slot), Err: nil}
}

// Save stores a copy of state under slot, overwriting any previous snapshot.
func (s *SnapshotStore) Save(slot string, state models.VisibleState) error {
	if !ValidSlot(slot) {
		return invalidSlot(slot)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[slot] = state.Clone()
	return nil
}

// Load returns a copy of the snapshot stored under slot.
func (s *SnapshotStore) Load(slot string) (models.VisibleState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.slots[slot]
	if !ok {
		return models.VisibleState{}, &Error{ //nolint:exhaustruct // error path.
			Kind:    KindUnknownSlot,
			Status:  0,
			Message: fmt.Sprintf("nothing saved in slot %q", slot),
			Err:     nil,
		}
	}
	return state.Clone(), nil
}

// Saved reports whether slot holds a snapshot.
func (s *SnapshotStore) Saved(slot string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.slots[slot]
	return ok
}

// List returns DefaultSlots followed by every other saved slot in lexical order.
func (s *SnapshotStore) List() []string {
	s.mu.Lock()
	extra := make([]string, 0, len(s.slots))
	for slot := range s.slots {
		if !slices.Contains(DefaultSlots, slot) {
			extra = append(extra, slot)
		}
	}
	s.mu.Unlock()
	sort.Strings(extra)
	return append(slices.Clone(DefaultSlots), extra...)
}
