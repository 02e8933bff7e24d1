// Package breadcrumb keeps the derived navigation trail for the tree view.
package breadcrumb

import (
	"slices"
	"sync"
)

// Entry is one navigation step. TestID doubles as the identity key: pushes
// are idempotent per TestID so repeated navigation into the same node never
// duplicates the trail.
type Entry struct {
	Label   string
	Icon    string
	OnClick func()
	TestID  string
}

// Stack is an ordered breadcrumb sequence seeded with a permanent root entry.
type Stack struct {
	mu      sync.Mutex
	entries []Entry
}

// NewStack creates a stack holding only the root entry. The root can never
// be removed.
func NewStack(root Entry) *Stack {
	return &Stack{entries: []Entry{root}}
}

// Add appends an entry. No-op when an entry with the same TestID exists.
func (s *Stack) Add(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(e.TestID) >= 0 {
		return
	}
	s.entries = append(s.entries, e)
}

// Remove drops the entry with the given TestID. The root entry is immune.
func (s *Stack) Remove(testID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(testID)
	if idx <= 0 {
		return
	}
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
}

// Update relabels an existing entry in place, used when an item is renamed
// while its breadcrumb is visible.
func (s *Stack) Update(testID, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(testID); idx >= 0 {
		s.entries[idx].Label = label
	}
}

// Contains reports whether an entry with the TestID is on the stack.
func (s *Stack) Contains(testID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(testID) >= 0
}

// Entries returns a copy of the trail, root first.
func (s *Stack) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries)
}

// Reset drops everything except the root entry.
func (s *Stack) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = s.entries[:1]
}

func (s *Stack) indexOf(testID string) int {
	for i, e := range s.entries {
		if e.TestID == testID {
			return i
		}
	}
	return -1
}
