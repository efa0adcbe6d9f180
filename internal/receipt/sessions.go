package receipt

import (
	"sort"
	"sync"

	"github.com/dvloznov/homeapp/internal/domain"
)

// Sessions holds the upload state of each transaction for the life of the
// process. Nothing is persisted.
type Sessions struct {
	mu     sync.RWMutex
	states map[string]domain.UploadState
}

func NewSessions() *Sessions {
	return &Sessions{states: make(map[string]domain.UploadState)}
}

func (s *Sessions) Save(transactionID string, state domain.UploadState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[transactionID] = state
}

// Get returns the state for transactionID, or PhaseNone when there is none.
func (s *Sessions) Get(transactionID string) domain.UploadState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[transactionID]
	if !ok {
		return domain.UploadState{Phase: domain.PhaseNone}
	}
	return state
}

// List returns the transaction ids with a session, optionally limited to one phase.
func (s *Sessions) List(phase domain.UploadPhase) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for id, state := range s.states {
		if phase != "" && state.Phase != phase {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Sessions) Delete(transactionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, transactionID)
}
