// Package session holds the per-process conversation state: the accepted
// transcript, the flagged log and the derived counters. The moderation
// service is the only writer; everything else reads snapshots.
package session

import (
	"sync"

	"github.com/samber/do"
)

type Service struct {
	mu sync.RWMutex

	transcript []Entry
	flagged    []Entry

	total    int
	accepted int
	blocked  int
}

func New(_ *do.Injector) (*Service, error) {
	return &Service{}, nil
}

// Append records a moderated message under a single lock, so the lists
// and counters never disagree.
func (s *Service) Append(msg Message, verdict Verdict) Entry {
	entry := Entry{
		Message: msg,
		Verdict: verdict,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if verdict.Allowed {
		s.transcript = append(s.transcript, entry)
		s.accepted++
	} else {
		s.flagged = append(s.flagged, entry)
		s.blocked++
	}
	s.total++

	return entry
}

func (s *Service) Transcript() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Entry, len(s.transcript))
	copy(result, s.transcript)

	return result
}

func (s *Service) Flagged() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Entry, len(s.flagged))
	copy(result, s.flagged)

	return result
}

// Clear resets the session to its initial empty state.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transcript = nil
	s.flagged = nil
	s.total = 0
	s.accepted = 0
	s.blocked = 0
}

func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		Total:    s.total,
		Accepted: s.accepted,
		Blocked:  s.blocked,
	}

	if stats.Total > 0 {
		stats.ApprovalRate = float64(stats.Accepted) / float64(stats.Total)
	}

	return stats
}
