package reencrypt

import (
	"sort"
	"sync"

	"github.com/dmitrijs2005/gophvault/internal/common"
)

// JobStore keeps jobs for status queries. Jobs live for the process
// lifetime only.
type JobStore interface {
	Put(job *Job)
	Get(id string) (*Job, error)
	ListByUser(userID string) []*Job
}

type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: make(map[string]*Job)}
}

func (s *MemoryJobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.id] = job
}

// Get returns common.ErrorNotFound for unknown ids.
func (s *MemoryJobStore) Get(id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return job, nil
}

// ListByUser returns the user's jobs, oldest first.
func (s *MemoryJobStore) ListByUser(userID string) []*Job {
	s.mu.RLock()
	var out []*Job
	for _, j := range s.jobs {
		if j.userID == userID {
			out = append(out, j)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(a, b int) bool {
		if out[a].createdAt.Equal(out[b].createdAt) {
			return out[a].id < out[b].id
		}
		return out[a].createdAt.Before(out[b].createdAt)
	})
	return out
}
