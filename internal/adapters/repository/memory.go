package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/okian/devmatch/internal/domain/model"
	"github.com/okian/devmatch/pkg/metrics"
)

// MemoryStore keeps projects and users in process. Users are returned in
// insertion order.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]model.Project
	users    []model.Candidate
	index    map[string]int
}

// NewMemoryStore creates a store, optionally pre-loaded with a seed.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		projects: make(map[string]model.Project),
		index:    make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the store content with seed.
func (s *MemoryStore) Load(seed Seed) error {
	if err := seed.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = make(map[string]model.Project, len(seed.Projects))
	s.users = nil
	s.index = make(map[string]int, len(seed.Users))
	for _, p := range seed.Projects {
		s.putProject(p)
	}
	for _, u := range seed.Users {
		s.putUser(u)
	}
	return nil
}

// PutProject inserts or replaces a project.
func (s *MemoryStore) PutProject(p model.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putProject(p)
}

// PutUser inserts or replaces a user.
func (s *MemoryStore) PutUser(u model.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putUser(u)
}

func (s *MemoryStore) putProject(p model.Project) {
	p.RequiredSkills = slices.Clone(p.RequiredSkills)
	s.projects[p.ID] = p
}

func (s *MemoryStore) putUser(u model.Candidate) {
	u.Skills = slices.Clone(u.Skills)
	if i, ok := s.index[u.ID]; ok {
		s.users[i] = u
		return
	}
	s.index[u.ID] = len(s.users)
	s.users = append(s.users, u)
}

// FindByID returns the project with id.
func (s *MemoryStore) FindByID(ctx context.Context, id string) (model.Project, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQuery("find_project", float64(time.Since(start).Milliseconds()))
	}()
	if err := ctx.Err(); err != nil {
		return model.Project{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return model.Project{}, ErrNotFound
	}
	p.RequiredSkills = slices.Clone(p.RequiredSkills)
	return p, nil
}

// FindByRole returns every user holding role.
func (s *MemoryStore) FindByRole(ctx context.Context, role string) ([]model.Candidate, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQuery("find_candidates", float64(time.Since(start).Milliseconds()))
	}()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Candidate, 0, len(s.users))
	for _, u := range s.users {
		if u.Role != role {
			continue
		}
		u.Skills = slices.Clone(u.Skills)
		out = append(out, u)
	}
	return out, nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
