package generations

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores generations in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]Generation
	byUser map[string][]Generation
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:   make(map[string]Generation),
		byUser: make(map[string][]Generation),
	}
}

// Create stores the generation record.
func (r *MemoryRepo) Create(ctx context.Context, gen Generation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[gen.ID] = gen
	r.byUser[gen.UserID] = append(r.byUser[gen.UserID], gen)
	return nil
}

// ListByUser returns generations for a user, newest first, with limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Generation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	userGens := r.byUser[userID]
	r.mu.RUnlock()

	if len(userGens) == 0 || offset >= len(userGens) {
		return []Generation{}, nil
	}

	gens := make([]Generation, len(userGens))
	copy(gens, userGens)
	sort.Slice(gens, func(i, j int) bool {
		return gens[i].CreatedAt.After(gens[j].CreatedAt)
	})

	end := len(gens)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return gens[offset:end], nil
}

var _ Repo = (*MemoryRepo)(nil)
