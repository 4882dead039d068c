package leadform

import (
	"context"
	"sort"
	"sync"
)

// Repository archives accepted submissions so received leads survive CRM
// outages. The CRM remains the system of record; this store is a backstop.
type Repository interface {
	Save(ctx context.Context, rec *LeadRecord) error
	GetByID(ctx context.Context, id string) (*LeadRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*LeadRecord, error)
}

// InMemoryRepository keeps leads in process memory. Default when no
// DATABASE_URL is configured.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*LeadRecord
	order []string
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		leads: make(map[string]*LeadRecord),
	}
}

// Save stores a copy of the record.
func (r *InMemoryRepository) Save(ctx context.Context, rec *LeadRecord) error {
	cp := *rec
	r.mu.Lock()
	if _, exists := r.leads[cp.ID]; !exists {
		r.order = append(r.order, cp.ID)
	}
	r.leads[cp.ID] = &cp
	r.mu.Unlock()
	return nil
}

// GetByID retrieves a lead by ID.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*LeadRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	cp := *rec
	return &cp, nil
}

// ListRecent returns up to limit leads, newest first.
func (r *InMemoryRepository) ListRecent(ctx context.Context, limit int) ([]*LeadRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*LeadRecord, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *r.leads[r.order[i]]
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out, nil
}
