package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"renewable_simulator/internal/model"
)

// Run is a persisted simulation request and its result.
type Run struct {
	ID         string           `json:"id"`
	Technology model.Technology `json:"technology"`
	CreatedAt  time.Time        `json:"created_at"`
	Request    json.RawMessage  `json:"request"`
	Result     model.Result     `json:"result"`
}

// Runs persists simulation runs.
type Runs interface {
	// Save assigns an ID and timestamp when missing and stores the run.
	Save(ctx context.Context, run Run) (Run, error)
	Get(ctx context.Context, id string) (Run, error)
	// List returns the most recent runs first, at most limit of them.
	List(ctx context.Context, limit int) ([]Run, error)
}

func prepare(run Run, now func() time.Time) Run {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = now().UTC()
	}
	return run
}

// MemoryRuns keeps runs in process memory.
type MemoryRuns struct {
	mu   sync.RWMutex
	runs map[string]Run
	now  func() time.Time
}

func NewMemoryRuns() *MemoryRuns {
	return &MemoryRuns{runs: make(map[string]Run), now: time.Now}
}

func (m *MemoryRuns) Save(_ context.Context, run Run) (Run, error) {
	run = prepare(run, m.now)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = run
	return run, nil
}

func (m *MemoryRuns) Get(_ context.Context, id string) (Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, ok := m.runs[id]
	if !ok {
		return Run{}, fmt.Errorf("run %q: %w", id, ErrNotFound)
	}
	return run, nil
}

func (m *MemoryRuns) List(_ context.Context, limit int) ([]Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Run, 0, len(m.runs))
	for _, r := range m.runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
