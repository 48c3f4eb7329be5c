package repo

import (
	"context"
	"sync"

	"github.com/leafdoc-core/server/internal/agent/model"
)

// MemoryHistoryRepository keeps history in process memory. Used when Redis is
// not configured.
type MemoryHistoryRepository struct {
	mu       sync.Mutex
	items    []model.ScanHistoryItem
	maxItems int
}

func NewMemoryHistoryRepository(maxItems int) *MemoryHistoryRepository {
	return &MemoryHistoryRepository{maxItems: maxItems}
}

func (m *MemoryHistoryRepository) Append(_ context.Context, item model.ScanHistoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append([]model.ScanHistoryItem{item}, m.items...)
	if m.maxItems > 0 && len(m.items) > m.maxItems {
		m.items = m.items[:m.maxItems]
	}
	return nil
}

func (m *MemoryHistoryRepository) Load(context.Context) ([]model.ScanHistoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.ScanHistoryItem, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *MemoryHistoryRepository) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	return nil
}

var _ model.HistoryRepository = (*MemoryHistoryRepository)(nil)
