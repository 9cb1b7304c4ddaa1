package racks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/royburns/fixcity/internal/geo"
)

// MemoryStore is an in-memory Store used by tests. Containment queries are
// evaluated in Go with the same boundary-inclusive semantics as the PostGIS
// store.
type MemoryStore struct {
	mu             sync.Mutex
	racks          map[uuid.UUID]Rack
	sources        map[uuid.UUID]Source
	twitterSources map[uuid.UUID]TwitterSource
	bulkOrders     map[uuid.UUID]BulkOrder
	boards         map[int]CommunityBoard
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		racks:          make(map[uuid.UUID]Rack),
		sources:        make(map[uuid.UUID]Source),
		twitterSources: make(map[uuid.UUID]TwitterSource),
		bulkOrders:     make(map[uuid.UUID]BulkOrder),
		boards:         make(map[int]CommunityBoard),
	}
}

func (m *MemoryStore) CreateRack(ctx context.Context, r *Rack) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.syncLocked()
	m.racks[r.ID] = *r
	return nil
}

func (m *MemoryStore) SaveRack(ctx context.Context, r *Rack) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.racks[r.ID]; !ok {
		return ErrNotFound
	}
	r.syncLocked()
	m.racks[r.ID] = *r
	return nil
}

func (m *MemoryStore) GetRack(ctx context.Context, id uuid.UUID) (*Rack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.racks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *MemoryStore) DeleteRack(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.racks[id]; !ok {
		return ErrNotFound
	}
	delete(m.racks, id)
	return nil
}

func (m *MemoryStore) ListRacks(ctx context.Context) ([]Rack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Rack, 0, len(m.racks))
	for _, r := range m.racks {
		out = append(out, r)
	}
	return out, nil
}

func (m *MemoryStore) RacksWithin(ctx context.Context, geomWKT string) ([]Rack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Rack
	for _, r := range m.racks {
		if r.Location == "" {
			continue
		}
		contained, err := geo.Contains(geomWKT, r.Location)
		if err != nil {
			return nil, err
		}
		if contained {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryStore) RacksByBulkOrder(ctx context.Context, bulkOrderID uuid.UUID) ([]Rack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Rack
	for _, r := range m.racks {
		if r.BulkOrderID != nil && *r.BulkOrderID == bulkOrderID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryStore) CreateSource(ctx context.Context, s *Source) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	m.sources[s.ID] = *s
	return nil
}

func (m *MemoryStore) CreateTwitterSource(ctx context.Context, ts *TwitterSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ts.SourceID == uuid.Nil {
		ts.SourceID = uuid.New()
	}
	m.sources[ts.SourceID] = Source{ID: ts.SourceID, Name: "twitter"}
	m.twitterSources[ts.SourceID] = *ts
	return nil
}

func (m *MemoryStore) ChildSource(ctx context.Context, id uuid.UUID) (SourceVariant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ts, ok := m.twitterSources[id]; ok {
		return &ts, nil
	}
	if s, ok := m.sources[id]; ok {
		return &s, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) CreateBulkOrder(ctx context.Context, bo *BulkOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if bo.ID == uuid.Nil {
		bo.ID = uuid.New()
	}
	m.bulkOrders[bo.ID] = *bo
	return nil
}

func (m *MemoryStore) GetBulkOrder(ctx context.Context, id uuid.UUID) (*BulkOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bo, ok := m.bulkOrders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &bo, nil
}

func (m *MemoryStore) ApproveBulkOrder(ctx context.Context, bo *BulkOrder) error {
	board, err := m.GetCommunityBoard(ctx, bo.CommunityBoardID)
	if err != nil {
		return err
	}
	contained, err := m.RacksWithin(ctx, board.TheGeom)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range contained {
		if r.Locked {
			continue
		}
		id := bo.ID
		r.BulkOrderID = &id
		r.syncLocked()
		m.racks[r.ID] = r
	}
	bo.Approved = true
	m.bulkOrders[bo.ID] = *bo
	return nil
}

func (m *MemoryStore) DeleteBulkOrder(ctx context.Context, bo *BulkOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bulkOrders[bo.ID]; !ok {
		return ErrNotFound
	}
	for id, r := range m.racks {
		if r.BulkOrderID != nil && *r.BulkOrderID == bo.ID {
			r.BulkOrderID = nil
			r.syncLocked()
			m.racks[id] = r
		}
	}
	delete(m.bulkOrders, bo.ID)
	return nil
}

func (m *MemoryStore) CreateCommunityBoard(ctx context.Context, cb *CommunityBoard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boards[cb.Gid] = *cb
	return nil
}

func (m *MemoryStore) GetCommunityBoard(ctx context.Context, gid int) (*CommunityBoard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cb, ok := m.boards[gid]
	if !ok {
		return nil, ErrNotFound
	}
	return &cb, nil
}

func (m *MemoryStore) ListCommunityBoards(ctx context.Context) ([]CommunityBoard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CommunityBoard, 0, len(m.boards))
	for _, cb := range m.boards {
		out = append(out, cb)
	}
	return out, nil
}
