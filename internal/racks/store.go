package racks

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by lookups for entities that do not exist.
var ErrNotFound = errors.New("not found")

// Store is the persistence boundary for the rack domain. Two implementations
// exist: a Postgres/PostGIS store used in production and an in-memory store
// used by tests. Storage errors are propagated unchanged; retry policy belongs
// to callers.
type Store interface {
	CreateRack(ctx context.Context, r *Rack) error
	SaveRack(ctx context.Context, r *Rack) error
	GetRack(ctx context.Context, id uuid.UUID) (*Rack, error)
	DeleteRack(ctx context.Context, id uuid.UUID) error
	ListRacks(ctx context.Context) ([]Rack, error)

	// RacksWithin returns the racks whose location falls inside the given
	// WKT geometry, boundary points included.
	RacksWithin(ctx context.Context, geomWKT string) ([]Rack, error)
	RacksByBulkOrder(ctx context.Context, bulkOrderID uuid.UUID) ([]Rack, error)

	CreateSource(ctx context.Context, s *Source) error
	// CreateTwitterSource writes the base source row plus the twitter variant
	// row and fills ts.SourceID.
	CreateTwitterSource(ctx context.Context, ts *TwitterSource) error
	// ChildSource resolves a generic source handle to its concrete variant,
	// preserving the variant-specific fields.
	ChildSource(ctx context.Context, id uuid.UUID) (SourceVariant, error)

	CreateBulkOrder(ctx context.Context, bo *BulkOrder) error
	GetBulkOrder(ctx context.Context, id uuid.UUID) (*BulkOrder, error)
	// ApproveBulkOrder flips the order to approved and locks every unlocked
	// rack currently inside its community board boundary to the order. The
	// membership set is fixed at this moment and never re-evaluated.
	ApproveBulkOrder(ctx context.Context, bo *BulkOrder) error
	// DeleteBulkOrder detaches and unlocks every rack the order had locked,
	// then removes the order record.
	DeleteBulkOrder(ctx context.Context, bo *BulkOrder) error

	CreateCommunityBoard(ctx context.Context, cb *CommunityBoard) error
	GetCommunityBoard(ctx context.Context, gid int) (*CommunityBoard, error)
	ListCommunityBoards(ctx context.Context) ([]CommunityBoard, error)
}

// Racks returns the racks currently inside the board boundary. The
// relationship is derived on demand, not stored.
func (cb *CommunityBoard) Racks(ctx context.Context, s Store) ([]Rack, error) {
	return s.RacksWithin(ctx, cb.TheGeom)
}
