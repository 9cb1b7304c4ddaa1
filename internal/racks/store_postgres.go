package racks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// rackColumns reads the location back as WKT so the struct round-trips; the
// column itself holds PostGIS geometry.
const rackColumns = `id, title, description, address, date,
	ST_AsText(location) AS location,
	verified, locked, email, photo_url, source_id, bulk_order_id,
	created_at, updated_at`

const boardColumns = `gid, borocd, board, borough_id,
	ST_AsText(the_geom) AS the_geom`

// PostgresStore implements Store on gorm + PostGIS. Geometry predicates run
// in SQL (ST_Covers, so boundary points count as contained); multi-record
// bulk-order mutations run in a single transaction.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateRack(ctx context.Context, r *Rack) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.syncLocked()
	now := time.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	return s.db.WithContext(ctx).Exec(`
		INSERT INTO bmabr.racks
			(id, title, description, address, date, location, verified, locked,
			 email, photo_url, source_id, bulk_order_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ST_SetSRID(ST_GeomFromText(?), 4326), ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Title, r.Description, r.Address, r.Date, r.Location,
		r.Verified, r.Locked, r.Email, r.PhotoURL, r.SourceID, r.BulkOrderID,
		r.CreatedAt, r.UpdatedAt,
	).Error
}

func (s *PostgresStore) SaveRack(ctx context.Context, r *Rack) error {
	r.syncLocked()
	r.UpdatedAt = time.Now()

	res := s.db.WithContext(ctx).Exec(`
		UPDATE bmabr.racks SET
			title = ?, description = ?, address = ?, date = ?,
			location = ST_SetSRID(ST_GeomFromText(?), 4326),
			verified = ?, locked = ?, email = ?, photo_url = ?,
			source_id = ?, bulk_order_id = ?, updated_at = ?
		WHERE id = ?`,
		r.Title, r.Description, r.Address, r.Date, r.Location,
		r.Verified, r.Locked, r.Email, r.PhotoURL,
		r.SourceID, r.BulkOrderID, r.UpdatedAt, r.ID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) GetRack(ctx context.Context, id uuid.UUID) (*Rack, error) {
	var racks []Rack
	err := s.db.WithContext(ctx).
		Raw(`SELECT `+rackColumns+` FROM bmabr.racks WHERE id = ?`, id).
		Scan(&racks).Error
	if err != nil {
		return nil, err
	}
	if len(racks) == 0 {
		return nil, ErrNotFound
	}
	return &racks[0], nil
}

func (s *PostgresStore) DeleteRack(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Exec(`DELETE FROM bmabr.racks WHERE id = ?`, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListRacks(ctx context.Context) ([]Rack, error) {
	var racks []Rack
	err := s.db.WithContext(ctx).
		Raw(`SELECT ` + rackColumns + ` FROM bmabr.racks ORDER BY date DESC`).
		Scan(&racks).Error
	return racks, err
}

func (s *PostgresStore) RacksWithin(ctx context.Context, geomWKT string) ([]Rack, error) {
	var racks []Rack
	err := s.db.WithContext(ctx).Raw(`
		SELECT `+rackColumns+`
		FROM bmabr.racks
		WHERE location IS NOT NULL
		  AND ST_Covers(ST_SetSRID(ST_GeomFromText(?), 4326), location)`,
		geomWKT,
	).Scan(&racks).Error
	if err != nil {
		return nil, fmt.Errorf("containment query failed: %w", err)
	}
	return racks, nil
}

func (s *PostgresStore) RacksByBulkOrder(ctx context.Context, bulkOrderID uuid.UUID) ([]Rack, error) {
	var racks []Rack
	err := s.db.WithContext(ctx).
		Raw(`SELECT `+rackColumns+` FROM bmabr.racks WHERE bulk_order_id = ?`, bulkOrderID).
		Scan(&racks).Error
	return racks, err
}

func (s *PostgresStore) CreateSource(ctx context.Context, src *Source) error {
	return s.db.WithContext(ctx).Create(src).Error
}

func (s *PostgresStore) CreateTwitterSource(ctx context.Context, ts *TwitterSource) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		base := Source{Name: "twitter"}
		if ts.SourceID != uuid.Nil {
			base.ID = ts.SourceID
		}
		if err := tx.Create(&base).Error; err != nil {
			return err
		}
		ts.SourceID = base.ID
		return tx.Create(ts).Error
	})
}

func (s *PostgresStore) ChildSource(ctx context.Context, id uuid.UUID) (SourceVariant, error) {
	var ts TwitterSource
	err := s.db.WithContext(ctx).First(&ts, "source_id = ?", id).Error
	if err == nil {
		return &ts, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var src Source
	err = s.db.WithContext(ctx).First(&src, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &src, nil
}

func (s *PostgresStore) CreateBulkOrder(ctx context.Context, bo *BulkOrder) error {
	return s.db.WithContext(ctx).Omit("CommunityBoard").Create(bo).Error
}

func (s *PostgresStore) GetBulkOrder(ctx context.Context, id uuid.UUID) (*BulkOrder, error) {
	var bo BulkOrder
	err := s.db.WithContext(ctx).First(&bo, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &bo, nil
}

func (s *PostgresStore) ApproveBulkOrder(ctx context.Context, bo *BulkOrder) error {
	// Snapshot and lock inside one transaction so a crash cannot leave a
	// partially locked set.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uuid.UUID
		err := tx.Raw(`
			SELECT r.id
			FROM bmabr.racks r
			JOIN bmabr.community_boards cb ON cb.gid = ?
			WHERE NOT r.locked
			  AND r.location IS NOT NULL
			  AND ST_Covers(cb.the_geom, r.location)`,
			bo.CommunityBoardID,
		).Scan(&ids).Error
		if err != nil {
			return fmt.Errorf("snapshot racks for approval: %w", err)
		}

		if len(ids) > 0 {
			err = tx.Exec(`
				UPDATE bmabr.racks
				SET bulk_order_id = ?, locked = true, updated_at = now()
				WHERE id = ANY(?)`,
				bo.ID, pq.Array(ids),
			).Error
			if err != nil {
				return fmt.Errorf("lock racks: %w", err)
			}
		}

		return tx.Model(&BulkOrder{}).Where("id = ?", bo.ID).
			Update("approved", true).Error
	})
	if err != nil {
		return err
	}
	bo.Approved = true
	return nil
}

func (s *PostgresStore) DeleteBulkOrder(ctx context.Context, bo *BulkOrder) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(`
			UPDATE bmabr.racks
			SET bulk_order_id = NULL, locked = false, updated_at = now()
			WHERE bulk_order_id = ?`,
			bo.ID,
		).Error
		if err != nil {
			return fmt.Errorf("unlock racks: %w", err)
		}
		return tx.Delete(&BulkOrder{}, "id = ?", bo.ID).Error
	})
}

func (s *PostgresStore) CreateCommunityBoard(ctx context.Context, cb *CommunityBoard) error {
	return s.db.WithContext(ctx).Exec(`
		INSERT INTO bmabr.community_boards (gid, borocd, board, borough_id, the_geom)
		VALUES (?, ?, ?, ?, ST_SetSRID(ST_GeomFromText(?), 4326))
		ON CONFLICT (gid) DO NOTHING`,
		cb.Gid, cb.BoroCD, cb.Board, cb.BoroughID, cb.TheGeom,
	).Error
}

func (s *PostgresStore) GetCommunityBoard(ctx context.Context, gid int) (*CommunityBoard, error) {
	var boards []CommunityBoard
	err := s.db.WithContext(ctx).
		Raw(`SELECT `+boardColumns+` FROM bmabr.community_boards WHERE gid = ?`, gid).
		Scan(&boards).Error
	if err != nil {
		return nil, err
	}
	if len(boards) == 0 {
		return nil, ErrNotFound
	}
	board := boards[0]
	if err := s.db.WithContext(ctx).First(&board.Borough, "borocode = ?", board.BoroughID).Error; err != nil &&
		!errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return &board, nil
}

func (s *PostgresStore) ListCommunityBoards(ctx context.Context) ([]CommunityBoard, error) {
	var boards []CommunityBoard
	err := s.db.WithContext(ctx).
		Raw(`SELECT ` + boardColumns + ` FROM bmabr.community_boards ORDER BY borocd`).
		Scan(&boards).Error
	return boards, err
}
