package racks

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rack is a bike rack request or installation. Racks come in either from the
// SeeClickFix feed or from a direct user submission.
type Rack struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Date        time.Time `gorm:"not null" json:"date"`

	// Location is a WKT point (lng lat) in SRID 4326.
	Location string `gorm:"type:geometry(Point,4326)" json:"location"`

	Verified bool `gorm:"default:false" json:"verified"`
	Locked   bool `gorm:"default:false" json:"locked"`

	Email    string  `json:"email,omitempty"`
	PhotoURL *string `json:"photo_url,omitempty"`

	SourceID    *uuid.UUID `gorm:"type:uuid;index" json:"source_id,omitempty"`
	BulkOrderID *uuid.UUID `gorm:"type:uuid;index" json:"bulk_order_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Rack) TableName() string { return "bmabr.racks" }

// HasPhoto reports whether a photo is attached.
func (r *Rack) HasPhoto() bool {
	return r.PhotoURL != nil && *r.PhotoURL != ""
}

// syncLocked recomputes the locked flag from the bulk-order association.
// A rack is frozen exactly while it belongs to a bulk order; assignment alone
// locks it, detachment unlocks it.
func (r *Rack) syncLocked() {
	r.Locked = r.BulkOrderID != nil
}

// BeforeSave keeps the locked flag consistent on every gorm write path.
func (r *Rack) BeforeSave(tx *gorm.DB) error {
	r.syncLocked()
	return nil
}

// Source is the base attribution record for a rack that arrived from an
// external system. Variant tables (e.g. TwitterSource) share its ID.
// Sources are written once and never updated.
type Source struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Source) TableName() string { return "bmabr.sources" }

// SourceName implements SourceVariant for the generic case.
func (s *Source) SourceName() string { return s.Name }

// TwitterSource is the twitter-origin attribution variant.
type TwitterSource struct {
	SourceID uuid.UUID `gorm:"type:uuid;primaryKey" json:"source_id"`
	User     string    `gorm:"not null" json:"user"`
	StatusID string    `gorm:"not null" json:"status_id"`
}

func (TwitterSource) TableName() string { return "bmabr.twitter_sources" }

func (s *TwitterSource) SourceName() string { return "twitter" }

// SourceVariant is the closed set of attribution source types. A generic
// Source handle resolves to its concrete variant through Store.ChildSource.
type SourceVariant interface {
	SourceName() string
}

// Borough is a simple reference entity.
type Borough struct {
	BoroCode int    `gorm:"column:borocode;primaryKey" json:"borocode"`
	BoroName string `gorm:"column:boroname;not null" json:"boroname"`
}

func (Borough) TableName() string { return "bmabr.boroughs" }

// CommunityBoard is an administrative region with a polygon boundary. The set
// of racks inside it is derived on demand from the boundary, never stored.
type CommunityBoard struct {
	Gid       int     `gorm:"primaryKey" json:"gid"`
	BoroCD    int     `gorm:"column:borocd" json:"borocd"`
	Board     int     `gorm:"not null" json:"board"`
	BoroughID int     `json:"borough_id"`
	Borough   Borough `gorm:"foreignKey:BoroughID" json:"borough"`

	// TheGeom is a WKT multipolygon in SRID 4326.
	TheGeom string `gorm:"column:the_geom;type:geometry(MultiPolygon,4326)" json:"-"`
}

func (CommunityBoard) TableName() string { return "bmabr.community_boards" }

func (cb *CommunityBoard) String() string {
	return fmt.Sprintf("%s Community Board %d", cb.Borough.BoroName, cb.Board)
}

// Neighborhood is an administrative region independent of the community-board
// hierarchy.
type Neighborhood struct {
	Gid      int    `gorm:"primaryKey" json:"gid"`
	RegionID int    `json:"regionid"`
	State    string `json:"state"`
	County   string `json:"county"`
	City     string `json:"city"`
	Name     string `gorm:"not null" json:"name"`

	TheGeom string `gorm:"column:the_geom;type:geometry(MultiPolygon,4326)" json:"-"`
}

func (Neighborhood) TableName() string { return "bmabr.neighborhoods" }

func (n *Neighborhood) String() string { return n.Name }

// BulkOrder is a batch rack request scoped to one community board. It starts
// unapproved with no racks; approval snapshots the unlocked racks currently
// inside the board boundary and locks them to this order. The snapshot is
// never re-evaluated: racks created later stay out, even if contained.
type BulkOrder struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	UserID           string         `gorm:"not null" json:"user_id"`
	CommunityBoardID int            `gorm:"not null" json:"community_board_id"`
	CommunityBoard   CommunityBoard `gorm:"foreignKey:CommunityBoardID" json:"community_board"`
	Approved         bool           `gorm:"default:false" json:"approved"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BulkOrder) TableName() string { return "bmabr.bulk_orders" }
