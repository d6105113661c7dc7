package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is the local mirror of a remote catalog product. Rows are written
// only by the catalog synchronizer (bulk upsert) and the price/stock update
// workflow (single-record upsert). Remote deletions are not synchronized, so
// a row may outlive its upstream product.
type Product struct {
	ID        string            `json:"id" gorm:"type:uuid;primary_key"`
	ShopifyID int64             `json:"shopify_id" gorm:"uniqueIndex;not null"`
	Title     string            `json:"title" gorm:"not null"`
	Variants  []VariantSnapshot `json:"variants" gorm:"serializer:json"`

	// ChangedBy/ChangedAt record the last local price/stock mutation. Both
	// nil means the row has only ever been mirrored, never edited here.
	ChangedBy *string    `json:"changed_by,omitempty"`
	ChangedAt *time.Time `json:"changed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VariantSnapshot is the denormalized per-variant state kept in the mirror.
// Price stays a string because the remote platform serves decimal strings.
type VariantSnapshot struct {
	ShopifyID int64  `json:"id"`
	Price     string `json:"price"`
	Option1   string `json:"option1,omitempty"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// LocallyChanged reports whether the record has ever been mutated through the
// price/stock workflow rather than just mirrored.
func (p *Product) LocallyChanged() bool {
	return p.ChangedBy != nil
}
