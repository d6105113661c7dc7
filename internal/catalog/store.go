package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"shopmirror/internal/apierrors"
	"shopmirror/internal/models"
	"shopmirror/internal/services/shopify"
)

// Store is the local catalog mirror, one row per remote product keyed by the
// unique remote identifier. Consistency of a single-record update relies on
// the database's own row-level atomicity; there is no application-level
// locking.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// snapshot denormalizes a remote product's variants into the mirror shape.
func snapshot(remote *shopify.Product) []models.VariantSnapshot {
	variants := make([]models.VariantSnapshot, len(remote.Variants))
	for i, v := range remote.Variants {
		option1 := ""
		if v.Option1 != nil {
			option1 = *v.Option1
		}
		variants[i] = models.VariantSnapshot{
			ShopifyID: v.ID,
			Price:     v.Price,
			Option1:   option1,
		}
	}
	return variants
}

// Upsert mirrors a remote product, overwriting title and variant snapshots
// and leaving changed_by/changed_at untouched. Returns the stored record.
func (s *Store) Upsert(remote *shopify.Product) (*models.Product, error) {
	var existing models.Product
	err := s.db.Where("shopify_id = ?", remote.ID).First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		record := &models.Product{
			ShopifyID: remote.ID,
			Title:     remote.Title,
			Variants:  snapshot(remote),
		}
		if err := s.db.Create(record).Error; err != nil {
			return nil, fmt.Errorf("failed to create product record: %w", err)
		}
		return record, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up product record: %w", err)
	}

	existing.Title = remote.Title
	existing.Variants = snapshot(remote)
	if err := s.db.Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to update product record: %w", err)
	}
	return &existing, nil
}

// Get resolves a record by local UUID or, when the identifier is numeric, by
// remote product ID.
func (s *Store) Get(id string) (*models.Product, error) {
	if shopifyID, err := strconv.ParseInt(id, 10, 64); err == nil {
		return s.GetByShopifyID(shopifyID)
	}

	var record models.Product
	if err := s.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch product record: %w", err)
	}
	return &record, nil
}

func (s *Store) GetByShopifyID(shopifyID int64) (*models.Product, error) {
	var record models.Product
	if err := s.db.Where("shopify_id = ?", shopifyID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch product record: %w", err)
	}
	return &record, nil
}

type ListOptions struct {
	// UpdatedOnly restricts the listing to locally mutated records.
	UpdatedOnly bool

	// Query is a free-text filter across title, remote ID and variant
	// option fields.
	Query string

	Page  int
	Limit int
}

func (s *Store) List(opts ListOptions) ([]models.Product, int64, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 20
	}

	query := s.db.Model(&models.Product{})

	if opts.UpdatedOnly {
		query = query.Where("changed_by IS NOT NULL")
	}

	if opts.Query != "" {
		like := "%" + opts.Query + "%"
		query = query.Where(
			"LOWER(title) LIKE LOWER(?) OR CAST(shopify_id AS TEXT) LIKE ? OR LOWER(variants) LIKE LOWER(?)",
			like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count product records: %w", err)
	}

	var records []models.Product
	offset := (opts.Page - 1) * opts.Limit
	if err := query.Order("shopify_id").Offset(offset).Limit(opts.Limit).Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list product records: %w", err)
	}

	return records, total, nil
}

// SetVariantPrice records a locally initiated price change: the matching
// variant snapshot gets the new price, and changed_by/changed_at are stamped
// with the acting identity and mutation time.
func (s *Store) SetVariantPrice(shopifyProductID, variantID int64, price, actor string, at time.Time) error {
	record, err := s.GetByShopifyID(shopifyProductID)
	if err != nil {
		return err
	}

	found := false
	for i := range record.Variants {
		if record.Variants[i].ShopifyID == variantID {
			record.Variants[i].Price = price
			found = true
			break
		}
	}
	if !found {
		record.Variants = append(record.Variants, models.VariantSnapshot{
			ShopifyID: variantID,
			Price:     price,
		})
	}

	record.ChangedBy = &actor
	record.ChangedAt = &at

	if err := s.db.Save(record).Error; err != nil {
		return fmt.Errorf("failed to persist price change: %w", err)
	}
	return nil
}
