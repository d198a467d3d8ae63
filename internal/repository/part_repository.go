package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propwise/marketplace-service/internal/model"
)

const partColumns = `
	id,
	vendor_id,
	name,
	description,
	cost,
	markup_percentage,
	round_to_ninety_nine,
	created_at,
	updated_at`

type PartRepository struct {
	db *gorm.DB
}

func NewPartRepository(db *gorm.DB) *PartRepository {
	return &PartRepository{db: db}
}

func (r *PartRepository) Create(ctx context.Context, part model.Part) (*model.Part, error) {
	var saved model.Part
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO parts (vendor_id, name, description, cost, markup_percentage, round_to_ninety_nine)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+partColumns+`
	`,
		part.VendorID,
		part.Name,
		part.Description,
		part.Cost,
		part.MarkupPercentage,
		part.RoundToNinetyNine,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *PartRepository) Get(ctx context.Context, id uuid.UUID) (*model.Part, error) {
	var part model.Part
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+partColumns+`
		FROM parts
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&part).Error
	if err != nil {
		return nil, err
	}
	if part.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &part, nil
}

func (r *PartRepository) ListForVendor(ctx context.Context, vendorID uuid.UUID) ([]model.Part, error) {
	var parts []model.Part
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+partColumns+`
		FROM parts
		WHERE vendor_id = ?
		ORDER BY name ASC
	`, vendorID).Scan(&parts).Error
	if err != nil {
		return nil, err
	}
	return parts, nil
}

// Update writes non-pricing edits. Pricing changes must go through
// UpdateWithHistory so the history log stays complete.
func (r *PartRepository) Update(ctx context.Context, part model.Part) (*model.Part, error) {
	var saved model.Part
	err := r.db.WithContext(ctx).Raw(`
		UPDATE parts
		SET
			name = ?,
			description = ?,
			updated_at = NOW()
		WHERE id = ?
		RETURNING `+partColumns+`
	`, part.Name, part.Description, part.ID).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	if saved.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &saved, nil
}

// UpdateWithHistory writes the part's new pricing fields and appends the
// immutable history entry in one transaction, so the log can never miss a
// mutation.
func (r *PartRepository) UpdateWithHistory(ctx context.Context, part model.Part, history model.PartPriceHistory) (*model.Part, error) {
	var saved model.Part
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Raw(`
			UPDATE parts
			SET
				name = ?,
				description = ?,
				cost = ?,
				markup_percentage = ?,
				round_to_ninety_nine = ?,
				updated_at = NOW()
			WHERE id = ?
			RETURNING `+partColumns+`
		`,
			part.Name,
			part.Description,
			part.Cost,
			part.MarkupPercentage,
			part.RoundToNinetyNine,
			part.ID,
		).Scan(&saved).Error
		if err != nil {
			return err
		}
		if saved.ID == uuid.Nil {
			return gorm.ErrRecordNotFound
		}

		return tx.Exec(`
			INSERT INTO part_price_history (
				part_id,
				old_cost,
				new_cost,
				markup_percentage,
				round_to_ninety_nine,
				changed_by_user_id
			) VALUES (?, ?, ?, ?, ?, ?)
		`,
			history.PartID,
			history.OldCost,
			history.NewCost,
			history.MarkupPercentage,
			history.RoundToNinetyNine,
			history.ChangedByUserID,
		).Error
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *PartRepository) ListPriceHistory(ctx context.Context, partID uuid.UUID) ([]model.PartPriceHistory, error) {
	var entries []model.PartPriceHistory
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			part_id,
			old_cost,
			new_cost,
			markup_percentage,
			round_to_ninety_nine,
			changed_by_user_id,
			created_at
		FROM part_price_history
		WHERE part_id = ?
		ORDER BY created_at DESC
	`, partID).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
