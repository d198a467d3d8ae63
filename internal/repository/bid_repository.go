package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/propwise/marketplace-service/internal/model"
)

const bidColumns = `
	id,
	ticket_id,
	vendor_id,
	total_amount,
	hourly_rate,
	estimated_hours,
	response_time,
	additional_notes,
	status,
	rejection_reason,
	counter_offer,
	counter_notes,
	version,
	is_superseded,
	superseded_by_bid_id AS superseded_by_id,
	previous_bid_id,
	approved_by_user_id,
	approved_at,
	created_at`

type BidRepository struct {
	db *gorm.DB
}

func NewBidRepository(db *gorm.DB) *BidRepository {
	return &BidRepository{db: db}
}

func (r *BidRepository) Get(ctx context.Context, id uuid.UUID) (*model.Bid, error) {
	var bid model.Bid
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+bidColumns+`
		FROM bids
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&bid).Error
	if err != nil {
		return nil, err
	}
	if bid.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &bid, nil
}

// Create inserts the first version of a vendor's bid on a ticket. The
// partial unique index on (ticket_id, vendor_id) WHERE NOT is_superseded
// backs the at-most-one-active invariant under concurrent submissions; a
// losing insert surfaces as gorm.ErrDuplicatedKey.
func (r *BidRepository) Create(ctx context.Context, bid model.Bid) (*model.Bid, error) {
	var saved model.Bid
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO bids (
			ticket_id,
			vendor_id,
			total_amount,
			hourly_rate,
			estimated_hours,
			response_time,
			additional_notes,
			status,
			version,
			is_superseded
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, FALSE)
		RETURNING `+bidColumns+`
	`,
		bid.TicketID,
		bid.VendorID,
		bid.TotalAmount,
		bid.HourlyRate,
		bid.EstimatedHours,
		bid.ResponseTime,
		bid.AdditionalNotes,
		bid.Status,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// CreateVersion supersedes priorID and inserts the replacement in one
// transaction, so no window exists where two active versions coexist. The
// prior row is flipped before the insert: the partial unique index checks
// per statement, so inserting the new active version first would collide
// with the still-active prior row. The superseded row keeps all its offer
// fields; only the linkage columns change. Returns gorm.ErrRecordNotFound
// when the prior version was already superseded by a concurrent update.
func (r *BidRepository) CreateVersion(ctx context.Context, priorID uuid.UUID, next model.Bid) (*model.Bid, error) {
	var saved model.Bid
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`
			UPDATE bids
			SET is_superseded = TRUE
			WHERE id = ? AND NOT is_superseded
		`, priorID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		err := tx.Raw(`
			INSERT INTO bids (
				ticket_id,
				vendor_id,
				total_amount,
				hourly_rate,
				estimated_hours,
				response_time,
				additional_notes,
				status,
				version,
				is_superseded,
				previous_bid_id
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, FALSE, ?)
			RETURNING `+bidColumns+`
		`,
			next.TicketID,
			next.VendorID,
			next.TotalAmount,
			next.HourlyRate,
			next.EstimatedHours,
			next.ResponseTime,
			next.AdditionalNotes,
			next.Status,
			next.Version,
			priorID,
		).Scan(&saved).Error
		if err != nil {
			return err
		}

		return tx.Exec(`
			UPDATE bids
			SET superseded_by_bid_id = ?
			WHERE id = ?
		`, saved.ID, priorID).Error
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *BidRepository) ActiveForVendorTicket(ctx context.Context, ticketID, vendorID uuid.UUID) (*model.Bid, error) {
	var bid model.Bid
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+bidColumns+`
		FROM bids
		WHERE ticket_id = ? AND vendor_id = ? AND NOT is_superseded
		LIMIT 1
	`, ticketID, vendorID).Scan(&bid).Error
	if err != nil {
		return nil, err
	}
	if bid.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &bid, nil
}

// ListForTicket returns every version of every vendor's bid on the ticket,
// newest version first per vendor. Callers filter superseded rows as needed.
func (r *BidRepository) ListForTicket(ctx context.Context, ticketID uuid.UUID) ([]model.Bid, error) {
	var bids []model.Bid
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+bidColumns+`
		FROM bids
		WHERE ticket_id = ?
		ORDER BY vendor_id, version DESC
	`, ticketID).Scan(&bids).Error
	if err != nil {
		return nil, err
	}
	return bids, nil
}

func (r *BidRepository) ListForVendor(ctx context.Context, vendorID uuid.UUID) ([]model.Bid, error) {
	var bids []model.Bid
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+bidColumns+`
		FROM bids
		WHERE vendor_id = ? AND NOT is_superseded
		ORDER BY created_at DESC
	`, vendorID).Scan(&bids).Error
	if err != nil {
		return nil, err
	}
	return bids, nil
}

// Accept marks the bid accepted, assigns the ticket to the bid's vendor and
// auto-rejects all other active pending bids on the same ticket, atomically.
// Returns gorm.ErrRecordNotFound if the bid is no longer an active pending
// version by the time the transaction runs.
func (r *BidRepository) Accept(ctx context.Context, bid model.Bid, siblingReason string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`
			UPDATE bids
			SET status = ?
			WHERE id = ? AND NOT is_superseded AND status = ?
		`, model.BidStatusAccepted, bid.ID, model.BidStatusPending)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Exec(`
			UPDATE bids
			SET status = ?, rejection_reason = ?
			WHERE ticket_id = ? AND vendor_id <> ? AND NOT is_superseded AND status = ?
		`, model.BidStatusRejected, siblingReason, bid.TicketID, bid.VendorID, model.BidStatusPending).Error; err != nil {
			return err
		}

		return tx.Exec(`
			UPDATE tickets
			SET vendor_id = ?, status = ?, marketplace = FALSE, updated_at = NOW()
			WHERE id = ?
		`, bid.VendorID, model.TicketStatusAccepted, bid.TicketID).Error
	})
}

// UpdateStatus applies a reject or counter transition against the active
// version only. RowsAffected of zero signals a superseded or already
// transitioned row.
func (r *BidRepository) UpdateStatus(
	ctx context.Context,
	bidID uuid.UUID,
	status model.BidStatus,
	rejectionReason *string,
	counterOffer *decimal.Decimal,
	counterNotes *string,
) error {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE bids
		SET
			status = ?,
			rejection_reason = ?,
			counter_offer = ?,
			counter_notes = ?
		WHERE id = ? AND NOT is_superseded AND status = ?
	`, status, rejectionReason, counterOffer, counterNotes, bidID, model.BidStatusPending)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetApproval stamps the secondary organization sign-off on an accepted bid.
func (r *BidRepository) SetApproval(ctx context.Context, bidID, userID uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE bids
		SET approved_by_user_id = ?, approved_at = ?
		WHERE id = ? AND NOT is_superseded AND status = ? AND approved_at IS NULL
	`, userID, at, bidID, model.BidStatusAccepted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// VendorBidGroups returns the vendor's full bid version chains grouped by
// ticket within a period, oldest version first within each ticket.
func (r *BidRepository) VendorBidGroups(ctx context.Context, vendorID uuid.UUID, from, to time.Time) ([]model.TicketBidGroup, error) {
	type row struct {
		model.Bid
		TicketTitle string
	}
	var rows []row
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			b.id,
			b.ticket_id,
			b.vendor_id,
			b.total_amount,
			b.hourly_rate,
			b.estimated_hours,
			b.response_time,
			b.additional_notes,
			b.status,
			b.rejection_reason,
			b.counter_offer,
			b.counter_notes,
			b.version,
			b.is_superseded,
			b.superseded_by_bid_id AS superseded_by_id,
			b.previous_bid_id,
			b.approved_by_user_id,
			b.approved_at,
			b.created_at,
			t.title AS ticket_title
		FROM bids b
		JOIN tickets t ON t.id = b.ticket_id
		WHERE b.vendor_id = ?
			AND b.created_at >= ?
			AND b.created_at < ?
		ORDER BY t.created_at ASC, b.version ASC
	`, vendorID, from, to).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var groups []model.TicketBidGroup
	index := make(map[uuid.UUID]int)
	for _, item := range rows {
		pos, ok := index[item.TicketID]
		if !ok {
			groups = append(groups, model.TicketBidGroup{
				TicketID:    item.TicketID,
				TicketTitle: item.TicketTitle,
			})
			pos = len(groups) - 1
			index[item.TicketID] = pos
		}
		groups[pos].Versions = append(groups[pos].Versions, item.Bid)
	}
	return groups, nil
}
