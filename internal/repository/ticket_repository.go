package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propwise/marketplace-service/internal/model"
)

const ticketColumns = `
	id,
	org_id,
	title,
	description,
	priority,
	status,
	vendor_id,
	assignee_id,
	marketplace,
	created_by_id,
	created_at,
	updated_at`

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Create(ctx context.Context, ticket model.Ticket) (*model.Ticket, error) {
	var saved model.Ticket
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO tickets (org_id, title, description, priority, status, marketplace, created_by_id)
		VALUES (?, ?, ?, ?, ?, FALSE, ?)
		RETURNING `+ticketColumns+`
	`,
		ticket.OrgID,
		ticket.Title,
		ticket.Description,
		ticket.Priority,
		ticket.Status,
		ticket.CreatedByID,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *TicketRepository) Get(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	var ticket model.Ticket
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+ticketColumns+`
		FROM tickets
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&ticket).Error
	if err != nil {
		return nil, err
	}
	if ticket.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &ticket, nil
}

func (r *TicketRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.TicketStatus) error {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE tickets
		SET status = ?, updated_at = NOW()
		WHERE id = ?
	`, status, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *TicketRepository) AssignVendor(ctx context.Context, id, vendorID uuid.UUID) error {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE tickets
		SET vendor_id = ?, assignee_id = NULL, marketplace = FALSE, status = ?, updated_at = NOW()
		WHERE id = ?
	`, vendorID, model.TicketStatusAccepted, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AssignTechnician sets the assignee and, when a schedule was proposed,
// books the calendar slot in the same transaction.
func (r *TicketRepository) AssignTechnician(ctx context.Context, id, technicianID uuid.UUID, schedule *model.ProposedSchedule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`
			UPDATE tickets
			SET assignee_id = ?, vendor_id = NULL, marketplace = FALSE, status = ?, updated_at = NOW()
			WHERE id = ?
		`, technicianID, model.TicketStatusAccepted, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if schedule == nil {
			return nil
		}
		return tx.Exec(`
			INSERT INTO calendar_events (technician_id, ticket_id, title, start_at, end_at)
			SELECT ?, ?, t.title, ?, ?
			FROM tickets t
			WHERE t.id = ?
		`, technicianID, id, schedule.Start, schedule.End, id).Error
	})
}

func (r *TicketRepository) OpenMarketplace(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE tickets
		SET marketplace = TRUE, vendor_id = NULL, assignee_id = NULL, status = ?, updated_at = NOW()
		WHERE id = ?
	`, model.TicketStatusOpen, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasScheduleOverlap reports whether the technician already has a calendar
// event intersecting [start, end).
func (r *TicketRepository) HasScheduleOverlap(ctx context.Context, technicianID uuid.UUID, start, end time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM calendar_events
		WHERE technician_id = ?
			AND start_at < ?
			AND end_at > ?
	`, technicianID, end, start).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *TicketRepository) GetTechnician(ctx context.Context, id uuid.UUID) (*model.Technician, error) {
	var tech model.Technician
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, org_id, full_name, phone
		FROM technicians
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&tech).Error
	if err != nil {
		return nil, err
	}
	if tech.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &tech, nil
}

func (r *TicketRepository) GetOrganization(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	var org model.Organization
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, type, contact_name, address, phone, email
		FROM organizations
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&org).Error
	if err != nil {
		return nil, err
	}
	if org.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &org, nil
}
