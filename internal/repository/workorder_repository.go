package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/propwise/marketplace-service/internal/model"
)

type WorkOrderRepository struct {
	db *gorm.DB
}

func NewWorkOrderRepository(db *gorm.DB) *WorkOrderRepository {
	return &WorkOrderRepository{db: db}
}

type workOrderRow struct {
	model.WorkOrder
	PartsJSON        []byte
	OtherChargesJSON []byte
	Images           pq.StringArray `gorm:"type:text[]"`
}

func (row workOrderRow) toModel() model.WorkOrder {
	order := row.WorkOrder
	order.Parts = model.DecodePartList(row.PartsJSON)
	order.OtherCharges = model.DecodeChargeList(row.OtherChargesJSON)
	order.ImageURLs = row.Images
	return order
}

func (r *WorkOrderRepository) Create(ctx context.Context, order model.WorkOrder) (*model.WorkOrder, error) {
	partsJSON, err := model.EncodePartList(order.Parts)
	if err != nil {
		return nil, err
	}
	chargesJSON, err := model.EncodeChargeList(order.OtherCharges)
	if err != nil {
		return nil, err
	}

	var row workOrderRow
	err = r.db.WithContext(ctx).Raw(`
		INSERT INTO work_orders (
			ticket_id,
			technician_name,
			description,
			status,
			hours_worked,
			hourly_rate,
			parts_json,
			other_charges_json,
			total_cost,
			completion_notes,
			images
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING
			id,
			ticket_id,
			technician_name,
			description,
			status,
			hours_worked,
			hourly_rate,
			parts_json,
			other_charges_json,
			total_cost,
			completion_notes,
			images,
			created_at
	`,
		order.TicketID,
		order.TechnicianName,
		order.Description,
		order.Status,
		order.HoursWorked,
		order.HourlyRate,
		partsJSON,
		chargesJSON,
		order.TotalCost,
		order.CompletionNotes,
		pq.StringArray(order.ImageURLs),
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	saved := row.toModel()
	return &saved, nil
}

func (r *WorkOrderRepository) Get(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error) {
	var row workOrderRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			ticket_id,
			technician_name,
			description,
			status,
			hours_worked,
			hourly_rate,
			parts_json,
			other_charges_json,
			total_cost,
			completion_notes,
			images,
			created_at
		FROM work_orders
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	order := row.toModel()
	return &order, nil
}

// ListForTicket returns all visits against a ticket, oldest first. A ticket
// accumulates multiple work orders across return visits.
func (r *WorkOrderRepository) ListForTicket(ctx context.Context, ticketID uuid.UUID) ([]model.WorkOrder, error) {
	var rows []workOrderRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			ticket_id,
			technician_name,
			description,
			status,
			hours_worked,
			hourly_rate,
			parts_json,
			other_charges_json,
			total_cost,
			completion_notes,
			images,
			created_at
		FROM work_orders
		WHERE ticket_id = ?
		ORDER BY created_at ASC
	`, ticketID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	orders := make([]model.WorkOrder, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toModel())
	}
	return orders, nil
}
