package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propwise/marketplace-service/internal/model"
)

const invoiceColumns = `
	id,
	ticket_id,
	org_id,
	invoice_number,
	subtotal,
	tax_scope,
	tax_percentage,
	tax_amount,
	discount,
	total,
	net_days,
	payment_terms,
	issued_at,
	due_date,
	notes,
	created_by_id,
	created_at`

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create persists the invoice header and its per-work-order pricing
// snapshot lines in one transaction.
func (r *InvoiceRepository) Create(ctx context.Context, invoice model.Invoice) (*model.Invoice, error) {
	var saved model.Invoice
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Raw(`
			INSERT INTO invoices (
				ticket_id,
				org_id,
				invoice_number,
				subtotal,
				tax_scope,
				tax_percentage,
				tax_amount,
				discount,
				total,
				net_days,
				payment_terms,
				issued_at,
				due_date,
				notes,
				created_by_id
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING `+invoiceColumns+`
		`,
			invoice.TicketID,
			invoice.OrgID,
			invoice.InvoiceNumber,
			invoice.Subtotal,
			invoice.TaxScope,
			invoice.TaxPercentage,
			invoice.TaxAmount,
			invoice.Discount,
			invoice.Total,
			invoice.NetDays,
			invoice.PaymentTerms,
			invoice.IssuedAt,
			invoice.DueDate,
			invoice.Notes,
			invoice.CreatedByID,
		).Scan(&saved).Error
		if err != nil {
			return err
		}

		for i, line := range invoice.Lines {
			var savedLine model.InvoiceLine
			err := tx.Raw(`
				INSERT INTO invoice_lines (
					invoice_id,
					line_no,
					work_order_id,
					hours,
					hourly_rate,
					labor_cost,
					parts_cost,
					other_cost,
					line_total
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
				RETURNING id, invoice_id, work_order_id, hours, hourly_rate, labor_cost, parts_cost, other_cost, line_total
			`,
				saved.ID,
				i+1,
				line.WorkOrderID,
				line.Hours,
				line.HourlyRate,
				line.LaborCost,
				line.PartsCost,
				line.OtherCost,
				line.LineTotal,
			).Scan(&savedLine).Error
			if err != nil {
				return err
			}
			saved.Lines = append(saved.Lines, savedLine)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *InvoiceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&invoice).Error
	if err != nil {
		return nil, err
	}
	if invoice.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	err = r.db.WithContext(ctx).Raw(`
		SELECT id, invoice_id, work_order_id, hours, hourly_rate, labor_cost, parts_cost, other_cost, line_total
		FROM invoice_lines
		WHERE invoice_id = ?
		ORDER BY line_no
	`, id).Scan(&invoice.Lines).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// NextInvoiceNumber allocates a sequential number from a dedicated sequence.
func (r *InvoiceRepository) NextInvoiceNumber(ctx context.Context) (int64, error) {
	var seq int64
	if err := r.db.WithContext(ctx).Raw(`SELECT nextval('invoice_number_seq')`).Scan(&seq).Error; err != nil {
		return 0, err
	}
	return seq, nil
}
