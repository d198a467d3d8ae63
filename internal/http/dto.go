package http

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propwise/marketplace-service/internal/model"
	"github.com/propwise/marketplace-service/internal/money"
)

// Money values render as fixed two-decimal strings. Incoming amounts bind
// through decimal.Decimal, which accepts quoted and bare JSON numbers.

type ticketResponse struct {
	ID          string    `json:"id"`
	OrgID       string    `json:"org_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	VendorID    *string   `json:"vendor_id,omitempty"`
	AssigneeID  *string   `json:"assignee_id,omitempty"`
	Marketplace bool      `json:"marketplace"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toTicketResponse(t model.Ticket) ticketResponse {
	return ticketResponse{
		ID:          t.ID.String(),
		OrgID:       t.OrgID.String(),
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		VendorID:    optUUID(t.VendorID),
		AssigneeID:  optUUID(t.AssigneeID),
		Marketplace: t.Marketplace,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type bidResponse struct {
	ID              string     `json:"id"`
	TicketID        string     `json:"ticket_id"`
	VendorID        string     `json:"vendor_id"`
	TotalAmount     string     `json:"total_amount"`
	HourlyRate      *string    `json:"hourly_rate,omitempty"`
	EstimatedHours  *string    `json:"estimated_hours,omitempty"`
	ResponseTime    string     `json:"response_time,omitempty"`
	AdditionalNotes string     `json:"additional_notes,omitempty"`
	Status          string     `json:"status"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	CounterOffer    *string    `json:"counter_offer,omitempty"`
	CounterNotes    *string    `json:"counter_notes,omitempty"`
	Version         int        `json:"version"`
	IsSuperseded    bool       `json:"is_superseded"`
	SupersededByID  *string    `json:"superseded_by_bid_id,omitempty"`
	PreviousBidID   *string    `json:"previous_bid_id,omitempty"`
	ApprovedByID    *string    `json:"approved_by_user_id,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toBidResponse(b model.Bid) bidResponse {
	return bidResponse{
		ID:              b.ID.String(),
		TicketID:        b.TicketID.String(),
		VendorID:        b.VendorID.String(),
		TotalAmount:     money.Format(b.TotalAmount),
		HourlyRate:      optDecimal(b.HourlyRate),
		EstimatedHours:  optDecimal(b.EstimatedHours),
		ResponseTime:    b.ResponseTime,
		AdditionalNotes: b.AdditionalNotes,
		Status:          string(b.Status),
		RejectionReason: b.RejectionReason,
		CounterOffer:    optDecimal(b.CounterOffer),
		CounterNotes:    b.CounterNotes,
		Version:         b.Version,
		IsSuperseded:    b.IsSuperseded,
		SupersededByID:  optUUID(b.SupersededByID),
		PreviousBidID:   optUUID(b.PreviousBidID),
		ApprovedByID:    optUUID(b.ApprovedByUserID),
		ApprovedAt:      b.ApprovedAt,
		CreatedAt:       b.CreatedAt,
	}
}

func toBidResponses(bids []model.Bid) []bidResponse {
	result := make([]bidResponse, 0, len(bids))
	for _, b := range bids {
		result = append(result, toBidResponse(b))
	}
	return result
}

type workOrderPartDTO struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Cost     decimal.Decimal `json:"cost"`
}

type otherChargeDTO struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type workOrderResponse struct {
	ID              string             `json:"id"`
	TicketID        string             `json:"ticket_id"`
	TechnicianName  string             `json:"technician_name"`
	Description     string             `json:"description,omitempty"`
	Status          string             `json:"status"`
	HoursWorked     string             `json:"hours_worked"`
	HourlyRate      string             `json:"hourly_rate"`
	Parts           []workOrderPartDTO `json:"parts"`
	OtherCharges    []otherChargeDTO   `json:"other_charges"`
	TotalCost       string             `json:"total_cost"`
	CompletionNotes string             `json:"completion_notes,omitempty"`
	ImageURLs       []string           `json:"image_urls,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

func toWorkOrderResponse(o model.WorkOrder) workOrderResponse {
	parts := make([]workOrderPartDTO, 0, len(o.Parts))
	for _, p := range o.Parts {
		parts = append(parts, workOrderPartDTO{Name: p.Name, Quantity: p.Quantity, Cost: p.Cost})
	}
	charges := make([]otherChargeDTO, 0, len(o.OtherCharges))
	for _, ch := range o.OtherCharges {
		charges = append(charges, otherChargeDTO{Description: ch.Description, Amount: ch.Amount})
	}
	return workOrderResponse{
		ID:              o.ID.String(),
		TicketID:        o.TicketID.String(),
		TechnicianName:  o.TechnicianName,
		Description:     o.Description,
		Status:          string(o.Status),
		HoursWorked:     o.HoursWorked.String(),
		HourlyRate:      money.Format(o.HourlyRate),
		Parts:           parts,
		OtherCharges:    charges,
		TotalCost:       money.Format(o.TotalCost),
		CompletionNotes: o.CompletionNotes,
		ImageURLs:       o.ImageURLs,
		CreatedAt:       o.CreatedAt,
	}
}

type partResponse struct {
	ID                string    `json:"id"`
	VendorID          string    `json:"vendor_id"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	Cost              string    `json:"cost"`
	MarkupPercentage  string    `json:"markup_percentage"`
	RoundToNinetyNine bool      `json:"round_to_ninety_nine"`
	SellingPrice      string    `json:"selling_price"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toPartResponse(p model.Part) partResponse {
	return partResponse{
		ID:                p.ID.String(),
		VendorID:          p.VendorID.String(),
		Name:              p.Name,
		Description:       p.Description,
		Cost:              money.Format(p.Cost),
		MarkupPercentage:  p.MarkupPercentage.String(),
		RoundToNinetyNine: p.RoundToNinetyNine,
		SellingPrice:      money.Format(money.SellingPrice(p.Cost, p.MarkupPercentage, p.RoundToNinetyNine)),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

type priceHistoryResponse struct {
	ID                string    `json:"id"`
	PartID            string    `json:"part_id"`
	OldCost           string    `json:"old_cost"`
	NewCost           string    `json:"new_cost"`
	MarkupPercentage  string    `json:"markup_percentage"`
	RoundToNinetyNine bool      `json:"round_to_ninety_nine"`
	ChangedByUserID   string    `json:"changed_by_user_id"`
	CreatedAt         time.Time `json:"created_at"`
}

func toPriceHistoryResponse(h model.PartPriceHistory) priceHistoryResponse {
	return priceHistoryResponse{
		ID:                h.ID.String(),
		PartID:            h.PartID.String(),
		OldCost:           money.Format(h.OldCost),
		NewCost:           money.Format(h.NewCost),
		MarkupPercentage:  h.MarkupPercentage.String(),
		RoundToNinetyNine: h.RoundToNinetyNine,
		ChangedByUserID:   h.ChangedByUserID.String(),
		CreatedAt:         h.CreatedAt,
	}
}

type invoiceLineResponse struct {
	ID          string `json:"id"`
	WorkOrderID string `json:"work_order_id"`
	Hours       string `json:"hours"`
	HourlyRate  string `json:"hourly_rate"`
	LaborCost   string `json:"labor_cost"`
	PartsCost   string `json:"parts_cost"`
	OtherCost   string `json:"other_cost"`
	LineTotal   string `json:"line_total"`
}

type invoiceResponse struct {
	ID            string                `json:"id"`
	TicketID      string                `json:"ticket_id"`
	OrgID         string                `json:"org_id"`
	InvoiceNumber string                `json:"invoice_number"`
	Subtotal      string                `json:"subtotal"`
	TaxScope      string                `json:"tax_scope"`
	TaxPercentage string                `json:"tax_percentage"`
	TaxAmount     string                `json:"tax_amount"`
	Discount      string                `json:"discount"`
	Total         string                `json:"total"`
	NetDays       int                   `json:"net_days"`
	PaymentTerms  string                `json:"payment_terms"`
	IssuedAt      time.Time             `json:"issued_at"`
	DueDate       time.Time             `json:"due_date"`
	Notes         string                `json:"notes,omitempty"`
	Lines         []invoiceLineResponse `json:"lines"`
	CreatedAt     time.Time             `json:"created_at"`
}

func toInvoiceResponse(inv model.Invoice) invoiceResponse {
	lines := make([]invoiceLineResponse, 0, len(inv.Lines))
	for _, line := range inv.Lines {
		lines = append(lines, invoiceLineResponse{
			ID:          line.ID.String(),
			WorkOrderID: line.WorkOrderID.String(),
			Hours:       line.Hours.String(),
			HourlyRate:  money.Format(line.HourlyRate),
			LaborCost:   money.Format(line.LaborCost),
			PartsCost:   money.Format(line.PartsCost),
			OtherCost:   money.Format(line.OtherCost),
			LineTotal:   money.Format(line.LineTotal),
		})
	}
	return invoiceResponse{
		ID:            inv.ID.String(),
		TicketID:      inv.TicketID.String(),
		OrgID:         inv.OrgID.String(),
		InvoiceNumber: inv.InvoiceNumber,
		Subtotal:      money.Format(inv.Subtotal),
		TaxScope:      string(inv.TaxScope),
		TaxPercentage: inv.TaxPercentage.String(),
		TaxAmount:     money.Format(inv.TaxAmount),
		Discount:      money.Format(inv.Discount),
		Total:         money.Format(inv.Total),
		NetDays:       inv.NetDays,
		PaymentTerms:  inv.PaymentTerms,
		IssuedAt:      inv.IssuedAt,
		DueDate:       inv.DueDate,
		Notes:         inv.Notes,
		Lines:         lines,
		CreatedAt:     inv.CreatedAt,
	}
}

func optUUID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func optDecimal(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := money.Format(*d)
	return &s
}
