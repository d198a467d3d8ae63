package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxScope selects the base a tax percentage is applied against.
type TaxScope string

const (
	TaxScopeTotal TaxScope = "total"
	TaxScopeParts TaxScope = "parts"
	TaxScopeLabor TaxScope = "labor"
)

// InvoiceLine is the priced snapshot of one work order at invoicing time.
// Rate and part prices are the invoicing user's edited values, not the work
// order's recorded history.
type InvoiceLine struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	WorkOrderID uuid.UUID
	Hours       decimal.Decimal
	HourlyRate  decimal.Decimal
	LaborCost   decimal.Decimal
	PartsCost   decimal.Decimal
	OtherCost   decimal.Decimal
	LineTotal   decimal.Decimal
}

type Invoice struct {
	ID             uuid.UUID
	TicketID       uuid.UUID
	OrgID          uuid.UUID
	InvoiceNumber  string
	Subtotal       decimal.Decimal
	TaxScope       TaxScope
	TaxPercentage  decimal.Decimal
	TaxAmount      decimal.Decimal
	Discount       decimal.Decimal
	Total          decimal.Decimal
	NetDays        int
	PaymentTerms   string
	IssuedAt       time.Time
	DueDate        time.Time
	Notes          string
	CreatedByID    uuid.UUID
	CreatedAt      time.Time
	Lines          []InvoiceLine `gorm:"-"`
}

// InvoiceDocument carries everything the PDF renderer needs.
type InvoiceDocument struct {
	Invoice     Invoice
	Org         Organization
	Vendor      *Organization
	TicketTitle string
}
