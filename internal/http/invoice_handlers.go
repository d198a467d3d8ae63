package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propwise/marketplace-service/internal/model"
	"github.com/propwise/marketplace-service/internal/service"
)

type invoiceLineRequest struct {
	WorkOrderID string             `json:"work_order_id" binding:"required"`
	Hours       decimal.Decimal    `json:"hours"`
	HourlyRate  decimal.Decimal    `json:"hourly_rate"`
	Parts       []workOrderPartDTO `json:"parts"`
}

type assembleInvoiceRequest struct {
	Lines         []invoiceLineRequest `json:"lines" binding:"required"`
	TaxScope      string               `json:"tax_scope"`
	TaxPercentage *decimal.Decimal     `json:"tax_percentage"`
	Discount      decimal.Decimal      `json:"discount"`
	NetDays       *int                 `json:"net_days"`
	Notes         string               `json:"notes"`
}

func (h *Handler) assembleInvoice(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}
	ticketID, ok := pathID(c)
	if !ok {
		return
	}

	var req assembleInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines := make([]service.InvoiceLineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		workOrderID, err := uuid.Parse(strings.TrimSpace(line.WorkOrderID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid work_order_id"})
			return
		}
		input := service.InvoiceLineInput{
			WorkOrderID: workOrderID,
			Hours:       line.Hours,
			HourlyRate:  line.HourlyRate,
		}
		if line.Parts != nil {
			parts := make([]model.WorkOrderPart, 0, len(line.Parts))
			for _, p := range line.Parts {
				parts = append(parts, model.WorkOrderPart{Name: p.Name, Quantity: p.Quantity, Cost: p.Cost})
			}
			input.Parts = parts
		}
		lines = append(lines, input)
	}

	taxScope := model.TaxScope(strings.ToLower(strings.TrimSpace(req.TaxScope)))
	if taxScope == "" {
		taxScope = model.TaxScopeTotal
	}

	taxPercentage := decimal.Zero
	if req.TaxPercentage != nil {
		taxPercentage = *req.TaxPercentage
	} else if parsed, err := decimal.NewFromString(h.cfg.Invoices.DefaultTaxPercentage); err == nil {
		taxPercentage = parsed
	}

	netDays := h.cfg.Invoices.DefaultNetDays
	if req.NetDays != nil {
		netDays = *req.NetDays
	}

	invoice, err := h.invoices.Assemble(c.Request.Context(), principal, service.AssembleInvoiceInput{
		TicketID:      ticketID,
		Lines:         lines,
		TaxScope:      taxScope,
		TaxPercentage: taxPercentage,
		Discount:      req.Discount,
		NetDays:       netDays,
		Notes:         req.Notes,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toInvoiceResponse(*invoice))
}

func (h *Handler) getInvoice(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	invoice, err := h.invoices.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toInvoiceResponse(*invoice))
}

func (h *Handler) downloadInvoicePDF(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.invoices.RenderPDF(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}
