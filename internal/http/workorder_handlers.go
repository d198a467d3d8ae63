package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/propwise/marketplace-service/internal/model"
	"github.com/propwise/marketplace-service/internal/service"
)

type createWorkOrderRequest struct {
	TechnicianName  string             `json:"technician_name" binding:"required"`
	Description     string             `json:"description"`
	Status          string             `json:"status" binding:"required"`
	HoursWorked     decimal.Decimal    `json:"hours_worked"`
	HourlyRate      decimal.Decimal    `json:"hourly_rate"`
	Parts           []workOrderPartDTO `json:"parts"`
	OtherCharges    []otherChargeDTO   `json:"other_charges"`
	CompletionNotes string             `json:"completion_notes"`
	ImageURLs       []string           `json:"image_urls"`
}

func (h *Handler) createWorkOrder(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}
	ticketID, ok := pathID(c)
	if !ok {
		return
	}

	var req createWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	parts := make([]model.WorkOrderPart, 0, len(req.Parts))
	for _, p := range req.Parts {
		parts = append(parts, model.WorkOrderPart{Name: p.Name, Quantity: p.Quantity, Cost: p.Cost})
	}
	charges := make([]model.OtherCharge, 0, len(req.OtherCharges))
	for _, ch := range req.OtherCharges {
		charges = append(charges, model.OtherCharge{Description: ch.Description, Amount: ch.Amount})
	}

	order, err := h.orders.Create(c.Request.Context(), principal, service.CreateWorkOrderInput{
		TicketID:        ticketID,
		TechnicianName:  req.TechnicianName,
		Description:     req.Description,
		Status:          model.WorkOrderStatus(strings.ToLower(strings.TrimSpace(req.Status))),
		HoursWorked:     req.HoursWorked,
		HourlyRate:      req.HourlyRate,
		Parts:           parts,
		OtherCharges:    charges,
		CompletionNotes: req.CompletionNotes,
		ImageURLs:       req.ImageURLs,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toWorkOrderResponse(*order))
}

func (h *Handler) listWorkOrders(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}
	ticketID, ok := pathID(c)
	if !ok {
		return
	}

	orders, err := h.orders.ListForTicket(c.Request.Context(), principal, ticketID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	result := make([]workOrderResponse, 0, len(orders))
	for _, order := range orders {
		result = append(result, toWorkOrderResponse(order))
	}
	c.JSON(http.StatusOK, gin.H{"work_orders": result})
}
