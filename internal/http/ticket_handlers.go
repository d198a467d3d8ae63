package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/propwise/marketplace-service/internal/model"
	"github.com/propwise/marketplace-service/internal/service"
)

type createTicketRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority" binding:"required"`
}

func (h *Handler) createTicket(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}

	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.tickets.Create(c.Request.Context(), principal, service.CreateTicketInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    model.TicketPriority(strings.ToLower(strings.TrimSpace(req.Priority))),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTicketResponse(*ticket))
}

func (h *Handler) getTicket(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	ticket, err := h.tickets.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponse(*ticket))
}

type acceptTicketRequest struct {
	Mode           string  `json:"mode" binding:"required"`
	VendorID       *string `json:"vendor_id"`
	TechnicianID   *string `json:"technician_id"`
	ScheduledStart *string `json:"scheduled_start"`
	ScheduledEnd   *string `json:"scheduled_end"`
}

func (h *Handler) acceptTicket(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req acceptTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.AcceptTicketInput{
		Mode: model.AssignmentMode(strings.ToLower(strings.TrimSpace(req.Mode))),
	}
	if req.VendorID != nil {
		vendorID, err := uuid.Parse(strings.TrimSpace(*req.VendorID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vendor_id"})
			return
		}
		input.VendorID = &vendorID
	}
	if req.TechnicianID != nil {
		technicianID, err := uuid.Parse(strings.TrimSpace(*req.TechnicianID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid technician_id"})
			return
		}
		input.TechnicianID = &technicianID
	}
	if req.ScheduledStart != nil || req.ScheduledEnd != nil {
		if req.ScheduledStart == nil || req.ScheduledEnd == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "scheduled_start and scheduled_end must be set together"})
			return
		}
		start, err := parseDate(*req.ScheduledStart)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scheduled_start"})
			return
		}
		end, err := parseDate(*req.ScheduledEnd)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scheduled_end"})
			return
		}
		input.Schedule = &model.ProposedSchedule{Start: start, End: end}
	}

	ticket, err := h.tickets.Accept(c.Request.Context(), principal, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponse(*ticket))
}

func (h *Handler) rejectTicket(c *gin.Context) {
	h.transitionTicket(c, h.tickets.Reject)
}

func (h *Handler) startTicket(c *gin.Context) {
	h.transitionTicket(c, h.tickets.Start)
}

func (h *Handler) completeTicket(c *gin.Context) {
	h.transitionTicket(c, h.tickets.Complete)
}

func (h *Handler) transitionTicket(c *gin.Context, op func(ctx context.Context, principal model.Principal, ticketID uuid.UUID) (*model.Ticket, error)) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	ticket, err := op(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponse(*ticket))
}
