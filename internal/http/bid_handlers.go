package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/propwise/marketplace-service/internal/service"
)

type bidOfferRequest struct {
	TotalAmount     decimal.Decimal  `json:"total_amount"`
	HourlyRate      *decimal.Decimal `json:"hourly_rate"`
	EstimatedHours  *decimal.Decimal `json:"estimated_hours"`
	ResponseTime    string           `json:"response_time"`
	AdditionalNotes string           `json:"additional_notes"`
}

func (r bidOfferRequest) toOffer() service.BidOffer {
	return service.BidOffer{
		TotalAmount:     r.TotalAmount,
		HourlyRate:      r.HourlyRate,
		EstimatedHours:  r.EstimatedHours,
		ResponseTime:    r.ResponseTime,
		AdditionalNotes: r.AdditionalNotes,
	}
}

func (h *Handler) submitBid(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}
	ticketID, ok := pathID(c)
	if !ok {
		return
	}

	var req bidOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bid, err := h.bids.Submit(c.Request.Context(), principal, ticketID, req.toOffer())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBidResponse(*bid))
}

func (h *Handler) updateBid(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}
	bidID, ok := pathID(c)
	if !ok {
		return
	}

	var req bidOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bid, err := h.bids.Update(c.Request.Context(), principal, bidID, req.toOffer())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBidResponse(*bid))
}

func (h *Handler) acceptBid(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}
	bidID, ok := pathID(c)
	if !ok {
		return
	}

	bid, err := h.bids.Accept(c.Request.Context(), principal, bidID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBidResponse(*bid))
}

type rejectBidRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *Handler) rejectBid(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}
	bidID, ok := pathID(c)
	if !ok {
		return
	}

	var req rejectBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bid, err := h.bids.Reject(c.Request.Context(), principal, bidID, req.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBidResponse(*bid))
}

type counterBidRequest struct {
	Offer decimal.Decimal `json:"offer"`
	Notes string          `json:"notes" binding:"required"`
}

func (h *Handler) counterBid(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}
	bidID, ok := pathID(c)
	if !ok {
		return
	}

	var req counterBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bid, err := h.bids.Counter(c.Request.Context(), principal, bidID, req.Offer, req.Notes)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBidResponse(*bid))
}

func (h *Handler) approveBid(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}
	bidID, ok := pathID(c)
	if !ok {
		return
	}

	bid, err := h.bids.Approve(c.Request.Context(), principal, bidID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBidResponse(*bid))
}

func (h *Handler) listTicketBids(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}
	ticketID, ok := pathID(c)
	if !ok {
		return
	}

	bids, err := h.bids.ListForTicket(c.Request.Context(), principal, ticketID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bids": toBidResponses(bids)})
}

func (h *Handler) listVendorBids(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}

	bids, err := h.bids.VendorBids(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bids": toBidResponses(bids)})
}
