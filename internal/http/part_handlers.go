package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/propwise/marketplace-service/internal/service"
)

type partRequest struct {
	Name              string          `json:"name" binding:"required"`
	Description       string          `json:"description"`
	Cost              decimal.Decimal `json:"cost"`
	MarkupPercentage  decimal.Decimal `json:"markup_percentage"`
	RoundToNinetyNine bool            `json:"round_to_ninety_nine"`
}

func (r partRequest) toInput() service.PartInput {
	return service.PartInput{
		Name:              r.Name,
		Description:       r.Description,
		Cost:              r.Cost,
		MarkupPercentage:  r.MarkupPercentage,
		RoundToNinetyNine: r.RoundToNinetyNine,
	}
}

func (h *Handler) createPart(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}
	vendorID, ok := pathID(c)
	if !ok {
		return
	}

	var req partRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	part, err := h.parts.Create(c.Request.Context(), principal, vendorID, req.toInput())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPartResponse(*part))
}

func (h *Handler) updatePart(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}
	partID, ok := pathID(c)
	if !ok {
		return
	}

	var req partRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	part, err := h.parts.Update(c.Request.Context(), principal, partID, req.toInput())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPartResponse(*part))
}

func (h *Handler) listParts(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}
	vendorID, ok := pathID(c)
	if !ok {
		return
	}

	parts, err := h.parts.ListForVendor(c.Request.Context(), principal, vendorID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	result := make([]partResponse, 0, len(parts))
	for _, part := range parts {
		result = append(result, toPartResponse(part))
	}
	c.JSON(http.StatusOK, gin.H{"parts": result})
}

func (h *Handler) partPriceHistory(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}
	partID, ok := pathID(c)
	if !ok {
		return
	}

	entries, err := h.parts.PriceHistory(c.Request.Context(), principal, partID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	result := make([]priceHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, toPriceHistoryResponse(entry))
	}
	c.JSON(http.StatusOK, gin.H{"history": result})
}
