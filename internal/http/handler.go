package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/propwise/marketplace-service/internal/config"
	"github.com/propwise/marketplace-service/internal/http/middleware"
	"github.com/propwise/marketplace-service/internal/model"
	"github.com/propwise/marketplace-service/internal/service"
)

type Handler struct {
	tickets  *service.TicketService
	bids     *service.BidService
	orders   *service.WorkOrderService
	parts    *service.PartService
	invoices *service.InvoiceService
	reports  *service.ReportService
	cfg      *config.Config
	log      zerolog.Logger
}

func NewHandler(
	tickets *service.TicketService,
	bids *service.BidService,
	orders *service.WorkOrderService,
	parts *service.PartService,
	invoices *service.InvoiceService,
	reports *service.ReportService,
	cfg *config.Config,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		tickets:  tickets,
		bids:     bids,
		orders:   orders,
		parts:    parts,
		invoices: invoices,
		reports:  reports,
		cfg:      cfg,
		log:      log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.POST("/tickets", h.createTicket)
	protected.GET("/tickets/:id", h.getTicket)
	protected.POST("/tickets/:id/accept", h.acceptTicket)
	protected.POST("/tickets/:id/reject", h.rejectTicket)
	protected.POST("/tickets/:id/start", h.startTicket)
	protected.POST("/tickets/:id/complete", h.completeTicket)

	protected.POST("/tickets/:id/bids", h.submitBid)
	protected.GET("/tickets/:id/bids", h.listTicketBids)
	protected.GET("/bids", h.listVendorBids)
	protected.PUT("/bids/:id", h.updateBid)
	protected.POST("/bids/:id/accept", h.acceptBid)
	protected.POST("/bids/:id/reject", h.rejectBid)
	protected.POST("/bids/:id/counter", h.counterBid)
	protected.POST("/bids/:id/approve", h.approveBid)

	protected.POST("/tickets/:id/work-orders", h.createWorkOrder)
	protected.GET("/tickets/:id/work-orders", h.listWorkOrders)

	protected.POST("/vendors/:id/parts", h.createPart)
	protected.GET("/vendors/:id/parts", h.listParts)
	protected.PUT("/parts/:id", h.updatePart)
	protected.GET("/parts/:id/price-history", h.partPriceHistory)

	protected.POST("/tickets/:id/invoices", h.assembleInvoice)
	protected.GET("/invoices/:id", h.getInvoice)
	protected.GET("/invoices/:id/pdf", h.downloadInvoicePDF)

	protected.POST("/reports/vendor-bids", h.exportVendorBids)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrStaleBidVersion),
		errors.Is(err, service.ErrDuplicateActiveBid),
		errors.Is(err, service.ErrScheduleConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *Handler) mustPrincipal(c *gin.Context) (model.Principal, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
	}
	return principal, ok
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
