package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/propwise/marketplace-service/internal/model"
)

// SiblingRejectionReason is stamped on competing pending bids when a ticket
// is awarded.
const SiblingRejectionReason = "ticket awarded to another vendor"

type BidStore interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Bid, error)
	Create(ctx context.Context, bid model.Bid) (*model.Bid, error)
	CreateVersion(ctx context.Context, priorID uuid.UUID, next model.Bid) (*model.Bid, error)
	ActiveForVendorTicket(ctx context.Context, ticketID, vendorID uuid.UUID) (*model.Bid, error)
	ListForTicket(ctx context.Context, ticketID uuid.UUID) ([]model.Bid, error)
	ListForVendor(ctx context.Context, vendorID uuid.UUID) ([]model.Bid, error)
	Accept(ctx context.Context, bid model.Bid, siblingReason string) error
	UpdateStatus(ctx context.Context, bidID uuid.UUID, status model.BidStatus, rejectionReason *string, counterOffer *decimal.Decimal, counterNotes *string) error
	SetApproval(ctx context.Context, bidID, userID uuid.UUID, at time.Time) error
	VendorBidGroups(ctx context.Context, vendorID uuid.UUID, from, to time.Time) ([]model.TicketBidGroup, error)
}

type TicketStatusStore interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Ticket, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.TicketStatus) error
}

// BidService owns the bid lifecycle from pending to accepted, rejected or
// counter, versioning through supersession, and the secondary approve
// sign-off. Every mutation refuses superseded versions.
type BidService struct {
	bids    BidStore
	tickets TicketStatusStore
}

func NewBidService(bids BidStore, tickets TicketStatusStore) *BidService {
	return &BidService{bids: bids, tickets: tickets}
}

type BidOffer struct {
	TotalAmount     decimal.Decimal
	HourlyRate      *decimal.Decimal
	EstimatedHours  *decimal.Decimal
	ResponseTime    string
	AdditionalNotes string
}

func (o BidOffer) validate() error {
	if !o.TotalAmount.IsPositive() {
		return fmt.Errorf("%w: totalAmount must be positive", ErrInvalidInput)
	}
	if o.HourlyRate != nil && o.HourlyRate.IsNegative() {
		return fmt.Errorf("%w: hourlyRate must not be negative", ErrInvalidInput)
	}
	if o.EstimatedHours != nil && o.EstimatedHours.IsNegative() {
		return fmt.Errorf("%w: estimatedHours must not be negative", ErrInvalidInput)
	}
	return nil
}

// Submit places a fresh bid. A vendor holding an active (non-superseded)
// bid on the ticket must use Update instead; a fresh submission in that
// state fails with ErrDuplicateActiveBid.
func (s *BidService) Submit(ctx context.Context, principal model.Principal, ticketID uuid.UUID, offer BidOffer) (*model.Bid, error) {
	if !principal.IsVendor() {
		return nil, ErrPermissionDenied
	}
	if err := offer.validate(); err != nil {
		return nil, err
	}

	ticket, err := s.tickets.Get(ctx, ticketID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !ticket.Marketplace || ticket.Terminal() {
		return nil, fmt.Errorf("%w: ticket is not open for bidding", ErrInvalidInput)
	}

	_, err = s.bids.ActiveForVendorTicket(ctx, ticketID, principal.OrgID)
	if err == nil {
		return nil, ErrDuplicateActiveBid
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	bid, err := s.bids.Create(ctx, model.Bid{
		TicketID:        ticketID,
		VendorID:        principal.OrgID,
		TotalAmount:     offer.TotalAmount,
		HourlyRate:      offer.HourlyRate,
		EstimatedHours:  offer.EstimatedHours,
		ResponseTime:    offer.ResponseTime,
		AdditionalNotes: offer.AdditionalNotes,
		Status:          model.BidStatusPending,
	})
	if err != nil {
		// A concurrent submission can slip past the pre-check and land on
		// the partial unique index instead.
		if err == gorm.ErrDuplicatedKey {
			return nil, ErrDuplicateActiveBid
		}
		return nil, err
	}
	return bid, nil
}

// Update supersedes the vendor's current version and creates the next one.
// The prior version keeps its offer fields untouched; only the supersession
// linkage changes. An accepted bid cannot be updated; the award already
// happened.
func (s *BidService) Update(ctx context.Context, principal model.Principal, bidID uuid.UUID, offer BidOffer) (*model.Bid, error) {
	prior, err := s.getBid(ctx, bidID)
	if err != nil {
		return nil, err
	}
	if !principal.IsVendor() || prior.VendorID != principal.OrgID {
		return nil, ErrPermissionDenied
	}
	if prior.IsSuperseded {
		return nil, ErrStaleBidVersion
	}
	if prior.Status == model.BidStatusAccepted {
		return nil, fmt.Errorf("%w: accepted bid cannot be updated", ErrInvalidInput)
	}
	if err := offer.validate(); err != nil {
		return nil, err
	}

	next, err := s.bids.CreateVersion(ctx, prior.ID, model.Bid{
		TicketID:        prior.TicketID,
		VendorID:        prior.VendorID,
		TotalAmount:     offer.TotalAmount,
		HourlyRate:      offer.HourlyRate,
		EstimatedHours:  offer.EstimatedHours,
		ResponseTime:    offer.ResponseTime,
		AdditionalNotes: offer.AdditionalNotes,
		Status:          model.BidStatusPending,
		Version:         prior.Version + 1,
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrStaleBidVersion
		}
		return nil, err
	}
	return next, nil
}

// Accept awards the ticket to the bid's vendor. Competing active pending
// bids are auto-rejected with SiblingRejectionReason in the same
// transaction.
func (s *BidService) Accept(ctx context.Context, principal model.Principal, bidID uuid.UUID) (*model.Bid, error) {
	bid, err := s.getBid(ctx, bidID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOrgActor(ctx, principal, bid.TicketID); err != nil {
		return nil, err
	}
	if bid.IsSuperseded {
		return nil, ErrStaleBidVersion
	}
	if bid.Status != model.BidStatusPending {
		return nil, fmt.Errorf("%w: only a pending bid can be accepted", ErrInvalidInput)
	}

	if err := s.bids.Accept(ctx, *bid, SiblingRejectionReason); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrStaleBidVersion
		}
		return nil, err
	}
	return s.getBid(ctx, bidID)
}

// Reject requires a non-empty reason. Terminal for this version; the vendor
// may still submit a new version afterwards.
func (s *BidService) Reject(ctx context.Context, principal model.Principal, bidID uuid.UUID, reason string) (*model.Bid, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: rejectionReason is required", ErrInvalidInput)
	}

	bid, err := s.getBid(ctx, bidID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOrgActor(ctx, principal, bid.TicketID); err != nil {
		return nil, err
	}
	if bid.IsSuperseded {
		return nil, ErrStaleBidVersion
	}
	if bid.Status != model.BidStatusPending {
		return nil, fmt.Errorf("%w: only a pending bid can be rejected", ErrInvalidInput)
	}

	if err := s.bids.UpdateStatus(ctx, bidID, model.BidStatusRejected, &reason, nil, nil); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrStaleBidVersion
		}
		return nil, err
	}
	return s.getBid(ctx, bidID)
}

// Counter puts the ball back in the vendor's court. The vendor accepts a
// counter by resubmitting, which lands as a new version through Update.
func (s *BidService) Counter(ctx context.Context, principal model.Principal, bidID uuid.UUID, offer decimal.Decimal, notes string) (*model.Bid, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, fmt.Errorf("%w: counterNotes is required", ErrInvalidInput)
	}
	if offer.IsNegative() {
		return nil, fmt.Errorf("%w: counterOffer must not be negative", ErrInvalidInput)
	}

	bid, err := s.getBid(ctx, bidID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOrgActor(ctx, principal, bid.TicketID); err != nil {
		return nil, err
	}
	if bid.IsSuperseded {
		return nil, ErrStaleBidVersion
	}
	if bid.Status != model.BidStatusPending {
		return nil, fmt.Errorf("%w: only a pending bid can be countered", ErrInvalidInput)
	}

	if err := s.bids.UpdateStatus(ctx, bidID, model.BidStatusCounter, nil, &offer, &notes); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrStaleBidVersion
		}
		return nil, err
	}
	return s.getBid(ctx, bidID)
}

// Approve is the organization-level sign-off after an accept: it stamps the
// approver and timestamp on an already-accepted bid. Approving anything
// else is invalid.
func (s *BidService) Approve(ctx context.Context, principal model.Principal, bidID uuid.UUID) (*model.Bid, error) {
	bid, err := s.getBid(ctx, bidID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOrgActor(ctx, principal, bid.TicketID); err != nil {
		return nil, err
	}
	if bid.IsSuperseded {
		return nil, ErrStaleBidVersion
	}
	if bid.Status != model.BidStatusAccepted {
		return nil, fmt.Errorf("%w: only an accepted bid can be approved", ErrInvalidInput)
	}
	if bid.ApprovedAt != nil {
		return nil, fmt.Errorf("%w: bid is already approved", ErrInvalidInput)
	}

	if err := s.bids.SetApproval(ctx, bidID, principal.UserID, time.Now().UTC()); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrStaleBidVersion
		}
		return nil, err
	}
	return s.getBid(ctx, bidID)
}

// ListForTicket returns the full version history, newest version first per
// vendor, for the ticket's owning organization.
func (s *BidService) ListForTicket(ctx context.Context, principal model.Principal, ticketID uuid.UUID) ([]model.Bid, error) {
	if err := s.checkOrgActor(ctx, principal, ticketID); err != nil {
		return nil, err
	}
	return s.bids.ListForTicket(ctx, ticketID)
}

// VendorBids returns the calling vendor's active bids across tickets.
func (s *BidService) VendorBids(ctx context.Context, principal model.Principal) ([]model.Bid, error) {
	if !principal.IsVendor() {
		return nil, ErrPermissionDenied
	}
	return s.bids.ListForVendor(ctx, principal.OrgID)
}

func (s *BidService) getBid(ctx context.Context, id uuid.UUID) (*model.Bid, error) {
	bid, err := s.bids.Get(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return bid, nil
}

// checkOrgActor allows root, and organization-side roles acting on their
// own organization's ticket.
func (s *BidService) checkOrgActor(ctx context.Context, principal model.Principal, ticketID uuid.UUID) error {
	if principal.IsVendor() {
		return ErrPermissionDenied
	}
	ticket, err := s.tickets.Get(ctx, ticketID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}
	if principal.IsRoot() {
		return nil
	}
	if ticket.OrgID != principal.OrgID {
		return ErrPermissionDenied
	}
	return nil
}
