package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/propwise/marketplace-service/internal/model"
)

type PartStore interface {
	Create(ctx context.Context, part model.Part) (*model.Part, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Part, error)
	ListForVendor(ctx context.Context, vendorID uuid.UUID) ([]model.Part, error)
	UpdateWithHistory(ctx context.Context, part model.Part, history model.PartPriceHistory) (*model.Part, error)
	Update(ctx context.Context, part model.Part) (*model.Part, error)
	ListPriceHistory(ctx context.Context, partID uuid.UUID) ([]model.PartPriceHistory, error)
}

// PartService maintains vendor part catalogs. Any change to a part's
// pricing fields appends an immutable price-history entry in the same
// transaction as the update.
type PartService struct {
	parts PartStore
}

func NewPartService(parts PartStore) *PartService {
	return &PartService{parts: parts}
}

type PartInput struct {
	Name              string
	Description       string
	Cost              decimal.Decimal
	MarkupPercentage  decimal.Decimal
	RoundToNinetyNine bool
}

func (in PartInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.Cost.IsNegative() {
		return fmt.Errorf("%w: cost must not be negative", ErrInvalidInput)
	}
	if in.MarkupPercentage.IsNegative() {
		return fmt.Errorf("%w: markupPercentage must not be negative", ErrInvalidInput)
	}
	return nil
}

func (s *PartService) Create(ctx context.Context, principal model.Principal, vendorID uuid.UUID, input PartInput) (*model.Part, error) {
	if !principal.IsRoot() && !(principal.IsVendor() && principal.OrgID == vendorID) {
		return nil, ErrPermissionDenied
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	return s.parts.Create(ctx, model.Part{
		VendorID:          vendorID,
		Name:              strings.TrimSpace(input.Name),
		Description:       input.Description,
		Cost:              input.Cost,
		MarkupPercentage:  input.MarkupPercentage,
		RoundToNinetyNine: input.RoundToNinetyNine,
	})
}

func (s *PartService) Update(ctx context.Context, principal model.Principal, partID uuid.UUID, input PartInput) (*model.Part, error) {
	current, err := s.getPart(ctx, partID)
	if err != nil {
		return nil, err
	}
	if !principal.IsRoot() && !(principal.IsVendor() && principal.OrgID == current.VendorID) {
		return nil, ErrPermissionDenied
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	next := *current
	next.Name = strings.TrimSpace(input.Name)
	next.Description = input.Description
	next.Cost = input.Cost
	next.MarkupPercentage = input.MarkupPercentage
	next.RoundToNinetyNine = input.RoundToNinetyNine

	pricingChanged := !current.Cost.Equal(input.Cost) ||
		!current.MarkupPercentage.Equal(input.MarkupPercentage) ||
		current.RoundToNinetyNine != input.RoundToNinetyNine
	if !pricingChanged {
		return s.parts.Update(ctx, next)
	}

	return s.parts.UpdateWithHistory(ctx, next, model.PartPriceHistory{
		PartID:            current.ID,
		OldCost:           current.Cost,
		NewCost:           input.Cost,
		MarkupPercentage:  input.MarkupPercentage,
		RoundToNinetyNine: input.RoundToNinetyNine,
		ChangedByUserID:   principal.UserID,
	})
}

func (s *PartService) ListForVendor(ctx context.Context, principal model.Principal, vendorID uuid.UUID) ([]model.Part, error) {
	if principal.IsVendor() && principal.OrgID != vendorID {
		return nil, ErrPermissionDenied
	}
	return s.parts.ListForVendor(ctx, vendorID)
}

func (s *PartService) PriceHistory(ctx context.Context, principal model.Principal, partID uuid.UUID) ([]model.PartPriceHistory, error) {
	part, err := s.getPart(ctx, partID)
	if err != nil {
		return nil, err
	}
	if principal.IsVendor() && principal.OrgID != part.VendorID {
		return nil, ErrPermissionDenied
	}
	return s.parts.ListPriceHistory(ctx, partID)
}

func (s *PartService) getPart(ctx context.Context, id uuid.UUID) (*model.Part, error) {
	part, err := s.parts.Get(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return part, nil
}
