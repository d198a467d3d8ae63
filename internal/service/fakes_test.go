package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/propwise/marketplace-service/internal/model"
)

// In-memory stores backing the service tests. They mirror the SQL guards of
// the real repositories: mutations on superseded or non-pending bids report
// gorm.ErrRecordNotFound the same way a zero-rows UPDATE does.

type fakeTicketStore struct {
	tickets     map[uuid.UUID]*model.Ticket
	technicians map[uuid.UUID]*model.Technician
	orgs        map[uuid.UUID]*model.Organization
	events      []model.CalendarEvent
}

func newFakeTicketStore() *fakeTicketStore {
	return &fakeTicketStore{
		tickets:     make(map[uuid.UUID]*model.Ticket),
		technicians: make(map[uuid.UUID]*model.Technician),
		orgs:        make(map[uuid.UUID]*model.Organization),
	}
}

func (s *fakeTicketStore) Create(_ context.Context, ticket model.Ticket) (*model.Ticket, error) {
	ticket.ID = uuid.New()
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	s.tickets[ticket.ID] = &ticket
	copied := ticket
	return &copied, nil
}

func (s *fakeTicketStore) Get(_ context.Context, id uuid.UUID) (*model.Ticket, error) {
	ticket, ok := s.tickets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *ticket
	return &copied, nil
}

func (s *fakeTicketStore) UpdateStatus(_ context.Context, id uuid.UUID, status model.TicketStatus) error {
	ticket, ok := s.tickets[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	ticket.Status = status
	return nil
}

func (s *fakeTicketStore) AssignVendor(_ context.Context, id, vendorID uuid.UUID) error {
	ticket, ok := s.tickets[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	ticket.VendorID = &vendorID
	ticket.Status = model.TicketStatusAccepted
	ticket.Marketplace = false
	return nil
}

func (s *fakeTicketStore) AssignTechnician(_ context.Context, id, technicianID uuid.UUID, schedule *model.ProposedSchedule) error {
	ticket, ok := s.tickets[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	ticket.AssigneeID = &technicianID
	ticket.Status = model.TicketStatusAccepted
	if schedule != nil {
		s.events = append(s.events, model.CalendarEvent{
			ID:           uuid.New(),
			TechnicianID: technicianID,
			TicketID:     &ticket.ID,
			Title:        ticket.Title,
			StartAt:      schedule.Start,
			EndAt:        schedule.End,
		})
	}
	return nil
}

func (s *fakeTicketStore) OpenMarketplace(_ context.Context, id uuid.UUID) error {
	ticket, ok := s.tickets[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	ticket.Marketplace = true
	ticket.Status = model.TicketStatusOpen
	return nil
}

func (s *fakeTicketStore) HasScheduleOverlap(_ context.Context, technicianID uuid.UUID, start, end time.Time) (bool, error) {
	for _, event := range s.events {
		if event.TechnicianID != technicianID {
			continue
		}
		if event.StartAt.Before(end) && event.EndAt.After(start) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeTicketStore) GetTechnician(_ context.Context, id uuid.UUID) (*model.Technician, error) {
	tech, ok := s.technicians[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *tech
	return &copied, nil
}

func (s *fakeTicketStore) GetOrganization(_ context.Context, id uuid.UUID) (*model.Organization, error) {
	org, ok := s.orgs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *org
	return &copied, nil
}

func (s *fakeTicketStore) addTicket(ticket model.Ticket) uuid.UUID {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	s.tickets[ticket.ID] = &ticket
	return ticket.ID
}

func (s *fakeTicketStore) addOrg(org model.Organization) uuid.UUID {
	if org.ID == uuid.Nil {
		org.ID = uuid.New()
	}
	s.orgs[org.ID] = &org
	return org.ID
}

func (s *fakeTicketStore) addTechnician(tech model.Technician) uuid.UUID {
	if tech.ID == uuid.Nil {
		tech.ID = uuid.New()
	}
	s.technicians[tech.ID] = &tech
	return tech.ID
}

type fakeBidStore struct {
	bids    map[uuid.UUID]*model.Bid
	order   []uuid.UUID
	tickets *fakeTicketStore
	// hideActive makes ActiveForVendorTicket report no active bid,
	// simulating a concurrent submission that lands between the service's
	// pre-check and the insert.
	hideActive bool
}

func newFakeBidStore(tickets *fakeTicketStore) *fakeBidStore {
	return &fakeBidStore{bids: make(map[uuid.UUID]*model.Bid), tickets: tickets}
}

// hasActive mirrors the partial unique index on (ticket_id, vendor_id)
// WHERE NOT is_superseded: inserts collide with any still-active row.
func (s *fakeBidStore) hasActive(ticketID, vendorID uuid.UUID) bool {
	for _, bid := range s.bids {
		if bid.TicketID == ticketID && bid.VendorID == vendorID && !bid.IsSuperseded {
			return true
		}
	}
	return false
}

func (s *fakeBidStore) Get(_ context.Context, id uuid.UUID) (*model.Bid, error) {
	bid, ok := s.bids[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *bid
	return &copied, nil
}

func (s *fakeBidStore) Create(_ context.Context, bid model.Bid) (*model.Bid, error) {
	if s.hasActive(bid.TicketID, bid.VendorID) {
		return nil, gorm.ErrDuplicatedKey
	}
	bid.ID = uuid.New()
	bid.Version = 1
	bid.CreatedAt = time.Now()
	s.bids[bid.ID] = &bid
	s.order = append(s.order, bid.ID)
	copied := bid
	return &copied, nil
}

func (s *fakeBidStore) CreateVersion(_ context.Context, priorID uuid.UUID, next model.Bid) (*model.Bid, error) {
	prior, ok := s.bids[priorID]
	if !ok || prior.IsSuperseded {
		return nil, gorm.ErrRecordNotFound
	}
	prior.IsSuperseded = true
	if s.hasActive(next.TicketID, next.VendorID) {
		prior.IsSuperseded = false
		return nil, gorm.ErrDuplicatedKey
	}
	next.ID = uuid.New()
	next.PreviousBidID = &priorID
	next.CreatedAt = time.Now()
	s.bids[next.ID] = &next
	s.order = append(s.order, next.ID)
	prior.SupersededByID = &next.ID
	copied := next
	return &copied, nil
}

func (s *fakeBidStore) ActiveForVendorTicket(_ context.Context, ticketID, vendorID uuid.UUID) (*model.Bid, error) {
	if s.hideActive {
		return nil, gorm.ErrRecordNotFound
	}
	for _, bid := range s.bids {
		if bid.TicketID == ticketID && bid.VendorID == vendorID && !bid.IsSuperseded {
			copied := *bid
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeBidStore) ListForTicket(_ context.Context, ticketID uuid.UUID) ([]model.Bid, error) {
	var result []model.Bid
	for _, id := range s.order {
		if s.bids[id].TicketID == ticketID {
			result = append(result, *s.bids[id])
		}
	}
	return result, nil
}

func (s *fakeBidStore) ListForVendor(_ context.Context, vendorID uuid.UUID) ([]model.Bid, error) {
	var result []model.Bid
	for _, id := range s.order {
		bid := s.bids[id]
		if bid.VendorID == vendorID && !bid.IsSuperseded {
			result = append(result, *bid)
		}
	}
	return result, nil
}

func (s *fakeBidStore) Accept(ctx context.Context, bid model.Bid, siblingReason string) error {
	stored, ok := s.bids[bid.ID]
	if !ok || stored.IsSuperseded || stored.Status != model.BidStatusPending {
		return gorm.ErrRecordNotFound
	}
	stored.Status = model.BidStatusAccepted
	for _, sibling := range s.bids {
		if sibling.TicketID == stored.TicketID && sibling.ID != stored.ID &&
			!sibling.IsSuperseded && sibling.Status == model.BidStatusPending {
			sibling.Status = model.BidStatusRejected
			reason := siblingReason
			sibling.RejectionReason = &reason
		}
	}
	return s.tickets.AssignVendor(ctx, stored.TicketID, stored.VendorID)
}

func (s *fakeBidStore) UpdateStatus(_ context.Context, bidID uuid.UUID, status model.BidStatus, rejectionReason *string, counterOffer *decimal.Decimal, counterNotes *string) error {
	bid, ok := s.bids[bidID]
	if !ok || bid.IsSuperseded || bid.Status != model.BidStatusPending {
		return gorm.ErrRecordNotFound
	}
	bid.Status = status
	bid.RejectionReason = rejectionReason
	bid.CounterOffer = counterOffer
	bid.CounterNotes = counterNotes
	return nil
}

func (s *fakeBidStore) SetApproval(_ context.Context, bidID, userID uuid.UUID, at time.Time) error {
	bid, ok := s.bids[bidID]
	if !ok || bid.Status != model.BidStatusAccepted || bid.ApprovedAt != nil {
		return gorm.ErrRecordNotFound
	}
	bid.ApprovedByUserID = &userID
	bid.ApprovedAt = &at
	return nil
}

func (s *fakeBidStore) VendorBidGroups(_ context.Context, vendorID uuid.UUID, from, to time.Time) ([]model.TicketBidGroup, error) {
	index := make(map[uuid.UUID]int)
	var groups []model.TicketBidGroup
	for _, id := range s.order {
		bid := s.bids[id]
		if bid.VendorID != vendorID {
			continue
		}
		if bid.CreatedAt.Before(from) || !bid.CreatedAt.Before(to) {
			continue
		}
		pos, ok := index[bid.TicketID]
		if !ok {
			title := ""
			if ticket, exists := s.tickets.tickets[bid.TicketID]; exists {
				title = ticket.Title
			}
			groups = append(groups, model.TicketBidGroup{TicketID: bid.TicketID, TicketTitle: title})
			pos = len(groups) - 1
			index[bid.TicketID] = pos
		}
		groups[pos].Versions = append(groups[pos].Versions, *bid)
	}
	return groups, nil
}

type fakeWorkOrderStore struct {
	orders map[uuid.UUID]*model.WorkOrder
	order  []uuid.UUID
}

func newFakeWorkOrderStore() *fakeWorkOrderStore {
	return &fakeWorkOrderStore{orders: make(map[uuid.UUID]*model.WorkOrder)}
}

func (s *fakeWorkOrderStore) Create(_ context.Context, order model.WorkOrder) (*model.WorkOrder, error) {
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	s.orders[order.ID] = &order
	s.order = append(s.order, order.ID)
	copied := order
	return &copied, nil
}

func (s *fakeWorkOrderStore) Get(_ context.Context, id uuid.UUID) (*model.WorkOrder, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *fakeWorkOrderStore) ListForTicket(_ context.Context, ticketID uuid.UUID) ([]model.WorkOrder, error) {
	var result []model.WorkOrder
	for _, id := range s.order {
		if s.orders[id].TicketID == ticketID {
			result = append(result, *s.orders[id])
		}
	}
	return result, nil
}

type fakePartStore struct {
	parts   map[uuid.UUID]*model.Part
	history []model.PartPriceHistory
}

func newFakePartStore() *fakePartStore {
	return &fakePartStore{parts: make(map[uuid.UUID]*model.Part)}
}

func (s *fakePartStore) Create(_ context.Context, part model.Part) (*model.Part, error) {
	part.ID = uuid.New()
	part.CreatedAt = time.Now()
	part.UpdatedAt = part.CreatedAt
	s.parts[part.ID] = &part
	copied := part
	return &copied, nil
}

func (s *fakePartStore) Get(_ context.Context, id uuid.UUID) (*model.Part, error) {
	part, ok := s.parts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *part
	return &copied, nil
}

func (s *fakePartStore) ListForVendor(_ context.Context, vendorID uuid.UUID) ([]model.Part, error) {
	var result []model.Part
	for _, part := range s.parts {
		if part.VendorID == vendorID {
			result = append(result, *part)
		}
	}
	return result, nil
}

func (s *fakePartStore) Update(_ context.Context, part model.Part) (*model.Part, error) {
	stored, ok := s.parts[part.ID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	part.UpdatedAt = time.Now()
	*stored = part
	copied := part
	return &copied, nil
}

func (s *fakePartStore) UpdateWithHistory(ctx context.Context, part model.Part, history model.PartPriceHistory) (*model.Part, error) {
	updated, err := s.Update(ctx, part)
	if err != nil {
		return nil, err
	}
	history.ID = uuid.New()
	history.CreatedAt = time.Now()
	s.history = append(s.history, history)
	return updated, nil
}

func (s *fakePartStore) ListPriceHistory(_ context.Context, partID uuid.UUID) ([]model.PartPriceHistory, error) {
	var result []model.PartPriceHistory
	for _, entry := range s.history {
		if entry.PartID == partID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type fakeInvoiceStore struct {
	invoices map[uuid.UUID]*model.Invoice
	seq      int64
}

func newFakeInvoiceStore() *fakeInvoiceStore {
	return &fakeInvoiceStore{invoices: make(map[uuid.UUID]*model.Invoice)}
}

func (s *fakeInvoiceStore) Create(_ context.Context, invoice model.Invoice) (*model.Invoice, error) {
	invoice.ID = uuid.New()
	invoice.CreatedAt = time.Now()
	for i := range invoice.Lines {
		invoice.Lines[i].ID = uuid.New()
		invoice.Lines[i].InvoiceID = invoice.ID
	}
	s.invoices[invoice.ID] = &invoice
	copied := invoice
	return &copied, nil
}

func (s *fakeInvoiceStore) Get(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	invoice, ok := s.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *invoice
	return &copied, nil
}

func (s *fakeInvoiceStore) NextInvoiceNumber(_ context.Context) (int64, error) {
	s.seq++
	return s.seq, nil
}

type fakeRenderer struct {
	rendered []model.InvoiceDocument
}

func (r *fakeRenderer) Render(doc model.InvoiceDocument) ([]byte, error) {
	r.rendered = append(r.rendered, doc)
	return []byte("%PDF-fake"), nil
}

type fakeExcelGenerator struct {
	reports []model.VendorBidReport
}

func (g *fakeExcelGenerator) Generate(report model.VendorBidReport) ([]byte, error) {
	g.reports = append(g.reports, report)
	return []byte("xlsx"), nil
}
