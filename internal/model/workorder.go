package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WorkOrderStatus string

const (
	WorkOrderStatusCompleted    WorkOrderStatus = "completed"
	WorkOrderStatusReturnNeeded WorkOrderStatus = "return_needed"
)

type WorkOrderPart struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Cost     decimal.Decimal `json:"cost"`
}

type OtherCharge struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// chargeListVersion tags the stored JSONB envelope so future schema changes
// of the embedded item lists can be migrated explicitly.
const chargeListVersion = 1

type chargeEnvelope[T any] struct {
	Version int `json:"version"`
	Items   []T `json:"items"`
}

// EncodePartList wraps parts in the versioned storage envelope.
func EncodePartList(parts []WorkOrderPart) ([]byte, error) {
	return json.Marshal(chargeEnvelope[WorkOrderPart]{Version: chargeListVersion, Items: parts})
}

// DecodePartList reads a stored parts blob. Malformed or historical data
// that fails to parse degrades to an empty list so a work order always
// remains renderable.
func DecodePartList(raw []byte) []WorkOrderPart {
	items := decodeEnvelope[WorkOrderPart](raw)
	if items == nil {
		return []WorkOrderPart{}
	}
	return items
}

func EncodeChargeList(charges []OtherCharge) ([]byte, error) {
	return json.Marshal(chargeEnvelope[OtherCharge]{Version: chargeListVersion, Items: charges})
}

func DecodeChargeList(raw []byte) []OtherCharge {
	items := decodeEnvelope[OtherCharge](raw)
	if items == nil {
		return []OtherCharge{}
	}
	return items
}

func decodeEnvelope[T any](raw []byte) []T {
	if len(raw) == 0 {
		return nil
	}
	var env chargeEnvelope[T]
	if err := json.Unmarshal(raw, &env); err == nil && env.Version > 0 {
		return env.Items
	}
	// Historical rows stored bare arrays before the envelope existed.
	var bare []T
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare
	}
	return nil
}

// WorkOrder records one technician visit against a ticket. TotalCost is a
// computed value: it must always equal labor + parts + other charges and is
// recomputed on write rather than trusted from the caller.
type WorkOrder struct {
	ID              uuid.UUID
	TicketID        uuid.UUID
	TechnicianName  string
	Description     string
	Status          WorkOrderStatus
	HoursWorked     decimal.Decimal
	HourlyRate      decimal.Decimal
	Parts           []WorkOrderPart `gorm:"-"`
	OtherCharges    []OtherCharge   `gorm:"-"`
	TotalCost       decimal.Decimal
	CompletionNotes string
	ImageURLs       []string `gorm:"-"`
	CreatedAt       time.Time
}
