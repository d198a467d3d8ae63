package model

import "github.com/google/uuid"

type OrgType string

const (
	OrgTypeOrganization OrgType = "ORGANIZATION"
	OrgTypeVendor       OrgType = "VENDOR"
)

type Organization struct {
	ID          uuid.UUID
	Name        string
	Type        OrgType
	ContactName string
	Address     string
	Phone       string
	Email       string
}

type Technician struct {
	ID       uuid.UUID
	OrgID    uuid.UUID
	FullName string
	Phone    string
}
