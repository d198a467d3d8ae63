package model

import "github.com/google/uuid"

type Role string

const (
	RoleRoot             Role = "root"
	RoleOrgAdmin         Role = "org_admin"
	RoleOrgSubAdmin      Role = "org_subadmin"
	RoleMaintenanceAdmin Role = "maintenance_admin"
	RoleVendor           Role = "vendor"
	RoleTechnician       Role = "technician"
)

const TierMarketplace = "marketplace"

// Principal is the authenticated caller, extracted from the access token.
type Principal struct {
	UserID uuid.UUID
	OrgID  uuid.UUID
	Role   Role
	Tiers  []string
}

func (p Principal) IsRoot() bool             { return p.Role == RoleRoot }
func (p Principal) IsOrgAdmin() bool         { return p.Role == RoleOrgAdmin }
func (p Principal) IsOrgSubAdmin() bool      { return p.Role == RoleOrgSubAdmin }
func (p Principal) IsMaintenanceAdmin() bool { return p.Role == RoleMaintenanceAdmin }
func (p Principal) IsVendor() bool           { return p.Role == RoleVendor }

func (p Principal) HasTier(tier string) bool {
	for _, t := range p.Tiers {
		if t == tier {
			return true
		}
	}
	return false
}

// CanOpenMarketplace reports whether the caller may route a ticket to open
// bidding. Requires an organization-side role plus the marketplace tier.
func (p Principal) CanOpenMarketplace() bool {
	if !(p.IsRoot() || p.IsOrgAdmin() || p.IsOrgSubAdmin()) {
		return false
	}
	return p.HasTier(TierMarketplace)
}
