package model

// Role identifies what an actor may do. The per-stage reviewer mapping is
// configuration; these are the role identifiers it refers to.
type Role string

const (
	RoleDataHolder     Role = "data_holder"
	RoleRegistryCenter Role = "registry_center"
	RoleAssessor       Role = "assessor"
	RoleCompliance     Role = "compliance"
	RoleRegulator      Role = "regulator"
	RoleAdmin          Role = "admin"
)

// Actor is the authenticated caller as asserted by the gateway. Token
// issuance and user directory management live outside this service.
type Actor struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	Role     Role   `json:"role"`
	OrgID    string `json:"org_id,omitempty"`
	IP       string `json:"-"`
}

// Reviewer reports whether the role is one of the review-side roles that see
// the global pending-approval feed.
func (r Role) Reviewer() bool {
	switch r {
	case RoleRegistryCenter, RoleAssessor, RoleCompliance, RoleRegulator, RoleAdmin:
		return true
	}
	return false
}
