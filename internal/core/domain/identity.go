package domain

const (
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// ModuleKey names one functional area of the back office. Access to a module
// is granted per identity; the admin module is implicit for admins.
type ModuleKey string

const (
	ModuleCRM      ModuleKey = "crm"
	ModuleEvents   ModuleKey = "events"
	ModuleStock    ModuleKey = "stock"
	ModuleCheckout ModuleKey = "checkout"
	ModuleCosts    ModuleKey = "costs"
	ModuleKPI      ModuleKey = "kpi"
	ModuleFinance  ModuleKey = "finance"
	ModuleAdmin    ModuleKey = "admin"
)

// Modules is the fixed set of valid module keys.
var Modules = map[ModuleKey]struct{}{
	ModuleCRM:      {},
	ModuleEvents:   {},
	ModuleStock:    {},
	ModuleCheckout: {},
	ModuleCosts:    {},
	ModuleKPI:      {},
	ModuleFinance:  {},
	ModuleAdmin:    {},
}

// IdentityRecord is the profile store's view of a user, read-only to the
// gatekeeping pipeline. ActiveSessionMarker names the single session that is
// currently valid for this identity; an empty string means none has been
// issued. A claim whose marker differs from ActiveSessionMarker is stale
// (logged in elsewhere) regardless of approval.
type IdentityRecord struct {
	ID                  string      `json:"id"`
	Phone               string      `json:"phone"`
	PasswordHash        string      `json:"-"`
	IsApproved          bool        `json:"is_approved"`
	ActiveSessionMarker string      `json:"-"`
	AllowedModules      []ModuleKey `json:"allowed_modules"`
	Role                string      `json:"role"`
}

// ModuleSet returns the effective module grants for the record: the stored
// grants, plus the admin module when the role is admin.
func (r *IdentityRecord) ModuleSet() map[ModuleKey]struct{} {
	set := make(map[ModuleKey]struct{}, len(r.AllowedModules)+1)
	for _, m := range r.AllowedModules {
		set[m] = struct{}{}
	}
	if r.Role == RoleAdmin {
		set[ModuleAdmin] = struct{}{}
	}
	return set
}
