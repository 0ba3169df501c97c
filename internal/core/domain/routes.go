package domain

import "strings"

// RouteClass says which branch of the decision table a path falls into.
type RouteClass int

const (
	// RoutePublic is reachable without a session (login, register).
	RoutePublic RouteClass = iota
	// RouteModule is owned by a module and may additionally be admin-only.
	RouteModule
	// RouteUnclassified is any path outside the table; reachable by any
	// valid session (e.g. the dashboard landing page).
	RouteUnclassified
)

// RouteRule binds a path prefix to a module and an admin-only flag.
type RouteRule struct {
	Prefix    string
	Module    ModuleKey
	AdminOnly bool
}

// RouteTable classifies request paths. The table is plain data so the
// classification can be unit-tested without a server; matching is
// longest-prefix so a deeper rule ("/kpi/reports") overrides its parent
// ("/kpi").
type RouteTable struct {
	public []string
	rules  []RouteRule
}

// NewRouteTable builds a table from public prefixes and module rules.
func NewRouteTable(public []string, rules []RouteRule) *RouteTable {
	return &RouteTable{public: public, rules: rules}
}

// Classification is the result of classifying one path. Module and AdminOnly
// are meaningful only when Class == RouteModule.
type Classification struct {
	Class     RouteClass
	Module    ModuleKey
	AdminOnly bool
}

// Classify maps a request path to its class via longest-prefix match.
func (t *RouteTable) Classify(path string) Classification {
	for _, p := range t.public {
		if matchPrefix(path, p) {
			return Classification{Class: RoutePublic}
		}
	}

	best := -1
	var match RouteRule
	for _, r := range t.rules {
		if matchPrefix(path, r.Prefix) && len(r.Prefix) > best {
			best = len(r.Prefix)
			match = r
		}
	}
	if best >= 0 {
		return Classification{Class: RouteModule, Module: match.Module, AdminOnly: match.AdminOnly}
	}
	return Classification{Class: RouteUnclassified}
}

// matchPrefix is a path-segment-aware prefix test: "/kpi" matches "/kpi" and
// "/kpi/reports" but not "/kpiX".
func matchPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

// DefaultRouteTable is the production mapping of the back office.
func DefaultRouteTable() *RouteTable {
	return NewRouteTable(
		[]string{"/login", "/register"},
		[]RouteRule{
			{Prefix: "/crm", Module: ModuleCRM},
			{Prefix: "/events", Module: ModuleEvents},
			{Prefix: "/stock", Module: ModuleStock},
			{Prefix: "/checkout", Module: ModuleCheckout},
			{Prefix: "/costs", Module: ModuleCosts},
			{Prefix: "/kpi", Module: ModuleKPI},
			{Prefix: "/kpi/reports", Module: ModuleKPI, AdminOnly: true},
			{Prefix: "/finance", Module: ModuleFinance},
			{Prefix: "/admin", Module: ModuleAdmin, AdminOnly: true},
		},
	)
}
