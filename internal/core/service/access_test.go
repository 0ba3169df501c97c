package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/venueops/backoffice/internal/core/domain"
)

func newTestEngine(records map[string]*domain.IdentityRecord) *AccessService {
	validator := NewValidator(&stubProfileStore{records: records}, time.Second, zerolog.Nop())
	return NewAccessService(domain.DefaultRouteTable(), validator, zerolog.Nop())
}

func TestAccess_AnonymousOnPublicPath(t *testing.T) {
	engine := newTestEngine(nil)

	d := engine.Decide(context.Background(), "/login", domain.SessionClaim{})
	if d.Action != domain.Allow {
		t.Fatalf("anonymous /login: action = %v, want allow", d.Action)
	}
}

func TestAccess_AnonymousOnProtectedPath(t *testing.T) {
	engine := newTestEngine(nil)

	d := engine.Decide(context.Background(), "/crm", domain.SessionClaim{})
	if d.Action != domain.RedirectLogin {
		t.Fatalf("action = %v, want redirect_login", d.Action)
	}
	if d.ClearCookies {
		t.Fatalf("no claim was presented, cookies must not be cleared")
	}
}

func TestAccess_StaleClaimClearsCookies(t *testing.T) {
	engine := newTestEngine(map[string]*domain.IdentityRecord{
		"U1": approvedRecord("U1", "m1", domain.RoleStaff, domain.ModuleCRM),
	})

	d := engine.Decide(context.Background(), "/crm", domain.SessionClaim{IdentityID: "U1", SessionMarker: "m2"})
	if d.Action != domain.RedirectLogin {
		t.Fatalf("action = %v, want redirect_login", d.Action)
	}
	if !d.ClearCookies {
		t.Fatalf("a presented stale claim must clear cookies")
	}
}

func TestAccess_ValidSessionOnPublicPathGoesHome(t *testing.T) {
	engine := newTestEngine(map[string]*domain.IdentityRecord{
		"U1": approvedRecord("U1", "m1", domain.RoleStaff, domain.ModuleCRM),
	})

	claim := domain.SessionClaim{IdentityID: "U1", SessionMarker: "m1"}
	for _, path := range []string{"/login", "/register"} {
		if d := engine.Decide(context.Background(), path, claim); d.Action != domain.RedirectHome {
			t.Fatalf("%s: action = %v, want redirect_home", path, d.Action)
		}
	}
}

func TestAccess_ModuleMembership(t *testing.T) {
	engine := newTestEngine(map[string]*domain.IdentityRecord{
		"U1": approvedRecord("U1", "m1", domain.RoleStaff, domain.ModuleCRM, domain.ModuleStock),
	})
	claim := domain.SessionClaim{IdentityID: "U1", SessionMarker: "m1"}

	if d := engine.Decide(context.Background(), "/crm/contacts", claim); d.Action != domain.Allow {
		t.Fatalf("/crm/contacts: action = %v, want allow", d.Action)
	}
	if d := engine.Decide(context.Background(), "/finance", claim); d.Action != domain.RedirectHome {
		t.Fatalf("/finance without grant: action = %v, want redirect_home", d.Action)
	}
}

func TestAccess_AdminOnlyPrecedesMembership(t *testing.T) {
	// Staff with the kpi grant: "/kpi" is fine, "/kpi/reports" is admin-only
	// and redirects home even though the module is granted.
	engine := newTestEngine(map[string]*domain.IdentityRecord{
		"U1": approvedRecord("U1", "m1", domain.RoleStaff, domain.ModuleKPI),
	})
	claim := domain.SessionClaim{IdentityID: "U1", SessionMarker: "m1"}

	if d := engine.Decide(context.Background(), "/kpi", claim); d.Action != domain.Allow {
		t.Fatalf("/kpi: action = %v, want allow", d.Action)
	}
	if d := engine.Decide(context.Background(), "/kpi/reports", claim); d.Action != domain.RedirectHome {
		t.Fatalf("/kpi/reports as staff: action = %v, want redirect_home", d.Action)
	}
}

func TestAccess_AdminReachesAdminOnlyWithoutStoredGrant(t *testing.T) {
	// A1 has no stored grants at all: admin-only routes answer to the role
	// alone, so both the implicit admin module and a module the record
	// never granted ("/kpi/reports") stay reachable.
	engine := newTestEngine(map[string]*domain.IdentityRecord{
		"A1": approvedRecord("A1", "m1", domain.RoleAdmin),
	})
	claim := domain.SessionClaim{IdentityID: "A1", SessionMarker: "m1"}

	if d := engine.Decide(context.Background(), "/admin/users", claim); d.Action != domain.Allow {
		t.Fatalf("/admin/users as admin: action = %v, want allow", d.Action)
	}
	if d := engine.Decide(context.Background(), "/kpi/reports", claim); d.Action != domain.Allow {
		t.Fatalf("/kpi/reports as admin without kpi grant: action = %v, want allow", d.Action)
	}

	// Plain module routes still require the stored grant, admin or not.
	if d := engine.Decide(context.Background(), "/crm", claim); d.Action != domain.RedirectHome {
		t.Fatalf("/crm as admin without crm grant: action = %v, want redirect_home", d.Action)
	}
}

func TestAccess_UnclassifiedAllowsAnyValidSession(t *testing.T) {
	engine := newTestEngine(map[string]*domain.IdentityRecord{
		"U1": approvedRecord("U1", "m1", domain.RoleStaff),
	})
	claim := domain.SessionClaim{IdentityID: "U1", SessionMarker: "m1"}

	if d := engine.Decide(context.Background(), "/dashboard", claim); d.Action != domain.Allow {
		t.Fatalf("/dashboard: action = %v, want allow", d.Action)
	}
}

func TestAccess_NeverAllowsInvalidClaim(t *testing.T) {
	engine := newTestEngine(map[string]*domain.IdentityRecord{
		"U1": approvedRecord("U1", "m1", domain.RoleStaff, domain.ModuleCRM),
	})

	claims := []domain.SessionClaim{
		{},
		{IdentityID: "ghost", SessionMarker: "m1"},
		{IdentityID: "U1", SessionMarker: "wrong"},
		{IdentityID: "U1"},
	}
	for _, claim := range claims {
		for _, path := range []string{"/", "/crm", "/admin", "/dashboard"} {
			if d := engine.Decide(context.Background(), path, claim); d.Action == domain.Allow {
				t.Fatalf("invalid claim %+v allowed on %s", claim, path)
			}
		}
	}
}
