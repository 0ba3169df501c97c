package domain

import "testing"

func TestRouteTable_Classify(t *testing.T) {
	table := DefaultRouteTable()

	cases := []struct {
		path      string
		class     RouteClass
		module    ModuleKey
		adminOnly bool
	}{
		{"/login", RoutePublic, "", false},
		{"/register", RoutePublic, "", false},
		{"/", RouteUnclassified, "", false},
		{"/dashboard", RouteUnclassified, "", false},
		{"/crm", RouteModule, ModuleCRM, false},
		{"/crm/contacts/42", RouteModule, ModuleCRM, false},
		{"/kpi", RouteModule, ModuleKPI, false},
		{"/kpi/reports", RouteModule, ModuleKPI, true},
		{"/kpi/reports/q3", RouteModule, ModuleKPI, true},
		{"/admin", RouteModule, ModuleAdmin, true},
		{"/finance", RouteModule, ModuleFinance, false},
	}

	for _, tc := range cases {
		got := table.Classify(tc.path)
		if got.Class != tc.class {
			t.Errorf("%s: class = %v, want %v", tc.path, got.Class, tc.class)
			continue
		}
		if tc.class == RouteModule {
			if got.Module != tc.module {
				t.Errorf("%s: module = %s, want %s", tc.path, got.Module, tc.module)
			}
			if got.AdminOnly != tc.adminOnly {
				t.Errorf("%s: adminOnly = %v, want %v", tc.path, got.AdminOnly, tc.adminOnly)
			}
		}
	}
}

func TestRouteTable_PrefixIsSegmentAware(t *testing.T) {
	table := DefaultRouteTable()

	// "/crmX" must not match the "/crm" rule.
	if got := table.Classify("/crmX"); got.Class != RouteUnclassified {
		t.Fatalf("expected /crmX unclassified, got %v", got.Class)
	}
	// "/loginX" is not the login page either.
	if got := table.Classify("/loginX"); got.Class != RouteUnclassified {
		t.Fatalf("expected /loginX unclassified, got %v", got.Class)
	}
}
