package domain

import "time"

// IPRuleType distinguishes denylist from allowlist entries.
type IPRuleType string

const (
	IPRuleBlock IPRuleType = "block"
	IPRuleAllow IPRuleType = "allow"
)

// IPRule is one entry of the IP rule set, owned by the external store.
type IPRule struct {
	IPAddress string     `json:"ip_address"`
	RuleType  IPRuleType `json:"rule_type"`
	IsActive  bool       `json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// EffectiveAt reports whether the rule applies at the given instant: it must
// be active and either permanent or not yet expired.
func (r IPRule) EffectiveAt(now time.Time) bool {
	if !r.IsActive {
		return false
	}
	return r.ExpiresAt == nil || r.ExpiresAt.After(now)
}
