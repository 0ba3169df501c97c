package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/venueops/backoffice/internal/core/ports"
	"github.com/venueops/backoffice/internal/metrics"
)

const defaultLookupTimeout = 3 * time.Second

// IPCheckService answers the denylist question against the external rule
// store. Its failure policy is fail-open: if the store cannot be reached the
// address reads as not blocked, because failing closed here would lock out
// every user on a transient store outage. This is the opposite of the session
// validator's policy, and deliberately so.
type IPCheckService struct {
	rules   ports.IPRuleStore
	timeout time.Duration
	log     zerolog.Logger
	now     func() time.Time
}

func NewIPCheckService(rules ports.IPRuleStore, timeout time.Duration, log zerolog.Logger) *IPCheckService {
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}
	return &IPCheckService{rules: rules, timeout: timeout, log: log, now: time.Now}
}

// IsBlocked reports whether ip has at least one effective block rule.
// The "unknown" sentinel and the empty string are never blocked: clients
// behind broken proxies must not be punished for an unparseable address.
func (s *IPCheckService) IsBlocked(ctx context.Context, ip string) bool {
	if ip == "" || ip == "unknown" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rules, err := s.rules.ListActiveBlockRules(ctx, ip)
	if err != nil {
		// Fail-open on lookup failure; diagnostics stay server-side.
		s.log.Error().Err(err).Str("ip", ip).Msg("ip rule lookup failed, failing open")
		metrics.IPBlockChecksTotal.WithLabelValues("error").Inc()
		return false
	}

	now := s.now()
	for _, r := range rules {
		if r.EffectiveAt(now) {
			metrics.IPBlockChecksTotal.WithLabelValues("blocked").Inc()
			return true
		}
	}
	metrics.IPBlockChecksTotal.WithLabelValues("clear").Inc()
	return false
}
