package ports

import (
	"context"

	"github.com/venueops/backoffice/internal/core/domain"
)

// IPRuleStore is the IP rule lookup capability: active block rules for one
// exact address.
type IPRuleStore interface {
	ListActiveBlockRules(ctx context.Context, ip string) ([]domain.IPRule, error)
}
