package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/venueops/backoffice/internal/core/domain"
	"github.com/venueops/backoffice/internal/core/ports"
	"github.com/venueops/backoffice/internal/metrics"
)

// AccessService is the per-request decision engine: classify the path, run
// the session validator, apply the decision table. Stateless per call; all
// shared state lives behind the validator's store and the limiter.
type AccessService struct {
	routes    *domain.RouteTable
	validator ports.SessionValidator
	log       zerolog.Logger
}

func NewAccessService(routes *domain.RouteTable, validator ports.SessionValidator, log zerolog.Logger) *AccessService {
	return &AccessService{routes: routes, validator: validator, log: log}
}

// Decide returns the terminal outcome for one request.
func (s *AccessService) Decide(ctx context.Context, path string, claim domain.SessionClaim) domain.Decision {
	class := s.routes.Classify(path)
	session := s.validator.Validate(ctx, claim)

	d := s.decide(class, claim, session)
	metrics.GateDecisionsTotal.WithLabelValues(d.Action.String()).Inc()
	if d.Action != domain.Allow {
		s.log.Debug().
			Str("path", path).
			Str("identity_id", claim.IdentityID).
			Str("action", d.Action.String()).
			Msg("request redirected by gate")
	}
	return d
}

func (s *AccessService) decide(class domain.Classification, claim domain.SessionClaim, session domain.SessionInfo) domain.Decision {
	if !session.Valid {
		if class.Class == domain.RoutePublic {
			return domain.Decision{Action: domain.Allow}
		}
		// Cookies are cleared only when a claim was actually presented;
		// anonymous visitors get a plain redirect.
		return domain.Decision{Action: domain.RedirectLogin, ClearCookies: !claim.Empty()}
	}

	switch class.Class {
	case domain.RoutePublic:
		// Authenticated users never see login/register.
		return domain.Decision{Action: domain.RedirectHome}
	case domain.RouteModule:
		if class.AdminOnly {
			// Admin-only routes answer to the role alone: admins reach
			// them regardless of stored grants, everyone else goes home.
			if session.Role != domain.RoleAdmin {
				return domain.Decision{Action: domain.RedirectHome}
			}
			return domain.Decision{Action: domain.Allow}
		}
		if _, ok := session.AllowedModules[class.Module]; !ok {
			return domain.Decision{Action: domain.RedirectHome}
		}
		return domain.Decision{Action: domain.Allow}
	default:
		// Routes outside the module table are reachable by any valid session.
		return domain.Decision{Action: domain.Allow}
	}
}
