package domain

// DecisionAction is the terminal outcome of the access decision for one request.
type DecisionAction int

const (
	// Allow lets the request continue down the pipeline.
	Allow DecisionAction = iota
	// RedirectLogin sends the caller to the login page; ClearCookies is set
	// when a (stale or invalid) claim was actually presented.
	RedirectLogin
	// RedirectHome sends an authenticated caller to the landing page, used
	// both for public pages they no longer need and for modules they may not
	// enter. Authorization failures are deliberately indistinguishable from
	// navigation mistakes.
	RedirectHome
)

func (a DecisionAction) String() string {
	switch a {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	default:
		return "unknown"
	}
}

// Decision is what the request pipeline consumes: continue, or redirect with
// an optional atomic cookie clear.
type Decision struct {
	Action       DecisionAction
	ClearCookies bool
}
