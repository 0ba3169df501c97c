package domain

// ThrottleVerdict is the limiter's answer for one attempt. Not an error:
// a rejected attempt is a first-class outcome the caller turns into a
// user-facing wait message.
type ThrottleVerdict struct {
	Allowed           bool `json:"allowed"`
	Remaining         int  `json:"remaining"`
	RetryAfterMinutes int  `json:"retry_after_minutes"`
}

// ThrottleKey builds the composite limiter key from the client IP and the
// submitted identifier.
func ThrottleKey(ip, identifier string) string {
	return ip + "|" + identifier
}
