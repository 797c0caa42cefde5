package auth

import (
	"errors"
	"strings"
)

// Sentinel errors for the provider failure classes callers branch on.
var (
	ErrEmailInUse          = errors.New("email already registered")
	ErrInvalidEmail        = errors.New("invalid email")
	ErrWeakPassword        = errors.New("weak password")
	ErrUserNotFound        = errors.New("user not found")
	ErrWrongPassword       = errors.New("wrong password")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrNetwork             = errors.New("network failure")
	ErrNotSignedIn         = errors.New("not signed in")
	ErrConfirmationNeeded  = errors.New("confirmation required")
	ErrDecoySessionBlocked = errors.New("operation unavailable in this session")
)

// Humanize maps a gateway error to the message shown to the user. Unknown
// errors get a generic message so provider internals never leak to the UI.
func Humanize(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmailInUse):
		return "This email is already registered"
	case errors.Is(err, ErrInvalidEmail):
		return "Invalid email address"
	case errors.Is(err, ErrWeakPassword):
		return "Password is too weak"
	case errors.Is(err, ErrUserNotFound):
		return "No account found with this email"
	case errors.Is(err, ErrWrongPassword):
		return "Incorrect password"
	case errors.Is(err, ErrTooManyRequests):
		return "Too many failed attempts. Try again later"
	case errors.Is(err, ErrNetwork):
		return "Network error. Check your connection"
	case errors.Is(err, ErrConfirmationNeeded):
		return `Confirmation required. Must send "confirm": "DELETE"`
	default:
		return "An error occurred. Please try again"
	}
}

// classifyToolkitError maps Identity Toolkit error payloads onto the
// sentinel errors. The API reports failures as upper-snake-case message
// codes, sometimes with a trailing detail after " : ".
func classifyToolkitError(message string) error {
	code := message
	if i := strings.Index(code, " : "); i >= 0 {
		code = code[:i]
	}
	code = strings.TrimSpace(code)

	switch {
	case code == "EMAIL_EXISTS":
		return ErrEmailInUse
	case code == "INVALID_EMAIL" || code == "MISSING_EMAIL":
		return ErrInvalidEmail
	case strings.HasPrefix(code, "WEAK_PASSWORD"):
		return ErrWeakPassword
	case code == "EMAIL_NOT_FOUND" || code == "USER_NOT_FOUND":
		return ErrUserNotFound
	case code == "INVALID_PASSWORD" || code == "INVALID_LOGIN_CREDENTIALS":
		return ErrWrongPassword
	case strings.HasPrefix(code, "TOO_MANY_ATTEMPTS_TRY_LATER"):
		return ErrTooManyRequests
	default:
		return errors.New(message)
	}
}
