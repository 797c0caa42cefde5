// Package routing decides which screen the app shows next: the disguise
// keypad, the login form, the biometric gate, or the main app.
package routing

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ecaldwell/cipher/internal/biometric"
)

// State is a top-level screen of the app.
type State int

const (
	// StateChecking is the transient entry state while session state is
	// resolved.
	StateChecking State = iota

	// StateLoginRequired shows the login form. Stable until user action.
	StateLoginRequired

	// StateBiometricGate blocks the app behind a biometric prompt.
	StateBiometricGate

	// StateMainApp is the unlocked application. Stable until user action.
	StateMainApp
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateLoginRequired:
		return "login_required"
	case StateBiometricGate:
		return "biometric_gate"
	case StateMainApp:
		return "main_app"
	default:
		return "unknown"
	}
}

// Authorizer is the slice of the auth gateway the controller needs.
type Authorizer interface {
	IsSignedIn(ctx context.Context) bool
	IsBiometricsEnabled() bool
}

// Controller is the routing state machine. It is not safe for concurrent
// use; the front-end drives it from a single loop.
type Controller struct {
	auth  Authorizer
	gate  biometric.Gate
	state State
	log   zerolog.Logger
}

// NewController creates a controller in the Checking state.
func NewController(auth Authorizer, gate biometric.Gate, log zerolog.Logger) *Controller {
	return &Controller{
		auth:  auth,
		gate:  gate,
		state: StateChecking,
		log:   log.With().Str("component", "routing").Logger(),
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Resolve runs the Checking transitions: login when not signed in, the
// biometric gate when signed in with the app-lock enabled, otherwise
// straight to the main app.
func (c *Controller) Resolve(ctx context.Context) State {
	switch {
	case !c.auth.IsSignedIn(ctx):
		c.transition(StateLoginRequired)
	case c.auth.IsBiometricsEnabled():
		c.transition(StateBiometricGate)
	default:
		c.transition(StateMainApp)
	}

	return c.state
}

// Unlock runs the biometric prompt from the gate state. Success moves to
// the main app; refusal and prompt errors leave the gate in place so the
// user can retry. The error is returned for display but is never a state
// change.
func (c *Controller) Unlock(ctx context.Context, reason string) (State, error) {
	if c.state != StateBiometricGate {
		return c.state, nil
	}

	ok, err := c.gate.Prompt(ctx, reason)
	if err != nil {
		c.log.Warn().Err(err).Msg("Biometric prompt failed")
		return c.state, err
	}

	if ok {
		c.transition(StateMainApp)
	}

	return c.state, nil
}

// UsePassword is the voluntary fallback from the biometric gate to the
// login form. It is a user choice, not a failure path.
func (c *Controller) UsePassword() State {
	if c.state == StateBiometricGate {
		c.transition(StateLoginRequired)
	}

	return c.state
}

// SignedIn moves to the main app after a successful login.
func (c *Controller) SignedIn() State {
	c.transition(StateMainApp)
	return c.state
}

// SignedOut returns to the login form from any state.
func (c *Controller) SignedOut() State {
	c.transition(StateLoginRequired)
	return c.state
}

func (c *Controller) transition(next State) {
	if next == c.state {
		return
	}

	c.log.Debug().Stringer("from", c.state).Stringer("to", next).Msg("Routing transition")
	c.state = next
}
