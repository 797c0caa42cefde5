package routing

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

type fakeAuthorizer struct {
	signedIn   bool
	biometrics bool
}

func (f *fakeAuthorizer) IsSignedIn(ctx context.Context) bool { return f.signedIn }
func (f *fakeAuthorizer) IsBiometricsEnabled() bool           { return f.biometrics }

type fakeGate struct {
	PromptFunc func(ctx context.Context, reason string) (bool, error)
}

func (f *fakeGate) Available(ctx context.Context) bool { return true }
func (f *fakeGate) Enrolled(ctx context.Context) bool  { return true }
func (f *fakeGate) Prompt(ctx context.Context, reason string) (bool, error) {
	if f.PromptFunc != nil {
		return f.PromptFunc(ctx, reason)
	}
	return true, nil
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		signedIn   bool
		biometrics bool
		want       State
	}{
		{"signed out", false, false, StateLoginRequired},
		{"signed out with biometrics flag", false, true, StateLoginRequired},
		{"signed in, biometrics off", true, false, StateMainApp},
		{"signed in, biometrics on", true, true, StateBiometricGate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuthorizer{signedIn: tt.signedIn, biometrics: tt.biometrics}
			c := NewController(auth, &fakeGate{}, zerolog.Nop())

			if got := c.Resolve(context.Background()); got != tt.want {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnlock(t *testing.T) {
	newGated := func(gate *fakeGate) *Controller {
		auth := &fakeAuthorizer{signedIn: true, biometrics: true}
		c := NewController(auth, gate, zerolog.Nop())
		c.Resolve(context.Background())
		return c
	}

	t.Run("success unlocks the app", func(t *testing.T) {
		c := newGated(&fakeGate{})
		got, err := c.Unlock(context.Background(), "Unlock")
		if err != nil {
			t.Fatalf("Unlock() error = %v", err)
		}
		if got != StateMainApp {
			t.Errorf("Unlock() = %v, want StateMainApp", got)
		}
	})

	t.Run("refusal keeps the gate", func(t *testing.T) {
		gate := &fakeGate{PromptFunc: func(ctx context.Context, reason string) (bool, error) {
			return false, nil
		}}
		c := newGated(gate)
		got, err := c.Unlock(context.Background(), "Unlock")
		if err != nil {
			t.Fatalf("Unlock() error = %v", err)
		}
		if got != StateBiometricGate {
			t.Errorf("Unlock() = %v, want StateBiometricGate (retryable)", got)
		}
	})

	t.Run("prompt error keeps the gate", func(t *testing.T) {
		gate := &fakeGate{PromptFunc: func(ctx context.Context, reason string) (bool, error) {
			return false, errors.New("sensor unavailable")
		}}
		c := newGated(gate)
		got, err := c.Unlock(context.Background(), "Unlock")
		if err == nil {
			t.Error("Unlock() error = nil, want sensor error surfaced")
		}
		if got != StateBiometricGate {
			t.Errorf("Unlock() = %v, want StateBiometricGate (retryable)", got)
		}
	})

	t.Run("no-op outside the gate state", func(t *testing.T) {
		auth := &fakeAuthorizer{signedIn: true}
		c := NewController(auth, &fakeGate{}, zerolog.Nop())
		c.Resolve(context.Background())

		got, err := c.Unlock(context.Background(), "Unlock")
		if err != nil {
			t.Fatalf("Unlock() error = %v", err)
		}
		if got != StateMainApp {
			t.Errorf("Unlock() = %v, want StateMainApp unchanged", got)
		}
	})
}

func TestUsePassword_VoluntaryFallback(t *testing.T) {
	auth := &fakeAuthorizer{signedIn: true, biometrics: true}
	c := NewController(auth, &fakeGate{}, zerolog.Nop())
	c.Resolve(context.Background())

	if got := c.UsePassword(); got != StateLoginRequired {
		t.Errorf("UsePassword() = %v, want StateLoginRequired", got)
	}

	// From anywhere else it is a no-op.
	c.SignedIn()
	if got := c.UsePassword(); got != StateMainApp {
		t.Errorf("UsePassword() outside gate = %v, want StateMainApp unchanged", got)
	}
}

func TestSignedInAndOut(t *testing.T) {
	c := NewController(&fakeAuthorizer{}, &fakeGate{}, zerolog.Nop())
	c.Resolve(context.Background())

	if got := c.SignedIn(); got != StateMainApp {
		t.Errorf("SignedIn() = %v, want StateMainApp", got)
	}
	if got := c.SignedOut(); got != StateLoginRequired {
		t.Errorf("SignedOut() = %v, want StateLoginRequired", got)
	}
}
