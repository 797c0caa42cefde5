package routing

import (
	"strings"

	"github.com/ecaldwell/cipher/internal/config"
)

// Keypad is the calculator disguise layer in front of the routing
// controller. Every key behaves like a plain calculator key; the only
// hidden behavior is that typing the unlock sequence reveals the login
// screen. The sequence is obfuscation, not authentication: revealing the
// login form grants no access by itself.
type Keypad struct {
	sequence string
	buffer   string
}

// NewKeypad creates a keypad watching for the configured unlock sequence.
func NewKeypad() *Keypad {
	return &Keypad{sequence: config.UnlockSequence}
}

// Press feeds one key to the keypad and reports whether the unlock
// sequence was just completed. Digits accumulate in a sliding buffer so
// any prior input still unlocks once the sequence appears at the end.
// "C" and any non-digit key (operators, equals) reset the buffer: the
// sequence must be typed as consecutive digits.
func (k *Keypad) Press(key string) bool {
	if key == "C" || len(key) != 1 || key[0] < '0' || key[0] > '9' {
		k.buffer = ""
		return false
	}

	k.buffer += key
	if len(k.buffer) > len(k.sequence) {
		k.buffer = k.buffer[len(k.buffer)-len(k.sequence):]
	}

	return strings.HasSuffix(k.buffer, k.sequence)
}

// Reset clears the accumulated digits, e.g. when leaving the disguise
// screen.
func (k *Keypad) Reset() {
	k.buffer = ""
}
