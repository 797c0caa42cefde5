// Package config loads Cipher configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Disguise codes. These are obfuscation affordances, not authentication:
// anyone who knows them gets past the disguise, so they must never be
// treated as access control.
const (
	// DecoyPIN is the sign-in password that activates decoy mode.
	DecoyPIN = "0000"

	// UnlockSequence is the keypad input that reveals the login screen.
	UnlockSequence = "123"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Cipher"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Firebase struct {
		ProjectID       string `envconfig:"FIREBASE_PROJECT_ID"`
		CredentialsFile string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
		WebAPIKey       string `envconfig:"FIREBASE_WEB_API_KEY"`
	}

	Firestore struct {
		Collection string `envconfig:"FIRESTORE_COLLECTION" default:"users"`
	}

	Gemini struct {
		Model      string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
		CallDelay  time.Duration `envconfig:"GEMINI_CALL_DELAY" default:"2s"`
		Concurrent bool          `envconfig:"GEMINI_CONCURRENT" default:"false"`
	}

	GCS struct {
		Bucket string `envconfig:"GCS_BUCKET"`
	}

	Nessie struct {
		BaseURL string `envconfig:"NESSIE_BASE_URL" default:"http://api.nessieisreal.com"`
		APIKey  string `envconfig:"NESSIE_API_KEY"`
	}

	Keystore struct {
		Path       string `envconfig:"KEYSTORE_PATH" default:"cipher.keystore"`
		Passphrase string `envconfig:"KEYSTORE_PASSPHRASE" default:"cipher-local"`
	}

	Biometric struct {
		Helper string `envconfig:"BIOMETRIC_HELPER"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
