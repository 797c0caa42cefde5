package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.App.Name != "Cipher" {
		t.Errorf("App.Name = %q, want %q", cfg.App.Name, "Cipher")
	}
	if cfg.App.Port != 8080 {
		t.Errorf("App.Port = %d, want 8080", cfg.App.Port)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("Gemini.Model = %q, want gemini-2.5-flash", cfg.Gemini.Model)
	}
	if cfg.Firestore.Collection != "users" {
		t.Errorf("Firestore.Collection = %q, want users", cfg.Firestore.Collection)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GEMINI_CONCURRENT", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.App.Port != 9090 {
		t.Errorf("App.Port = %d, want 9090", cfg.App.Port)
	}
	if !cfg.Gemini.Concurrent {
		t.Error("Gemini.Concurrent = false, want true")
	}
}

func TestDisguiseConstants(t *testing.T) {
	if DecoyPIN != "0000" {
		t.Errorf("DecoyPIN = %q, want 0000", DecoyPIN)
	}
	if UnlockSequence != "123" {
		t.Errorf("UnlockSequence = %q, want 123", UnlockSequence)
	}
}
