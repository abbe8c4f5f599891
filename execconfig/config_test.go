package execconfig_test

import (
	"errors"
	"testing"

	"eventcore/execconfig"
	"eventcore/execerr"
)

func asConfigError(t *testing.T, err error) *execerr.Error {
	t.Helper()
	var e *execerr.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *execerr.Error, got %v (%T)", err, err)
	}
	return e
}

func TestValidatesMaxRetries(t *testing.T) {
	_, err := execconfig.New().WithMaxRetries(0).Build()
	e := asConfigError(t, err)
	if e.Parameter != "max_retries" {
		t.Errorf("expected parameter max_retries, got %q", e.Parameter)
	}

	_, err = execconfig.New().WithMaxRetries(11).Build()
	e = asConfigError(t, err)
	if e.Parameter != "max_retries" {
		t.Errorf("expected parameter max_retries, got %q", e.Parameter)
	}

	cfg, err := execconfig.New().WithMaxRetries(5).Build()
	if err != nil {
		t.Fatalf("expected valid config, got error: %v", err)
	}
	if cfg.MaxRetries() != 5 {
		t.Errorf("expected max retries 5, got %d", cfg.MaxRetries())
	}
}

func TestValidatesBaseDelay(t *testing.T) {
	_, err := execconfig.New().WithBaseDelayMs(0).Build()
	e := asConfigError(t, err)
	if e.Parameter != "base_delay_ms" {
		t.Errorf("expected parameter base_delay_ms, got %q", e.Parameter)
	}

	_, err = execconfig.New().WithBaseDelayMs(49).Build()
	asConfigError(t, err)

	_, err = execconfig.New().WithBaseDelayMs(5001).Build()
	asConfigError(t, err)

	cfg, err := execconfig.New().WithBaseDelayMs(200).Build()
	if err != nil {
		t.Fatalf("expected valid config, got error: %v", err)
	}
	if cfg.Delay().BaseDelayMs() != 200 {
		t.Errorf("expected base delay 200, got %d", cfg.Delay().BaseDelayMs())
	}
}

func TestValidatesMaxDelay(t *testing.T) {
	_, err := execconfig.New().WithBaseDelayMs(100).WithMaxDelayMs(50).Build()
	e := asConfigError(t, err)
	if e.Parameter != "max_delay_ms" {
		t.Errorf("expected parameter max_delay_ms, got %q", e.Parameter)
	}

	cfg, err := execconfig.New().WithBaseDelayMs(100).WithMaxDelayMs(1000).Build()
	if err != nil {
		t.Fatalf("expected valid config, got error: %v", err)
	}
	if cfg.Delay().MaxDelayMs() != 1000 {
		t.Errorf("expected max delay 1000, got %d", cfg.Delay().MaxDelayMs())
	}
}

func TestDefaultValuesAreValid(t *testing.T) {
	cfg := execconfig.Default()
	if cfg.MaxRetries() != 3 {
		t.Errorf("expected default max retries 3, got %d", cfg.MaxRetries())
	}
	if cfg.Delay().BaseDelayMs() != 100 {
		t.Errorf("expected default base delay 100, got %d", cfg.Delay().BaseDelayMs())
	}
	if cfg.Delay().MaxDelayMs() != 30_000 {
		t.Errorf("expected default max delay 30000, got %d", cfg.Delay().MaxDelayMs())
	}

	if _, err := execconfig.New().WithMaxRetries(cfg.MaxRetries()).Build(); err != nil {
		t.Errorf("re-applying default max retries should round-trip, got %v", err)
	}
	if _, err := execconfig.New().WithBaseDelayMs(cfg.Delay().BaseDelayMs()).Build(); err != nil {
		t.Errorf("re-applying default base delay should round-trip, got %v", err)
	}
}
