// Package kurrentstore adapts eventcore's EventStore port onto KurrentDB
// (the EventStoreDB-compatible backend), via the official gRPC client.
package kurrentstore

import (
	"fmt"
	"os"
	"strconv"

	"eventcore/execerr"
)

// ConnectionSettings describes how to reach a KurrentDB node. Use
// SettingsFromEnv to build one from KURRENT_* variables, or Builder for
// programmatic construction.
type ConnectionSettings struct {
	host     string
	port     uint16
	tls      bool
	username string
	password string
}

// GoString hides the password even when a caller %#v's the settings.
func (s ConnectionSettings) GoString() string {
	return fmt.Sprintf("kurrentstore.ConnectionSettings{host:%q, port:%d, tls:%v, username:%q, password:<redacted>}",
		s.host, s.port, s.tls, s.username)
}

func (s ConnectionSettings) String() string {
	return s.GoString()
}

// ConnectionString renders the esdb:// URI the official client parses.
func (s ConnectionSettings) ConnectionString() string {
	return fmt.Sprintf("esdb://%s:%s@%s:%d?tls=%v", s.username, s.password, s.host, s.port, s.tls)
}

// SettingsFromEnv reads KURRENT_HOST, KURRENT_PORT, KURRENT_TLS,
// KURRENT_USERNAME and KURRENT_PASSWORD, defaulting host/port/username/tls
// like the Builder does. KURRENT_PASSWORD is required.
func SettingsFromEnv() (ConnectionSettings, error) {
	b := NewSettingsBuilder()

	if host := os.Getenv("KURRENT_HOST"); host != "" {
		b = b.Host(host)
	}
	if portStr := os.Getenv("KURRENT_PORT"); portStr != "" {
		if port, err := strconv.ParseUint(portStr, 10, 16); err == nil {
			b = b.Port(uint16(port))
		}
	}
	if tlsStr := os.Getenv("KURRENT_TLS"); tlsStr != "" {
		if tls, err := strconv.ParseBool(tlsStr); err == nil {
			b = b.TLS(tls)
		}
	}
	if username := os.Getenv("KURRENT_USERNAME"); username != "" {
		b = b.Username(username)
	}

	password, ok := os.LookupEnv("KURRENT_PASSWORD")
	if !ok {
		return ConnectionSettings{}, execerr.InvalidConfig("KURRENT_PASSWORD environment variable is required", "password")
	}
	b = b.Password(password)

	return b.Build()
}

// SettingsBuilder constructs a ConnectionSettings with the same defaults
// (localhost:2113, admin, no TLS) used by SettingsFromEnv.
type SettingsBuilder struct {
	host     string
	port     uint16
	tls      bool
	username string
	password string
	hasPass  bool
}

// NewSettingsBuilder returns a builder pre-populated with connection defaults.
func NewSettingsBuilder() *SettingsBuilder {
	return &SettingsBuilder{
		host:     "localhost",
		port:     2113,
		username: "admin",
	}
}

func (b *SettingsBuilder) Host(host string) *SettingsBuilder {
	b.host = host
	return b
}

func (b *SettingsBuilder) Port(port uint16) *SettingsBuilder {
	b.port = port
	return b
}

func (b *SettingsBuilder) TLS(enable bool) *SettingsBuilder {
	b.tls = enable
	return b
}

func (b *SettingsBuilder) Username(username string) *SettingsBuilder {
	b.username = username
	return b
}

func (b *SettingsBuilder) Password(password string) *SettingsBuilder {
	b.password = password
	b.hasPass = true
	return b
}

// Build validates the settings, requiring a password the same way
// SettingsFromEnv does.
func (b *SettingsBuilder) Build() (ConnectionSettings, error) {
	if !b.hasPass {
		return ConnectionSettings{}, execerr.InvalidConfig("password is required", "password")
	}
	return ConnectionSettings{
		host:     b.host,
		port:     b.port,
		tls:      b.tls,
		username: b.username,
		password: b.password,
	}, nil
}
