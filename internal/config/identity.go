package config

import (
	"fmt"

	"github.com/caarlos0/env/v9"
)

// Identity is who ran the tool, as the shell reports it.
type Identity struct {
	User     string `env:"USER"`
	Username string `env:"USERNAME"`
}

// LoadIdentity reads the identity from the process environment.
func LoadIdentity() (Identity, error) {
	return LoadIdentityWithEnvironment(nil)
}

// LoadIdentityWithEnvironment reads the identity from environ, or from the
// process environment when environ is nil.
func LoadIdentityWithEnvironment(environ map[string]string) (Identity, error) {
	var id Identity
	if err := env.ParseWithOptions(&id, env.Options{Environment: environ}); err != nil {
		return Identity{}, fmt.Errorf("parsing identity: %w", err)
	}
	return id, nil
}

// Operator returns USER, falling back to USERNAME. It is empty when
// neither is set.
func (id Identity) Operator() string {
	if id.User != "" {
		return id.User
	}
	return id.Username
}
