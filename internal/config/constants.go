package config

import "time"

// Backend routes.
const (
	RouteRandomAddress  = "/api/fancy/random"
	RouteCreateContract = "/api/contract/new"
)

// DefaultNetworks is the deployable network list used when the config has none.
var DefaultNetworks = []string{"holesky", "amoy"}

// Timeout returns the per-request HTTP timeout.
func (c *Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return defaultTimeout * time.Second
	}
	return time.Duration(c.RequestTimeout) * time.Second
}
