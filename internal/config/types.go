package config

// Config holds all w3deploy configuration.
type Config struct {
	BackendURL     string   `json:"backend_url"`
	DefaultNetwork string   `json:"default_network"`
	Networks       []string `json:"networks"`
	RequestTimeout int      `json:"request_timeout"` // seconds

	// internal: config dir path used for Save()
	configDir string
}
