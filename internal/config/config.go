package config

// Config holds all application configuration.
// It is constructed once by Load at process start and treated as immutable
// afterward.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	API      APIConfig      `mapstructure:"api"      validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// RequestTimeoutMillis is applied as the read/idle timeout of the
	// underlying listener. There is no finer-grained per-request deadline.
	RequestTimeoutMillis int `mapstructure:"request_timeout_ms" validate:"gte=0"`
}

// DatabaseConfig contains all document-store related settings.
// URL may be empty: the server then serves non-persistent routes only and
// the persistence lifecycle manager logs an error instead of connecting.
type DatabaseConfig struct {
	URL  string `mapstructure:"url"`
	Name string `mapstructure:"name" validate:"required"`
}

// APIConfig locates the API contract document used to validate traffic.
type APIConfig struct {
	SpecPath string `mapstructure:"spec_path" validate:"required"`
}
