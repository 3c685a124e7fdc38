package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/raido/internal/search"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Oracle OracleConfig      `yaml:"oracle"`
	Puzzle PuzzleConfig      `yaml:"puzzle"`
	Seeds  SeedsConfig       `yaml:"seeds"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
	Auth   AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Oracle.Validate(); err != nil {
		return err
	}
	if err := c.Puzzle.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// OracleConfig holds the association oracle (LLM) configuration.
//
// APIKey is usually supplied through the environment: the config loader
// expands ${ORACLE_API_KEY} style references before parsing.
type OracleConfig struct {
	APIKey       string        `yaml:"api_key"`
	Model        string        `yaml:"model"`
	CallBudget   int           `yaml:"call_budget"`
	BudgetWindow time.Duration `yaml:"budget_window"`
}

// Validate validates the oracle configuration. The API key is checked at
// startup rather than here so defaults stay valid without credentials.
func (c *OracleConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Model, validation.Required),
		validation.Field(&c.CallBudget, validation.Required, validation.Min(1)),
	)
}

// PuzzleConfig holds puzzle generation parameters.
type PuzzleConfig struct {
	MinLength      int `yaml:"min_length"`
	MaxDepth       int `yaml:"max_depth"`
	MaxExpansions  int `yaml:"max_expansions"`
	DiversityFloor int `yaml:"diversity_floor"`
	// RegenerateInterval is how often a fresh puzzle is generated in the
	// background. Zero disables the ticker; generation then only happens
	// at startup and on explicit request.
	RegenerateInterval time.Duration `yaml:"regenerate_interval"`
	// ShuffleSeed pins the search rng for reproducible runs. Zero means
	// a fresh seed per round.
	ShuffleSeed int64 `yaml:"shuffle_seed"`
}

// SearchParams converts the puzzle configuration to search parameters.
func (c *PuzzleConfig) SearchParams() search.Params {
	p := search.DefaultParams()
	if c.MinLength > 0 {
		p.MinLength = c.MinLength
	}
	if c.MaxDepth > 0 {
		p.MaxDepth = c.MaxDepth
	}
	if c.MaxExpansions > 0 {
		p.MaxExpansions = c.MaxExpansions
	}
	if c.DiversityFloor > 0 {
		p.DiversityFloor = c.DiversityFloor
	}
	return p
}

// Validate validates the puzzle configuration.
func (c *PuzzleConfig) Validate() error {
	return c.SearchParams().Validate()
}

// SeedsConfig holds the optional seed word list file.
type SeedsConfig struct {
	Path string `yaml:"path"`
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Oracle: OracleConfig{
			Model:        "gpt-4o-mini",
			CallBudget:   200,
			BudgetWindow: 24 * time.Hour,
		},
		Puzzle: PuzzleConfig{
			MinLength:          5,
			MaxDepth:           7,
			MaxExpansions:      60,
			DiversityFloor:     2,
			RegenerateInterval: 24 * time.Hour,
		},
		SQLite: SQLiteConfig{
			Path: "./raido.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
