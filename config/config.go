package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"go-pager-bot/listener"
)

// BotConfig holds all configuration values for the bot
type BotConfig struct {
	Token       string `env:"BOT_TOKEN"`                              // Telegram bot token (bot account)
	Phone       string `env:"PHONE"`                                  // Phone number (self account)
	APIID       int    `env:"API_ID"`                                 // Telegram API ID
	APIHash     string `env:"API_HASH"`                               // Telegram API Hash
	LogLevel    string `env:"LOG_LEVEL" envDefault:"INFO"`            // Logging level (DEBUG, INFO, WARN, ERROR, FATAL)
	LogFile     string `env:"LOG_FILE"`                               // Optional rotating log file
	SessionPath string `env:"SESSION_PATH" envDefault:"bot_session.db"` // sqlite session database
	AnalyticsDB string `env:"ANALYTICS_DB"`                           // sqlite analytics database, empty disables it
	ReportDir   string `env:"REPORT_DIR"`                             // directory for error reports, empty sends them to Saved Messages
	Language    string `env:"LANGUAGE" envDefault:"en"`               // language of user-facing strings

	Listener ListenerConfig
}

// ListenerConfig holds the options read by the command listener
type ListenerConfig struct {
	AllowAnalytic   string            `env:"ALLOW_ANALYTIC"`
	ErrorReport     string            `env:"ERROR_REPORT"`
	BotAdmins       []int64           // BOT_ADMINS, parsed by EnvValidator.GetBotAdmins
	DisabledCmd     []string          `env:"DISABLED_CMD" envSeparator:","`
	CommandAlias    map[string]string `env:"COMMAND_ALIAS" envSeparator:"," envKeyValSeparator:":"`
	UserBot         string            `env:"USER_BOT"`
	AnalyticsUserID int64             `env:"ANALYTICS_USER_ID"`
	ReportBurst     int               `env:"REPORT_BURST" envDefault:"3"`
	ReportEvery     time.Duration     `env:"REPORT_EVERY" envDefault:"1m"`
}

// LoadConfig loads and validates the bot configuration from environment variables
// Returns a BotConfig struct or an error if validation fails
func LoadConfig() (*BotConfig, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	validator := NewEnvValidator()
	if err := validator.ValidateRequired(); err != nil {
		return nil, fmt.Errorf("environment validation failed: %w", err)
	}

	return parseConfig()
}

// LoadLocalConfig loads the configuration without requiring Telegram
// credentials, for commands that never connect.
func LoadLocalConfig() (*BotConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: .env file could not be loaded: %v", err)
	}
	return parseConfig()
}

func parseConfig() (*BotConfig, error) {
	config := &BotConfig{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	admins, err := NewEnvValidator().GetBotAdmins()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	config.Listener.BotAdmins = admins
	config.LogLevel = strings.ToUpper(config.LogLevel)

	return config, nil
}

// Validate performs additional validation on the loaded configuration
func (c *BotConfig) Validate() error {
	if c.Token == "" && c.Phone == "" {
		return fmt.Errorf("either bot token or phone must be set")
	}

	if c.APIID <= 0 {
		return fmt.Errorf("API ID must be a positive integer, got: %d", c.APIID)
	}

	if c.APIHash == "" {
		return fmt.Errorf("API hash cannot be empty")
	}

	validLogLevels := map[string]bool{
		"DEBUG": true,
		"INFO":  true,
		"WARN":  true,
		"ERROR": true,
		"FATAL": true,
	}

	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s. Valid levels are: DEBUG, INFO, WARN, ERROR, FATAL", c.LogLevel)
	}

	if c.Listener.ReportBurst < 0 {
		return fmt.Errorf("report burst cannot be negative, got: %d", c.Listener.ReportBurst)
	}

	return nil
}

// IsBot reports whether the client logs in as a bot account
func (c *BotConfig) IsBot() bool {
	return c.Token != ""
}

// Settings converts the listener options into listener settings.
// Boolean-like strings follow strtobool: analytics default on, error reports default off.
func (c *ListenerConfig) Settings() listener.Settings {
	disabled := make([]string, 0, len(c.DisabledCmd))
	for _, cmd := range c.DisabledCmd {
		if cmd = strings.ToLower(strings.TrimSpace(cmd)); cmd != "" {
			disabled = append(disabled, cmd)
		}
	}

	aliases := make(map[string]string, len(c.CommandAlias))
	for cmd, alias := range c.CommandAlias {
		aliases[strings.TrimSpace(cmd)] = strings.TrimSpace(alias)
	}

	return listener.Settings{
		AllowAnalytics:   ParseBool(c.AllowAnalytic, true),
		ErrorReport:      ParseBool(c.ErrorReport, false),
		BotAdmins:        c.BotAdmins,
		DisabledCommands: disabled,
		CommandAlias:     aliases,
		UserBot:          strings.TrimPrefix(strings.TrimSpace(c.UserBot), "@"),
		FallbackUserID:   c.AnalyticsUserID,
	}
}

// ParseBool parses a boolean-like string the way strtobool does.
// Empty or unrecognized values return def.
func ParseBool(value string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "y", "yes", "t", "true", "on", "1":
		return true
	case "n", "no", "f", "false", "off", "0":
		return false
	default:
		return def
	}
}
