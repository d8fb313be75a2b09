package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoginMode is how the client authenticates with Telegram.
type LoginMode int

const (
	LoginNone LoginMode = iota
	LoginBot
	LoginPhone
)

// String returns the env var the mode is selected by.
func (m LoginMode) String() string {
	switch m {
	case LoginBot:
		return "BOT_TOKEN"
	case LoginPhone:
		return "PHONE"
	default:
		return "BOT_TOKEN|PHONE"
	}
}

// EnvValidator checks the environment before the configuration is parsed
type EnvValidator struct{}

// NewEnvValidator creates a new environment validator instance
func NewEnvValidator() *EnvValidator {
	return &EnvValidator{}
}

// ValidateRequired checks credentials and the list-valued listener options.
// A bot token takes precedence over a phone number.
func (e *EnvValidator) ValidateRequired() error {
	var missingVars []string
	if e.LoginMode() == LoginNone {
		missingVars = append(missingVars, LoginNone.String())
	}
	for _, varName := range []string{"API_ID", "API_HASH"} {
		if os.Getenv(varName) == "" {
			missingVars = append(missingVars, varName)
		}
	}
	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %v. Please set these variables in your .env file or environment", missingVars)
	}

	if _, _, err := e.GetAPICredentials(); err != nil {
		return fmt.Errorf("invalid API_ID: %w", err)
	}
	if e.LoginMode() == LoginPhone {
		if err := validatePhone(os.Getenv("PHONE")); err != nil {
			return err
		}
	}
	if _, err := e.GetBotAdmins(); err != nil {
		return err
	}
	return nil
}

// LoginMode reports which credential is configured.
func (e *EnvValidator) LoginMode() LoginMode {
	switch {
	case strings.TrimSpace(os.Getenv("BOT_TOKEN")) != "":
		return LoginBot
	case strings.TrimSpace(os.Getenv("PHONE")) != "":
		return LoginPhone
	default:
		return LoginNone
	}
}

// GetBotAdmins parses BOT_ADMINS, a comma separated list of user ids.
func (e *EnvValidator) GetBotAdmins() ([]int64, error) {
	raw := os.Getenv("BOT_ADMINS")
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid BOT_ADMINS entry %q: must be a positive user id", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// GetAPICredentials returns the API ID and API Hash from environment variables
// Returns an error if API_ID cannot be converted to integer
func (e *EnvValidator) GetAPICredentials() (apiID int, apiHash string, err error) {
	apiIDStr := os.Getenv("API_ID")
	apiHash = os.Getenv("API_HASH")

	if apiIDStr == "" {
		return 0, "", fmt.Errorf("API_ID environment variable is not set")
	}
	if apiHash == "" {
		return 0, "", fmt.Errorf("API_HASH environment variable is not set")
	}

	apiID, err = strconv.Atoi(apiIDStr)
	if err != nil {
		return 0, "", fmt.Errorf("API_ID must be a valid integer, got: %s", apiIDStr)
	}
	return apiID, apiHash, nil
}

// validatePhone accepts international numbers: a leading + and 7 to 15 digits.
func validatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	digits := strings.TrimPrefix(phone, "+")
	if digits == phone || len(digits) < 7 || len(digits) > 15 {
		return fmt.Errorf("invalid PHONE %q: expected international format like +15550001111", phone)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return fmt.Errorf("invalid PHONE %q: expected international format like +15550001111", phone)
		}
	}
	return nil
}
