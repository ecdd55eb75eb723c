package app

import (
	"context"
	"os"
	"strings"
	"time"

	"interview_hosting/internal/mail"
	"interview_hosting/internal/sheets"
	"interview_hosting/internal/templates"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupEnvironment loads .env file and configures zerolog output and log level.
func SetupEnvironment() {
	// Load .env file if it exists
	err := godotenv.Load()

	// Configure logging
	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	switch levelStr {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case "":
		// Default based on environment
		if os.Getenv("ENV") == "production" {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
	}

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

// GetRequiredEnv fetches a required environment variable or exits if not set.
func GetRequiredEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatal().Msgf("%s environment variable is required", key)
	}
	return value
}

// GetEnvWithDefault fetches an environment variable with a default fallback.
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// InitializeClients loads the workflow settings and returns a Google Sheets
// client bound to the data spreadsheet plus the settings themselves. The
// settings spreadsheet ID comes from the environment; everything else (data
// spreadsheet ID, signatures, message templates) lives in the settings sheet.
func InitializeClients(ctx context.Context) (*sheets.Client, templates.Settings) {
	log.Debug().Msg("Initializing clients")
	settingsSpreadsheetID := GetRequiredEnv("SETTINGS_SPREADSHEET_ID")
	credsFile := GetEnvWithDefault("GOOGLE_CREDENTIALS_FILE", "credentials.json")

	settingsClient, err := sheets.NewClient(ctx, credsFile, settingsSpreadsheetID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create settings sheets client")
	}

	settings, err := templates.Load(ctx, settingsClient)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load workflow settings")
	}

	dataClient, err := sheets.NewClient(ctx, credsFile, settings.DataSpreadsheetID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create data sheets client")
	}

	log.Debug().Msg("Clients initialized successfully")
	return dataClient, settings
}

// InitializeMailClient creates the SMTP transport from environment variables.
func InitializeMailClient() *mail.SMTPClient {
	host := GetRequiredEnv("SMTP_HOST")
	port := GetEnvWithDefault("SMTP_PORT", "587")
	username := GetRequiredEnv("SMTP_USERNAME")
	password := GetRequiredEnv("SMTP_PASSWORD")

	log.Debug().
		Str("host", host).
		Str("port", port).
		Str("username", username).
		Msg("Initializing mail client")

	return mail.NewSMTPClient(host, port, username, password)
}
