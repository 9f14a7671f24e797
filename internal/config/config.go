// Package config manages application configuration from defaults, an optional
// YAML file, and BOT_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the application configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Limits    LimitsConfig    `mapstructure:"limits"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot API credentials.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// LimitsConfig holds name-length caps and the session idle lifetime.
// Per-user content/tag quotas live on the user record, not here.
type LimitsConfig struct {
	ContentNameMaxLen int           `mapstructure:"content_name_max_len" validate:"required,gt=0"`
	TagNameMaxLen     int           `mapstructure:"tag_name_max_len"     validate:"required,gt=0"`
	SessionMaxIdle    time.Duration `mapstructure:"session_max_idle"     validate:"required,min=1m"`
}

// MessagesConfig holds all user-visible bot messages.
type MessagesConfig struct {
	Welcome           string `mapstructure:"welcome"`
	AlreadyRegistered string `mapstructure:"already_registered"`
	UserDeleted       string `mapstructure:"user_deleted"`
	UnknownCommand    string `mapstructure:"unknown_command"`
	GeneralError      string `mapstructure:"general_error"`
	NotFound          string `mapstructure:"not_found"`

	MainMenu    string `mapstructure:"main_menu"`
	ContentMenu string `mapstructure:"content_menu"`
	TagMenu     string `mapstructure:"tag_menu"`

	PromptContentName string `mapstructure:"prompt_content_name"`
	PromptTagName     string `mapstructure:"prompt_tag_name"`
	NameEmpty         string `mapstructure:"name_empty"`
	NameTooLong       string `mapstructure:"name_too_long"` // takes the max length

	ContentQuotaReached string `mapstructure:"content_quota_reached"`
	TagQuotaReached     string `mapstructure:"tag_quota_reached"`

	ContentAdded   string `mapstructure:"content_added"` // takes the content name
	ContentDeleted string `mapstructure:"content_deleted"`
	TagAdded       string `mapstructure:"tag_added"` // takes the tag name
	TagDeleted     string `mapstructure:"tag_deleted"`
	TagAttached    string `mapstructure:"tag_attached"`
	TagDetached    string `mapstructure:"tag_detached"`

	NoContents        string `mapstructure:"no_contents"`
	NoTags            string `mapstructure:"no_tags"`
	SelectContent     string `mapstructure:"select_content"`
	SelectForDeletion string `mapstructure:"select_for_deletion"`
	SelectTagToggle   string `mapstructure:"select_tag_toggle"`
	FilterHeader      string `mapstructure:"filter_header"`
	ContentOptions    string `mapstructure:"content_options"`
}

// TaskConfig enables a named scheduled task and sets its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// LoadConfig loads and validates configuration from:
// 1. Default values
// 2. The YAML file at configPath (optional)
// 3. BOT_* environment variables
func LoadConfig(configPath string) (*Config, error) {
	setDefaults()

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("BOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Allow missing config file; defaults plus env may be enough
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// setDefaults sets default values for optional configuration parameters
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.json", true)

	// Database defaults
	viper.SetDefault("database.path", "listify.db")

	// Limit defaults; the name caps mirror the schema CHECK constraints
	viper.SetDefault("limits.content_name_max_len", 40)
	viper.SetDefault("limits.tag_name_max_len", 20)
	viper.SetDefault("limits.session_max_idle", 24*time.Hour)

	// Scheduler defaults
	viper.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	viper.SetDefault("scheduler.tasks.sql_maintenance.schedule", "0 0 4 * * *")
	viper.SetDefault("scheduler.tasks.session_cleanup.enabled", true)
	viper.SetDefault("scheduler.tasks.session_cleanup.schedule", "0 */30 * * * *")

	// Message defaults
	viper.SetDefault("messages.welcome", "👋 Welcome! Your account is ready.")
	viper.SetDefault("messages.already_registered", "You are already registered.")
	viper.SetDefault("messages.user_deleted", "Your account and all its data have been deleted.")
	viper.SetDefault("messages.unknown_command", "Unknown command.")
	viper.SetDefault("messages.general_error", "❌ An error occurred. Please try again later.")
	viper.SetDefault("messages.not_found", "Not found.")

	viper.SetDefault("messages.main_menu", "You are in the Main Menu. Choose an option:")
	viper.SetDefault("messages.content_menu", "You are in the Content Menu. Choose an option or go back to the main menu.")
	viper.SetDefault("messages.tag_menu", "Your tags:")

	viper.SetDefault("messages.prompt_content_name", "Please enter the name of the content:")
	viper.SetDefault("messages.prompt_tag_name", "Please enter the name of the tag:")
	viper.SetDefault("messages.name_empty", "The name cannot be empty. Please try again:")
	viper.SetDefault("messages.name_too_long", "The name cannot be longer than %d characters. Please try again:")

	viper.SetDefault("messages.content_quota_reached", "You have reached your content limit.")
	viper.SetDefault("messages.tag_quota_reached", "You have reached your tag limit.")

	viper.SetDefault("messages.content_added", "Content '%s' has been added successfully.")
	viper.SetDefault("messages.content_deleted", "Content has been deleted.")
	viper.SetDefault("messages.tag_added", "Tag '%s' has been added successfully.")
	viper.SetDefault("messages.tag_deleted", "Tag has been deleted.")
	viper.SetDefault("messages.tag_attached", "Tag added to content.")
	viper.SetDefault("messages.tag_detached", "Tag removed from content.")

	viper.SetDefault("messages.no_contents", "No contents found.")
	viper.SetDefault("messages.no_tags", "No tags found.")
	viper.SetDefault("messages.select_content", "Select content to manage or go back to the content menu:")
	viper.SetDefault("messages.select_for_deletion", "Select content to delete or go back to the content menu:")
	viper.SetDefault("messages.select_tag_toggle", "Select a tag to add or remove:")
	viper.SetDefault("messages.filter_header", "Toggle tags to filter your contents:")
	viper.SetDefault("messages.content_options", "Choose an option:")
}
