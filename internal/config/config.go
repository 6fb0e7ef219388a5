package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// TMDB
	TMDBAPIKey  string
	TMDBBaseURL string // overridable for tests

	// Appwrite
	AppwriteEndpoint     string
	AppwriteProjectID    string
	AppwriteDatabaseID   string
	UsersCollectionID    string
	WatchlistCollection  string
	SearchesCollectionID string
	StorageBucketID      string

	// Browsing preferences
	Language     string // e.g. "en-US"
	Region       string // e.g. "US"
	IncludeAdult bool

	// Server
	ServerPort string

	// Paths
	SessionFile string // $CONFIG_DIR/session.json
	CacheFile   string // $CONFIG_DIR/mediadex.db

	// Logging
	LogLevel  string
	LogFormat string // "text" or "json"
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	// Set defaults
	viper.SetDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3")
	viper.SetDefault("LANGUAGE", "en-US")
	viper.SetDefault("REGION", "US")
	viper.SetDefault("INCLUDE_ADULT", false)
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "mediadex")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		// TMDB
		TMDBAPIKey:  viper.GetString("TMDB_API_KEY"),
		TMDBBaseURL: viper.GetString("TMDB_BASE_URL"),

		// Appwrite
		AppwriteEndpoint:     viper.GetString("APPWRITE_ENDPOINT"),
		AppwriteProjectID:    viper.GetString("APPWRITE_PROJECT_ID"),
		AppwriteDatabaseID:   viper.GetString("APPWRITE_DATABASE_ID"),
		UsersCollectionID:    viper.GetString("APPWRITE_USERS_COLLECTION_ID"),
		WatchlistCollection:  viper.GetString("APPWRITE_WATCHLIST_COLLECTION_ID"),
		SearchesCollectionID: viper.GetString("APPWRITE_SEARCHES_COLLECTION_ID"),
		StorageBucketID:      viper.GetString("APPWRITE_STORAGE_ID"),

		// Browsing preferences
		Language:     viper.GetString("LANGUAGE"),
		Region:       viper.GetString("REGION"),
		IncludeAdult: viper.GetBool("INCLUDE_ADULT"),

		// Server
		ServerPort: viper.GetString("SERVER_PORT"),

		// Paths
		SessionFile: filepath.Join(configDir, "session.json"),
		CacheFile:   filepath.Join(configDir, "mediadex.db"),

		// Logging
		LogLevel:  viper.GetString("LOG_LEVEL"),
		LogFormat: viper.GetString("LOG_FORMAT"),
	}

	// Validate required fields
	if config.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB_API_KEY is required")
	}
	if config.AppwriteEndpoint == "" {
		return nil, fmt.Errorf("APPWRITE_ENDPOINT is required")
	}
	if config.AppwriteProjectID == "" {
		return nil, fmt.Errorf("APPWRITE_PROJECT_ID is required")
	}
	if config.AppwriteDatabaseID == "" {
		return nil, fmt.Errorf("APPWRITE_DATABASE_ID is required")
	}
	if config.WatchlistCollection == "" {
		return nil, fmt.Errorf("APPWRITE_WATCHLIST_COLLECTION_ID is required")
	}
	if config.SearchesCollectionID == "" {
		return nil, fmt.Errorf("APPWRITE_SEARCHES_COLLECTION_ID is required")
	}

	return config, nil
}
