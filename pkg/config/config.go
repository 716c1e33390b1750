package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	GitHub    GitHubConfig
	Session   SessionConfig
	Whitelist WhitelistConfig
	Hooks     HooksConfig
}

type ServerConfig struct {
	Port    string
	BaseURL string
}

type DatabaseConfig struct {
	Path string
}

type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

type SessionConfig struct {
	SessionHours   int
	StateMinutes   int
	CleanupMinutes int
}

type WhitelistConfig struct {
	BlogIDs  []string
	BlogURLs []string
	Admins   []string
}

type HooksConfig struct {
	OnCommentCmds []string
}

var AppConfig *Config

// Load loads configuration from .env file and environment variables
func Load() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			BaseURL: getEnv("BASE_URL", "http://localhost:8080"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./commentbox.db"),
		},
		GitHub: GitHubConfig{
			ClientID:     getEnv("GITHUB_CLIENT_ID", ""),
			ClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
			CallbackURL:  getEnv("GITHUB_CALLBACK_URL", ""),
		},
		Session: SessionConfig{
			SessionHours:   getEnvAsInt("SESSION_HOURS", 24),
			StateMinutes:   getEnvAsInt("STATE_MINUTES", 60),
			CleanupMinutes: getEnvAsInt("CLEANUP_MINUTES", 30),
		},
		Whitelist: WhitelistConfig{
			BlogIDs:  getEnvAsList("ALLOWED_BLOG_IDS"),
			BlogURLs: getEnvAsList("ALLOWED_BLOG_URLS"),
			Admins:   getEnvAsList("ADMIN_USERS"),
		},
		Hooks: HooksConfig{
			OnCommentCmds: getEnvAsList("ON_COMMENT_CMDS"),
		},
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsList gets a comma-separated environment variable as a string slice.
// Empty entries are dropped, so trailing commas are harmless.
func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
