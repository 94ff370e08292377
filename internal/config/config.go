package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ServerConfig holds configuration for the screenshot service.
type ServerConfig struct {
	// CDP connection settings
	CDPAddress string
	CDPPort    int

	// Browser launch settings
	ProfileDir string
	Headless   bool
	NoSandbox  bool

	// Storage settings
	DataDir string

	// HTTP bind settings
	BindAddr       string
	PortCandidates []string
	AutoFallback   bool

	// Capture behavior
	CaptureTimeoutSec int
	SettleDelayMS     int

	// Logging
	LogLevel string
	LogFile  string
}

// ClientConfig holds configuration for the gallery client.
type ClientConfig struct {
	APIBaseURL string
	LogFile    string
}

// LoadServer reads service configuration from environment variables and an
// optional .env file.
func LoadServer() (*ServerConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	cfg := &ServerConfig{
		CDPAddress:        getEnvOrDefault("CHROMIUM_CDP_ADDRESS", "127.0.0.1"),
		CDPPort:           getEnvIntOrDefault("CHROMIUM_CDP_PORT", 9222),
		ProfileDir:        getEnvOrDefault("SITESNAP_PROFILE_DIR", ""),
		Headless:          getEnvBoolOrDefault("SITESNAP_HEADLESS", true),
		NoSandbox:         getEnvBoolOrDefault("SITESNAP_NO_SANDBOX", false),
		DataDir:           getEnvOrDefault("SITESNAP_DATA_DIR", "./data"),
		BindAddr:          getEnvOrDefault("SITESNAP_BIND_ADDR", "127.0.0.1:8000"),
		AutoFallback:      getEnvBoolOrDefault("SITESNAP_BIND_AUTO_FALLBACK", true),
		CaptureTimeoutSec: getEnvIntOrDefault("SITESNAP_CAPTURE_TIMEOUT_SEC", 60),
		SettleDelayMS:     getEnvIntOrDefault("SITESNAP_SETTLE_DELAY_MS", 500),
		LogLevel:          strings.ToLower(getEnvOrDefault("SITESNAP_LOG_LEVEL", "info")),
		LogFile:           getEnvOrDefault("SITESNAP_LOG_FILE", "logs/sitesnap_server.log"),
	}
	cfg.PortCandidates = splitAddrs(getEnvOrDefault("SITESNAP_BIND_CANDIDATES", "127.0.0.1:8001,127.0.0.1:8002,127.0.0.1:8003"))
	if cfg.CaptureTimeoutSec < 1 {
		cfg.CaptureTimeoutSec = 1
	}
	return cfg, nil
}

// LoadClient reads gallery client configuration from environment variables and
// an optional .env file.
func LoadClient() (*ClientConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}
	return &ClientConfig{
		APIBaseURL: getEnvOrDefault("SITESNAP_API_BASE_URL", "http://127.0.0.1:8000"),
		LogFile:    getEnvOrDefault("SITESNAP_CLIENT_LOG_FILE", "logs/sitesnap_client.log"),
	}, nil
}

// CDPURL returns the browser debugging endpoint used by the capture engine.
func (c *ServerConfig) CDPURL() string {
	return fmt.Sprintf("http://%s:%d", c.CDPAddress, c.CDPPort)
}

func splitAddrs(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
