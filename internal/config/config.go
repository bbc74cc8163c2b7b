package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Cfg struct {
	Logger  Logger
	Server  Server
	Browser Browser
	Agent   Agent
}

type Logger struct {
	Env   string
	Level string
	File  string
}

type Server struct {
	Host string
	Port string
}

type Browser struct {
	Headless     bool
	Display      string
	BrowsersPath string
}

// Agent содержит тюнинг пайплайна: таймауты операций, ретраи навигации
// и пауза после действия (settle delay) перед повторным наблюдением.
type Agent struct {
	NavTimeout    time.Duration
	NavRetries    int
	ActionTimeout time.Duration
	SettleDelay   time.Duration
	ScrollStep    int
}

func Load() (*Cfg, error) {
	_ = godotenv.Load()

	cfg := &Cfg{
		Logger: Logger{
			Env:   env("ENV", "dev"),
			Level: env("LOG_LEVEL", "info"),
			File:  env("LOG_FILE", ""),
		},
		Server: Server{
			Host: env("HTTP_HOST", "0.0.0.0"),
			Port: env("HTTP_PORT", "8080"),
		},
		Browser: Browser{
			Headless:     envBool("PW_HEADLESS"),
			Display:      env("DISPLAY", ""),
			BrowsersPath: env("PLAYWRIGHT_BROWSERS_PATH", ""),
		},
		Agent: Agent{
			NavTimeout:    envDuration("NAV_TIMEOUT", 25*time.Second),
			NavRetries:    envInt("NAV_RETRIES", 2),
			ActionTimeout: envDuration("ACTION_TIMEOUT", 5*time.Second),
			SettleDelay:   envDuration("SETTLE_DELAY", 1500*time.Millisecond),
			ScrollStep:    envInt("SCROLL_STEP", 600),
		},
	}

	return cfg, nil
}

func env(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func envInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "true" || v == "1" || v == "yes"
}

func envDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}
