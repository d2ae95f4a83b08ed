package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is configuration to start the assistant.
type Profile struct {
	// Unified LLM configuration (OpenAI-compatible protocol). All
	// providers use the same config; the key being set enables the
	// language-model collaborator.
	LLMProvider string // Provider identifier: openai, deepseek, ollama
	LLMAPIKey   string
	LLMBaseURL  string // Optional, has default per provider
	LLMModel    string
	LLMTimeout  int // LLM request timeout in seconds (default: 120)

	// Telegram delivery channel. Both values set enables it.
	TelegramBotToken string
	TelegramChatID   int64

	Mode                string
	Addr                string
	Port                int
	Data                string
	Driver              string
	DSN                 string
	Version             string
	IntentsPath         string
	AssistantName       string
	WakeWord            string
	PollIntervalSeconds int
}

// Provider default configurations for the LLM collaborator.
// Used when NATASHA_LLM_BASE_URL is not explicitly set.
var llmProviderDefaults = map[string]struct {
	BaseURL string
	Model   string
}{
	"openai": {
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
	},
	"deepseek": {
		BaseURL: "https://api.deepseek.com",
		Model:   "deepseek-chat",
	},
	"ollama": {
		BaseURL: "http://localhost:11434/v1",
		Model:   "llama3.1",
	},
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsLLMEnabled returns true if an LLM API key is configured.
func (p *Profile) IsLLMEnabled() bool {
	return p.LLMAPIKey != ""
}

// IsTelegramEnabled returns true if the Telegram channel is configured.
func (p *Profile) IsTelegramEnabled() bool {
	return p.TelegramBotToken != "" && p.TelegramChatID != 0
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
func (p *Profile) FromEnv() {
	p.LLMProvider = getEnvOrDefault("NATASHA_LLM_PROVIDER", "openai")
	p.LLMAPIKey = getEnvOrDefault("NATASHA_LLM_API_KEY", "")
	p.LLMBaseURL = getEnvOrDefault("NATASHA_LLM_BASE_URL", "")
	p.LLMModel = getEnvOrDefault("NATASHA_LLM_MODEL", "")
	p.LLMTimeout = getEnvOrDefaultInt("NATASHA_LLM_TIMEOUT_SECONDS", 120)

	if p.LLMProvider != "" {
		if _, ok := llmProviderDefaults[p.LLMProvider]; !ok {
			slog.Warn("unknown LLM provider, using default: openai", "provider", p.LLMProvider)
			p.LLMProvider = "openai"
		}
	}
	if p.LLMBaseURL == "" || p.LLMModel == "" {
		if defaults, ok := llmProviderDefaults[p.LLMProvider]; ok {
			if p.LLMBaseURL == "" {
				p.LLMBaseURL = defaults.BaseURL
			}
			if p.LLMModel == "" {
				p.LLMModel = defaults.Model
			}
		}
	}

	p.TelegramBotToken = getEnvOrDefault("NATASHA_TELEGRAM_BOT_TOKEN", "")
	if chatID, err := strconv.ParseInt(os.Getenv("NATASHA_TELEGRAM_CHAT_ID"), 10, 64); err == nil {
		p.TelegramChatID = chatID
	}

	p.AssistantName = getEnvOrDefault("NATASHA_NAME", p.AssistantName)
	p.WakeWord = getEnvOrDefault("NATASHA_WAKE_WORD", p.WakeWord)
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "natasha")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/natasha"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}
	p.Data = dataDir

	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("natasha_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	if p.IntentsPath == "" {
		p.IntentsPath = filepath.Join(dataDir, "intents.json")
	}
	if p.AssistantName == "" {
		p.AssistantName = "Natasha"
	}
	if p.WakeWord == "" {
		p.WakeWord = strings.ToLower(p.AssistantName)
	}
	if p.PollIntervalSeconds <= 0 {
		p.PollIntervalSeconds = 30
	}

	return nil
}
