package profile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate_Defaults(t *testing.T) {
	dir := t.TempDir()
	p := &Profile{Mode: "dev", Driver: "sqlite", Data: dir}

	require.NoError(t, p.Validate())
	require.Equal(t, filepath.Join(dir, "natasha_dev.db"), p.DSN)
	require.Equal(t, filepath.Join(dir, "intents.json"), p.IntentsPath)
	require.Equal(t, "Natasha", p.AssistantName)
	require.Equal(t, "natasha", p.WakeWord)
	require.Equal(t, 30, p.PollIntervalSeconds)
}

func TestValidate_UnknownModeFallsBackToDemo(t *testing.T) {
	p := &Profile{Mode: "staging", Driver: "sqlite", Data: t.TempDir()}
	require.NoError(t, p.Validate())
	require.Equal(t, "demo", p.Mode)
}

func TestValidate_CustomDSNKept(t *testing.T) {
	p := &Profile{Mode: "dev", Driver: "postgres", Data: t.TempDir(), DSN: "postgres://localhost/natasha"}
	require.NoError(t, p.Validate())
	require.Equal(t, "postgres://localhost/natasha", p.DSN)
}

func TestValidate_MissingDataDir(t *testing.T) {
	p := &Profile{Mode: "dev", Driver: "sqlite", Data: "/definitely/not/a/real/dir"}
	require.Error(t, p.Validate())
}

func TestFromEnv_LLMProviderDefaults(t *testing.T) {
	t.Setenv("NATASHA_LLM_PROVIDER", "deepseek")
	t.Setenv("NATASHA_LLM_API_KEY", "sk-test")
	t.Setenv("NATASHA_LLM_BASE_URL", "")
	t.Setenv("NATASHA_LLM_MODEL", "")

	p := &Profile{}
	p.FromEnv()
	require.Equal(t, "https://api.deepseek.com", p.LLMBaseURL)
	require.Equal(t, "deepseek-chat", p.LLMModel)
	require.True(t, p.IsLLMEnabled())
}

func TestFromEnv_UnknownProviderFallsBack(t *testing.T) {
	t.Setenv("NATASHA_LLM_PROVIDER", "quantumai")

	p := &Profile{}
	p.FromEnv()
	require.Equal(t, "openai", p.LLMProvider)
}

func TestIsTelegramEnabled(t *testing.T) {
	p := &Profile{TelegramBotToken: "123:abc"}
	require.False(t, p.IsTelegramEnabled())
	p.TelegramChatID = 42
	require.True(t, p.IsTelegramEnabled())
}
