package cli

import (
	"testing"
	"time"

	"github.com/ppiankov/staycheck/internal/model"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDefaults_EnvOverridesNestedKeys(t *testing.T) {
	t.Setenv("STAYCHECK_LLM_MODEL", "gpt-4o-mini")
	t.Setenv("STAYCHECK_CORRECTION_MAX_ATTEMPTS", "5")
	t.Setenv("STAYCHECK_SESSION_TTL", "30m")
	t.Setenv("STAYCHECK_HOTELS_API_KEY", "serp-secret")

	v := viper.New()
	v.SetEnvPrefix("STAYCHECK")
	v.SetEnvKeyReplacer(envReplacer())
	v.AutomaticEnv()
	require.NoError(t, registerDefaults(v, model.DefaultConfig()))

	cfg := model.DefaultConfig()
	require.NoError(t, v.Unmarshal(&cfg))

	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 5, cfg.Correction.MaxAttempts)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "serp-secret", cfg.Hotels.APIKey)

	// Untouched keys keep their defaults
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, model.DefaultHistoryLimit, cfg.Correction.HistoryLimit)
}

func TestApplyProviderEnv(t *testing.T) {
	env := map[string]string{
		envOpenAIKey:     "sk-openai",
		envAnthropicKey:  "sk-ant",
		envSerpAPIKey:    "serp",
		envOllamaBaseURL: "http://gpu-box:11434",
	}
	getenv := func(k string) string { return env[k] }

	tests := []struct {
		name        string
		provider    string
		apiKey      string
		wantKey     string
		wantBaseURL string
	}{
		{name: "openai", provider: "openai", wantKey: "sk-openai"},
		{name: "anthropic", provider: "anthropic", wantKey: "sk-ant"},
		{name: "claude alias", provider: "claude", wantKey: "sk-ant"},
		{name: "ollama", provider: "ollama", wantBaseURL: "http://gpu-box:11434"},
		{name: "explicit key wins", provider: "openai", apiKey: "from-config", wantKey: "from-config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := model.DefaultConfig()
			cfg.LLM.Provider = tt.provider
			cfg.LLM.APIKey = tt.apiKey

			applyProviderEnv(&cfg, getenv)

			assert.Equal(t, tt.wantKey, cfg.LLM.APIKey)
			assert.Equal(t, tt.wantBaseURL, cfg.LLM.BaseURL)
			assert.Equal(t, "serp", cfg.Hotels.APIKey)
		})
	}
}

func TestFlatten(t *testing.T) {
	got := flatten("", map[string]interface{}{
		"llm": map[string]interface{}{"provider": "openai", "timeout": 30},
		"top": true,
	})
	assert.Equal(t, map[string]interface{}{
		"llm.provider": "openai",
		"llm.timeout":  30,
		"top":          true,
	}, got)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", mask(""))
	assert.Equal(t, "****", mask("short"))
	assert.Equal(t, "sk-a****", mask("sk-abcdefghijkl"))
}
