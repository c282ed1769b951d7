package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botnanny/internal/helper"
	"botnanny/internal/models"
)

func writeConfig(t *testing.T, body string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "configs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "test.toml"), []byte(body), 0o644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv(configFilePathENV, "test.toml")
}

const minimalConfig = `
[three_commas]
api_key = "k"
api_secret = "s"
bot_ids = [10]
`

func TestNewConfigDefaults(t *testing.T) {
	writeConfig(t, minimalConfig)

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, 600, cfg.IntervalSeconds)
	assert.Equal(t, 3, cfg.MaxFailedCycles)
	assert.Equal(t, ":8080", cfg.Health.Addr)

	// правило по умолчанию: 4% -> 1%
	rs := cfg.RuleSet()
	require.Len(t, rs, 1)
	assert.True(t, rs[0].MinPnlPercent.Equal(helper.Percent(4.0)))
	assert.True(t, rs[0].NewStopLossPercent.Equal(helper.Percent(1.0)))
}

func TestNewConfigRulesAndTargets(t *testing.T) {
	writeConfig(t, `
interval_seconds = 120

[[rules]]
min_pnl_percent = 4.0
new_stop_loss_percent = 1.0

[[rules]]
min_pnl_percent = 7.0
new_stop_loss_percent = 4.0

[three_commas]
api_key = "k"
api_secret = "s"
account_ids = [100]
bot_ids = [10, 11]
deal_ids = [5]
`)

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Len(t, cfg.RuleSet(), 2)

	ts := cfg.Targets()
	require.Len(t, ts, 4)
	assert.Equal(t, models.Target{Kind: models.TargetAccount, ID: 100}, ts[0])
	assert.Equal(t, models.Target{Kind: models.TargetDeal, ID: 5}, ts[3])
}

func TestNewConfigEnvOverridesSecrets(t *testing.T) {
	writeConfig(t, minimalConfig)
	t.Setenv(apiKeyENV, "env-key")
	t.Setenv(apiSecretENV, "env-secret")
	t.Setenv(tgTokenENV, "tok")
	t.Setenv(tgChatENV, "123456")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.ThreeCommas.APIKey)
	assert.Equal(t, "env-secret", cfg.ThreeCommas.APISecret)
	assert.Equal(t, "tok", cfg.Telegram.BotToken)
	assert.Equal(t, int64(123456), cfg.Telegram.ChatID)
}

func TestNewConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"no credentials", `
[three_commas]
bot_ids = [10]
`},
		{"no targets", `
[three_commas]
api_key = "k"
api_secret = "s"
`},
		{"interval too small", `
interval_seconds = 5

[three_commas]
api_key = "k"
api_secret = "s"
bot_ids = [10]
`},
		{"stop loss above threshold", `
[[rules]]
min_pnl_percent = 4.0
new_stop_loss_percent = 5.0

[three_commas]
api_key = "k"
api_secret = "s"
bot_ids = [10]
`},
		{"duplicate rule", `
[[rules]]
min_pnl_percent = 4.0
new_stop_loss_percent = 1.0

[[rules]]
min_pnl_percent = 4.0
new_stop_loss_percent = 2.0

[three_commas]
api_key = "k"
api_secret = "s"
bot_ids = [10]
`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			writeConfig(t, tc.body)
			_, err := NewConfig()
			assert.Error(t, err)
		})
	}
}
