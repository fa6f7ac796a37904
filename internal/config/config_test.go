package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allVars = []string{
	"PRESENTE_DB", "PRESENTE_TIMEZONE", "PRESENTE_REMIND_SCHEDULE",
	"PRESENTE_LLM_PROVIDER", "API_KEY", "OPENAI_API_KEY", "PRESENTE_LLM_BASE_URL",
	"PRESENTE_LLM_MODEL", "PRESENTE_LLM_TIMEOUT", "YANDEX_OAUTH_TOKEN", "YANDEX_FOLDER_ID",
}

// clearEnv unsets every variable Config reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range allVars {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestParse_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "presente.db", cfg.DBPath)
	assert.Equal(t, "0 9 * * *", cfg.RemindSchedule)
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, 10*time.Second, cfg.LLM.Timeout)
	assert.Empty(t, cfg.LLM.Key())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestParse_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PRESENTE_DB", "/tmp/j.db")
	t.Setenv("PRESENTE_TIMEZONE", "America/Mexico_City")
	t.Setenv("PRESENTE_LLM_PROVIDER", "yandex")
	t.Setenv("PRESENTE_LLM_TIMEOUT", "3s")
	t.Setenv("YANDEX_FOLDER_ID", "folder")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/j.db", cfg.DBPath)
	assert.Equal(t, ProviderYandex, cfg.LLM.Provider)
	assert.Equal(t, 3*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "folder", cfg.LLM.YandexFolderID)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Mexico_City", loc.String())
}

func TestParse_InvalidTimezone(t *testing.T) {
	clearEnv(t)
	t.Setenv("PRESENTE_TIMEZONE", "Mars/Olympus")

	_, err := Parse()
	assert.Error(t, err)
}

func TestLLMKeyPrecedence(t *testing.T) {
	assert.Equal(t, "a", LLM{APIKey: "a", OpenAIAPIKey: "b"}.Key())
	assert.Equal(t, "b", LLM{OpenAIAPIKey: "b"}.Key())
}

func TestLoad_DotenvDoesNotOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PRESENTE_DB=from-dotenv.db\nPRESENTE_LLM_MODEL=gemini-x\n"), 0o600))
	t.Setenv("PRESENTE_DB", "from-env.db")
	t.Cleanup(func() { os.Unsetenv("PRESENTE_LLM_MODEL") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.db", cfg.DBPath)
	assert.Equal(t, "gemini-x", cfg.LLM.Model)
}

func TestLoad_MissingDotenvIsFine(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}
