package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvOnly(t *testing.T) {
	t.Setenv("APP__NAME", "profile")
	t.Setenv("APP__PORT", "3000")
	t.Setenv("BRIDGE__TIMEOUT_MS", "1500")
	t.Setenv("DISCOUNT__TICKETS", "VIP,SPRING")
	t.Setenv("TELEMETRY__TRACE__SAMPLE_RATIO", "0.25")

	conf, err := Load(Source{})
	require.NoError(t, err)
	assert.Equal(t, "profile", conf.App.Name)
	assert.EqualValues(t, 3000, conf.App.Port)
	assert.EqualValues(t, 1500, conf.Bridge.TimeoutMs)
	assert.Equal(t, []string{"VIP", "SPRING"}, conf.Discount.Tickets)
	assert.InDelta(t, 0.25, conf.Telemetry.Trace.SampleRatio, 1e-9)
}

func TestLoadEnvFileIsOverriddenByEnvironment(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(file, []byte("REDIS__HOST=cache\nREDIS__PORT=6380\nPEER__PERSON_CHANNEL=person\n"), 0o600))
	t.Setenv("REDIS__HOST", "override")

	conf, err := Load(Source{RootPath: dir, EnvFile: "test.env"})
	require.NoError(t, err)
	assert.Equal(t, "override", conf.Redis.Host)
	assert.Equal(t, 6380, conf.Redis.Port)
	assert.Equal(t, "person", conf.Peer.PersonChannel)
}

func TestLoadYamlFromConfDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "conf"), 0o755))
	yaml := "CRON:\n  REFRESH_SPEC: \"0 0 4 * * *\"\nPOSTGRES:\n  HOST: db\n  DATABASE: profile\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "conf", "local.yaml"), []byte(yaml), 0o600))

	conf, err := Load(Source{RootPath: dir, YamlFile: "local.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "0 0 4 * * *", conf.Cron.RefreshSpec)
	assert.Equal(t, "db", conf.Postgres.Host)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(Source{RootPath: t.TempDir(), EnvFile: "missing.env"})
	assert.Error(t, err)
}
