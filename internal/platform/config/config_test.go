package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 2.0, cfg.ColdChain.MinTempC)
	assert.Equal(t, 8.0, cfg.ColdChain.MaxTempC)
	assert.Equal(t, "0 2 * * *", cfg.Recompute.Cron)
	assert.Equal(t, 10, cfg.Stock.DefaultReorderLevel)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"nurse", "supervisor", "district_officer"}, cfg.Auth.Roles)
	require.NoError(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("VAXTRACK_ADDR", ":9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("DASHBOARD_CACHE_TTL", "30s")
	t.Setenv("COLDCHAIN_MAX_TEMP_C", "7.5")
	t.Setenv("RECOMPUTE_ENABLED", "false")
	t.Setenv("STOCK_DEFAULT_REORDER_LEVEL", "not-a-number")
	t.Setenv("AUTH_ROLES", "nurse")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30*time.Second, cfg.Report.DashboardCacheTTL)
	assert.Equal(t, 7.5, cfg.ColdChain.MaxTempC)
	assert.False(t, cfg.Recompute.Enabled)
	assert.Equal(t, 10, cfg.Stock.DefaultReorderLevel, "unparsable values fall back")
	assert.Equal(t, []string{"nurse"}, cfg.Auth.Roles)
}

func TestValidate(t *testing.T) {
	t.Run("inverted cold chain band", func(t *testing.T) {
		cfg := FromEnv()
		cfg.ColdChain.MinTempC = 9
		assert.ErrorContains(t, cfg.Validate(), "COLDCHAIN_MIN_TEMP_C")
	})

	t.Run("production refuses development secrets", func(t *testing.T) {
		t.Setenv("VAXTRACK_ENV", "production")
		cfg := FromEnv()
		err := cfg.Validate()
		require.Error(t, err)
		assert.ErrorContains(t, err, "JWT_SIGNING_KEY")
		assert.ErrorContains(t, err, "ADMIN_API_TOKEN")
		assert.ErrorContains(t, err, "DATABASE_URL")
	})

	t.Run("production with real settings", func(t *testing.T) {
		t.Setenv("VAXTRACK_ENV", "production")
		t.Setenv("JWT_SIGNING_KEY", "0123456789abcdef0123456789abcdef")
		t.Setenv("ADMIN_API_TOKEN", "ops-token")
		t.Setenv("DATABASE_URL", "postgres://localhost/vaxtrack")
		assert.NoError(t, FromEnv().Validate())
	})
}

func TestRecomputeLocation(t *testing.T) {
	loc, err := Recompute{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = Recompute{Timezone: " Africa/Accra "}.Location()
	require.NoError(t, err)
	assert.Equal(t, "Africa/Accra", loc.String())

	t.Setenv("RECOMPUTE_TZ", "Mars/Olympus")
	assert.ErrorContains(t, FromEnv().Validate(), "RECOMPUTE_TZ")
}
