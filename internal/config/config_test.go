package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, ":8080", cfg.Server.Addr())
	require.Equal(t, DriverMemory, cfg.Store.Driver)
	require.Equal(t, uint64(5), cfg.Store.MaxRetries)
	require.Equal(t, 5*time.Second, cfg.Store.Timeout)
	require.Equal(t, MaxSweepInterval, cfg.Alarm.SweepInterval)
	require.Equal(t, 10, cfg.Auth.BcryptCost)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUCTION_STORE_DRIVER", "postgres")
	t.Setenv("AUCTION_STORE_DSN", "postgres://localhost/auction")
	t.Setenv("AUCTION_ALARM_SWEEP_INTERVAL", "30s")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DriverPostgres, cfg.Store.Driver)
	require.Equal(t, "postgres://localhost/auction", cfg.Store.DSN)
	require.Equal(t, 30*time.Second, cfg.Alarm.SweepInterval)
	require.Equal(t, 9090, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		set     map[string]any
		wantErr bool
	}{
		{name: "defaults", set: nil},
		{name: "unknown_driver", set: map[string]any{"store.driver": "bolt"}, wantErr: true},
		{name: "postgres_without_dsn", set: map[string]any{"store.driver": "postgres"}, wantErr: true},
		{name: "sweep_too_slow", set: map[string]any{"alarm.sweep_interval": "10m"}, wantErr: true},
		{name: "sweep_zero", set: map[string]any{"alarm.sweep_interval": "0s"}, wantErr: true},
		{name: "bad_port", set: map[string]any{"server.port": 70000}, wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			v := viper.New()
			setDefaults(v)
			for k, val := range tc.set {
				v.Set(k, val)
			}

			_, err := decode(v)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
