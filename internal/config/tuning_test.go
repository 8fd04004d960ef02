package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/tyre.report/internal/thermal"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTuningConfig(t *testing.T) {
	t.Parallel()

	t.Run("loads partial overlays", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "tuning.json", `{"ema_alpha": 0.5, "min_tyre_width": 8}`)

		cfg, err := LoadTuningConfig(path)
		require.NoError(t, err)

		require.NotNil(t, cfg.EMAAlpha)
		assert.Equal(t, 0.5, *cfg.EMAAlpha)
		require.NotNil(t, cfg.MinTyreWidth)
		assert.Equal(t, 8, *cfg.MinTyreWidth)
		assert.Nil(t, cfg.MaxTyreWidth)
		assert.Nil(t, cfg.KFloor)
	})

	t.Run("rejects non-json extensions", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "tuning.yaml", "ema_alpha: 0.5")

		_, err := LoadTuningConfig(path)
		assert.ErrorContains(t, err, ".json extension")
	})

	t.Run("rejects missing files", func(t *testing.T) {
		t.Parallel()
		_, err := LoadTuningConfig(filepath.Join(t.TempDir(), "absent.json"))
		assert.ErrorContains(t, err, "stat config file")
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "tuning.json", `{"ema_alpha": `)

		_, err := LoadTuningConfig(path)
		assert.ErrorContains(t, err, "parse config JSON")
	})
}

func TestTuningConfigApply(t *testing.T) {
	t.Parallel()

	t.Run("set fields override the base", func(t *testing.T) {
		t.Parallel()
		alpha := 0.5
		centre := 12
		tuning := &TuningConfig{EMAAlpha: &alpha, CentreCol: &centre}

		got, err := tuning.Apply(thermal.DefaultConfig())
		require.NoError(t, err)

		assert.Equal(t, 0.5, got.EMAAlpha)
		assert.Equal(t, 12, got.CentreCol)
	})

	t.Run("unset fields keep the defaults", func(t *testing.T) {
		t.Parallel()
		got, err := (&TuningConfig{}).Apply(thermal.DefaultConfig())
		require.NoError(t, err)

		assert.Equal(t, thermal.DefaultConfig(), got)
	})

	t.Run("invalid combined config is rejected", func(t *testing.T) {
		t.Parallel()
		minWidth := 30 // above the default max of 28
		tuning := &TuningConfig{MinTyreWidth: &minWidth}

		_, err := tuning.Apply(thermal.DefaultConfig())
		assert.ErrorContains(t, err, "invalid tuning overlay")
	})
}
