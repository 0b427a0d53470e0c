// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package configs_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"codeberg.org/readeck/fontgrab/configs"
)

func writeConfig(t *testing.T, content string) string {
	p := filepath.Join(t.TempDir(), "fontgrab.toml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		assert := require.New(t)

		cfg, err := configs.Load("")
		assert.NoError(err)
		assert.Equal(configs.Default(), cfg)
		assert.Equal("downloads", cfg.OutputDir)
		assert.Equal(slog.LevelInfo, cfg.LogLevel)
		assert.Zero(cfg.Timeout)
	})

	t.Run("file", func(t *testing.T) {
		assert := require.New(t)

		p := writeConfig(t, `
output_dir = "fonts"
log_level = "debug"
user_agent = "fontgrab/1.0"
timeout = "1m30s"
no_color = true
`)
		cfg, err := configs.Load(p)
		assert.NoError(err)
		assert.Equal("fonts", cfg.OutputDir)
		assert.Equal(slog.LevelDebug, cfg.LogLevel)
		assert.Equal("fontgrab/1.0", cfg.UserAgent)
		assert.Equal(90*time.Second, time.Duration(cfg.Timeout))
		assert.True(cfg.NoColor)
	})

	t.Run("env", func(t *testing.T) {
		assert := require.New(t)

		p := writeConfig(t, `
output_dir = "fonts"
log_level = "debug"
`)
		t.Setenv("FONTGRAB_OUTPUT_DIR", "/tmp/env-fonts")
		t.Setenv("FONTGRAB_TIMEOUT", "10s")

		cfg, err := configs.Load(p)
		assert.NoError(err)
		assert.Equal("/tmp/env-fonts", cfg.OutputDir)
		assert.Equal(slog.LevelDebug, cfg.LogLevel)
		assert.Equal(10*time.Second, time.Duration(cfg.Timeout))
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name    string
			content string
		}{
			{"unknown key", `output = "fonts"`},
			{"duration", `timeout = "soon"`},
			{"negative duration", `timeout = "-1s"`},
			{"level", `log_level = "loud"`},
			{"empty dir", `output_dir = ""`},
		}

		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				cfg, err := configs.Load(writeConfig(t, test.content))
				require.Nil(t, cfg)
				require.ErrorIs(t, err, configs.ErrConfig)
			})
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := configs.Load(filepath.Join(t.TempDir(), "nope.toml"))
		require.ErrorIs(t, err, configs.ErrConfig)
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("bad env", func(t *testing.T) {
		t.Setenv("FONTGRAB_NO_COLOR", "maybe")
		_, err := configs.Load("")
		require.ErrorIs(t, err, configs.ErrConfig)
	})
}
