package config

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"MIDI_DIR", "OUT_DIR", "MIDI_OUT_PORT", "MASH_SEED", "LOG_LEVEL", "HTTP_ADDR"} {
		// Setenv restores the original value when the test ends
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	cfg, err := Load()

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal("./MIDI", cfg.MidiDir)
	assert.Equal("./out", cfg.OutDir)
	assert.Equal(0, cfg.OutPort)
	assert.Equal(uint64(0), cfg.Seed)
	assert.Equal(":8080", cfg.HTTPAddr)
	assert.Equal(slog.LevelInfo, cfg.Level())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MIDI_DIR", "/tmp/midi")
	t.Setenv("MIDI_OUT_PORT", "2")
	t.Setenv("MASH_SEED", "99")
	t.Setenv("LOG_LEVEL", "DEBUG")
	cfg, err := Load()

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal("/tmp/midi", cfg.MidiDir)
	assert.Equal(2, cfg.OutPort)
	assert.Equal(uint64(99), cfg.Seed)
	assert.Equal(slog.LevelDebug, cfg.Level())
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("MIDI_OUT_PORT", "first")
	_, err := Load()
	assert.Error(t, err)
}
