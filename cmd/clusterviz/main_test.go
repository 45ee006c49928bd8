package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/clusterviz/internal/config"
	"github.com/hupe1980/clusterviz/internal/resource"
	"github.com/hupe1980/clusterviz/internal/session"
	"github.com/hupe1980/clusterviz/internal/telemetry"
)

func TestNewLogger(t *testing.T) {
	l, err := newLogger(config.Log{Level: "debug", Format: "text"})
	require.NoError(t, err)
	assert.NotNil(t, l)

	_, err = newLogger(config.Log{Level: "loud", Format: "json"})
	assert.Error(t, err)
}

func TestRegisterGauges(t *testing.T) {
	m := telemetry.NewCollector()
	rc := resource.NewController(resource.Config{})
	sessions := session.NewStore(1024, rc)
	require.NoError(t, registerGauges(m, rc, sessions))

	sess, err := sessions.Put("", [][]float64{{1, 2}})
	require.NoError(t, err)
	_, err = sessions.Get(sess.ID)
	require.NoError(t, err)
	_, err = sessions.Get(session.NewID())
	require.ErrorIs(t, err, session.ErrNotFound)

	values := map[string]float64{}
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			switch {
			case metric.GetGauge() != nil:
				values[mf.GetName()] = metric.GetGauge().GetValue()
			case metric.GetCounter() != nil:
				values[mf.GetName()] = metric.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, 1.0, values["clusterviz_sessions"])
	assert.Equal(t, 1.0, values["clusterviz_session_hits_total"])
	assert.Equal(t, 1.0, values["clusterviz_session_misses_total"])
	assert.Equal(t, 0.0, values["clusterviz_session_evictions_total"])

	// Registering twice collides on every name.
	assert.Error(t, registerGauges(m, rc, session.NewStore(1024, rc)))
}

func TestRun_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clusterviz.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data:\n  points: 0\n"), 0o600))

	err := run(context.Background(), path, filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	t.Setenv("CLUSTERVIZ_ADDR", "127.0.0.1:0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, run(ctx, "", filepath.Join(t.TempDir(), "missing.env")))
}
