package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"renewable_simulator/internal/model"
	"renewable_simulator/internal/simulator"
	"renewable_simulator/internal/store"
)

func newTestBridge() (*Bridge, *Client) {
	hub := NewHub(zap.NewNop())
	client := &Client{hub: hub, send: make(chan []byte, 256)}
	hub.Register(client)
	bridge := NewBridge(hub, zap.NewNop())
	return bridge, client
}

func receiveEnvelope(t *testing.T, c *Client) Envelope {
	t.Helper()
	msg := <-c.send
	var env Envelope
	require.NoError(t, json.Unmarshal(msg, &env))
	return env
}

func TestBridge_OnProgress(t *testing.T) {
	bridge, client := newTestBridge()

	bridge.OnProgress(simulator.Progress{
		Done:  3,
		Total: 9,
		Candidate: simulator.Candidate{
			TiltDeg:    35,
			AzimuthDeg: -10,
			NPVEUR:     4200.5,
		},
	})

	env := receiveEnvelope(t, client)
	assert.Equal(t, TypeOptimizeProgress, env.Type)

	var p OptimizeProgressPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, 3, p.Done)
	assert.Equal(t, 9, p.Total)
	assert.Equal(t, 35.0, p.Candidate.TiltDeg)
	assert.Equal(t, -10.0, p.Candidate.AzimuthDeg)
	assert.InDelta(t, 4200.5, p.Candidate.NPVEUR, 0.001)
}

func TestBridge_PublishRun(t *testing.T) {
	bridge, client := newTestBridge()

	err := bridge.PublishRun(store.Run{
		ID:         "run-1",
		Technology: model.TechnologyWind,
		CreatedAt:  time.Date(2024, 11, 21, 12, 0, 0, 0, time.UTC),
		Result:     model.Result{Summary: model.Summary{NPVEUR: 1500.5}},
	})
	require.NoError(t, err)

	env := receiveEnvelope(t, client)
	assert.Equal(t, TypeRunSaved, env.Type)

	var p RunSavedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, "run-1", p.RunID)
	assert.Equal(t, model.TechnologyWind, p.Technology)
	assert.Equal(t, "2024-11-21T12:00:00Z", p.CreatedAt)
	assert.InDelta(t, 1500.5, p.Summary.NPVEUR, 0.001)
}

func TestErrorPayload(t *testing.T) {
	p := errorPayload(model.Invalid("technical.tilt_deg", "100 outside [0, 90]"))
	assert.Equal(t, "technical.tilt_deg", p.Field)
	assert.True(t, p.Invalid)
	assert.Contains(t, p.Error, "100 outside")

	p = errorPayload(assert.AnError)
	assert.Empty(t, p.Field)
	assert.False(t, p.Invalid)
}
