package ws

import (
	"go.uber.org/zap"

	"renewable_simulator/internal/simulator"
	"renewable_simulator/internal/store"
)

// Bridge broadcasts optimizer progress and saved runs to the WebSocket hub.
// It implements simulator.Observer.
type Bridge struct {
	hub    *Hub
	logger *zap.Logger
}

func NewBridge(hub *Hub, logger *zap.Logger) *Bridge {
	return &Bridge{hub: hub, logger: logger}
}

func (b *Bridge) OnProgress(p simulator.Progress) {
	msg, err := NewEnvelope(TypeOptimizeProgress, progressFromEngine(p))
	if err != nil {
		b.logger.Error("marshaling optimizer progress", zap.Error(err))
		return
	}
	b.hub.Broadcast(msg)
}

// PublishRun announces a saved run to every client.
func (b *Bridge) PublishRun(r store.Run) error {
	msg, err := NewEnvelope(TypeRunSaved, runSavedFromStore(r))
	if err != nil {
		return err
	}
	b.hub.Broadcast(msg)
	return nil
}
