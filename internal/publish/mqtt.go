// Package publish announces finished simulation runs on MQTT.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"renewable_simulator/internal/model"
	"renewable_simulator/internal/store"
)

// ErrQueueFull is returned when the outgoing queue cannot take a message.
var ErrQueueFull = errors.New("publish queue full")

const queueSize = 64

// Message is one outgoing MQTT message.
type Message struct {
	Topic   string
	Payload []byte
	QoS     byte
	Retain  bool
}

// RunAnnouncement is the payload published for a saved run.
type RunAnnouncement struct {
	RunID      string           `json:"run_id"`
	Technology model.Technology `json:"technology"`
	CreatedAt  time.Time        `json:"created_at"`
	Summary    model.Summary    `json:"summary"`
}

// MQTT queues run announcements and sends them from a single worker.
type MQTT struct {
	client mqtt.Client
	prefix string
	queue  chan Message
	logger *zap.Logger
}

// NewMQTT wraps an already configured client.
func NewMQTT(client mqtt.Client, prefix string, logger *zap.Logger) *MQTT {
	return &MQTT{
		client: client,
		prefix: strings.TrimSuffix(prefix, "/"),
		queue:  make(chan Message, queueSize),
		logger: logger,
	}
}

// Connect dials broker and returns a publisher for it. A bare host name
// gets the tcp scheme and the default port.
func Connect(broker, clientID, prefix string, logger *zap.Logger) (*MQTT, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL(broker))
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", zap.Error(err))
	})
	opts.SetOnConnectHandler(func(mqtt.Client) {
		logger.Info("connected to mqtt broker", zap.String("broker", broker))
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to mqtt broker: %w", token.Error())
	}
	return NewMQTT(client, prefix, logger), nil
}

func brokerURL(broker string) string {
	if strings.Contains(broker, "://") {
		return broker
	}
	if !strings.Contains(broker, ":") {
		broker += ":1883"
	}
	return "tcp://" + broker
}

// Topic returns the topic runs of tech are announced on.
func (p *MQTT) Topic(tech model.Technology) string {
	return fmt.Sprintf("%s/runs/%s", p.prefix, tech)
}

// PublishRun queues an announcement for run without blocking.
func (p *MQTT) PublishRun(run store.Run) error {
	payload, err := json.Marshal(RunAnnouncement{
		RunID:      run.ID,
		Technology: run.Technology,
		CreatedAt:  run.CreatedAt,
		Summary:    run.Result.Summary,
	})
	if err != nil {
		return fmt.Errorf("encoding announcement: %w", err)
	}
	select {
	case p.queue <- Message{Topic: p.Topic(run.Technology), Payload: payload, QoS: 1}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run sends queued messages until ctx is done, then disconnects.
func (p *MQTT) Run(ctx context.Context) {
	for {
		select {
		case msg := <-p.queue:
			token := p.client.Publish(msg.Topic, msg.QoS, msg.Retain, msg.Payload)
			token.Wait()
			if token.Error() != nil {
				p.logger.Warn("mqtt publish failed", zap.String("topic", msg.Topic), zap.Error(token.Error()))
			}
		case <-ctx.Done():
			if p.client.IsConnected() {
				p.client.Disconnect(250)
			}
			return
		}
	}
}
