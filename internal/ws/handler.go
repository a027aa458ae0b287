package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"renewable_simulator/internal/cashflow"
	"renewable_simulator/internal/model"
	"renewable_simulator/internal/service"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SeriesCatalog lists the resource series available to requests.
type SeriesCatalog interface {
	Series() []model.Series
	GlobalTimeRange() (model.TimeRange, bool)
}

// Handler manages WebSocket connections and routes requests to the service.
type Handler struct {
	hub     *Hub
	service *service.Service
	series  SeriesCatalog
	logger  *zap.Logger
}

func NewHandler(hub *Hub, svc *service.Service, series SeriesCatalog, logger *zap.Logger) *Handler {
	return &Handler{hub: hub, service: svc, series: series, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}

	client := newClient(h.hub, conn)
	registered := h.hub.Register(client)
	go client.writePump()
	if !registered {
		return
	}

	h.sendDataLoaded(client)

	h.readPump(client)
}

func (h *Handler) readPump(c *Client) {
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		h.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read", zap.Error(err))
			}
			return
		}

		h.handleMessage(ctx, c, msg)
	}
}

// handleMessage decodes one request and runs it in the background. The
// reply carries the request's envelope ID.
func (h *Handler) handleMessage(ctx context.Context, c *Client, msg []byte) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		h.logger.Warn("invalid message", zap.Error(err))
		return
	}

	switch env.Type {
	case TypeSimWind:
		var req model.WindRequest
		if !h.decode(c, env, &req) {
			return
		}
		go h.respondRun(c, env.ID, func() (any, error) {
			return h.service.SimulateWind(ctx, req)
		}, TypeSimResult)

	case TypeSimSolar:
		var req model.SolarRequest
		if !h.decode(c, env, &req) {
			return
		}
		go h.respondRun(c, env.ID, func() (any, error) {
			return h.service.SimulateSolar(ctx, req)
		}, TypeSimResult)

	case TypeSimOptimize:
		var req service.OptimizeRequest
		if !h.decode(c, env, &req) {
			return
		}
		go h.respondRun(c, env.ID, func() (any, error) {
			return h.service.OptimizeSolar(ctx, req)
		}, TypeOptimizeResult)

	default:
		h.logger.Warn("unknown message type", zap.String("type", env.Type))
		h.reply(c, TypeSimError, env.ID, SimErrorPayload{Error: "unknown message type " + env.Type, Invalid: true})
	}
}

func (h *Handler) decode(c *Client, env Envelope, dst any) bool {
	if err := json.Unmarshal(env.Payload, dst); err != nil {
		h.reply(c, TypeSimError, env.ID, SimErrorPayload{Error: "invalid " + env.Type + " payload: " + err.Error(), Invalid: true})
		return false
	}
	return true
}

func (h *Handler) respondRun(c *Client, id string, run func() (any, error), okType string) {
	out, err := run()
	if err != nil {
		h.logger.Info("websocket request failed", zap.String("id", id), zap.Error(err))
		h.reply(c, TypeSimError, id, errorPayload(err))
		return
	}
	h.reply(c, okType, id, out)
}

func (h *Handler) reply(c *Client, msgType, id string, payload any) {
	msg, err := newReply(msgType, id, payload)
	if err != nil {
		h.logger.Error("marshaling reply", zap.String("type", msgType), zap.Error(err))
		return
	}
	h.hub.Send(c, msg)
}

func (h *Handler) dataLoadedMessage() ([]byte, error) {
	payload := DataLoadedPayload{
		Series:    []SeriesInfo{},
		Scenarios: cashflow.ScenarioNames(),
	}
	for tech := range model.TechnologyCatalog {
		payload.Technologies = append(payload.Technologies, tech)
	}
	sort.Slice(payload.Technologies, func(i, j int) bool { return payload.Technologies[i] < payload.Technologies[j] })

	if h.series != nil {
		for _, s := range h.series.Series() {
			payload.Series = append(payload.Series, SeriesInfo{
				ID:   s.ID,
				Name: s.Name,
				Kind: string(s.Kind),
				Unit: s.Unit,
			})
		}
		if tr, ok := h.series.GlobalTimeRange(); ok {
			payload.TimeRange = &TimeRangeInfo{
				Start: tr.Start.Format(time.RFC3339),
				End:   tr.End.Format(time.RFC3339),
			}
		}
	}

	return NewEnvelope(TypeDataLoaded, payload)
}

func (h *Handler) sendDataLoaded(c *Client) {
	msg, err := h.dataLoadedMessage()
	if err != nil {
		h.logger.Error("creating data:loaded message", zap.Error(err))
		return
	}
	h.hub.Send(c, msg)
}
