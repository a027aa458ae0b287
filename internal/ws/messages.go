package ws

import (
	"encoding/json"
	"errors"
	"time"

	"renewable_simulator/internal/model"
	"renewable_simulator/internal/simulator"
	"renewable_simulator/internal/store"
)

// Envelope wraps all WebSocket messages with a type discriminator. ID is
// echoed back on replies to a client request.
type Envelope struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message type constants
const (
	// Client -> Server
	TypeSimWind     = "sim:wind"
	TypeSimSolar    = "sim:solar"
	TypeSimOptimize = "sim:optimize"

	// Server -> Client
	TypeDataLoaded       = "data:loaded"
	TypeSimResult        = "sim:result"
	TypeSimError         = "sim:error"
	TypeOptimizeProgress = "optimize:progress"
	TypeOptimizeResult   = "optimize:result"
	TypeRunSaved         = "run:saved"
)

// Server -> Client payloads

type SeriesInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
	Unit string `json:"unit"`
}

type TimeRangeInfo struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type DataLoadedPayload struct {
	Series       []SeriesInfo       `json:"series"`
	TimeRange    *TimeRangeInfo     `json:"time_range,omitempty"`
	Technologies []model.Technology `json:"technologies"`
	Scenarios    []string           `json:"scenarios"`
}

type SimErrorPayload struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	// Invalid is true when the request itself was rejected.
	Invalid bool `json:"invalid"`
}

type RunSavedPayload struct {
	RunID      string           `json:"run_id"`
	Technology model.Technology `json:"technology"`
	CreatedAt  string           `json:"created_at"`
	Summary    model.Summary    `json:"summary"`
}

type OptimizeProgressPayload struct {
	Done      int                 `json:"done"`
	Total     int                 `json:"total"`
	Candidate simulator.Candidate `json:"candidate"`
}

func NewEnvelope(msgType string, payload any) ([]byte, error) {
	return newReply(msgType, "", payload)
}

func newReply(msgType, id string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(Envelope{Type: msgType, ID: id, Payload: raw})
}

func errorPayload(err error) SimErrorPayload {
	p := SimErrorPayload{Error: err.Error()}
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		p.Field = ve.Field
	}
	p.Invalid = errors.Is(err, model.ErrInvalidInput)
	return p
}

func runSavedFromStore(r store.Run) RunSavedPayload {
	return RunSavedPayload{
		RunID:      r.ID,
		Technology: r.Technology,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
		Summary:    r.Result.Summary,
	}
}

func progressFromEngine(p simulator.Progress) OptimizeProgressPayload {
	return OptimizeProgressPayload{Done: p.Done, Total: p.Total, Candidate: p.Candidate}
}
