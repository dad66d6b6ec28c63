package responses

import (
	"time"

	"github.com/invopop/jsonschema"

	"github.com/janhq/health-assistant/internal/domain/chat"
	"github.com/janhq/health-assistant/internal/domain/health"
	"github.com/janhq/health-assistant/internal/domain/readiness"
	"github.com/janhq/health-assistant/internal/domain/tool"
)

// ChatResponse is returned by POST /v1/chat.
type ChatResponse struct {
	Reply     string    `json:"reply"`
	Degraded  bool      `json:"degraded"`
	QueryID   string    `json:"query_id"`
	ReplyID   string    `json:"reply_id"`
	CreatedAt time.Time `json:"created_at"`
}

func FromExchange(ex *chat.Exchange) ChatResponse {
	return ChatResponse{
		Reply:     ex.Reply.Content,
		Degraded:  ex.Degraded,
		QueryID:   ex.Query.ID,
		ReplyID:   ex.Reply.ID,
		CreatedAt: ex.Reply.CreatedAt,
	}
}

// ListResponse wraps collections for consistent responses.
type ListResponse[T any] struct {
	Object string `json:"object"`
	Data   []T    `json:"data"`
}

func NewList[T any](data []T) ListResponse[T] {
	if data == nil {
		data = []T{}
	}
	return ListResponse[T]{Object: "list", Data: data}
}

// ToolParam describes one positional parameter.
type ToolParam struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Optional bool   `json:"optional,omitempty"`
}

// ToolResponse describes a registered tool.
type ToolResponse struct {
	Name        string             `json:"name"`
	Summary     string             `json:"summary"`
	Description string             `json:"description"`
	Positional  bool               `json:"positional"`
	Params      []ToolParam        `json:"params"`
	Schema      *jsonschema.Schema `json:"input_schema,omitempty"`
}

func FromDescriptor(d tool.Descriptor) ToolResponse {
	params := make([]ToolParam, 0, len(d.Params))
	for _, p := range d.Params {
		params = append(params, ToolParam{Name: p.Name, Type: string(p.Type), Optional: p.Optional})
	}
	return ToolResponse{
		Name:        d.Name(),
		Summary:     d.Summary(),
		Description: d.Description,
		Positional:  d.Positional,
		Params:      params,
		Schema:      d.Schema,
	}
}

// SleepEntry is one row of GET /v1/sleep/recent.
type SleepEntry struct {
	Day           string   `json:"day"`
	Score         *int     `json:"score"`
	TotalSleepH   *float64 `json:"total_sleep_hours"`
	Efficiency    *int     `json:"efficiency"`
	NeedsRecovery bool     `json:"needs_recovery"`
}

func FromSleep(rec health.SleepRecord, needsRecovery bool) SleepEntry {
	entry := SleepEntry{
		Day:           health.FormatDate(rec.Day),
		Score:         rec.Score,
		Efficiency:    rec.Efficiency,
		NeedsRecovery: needsRecovery,
	}
	if rec.TotalSleepDuration != nil {
		hours := float64(*rec.TotalSleepDuration) / 3600
		entry.TotalSleepH = &hours
	}
	return entry
}

// StatusResponse is returned by GET /v1/status and /readyz.
type StatusResponse struct {
	Service      string             `json:"service"`
	Status       string             `json:"status"`
	Model        string             `json:"model,omitempty"`
	Tools        []string           `json:"tools,omitempty"`
	SyncSources  []string           `json:"sync_sources,omitempty"`
	Dependencies []readiness.Status `json:"dependencies"`
}
