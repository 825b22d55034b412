package probe

import (
	"context"
	"time"
)

type Probe interface {
	Exec(ctx context.Context) error
}

// Result is the outcome of a successful probe run. It is never returned
// together with an error.
type Result struct {
	ID         string
	Target     string
	ServerTime time.Time
	Latency    time.Duration
}

type Status struct {
	ID         string `json:"id,omitempty"`
	OK         bool   `json:"ok"`
	Target     string `json:"target,omitempty"`
	ServerTime string `json:"serverTime,omitempty"`
	Latency    string `json:"latency,omitempty"`
	Kind       string `json:"kind,omitempty"`
	SQLState   string `json:"sqlState,omitempty"`
	Message    string `json:"message,omitempty"`
}

func StatusFromResult(r *Result) *Status {
	return &Status{
		ID:         r.ID,
		OK:         true,
		Target:     r.Target,
		ServerTime: r.ServerTime.Format(time.RFC3339Nano),
		Latency:    r.Latency.String(),
	}
}

func StatusFromError(err error) *Status {
	status := &Status{
		OK:      false,
		Message: err.Error(),
	}

	if kind, ok := KindOf(err); ok {
		status.Kind = kind.String()
	}
	status.SQLState = SQLState(err)

	return status
}
