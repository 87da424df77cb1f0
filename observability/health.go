package observability

import "context"

// HealthStatus is the health state of a component or service.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDown     HealthStatus = "down"
	HealthStatusDegraded HealthStatus = "degraded"
)

// Health describes one component, such as a model backend.
type Health struct {
	Name    string            `json:"name"`
	Status  HealthStatus      `json:"status"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// ServiceHealth describes the service and its components.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	Components []Health     `json:"components,omitempty"`
}

// Availability is implemented by anything that can report reachability,
// including every transcription and alignment provider.
type Availability interface {
	Name() string
	IsAvailable(ctx context.Context) bool
}

// NewServiceHealth creates a ServiceHealth with status up.
func NewServiceHealth(service, version string) *ServiceHealth {
	return &ServiceHealth{Service: service, Status: HealthStatusUp, Version: version}
}

// AddComponent adds a component and lowers the overall status to match.
func (sh *ServiceHealth) AddComponent(ch Health) {
	sh.Components = append(sh.Components, ch)
	switch ch.Status {
	case HealthStatusDown:
		sh.Status = HealthStatusDown
	case HealthStatusDegraded:
		if sh.Status != HealthStatusDown {
			sh.Status = HealthStatusDegraded
		}
	}
}

// CheckBackend probes a backend. An unreachable backend degrades the service
// rather than taking it down, since already-produced documents can still be
// assembled.
func CheckBackend(ctx context.Context, role string, b Availability) Health {
	h := Health{Name: b.Name(), Status: HealthStatusUp, Details: map[string]string{"role": role}}
	if !b.IsAvailable(ctx) {
		h.Status = HealthStatusDegraded
		h.Message = "backend unreachable"
	}
	return h
}
