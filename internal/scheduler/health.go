package scheduler

import (
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// HealthStatus represents the health of a component.
type HealthStatus struct {
	Healthy     bool
	LastCheck   time.Time
	LastSuccess time.Time
	LastError   error
	Message     string
}

// Health tracks the health of joke sources and other components.
type Health struct {
	mu         sync.RWMutex
	clock      clockwork.Clock
	components map[string]*HealthStatus
}

// NewHealth creates a new health tracker.
func NewHealth() *Health {
	return NewHealthWithClock(clockwork.NewRealClock())
}

// NewHealthWithClock creates a health tracker that timestamps with clock.
func NewHealthWithClock(clock clockwork.Clock) *Health {
	return &Health{
		clock:      clock,
		components: make(map[string]*HealthStatus),
	}
}

// SetHealthy marks a component as healthy.
func (h *Health) SetHealthy(component, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.clock.Now()
	status := h.component(component)
	status.Healthy = true
	status.LastCheck = now
	status.LastSuccess = now
	status.LastError = nil
	status.Message = message
}

// SetUnhealthy marks a component as unhealthy.
func (h *Health) SetUnhealthy(component string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	status := h.component(component)
	status.Healthy = false
	status.LastCheck = h.clock.Now()
	status.LastError = err
	status.Message = err.Error()
}

// component must be called with mu held.
func (h *Health) component(name string) *HealthStatus {
	status, ok := h.components[name]
	if !ok {
		status = &HealthStatus{}
		h.components[name] = status
	}
	return status
}

// GetStatus returns a copy of a component's status, or nil if unknown.
func (h *Health) GetStatus(component string) *HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if status, exists := h.components[component]; exists {
		cp := *status
		return &cp
	}
	return nil
}

// GetAllStatuses returns copies of all component statuses.
func (h *Health) GetAllStatuses() map[string]*HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make(map[string]*HealthStatus, len(h.components))
	for name, status := range h.components {
		cp := *status
		result[name] = &cp
	}
	return result
}

// Names returns the tracked component names, sorted.
func (h *Health) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.components))
	for name := range h.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsOverallHealthy returns true if all components are healthy.
func (h *Health) IsOverallHealthy() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, status := range h.components {
		if !status.Healthy {
			return false
		}
	}
	return true
}
