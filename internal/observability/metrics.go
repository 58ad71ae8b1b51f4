package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for HTTP traffic and outbound
// control panel calls.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
	panelCount   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		panelCount:   make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordPanelCall tracks one control panel round trip.
func (m *Metrics) RecordPanelCall(command string, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !success {
		outcome = "error"
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panelCount[command+"|"+outcome]++
}

// PanelCallCount returns the recorded count for a command/outcome pair.
func (m *Metrics) PanelCallCount(command string, success bool) int64 {
	if m == nil {
		return 0
	}
	outcome := "ok"
	if !success {
		outcome = "error"
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.panelCount[command+"|"+outcome]
}
