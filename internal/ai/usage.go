package ai

import "sync"

// UsageMeter tracks token usage per task type against an optional global
// budget. A zero budget means unlimited.
type UsageMeter struct {
	mu     sync.RWMutex
	budget int64
	usage  map[TaskType]int64
}

// NewUsageMeter creates a meter with the given token budget.
func NewUsageMeter(budget int64) *UsageMeter {
	return &UsageMeter{
		budget: budget,
		usage:  make(map[TaskType]int64),
	}
}

// Record adds tokens to a task's usage. Negative counts are ignored.
func (m *UsageMeter) Record(task TaskType, tokens int) {
	if tokens <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.usage[task] += int64(tokens)
}

// Usage returns the tokens recorded for a task.
func (m *UsageMeter) Usage(task TaskType) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.usage[task]
}

// Total returns the tokens recorded across all tasks.
func (m *UsageMeter) Total() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total int64
	for _, n := range m.usage {
		total += n
	}
	return total
}

// Snapshot returns usage keyed by task name.
func (m *UsageMeter) Snapshot() map[string]int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]int64, len(m.usage))
	for task, n := range m.usage {
		out[task.String()] = n
	}
	return out
}

// Exhausted reports whether the budget has been spent.
func (m *UsageMeter) Exhausted() bool {
	if m.budget <= 0 {
		return false
	}
	return m.Total() >= m.budget
}
