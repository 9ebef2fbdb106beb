package state

import (
	"sync"
	"time"
)

// DefaultIdle is how long a chat keeps its active course without activity
const DefaultIdle = 12 * time.Hour

// ChatState is the course a chat is currently planning
type ChatState struct {
	CourseID  string
	Timestamp time.Time
}

// Manager tracks the active course per chat
type Manager struct {
	states map[int64]ChatState
	idle   time.Duration
	now    func() time.Time
	mu     sync.Mutex
}

// New creates a new state manager; idle <= 0 uses DefaultIdle
func New(idle time.Duration) *Manager {
	if idle <= 0 {
		idle = DefaultIdle
	}
	return &Manager{
		states: make(map[int64]ChatState),
		idle:   idle,
		now:    time.Now,
	}
}

// SetActive makes courseID the active course for a chat
func (m *Manager) SetActive(chatID int64, courseID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[chatID] = ChatState{
		CourseID:  courseID,
		Timestamp: m.now(),
	}
}

// Active returns the chat's course and refreshes its timestamp.
// Expired entries are dropped.
func (m *Manager) Active(chatID int64) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.states[chatID]
	if !ok {
		return "", false
	}
	if m.now().Sub(state.Timestamp) > m.idle {
		delete(m.states, chatID)
		return "", false
	}

	state.Timestamp = m.now()
	m.states[chatID] = state
	return state.CourseID, true
}

// Clear forgets the chat's active course
func (m *Manager) Clear(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, chatID)
}
