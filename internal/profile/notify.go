package profile

import "sync"

// Level is the severity of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a transient message for the farmer.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Queue buffers notifications until the presentation layer drains them.
type Queue struct {
	mu    sync.Mutex
	items []Notification
}

func (q *Queue) push(n Notification) {
	q.mu.Lock()
	q.items = append(q.items, n)
	q.mu.Unlock()
}

// Success queues a success notification.
func (q *Queue) Success(msg string) { q.push(Notification{Level: LevelSuccess, Message: msg}) }

// Error queues an error notification.
func (q *Queue) Error(msg string) { q.push(Notification{Level: LevelError, Message: msg}) }

// Drain returns and clears the queued notifications.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	if items == nil {
		items = []Notification{}
	}
	return items
}
