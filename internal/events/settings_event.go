package events

import (
	"time"

	"github.com/google/uuid"
)

// SaveFailedEvent tells the frontend a best-effort settings write did not land.
type SaveFailedEvent struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSaveFailedEvent(err error) SaveFailedEvent {
	return SaveFailedEvent{
		ID:        uuid.NewString(),
		Message:   err.Error(),
		Timestamp: time.Now(),
	}
}
