package maintenance

import (
	"context"
	"errors"
	"time"

	"stayhub/internal/domain/property"
	"stayhub/internal/domain/shared/civil"
)

var (
	ErrTaskNotFound = errors.New("maintenance: task not found")
	ErrTitleMissing = errors.New("maintenance: title required")
	ErrInvalidState = errors.New("maintenance: invalid state transition")
)

type TaskID string

type TaskStatus string

const (
	TaskOpen       TaskStatus = "OPEN"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskDone       TaskStatus = "DONE"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Task is a maintenance job on a room. When it blocks guest dates
// the owner records a maintenance override alongside it.
type Task struct {
	ID          TaskID
	PropertyID  property.PropertyID
	RoomID      property.RoomID
	Title       string
	Description string
	Due         civil.Date
	Priority    Priority
	Status      TaskStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewTask(id TaskID, propertyID property.PropertyID, roomID property.RoomID, title string, due civil.Date, prio Priority, now time.Time) (*Task, error) {
	if title == "" {
		return nil, ErrTitleMissing
	}
	if prio == "" {
		prio = PriorityMedium
	}
	now = now.UTC()
	return &Task{
		ID:         id,
		PropertyID: propertyID,
		RoomID:     roomID,
		Title:      title,
		Due:        due,
		Priority:   prio,
		Status:     TaskOpen,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (t *Task) Start(now time.Time) error {
	if t.Status != TaskOpen {
		return ErrInvalidState
	}
	t.Status = TaskInProgress
	t.UpdatedAt = now.UTC()
	return nil
}

func (t *Task) Complete(now time.Time) error {
	if t.Status == TaskDone {
		return ErrInvalidState
	}
	t.Status = TaskDone
	t.UpdatedAt = now.UTC()
	return nil
}

type Repository interface {
	ByID(ctx context.Context, id TaskID) (*Task, error)
	ByProperty(ctx context.Context, propertyID property.PropertyID) ([]*Task, error)
	Save(ctx context.Context, task *Task) error
}
