package availability

import (
	"time"

	"stayhub/internal/domain/property"
	"stayhub/internal/domain/shared/civil"
)

type OverrideSet struct {
	RoomID property.RoomID
	Date   civil.Date
	Status DayStatus
	At     time.Time
}

func (e OverrideSet) EventName() string     { return "availability.override_set" }
func (e OverrideSet) AggregateID() string   { return string(e.RoomID) }
func (e OverrideSet) OccurredAt() time.Time { return e.At }

type OverrideCleared struct {
	RoomID property.RoomID
	Date   civil.Date
	At     time.Time
}

func (e OverrideCleared) EventName() string     { return "availability.override_cleared" }
func (e OverrideCleared) AggregateID() string   { return string(e.RoomID) }
func (e OverrideCleared) OccurredAt() time.Time { return e.At }
