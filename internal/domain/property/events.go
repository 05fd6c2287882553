package property

import "time"

type PropertyCreated struct {
	PropertyID PropertyID
	OwnerID    string
	At         time.Time
}

func (e PropertyCreated) EventName() string     { return "property.created" }
func (e PropertyCreated) AggregateID() string   { return string(e.PropertyID) }
func (e PropertyCreated) OccurredAt() time.Time { return e.At }

type RoomAdded struct {
	PropertyID PropertyID
	RoomID     RoomID
	At         time.Time
}

func (e RoomAdded) EventName() string     { return "property.room_added" }
func (e RoomAdded) AggregateID() string   { return string(e.PropertyID) }
func (e RoomAdded) OccurredAt() time.Time { return e.At }

type RoomPhotoAttached struct {
	PropertyID PropertyID
	RoomID     RoomID
	URL        string
	At         time.Time
}

func (e RoomPhotoAttached) EventName() string     { return "property.room_photo_attached" }
func (e RoomPhotoAttached) AggregateID() string   { return string(e.PropertyID) }
func (e RoomPhotoAttached) OccurredAt() time.Time { return e.At }
