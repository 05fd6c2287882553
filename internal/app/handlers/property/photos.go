package property

import (
	"context"
	"strings"
	"time"

	"stayhub/internal/app/actor"
	"stayhub/internal/app/commands"
	"stayhub/internal/app/uow"
	domainauth "stayhub/internal/domain/auth"
	domainproperty "stayhub/internal/domain/property"
)

const attachPhotoKey = "property.attach_photo"

// AttachRoomPhotoCommand records an already-uploaded photo URL on a
// room. The upload itself happens in the HTTP layer against object
// storage; only the resulting URL enters the aggregate.
type AttachRoomPhotoCommand struct {
	Actor      actor.Actor
	PropertyID string
	RoomID     string
	URL        string
}

func (c AttachRoomPhotoCommand) Key() string { return attachPhotoKey }

func (c AttachRoomPhotoCommand) Acting() actor.Actor { return c.Actor }

type AttachRoomPhotoResult struct {
	RoomID    string   `json:"room_id"`
	PhotoURLs []string `json:"photo_urls"`
}

type AttachRoomPhotoHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *AttachRoomPhotoHandler) Handle(ctx context.Context, cmd AttachRoomPhotoCommand) (*AttachRoomPhotoResult, error) {
	unit, managed, commit, rollback, err := begin(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if managed {
		defer rollback()
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
	}

	prop, err := unit.Properties().ByID(ctx, domainproperty.PropertyID(cmd.PropertyID))
	if err != nil {
		return nil, err
	}
	if !cmd.Actor.May(prop.OwnerID) {
		return nil, domainauth.ErrUnauthorized
	}
	room, err := unit.Rooms().Room(ctx, prop.ID, domainproperty.RoomID(cmd.RoomID))
	if err != nil {
		return nil, err
	}
	url := strings.TrimSpace(cmd.URL)
	if url == "" {
		return nil, domainproperty.ErrPhotoURLRequired
	}
	room.PhotoURLs = append(room.PhotoURLs, url)
	room.UpdatedAt = nowOr(h.Now)
	if err := unit.Rooms().Save(ctx, room); err != nil {
		return nil, err
	}
	if managed {
		if err := commit(); err != nil {
			return nil, err
		}
	}
	return &AttachRoomPhotoResult{RoomID: string(room.ID), PhotoURLs: room.PhotoURLs}, nil
}

var _ commands.Handler[AttachRoomPhotoCommand, *AttachRoomPhotoResult] = (*AttachRoomPhotoHandler)(nil)
