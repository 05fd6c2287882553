package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"stayhub/internal/app/actor"
	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainauth "stayhub/internal/domain/auth"
	domainmessaging "stayhub/internal/domain/messaging"
	domainproperty "stayhub/internal/domain/property"
)

const (
	postMessageKey = "messaging.post"
	listThreadsKey = "messaging.threads"
	getThreadKey   = "messaging.thread"
)

type PostMessageCommand struct {
	Actor      actor.Actor
	PropertyID string
	// GuestID names the thread's guest side; guests may omit it and
	// default to themselves.
	GuestID string
	Body    string
}

func (c PostMessageCommand) Key() string { return postMessageKey }

func (c PostMessageCommand) Acting() actor.Actor { return c.Actor }

type PostMessageResult struct {
	ThreadID string `json:"thread_id"`
}

type PostMessageHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *PostMessageHandler) Handle(ctx context.Context, cmd PostMessageCommand) (*PostMessageResult, error) {
	unit, managed, err := resolve(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	committed := false
	if managed {
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	if !cmd.Actor.Known() {
		return nil, domainauth.ErrUnauthorized
	}
	prop, err := unit.Properties().ByID(ctx, domainproperty.PropertyID(cmd.PropertyID))
	if err != nil {
		return nil, err
	}
	guestID := cmd.GuestID
	if guestID == "" {
		guestID = string(cmd.Actor.ID)
	}
	if string(cmd.Actor.ID) != guestID && !cmd.Actor.May(prop.OwnerID) {
		return nil, domainauth.ErrUnauthorized
	}

	now := nowOr(h.Now)
	thread, err := unit.Messaging().ByParticipants(ctx, prop.ID, guestID)
	if errors.Is(err, domainmessaging.ErrThreadNotFound) {
		thread = domainmessaging.NewThread(
			domainmessaging.ThreadID(uuid.NewString()),
			prop.ID, prop.OwnerID, guestID, now,
		)
	} else if err != nil {
		return nil, err
	}

	if err := thread.Post(string(cmd.Actor.ID), cmd.Body, now); err != nil {
		return nil, err
	}
	if err := unit.Messaging().Save(ctx, thread); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &PostMessageResult{ThreadID: string(thread.ID)}, nil
}

type ListThreadsQuery struct {
	Actor actor.Actor
}

func (q ListThreadsQuery) Key() string { return listThreadsKey }

func (q ListThreadsQuery) Acting() actor.Actor { return q.Actor }

type ListThreadsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListThreadsHandler) Handle(ctx context.Context, q ListThreadsQuery) ([]dto.Thread, error) {
	unit, managed, err := resolve(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if managed {
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		defer unit.Rollback(ctx)
	}

	threads, err := unit.Messaging().ListForUser(ctx, string(q.Actor.ID))
	if err != nil {
		return nil, err
	}
	out := make([]dto.Thread, 0, len(threads))
	for _, t := range threads {
		out = append(out, dto.MapThread(t, string(q.Actor.ID)))
	}
	return out, nil
}

type GetThreadQuery struct {
	Actor    actor.Actor
	ThreadID string
	MarkRead bool
}

func (q GetThreadQuery) Key() string { return getThreadKey }

func (q GetThreadQuery) Acting() actor.Actor { return q.Actor }

type GetThreadHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetThreadHandler) Handle(ctx context.Context, q GetThreadQuery) (dto.Thread, error) {
	unit, managed, err := resolve(ctx, h.UoWFactory)
	if err != nil {
		return dto.Thread{}, err
	}
	committed := false
	if managed {
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	thread, err := unit.Messaging().ByID(ctx, domainmessaging.ThreadID(q.ThreadID))
	if err != nil {
		return dto.Thread{}, err
	}
	reader := string(q.Actor.ID)
	if reader != thread.OwnerID && reader != thread.GuestID && !q.Actor.IsAdmin() {
		return dto.Thread{}, domainauth.ErrUnauthorized
	}
	if q.MarkRead {
		thread.MarkRead(reader)
		if err := unit.Messaging().Save(ctx, thread); err != nil {
			return dto.Thread{}, err
		}
		if managed {
			if err := unit.Commit(ctx); err != nil {
				return dto.Thread{}, err
			}
			committed = true
		}
	}
	return dto.MapThread(thread, reader), nil
}

func resolve(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, bool, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, false, nil
	}
	if factory == nil {
		return nil, false, uow.ErrUnitOfWorkMissing
	}
	unit, err := factory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return nil, false, err
	}
	return unit, true, nil
}

func nowOr(f func() time.Time) time.Time {
	if f != nil {
		return f().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[PostMessageCommand, *PostMessageResult] = (*PostMessageHandler)(nil)
var _ queries.Handler[ListThreadsQuery, []dto.Thread] = (*ListThreadsHandler)(nil)
var _ queries.Handler[GetThreadQuery, dto.Thread] = (*GetThreadHandler)(nil)
