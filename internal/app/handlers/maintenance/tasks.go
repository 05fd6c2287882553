package maintenance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"stayhub/internal/app/actor"
	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainauth "stayhub/internal/domain/auth"
	domainavailability "stayhub/internal/domain/availability"
	domainmaintenance "stayhub/internal/domain/maintenance"
	domainproperty "stayhub/internal/domain/property"
	"stayhub/internal/domain/shared/civil"
)

const (
	createTaskKey   = "maintenance.create"
	completeTaskKey = "maintenance.complete"
	listTasksKey    = "maintenance.list"
)

type CreateTaskCommand struct {
	Actor       actor.Actor
	PropertyID  string
	RoomID      string
	Title       string
	Description string
	Due         string
	Priority    string
	// BlockDates marks the listed calendar dates with a maintenance
	// override so guests cannot book over the work.
	BlockDates []string
}

func (c CreateTaskCommand) Key() string { return createTaskKey }

func (c CreateTaskCommand) Acting() actor.Actor { return c.Actor }

type CreateTaskResult struct {
	TaskID string `json:"task_id"`
}

type CreateTaskHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*CreateTaskResult, error) {
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

	due, err := civil.ParseDate(cmd.Due)
	if err != nil {
		return nil, err
	}
	now := nowOr(h.Now)
	task, err := domainmaintenance.NewTask(
		domainmaintenance.TaskID(uuid.NewString()),
		prop.ID, room.ID, cmd.Title, due,
		domainmaintenance.Priority(cmd.Priority), now,
	)
	if err != nil {
		return nil, err
	}
	task.Description = cmd.Description
	if err := unit.Maintenance().Save(ctx, task); err != nil {
		return nil, err
	}

	for _, raw := range cmd.BlockDates {
		date, err := civil.ParseDate(raw)
		if err != nil {
			return nil, err
		}
		err = unit.Overrides().Upsert(ctx, domainavailability.Override{
			RoomID:    room.ID,
			Date:      date,
			Status:    domainavailability.StatusMaintenance,
			Notes:     cmd.Title,
			UpdatedAt: now,
		})
		if err != nil {
			return nil, err
		}
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &CreateTaskResult{TaskID: string(task.ID)}, nil
}

type CompleteTaskCommand struct {
	Actor  actor.Actor
	TaskID string
}

func (c CompleteTaskCommand) Key() string { return completeTaskKey }

func (c CompleteTaskCommand) Acting() actor.Actor { return c.Actor }

type CompleteTaskResult struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

type CompleteTaskHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *CompleteTaskHandler) Handle(ctx context.Context, cmd CompleteTaskCommand) (*CompleteTaskResult, error) {
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

	task, err := unit.Maintenance().ByID(ctx, domainmaintenance.TaskID(cmd.TaskID))
	if err != nil {
		return nil, err
	}
	prop, err := unit.Properties().ByID(ctx, task.PropertyID)
	if err != nil {
		return nil, err
	}
	if !cmd.Actor.May(prop.OwnerID) {
		return nil, domainauth.ErrUnauthorized
	}
	if err := task.Complete(nowOr(h.Now)); err != nil {
		return nil, err
	}
	if err := unit.Maintenance().Save(ctx, task); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &CompleteTaskResult{TaskID: string(task.ID), Status: string(task.Status)}, nil
}

type ListTasksQuery struct {
	Actor      actor.Actor
	PropertyID string
}

func (q ListTasksQuery) Key() string { return listTasksKey }

func (q ListTasksQuery) Acting() actor.Actor { return q.Actor }

type ListTasksHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListTasksHandler) Handle(ctx context.Context, q ListTasksQuery) ([]dto.Task, error) {
	unit, managed, err := resolve(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if managed {
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		defer unit.Rollback(ctx)
	}

	prop, err := unit.Properties().ByID(ctx, domainproperty.PropertyID(q.PropertyID))
	if err != nil {
		return nil, err
	}
	if !q.Actor.May(prop.OwnerID) {
		return nil, domainauth.ErrUnauthorized
	}
	tasks, err := unit.Maintenance().ByProperty(ctx, prop.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, dto.MapTask(t))
	}
	return out, nil
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

var _ commands.Handler[CreateTaskCommand, *CreateTaskResult] = (*CreateTaskHandler)(nil)
var _ commands.Handler[CompleteTaskCommand, *CompleteTaskResult] = (*CompleteTaskHandler)(nil)
var _ queries.Handler[ListTasksQuery, []dto.Task] = (*ListTasksHandler)(nil)
