package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainmaintenance "stayhub/internal/domain/maintenance"
	domainproperty "stayhub/internal/domain/property"
	"stayhub/internal/domain/shared/civil"
)

type MaintenanceRepository struct {
	col *mongo.Collection
}

func NewMaintenanceRepository(db *mongo.Database) *MaintenanceRepository {
	return &MaintenanceRepository{col: db.Collection("maintenance_task")}
}

func (r *MaintenanceRepository) ByID(ctx context.Context, id domainmaintenance.TaskID) (*domainmaintenance.Task, error) {
	var doc taskDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainmaintenance.ErrTaskNotFound
		}
		return nil, err
	}
	return doc.toTask()
}

func (r *MaintenanceRepository) ByProperty(ctx context.Context, propertyID domainproperty.PropertyID) ([]*domainmaintenance.Task, error) {
	cursor, err := r.col.Find(ctx, bson.M{"property_id": string(propertyID)}, options.Find().SetSort(bson.M{"created_at": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainmaintenance.Task
	for cursor.Next(ctx) {
		var doc taskDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		task, err := doc.toTask()
		if err != nil {
			return nil, err
		}
		out = append(out, task)
	}
	return out, cursor.Err()
}

func (r *MaintenanceRepository) Save(ctx context.Context, task *domainmaintenance.Task) error {
	doc := newTaskDocument(task)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

type taskDocument struct {
	ID          string `bson:"_id"`
	PropertyID  string `bson:"property_id"`
	RoomID      string `bson:"room_id"`
	Title       string `bson:"title"`
	Description string `bson:"description,omitempty"`
	Due         string `bson:"due,omitempty"`
	Priority    string `bson:"priority"`
	Status      string `bson:"status"`
	CreatedAt   int64  `bson:"created_at"`
	UpdatedAt   int64  `bson:"updated_at"`
}

func newTaskDocument(t *domainmaintenance.Task) taskDocument {
	doc := taskDocument{
		ID:          string(t.ID),
		PropertyID:  string(t.PropertyID),
		RoomID:      string(t.RoomID),
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt.UnixMilli(),
		UpdatedAt:   t.UpdatedAt.UnixMilli(),
	}
	if !t.Due.IsZero() {
		doc.Due = t.Due.String()
	}
	return doc
}

func (d taskDocument) toTask() (*domainmaintenance.Task, error) {
	task := &domainmaintenance.Task{
		ID:          domainmaintenance.TaskID(d.ID),
		PropertyID:  domainproperty.PropertyID(d.PropertyID),
		RoomID:      domainproperty.RoomID(d.RoomID),
		Title:       d.Title,
		Description: d.Description,
		Priority:    domainmaintenance.Priority(d.Priority),
		Status:      domainmaintenance.TaskStatus(d.Status),
		CreatedAt:   timestampToTime(d.CreatedAt),
		UpdatedAt:   timestampToTime(d.UpdatedAt),
	}
	if d.Due != "" {
		due, err := civil.ParseDate(d.Due)
		if err != nil {
			return nil, err
		}
		task.Due = due
	}
	return task, nil
}

var _ domainmaintenance.Repository = (*MaintenanceRepository)(nil)
