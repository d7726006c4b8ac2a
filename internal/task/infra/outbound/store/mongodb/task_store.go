// en internal/task/infra/outbound/store/mongodb/task_store.go
package mongodb

import (
	"context"
	"errors"
	"fmt"

	taskDomain "github.com/davicafu/taskvault/internal/task/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// TaskStoreMongoDB implementa TaskStore sobre una colección de
// documentos. El _id del documento es la clave derivada TASK#<id>; los
// tags BSON de TaskRecord coinciden con los nombres neutrales del
// patch, así que la traducción a $set/$unset es directa.
type TaskStoreMongoDB struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewTaskStoreMongoDB es el constructor del adapter.
func NewTaskStoreMongoDB(ctx context.Context, client *mongo.Client, dbName string) (*TaskStoreMongoDB, error) {
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("could not ping mongoDB: %w", err)
	}

	return &TaskStoreMongoDB{
		client: client,
		coll:   client.Database(dbName).Collection("tasks"),
	}, nil
}

// --- Escritura ---

// Create hace un put incondicional: ReplaceOne con upsert reproduce la
// semántica "escribe sin guardia de existencia" (los IDs son únicos por
// generación, no por condición).
func (s *TaskStoreMongoDB) Create(ctx context.Context, t *taskDomain.Task) error {
	rec := taskDomain.ToRecord(t)
	opts := options.Replace().SetUpsert(true)
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": rec.PK}, rec, opts)
	return err
}

// Update aplica el patch en el servidor, condicionado a que el
// documento exista, y devuelve el documento resultante.
func (s *TaskStoreMongoDB) Update(ctx context.Context, id uuid.UUID, patch taskDomain.UpdatePatch) (*taskDomain.Task, error) {
	update := bson.M{}
	if len(patch.Set) > 0 {
		set := bson.M{}
		for field, value := range patch.Set {
			set[field] = value
		}
		update["$set"] = set
	}
	if len(patch.Remove) > 0 {
		unset := bson.M{}
		for _, field := range patch.Remove {
			unset[field] = ""
		}
		update["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	res := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": taskDomain.DeriveKey(id)}, update, opts)

	var rec taskDomain.TaskRecord
	if err := res.Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, taskDomain.ErrTaskNotFound
		}
		return nil, err
	}
	return rec.Task(), nil
}

// DeleteByID elimina condicionado a existencia.
func (s *TaskStoreMongoDB) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": taskDomain.DeriveKey(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return taskDomain.ErrTaskNotFound
	}
	return nil
}

// --- Lectura ---

func (s *TaskStoreMongoDB) GetByID(ctx context.Context, id uuid.UUID) (*taskDomain.Task, error) {
	var rec taskDomain.TaskRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": taskDomain.DeriveKey(id)}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, taskDomain.ErrTaskNotFound
		}
		return nil, err
	}
	return rec.Task(), nil
}

// List es el scan completo de la colección, sin orden garantizado.
func (s *TaskStoreMongoDB) List(ctx context.Context) ([]*taskDomain.Task, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tasks := []*taskDomain.Task{}
	for cursor.Next(ctx) {
		var rec taskDomain.TaskRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, err
		}
		tasks = append(tasks, rec.Task())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// Verificación estática de la interfaz
var _ taskDomain.TaskStore = (*TaskStoreMongoDB)(nil)
