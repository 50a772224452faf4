package persistence

import (
	"context"
	"errors"
	"fmt"

	"crowdfund-service/domain/model"
	"crowdfund-service/domain/repository"
	"crowdfund-service/infrastructure/logger"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type ProjectRepository struct {
	collection *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{collection: db.Collection(ProjectCollection)}
}

var _ repository.IProject = (*ProjectRepository)(nil)

// EnsureIndexes creates the unique index on the sequential id. Safe to call
// at every startup.
func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_project_id"),
	})
	if err != nil {
		return fmt.Errorf("create projects id index: %w", err)
	}
	return nil
}

func (r *ProjectRepository) FindMostRecent(ctx context.Context) (*model.Project, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}})
	var project model.Project
	err := r.collection.FindOne(ctx, bson.D{}, opts).Decode(&project)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find most recent project: %w", err)
	}
	return &project, nil
}

func (r *ProjectRepository) FindAll(ctx context.Context) ([]model.Project, error) {
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find projects: %w", err)
	}
	defer func(cursor *mongo.Cursor, ctx context.Context) {
		if err := cursor.Close(ctx); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while closing cursor")
		}
	}(cursor, ctx)

	projects := make([]model.Project, 0)
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}
	return projects, nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id int64) (*model.Project, error) {
	var project model.Project
	err := r.collection.FindOne(ctx, bson.D{{Key: "id", Value: id}}).Decode(&project)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find project %d: %w", id, err)
	}
	return &project, nil
}

func (r *ProjectRepository) Insert(ctx context.Context, project *model.Project) error {
	res, err := r.collection.InsertOne(ctx, project)
	if err != nil {
		return fmt.Errorf("insert project %d: %w", project.Id, err)
	}
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		project.ObjectID = oid
	}
	return nil
}
