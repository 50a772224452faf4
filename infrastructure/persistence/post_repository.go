package persistence

import (
	"context"
	"fmt"

	"crowdfund-service/domain/model"
	"crowdfund-service/domain/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type PostRepository struct {
	collection *mongo.Collection
}

func NewPostRepository(db *mongo.Database) repository.IPost {
	return &PostRepository{collection: db.Collection(PostCollection)}
}

func (r *PostRepository) Insert(ctx context.Context, post *model.Post) error {
	res, err := r.collection.InsertOne(ctx, post)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		post.ObjectID = oid
	}
	return nil
}

// FindAll returns posts newest first.
func (r *PostRepository) FindAll(ctx context.Context) ([]model.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer cursor.Close(ctx)

	posts := make([]model.Post, 0)
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}
