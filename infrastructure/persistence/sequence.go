package persistence

import (
	"context"
	"fmt"

	"crowdfund-service/domain/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoSequence keeps one counter document per name in the counters
// collection. Each call is a single FindOneAndUpdate, so concurrent callers
// never observe the same value.
type MongoSequence struct {
	collection *mongo.Collection
}

func NewMongoSequence(db *mongo.Database) repository.ISequence {
	return &MongoSequence{collection: db.Collection(CounterCollection)}
}

type counter struct {
	Name string `bson:"_id"`
	Seq  int64  `bson:"seq"`
}

// Next sets seq to max(seq, floor) + 1 and returns it.
func (s *MongoSequence) Next(ctx context.Context, name string, floor int64) (int64, error) {
	filter := bson.D{{Key: "_id", Value: name}}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "seq", Value: bson.D{{Key: "$add", Value: bson.A{
			bson.D{{Key: "$max", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$seq", int64(0)}}},
				floor,
			}}},
			int64(1),
		}}}}}}},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var c counter
	err := s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&c)
	if mongo.IsDuplicateKeyError(err) {
		// two first-time upserts raced on _id; the document exists now
		err = s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&c)
	}
	if err != nil {
		return 0, fmt.Errorf("next %s sequence: %w", name, err)
	}
	return c.Seq, nil
}
