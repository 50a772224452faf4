package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	"crowdfund-service/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// setupMongo starts a throwaway MongoDB and returns a fresh database.
// Skipped with -short or when no container runtime is reachable.
func setupMongo(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MongoDB integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate mongo container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := NewMongoDb(ctx, uri)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	return client.Database("crowdfund_test")
}

func TestProjectRepository_Mongo(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()
	repo := NewProjectRepository(db)
	require.NoError(t, repo.EnsureIndexes(ctx))

	t.Run("empty collection", func(t *testing.T) {
		last, err := repo.FindMostRecent(ctx)
		require.NoError(t, err)
		assert.Nil(t, last)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	amount := 1500.5
	for _, id := range []int64{2, 3, 1} {
		p := &model.Project{
			Id:           id,
			Title:        "Solar well",
			Creator:      "Anonymous",
			AmountRaised: &amount,
			Milestones:   []model.Milestone{{Title: "Drill", Amount: 300}},
			CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
		}
		require.NoError(t, repo.Insert(ctx, p))
		assert.False(t, p.ObjectID.IsZero())
	}

	t.Run("most recent has greatest id", func(t *testing.T) {
		last, err := repo.FindMostRecent(ctx)
		require.NoError(t, err)
		require.NotNil(t, last)
		assert.Equal(t, int64(3), last.Id)
	})

	t.Run("find by id", func(t *testing.T) {
		p, err := repo.FindByID(ctx, 2)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "Solar well", p.Title)
		require.NotNil(t, p.AmountRaised)
		assert.Equal(t, 1500.5, *p.AmountRaised)
		assert.Nil(t, p.Upvotes)
		assert.Len(t, p.Milestones, 1)

		missing, err := repo.FindByID(ctx, 42)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("list is stable without writes", func(t *testing.T) {
		first, err := repo.FindAll(ctx)
		require.NoError(t, err)
		second, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, first, 3)
		assert.ElementsMatch(t, first, second)
	})

	t.Run("duplicate id rejected by index", func(t *testing.T) {
		err := repo.Insert(ctx, &model.Project{Id: 3, Title: "dup"})
		require.Error(t, err)
		assert.True(t, mongo.IsDuplicateKeyError(err))
	})

	t.Run("double ids stored by older writers decode", func(t *testing.T) {
		_, err := db.Collection(ProjectCollection).InsertOne(ctx, bson.D{{Key: "id", Value: 7.0}, {Key: "title", Value: "legacy"}})
		require.NoError(t, err)
		p, err := repo.FindByID(ctx, 7)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, int64(7), p.Id)
	})
}

func TestPostRepository_Mongo(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()
	repo := NewPostRepository(db)

	older := &model.Post{Description: "first", CreatedAt: time.Now().Add(-time.Hour).UTC()}
	newer := &model.Post{Description: "second", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Insert(ctx, older))
	require.NoError(t, repo.Insert(ctx, newer))

	posts, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "second", posts[0].Description)
	assert.Equal(t, "first", posts[1].Description)
}

func TestMongoSequence_Next(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()
	seq := NewMongoSequence(db)

	t.Run("starts at one for empty collection", func(t *testing.T) {
		id, err := seq.Next(ctx, "empty", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
	})

	t.Run("continues from existing maximum", func(t *testing.T) {
		id, err := seq.Next(ctx, "seeded", 3)
		require.NoError(t, err)
		assert.Equal(t, int64(4), id)

		id, err = seq.Next(ctx, "seeded", 3)
		require.NoError(t, err)
		assert.Equal(t, int64(5), id)
	})

	// An id whose insert failed is burned: the stored maximum stays at 3
	// and the next caller gets 5, not 4.
	t.Run("failed insert leaves a gap", func(t *testing.T) {
		lost, err := seq.Next(ctx, "gap", 3)
		require.NoError(t, err)
		assert.Equal(t, int64(4), lost)

		id, err := seq.Next(ctx, "gap", 3)
		require.NoError(t, err)
		assert.Equal(t, int64(5), id)
	})

	// With read-max-then-insert allocation both callers would read 0 and
	// both would get id 1. The counter must hand out distinct values.
	t.Run("concurrent callers get distinct ids", func(t *testing.T) {
		const n = 20
		ids := make(chan int64, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				id, err := seq.Next(ctx, "race", 0)
				assert.NoError(t, err)
				ids <- id
			}()
		}
		wg.Wait()
		close(ids)

		seen := make(map[int64]bool, n)
		for id := range ids {
			assert.False(t, seen[id], "id %d handed out twice", id)
			seen[id] = true
		}
		assert.Len(t, seen, n)
	})
}
