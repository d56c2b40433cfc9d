// Package mongo implements the store contracts on MongoDB. Engagement
// toggles are single conditional updates that pair $addToSet/$pull with $inc
// so membership and counters never diverge.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/life-lessons/api-go/store"
)

const (
	lessonsCollection = "lessons"
	usersCollection   = "users"
	reportsCollection = "reports"
)

type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	lessons *lessonStore
	users   *userStore
	reports *reportStore
}

var _ store.Store = (*Store)(nil)

// Connect dials the deployment with the stable server API, verifies it with
// a ping and makes sure the unique indexes exist.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(serverAPI).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := NewWithClient(client, database)
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// NewWithClient wraps an already connected client.
func NewWithClient(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client:  client,
		db:      db,
		lessons: &lessonStore{coll: db.Collection(lessonsCollection)},
		users:   &userStore{coll: db.Collection(usersCollection)},
		reports: &reportStore{coll: db.Collection(reportsCollection)},
	}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users email index: %w", err)
	}

	_, err = s.db.Collection(reportsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "lessonId", Value: 1}, {Key: "reporterUserId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("reports pair index: %w", err)
	}

	_, err = s.db.Collection(lessonsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("lessons indexes: %w", err)
	}
	return nil
}

func (s *Store) Lessons() store.LessonStore { return s.lessons }
func (s *Store) Users() store.UserStore     { return s.users }
func (s *Store) Reports() store.ReportStore { return s.reports }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
