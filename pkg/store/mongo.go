package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/folio/pkg/project"
)

// Defaults for MongoStore.
const (
	DefaultDatabase   = "folio"
	SnapshotsCollName = "snapshots"
)

// MongoStore persists snapshots in MongoDB. Every snapshot is kept; Latest
// reads the newest one through an index on (user, taken_at desc).
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type snapshotDoc struct {
	ID       string            `bson:"_id"`
	User     string            `bson:"user"`
	TakenAt  time.Time         `bson:"taken_at"`
	Projects []project.Project `bson:"projects"`
}

// NewMongoStore connects to uri and prepares the snapshots collection in
// database (DefaultDatabase if empty).
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	s, err := NewMongoStoreFromClient(ctx, client, database)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// NewMongoStoreFromClient uses an existing client. Close disconnects it.
func NewMongoStoreFromClient(ctx context.Context, client *mongo.Client, database string) (*MongoStore, error) {
	if database == "" {
		database = DefaultDatabase
	}
	coll := client.Database(database).Collection(SnapshotsCollName)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "taken_at", Value: -1}},
	})
	if err != nil {
		return nil, fmt.Errorf("create snapshot index: %w", err)
	}
	return &MongoStore{client: client, coll: coll}, nil
}

func (m *MongoStore) Save(ctx context.Context, s Snapshot) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	doc := snapshotDoc{
		ID:       s.ID.String(),
		User:     normalizeUser(s.User),
		TakenAt:  s.TakenAt.UTC(),
		Projects: s.Projects,
	}
	if _, err := m.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (m *MongoStore) Latest(ctx context.Context, user string) (*Snapshot, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "taken_at", Value: -1}})

	var doc snapshotDoc
	err := m.coll.FindOne(ctx, bson.M{"user": normalizeUser(user)}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: bad id %q: %w", doc.ID, err)
	}
	return &Snapshot{
		ID:       id,
		User:     doc.User,
		TakenAt:  doc.TakenAt,
		Projects: doc.Projects,
	}, nil
}

func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
