package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mazeerrors "github.com/matzehuels/tiltmaze/pkg/errors"
	"github.com/matzehuels/tiltmaze/pkg/level"
)

// Defaults for the mongo backend.
const (
	DefaultMongoURI      = "mongodb://localhost:27017"
	DefaultMongoDatabase = "tiltmaze"
	mongoCollection      = "levels"
)

// MongoStore keeps levels in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// record is the stored document. Summary fields sit at the top level so
// listings can skip the cell array; the seed is stored as the int64 with
// the same bits, since BSON has no unsigned 64-bit type.
type record struct {
	ID        string       `bson:"_id"`
	Name      string       `bson:"name,omitempty"`
	Size      int          `bson:"size"`
	Seed      int64        `bson:"seed"`
	NextLevel string       `bson:"next_level,omitempty"`
	CreatedAt time.Time    `bson:"created_at"`
	Level     *level.Level `bson:"level,omitempty"`
}

func toRecord(l *level.Level) record {
	return record{
		ID:        l.ID,
		Name:      l.Name,
		Size:      l.Size,
		Seed:      int64(l.Seed),
		NextLevel: l.NextLevel,
		CreatedAt: l.CreatedAt,
		Level:     l,
	}
}

func (r record) summary() level.Summary {
	return level.Summary{
		ID:        r.ID,
		Name:      r.Name,
		Size:      r.Size,
		Seed:      uint64(r.Seed),
		NextLevel: r.NextLevel,
		CreatedAt: r.CreatedAt,
	}
}

func (r record) level() (*level.Level, error) {
	if r.Level == nil {
		return nil, mazeerrors.New(mazeerrors.ErrCodeInvalidLevel, "stored level %s has no document", r.ID)
	}
	l := r.Level
	l.ID = r.ID
	l.Seed = uint64(r.Seed)
	l.CreatedAt = r.CreatedAt
	return l, nil
}

// NewMongoStore connects to uri and pings the server. Empty arguments fall
// back to DefaultMongoURI and DefaultMongoDatabase.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if uri == "" {
		uri = DefaultMongoURI
	}
	if database == "" {
		database = DefaultMongoDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, mazeerrors.Wrap(mazeerrors.ErrCodeNetwork, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, mazeerrors.Wrap(mazeerrors.ErrCodeNetwork, err, "ping mongo")
	}

	coll := client.Database(database).Collection(mongoCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &MongoStore{client: client, coll: coll}, nil
}

func (s *MongoStore) Save(ctx context.Context, l *level.Level) error {
	if err := prepare(l); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": l.ID}, toRecord(l), options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save level %s: %w", l.ID, err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*level.Level, error) {
	var r record
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get level %s: %w", id, err)
	}
	return r.level()
}

func (s *MongoStore) List(ctx context.Context) ([]level.Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"level": 0})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	var records []record
	if err := cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}

	out := make([]level.Summary, len(records))
	for i, r := range records {
		out[i] = r.summary()
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete level %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
