package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperr "github.com/lectura/mindmap/pkg/errors"
)

// Mongo defaults.
const (
	DefaultMongoDatabase = "mindmap"
	CollectionMindMaps   = "mindmaps"
)

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI      string
	Database string // defaults to DefaultMongoDatabase
}

// MongoStore stores mind maps in a MongoDB collection, one document per
// mind map with the UUID as _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB, verifies the connection and ensures
// the updated_at index used by List.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "mongo uri is required")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeNetwork, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, apperr.Wrap(apperr.ErrCodeNetwork, err, "ping mongo")
	}

	s := NewMongoStoreFromClient(client, cfg.Database)
	_, err = s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "updated_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create index: %w", err)
	}
	return s, nil
}

// NewMongoStoreFromClient wraps an existing client. The caller's client is
// disconnected by Close.
func NewMongoStoreFromClient(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(CollectionMindMaps),
	}
}

func (s *MongoStore) Save(ctx context.Context, m *MindMap) error {
	if err := prepare(m); err != nil {
		return err
	}

	var prev MindMap
	err := s.coll.FindOne(ctx, bson.M{"_id": m.ID},
		options.FindOne().SetProjection(bson.M{"created_at": 1})).Decode(&prev)
	switch {
	case err == nil:
		m.CreatedAt = prev.CreatedAt
	case !errors.Is(err, mongo.ErrNoDocuments):
		return wrapMongo(err, "load mind map %s", m.ID)
	}

	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": m.ID}, m, options.Replace().SetUpsert(true))
	if err != nil {
		return wrapMongo(err, "save mind map %s", m.ID)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*MindMap, error) {
	var m MindMap
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, wrapMongo(err, "get mind map %s", id)
	}
	return &m, nil
}

func (s *MongoStore) List(ctx context.Context, limit int) ([]*MindMap, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(listLimit(limit)))

	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, wrapMongo(err, "list mind maps")
	}
	var out []*MindMap
	if err := cur.All(ctx, &out); err != nil {
		return nil, wrapMongo(err, "decode mind maps")
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapMongo(err, "delete mind map %s", id)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// wrapMongo tags driver errors: timeouts and network failures keep their
// category, anything else is internal.
func wrapMongo(err error, format string, args ...any) error {
	switch {
	case mongo.IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		return apperr.Wrap(apperr.ErrCodeTimeout, err, format, args...)
	case mongo.IsNetworkError(err):
		return apperr.Wrap(apperr.ErrCodeNetwork, err, format, args...)
	}
	return apperr.Wrap(apperr.ErrCodeInternal, err, format, args...)
}

var _ Store = (*MongoStore)(nil)
