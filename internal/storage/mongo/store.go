// Package mongo implements the document store on MongoDB. It is the primary
// backend: unordered InsertMany gives the duplicate-tolerant bulk contract
// natively, and per-document write errors come back partitioned by code.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"moviesetl/internal/storage"
)

func init() {
	storage.Register("mongo", New)
}

const connectTimeout = 10 * time.Second

// duplicateKeyCode is the server's E11000 duplicate key error code.
const duplicateKeyCode = 11000

type store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to the server at cfg.DSN and returns a Store over cfg.Database.
func New(ctx context.Context, cfg storage.Config) (storage.Store, error) {
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongo: missing database name")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	return &store{client: client, db: client.Database(cfg.Database)}, nil
}

func (s *store) InsertMany(ctx context.Context, collection string, docs []storage.Document) (storage.BulkResult, error) {
	if len(docs) == 0 {
		return storage.BulkResult{}, nil
	}

	payload := make([]any, len(docs))
	for i, d := range docs {
		payload[i] = d
	}

	_, err := s.db.Collection(collection).InsertMany(ctx, payload,
		options.InsertMany().SetOrdered(false))
	if err == nil {
		return storage.BulkResult{Inserted: int64(len(docs))}, nil
	}

	// Unordered writes surface per-document failures as a BulkWriteException;
	// everything not listed there was accepted.
	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) {
		return storage.BulkResult{}, fmt.Errorf("mongo: insert %s: %w", collection, err)
	}

	res := storage.BulkResult{Inserted: int64(len(docs) - len(bwe.WriteErrors))}
	for _, we := range bwe.WriteErrors {
		if we.Code == duplicateKeyCode {
			res.Duplicates++
		} else {
			res.Errors++
		}
	}
	return res, nil
}

func (s *store) EnsureIndexes(ctx context.Context, specs []storage.IndexSpec) error {
	byCollection := make(map[string][]mongo.IndexModel)
	for _, spec := range specs {
		keys := bson.D{}
		for _, f := range spec.Fields {
			if spec.Text {
				keys = append(keys, bson.E{Key: f, Value: "text"})
			} else {
				keys = append(keys, bson.E{Key: f, Value: 1})
			}
		}
		opts := options.Index().SetName(spec.Name)
		if spec.Unique {
			opts = opts.SetUnique(true)
		}
		byCollection[spec.Collection] = append(byCollection[spec.Collection],
			mongo.IndexModel{Keys: keys, Options: opts})
	}

	for coll, models := range byCollection {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongo: ensure indexes on %s: %w", coll, err)
		}
	}
	return nil
}

func (s *store) Drop(ctx context.Context, collection string) error {
	if err := s.db.Collection(collection).Drop(ctx); err != nil {
		return fmt.Errorf("mongo: drop %s: %w", collection, err)
	}
	return nil
}

func (s *store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
