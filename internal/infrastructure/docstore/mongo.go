package docstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"DataDigest/internal/domain"
	"DataDigest/internal/ports"
)

const connectTimeout = 10 * time.Second

// MongoStore mirrors every collection of a run into a MongoDB database.
type MongoStore struct {
	client   *mongo.Client
	database *mongo.Database
	logger   *slog.Logger
}

var _ ports.DocumentSink = (*MongoStore)(nil)

// Open connects to uri and verifies the server is reachable.
func Open(ctx context.Context, uri, database string, log *slog.Logger) (*MongoStore, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, fmt.Errorf("mongo uri is required")
	}
	if database == "" {
		database = "datadigest"
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoStore{client: client, database: client.Database(database), logger: log}, nil
}

// Close disconnects the client.
func (m *MongoStore) Close(ctx context.Context) error {
	if m == nil || m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}

// Replace swaps each collection's documents for the rows of this run.
func (m *MongoStore) Replace(ctx context.Context, runID string, collections []domain.Collection) error {
	if m == nil || m.database == nil {
		return fmt.Errorf("document store is not configured")
	}

	for _, c := range collections {
		coll := m.database.Collection(CollectionName(c.Kind))

		if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("clear %s: %w", c.Kind, err)
		}

		docs := ToDocuments(runID, c)
		if len(docs) > 0 {
			if _, err := coll.InsertMany(ctx, docs); err != nil {
				return fmt.Errorf("insert %s: %w", c.Kind, err)
			}
		}

		if hasColumn(c.Columns, "article_url") {
			index := mongo.IndexModel{Keys: bson.D{{Key: "article_url", Value: 1}}}
			if _, err := coll.Indexes().CreateOne(ctx, index); err != nil {
				return fmt.Errorf("index %s: %w", c.Kind, err)
			}
		}

		if m.logger != nil {
			m.logger.Debug("collection replaced", "kind", c.Kind, "documents", len(docs))
		}
	}
	return nil
}

// CollectionName maps a dataset kind onto a MongoDB collection name.
func CollectionName(kind domain.DatasetKind) string {
	return strings.ReplaceAll(string(kind), "-", "_")
}

// ToDocuments converts rows into ordered documents tagged with runID.
func ToDocuments(runID string, c domain.Collection) []interface{} {
	docs := make([]interface{}, 0, len(c.Rows))
	for _, row := range c.Rows {
		values := row.Values()
		doc := make(bson.D, 0, len(c.Columns)+1)
		doc = append(doc, bson.E{Key: "run_id", Value: runID})
		for i, col := range c.Columns {
			if i < len(values) {
				doc = append(doc, bson.E{Key: col, Value: values[i]})
			}
		}
		docs = append(docs, doc)
	}
	return docs
}

func hasColumn(columns []string, name string) bool {
	for _, c := range columns {
		if c == name {
			return true
		}
	}
	return false
}
