package problems

import (
	"context"
	"errors"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client wraps a MongoDB connection.
type Client struct{ raw *mongo.Client }

func NewClient(ctx context.Context, uri string) (*Client, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is empty")
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := c.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return &Client{raw: c}, nil
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Disconnect(ctx)
}

// Repo reads problems from a MongoDB collection.
type Repo struct{ col *mongo.Collection }

// NewRepo resolves the database/collection and ensures a unique index on
// the problem id.
func NewRepo(c *Client) (*Repo, error) {
	if c == nil || c.raw == nil {
		return nil, errors.New("mongo client not initialized")
	}

	dbName := os.Getenv("PROBLEMS_DB_NAME")
	if dbName == "" {
		dbName = "skypad"
	}
	colName := os.Getenv("PROBLEMS_COLLECTION")
	if colName == "" {
		colName = "problems"
	}

	col := c.raw.Database(dbName).Collection(colName)
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "problem_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &Repo{col: col}, nil
}

func (r *Repo) GetProblem(ctx context.Context, problemID string) (*Problem, error) {
	var p Problem
	err := r.col.FindOne(ctx, bson.M{"problem_id": problemID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProblemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
