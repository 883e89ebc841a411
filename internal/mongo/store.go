// Package mongo implements the repository ports over MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/seshop/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	ProductsCollection = "products"
	CartsCollection    = "carts"
	UsersCollection    = "users"
)

// Config holds connection settings.
type Config struct {
	URL      string
	Database string
	Options  repository.Options
}

// Store is a repository.Store backed by one MongoDB database.
type Store struct {
	client   *mongo.Client
	db       *mongo.Database
	products *mongo.Collection
	carts    *mongo.Collection
	users    *mongo.Collection
	opts     repository.Options
	now      func() time.Time
}

// Compile-time check that Store implements repository.Store.
var _ repository.Store = (*Store)(nil)

// Open connects, pings the primary and ensures indexes.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if cfg.URL == "" {
		return nil, errors.New("mongo: URL is required")
	}
	if cfg.Database == "" {
		cfg.Database = "seshop"
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().
		ApplyURI(cfg.URL).
		SetAppName("seshop-api"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	s := newStore(client, cfg.Database, cfg.Options)
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("mongo connected",
		"database", cfg.Database,
		"unique_cart_product", cfg.Options.UniqueCartProduct,
	)
	return s, nil
}

func newStore(client *mongo.Client, database string, opts repository.Options) *Store {
	db := client.Database(database)
	return &Store{
		client:   client,
		db:       db,
		products: db.Collection(ProductsCollection),
		carts:    db.Collection(CartsCollection),
		users:    db.Collection(UsersCollection),
		opts:     opts,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// EnsureIndexes creates the indexes the repositories rely on. The unique
// product_id index on carts is only created when UniqueCartProduct is set.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_unique"),
	}); err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	cartIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("carts_email_created"),
		},
	}
	productIndex, stale := cartProductIndex(s.opts.UniqueCartProduct)
	cartIndexes = append(cartIndexes, productIndex)

	// Switching CART_UNIQUE_PRODUCT leaves the other variant on the same keys,
	// which makes CreateMany fail.
	if _, err := s.carts.Indexes().DropOne(ctx, stale); err != nil && !isIndexMissing(err) {
		return fmt.Errorf("failed to drop index %s: %w", stale, err)
	}

	if _, err := s.carts.Indexes().CreateMany(ctx, cartIndexes); err != nil {
		return fmt.Errorf("failed to create carts indexes: %w", err)
	}

	if _, err := s.products.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "category", Value: 1}},
		Options: options.Index().SetName("products_category"),
	}); err != nil {
		return fmt.Errorf("failed to create products index: %w", err)
	}
	return nil
}

// Ping checks the primary is reachable.
const (
	cartProductIndexName       = "carts_product_id"
	cartProductUniqueIndexName = "carts_product_id_unique"
)

// cartProductIndex returns the product id index for the unique setting and
// the name of the variant it replaces.
func cartProductIndex(unique bool) (mongo.IndexModel, string) {
	keys := bson.D{{Key: "product_id", Value: 1}}
	if unique {
		return mongo.IndexModel{
			Keys:    keys,
			Options: options.Index().SetName(cartProductUniqueIndexName).SetUnique(true),
		}, cartProductIndexName
	}
	return mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetName(cartProductIndexName),
	}, cartProductUniqueIndexName
}

// isIndexMissing matches the server errors returned when the index or its
// collection does not exist.
func isIndexMissing(err error) bool {
	var cmdErr mongo.CommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	return cmdErr.Code == 26 || cmdErr.Code == 27 || cmdErr.Name == "IndexNotFound" || cmdErr.Name == "NamespaceNotFound"
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// insertionOrder sorts by creation time, then id.
func insertionOrder() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
}

// objectID parses a hex id. A malformed id cannot match any document.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repository.ErrNotFound
	}
	return oid, nil
}

// translate maps driver errors onto repository errors.
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrDuplicate
	default:
		return fmt.Errorf("mongo %s: %w", op, err)
	}
}

func returnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}
