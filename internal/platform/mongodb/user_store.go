package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lkemp/userbase/internal/domain"
	"github.com/lkemp/userbase/internal/redact"
	"github.com/lkemp/userbase/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// usersCollection is the collection backing the user store.
const usersCollection = "users"

// userDocument is the persisted shape of a user. The client-supplied user ID
// doubles as the document key, so duplicate creation is caught by the
// collection's unique _id index without an extra lookup.
type userDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	CreatedAt time.Time `bson:"created_at"`
}

// toDomain converts the stored document to the domain entity.
func (d *userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:        d.ID,
		Name:      d.Name,
		Email:     d.Email,
		CreatedAt: d.CreatedAt,
	}
}

// newUserDocument converts a domain entity to its stored shape.
func newUserDocument(u *domain.User) userDocument {
	return userDocument{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// MongoUserStore implements the store.UserStore interface using a MongoDB
// collection as the storage backend.
type MongoUserStore struct {
	conn     *Connection
	database string
	logger   *slog.Logger
}

// NewMongoUserStore creates a new MongoDB implementation of the UserStore
// interface. It accepts the shared connection handle, which is initialized
// and managed by the caller; the store resolves its collection per call so
// that requests arriving before the store connects fail with
// store.ErrUnavailable instead of being queued.
func NewMongoUserStore(conn *Connection, database string, logger *slog.Logger) *MongoUserStore {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for MongoUserStore")
	}

	return &MongoUserStore{
		conn:     conn,
		database: database,
		logger:   logger.With(slog.String("component", "mongo_user_store")),
	}
}

// Ensure MongoUserStore implements store.UserStore interface
var _ store.UserStore = (*MongoUserStore)(nil)

// collection resolves the users collection from the shared connection.
func (s *MongoUserStore) collection() (*mongo.Collection, error) {
	db := s.conn.Database(s.database)
	if db == nil {
		return nil, store.ErrUnavailable
	}
	return db.Collection(usersCollection), nil
}

// Create implements store.UserStore.Create
func (s *MongoUserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	coll, err := s.collection()
	if err != nil {
		return err
	}

	if _, err := coll.InsertOne(ctx, newUserDocument(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrUserExists
		}
		s.logger.Error("failed to insert user",
			"error", redact.Error(err),
			"user_id", user.ID)
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *MongoUserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	coll, err := s.collection()
	if err != nil {
		return nil, err
	}

	var doc userDocument
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrUserNotFound
		}
		s.logger.Error("failed to find user",
			"error", redact.Error(err),
			"user_id", id)
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return doc.toDomain(), nil
}

// List implements store.UserStore.List
func (s *MongoUserStore) List(ctx context.Context) ([]domain.User, error) {
	coll, err := s.collection()
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		s.logger.Error("failed to list users", "error", redact.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		s.logger.Error("failed to decode users", "error", redact.Error(err))
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, *docs[i].toDomain())
	}
	return users, nil
}

// Update implements store.UserStore.Update
func (s *MongoUserStore) Update(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	coll, err := s.collection()
	if err != nil {
		return err
	}

	result, err := coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, newUserDocument(user))
	if err != nil {
		s.logger.Error("failed to update user",
			"error", redact.Error(err),
			"user_id", user.ID)
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return store.ErrUserNotFound
	}

	return nil
}

// Delete implements store.UserStore.Delete
func (s *MongoUserStore) Delete(ctx context.Context, id string) error {
	coll, err := s.collection()
	if err != nil {
		return err
	}

	result, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		s.logger.Error("failed to delete user",
			"error", redact.Error(err),
			"user_id", id)
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.DeletedCount == 0 {
		return store.ErrUserNotFound
	}

	return nil
}
