package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/campus-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// InitSchema creates the unique identity indexes.
func (r *MongoUserRepository) InitSchema(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "uid", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

// CreateUser inserts a new user; a taken uid or email yields ErrDuplicate
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	res, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user %s: %w", user.UID, ErrDuplicate)
		}
		return fmt.Errorf("insert user %s: %w", user.UID, err)
	}
	user.ID = objectIDOf(res.InsertedID, user.ID)
	return nil
}

// GetUserByUID retrieves a user by UID from MongoDB
func (r *MongoUserRepository) GetUserByUID(ctx context.Context, uid string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"uid": uid}, uid)
}

// GetUserByEmail retrieves a user by email from MongoDB
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	return r.findOne(ctx, bson.M{"email": email}, email)
}

// FindByUIDOrEmail retrieves the user owning either key
func (r *MongoUserRepository) FindByUIDOrEmail(ctx context.Context, uid, email string) (*models.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"uid": uid},
		bson.M{"email": models.NormalizeEmail(email)},
	}}
	return r.findOne(ctx, filter, uid)
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M, key string) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, notFound(err, "user", key)
	}
	return &user, nil
}

// GetUsersByUIDs retrieves the users for uids, keeping the order of uids
func (r *MongoUserRepository) GetUsersByUIDs(ctx context.Context, uids []string) ([]models.User, error) {
	if len(uids) == 0 {
		return []models.User{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"uid": bson.M{"$in": uids}})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	var found []models.User
	if err := cursor.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	byUID := make(map[string]*models.User, len(found))
	for i := range found {
		byUID[found[i].UID] = &found[i]
	}
	return orderByUIDs(uids, byUID), nil
}

// UpdateUser replaces the stored document with the same UID
func (r *MongoUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	doc := *user
	doc.ID = primitive.NilObjectID
	res, err := r.collection.ReplaceOne(ctx, bson.M{"uid": user.UID}, &doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user %s: %w", user.UID, ErrDuplicate)
		}
		return fmt.Errorf("replace user %s: %w", user.UID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", user.UID, ErrNotFound)
	}
	return nil
}
