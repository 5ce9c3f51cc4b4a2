package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/campus-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection("comments"), now: time.Now}
}

// InitSchema creates the index backing the per-post queries.
func (r *MongoCommentRepository) InitSchema(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "postId", Value: 1}, {Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "parentCommentId", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create comment indexes: %w", err)
	}
	return nil
}

// CreateComment stores a new comment in MongoDB
func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	now := r.now()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	if comment.Likes == nil {
		comment.Likes = []string{}
	}
	if comment.Mentions == nil {
		comment.Mentions = []string{}
	}
	res, err := r.collection.InsertOne(ctx, comment)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	comment.ID = objectIDOf(res.InsertedID, comment.ID)
	return nil
}

// GetCommentByID retrieves a comment by ID from MongoDB
func (r *MongoCommentRepository) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	objID, err := parseObjectID("comment", id)
	if err != nil {
		return nil, err
	}
	var comment models.Comment
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&comment); err != nil {
		return nil, notFound(err, "comment", id)
	}
	return &comment, nil
}

// GetCommentsByPostID retrieves all comments of a post, oldest first
func (r *MongoCommentRepository) GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error) {
	objID, err := parseObjectID("post", postID)
	if err != nil {
		return nil, err
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"postId": objID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find comments of post %s: %w", postID, err)
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("decode comments of post %s: %w", postID, err)
	}
	return comments, nil
}

// CountByPostID counts every comment of a post, replies included
func (r *MongoCommentRepository) CountByPostID(ctx context.Context, postID string) (int64, error) {
	objID, err := parseObjectID("post", postID)
	if err != nil {
		return 0, err
	}
	n, err := r.collection.CountDocuments(ctx, bson.M{"postId": objID})
	if err != nil {
		return 0, fmt.Errorf("count comments of post %s: %w", postID, err)
	}
	return n, nil
}

// ToggleLike adds or removes userID from the comment's likes in one atomic update
func (r *MongoCommentRepository) ToggleLike(ctx context.Context, id, userID string) (*models.Comment, error) {
	objID, err := parseObjectID("comment", id)
	if err != nil {
		return nil, err
	}
	var comment models.Comment
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, toggleLikeUpdate(userID, r.now()),
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&comment)
	if err != nil {
		return nil, notFound(err, "comment", id)
	}
	return &comment, nil
}
