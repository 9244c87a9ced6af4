package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/weynak/weynak/internal/common"
	"github.com/weynak/weynak/internal/server/models"
	"github.com/weynak/weynak/internal/timex"
)

// MongoCollection is the collection name used for user documents.
const MongoCollection = "users"

type MongoRepository struct {
	col *mongo.Collection
	now timex.Clock
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col, now: timex.SystemClock}
}

// EnsureIndexes creates the unique email index. Safe to call on every start.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_key"),
	})
	if err != nil {
		return fmt.Errorf("mongo error: %w", err)
	}
	return nil
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.col.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("mongo error: %w", err)
	}
	return &user, nil
}

func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoRepository) FindByEmailAndOtp(ctx context.Context, email, otp string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email, "otp": otp})
}

func (r *MongoRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	now := r.now().UTC()
	created := *user
	created.ID = uuid.NewString()
	created.Otp, created.OtpExpiresAt = nil, nil
	created.CreatedAt, created.UpdatedAt = now, now

	if _, err := r.col.InsertOne(ctx, &created); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("mongo error: %w", err)
	}
	return &created, nil
}

func (r *MongoRepository) SetOtp(ctx context.Context, email, otp string, expiresAt time.Time) (*models.User, error) {
	update := bson.M{"$set": bson.M{
		"otp":            otp,
		"otp_expires_at": expiresAt.UTC(),
		"updated_at":     r.now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := r.col.FindOneAndUpdate(ctx, bson.M{"email": email}, update, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("mongo error: %w", err)
	}
	return &user, nil
}

// UpdatePasswordAndClearOtp matches on both id and code in one conditional
// update; a zero match count means the code was already consumed or replaced.
func (r *MongoRepository) UpdatePasswordAndClearOtp(ctx context.Context, userID, otp, passwordHash string) error {
	update := bson.M{"$set": bson.M{
		"password_hash":  passwordHash,
		"otp":            nil,
		"otp_expires_at": nil,
		"updated_at":     r.now().UTC(),
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": userID, "otp": otp}, update)
	if err != nil {
		return fmt.Errorf("mongo error: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}
