package otpRepo

import (
	"context"
	"fmt"
	"time"

	"hotelpms/database"
	"hotelpms/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOTPRepo implements OTPRepository using MongoDB.
type MongoOTPRepo struct {
	coll *mongo.Collection
}

// NewMongoOTPRepo creates a new instance of OTPRepository using MongoDB.
func NewMongoOTPRepo() OTPRepository {
	coll := database.MongoClient.Database("hotelpms").Collection("otps")
	repo := &MongoOTPRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes sets up lookup and TTL indexes. The TTL index garbage-collects
// expired codes; reads still filter on expiry since TTL deletion is lazy.
func (r *MongoOTPRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "deviceId", Value: 1}}},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create stores a new challenge record.
func (r *MongoOTPRepo) Create(rec *models.DeviceOTP) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}
	return nil
}

// Consume finds and deletes the matching unexpired record in one operation,
// so a code can only ever be redeemed once.
func (r *MongoOTPRepo) Consume(userID, deviceID, code string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"userId":    userID,
		"deviceId":  deviceID,
		"otp":       code,
		"expiresAt": bson.M{"$gt": time.Now()},
	}

	res := r.coll.FindOneAndDelete(ctx, filter)
	if err := res.Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNoMatch
		}
		return fmt.Errorf("failed to consume OTP: %w", err)
	}
	return nil
}
