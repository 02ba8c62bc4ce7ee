package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Team-Name-exists/Heritiq/apperr"
	"github.com/Team-Name-exists/Heritiq/models"
)

// RevocationStore remembers logged-out tokens until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type GormRevocationStore struct {
	db *gorm.DB
}

func NewGormRevocationStore(db *gorm.DB) *GormRevocationStore {
	return &GormRevocationStore{db: db}
}

func (s *GormRevocationStore) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	db := s.db.WithContext(ctx)
	// Expired rows are no longer needed once their tokens fail to parse.
	if err := db.Where("expires_at < ?", time.Now()).Delete(&models.RevokedToken{}).Error; err != nil {
		return apperr.Persistence(err, "prune revoked tokens")
	}
	err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.RevokedToken{Token: token, ExpiresAt: expiresAt}).Error
	return apperr.FromDB(err, "token not found")
}

func (s *GormRevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.RevokedToken{}).Where("token = ?", token).Count(&n).Error
	if err != nil {
		return false, apperr.Persistence(err, "check revoked token")
	}
	return n > 0, nil
}

// MongoRevocationStore keeps revoked tokens in the blacklist_tokens collection.
type MongoRevocationStore struct {
	coll *mongo.Collection
}

func NewMongoRevocationStore(db *mongo.Database) *MongoRevocationStore {
	return &MongoRevocationStore{coll: db.Collection("blacklist_tokens")}
}

// EnsureIndexes lets Mongo drop documents once their expiry passes.
func (s *MongoRevocationStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	})
	return err
}

func (s *MongoRevocationStore) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"token": token},
		bson.M{"$setOnInsert": bson.M{"token": token, "expiresAt": expiresAt, "exp": expiresAt.Unix()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return apperr.Persistence(err, "revoke token")
	}
	return nil
}

func (s *MongoRevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	err := s.coll.FindOne(ctx, bson.M{"token": token}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, apperr.Persistence(err, "check revoked token")
	}
	return true, nil
}
