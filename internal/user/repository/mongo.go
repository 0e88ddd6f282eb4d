package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	commonerrors "github.com/AlibekovAA/taskflow/backend/internal/common/errors"
	"github.com/AlibekovAA/taskflow/backend/internal/common/mongodb"
	"github.com/AlibekovAA/taskflow/backend/internal/user/domain"
)

type MongoRepository struct {
	c *mongo.Collection
}

func NewMongoRepository(database *mongo.Database) *MongoRepository {
	return &MongoRepository{c: database.Collection(usersTable)}
}

// EnsureIndexes creates the unique login index.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "login", Value: 1}},
			Options: options.Index().SetName("idx_users_login").SetUnique(true),
		},
	})
	return err
}

func (r *MongoRepository) Create(ctx context.Context, user domain.User) error {
	start := time.Now()
	_, err := r.c.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return commonerrors.ErrLoginAlreadyExists
	}
	return mongodb.HandleError(err, nil, "create user", usersTable, start)
}

func (r *MongoRepository) FindByLogin(ctx context.Context, login string) (domain.User, error) {
	return r.findOne(ctx, bson.M{"login": login}, "find user by login")
}

func (r *MongoRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": string(id)}, "find user by id")
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M, operation string) (domain.User, error) {
	start := time.Now()
	var user domain.User
	err := r.c.FindOne(ctx, filter).Decode(&user)
	if err := mongodb.HandleError(err, commonerrors.ErrUserNotFound, operation, usersTable, start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *MongoRepository) FindByIDs(ctx context.Context, ids []domain.ID) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = string(id)
	}

	start := time.Now()
	cur, err := r.c.Find(ctx, bson.M{"_id": bson.M{"$in": raw}})
	if err != nil {
		return nil, mongodb.HandleError(err, nil, "find users by ids", usersTable, start)
	}
	defer cur.Close(ctx)

	var users []domain.User
	err = cur.All(ctx, &users)
	if err := mongodb.HandleError(err, nil, "find users by ids", usersTable, start); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoRepository) UpdateProfile(ctx context.Context, id domain.ID, profile domain.Profile, updatedAt time.Time) (domain.User, error) {
	start := time.Now()
	update := bson.M{"$set": bson.M{
		"firstName": profile.FirstName,
		"lastName":  profile.LastName,
		"email":     profile.Email,
		"bio":       profile.Bio,
		"updatedAt": updatedAt,
	}}

	var user domain.User
	err := r.c.FindOneAndUpdate(
		ctx,
		bson.M{"_id": string(id)},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err := mongodb.HandleError(err, commonerrors.ErrUserNotFound, "update user profile", usersTable, start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
