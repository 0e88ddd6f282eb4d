package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AlibekovAA/taskflow/backend/internal/common/mongodb"
	"github.com/AlibekovAA/taskflow/backend/internal/project/domain"
)

// MongoRepository keeps one document per project with groups, columns and
// tasks embedded.
type MongoRepository struct {
	c *mongo.Collection
}

func NewMongoRepository(database *mongo.Database) *MongoRepository {
	return &MongoRepository{c: database.Collection(projectsTable)}
}

func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "members", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_projects_members"),
		},
		{
			Keys:    bson.D{{Key: "createdBy", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_projects_created_by"),
		},
	})
	return err
}

func (r *MongoRepository) Create(ctx context.Context, project domain.Project) error {
	start := time.Now()
	_, err := r.c.InsertOne(ctx, project)
	return mongodb.HandleError(err, nil, "create project", projectsTable, start)
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (domain.Project, error) {
	start := time.Now()
	var p domain.Project
	err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err := mongodb.HandleError(err, domain.ErrProjectNotFound, "find project by id", projectsTable, start); err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

func (r *MongoRepository) ListByUser(ctx context.Context, userID string) ([]domain.Project, error) {
	start := time.Now()
	filter := bson.M{"$or": bson.A{
		bson.M{"createdBy": userID},
		bson.M{"members": userID},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "updatedAt", Value: -1}})

	cur, err := r.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, mongodb.HandleError(err, nil, "list projects by user", projectsTable, start)
	}
	defer cur.Close(ctx)

	projects := []domain.Project{}
	err = cur.All(ctx, &projects)
	if err := mongodb.HandleError(err, nil, "list projects by user", projectsTable, start); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *MongoRepository) Replace(ctx context.Context, project domain.Project) error {
	return r.replace(ctx, bson.M{"_id": project.ID}, project, domain.ErrProjectNotFound)
}

func (r *MongoRepository) ReplaceIfVersion(ctx context.Context, project domain.Project, expected int64) error {
	return r.replace(ctx, bson.M{"_id": project.ID, "version": expected}, project, domain.ErrVersionConflict)
}

func (r *MongoRepository) replace(ctx context.Context, filter bson.M, project domain.Project, noMatch error) error {
	start := time.Now()
	res, err := r.c.ReplaceOne(ctx, filter, project)
	if err := mongodb.HandleError(err, nil, "replace project", projectsTable, start); err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return noMatch
	}
	return nil
}
