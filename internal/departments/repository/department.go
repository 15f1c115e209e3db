package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	departmentserrors "roombook/internal/departments/errors"
	"roombook/pkg/config"
	"roombook/pkg/model"
)

const CollectionName = "Departments"

type DepartmentRepository interface {
	Create(ctx context.Context, department *model.Department) error
	FindAll(ctx context.Context) ([]*model.Department, error)
	Delete(ctx context.Context, id string) error
}

type mongoDepartmentRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoDepartmentRepository(cfg *config.Config) DepartmentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoDepartmentRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoDepartmentRepository) Create(ctx context.Context, department *model.Department) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	department.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, department)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return departmentserrors.ErrDuplicateCode
		}
		return fmt.Errorf("failed to create department: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		department.ID = oid.Hex()
	}
	return nil
}

func (r *mongoDepartmentRepository) FindAll(ctx context.Context) ([]*model.Department, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find departments: %w", err)
	}
	defer cursor.Close(ctx)

	var departments []*model.Department
	if err = cursor.All(ctx, &departments); err != nil {
		return nil, fmt.Errorf("failed to decode departments: %w", err)
	}

	return departments, nil
}

func (r *mongoDepartmentRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", departmentserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}
	if result.DeletedCount == 0 {
		return departmentserrors.ErrNotFound
	}

	return nil
}
