package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/user-admin/internal/core/domain"
)

const operatorsCollection = "operators"

// OperatorRepository implements ports.AuthRepository for console operators.
type OperatorRepository struct {
	coll *mongo.Collection
}

func NewOperatorRepository(db *mongo.Database) *OperatorRepository {
	return &OperatorRepository{coll: db.Collection(operatorsCollection)}
}

type mongoOperator struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func (r *OperatorRepository) Create(ctx context.Context, op *domain.Operator) (*domain.Operator, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoOperator{
		Username:     op.Username,
		PasswordHash: op.PasswordHash,
		Role:         op.Role,
		CreatedAt:    op.CreatedAt.Unix(),
		UpdatedAt:    op.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrOperatorExists
		}
		return nil, fmt.Errorf("insert operator: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = id
	}
	return doc.toDomain(), nil
}

func (r *OperatorRepository) FindByUsername(ctx context.Context, username string) (*domain.Operator, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mo mongoOperator
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&mo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOperatorNotFound
		}
		return nil, fmt.Errorf("find operator: %w", err)
	}
	return mo.toDomain(), nil
}

// EnsureIndexes makes usernames unique so Create can report ErrOperatorExists.
func (r *OperatorRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (mo mongoOperator) toDomain() *domain.Operator {
	return &domain.Operator{
		ID:           mo.ID.Hex(),
		Username:     mo.Username,
		PasswordHash: mo.PasswordHash,
		Role:         mo.Role,
		CreatedAt:    unixToTime(mo.CreatedAt),
		UpdatedAt:    unixToTime(mo.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
