package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nbminh24/lecas-identity/internal/core/domain"
	"github.com/nbminh24/lecas-identity/internal/core/ports"
)

const userCollection = "users"

// UserRepository persists user records in MongoDB. Unique indexes on email,
// username and external_id make the store itself the arbiter of identity
// uniqueness: concurrent check-then-write sequences cannot produce two
// records sharing a key.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(userCollection)}
}

// EnsureIndexes creates the unique indexes. Username and external_id are
// optional fields, so their indexes are partial: absence is not a conflict.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"username": bson.M{"$type": "string"}}),
		},
		{
			Keys: bson.D{{Key: "external_id", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"external_id": bson.M{"$type": "string"}}),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     *string            `bson:"username,omitempty"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash,omitempty"`
	ExternalID   *string            `bson:"external_id,omitempty"`
	DisplayName  string             `bson:"display_name,omitempty"`
	AvatarURL    string             `bson:"avatar_url,omitempty"`
	Role         string             `bson:"role"`
	Address      string             `bson:"address,omitempty"`
	Phone        string             `bson:"phone,omitempty"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if !user.HasAuthMethod() {
		return nil, domain.ErrValidation
	}

	doc := mongoUser{
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		DisplayName:  user.DisplayName,
		AvatarURL:    user.AvatarURL,
		Role:         string(user.Role),
		Address:      user.Address,
		Phone:        user.Phone,
		CreatedAt:    user.CreatedAt.Unix(),
		UpdatedAt:    user.UpdatedAt.Unix(),
	}
	if user.Username != "" {
		doc.Username = &user.Username
	}
	if user.ExternalID != "" {
		doc.ExternalID = &user.ExternalID
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"external_id": externalID})
}

// Update applies the non-nil patch fields and stamps updated_at in the same
// atomic write.
func (r *UserRepository) Update(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	if patch.Username != nil {
		set["username"] = *patch.Username
	}
	if patch.PasswordHash != nil {
		set["password_hash"] = *patch.PasswordHash
	}
	if patch.ExternalID != nil {
		set["external_id"] = *patch.ExternalID
	}
	if patch.DisplayName != nil {
		set["display_name"] = *patch.DisplayName
	}
	if patch.AvatarURL != nil {
		set["avatar_url"] = *patch.AvatarURL
	}
	if patch.Role != nil {
		set["role"] = string(*patch.Role)
	}
	if patch.Address != nil {
		set["address"] = *patch.Address
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mu mongoUser
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&mu)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	return fromMongo(&mu), nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []domain.User
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, *fromMongo(&mu))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return fromMongo(&mu), nil
}

func fromMongo(mu *mongoUser) *domain.User {
	u := &domain.User{
		ID:           mu.ID.Hex(),
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		DisplayName:  mu.DisplayName,
		AvatarURL:    mu.AvatarURL,
		Role:         domain.Role(mu.Role),
		Address:      mu.Address,
		Phone:        mu.Phone,
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}
	if mu.Username != nil {
		u.Username = *mu.Username
	}
	if mu.ExternalID != nil {
		u.ExternalID = *mu.ExternalID
	}
	return u
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
