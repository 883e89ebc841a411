package mongo

import (
	"context"

	"github.com/dukerupert/seshop/internal/domain"
	"github.com/dukerupert/seshop/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	cursor, err := s.users.Find(ctx, bson.D{}, insertionOrder())
	if err != nil {
		return nil, translate(err, "list users")
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translate(err, "decode users")
	}

	users := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toDomain())
	}
	return users, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return s.findOneUser(ctx, bson.D{{Key: "_id", Value: oid}}, "get user")
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findOneUser(ctx, bson.D{{Key: "email", Value: email}}, "get user by email")
}

func (s *Store) findOneUser(ctx context.Context, filter bson.D, op string) (*domain.User, error) {
	var doc userDocument
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err, op)
	}
	u := doc.toDomain()
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, params repository.CreateUserParams) (*domain.User, error) {
	now := s.now()
	doc := userDocument{
		ID:           primitive.NewObjectID(),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		Photo:        params.Photo,
		Role:         params.Role.String(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		return nil, translate(err, "insert user")
	}
	u := doc.toDomain()
	return &u, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, params repository.UpdateUserParams) (*domain.User, error) {
	return s.updateUser(ctx, id, bson.D{
		{Key: "name", Value: params.Name},
		{Key: "email", Value: params.Email},
		{Key: "password", Value: params.PasswordHash},
		{Key: "photo", Value: params.Photo},
	}, "update user")
}

func (s *Store) SetUserRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	return s.updateUser(ctx, id, bson.D{{Key: "role", Value: role.String()}}, "set user role")
}

func (s *Store) updateUser(ctx context.Context, id string, set bson.D, op string) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set = append(set, bson.E{Key: "updated_at", Value: s.now()})
	var doc userDocument
	err = s.users.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}}, returnAfter()).Decode(&doc)
	if err != nil {
		return nil, translate(err, op)
	}
	u := doc.toDomain()
	return &u, nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc userDocument
	if err := s.users.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		return nil, translate(err, "delete user")
	}
	u := doc.toDomain()
	return &u, nil
}
