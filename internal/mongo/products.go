package mongo

import (
	"context"

	"github.com/dukerupert/seshop/internal/domain"
	"github.com/dukerupert/seshop/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *Store) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	cursor, err := s.products.Find(ctx, productFilter(filter), insertionOrder())
	if err != nil {
		return nil, translate(err, "list products")
	}

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translate(err, "decode products")
	}

	products := make([]domain.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.toDomain())
	}
	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc productDocument
	if err := s.products.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		return nil, translate(err, "get product")
	}
	p := doc.toDomain()
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, params domain.ProductParams) (*domain.Product, error) {
	now := s.now()
	doc := productDocument{
		ID:          primitive.NewObjectID(),
		Name:        params.Name,
		Price:       params.Price,
		Description: params.Description,
		Image:       params.Image,
		Category:    params.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.products.InsertOne(ctx, doc); err != nil {
		return nil, translate(err, "insert product")
	}
	p := doc.toDomain()
	return &p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id string, params domain.ProductParams) (*domain.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: params.Name},
		{Key: "price", Value: params.Price},
		{Key: "description", Value: params.Description},
		{Key: "image", Value: params.Image},
		{Key: "category", Value: params.Category},
		{Key: "updated_at", Value: s.now()},
	}}}

	var doc productDocument
	err = s.products.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, returnAfter()).Decode(&doc)
	if err != nil {
		return nil, translate(err, "update product")
	}
	p := doc.toDomain()
	return &p, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := s.products.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return translate(err, "delete product")
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
