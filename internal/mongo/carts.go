package mongo

import (
	"context"

	"github.com/dukerupert/seshop/internal/domain"
	"github.com/dukerupert/seshop/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) ListCartItems(ctx context.Context) ([]domain.CartItem, error) {
	return s.findCartItems(ctx, bson.D{})
}

func (s *Store) ListCartItemsByOwner(ctx context.Context, email string) ([]domain.CartItem, error) {
	return s.findCartItems(ctx, bson.D{{Key: "email", Value: email}})
}

func (s *Store) findCartItems(ctx context.Context, filter bson.D) ([]domain.CartItem, error) {
	cursor, err := s.carts.Find(ctx, filter, insertionOrder())
	if err != nil {
		return nil, translate(err, "list cart items")
	}

	var docs []cartDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translate(err, "decode cart items")
	}

	items := make([]domain.CartItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toDomain())
	}
	return items, nil
}

func (s *Store) GetCartItem(ctx context.Context, id string) (*domain.CartItem, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return s.findOneCartItem(ctx, bson.D{{Key: "_id", Value: oid}}, "get cart item")
}

func (s *Store) FindCartItemByProduct(ctx context.Context, productID, ownerEmail string) (*domain.CartItem, error) {
	return s.findOneCartItem(ctx, cartFilter(productID, ownerEmail), "find cart item by product")
}

func (s *Store) findOneCartItem(ctx context.Context, filter bson.D, op string) (*domain.CartItem, error) {
	var doc cartDocument
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	if err := s.carts.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		return nil, translate(err, op)
	}
	item := doc.toDomain()
	return &item, nil
}

func (s *Store) CreateCartItem(ctx context.Context, params repository.CreateCartItemParams) (*domain.CartItem, error) {
	now := s.now()
	doc := cartDocument{
		ID:         primitive.NewObjectID(),
		ProductID:  params.ProductID,
		OwnerEmail: params.OwnerEmail,
		Name:       params.Name,
		Price:      params.Price,
		Image:      params.Image,
		Quantity:   params.Quantity,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.carts.InsertOne(ctx, doc); err != nil {
		return nil, translate(err, "insert cart item")
	}
	item := doc.toDomain()
	return &item, nil
}

func (s *Store) UpdateCartItem(ctx context.Context, id string, params domain.UpdateItemParams) (*domain.CartItem, error) {
	return s.updateCartItem(ctx, id, bson.D{
		{Key: "product_id", Value: params.ProductID},
		{Key: "email", Value: params.OwnerEmail},
		{Key: "name", Value: params.Name},
		{Key: "price", Value: params.Price},
		{Key: "image", Value: params.Image},
		{Key: "quantity", Value: params.Quantity},
	}, "update cart item")
}

func (s *Store) SetCartItemQuantity(ctx context.Context, id string, quantity int) (*domain.CartItem, error) {
	return s.updateCartItem(ctx, id, bson.D{{Key: "quantity", Value: quantity}}, "set cart item quantity")
}

func (s *Store) updateCartItem(ctx context.Context, id string, set bson.D, op string) (*domain.CartItem, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set = append(set, bson.E{Key: "updated_at", Value: s.now()})
	var doc cartDocument
	err = s.carts.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}}, returnAfter()).Decode(&doc)
	if err != nil {
		return nil, translate(err, op)
	}
	item := doc.toDomain()
	return &item, nil
}

func (s *Store) DeleteCartItem(ctx context.Context, id string) (*domain.CartItem, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc cartDocument
	if err := s.carts.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		return nil, translate(err, "delete cart item")
	}
	item := doc.toDomain()
	return &item, nil
}

func (s *Store) DeleteCartItemsByOwner(ctx context.Context, email string) (int64, error) {
	res, err := s.carts.DeleteMany(ctx, bson.D{{Key: "email", Value: email}})
	if err != nil {
		return 0, translate(err, "delete cart items by owner")
	}
	return res.DeletedCount, nil
}
