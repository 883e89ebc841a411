package mongo

import (
	"time"

	"github.com/dukerupert/seshop/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type productDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Price       float64            `bson:"price"`
	Description string             `bson:"description"`
	Image       string             `bson:"image"`
	Category    string             `bson:"category"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d productDocument) toDomain() domain.Product {
	return domain.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Price:       d.Price,
		Description: d.Description,
		Image:       d.Image,
		Category:    d.Category,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type cartDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	ProductID  string             `bson:"product_id"`
	OwnerEmail string             `bson:"email"`
	Name       string             `bson:"name"`
	Price      float64            `bson:"price"`
	Image      string             `bson:"image"`
	Quantity   int                `bson:"quantity"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func (d cartDocument) toDomain() domain.CartItem {
	return domain.CartItem{
		ID:         d.ID.Hex(),
		ProductID:  d.ProductID,
		OwnerEmail: d.OwnerEmail,
		Name:       d.Name,
		Price:      d.Price,
		Image:      d.Image,
		Quantity:   d.Quantity,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password"`
	Photo        string             `bson:"photo"`
	Role         string             `bson:"role"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

// toDomain converts the stored role string. Unknown roles decode as the
// zero Role, which grants nothing.
func (d userDocument) toDomain() domain.User {
	role, _ := domain.ParseRole(d.Role)
	return domain.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Photo:        d.Photo,
		Role:         role,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// cartFilter selects lines for productID, optionally narrowed to one owner.
func cartFilter(productID, ownerEmail string) bson.D {
	filter := bson.D{{Key: "product_id", Value: productID}}
	if ownerEmail != "" {
		filter = append(filter, bson.E{Key: "email", Value: ownerEmail})
	}
	return filter
}

// productFilter builds the list filter for f.
func productFilter(f domain.ProductFilter) bson.D {
	filter := bson.D{}
	if f.Category != "" {
		filter = append(filter, bson.E{Key: "category", Value: f.Category})
	}
	return filter
}
