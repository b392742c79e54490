// Package interfaces defines service and storage contracts for Satchel
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/satchel/internal/models"
)

// StorageManager coordinates all storage backends. The backing store is
// assumed durable and per-record atomic; no multi-record transactions
// are available, which is why stock mutation goes through the
// conditional-update operations on CatalogStore.
type StorageManager interface {
	Users() UserStore
	Catalog() CatalogStore
	Carts() CartStore
	Orders() OrderStore
	Files() FileStore

	Close() error
}

// UserStore manages profile records and login credentials.
type UserStore interface {
	Get(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, userID string) error
	// List returns all profiles, optionally filtered by role ("" = all).
	List(ctx context.Context, roleFilter models.Role) ([]*models.User, error)

	GetCredential(ctx context.Context, userID string) (*models.Credential, error)
	SaveCredential(ctx context.Context, cred *models.Credential) error
}

// CatalogStore manages products and promotions. Stock arithmetic is
// exposed only as conditional updates so concurrent checkouts can never
// drive stock negative.
type CatalogStore interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	SaveProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	// ListProducts returns all products, optionally filtered by creator
	// ("" = all).
	ListProducts(ctx context.Context, creatorID string) ([]*models.Product, error)

	// DecrementStock subtracts qty only while stock >= qty, as a single
	// atomic store write. It returns the remaining stock on success and
	// an insufficient-stock fault carrying the available quantity when
	// the condition cannot be met.
	DecrementStock(ctx context.Context, id string, qty int) (remaining int, err error)
	// IncrementStock adds qty back; used by compensation and
	// cancellation paths.
	IncrementStock(ctx context.Context, id string, qty int) error
	// AppendRating appends one rating entry to the product.
	AppendRating(ctx context.Context, productID string, rating models.ProductRating) error

	GetPromotion(ctx context.Context, id string) (*models.Promotion, error)
	SavePromotion(ctx context.Context, promo *models.Promotion) error
	DeletePromotion(ctx context.Context, id string) error
	// ListPromotions returns all promotions, optionally filtered by
	// category ("" = all; the storewide "All" category always matches).
	ListPromotions(ctx context.Context, category string) ([]*models.Promotion, error)
}

// CartStore manages cart and wishlist rows keyed by (userID, productID).
type CartStore interface {
	Get(ctx context.Context, userID, productID string) (*models.CartItem, error)
	Put(ctx context.Context, item *models.CartItem) error
	Delete(ctx context.Context, userID, productID string) error
	List(ctx context.Context, userID string) ([]*models.CartItem, error)
	Clear(ctx context.Context, userID string) error

	PutWishlist(ctx context.Context, item *models.WishlistItem) error
	DeleteWishlist(ctx context.Context, userID, productID string) error
	ListWishlist(ctx context.Context, userID string) ([]*models.WishlistItem, error)
}

// OrderStore persists immutable order snapshots. Orders are never
// deleted; only UpdateStatus mutates them after creation.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, id string) (*models.Order, error)
	// UpdateStatus swaps status from -> to as a conditional write: it
	// fails with an illegal-transition fault when the stored status no
	// longer equals from. When rating > 0 the rating and review are
	// attached in the same write.
	UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus, rating int, review string) error
	ListByUser(ctx context.Context, userID string) ([]*models.Order, error)
	ListAll(ctx context.Context) ([]*models.Order, error)
	// ListCreatedBetween returns orders with from <= CreatedAt < to.
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*models.Order, error)
}

// FileStore provides opaque binary storage. The core keeps only the
// returned URL on records; it never inspects content.
type FileStore interface {
	SaveFile(ctx context.Context, folder, key string, data []byte, contentType string) (url string, err error)
	GetFile(ctx context.Context, folder, key string) (data []byte, contentType string, err error)
	DeleteFile(ctx context.Context, folder, key string) error
}
