package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/satchel/internal/common"
	"github.com/bobmcallan/satchel/internal/models"
)

// ProfileService manages user profile records.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*models.User, error)
	// EnsureExists provisions a default customer profile on first
	// authenticated sighting of userID; it is an idempotent no-op when
	// the profile already exists.
	EnsureExists(ctx context.Context, userID, email string) (*models.User, error)
	// Save fully replaces the profile. Non-admin callers may only save
	// their own profile and may not change role or level.
	Save(ctx context.Context, caller *common.Caller, profile *models.User) (*models.User, error)
	// SetRole assigns role and level, preserving every other field.
	SetRole(ctx context.Context, caller *common.Caller, userID string, role models.Role, level models.Level) (*models.User, error)
	List(ctx context.Context, caller *common.Caller, roleFilter models.Role) ([]*models.User, error)
	Delete(ctx context.Context, caller *common.Caller, userID string) error
}

// CatalogService manages products, promotions, and effective pricing.
type CatalogService interface {
	CreateProduct(ctx context.Context, caller *common.Caller, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, caller *common.Caller, product *models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, caller *common.Caller, id string) error
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, creatorID string) ([]*models.Product, error)
	// AdjustStock applies an explicit staff stock correction using the
	// same conditional-update discipline as checkout.
	AdjustStock(ctx context.Context, caller *common.Caller, productID string, delta int) (*models.Product, error)

	CreatePromotion(ctx context.Context, caller *common.Caller, promo *models.Promotion) (*models.Promotion, error)
	DeletePromotion(ctx context.Context, caller *common.Caller, id string) error
	ListPromotions(ctx context.Context, category string) ([]*models.Promotion, error)
	// ResolveEffectivePrice applies the best-matching active promotion:
	// greatest discount wins, most recently created breaks ties. The
	// returned promotion is nil when none applies.
	ResolveEffectivePrice(ctx context.Context, product *models.Product, at time.Time) (float64, *models.Promotion, error)
}

// CartService manages the caller's own cart and wishlist. Cart contents
// are not a stock reservation; stock is validated only at checkout.
type CartService interface {
	// AddItem upserts the line: the quantity is set, not accumulated.
	AddItem(ctx context.Context, caller *common.Caller, productID string, qty int) (*models.CartItem, error)
	// SetQuantity updates the line; qty 0 removes it.
	SetQuantity(ctx context.Context, caller *common.Caller, productID string, qty int) (*models.CartItem, error)
	List(ctx context.Context, caller *common.Caller) ([]*models.CartItem, error)
	Clear(ctx context.Context, caller *common.Caller) error

	AddWishlistItem(ctx context.Context, caller *common.Caller, productID string) (*models.WishlistItem, error)
	RemoveWishlistItem(ctx context.Context, caller *common.Caller, productID string) error
	ListWishlist(ctx context.Context, caller *common.Caller) ([]*models.WishlistItem, error)
}

// OrderService converts carts into immutable orders and drives the
// order status state machine.
type OrderService interface {
	CreateOrder(ctx context.Context, caller *common.Caller, shippingAddress, paymentMethod string) (*models.Order, error)
	Get(ctx context.Context, caller *common.Caller, orderID string) (*models.Order, error)
	ListMine(ctx context.Context, caller *common.Caller) ([]*models.Order, error)
	ListAll(ctx context.Context, caller *common.Caller) ([]*models.Order, error)
	AdvanceStatus(ctx context.Context, caller *common.Caller, orderID string, next models.OrderStatus) (*models.Order, error)
	// AttachRating sets the order rating and forces delivered ->
	// completed in one atomic step, then fans the rating out to the
	// snapshot's products best-effort.
	AttachRating(ctx context.Context, caller *common.Caller, orderID string, rating int, review string) (*models.Order, error)
}

// RatingService propagates an order rating onto every distinct product
// in the order snapshot.
type RatingService interface {
	// Propagate appends the rating to each product. It returns the ids
	// of products whose write failed; the order-level rating has
	// already committed and is never rolled back.
	Propagate(ctx context.Context, order *models.Order, rating int, review string) []string
}

// ReportService exposes read-only sales aggregations for the
// reporting/export layer.
type ReportService interface {
	SumQuantityByProduct(ctx context.Context, caller *common.Caller, from, to time.Time) ([]models.ProductSales, error)
	SumQuantityByCreator(ctx context.Context, caller *common.Caller, from, to time.Time) ([]models.CreatorSales, error)
}

// IdentityService is the session-token capability: it exchanges
// credentials for a signed token and resolves tokens back to a caller.
type IdentityService interface {
	Login(ctx context.Context, usernameOrEmail, password string) (token string, user *models.User, err error)
	SetPassword(ctx context.Context, caller *common.Caller, userID, password string) error
	Verify(ctx context.Context, token string) (*common.Caller, error)
}
