package repos

import "context"

// Slot names. Products and orders are shop wide; cart and user belong to one shopper.
const (
	KeyProducts = "products"
	KeyOrders   = "orders"
	KeyCart     = "cart"
	KeyUser     = "user"
)

// Store is the durable key-value surface the state services persist through.
// Load reports ok=false when the key was never saved or has been cleared.
type Store interface {
	Load(ctx context.Context, key string) (value []byte, ok bool, err error)
	Save(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context, key string) error
}

func IsSessionKey(key string) bool { return key == KeyCart || key == KeyUser }
