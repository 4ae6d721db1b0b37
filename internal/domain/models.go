package domain

import "fmt"

// Category is one of the fixed part families the shop sells.
type Category string

const (
	CategoryMotor      Category = "Motor"
	CategorySuspension Category = "Suspension"
	CategoryBrakes     Category = "Brakes"
	CategoryLighting   Category = "Lighting"
	CategoryInterior   Category = "Interior"
	CategoryBodywork   Category = "Bodywork"
	CategoryElectrical Category = "Electrical"
)

var Categories = []Category{
	CategoryMotor,
	CategorySuspension,
	CategoryBrakes,
	CategoryLighting,
	CategoryInterior,
	CategoryBodywork,
	CategoryElectrical,
}

func (c Category) IsValid() bool {
	for _, candidate := range Categories {
		if candidate == c {
			return true
		}
	}
	return false
}

// DefaultMinStock applies when a product carries no explicit threshold.
const DefaultMinStock = 5

type Product struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Price             int64    `json:"price"` // whole currency units
	Category          Category `json:"category"`
	Brand             string   `json:"brand"`
	Stock             int      `json:"stock"`
	MinStockThreshold *int     `json:"minStockThreshold,omitempty"`
	ImageURL          string   `json:"imageUrl"`
	Images            []string `json:"images,omitempty"`
}

// MinStock returns the low-stock threshold, defaulting to DefaultMinStock.
func (p Product) MinStock() int {
	if p.MinStockThreshold == nil {
		return DefaultMinStock
	}
	return *p.MinStockThreshold
}

func (p Product) IsLowStock() bool { return p.Stock <= p.MinStock() }

// Clone returns a copy that shares no slices or pointers with p.
func (p Product) Clone() Product {
	out := p
	if p.MinStockThreshold != nil {
		v := *p.MinStockThreshold
		out.MinStockThreshold = &v
	}
	if p.Images != nil {
		out.Images = append([]string(nil), p.Images...)
	}
	return out
}

// CartItem is a product snapshot plus a quantity. It serializes flat,
// the product fields next to "quantity".
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

func (it CartItem) Subtotal() int64 { return it.Price * int64(it.Quantity) }

func (it CartItem) Clone() CartItem {
	return CartItem{Product: it.Product.Clone(), Quantity: it.Quantity}
}

type PaymentMethod string

const (
	PaymentMCXExpress   PaymentMethod = "mcx_express"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCard         PaymentMethod = "card"
)

var PaymentMethods = []PaymentMethod{PaymentMCXExpress, PaymentBankTransfer, PaymentCard}

func (m PaymentMethod) String() string { return string(m) }

// Label is the customer facing name of the method.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentMCXExpress:
		return "Multicaixa Express"
	case PaymentBankTransfer:
		return "Bank Transfer / IBAN"
	case PaymentCard:
		return "Card"
	}
	return string(m)
}

func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range PaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderPaid      OrderStatus = "Paid"
	OrderCancelled OrderStatus = "Cancelled"
	OrderShipped   OrderStatus = "Shipped"
)

type Order struct {
	ID               string        `json:"id"`
	UserID           string        `json:"userId"`
	Items            []CartItem    `json:"items"`
	Total            int64         `json:"total"`
	PaymentMethod    PaymentMethod `json:"paymentMethod"`
	Status           OrderStatus   `json:"status"`
	CreatedAt        string        `json:"createdAt"` // RFC 3339
	PaymentReference string        `json:"paymentReference,omitempty"`
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty"`
}
