package models

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"
)

var ErrBadRequest = errors.New("bad request")
var ErrServerError = errors.New("server error")
var ErrNotFoundError = errors.New("not found")
var ErrNotAllowed = errors.New("not acceptable")
var ErrCartEmpty = errors.New("cart is empty")

func init() {
	// the backend API reads amounts as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

const CategoryAll = "all"

var Categories = []string{"biryani", "pizza", "burger", "snacks", "groceries"}

type Product struct {
	Id          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageUrl    string          `json:"image_url"`
	InStock     bool            `json:"in_stock"`
}

type CartItem struct {
	ProductId   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	ImageUrl    string          `json:"image_url"`
	Quantity    int             `json:"quantity"`
}

type CustomerData struct {
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`
}

type Order struct {
	Items       []CartItem      `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CustomerData
}

type OrderCreated struct {
	Id        string     `json:"id"`
	Status    string     `json:"status,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// backend timestamps may come without a zone; those are read as UTC
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// UnmarshalJSON accepts created_at with or without a zone. An unreadable
// timestamp leaves CreatedAt nil, the order itself is still accepted.
func (o *OrderCreated) UnmarshalJSON(data []byte) error {
	type orderCreated OrderCreated
	aux := struct {
		*orderCreated
		CreatedAt *string `json:"created_at"`
	}{orderCreated: (*orderCreated)(o)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	o.CreatedAt = nil
	if aux.CreatedAt == nil || *aux.CreatedAt == "" {
		return nil
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, *aux.CreatedAt); err == nil {
			o.CreatedAt = &t
			return nil
		}
	}
	log.Printf("OrderCreated: unreadable created_at %q", *aux.CreatedAt)
	return nil
}
