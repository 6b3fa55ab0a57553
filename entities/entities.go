package entities

import (
	"time"

	"foodHub/models"
)

type CatalogResponse struct {
	State    string           `json:"state"`
	Query    string           `json:"query"`
	Category string           `json:"category"`
	Products []models.Product `json:"products"`
}

type CartItem struct {
	ProductId   string `json:"product_id"`
	ProductName string `json:"product_name"`
	ImageUrl    string `json:"image_url"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
	SumPrice    string `json:"sum_price"`
}

type CartResponse struct {
	Items     []CartItem `json:"items"`
	ItemCount int        `json:"item_count"`
	Total     string     `json:"total"`
}

type CartRequest struct {
	ProductId string `json:"product_id"`
}

type QuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type CheckoutResponse struct {
	State       string              `json:"state"`
	Outcome     string              `json:"outcome,omitempty"`
	Total       string              `json:"total"`
	Notice      string              `json:"notice,omitempty"`
	FieldErrors map[string]string   `json:"field_errors,omitempty"`
	Form        models.CustomerData `json:"form"`
	LastOrder   *OrderResponse      `json:"last_order,omitempty"`
}

type OrderResponse struct {
	OrderId   string     `json:"order_id"`
	Status    string     `json:"status,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	Total     string     `json:"total"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
