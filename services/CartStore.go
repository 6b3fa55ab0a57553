package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"foodHub/models"
	"foodHub/repository"

	"github.com/shopspring/decimal"
)

const CartSlotName = "cart"

// CartStore owns the line items of one shopper's cart. Mutators are the only
// write path and each one persists the whole cart before returning.
type CartStore struct {
	items []models.CartItem
	cr    repository.CartRepository
	slot  string
}

func NewCartStore(cartRepo repository.CartRepository, slot string) *CartStore {
	return &CartStore{
		items: []models.CartItem{},
		cr:    cartRepo,
		slot:  slot,
	}
}

// CartSlot is the storage key of a session's cart.
func CartSlot(sessionId string) string {
	if sessionId == "" {
		return CartSlotName
	}
	return CartSlotName + ":" + sessionId
}

func (cs *CartStore) Slot() string {
	return cs.slot
}

// Items returns a copy of the cart in insertion order.
func (cs *CartStore) Items() []models.CartItem {
	items := make([]models.CartItem, len(cs.items))
	copy(items, cs.items)
	return items
}

func (cs *CartStore) indexOf(productId string) int {
	for i, item := range cs.items {
		if item.ProductId == productId {
			return i
		}
	}
	return -1
}

func (cs *CartStore) AddToCart(product models.Product) (err error) {
	if product.Id == "" {
		err = models.ErrBadRequest
		return
	}
	if i := cs.indexOf(product.Id); i >= 0 {
		cs.items[i].Quantity++
	} else {
		cs.items = append(cs.items, models.CartItem{
			ProductId:   product.Id,
			ProductName: product.Name,
			Price:       product.Price,
			ImageUrl:    product.ImageUrl,
			Quantity:    1,
		})
	}
	err = cs.Persist()
	return
}

// UpdateQuantity sets the quantity of productId. A quantity <= 0 removes the
// item; an unknown productId leaves the cart as it is.
func (cs *CartStore) UpdateQuantity(productId string, newQuantity int) (err error) {
	if newQuantity <= 0 {
		err = cs.RemoveItem(productId)
		return
	}
	if i := cs.indexOf(productId); i >= 0 {
		cs.items[i].Quantity = newQuantity
	}
	err = cs.Persist()
	return
}

func (cs *CartStore) RemoveItem(productId string) (err error) {
	if i := cs.indexOf(productId); i >= 0 {
		cs.items = append(cs.items[:i], cs.items[i+1:]...)
	}
	err = cs.Persist()
	return
}

// Total is the exact sum of price * quantity. Rounding is left to display.
func (cs *CartStore) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range cs.items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (cs *CartStore) ItemCount() (count int) {
	for _, item := range cs.items {
		count += item.Quantity
	}
	return
}

func (cs *CartStore) IsEmpty() bool {
	return len(cs.items) == 0
}

func (cs *CartStore) Clear() (err error) {
	cs.items = []models.CartItem{}
	err = cs.Persist()
	return
}

func (cs *CartStore) Persist() (err error) {
	jsonData, err := json.Marshal(cs.items)
	if err != nil {
		log.Printf("Persist: marshal cart: %v", err)
		err = models.ErrServerError
		return
	}
	err = cs.cr.SetCart(cs.slot, jsonData)
	return
}

// Hydrate replaces the in-memory cart with the stored one. A missing or
// corrupt slot yields an empty cart; corruption is logged, not returned.
// Only storage read failures are returned.
func (cs *CartStore) Hydrate() (err error) {
	cs.items = []models.CartItem{}
	data, exists, err := cs.cr.GetCart(cs.slot)
	if err != nil || !exists {
		return
	}
	items, e := decodeCart(data)
	if e != nil {
		corrupt := &models.StorageCorruptionError{Slot: cs.slot, Err: e}
		log.Printf("Hydrate: %v", corrupt)
		return
	}
	cs.items = items
	return
}

func decodeCart(data []byte) (items []models.CartItem, err error) {
	err = json.Unmarshal(data, &items)
	if err != nil {
		return
	}
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		switch {
		case item.ProductId == "":
			err = errors.New("item without product id")
		case item.Quantity < 1:
			err = fmt.Errorf("item %s has quantity %d", item.ProductId, item.Quantity)
		case item.Price.IsNegative():
			err = fmt.Errorf("item %s has negative price %s", item.ProductId, item.Price)
		case seen[item.ProductId]:
			err = fmt.Errorf("item %s appears twice", item.ProductId)
		}
		if err != nil {
			items = nil
			return
		}
		seen[item.ProductId] = true
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return
}
