package services

import (
	"encoding/json"
	"errors"
	"testing"

	"foodHub/models"
	"foodHub/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id, name, price string) models.Product {
	return models.Product{
		Id:          id,
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Category:    "pizza",
		ImageUrl:    "https://img.example/" + id + ".jpg",
		InStock:     true,
	}
}

type failingCartRepo struct{}

func (failingCartRepo) SetCart(slot string, data []byte) error {
	return models.ErrServerError
}

func (failingCartRepo) GetCart(slot string) ([]byte, bool, error) {
	return nil, false, models.ErrServerError
}

func TestCartStore_AddToCartMergesDuplicates(t *testing.T) {
	cart := NewCartStore(repository.NewCartMemoryRepository(), CartSlotName)
	pizza := product("p1", "Margherita Pizza", "8.99")
	burger := product("p2", "Classic Burger", "6.99")

	adds := []models.Product{pizza, burger, pizza, pizza, burger}
	for _, p := range adds {
		require.NoError(t, cart.AddToCart(p))
	}

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "p1", items[0].ProductId)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "p2", items[1].ProductId)
	assert.Equal(t, 2, items[1].Quantity)
	assert.Equal(t, 5, cart.ItemCount())
}

func TestCartStore_AddToCartSnapshotsProduct(t *testing.T) {
	cart := NewCartStore(repository.NewCartMemoryRepository(), CartSlotName)
	p := product("p1", "Chicken Biryani", "12.99")
	require.NoError(t, cart.AddToCart(p))

	p.Name = "Renamed"
	p.Price = decimal.RequireFromString("99")
	require.NoError(t, cart.AddToCart(p))

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Chicken Biryani", items[0].ProductName)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("12.99")))
	assert.Equal(t, "https://img.example/p1.jpg", items[0].ImageUrl)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCartStore_AddToCartRejectsMissingId(t *testing.T) {
	cart := NewCartStore(repository.NewCartMemoryRepository(), CartSlotName)
	err := cart.AddToCart(models.Product{Name: "ghost"})
	assert.ErrorIs(t, err, models.ErrBadRequest)
	assert.True(t, cart.IsEmpty())
}

func TestCartStore_Total(t *testing.T) {
	tests := []struct {
		name  string
		items []models.CartItem
		want  string
	}{
		{
			name: "empty cart",
			want: "0",
		},
		{
			name: "two lines",
			items: []models.CartItem{
				{ProductId: "a", Price: decimal.NewFromInt(10), Quantity: 2},
				{ProductId: "b", Price: decimal.NewFromInt(5), Quantity: 3},
			},
			want: "35",
		},
		{
			name: "no float drift",
			items: []models.CartItem{
				{ProductId: "a", Price: decimal.RequireFromString("0.1"), Quantity: 3},
				{ProductId: "b", Price: decimal.RequireFromString("0.2"), Quantity: 1},
			},
			want: "0.5",
		},
		{
			name: "fractional cents kept",
			items: []models.CartItem{
				{ProductId: "a", Price: decimal.RequireFromString("1.005"), Quantity: 3},
			},
			want: "3.015",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := NewCartStore(repository.NewCartMemoryRepository(), CartSlotName)
			cart.items = append(cart.items, tt.items...)
			assert.True(t, cart.Total().Equal(decimal.RequireFromString(tt.want)),
				"Total() = %s, want %s", cart.Total(), tt.want)
		})
	}
}

func TestCartStore_TotalTracksMutations(t *testing.T) {
	cart := NewCartStore(repository.NewCartMemoryRepository(), CartSlotName)
	require.NoError(t, cart.AddToCart(product("a", "A", "10")))
	require.NoError(t, cart.AddToCart(product("b", "B", "5")))
	require.NoError(t, cart.UpdateQuantity("a", 2))
	require.NoError(t, cart.UpdateQuantity("b", 3))
	assert.Equal(t, "35.00", cart.Total().StringFixed(2))

	require.NoError(t, cart.RemoveItem("a"))
	assert.Equal(t, "15.00", cart.Total().StringFixed(2))
	assert.Equal(t, 3, cart.ItemCount())
}

func TestCartStore_UpdateQuantity(t *testing.T) {
	cart := NewCartStore(repository.NewCartMemoryRepository(), CartSlotName)
	require.NoError(t, cart.AddToCart(product("a", "A", "1")))
	require.NoError(t, cart.AddToCart(product("b", "B", "2")))

	require.NoError(t, cart.UpdateQuantity("a", 7))
	assert.Equal(t, 7, cart.Items()[0].Quantity)

	require.NoError(t, cart.UpdateQuantity("a", 0))
	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ProductId)

	require.NoError(t, cart.UpdateQuantity("b", -3))
	assert.True(t, cart.IsEmpty())
}

func TestCartStore_UnknownIdIsNoOp(t *testing.T) {
	cart := NewCartStore(repository.NewCartMemoryRepository(), CartSlotName)
	require.NoError(t, cart.AddToCart(product("a", "A", "1")))
	before := cart.Items()

	assert.NoError(t, cart.UpdateQuantity("missing", 4))
	assert.NoError(t, cart.UpdateQuantity("missing", 0))
	assert.NoError(t, cart.RemoveItem("missing"))
	assert.Equal(t, before, cart.Items())
}

func TestCartStore_RemoveKeepsOrder(t *testing.T) {
	cart := NewCartStore(repository.NewCartMemoryRepository(), CartSlotName)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, cart.AddToCart(product(id, id, "1")))
	}
	require.NoError(t, cart.RemoveItem("b"))

	var ids []string
	for _, item := range cart.Items() {
		ids = append(ids, item.ProductId)
	}
	assert.Equal(t, []string{"a", "c"}, ids)
}

func TestCartStore_EveryMutationPersists(t *testing.T) {
	repo := repository.NewCartMemoryRepository()
	cart := NewCartStore(repo, CartSlot("s1"))

	stored := func() []models.CartItem {
		data, exists, err := repo.GetCart(CartSlot("s1"))
		require.NoError(t, err)
		require.True(t, exists)
		var items []models.CartItem
		require.NoError(t, json.Unmarshal(data, &items))
		return items
	}

	require.NoError(t, cart.AddToCart(product("a", "A", "1.50")))
	assert.Len(t, stored(), 1)

	require.NoError(t, cart.UpdateQuantity("a", 4))
	assert.Equal(t, 4, stored()[0].Quantity)

	require.NoError(t, cart.AddToCart(product("b", "B", "2")))
	require.NoError(t, cart.RemoveItem("a"))
	assert.Len(t, stored(), 1)

	require.NoError(t, cart.Clear())
	assert.Empty(t, stored())
	assert.Equal(t, 0, cart.ItemCount())
}

func TestCartStore_PersistHydrateRoundTrip(t *testing.T) {
	repo := repository.NewCartMemoryRepository()
	cart := NewCartStore(repo, CartSlot("s1"))
	require.NoError(t, cart.AddToCart(product("a", "Chicken Biryani", "12.99")))
	require.NoError(t, cart.AddToCart(product("b", "Potato Chips", "2.99")))
	require.NoError(t, cart.AddToCart(product("a", "Chicken Biryani", "12.99")))
	require.NoError(t, cart.Persist())

	restored := NewCartStore(repo, CartSlot("s1"))
	require.NoError(t, restored.Hydrate())

	want, got := cart.Items(), restored.Items()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ProductId, got[i].ProductId)
		assert.Equal(t, want[i].ProductName, got[i].ProductName)
		assert.Equal(t, want[i].ImageUrl, got[i].ImageUrl)
		assert.Equal(t, want[i].Quantity, got[i].Quantity)
		assert.True(t, want[i].Price.Equal(got[i].Price))
	}
	assert.True(t, cart.Total().Equal(restored.Total()))
}

func TestCartStore_HydrateMissingSlot(t *testing.T) {
	cart := NewCartStore(repository.NewCartMemoryRepository(), CartSlot("nobody"))
	require.NoError(t, cart.Hydrate())
	assert.True(t, cart.IsEmpty())
	assert.NotNil(t, cart.Items())
}

func TestCartStore_HydrateCorruptSlot(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "{{{"},
		{name: "wrong shape", data: `{"items": 3}`},
		{name: "zero quantity", data: `[{"product_id":"a","price":1,"quantity":0}]`},
		{name: "missing id", data: `[{"product_name":"x","price":1,"quantity":1}]`},
		{name: "negative price", data: `[{"product_id":"a","price":-4.5,"quantity":1}]`},
		{name: "duplicate id", data: `[{"product_id":"a","price":1,"quantity":1},{"product_id":"a","price":1,"quantity":2}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repository.NewCartMemoryRepository()
			require.NoError(t, repo.SetCart(CartSlotName, []byte(tt.data)))

			cart := NewCartStore(repo, CartSlotName)
			require.NoError(t, cart.AddToCart(product("z", "Z", "1")))
			require.NoError(t, repo.SetCart(CartSlotName, []byte(tt.data)))

			assert.NoError(t, cart.Hydrate())
			assert.True(t, cart.IsEmpty())
		})
	}
}

func TestCartStore_StorageFailureIsReported(t *testing.T) {
	cart := NewCartStore(failingCartRepo{}, CartSlotName)

	err := cart.AddToCart(product("a", "A", "1"))
	assert.True(t, errors.Is(err, models.ErrServerError))
	assert.Equal(t, 1, cart.ItemCount())

	err = cart.Hydrate()
	assert.ErrorIs(t, err, models.ErrServerError)
	assert.True(t, cart.IsEmpty())
}

func TestCartSlot(t *testing.T) {
	assert.Equal(t, "cart", CartSlot(""))
	assert.Equal(t, "cart:abc", CartSlot("abc"))
}
