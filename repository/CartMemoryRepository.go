package repository

import "sync"

// CartMemoryRepo keeps slots in process memory. Carts do not survive a
// restart; use it for tests and local runs without a database.
type CartMemoryRepo struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewCartMemoryRepository() *CartMemoryRepo {
	return &CartMemoryRepo{
		slots: make(map[string][]byte),
	}
}

func (c *CartMemoryRepo) SetCart(slot string, data []byte) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots[slot] = append([]byte(nil), data...)
	return
}

func (c *CartMemoryRepo) GetCart(slot string) (data []byte, exists bool, err error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	stored, exists := c.slots[slot]
	if exists {
		data = append([]byte(nil), stored...)
	}
	return
}
