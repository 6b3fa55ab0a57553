package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"foodHub/models"

	"github.com/redis/go-redis/v9"
)

// CartRepository reads and writes one serialized cart per slot.
type CartRepository interface {
	SetCart(slot string, data []byte) (err error)
	GetCart(slot string) (data []byte, exists bool, err error)
}

type CartRedisRepo struct {
	rdb *redis.Client
	ctx context.Context
	ttl time.Duration
}

func NewCartRedisRepository(redis_conn *redis.Client, _ctx context.Context, ttl time.Duration) (CartRepository, error) {
	if redis_conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := redis_conn.Ping(_ctx).Err()
	if err != nil {
		return nil, err
	}
	return &CartRedisRepo{
		rdb: redis_conn,
		ctx: _ctx,
		ttl: ttl,
	}, nil
}

func (c *CartRedisRepo) SetCart(slot string, data []byte) (err error) {
	err = c.rdb.Set(c.ctx, slot, data, c.ttl).Err()
	if err != nil {
		log.Printf("SetCart: redis set: %v", err)
		err = models.ErrServerError
	}
	return
}

func (c *CartRedisRepo) GetCart(slot string) (data []byte, exists bool, err error) {
	data, err = c.rdb.Get(c.ctx, slot).Bytes()
	if err != nil {
		data = nil
		if errors.Is(err, redis.Nil) {
			err = nil
			return
		}
		log.Printf("GetCart: redis get: %v", err)
		err = models.ErrServerError
		return
	}
	exists = true
	return
}
