package repository

import (
	"context"
	"errors"
	"log"
	"net/http"

	"foodHub/models"
)

type ProductRepository interface {
	InitData(ctx context.Context) (err error)
	GetProducts(ctx context.Context) (prods []models.Product, err error)
}

type ProductRepo struct {
	api *ApiClient
}

func NewProductRepository(api *ApiClient) (ProductRepository, error) {
	if api == nil {
		return nil, errors.New("api client must be non-nil")
	}
	return &ProductRepo{
		api: api,
	}, nil
}

// InitData asks the backend to seed its sample products. The backend treats
// repeated calls as a no-op.
func (p *ProductRepo) InitData(ctx context.Context) (err error) {
	e := p.api.do(ctx, http.MethodPost, "/init-data", nil, nil)
	if e != nil {
		log.Printf("InitData: %v", e)
		err = &models.FetchError{Op: "init-data", Err: e}
	}
	return
}

func (p *ProductRepo) GetProducts(ctx context.Context) (prods []models.Product, err error) {
	e := p.api.do(ctx, http.MethodGet, "/products", nil, &prods)
	if e != nil {
		log.Printf("GetProducts: %v", e)
		prods = nil
		err = &models.FetchError{Op: "products", Err: e}
		return
	}
	if prods == nil {
		prods = []models.Product{}
	}
	return
}
