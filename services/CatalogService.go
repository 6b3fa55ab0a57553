package services

import (
	"context"
	"log"
	"strings"
	"sync"

	"foodHub/models"
	"foodHub/repository"
)

const (
	CatalogLoading = "loading"
	CatalogLoaded  = "loaded"
	CatalogFailed  = "failed"
)

type CatalogService struct {
	pr repository.ProductRepository

	mu       sync.RWMutex
	state    string
	products []models.Product
	lastErr  error
}

func NewCatalogService(productRepo repository.ProductRepository) *CatalogService {
	return &CatalogService{
		pr:       productRepo,
		state:    CatalogLoading,
		products: []models.Product{},
	}
}

// Load seeds the backend and fetches the product list once. On failure the
// catalog is left empty in the failed state; nothing is retried.
func (cas *CatalogService) Load(ctx context.Context) (err error) {
	cas.mu.Lock()
	cas.state = CatalogLoading
	cas.mu.Unlock()

	var prods []models.Product
	err = cas.pr.InitData(ctx)
	if err == nil {
		prods, err = cas.pr.GetProducts(ctx)
	}

	cas.mu.Lock()
	defer cas.mu.Unlock()
	cas.lastErr = err
	if err != nil {
		log.Printf("Load: catalog unavailable: %v", err)
		cas.state = CatalogFailed
		cas.products = []models.Product{}
		return
	}
	cas.state = CatalogLoaded
	cas.products = prods
	log.Printf("catalog loaded: %d products", len(prods))
	return
}

func (cas *CatalogService) State() string {
	cas.mu.RLock()
	defer cas.mu.RUnlock()
	return cas.state
}

func (cas *CatalogService) LastError() error {
	cas.mu.RLock()
	defer cas.mu.RUnlock()
	return cas.lastErr
}

func (cas *CatalogService) Products() []models.Product {
	cas.mu.RLock()
	defer cas.mu.RUnlock()
	prods := make([]models.Product, len(cas.products))
	copy(prods, cas.products)
	return prods
}

func (cas *CatalogService) ProductById(productId string) (prod models.Product, exists bool) {
	cas.mu.RLock()
	defer cas.mu.RUnlock()
	for _, p := range cas.products {
		if p.Id == productId {
			return p, true
		}
	}
	return
}

// Search filters the loaded catalog.
func (cas *CatalogService) Search(query string, category string) []models.Product {
	return Filter(cas.Products(), query, category)
}

// Categories lists the selectable categories, the "all" sentinel first.
func (cas *CatalogService) Categories() []string {
	return append([]string{models.CategoryAll}, models.Categories...)
}

// Filter returns the products whose name or description contains query
// (case-insensitive) and whose category matches. An empty query matches
// everything, as does the "all" category. Input order is kept.
func Filter(products []models.Product, query string, category string) []models.Product {
	q := strings.ToLower(query)
	res := make([]models.Product, 0, len(products))
	for _, p := range products {
		matchesSearch := strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q)
		matchesCategory := category == models.CategoryAll || p.Category == category
		if matchesSearch && matchesCategory {
			res = append(res, p)
		}
	}
	return res
}
