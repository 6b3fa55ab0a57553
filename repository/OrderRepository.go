package repository

import (
	"context"
	"errors"
	"log"
	"net/http"

	"foodHub/models"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order models.Order) (created models.OrderCreated, err error)
}

type OrderRepo struct {
	api *ApiClient
}

func NewOrderRepository(api *ApiClient) (OrderRepository, error) {
	if api == nil {
		return nil, errors.New("api client must be non-nil")
	}
	return &OrderRepo{
		api: api,
	}, nil
}

// CreateOrder posts the order once. Any transport error, non-2xx status or a
// response without an order id is an *models.OrderSubmissionError.
func (o *OrderRepo) CreateOrder(ctx context.Context, order models.Order) (created models.OrderCreated, err error) {
	e := o.api.do(ctx, http.MethodPost, "/orders", order, &created)
	if e != nil {
		log.Printf("CreateOrder: %v", e)
		subErr := &models.OrderSubmissionError{Err: e}
		var statusErr *StatusError
		if errors.As(e, &statusErr) {
			subErr.StatusCode = statusErr.StatusCode
		}
		err = subErr
		created = models.OrderCreated{}
		return
	}
	if created.Id == "" {
		log.Printf("CreateOrder: backend returned no order id")
		err = &models.OrderSubmissionError{Err: errors.New("no order id in response")}
	}
	return
}
