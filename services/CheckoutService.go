package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"foodHub/models"
	"foodHub/repository"

	"github.com/shopspring/decimal"
)

const (
	CheckoutClosed     = "closed"
	CheckoutOpen       = "open"
	CheckoutSubmitting = "submitting"
	CheckoutSuccess    = "success"
	CheckoutFailed     = "failed"
)

const FailedOrderNotice = "Failed to place order. Please try again."

type PlacedOrder struct {
	models.OrderCreated
	Total decimal.Decimal
}

// CheckoutService drives one shopper's checkout:
// closed -> open -> submitting -> success | failed (back to open).
type CheckoutService struct {
	cart *CartStore
	or   repository.OrderRepository

	state       string
	outcome     string
	form        models.CustomerData
	fieldErrors map[string]string
	notice      string
	lastOrder   *PlacedOrder
}

func NewCheckoutService(cart *CartStore, orderRepo repository.OrderRepository) *CheckoutService {
	return &CheckoutService{
		cart:  cart,
		or:    orderRepo,
		state: CheckoutClosed,
	}
}

func (cos *CheckoutService) State() string {
	return cos.state
}

// Outcome reports how the last submission ended: CheckoutSuccess,
// CheckoutFailed or "" when nothing was submitted yet.
func (cos *CheckoutService) Outcome() string {
	return cos.outcome
}

func (cos *CheckoutService) Form() models.CustomerData {
	return cos.form
}

func (cos *CheckoutService) Notice() string {
	return cos.notice
}

func (cos *CheckoutService) LastOrder() *PlacedOrder {
	return cos.lastOrder
}

func (cos *CheckoutService) FieldErrors() map[string]string {
	if len(cos.fieldErrors) == 0 {
		return nil
	}
	res := make(map[string]string, len(cos.fieldErrors))
	for k, v := range cos.fieldErrors {
		res[k] = v
	}
	return res
}

// Open starts a checkout. The cart must hold at least one item.
func (cos *CheckoutService) Open() (err error) {
	switch cos.state {
	case CheckoutOpen:
		return
	case CheckoutSubmitting:
		err = models.ErrNotAllowed
		return
	}
	if cos.cart.IsEmpty() {
		err = models.ErrCartEmpty
		return
	}
	cos.state = CheckoutOpen
	cos.outcome = ""
	cos.form = models.CustomerData{}
	cos.fieldErrors = nil
	cos.notice = ""
	return
}

// Cancel closes an open checkout and drops the entered values. The cart is
// not touched.
func (cos *CheckoutService) Cancel() (err error) {
	if cos.state == CheckoutSubmitting {
		err = models.ErrNotAllowed
		return
	}
	cos.state = CheckoutClosed
	cos.form = models.CustomerData{}
	cos.fieldErrors = nil
	cos.notice = ""
	return
}

// Submit validates the customer fields and posts the order once. On success
// the cart is cleared and the checkout closed; on failure the cart is kept
// and the checkout goes back to open with a notice.
func (cos *CheckoutService) Submit(ctx context.Context, form models.CustomerData) (placed PlacedOrder, err error) {
	if cos.state != CheckoutOpen {
		err = models.ErrNotAllowed
		return
	}
	cos.form = form
	if vErr := ValidateCustomerData(form); vErr != nil {
		cos.fieldErrors = vErr.Fields
		err = vErr
		return
	}
	cos.fieldErrors = nil
	if cos.cart.IsEmpty() {
		err = models.ErrCartEmpty
		return
	}

	order := models.Order{
		Items:       cos.cart.Items(),
		TotalAmount: cos.cart.Total(),
		CustomerData: models.CustomerData{
			CustomerName:    strings.TrimSpace(form.CustomerName),
			CustomerPhone:   strings.TrimSpace(form.CustomerPhone),
			CustomerAddress: strings.TrimSpace(form.CustomerAddress),
		},
	}

	cos.state = CheckoutSubmitting
	created, e := cos.or.CreateOrder(ctx, order)
	if e != nil {
		cos.outcome = CheckoutFailed
		log.Printf("Submit: %v", e)
		var subErr *models.OrderSubmissionError
		if !errors.As(e, &subErr) {
			e = &models.OrderSubmissionError{Err: e}
		}
		err = e
		cos.notice = FailedOrderNotice
		cos.state = CheckoutOpen
		return
	}

	cos.state = CheckoutClosed
	cos.outcome = CheckoutSuccess
	placed = PlacedOrder{OrderCreated: created, Total: order.TotalAmount}
	cos.lastOrder = &placed
	cos.form = models.CustomerData{}
	cos.notice = ""
	if e := cos.cart.Clear(); e != nil {
		log.Printf("Submit: order %s placed but cart not cleared in storage: %v", created.Id, e)
	}
	return
}

// ValidateCustomerData requires every customer field to be non-blank.
func ValidateCustomerData(form models.CustomerData) *models.ValidationError {
	fields := map[string]string{}
	if strings.TrimSpace(form.CustomerName) == "" {
		fields["customer_name"] = "full name is required"
	}
	if strings.TrimSpace(form.CustomerPhone) == "" {
		fields["customer_phone"] = "phone number is required"
	}
	if strings.TrimSpace(form.CustomerAddress) == "" {
		fields["customer_address"] = "delivery address is required"
	}
	if len(fields) == 0 {
		return nil
	}
	return &models.ValidationError{Fields: fields}
}
