package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"foodHub/entities"
	"foodHub/models"
	"foodHub/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

const sessionCookie = "cartSessionId"

type Handler struct {
	cas *services.CatalogService
	ss  *services.SessionService
}

type HandlerParams struct {
	CatService  *services.CatalogService
	SessService *services.SessionService
}

func NewHandler(params HandlerParams) *Handler {
	return &Handler{
		cas: params.CatService,
		ss:  params.SessService,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"catalog": h.cas.State(),
	})
}

// catalog

func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")
	if category == "" {
		category = models.CategoryAll
	}
	writeJSON(w, http.StatusOK, entities.CatalogResponse{
		State:    h.cas.State(),
		Query:    query,
		Category: category,
		Products: h.cas.Search(query, category),
	})
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	prod, exists := h.cas.ProductById(id)
	if !exists {
		WriteErrorResponse(w, models.ErrNotFoundError)
		return
	}
	writeJSON(w, http.StatusOK, prod)
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cas.Categories())
}

func (h *Handler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	err := h.cas.Load(r.Context())
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state":    h.cas.State(),
		"products": len(h.cas.Products()),
	})
}

// cart

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionId, ok := h.existingSession(r)
	if !ok {
		writeJSON(w, http.StatusOK, cartResponse(nil))
		return
	}
	var resp entities.CartResponse
	err := h.ss.WithSession(sessionId, func(sess *services.Session) error {
		resp = cartResponse(sess.Cart)
		return nil
	})
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	req := entities.CartRequest{}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.ProductId == "" {
		log.Printf("Unmarshal err:%v", err)
		WriteErrorResponse(w, models.ErrBadRequest)
		return
	}
	prod, exists := h.cas.ProductById(req.ProductId)
	if !exists {
		log.Printf("AddToCart: product %s does not exist", req.ProductId)
		WriteErrorResponse(w, models.ErrNotFoundError)
		return
	}

	var resp entities.CartResponse
	err = h.ss.WithSession(h.session(w, r), func(sess *services.Session) error {
		e := sess.Cart.AddToCart(prod)
		resp = cartResponse(sess.Cart)
		return e
	})
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	req := entities.QuantityRequest{}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.Quantity == nil {
		log.Printf("Unmarshal err:%v", err)
		WriteErrorResponse(w, models.ErrBadRequest)
		return
	}

	var resp entities.CartResponse
	err = h.ss.WithSession(h.session(w, r), func(sess *services.Session) error {
		e := sess.Cart.UpdateQuantity(id, *req.Quantity)
		resp = cartResponse(sess.Cart)
		return e
	})
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) DeleteFromCart(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sessionId, ok := h.existingSession(r)
	if !ok {
		writeJSON(w, http.StatusOK, cartResponse(nil))
		return
	}

	var resp entities.CartResponse
	err := h.ss.WithSession(sessionId, func(sess *services.Session) error {
		e := sess.Cart.RemoveItem(id)
		resp = cartResponse(sess.Cart)
		return e
	})
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// checkout

func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	sessionId, ok := h.existingSession(r)
	if !ok {
		writeJSON(w, http.StatusOK, entities.CheckoutResponse{State: services.CheckoutClosed, Total: "0.00"})
		return
	}
	var resp entities.CheckoutResponse
	err := h.ss.WithSession(sessionId, func(sess *services.Session) error {
		resp = checkoutResponse(sess)
		return nil
	})
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) OpenCheckout(w http.ResponseWriter, r *http.Request) {
	sessionId, ok := h.existingSession(r)
	if !ok {
		WriteErrorResponse(w, models.ErrCartEmpty)
		return
	}
	var resp entities.CheckoutResponse
	err := h.ss.WithSession(sessionId, func(sess *services.Session) error {
		e := sess.Checkout.Open()
		resp = checkoutResponse(sess)
		return e
	})
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) SubmitCheckout(w http.ResponseWriter, r *http.Request) {
	form := models.CustomerData{}
	err := json.NewDecoder(r.Body).Decode(&form)
	if err != nil {
		log.Printf("Unmarshal err:%v", err)
		WriteErrorResponse(w, models.ErrBadRequest)
		return
	}
	sessionId, ok := h.existingSession(r)
	if !ok {
		WriteErrorResponse(w, models.ErrNotAllowed)
		return
	}

	var placed services.PlacedOrder
	err = h.ss.WithSession(sessionId, func(sess *services.Session) (e error) {
		placed, e = sess.Checkout.Submit(r.Context(), form)
		return
	})
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, orderResponse(&placed))
}

func (h *Handler) CancelCheckout(w http.ResponseWriter, r *http.Request) {
	sessionId, ok := h.existingSession(r)
	if !ok {
		writeJSON(w, http.StatusOK, entities.CheckoutResponse{State: services.CheckoutClosed, Total: "0.00"})
		return
	}
	var resp entities.CheckoutResponse
	err := h.ss.WithSession(sessionId, func(sess *services.Session) error {
		e := sess.Checkout.Cancel()
		resp = checkoutResponse(sess)
		return e
	})
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// session cookie

func (h *Handler) existingSession(r *http.Request) (sessionId string, ok bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return
	}
	if _, err = uuid.Parse(c.Value); err != nil {
		return
	}
	return c.Value, true
}

// session returns the shopper's session id and starts a new session when the
// request carries none.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) string {
	if sessionId, ok := h.existingSession(r); ok {
		return sessionId
	}
	sessionId := h.ss.CreateSessionId()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sessionId,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
	})
	return sessionId
}

// views

func cartResponse(cart *services.CartStore) entities.CartResponse {
	resp := entities.CartResponse{
		Items: []entities.CartItem{},
		Total: "0.00",
	}
	if cart == nil {
		return resp
	}
	for _, item := range cart.Items() {
		resp.Items = append(resp.Items, entities.CartItem{
			ProductId:   item.ProductId,
			ProductName: item.ProductName,
			ImageUrl:    item.ImageUrl,
			Quantity:    item.Quantity,
			Price:       item.Price.StringFixed(2),
			SumPrice:    item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).StringFixed(2),
		})
	}
	resp.ItemCount = cart.ItemCount()
	resp.Total = cart.Total().StringFixed(2)
	return resp
}

func checkoutResponse(sess *services.Session) entities.CheckoutResponse {
	return entities.CheckoutResponse{
		State:       sess.Checkout.State(),
		Outcome:     sess.Checkout.Outcome(),
		Total:       sess.Cart.Total().StringFixed(2),
		Notice:      sess.Checkout.Notice(),
		FieldErrors: sess.Checkout.FieldErrors(),
		Form:        sess.Checkout.Form(),
		LastOrder:   orderResponse(sess.Checkout.LastOrder()),
	}
}

func orderResponse(placed *services.PlacedOrder) *entities.OrderResponse {
	if placed == nil {
		return nil
	}
	return &entities.OrderResponse{
		OrderId:   placed.Id,
		Status:    placed.Status,
		CreatedAt: placed.CreatedAt,
		Total:     placed.Total.StringFixed(2),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("Marshal err:%v", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(jsonData)
}

// middleware

func (h *Handler) ErrorHandleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic occured: %v \n stacktrace: %v", rec, string(debug.Stack()))
				http.Error(w, "something went wrong, contact with service administration", http.StatusBadGateway)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func WriteErrorResponse(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	var submissionErr *models.OrderSubmissionError
	var fetchErr *models.FetchError
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusUnprocessableEntity, entities.ErrorResponse{Error: "validation failed", Fields: validationErr.Fields})
	case errors.As(err, &submissionErr):
		writeJSON(w, http.StatusBadGateway, entities.ErrorResponse{Error: services.FailedOrderNotice})
	case errors.As(err, &fetchErr):
		writeJSON(w, http.StatusBadGateway, entities.ErrorResponse{Error: "catalog unavailable"})
	case errors.Is(err, models.ErrCartEmpty):
		writeJSON(w, http.StatusConflict, entities.ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrBadRequest):
		writeJSON(w, http.StatusBadRequest, entities.ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrNotFoundError):
		writeJSON(w, http.StatusNotFound, entities.ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrNotAllowed):
		writeJSON(w, http.StatusNotAcceptable, entities.ErrorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, entities.ErrorResponse{Error: models.ErrServerError.Error()})
	}
}
