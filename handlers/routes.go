package handlers

import (
	"github.com/gorilla/mux"
)

func NewRouter(ha *Handler) *mux.Router {
	router := mux.NewRouter()
	router.Use(ha.ErrorHandleMiddleware)

	router.HandleFunc("/healthz", ha.Health).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/products", ha.GetProducts).Methods("GET")
	api.HandleFunc("/products/{id}", ha.GetProduct).Methods("GET")
	api.HandleFunc("/categories", ha.GetCategories).Methods("GET")
	api.HandleFunc("/catalog/reload", ha.ReloadCatalog).Methods("POST")

	api.HandleFunc("/cart", ha.GetCart).Methods("GET")
	api.HandleFunc("/cart", ha.AddToCart).Methods("POST")
	api.HandleFunc("/cart/{id}", ha.UpdateCartItem).Methods("PUT")
	api.HandleFunc("/cart/{id}", ha.DeleteFromCart).Methods("DELETE")

	api.HandleFunc("/checkout", ha.GetCheckout).Methods("GET")
	api.HandleFunc("/checkout", ha.SubmitCheckout).Methods("POST")
	api.HandleFunc("/checkout", ha.CancelCheckout).Methods("DELETE")
	api.HandleFunc("/checkout/open", ha.OpenCheckout).Methods("POST")

	return router
}
