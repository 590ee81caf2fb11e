package handlers

import (
	"net/http"

	"mealdeal/auth"
)

// Register mounts every API route on mux.
func (a *API) Register(mux *http.ServeMux, mw *auth.Middleware) {
	mux.Handle("GET /api/offers", mw.Optional(http.HandlerFunc(a.SearchOffers)))
	mux.HandleFunc("GET /api/filters", a.FiltersHandler)
	mux.HandleFunc("GET /api/cuisines", a.CuisinesHandler)
	mux.HandleFunc("GET /api/locations", a.LocationsHandler)
	mux.HandleFunc("GET /api/nearest-area", a.NearestAreaHandler)
	mux.HandleFunc("GET /api/offers/{id}", a.GetOffer)
	mux.HandleFunc("GET /api/restaurants/{id}", a.GetRestaurant)

	mux.Handle("POST /api/restaurants", mw.Require(http.HandlerFunc(a.CreateRestaurant)))
	mux.Handle("POST /api/offers", mw.Require(http.HandlerFunc(a.CreateOffer)))
	mux.Handle("POST /api/offers/{id}/claim", mw.Require(http.HandlerFunc(a.ClaimOffer)))
	mux.Handle("PUT /api/me/location", mw.Require(http.HandlerFunc(a.UpdateLocation)))
	mux.Handle("POST /api/admin/newsletter", mw.Require(auth.RequireRole(auth.RoleAdmin)(http.HandlerFunc(a.Newsletter))))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}
