package handlers

import (
	"errors"
	"net/http"

	"mealdeal/auth"
	"mealdeal/database"
	"mealdeal/geo"
	"mealdeal/logger"
	"mealdeal/models"
	"mealdeal/validation"
)

type createRestaurantRequest struct {
	Name        string   `json:"name"`
	Cuisine     string   `json:"cuisine"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Phone       string   `json:"phone"`
	Hours       string   `json:"hours"`
	Image       string   `json:"image"`
}

type restaurantResponse struct {
	models.Restaurant
	Offers []models.Offer `json:"offers"`
}

// GetRestaurant serves GET /api/restaurants/{id} with the restaurant's offers.
func (a *API) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "invalid restaurant id")
		return
	}
	log := logger.FromContext(r.Context()).WithFields(logger.Fields{"restaurant_id": id})

	restaurant, err := a.store.GetRestaurant(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		WriteJSONError(w, http.StatusNotFound, "restaurant not found")
		return
	}
	if err != nil {
		log.Error("Restaurant query error", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	offers, err := a.store.ListOffersByRestaurant(r.Context(), id)
	if err != nil {
		log.Error("Restaurant offers query error", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	RespondWithJSON(w, http.StatusOK, restaurantResponse{Restaurant: restaurant, Offers: offers})
}

// CreateRestaurant serves POST /api/restaurants. The caller becomes the owner.
// Restaurants created without coordinates wait for the geocoding worker.
func (a *API) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	log := logger.FromContext(r.Context()).WithFields(logger.Fields{"user_id": claims.UserID.String()})

	var req createRestaurantRequest
	if err := a.readValidated(w, r, validation.RestaurantCreate, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	restaurant := models.Restaurant{
		Name:        req.Name,
		Cuisine:     req.Cuisine,
		Description: req.Description,
		Location:    req.Location,
		Phone:       req.Phone,
		Hours:       req.Hours,
		Image:       req.Image,
		OwnerID:     claims.UserID.String(),
		GeoStatus:   models.GeoStatusPending,
	}
	if req.Latitude != nil && req.Longitude != nil {
		coord := models.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
		restaurant.Coordinates = &coord
		restaurant.Geohash = geo.Encode(coord)
		restaurant.GeoStatus = models.GeoStatusResolved
	}

	if err := a.store.CreateRestaurant(r.Context(), &restaurant); err != nil {
		log.Error("Create restaurant error", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	if restaurant.Coordinates != nil {
		a.areas.Reset()
	}

	log.Info("Restaurant created", logger.Fields{"restaurant_id": restaurant.ID})
	RespondWithJSON(w, http.StatusCreated, restaurant)
}
