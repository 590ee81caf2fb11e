package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"mealdeal/auth"
	"mealdeal/database"
	"mealdeal/logger"
	"mealdeal/models"
	"mealdeal/notify"
	"mealdeal/validation"
)

type createOfferRequest struct {
	RestaurantID    string    `json:"restaurant_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	OriginalPrice   float64   `json:"original_price"`
	DiscountedPrice float64   `json:"discounted_price"`
	Discount        *float64  `json:"discount"`
	Terms           string    `json:"terms"`
	ExpiresAt       time.Time `json:"expires_at"`
	IsActive        *bool     `json:"is_active"`
}

type offerResponse struct {
	models.Offer
	Restaurant models.RestaurantSummary `json:"restaurant"`
	Expired    bool                     `json:"expired"`
	ClaimCount int                      `json:"claim_count"`
}

// DiscountPercent derives the whole-number discount implied by two prices.
func DiscountPercent(original, discounted float64) float64 {
	if original <= 0 {
		return 0
	}
	return math.Round((1 - discounted/original) * 100)
}

// CreateOffer serves POST /api/offers. Only the restaurant owner, or an
// admin, may add offers to a restaurant.
func (a *API) CreateOffer(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	log := logger.FromContext(r.Context()).WithFields(logger.Fields{"user_id": claims.UserID.String()})

	var req createOfferRequest
	if err := a.readValidated(w, r, validation.OfferCreate, &req); err != nil {
		writeValidationError(w, err)
		return
	}
	if req.DiscountedPrice >= req.OriginalPrice {
		WriteJSONError(w, http.StatusBadRequest, "discounted_price must be lower than original_price")
		return
	}
	now := a.now()
	if !req.ExpiresAt.After(now) {
		WriteJSONError(w, http.StatusBadRequest, "expires_at must be in the future")
		return
	}

	restaurantID, _ := strconv.ParseInt(req.RestaurantID, 10, 64)
	restaurant, err := a.store.GetRestaurant(r.Context(), restaurantID)
	if errors.Is(err, database.ErrNotFound) {
		WriteJSONError(w, http.StatusNotFound, "restaurant not found")
		return
	}
	if err != nil {
		log.Error("Restaurant query error", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	if restaurant.OwnerID != claims.UserID.String() && claims.Role != auth.RoleAdmin {
		WriteJSONError(w, http.StatusForbidden, auth.ErrForbidden.Error())
		return
	}

	offer := models.Offer{
		RestaurantID:    restaurant.ID,
		Title:           req.Title,
		Description:     req.Description,
		OriginalPrice:   req.OriginalPrice,
		DiscountedPrice: req.DiscountedPrice,
		Discount:        DiscountPercent(req.OriginalPrice, req.DiscountedPrice),
		Terms:           req.Terms,
		ExpiresAt:       req.ExpiresAt,
		IsActive:        true,
		Restaurant:      restaurant,
	}
	if req.Discount != nil {
		offer.Discount = *req.Discount
	}
	if req.IsActive != nil {
		offer.IsActive = *req.IsActive
	}

	if err := a.store.CreateOffer(r.Context(), &offer); err != nil {
		log.Error("Create offer error", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	event := notify.OfferCreated{
		OfferID:         offer.ID,
		RestaurantID:    restaurant.ID,
		RestaurantName:  restaurant.Name,
		Title:           offer.Title,
		Discount:        offer.Discount,
		DiscountedPrice: offer.DiscountedPrice,
		ExpiresAt:       offer.ExpiresAt,
	}
	if err := a.publisher.Publish(r.Context(), notify.RouteOfferCreated, event); err != nil {
		log.Warn("Offer created but notification failed", logger.Fields{"offer_id": offer.ID, "error": err.Error()})
	}

	log.Info("Offer created", logger.Fields{"offer_id": offer.ID, "restaurant_id": restaurant.ID})
	RespondWithJSON(w, http.StatusCreated, offer)
}

// GetOffer serves GET /api/offers/{id}.
func (a *API) GetOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "invalid offer id")
		return
	}
	log := logger.FromContext(r.Context()).WithFields(logger.Fields{"offer_id": id})

	offer, err := a.store.GetOffer(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		WriteJSONError(w, http.StatusNotFound, "offer not found")
		return
	}
	if err != nil {
		log.Error("Offer query error", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	claims, err := a.store.CountClaims(r.Context(), id)
	if err != nil {
		log.Error("Claim count query error", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	RespondWithJSON(w, http.StatusOK, offerResponse{
		Offer:      offer,
		Restaurant: offer.Restaurant.Summary(),
		Expired:    offer.Expired(a.now()),
		ClaimCount: claims,
	})
}

// ClaimOffer serves POST /api/offers/{id}/claim and issues a redemption code.
func (a *API) ClaimOffer(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "invalid offer id")
		return
	}
	log := logger.FromContext(r.Context()).WithFields(logger.Fields{"user_id": claims.UserID.String(), "offer_id": id})

	offer, err := a.store.GetOffer(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		WriteJSONError(w, http.StatusNotFound, "offer not found")
		return
	}
	if err != nil {
		log.Error("Offer query error", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	now := a.now()
	if !offer.IsActive || offer.Expired(now) {
		WriteJSONError(w, http.StatusConflict, "offer is no longer available")
		return
	}

	claim := models.Claim{
		OfferID: offer.ID,
		UserID:  claims.UserID.String(),
		Code:    uuid.NewString(),
	}
	if err := a.store.CreateClaim(r.Context(), &claim); err != nil {
		log.Error("Create claim error", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	event := notify.OfferClaimed{
		ClaimID: claim.ID,
		OfferID: offer.ID,
		UserID:  claim.UserID,
		Email:   claims.Email,
		Code:    claim.Code,
		At:      claim.CreatedAt,
	}
	if err := a.publisher.Publish(r.Context(), notify.RouteOfferClaimed, event); err != nil {
		log.Warn("Offer claimed but notification failed", logger.Fields{"claim_id": claim.ID, "error": err.Error()})
	}

	log.Info("Offer claimed", logger.Fields{"claim_id": claim.ID})
	RespondWithJSON(w, http.StatusCreated, claim)
}
