package handlers

import (
	"net/http"

	"mealdeal/auth"
	"mealdeal/logger"
	"mealdeal/models"
	"mealdeal/notify"
	"mealdeal/validation"
)

type locationResponse struct {
	models.Coordinate
	TTLSeconds int64 `json:"ttl_seconds,omitempty"`
}

// UpdateLocation serves PUT /api/me/location. The coordinate is kept for
// LOCATION_TTL and used as the default search center.
func (a *API) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())

	var coord models.Coordinate
	if err := a.readValidated(w, r, validation.Location, &coord); err != nil {
		writeValidationError(w, err)
		return
	}
	a.locations.Put(claims.UserID.String(), coord, a.now(), a.locationTTL)

	RespondWithJSON(w, http.StatusOK, locationResponse{Coordinate: coord, TTLSeconds: int64(a.locationTTL.Seconds())})
}

type newsletterRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Newsletter serves POST /api/admin/newsletter by queueing a broadcast.
func (a *API) Newsletter(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	log := logger.FromContext(r.Context()).WithFields(logger.Fields{"user_id": claims.UserID.String()})

	var req newsletterRequest
	if err := a.readValidated(w, r, validation.Newsletter, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	event := notify.NewsletterBroadcast{
		Subject:     req.Subject,
		Body:        req.Body,
		RequestedBy: claims.Email,
		At:          a.now(),
	}
	if err := a.publisher.Publish(r.Context(), notify.RouteNewsletter, event); err != nil {
		log.Error("Newsletter publish error", err, nil)
		WriteJSONError(w, http.StatusServiceUnavailable, "newsletter could not be queued")
		return
	}
	log.Info("Newsletter queued", logger.Fields{"subject": req.Subject})
	RespondWithJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
