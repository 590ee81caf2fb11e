package handlers

import (
	"net/http"
	"strconv"

	"mealdeal/geo"
	"mealdeal/logger"
	"mealdeal/models"
	"mealdeal/search"
)

// FiltersHandler returns every cuisine and location available for filtering.
func (a *API) FiltersHandler(w http.ResponseWriter, r *http.Request) {
	filters, ok := a.filters(w, r)
	if !ok {
		return
	}
	RespondWithJSON(w, http.StatusOK, filters)
}

// CuisinesHandler lists the distinct cuisines to populate the cuisine selector.
func (a *API) CuisinesHandler(w http.ResponseWriter, r *http.Request) {
	filters, ok := a.filters(w, r)
	if !ok {
		return
	}
	RespondWithJSON(w, http.StatusOK, filters.Cuisines)
}

func (a *API) LocationsHandler(w http.ResponseWriter, r *http.Request) {
	filters, ok := a.filters(w, r)
	if !ok {
		return
	}
	RespondWithJSON(w, http.StatusOK, filters.Locations)
}

func (a *API) filters(w http.ResponseWriter, r *http.Request) (search.Filters, bool) {
	filters, err := a.search.Filters(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error("Filters query error", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Something went wrong")
		return search.Filters{}, false
	}
	return filters, true
}

// NearestAreaHandler resolves the caller's coordinates to the location of the
// closest geolocated restaurant. Answers are memoised per geohash cell.
func (a *API) NearestAreaHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	latStr, lngStr := query.Get("lat"), query.Get("lng")
	if lngStr == "" {
		lngStr = query.Get("lon")
	}
	if latStr == "" || lngStr == "" {
		WriteJSONError(w, http.StatusBadRequest, "lat and lng are required")
		return
	}
	lat, latErr := strconv.ParseFloat(latStr, 64)
	lng, lngErr := strconv.ParseFloat(lngStr, 64)
	point := models.Coordinate{Latitude: lat, Longitude: lng}
	if latErr != nil || lngErr != nil || !point.Valid() {
		WriteJSONError(w, http.StatusBadRequest, "lat and lng must be valid coordinates")
		return
	}

	log := logger.FromContext(r.Context()).WithFields(logger.Fields{"cell": geo.Cell(point)})
	if area, ok := a.areas.Lookup(point); ok {
		log.Debug("Nearest area served from cache", nil)
		RespondWithJSON(w, http.StatusOK, map[string]string{"location": area})
		return
	}

	restaurants, err := a.store.ListRestaurants(r.Context())
	if err != nil {
		log.Error("Nearest area query error", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Could not detect area")
		return
	}

	ranked := geo.SortByDistance(restaurants, point)
	if len(ranked) == 0 || ranked[0].Distance == nil {
		WriteJSONError(w, http.StatusNotFound, "no geolocated restaurants")
		return
	}

	nearest := ranked[0]
	a.areas.Store(point, nearest.Item.Location)
	log.Debug("Closest area found", logger.Fields{"location": nearest.Item.Location, "distance_km": *nearest.Distance})
	RespondWithJSON(w, http.StatusOK, map[string]string{"location": nearest.Item.Location})
}
