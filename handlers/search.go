package handlers

import (
	"net/http"
	"strconv"

	"mealdeal/auth"
	"mealdeal/logger"
	"mealdeal/search"
)

// criteriaFromRequest parses the search query. Without explicit coordinates
// an authenticated caller's cached location becomes the center.
func (a *API) criteriaFromRequest(r *http.Request) search.Criteria {
	query := r.URL.Query()
	now := a.now()
	c := search.ParseCriteria(query, now)

	if limit, err := strconv.Atoi(query.Get("limit")); err != nil || limit <= 0 {
		c.Limit = a.pageSize
	}

	if c.Scope == nil && query.Get("lat") == "" && query.Get("lng") == "" && query.Get("lon") == "" {
		if claims, ok := auth.FromContext(r.Context()); ok {
			if coord, ok := a.locations.Get(claims.UserID.String(), now, a.locationTTL); ok {
				c.Scope = search.ParseScope(formatCoord(coord.Latitude), formatCoord(coord.Longitude), query.Get("radius"))
			}
		}
	}
	return c
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// emptyPage is the result body sent when candidates could not be loaded.
func emptyPage(c search.Criteria) search.ResultPage {
	return search.Execute(search.Input{Page: search.PageRequest{Page: c.Page, Limit: c.Limit}})
}

// SearchOffers serves GET /api/offers.
func (a *API) SearchOffers(w http.ResponseWriter, r *http.Request) {
	c := a.criteriaFromRequest(r)
	page, err := a.search.Search(r.Context(), c)
	if err != nil {
		logger.FromContext(r.Context()).Error("Search query error", err, nil)
		RespondWithJSON(w, http.StatusInternalServerError, emptyPage(c))
		return
	}
	RespondWithJSON(w, http.StatusOK, page)
}
