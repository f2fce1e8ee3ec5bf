package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"stayhub/internal/database"
)

func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := database.PropertyFilter{
		Search:            q.Get("search"),
		Location:          q.Get("location"),
		PropertyType:      q.Get("property_type"),
		AccommodationType: q.Get("accommodation_type"),
		Page:              parsePage(r),
	}
	if raw := q.Get("min_price"); raw != "" {
		filter.MinPrice, _ = strconv.ParseFloat(raw, 64)
	}
	if raw := q.Get("max_price"); raw != "" {
		filter.MaxPrice, _ = strconv.ParseFloat(raw, 64)
	}
	if raw := q.Get("bedrooms"); raw != "" {
		filter.MinBedrooms, _ = strconv.Atoi(raw)
	}
	if raw := q.Get("bathrooms"); raw != "" {
		filter.MinBathrooms, _ = strconv.Atoi(raw)
	}
	if raw := q.Get("guests"); raw != "" {
		filter.MinOccupancy, _ = strconv.Atoi(raw)
	}
	if raw := q.Get("featured"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			filter.Featured = &v
		}
	}
	// Public listings only show bookable properties.
	available := true
	filter.Available = &available

	properties, total, err := s.properties.ListProperties(r.Context(), filter)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writePage(w, properties, filter.Page, total)
}

func (s *Server) handleFeaturedProperties(w http.ResponseWriter, r *http.Request) {
	limit := 6
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= 50 {
			limit = n
		}
	}
	properties, err := s.properties.GetFeaturedProperties(r.Context(), limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, properties)
}

func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	propertyID, err := pathID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid property id")
		return
	}
	property, err := s.properties.GetProperty(r.Context(), propertyID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, property)
}

func (s *Server) handleCheckAvailability(w http.ResponseWriter, r *http.Request) {
	propertyID, err := pathID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid property id")
		return
	}

	start, err := parseDate(r.URL.Query().Get("start_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_date must be a date in YYYY-MM-DD format")
		return
	}
	end, err := parseDate(r.URL.Query().Get("end_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "end_date must be a date in YYYY-MM-DD format")
		return
	}

	available, err := s.bookings.CheckAvailability(r.Context(), propertyID, start, end)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"available": available})
}

func (s *Server) handlePropertyRating(w http.ResponseWriter, r *http.Request) {
	propertyID, err := pathID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid property id")
		return
	}
	stats, err := s.reviews.GetPropertyRatingStats(r.Context(), propertyID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}
