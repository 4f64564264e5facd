package handler

import (
	"encoding/json"
	"net/http"
)

// ListDrivers handles GET /api/drivers. Only active drivers are returned.
func (s *Server) ListDrivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := s.drivers.ListAvailable(r.Context())
	if err != nil {
		respondServiceError(w, r, err, "")
		return
	}

	respondJSON(w, http.StatusOK, drivers)
}

// updateLocationRequest is the client payload for PATCH /api/drivers/{id}/location.
type updateLocationRequest struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// UpdateDriverLocation handles PATCH /api/drivers/{id}/location.
func (s *Server) UpdateDriverLocation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	var req updateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "request body is not valid JSON")
		return
	}

	driver, err := s.drivers.UpdateLocation(r.Context(), id, req.Latitude, req.Longitude)
	if err != nil {
		respondServiceError(w, r, err, "driver not found")
		return
	}

	respondJSON(w, http.StatusOK, driver)
}
