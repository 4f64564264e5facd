package handler

import (
	"encoding/json"
	"net/http"

	"github.com/spoedpakketjes/backend/internal/domain"
)

// ListAddresses handles GET /api/addresses/{userID}.
func (s *Server) ListAddresses(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	addresses, err := s.addresses.ListByUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err, "user not found")
		return
	}

	respondJSON(w, http.StatusOK, addresses)
}

// createAddressRequest is the client payload for POST /api/addresses.
type createAddressRequest struct {
	UserID     int64  `json:"userId"`
	Label      string `json:"label"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Latitude   string `json:"latitude"`
	Longitude  string `json:"longitude"`
}

// CreateAddress handles POST /api/addresses.
func (s *Server) CreateAddress(w http.ResponseWriter, r *http.Request) {
	var req createAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "request body is not valid JSON")
		return
	}

	created, err := s.addresses.Create(r.Context(), domain.Address{
		UserID:     req.UserID,
		Label:      req.Label,
		Street:     req.Street,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
	})
	if err != nil {
		respondServiceError(w, r, err, "user not found")
		return
	}

	respondJSON(w, http.StatusCreated, created)
}
