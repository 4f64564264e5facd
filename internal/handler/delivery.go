package handler

import (
	"encoding/json"
	"net/http"

	"github.com/spoedpakketjes/backend/internal/domain"
)

// createDeliveryRequest is the client payload for POST /api/deliveries:
// the Delivery schema minus all server-assigned fields (id, order number,
// status, prices, timestamps).
type createDeliveryRequest struct {
	UserID             int64   `json:"userId"`
	Type               string  `json:"type"`
	PickupStreet       string  `json:"pickupStreet"`
	PickupCity         string  `json:"pickupCity"`
	PickupPostalCode   string  `json:"pickupPostalCode"`
	PickupLatitude     *string `json:"pickupLatitude"`
	PickupLongitude    *string `json:"pickupLongitude"`
	DeliveryStreet     string  `json:"deliveryStreet"`
	DeliveryCity       string  `json:"deliveryCity"`
	DeliveryPostalCode string  `json:"deliveryPostalCode"`
	DeliveryLatitude   *string `json:"deliveryLatitude"`
	DeliveryLongitude  *string `json:"deliveryLongitude"`
}

// CreateDelivery handles POST /api/deliveries.
func (s *Server) CreateDelivery(w http.ResponseWriter, r *http.Request) {
	var req createDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "request body is not valid JSON")
		return
	}

	created, err := s.deliveries.Create(r.Context(), domain.Delivery{
		UserID:             req.UserID,
		Type:               domain.DeliveryType(req.Type),
		PickupStreet:       req.PickupStreet,
		PickupCity:         req.PickupCity,
		PickupPostalCode:   req.PickupPostalCode,
		PickupLatitude:     req.PickupLatitude,
		PickupLongitude:    req.PickupLongitude,
		DeliveryStreet:     req.DeliveryStreet,
		DeliveryCity:       req.DeliveryCity,
		DeliveryPostalCode: req.DeliveryPostalCode,
		DeliveryLatitude:   req.DeliveryLatitude,
		DeliveryLongitude:  req.DeliveryLongitude,
	})
	if err != nil {
		respondServiceError(w, r, err, "delivery not found")
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// GetDelivery handles GET /api/deliveries/{id}.
// The response embeds the assigned driver as "driver", or null when the
// delivery has no driver yet.
func (s *Server) GetDelivery(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	detail, err := s.deliveries.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, "delivery not found")
		return
	}

	respondJSON(w, http.StatusOK, detail)
}

// ListUserDeliveries handles GET /api/deliveries/user/{userID}.
func (s *Server) ListUserDeliveries(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	deliveries, err := s.deliveries.ListByUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err, "user not found")
		return
	}

	respondJSON(w, http.StatusOK, deliveries)
}

// ListDriverDeliveries handles GET /api/deliveries/driver/{driverID}.
func (s *Server) ListDriverDeliveries(w http.ResponseWriter, r *http.Request) {
	driverID, err := pathID(r, "driverID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	deliveries, err := s.deliveries.ListByDriver(r.Context(), driverID)
	if err != nil {
		respondServiceError(w, r, err, "driver not found")
		return
	}

	respondJSON(w, http.StatusOK, deliveries)
}

// updateStatusRequest is the client payload for PATCH /api/deliveries/{id}/status.
type updateStatusRequest struct {
	Status   string `json:"status"`
	DriverID *int64 `json:"driverId"`
}

// UpdateDeliveryStatus handles PATCH /api/deliveries/{id}/status.
func (s *Server) UpdateDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "request body is not valid JSON")
		return
	}
	if req.Status == "" {
		respondBadRequest(w, "status is required")
		return
	}

	updated, err := s.deliveries.UpdateStatus(r.Context(), id, domain.DeliveryStatus(req.Status), req.DriverID)
	if err != nil {
		respondServiceError(w, r, err, "delivery not found")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// estimateRequest is the client payload for POST /api/estimate.
type estimateRequest struct {
	Type              string  `json:"type"`
	PickupLatitude    *string `json:"pickupLatitude"`
	PickupLongitude   *string `json:"pickupLongitude"`
	DeliveryLatitude  *string `json:"deliveryLatitude"`
	DeliveryLongitude *string `json:"deliveryLongitude"`
}

// Estimate handles POST /api/estimate. It quotes a price and time without
// creating anything.
func (s *Server) Estimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "request body is not valid JSON")
		return
	}

	estimate, err := s.estimates.Quote(domain.DeliveryType(req.Type),
		req.PickupLatitude, req.PickupLongitude,
		req.DeliveryLatitude, req.DeliveryLongitude)
	if err != nil {
		respondServiceError(w, r, err, "")
		return
	}

	respondJSON(w, http.StatusOK, estimate)
}
