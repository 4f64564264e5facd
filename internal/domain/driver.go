package domain

// Driver is a courier who picks up and delivers packages.
// CurrentLatitude/CurrentLongitude are nil until the driver has reported a
// location at least once. Rating is a decimal string (e.g. "4.8").
type Driver struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Phone            string  `json:"phone"`
	Email            string  `json:"email"`
	Rating           string  `json:"rating"`
	Vehicle          string  `json:"vehicle"` // free-text description, e.g. "Witte bestelbus"
	VehicleType      string  `json:"vehicleType"`
	IsActive         bool    `json:"isActive"`
	CurrentLatitude  *string `json:"currentLatitude"`
	CurrentLongitude *string `json:"currentLongitude"`
}
