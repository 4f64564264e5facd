package domain

// Address is a saved pickup/drop-off location owned by exactly one user.
// Created on demand, never mutated. Coordinates are decimal strings
// (e.g. "52.3676") matching the wire format of the client.
type Address struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"userId"`
	Label      string `json:"label"` // free text, e.g. "Thuis"
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Latitude   string `json:"latitude"`
	Longitude  string `json:"longitude"`
}
