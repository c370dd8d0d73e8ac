// Package api is the typed surface of the two airport backends: the auth
// service endpoints the session layer consumes, and the operations
// service's CRUD resources. Create/read/update/delete semantics live
// server-side; these types only shape the records on the wire.
package api

import "time"

// Flight is a scheduled flight record.
type Flight struct {
	ID            int64      `json:"id,omitempty"`
	Number        string     `json:"number"`
	AirlineID     int64      `json:"airline_id"`
	OriginID      int64      `json:"origin_id"`
	DestinationID int64      `json:"destination_id"`
	DepartureTime time.Time  `json:"departure_time"`
	ArrivalTime   time.Time  `json:"arrival_time"`
	Status        string     `json:"status,omitempty"`
	Gate          string     `json:"gate,omitempty"`
	Aircraft      string     `json:"aircraft,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// Booking ties a passenger to a flight and a seat.
type Booking struct {
	ID          int64      `json:"id,omitempty"`
	FlightID    int64      `json:"flight_id"`
	PassengerID int64      `json:"passenger_id"`
	Seat        string     `json:"seat,omitempty"`
	Status      string     `json:"status,omitempty"`
	Price       float64    `json:"price,omitempty"`
	BookedAt    *time.Time `json:"booked_at,omitempty"`
}

// Passenger is a traveler record.
type Passenger struct {
	ID             int64  `json:"id,omitempty"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email,omitempty"`
	PassportNumber string `json:"passport_number,omitempty"`
	Nationality    string `json:"nationality,omitempty"`
	BirthDate      string `json:"birth_date,omitempty"`
}

// Airline is a carrier record.
type Airline struct {
	ID      int64  `json:"id,omitempty"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	Country string `json:"country,omitempty"`
}

// Airport is an airport record.
type Airport struct {
	ID      int64  `json:"id,omitempty"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

// CrewMember is a crew roster entry.
type CrewMember struct {
	ID            int64  `json:"id,omitempty"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Position      string `json:"position,omitempty"`
	LicenseNumber string `json:"license_number,omitempty"`
	AirlineID     int64  `json:"airline_id,omitempty"`
}

// MaintenanceRecord tracks aircraft maintenance work.
type MaintenanceRecord struct {
	ID           int64      `json:"id,omitempty"`
	Aircraft     string     `json:"aircraft"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status,omitempty"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}
