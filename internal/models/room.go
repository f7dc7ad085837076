package models

import (
	"time"

	"github.com/google/uuid"
)

// RoomStatus is the room's position in the cleaning/occupancy lifecycle
type RoomStatus string

const (
	StatusOccupied    RoomStatus = "occupied"
	StatusCheckedOut  RoomStatus = "checked_out"
	StatusInProgress  RoomStatus = "in_progress"
	StatusInspection  RoomStatus = "inspection"
	StatusReady       RoomStatus = "ready"
	StatusMaintenance RoomStatus = "maintenance"
	StatusDND         RoomStatus = "dnd"
)

// AllStatuses lists every valid room status in lifecycle order
var AllStatuses = []RoomStatus{
	StatusOccupied,
	StatusCheckedOut,
	StatusInProgress,
	StatusInspection,
	StatusReady,
	StatusMaintenance,
	StatusDND,
}

// Valid reports whether s is a recognized room status
func (s RoomStatus) Valid() bool {
	switch s {
	case StatusOccupied, StatusCheckedOut, StatusInProgress,
		StatusInspection, StatusReady, StatusMaintenance, StatusDND:
		return true
	}
	return false
}

// ParseRoomStatus maps a raw string to a RoomStatus. Unrecognized values
// fall back to StatusOccupied so stale or malformed rows never crash a
// consumer.
func ParseRoomStatus(raw string) RoomStatus {
	s := RoomStatus(raw)
	if !s.Valid() {
		return StatusOccupied
	}
	return s
}

// CleanEffort grades how much work a room needs
type CleanEffort string

const (
	EffortLight  CleanEffort = "Light"
	EffortNormal CleanEffort = "Normal"
	EffortHeavy  CleanEffort = "Heavy"
)

// Valid reports whether e is a recognized clean effort
func (e CleanEffort) Valid() bool {
	switch e {
	case EffortLight, EffortNormal, EffortHeavy:
		return true
	}
	return false
}

// Room represents one physical hotel room
type Room struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	RoomNumber    string        `json:"room_number" db:"room_number"`
	Floor         int           `json:"floor" db:"floor"`
	Status        RoomStatus    `json:"status" db:"status"`
	AssignedTo    uuid.NullUUID `json:"assigned_to" db:"assigned_to"`
	CleanEffort   CleanEffort   `json:"clean_effort" db:"clean_effort"`
	Priority      bool          `json:"priority" db:"priority"`
	DNDSince      NullTime      `json:"dnd_since,omitempty" db:"dnd_since"`
	LastCleanedAt NullTime      `json:"last_cleaned_at,omitempty" db:"last_cleaned_at"`
	GuestPrefs    NullString    `json:"guest_prefs,omitempty" db:"guest_prefs"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// HotelConfig holds display configuration for the property (single row)
type HotelConfig struct {
	ID      int        `json:"id" db:"id"`
	Name    string     `json:"name" db:"name"`
	Address NullString `json:"address,omitempty" db:"address"`
	Phone   NullString `json:"phone,omitempty" db:"phone"`
}
