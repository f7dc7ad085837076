package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Staff roles. Supervisors manage assignment and configuration; every
// other role consumes the engine read-mostly.
const (
	RoleSupervisor  = "supervisor"
	RoleHousekeeper = "housekeeper"
	RoleInspector   = "inspector"
	RoleMaintenance = "maintenance"
)

// StaffProfile mirrors the identity provider's profile record. The engine
// reads these; it never creates or mutates them.
type StaffProfile struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	FullName      string        `json:"full_name" db:"full_name"`
	Role          string        `json:"role" db:"role"`
	Floors        pq.Int64Array `json:"floors" db:"floors"`
	AvatarInitial NullString    `json:"avatar_initial,omitempty" db:"avatar_initial"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// Initial returns the display initial for the staff member
func (p *StaffProfile) Initial() string {
	if p.AvatarInitial.Valid && p.AvatarInitial.String != "" {
		return p.AvatarInitial.String
	}
	if p.FullName != "" {
		return string([]rune(p.FullName)[0:1])
	}
	return "?"
}
