package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/grandmeridian/room-ops-backend/internal/models"
)

// applyFields merges a partial field set into a room by shallow overwrite:
// a present field replaces the local value of the same name, absent fields
// stay untouched. There is no version vector and no conflict detection —
// the store's commit order decides, last write wins. Re-applying an
// identical field set changes nothing, so duplicate or re-ordered delivery
// of the same event is safe.
//
// Returns whether any field actually changed.
func applyFields(room *models.Room, fields map[string]interface{}) bool {
	changed := false

	for name, value := range fields {
		switch name {
		case "room_number":
			if s, ok := toString(value); ok && room.RoomNumber != s {
				room.RoomNumber = s
				changed = true
			}
		case "floor":
			if f, ok := toInt(value); ok && room.Floor != f {
				room.Floor = f
				changed = true
			}
		case "status":
			if s, ok := toString(value); ok {
				status := models.ParseRoomStatus(s)
				if room.Status != status {
					room.Status = status
					changed = true
				}
			}
		case "assigned_to":
			next := toNullUUID(value)
			if room.AssignedTo != next {
				room.AssignedTo = next
				changed = true
			}
		case "clean_effort":
			if s, ok := toString(value); ok {
				effort := models.CleanEffort(s)
				if effort.Valid() && room.CleanEffort != effort {
					room.CleanEffort = effort
					changed = true
				}
			}
		case "priority":
			if b, ok := value.(bool); ok && room.Priority != b {
				room.Priority = b
				changed = true
			}
		case "dnd_since":
			next := toNullTime(value)
			if !nullTimeEqual(room.DNDSince, next) {
				room.DNDSince = next
				changed = true
			}
		case "last_cleaned_at":
			next := toNullTime(value)
			if !nullTimeEqual(room.LastCleanedAt, next) {
				room.LastCleanedAt = next
				changed = true
			}
		case "guest_prefs":
			next := toNullString(value)
			if room.GuestPrefs != next {
				room.GuestPrefs = next
				changed = true
			}
		case "updated_at":
			if t, ok := toTime(value); ok && !room.UpdatedAt.Equal(t) {
				room.UpdatedAt = t
				changed = true
			}
		}
		// Unknown fields are ignored: a newer store schema must not break
		// older clients
	}

	return changed
}

// Coercions below accept both native Go values (local optimistic patches)
// and JSON-decoded values (push events off the wire).

func toString(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case models.RoomStatus:
		return string(s), true
	case models.CleanEffort:
		return string(s), true
	}
	return "", false
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func toTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	return time.Time{}, false
}

func toNullTime(v interface{}) models.NullTime {
	if v == nil {
		return models.NullTime{}
	}
	if t, ok := toTime(v); ok {
		return models.NewNullTime(t)
	}
	if nt, ok := v.(models.NullTime); ok {
		return nt
	}
	return models.NullTime{}
}

func toNullString(v interface{}) models.NullString {
	if v == nil {
		return models.NullString{}
	}
	if s, ok := v.(string); ok {
		return models.NewNullString(s)
	}
	if ns, ok := v.(models.NullString); ok {
		return ns
	}
	return models.NullString{}
}

func toNullUUID(v interface{}) uuid.NullUUID {
	switch id := v.(type) {
	case nil:
		return uuid.NullUUID{}
	case uuid.UUID:
		return uuid.NullUUID{UUID: id, Valid: true}
	case uuid.NullUUID:
		return id
	case string:
		parsed, err := uuid.Parse(id)
		if err != nil {
			return uuid.NullUUID{}
		}
		return uuid.NullUUID{UUID: parsed, Valid: true}
	}
	return uuid.NullUUID{}
}

func nullTimeEqual(a, b models.NullTime) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Time.Equal(b.Time)
}
