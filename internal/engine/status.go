package engine

import (
	"time"

	"github.com/grandmeridian/room-ops-backend/internal/models"
)

// defaultNext nominates the single "next" status each state offers for the
// one-click progression action. The main cycle is
// occupied -> checked_out -> in_progress -> inspection -> ready -> occupied,
// with maintenance and dnd branching back in. The table is total over the
// enum; adding a status without a successor is a compile-visible gap in
// the status tests.
var defaultNext = map[models.RoomStatus]models.RoomStatus{
	models.StatusOccupied:    models.StatusCheckedOut,
	models.StatusCheckedOut:  models.StatusInProgress,
	models.StatusInProgress:  models.StatusInspection,
	models.StatusInspection:  models.StatusReady,
	models.StatusReady:       models.StatusOccupied,
	models.StatusMaintenance: models.StatusReady,
	models.StatusDND:         models.StatusCheckedOut,
}

// statusLabels are the operator-facing names for each status
var statusLabels = map[models.RoomStatus]string{
	models.StatusOccupied:    "Occupied",
	models.StatusCheckedOut:  "Checked Out",
	models.StatusInProgress:  "Cleaning",
	models.StatusInspection:  "Inspection",
	models.StatusReady:       "Ready",
	models.StatusMaintenance: "Maintenance",
	models.StatusDND:         "Do Not Disturb",
}

// DefaultNext returns the default-advance successor for s. Unrecognized
// input is normalized first, so the result is always a valid status.
func DefaultNext(s models.RoomStatus) models.RoomStatus {
	return defaultNext[models.ParseRoomStatus(string(s))]
}

// StatusLabel returns the display label for s
func StatusLabel(s models.RoomStatus) string {
	return statusLabels[models.ParseRoomStatus(string(s))]
}

// statusPatch builds the partial field set for a status change. The
// timestamp side effect travels in the same patch as the status so the
// pair is one logical write:
//
//	dnd   -> stamps dnd_since
//	ready -> stamps last_cleaned_at
//
// Leaving dnd does not clear dnd_since; the value is overwritten on the
// next entry into dnd.
func statusPatch(target models.RoomStatus, now time.Time) map[string]interface{} {
	fields := map[string]interface{}{
		"status": string(target),
	}
	switch target {
	case models.StatusDND:
		fields["dnd_since"] = now
	case models.StatusReady:
		fields["last_cleaned_at"] = now
	}
	return fields
}
