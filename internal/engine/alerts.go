package engine

import (
	"time"

	"github.com/grandmeridian/room-ops-backend/internal/models"
)

// NeedsWelfareCheck reports whether a room has sat in do-not-disturb for
// at least threshold. The boundary is inclusive: exactly threshold flags.
// The predicate is computed on read and never persisted.
func NeedsWelfareCheck(room models.Room, now time.Time, threshold time.Duration) bool {
	if room.Status != models.StatusDND || !room.DNDSince.Valid {
		return false
	}
	return now.Sub(room.DNDSince.Time) >= threshold
}

// AttentionReport is the "rooms needing attention" banner input: welfare
// alerts plus priority-flagged rooms.
type AttentionReport struct {
	Welfare  []models.Room `json:"welfare"`
	Priority []models.Room `json:"priority"`
}

// WelfareAlerts returns the rooms currently past the welfare threshold
func (e *Engine) WelfareAlerts() []models.Room {
	now := e.now()
	alerts := []models.Room{}
	for _, room := range e.registry.Snapshot() {
		if NeedsWelfareCheck(room, now, e.welfareThreshold) {
			alerts = append(alerts, room)
		}
	}
	return alerts
}

// RoomsNeedingAttention gathers every room flagged for the attention
// banner
func (e *Engine) RoomsNeedingAttention() AttentionReport {
	now := e.now()
	report := AttentionReport{Welfare: []models.Room{}, Priority: []models.Room{}}
	for _, room := range e.registry.Snapshot() {
		if NeedsWelfareCheck(room, now, e.welfareThreshold) {
			report.Welfare = append(report.Welfare, room)
		}
		if room.Priority {
			report.Priority = append(report.Priority, room)
		}
	}
	return report
}
