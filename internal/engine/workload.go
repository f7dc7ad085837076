package engine

import (
	"sort"

	"github.com/google/uuid"
	"github.com/grandmeridian/room-ops-backend/internal/models"
)

// Workload is the derived work picture for one staff member. It is
// recomputed from the registry snapshot on every read and never cached
// separately, so it cannot go stale against the room list.
type Workload struct {
	StaffID          uuid.UUID `json:"staff_id"`
	AssignedCount    int       `json:"assigned_count"`
	InProgressCount  int       `json:"in_progress_count"`
	ReadyCount       int       `json:"ready_count"`
	HeavyEffortCount int       `json:"heavy_effort_count"`
}

// WorkloadFor computes the current workload for one staff member
func (e *Engine) WorkloadFor(staffID uuid.UUID) Workload {
	w := Workload{StaffID: staffID}

	for _, room := range e.registry.Snapshot() {
		if !room.AssignedTo.Valid || room.AssignedTo.UUID != staffID {
			continue
		}
		w.AssignedCount++
		switch room.Status {
		case models.StatusInProgress:
			w.InProgressCount++
		case models.StatusReady:
			w.ReadyCount++
		}
		if room.CleanEffort == models.EffortHeavy {
			w.HeavyEffortCount++
		}
	}

	return w
}

// QueueFor returns the rooms assigned to an actor, floor then room number
// order. This is the worker's "my queue" view: exactly the rooms assigned
// to them, regardless of floor metadata.
func (e *Engine) QueueFor(actorID uuid.UUID) []models.Room {
	queue := []models.Room{}
	for _, room := range e.registry.Snapshot() {
		if room.AssignedTo.Valid && room.AssignedTo.UUID == actorID {
			queue = append(queue, room)
		}
	}
	return queue
}

// StatusCounts tallies rooms per status plus the priority-flag total
type StatusCounts struct {
	Total    int                       `json:"total"`
	ByStatus map[models.RoomStatus]int `json:"by_status"`
	Priority int                       `json:"priority"`
}

// CountByStatus computes the dashboard stat block from the snapshot
func (e *Engine) CountByStatus() StatusCounts {
	counts := StatusCounts{ByStatus: make(map[models.RoomStatus]int, len(models.AllStatuses))}
	for _, s := range models.AllStatuses {
		counts.ByStatus[s] = 0
	}

	for _, room := range e.registry.Snapshot() {
		counts.Total++
		counts.ByStatus[models.ParseRoomStatus(string(room.Status))]++
		if room.Priority {
			counts.Priority++
		}
	}

	return counts
}

func sortStaff(staff []models.StaffProfile) {
	sort.Slice(staff, func(i, j int) bool {
		return staff[i].FullName < staff[j].FullName
	})
}
