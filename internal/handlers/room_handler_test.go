package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandmeridian/room-ops-backend/internal/engine"
	"github.com/grandmeridian/room-ops-backend/internal/middleware"
	"github.com/grandmeridian/room-ops-backend/internal/models"
	"github.com/grandmeridian/room-ops-backend/internal/realtime"
)

// memStore is a minimal in-memory engine.Store for handler tests
type memStore struct {
	mu      sync.Mutex
	rooms   map[uuid.UUID]models.Room
	tickets map[uuid.UUID]models.MaintenanceTicket
	staff   []models.StaffProfile
}

func newMemStore(rooms ...models.Room) *memStore {
	s := &memStore{
		rooms:   make(map[uuid.UUID]models.Room),
		tickets: make(map[uuid.UUID]models.MaintenanceTicket),
	}
	for _, room := range rooms {
		s.rooms[room.ID] = room
	}
	return s
}

func (s *memStore) ListRooms() ([]models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rooms := make([]models.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (s *memStore) UpdateRoom(id uuid.UUID, fields map[string]interface{}) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, engine.ErrNotFound
	}
	if status, ok := fields["status"].(string); ok {
		room.Status = models.ParseRoomStatus(status)
	}
	if priority, ok := fields["priority"].(bool); ok {
		room.Priority = priority
	}
	if effort, ok := fields["clean_effort"].(string); ok {
		room.CleanEffort = models.CleanEffort(effort)
	}
	if since, ok := fields["dnd_since"].(time.Time); ok {
		room.DNDSince = models.NewNullTime(since)
	}
	if cleaned, ok := fields["last_cleaned_at"].(time.Time); ok {
		room.LastCleanedAt = models.NewNullTime(cleaned)
	}
	if assigned, present := fields["assigned_to"]; present {
		if id, ok := assigned.(uuid.UUID); ok {
			room.AssignedTo = uuid.NullUUID{UUID: id, Valid: true}
		} else {
			room.AssignedTo = uuid.NullUUID{}
		}
	}
	room.UpdatedAt = time.Now()
	s.rooms[id] = room
	return &room, nil
}

func (s *memStore) CreateTicket(roomID uuid.UUID, note string, createdBy uuid.UUID) (*models.MaintenanceTicket, *models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return nil, nil, engine.ErrNotFound
	}
	room.Status = models.StatusMaintenance
	s.rooms[roomID] = room
	ticket := models.MaintenanceTicket{
		ID:        uuid.New(),
		RoomID:    roomID,
		Note:      note,
		CreatedBy: createdBy,
		Status:    models.TicketOpen,
		CreatedAt: time.Now(),
	}
	s.tickets[ticket.ID] = ticket
	return &ticket, &room, nil
}

func (s *memStore) ListOpenTickets(roomID uuid.UUID) ([]models.MaintenanceTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tickets := []models.MaintenanceTicket{}
	for _, ticket := range s.tickets {
		if ticket.RoomID == roomID && ticket.Status == models.TicketOpen {
			tickets = append(tickets, ticket)
		}
	}
	return tickets, nil
}

func (s *memStore) ResolveTicket(id uuid.UUID) (*models.MaintenanceTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.tickets[id]
	if !ok {
		return nil, engine.ErrNotFound
	}
	if ticket.Status == models.TicketResolved {
		return nil, &engine.WriteRejectedError{Reason: "ticket already resolved"}
	}
	ticket.Status = models.TicketResolved
	ticket.ResolvedAt = models.NewNullTime(time.Now())
	s.tickets[id] = ticket
	return &ticket, nil
}

func (s *memStore) ListStaff() ([]models.StaffProfile, error) {
	return s.staff, nil
}

func (s *memStore) AppendActivity(record *models.ActivityRecord) error {
	return nil
}

func (s *memStore) ListActivity(limit int) ([]models.ActivityRecord, error) {
	return []models.ActivityRecord{}, nil
}

func (s *memStore) SubscribeRoomChanges(ctx context.Context, callback func(realtime.RoomChangeEvent)) (func(), error) {
	return func() {}, nil
}

func (s *memStore) SubscribeActivityInserts(ctx context.Context, callback func(realtime.ActivityInsertEvent)) (func(), error) {
	return func() {}, nil
}

func testRoom(number string, floor int, status models.RoomStatus) models.Room {
	return models.Room{
		ID:          uuid.New(),
		RoomNumber:  number,
		Floor:       floor,
		Status:      status,
		CleanEffort: models.EffortNormal,
		UpdatedAt:   time.Now(),
	}
}

// setupAPI builds a router with the auth layer stubbed out to inject the
// given actor directly
func setupAPI(t *testing.T, store *memStore, actor engine.Actor) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	eng := engine.NewEngine(store, 4*time.Hour, logger)
	require.NoError(t, eng.Start(context.Background()))
	t.Cleanup(eng.Close)

	roomHandler := NewRoomHandler(eng)
	ticketHandler := NewTicketHandler(eng)
	staffHandler := NewStaffHandler(eng)
	activityHandler := NewActivityHandler(eng)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ActorContextKey, actor)
		c.Next()
	})

	rooms := router.Group("/api/v1/rooms")
	{
		rooms.GET("", roomHandler.ListRooms)
		rooms.GET("/stats", roomHandler.Stats)
		rooms.GET("/my-queue", roomHandler.MyQueue)
		rooms.GET("/:id", roomHandler.GetRoom)
		rooms.POST("/:id/advance", roomHandler.Advance)
		rooms.POST("/:id/status", roomHandler.SetStatus)
		rooms.POST("/:id/assign", roomHandler.Assign)
		rooms.POST("/:id/effort", roomHandler.SetEffort)
		rooms.POST("/:id/priority", roomHandler.SetPriority)
		rooms.GET("/:id/tickets", ticketHandler.ListRoomTickets)
		rooms.POST("/:id/tickets", ticketHandler.CreateTicket)
	}
	router.POST("/api/v1/tickets/:id/resolve", ticketHandler.ResolveTicket)
	router.GET("/api/v1/staff", staffHandler.ListStaff)
	router.GET("/api/v1/staff/:id/workload", staffHandler.Workload)
	router.GET("/api/v1/activity", activityHandler.ListActivity)

	return router
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

var testSupervisor = engine.Actor{ID: uuid.New(), Name: "Maria Santos", Role: models.RoleSupervisor}

func TestListRoomsEndpoint(t *testing.T) {
	store := newMemStore(
		testRoom("101", 1, models.StatusOccupied),
		testRoom("205", 2, models.StatusReady),
	)
	router := setupAPI(t, store, testSupervisor)

	w := doJSON(router, http.MethodGet, "/api/v1/rooms", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Rooms []models.Room `json:"rooms"`
		Count int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "101", resp.Rooms[0].RoomNumber, "snapshot must be floor then room number ordered")
}

func TestAdvanceEndpoint(t *testing.T) {
	room := testRoom("101", 1, models.StatusOccupied)
	router := setupAPI(t, newMemStore(room), testSupervisor)

	w := doJSON(router, http.MethodPost, fmt.Sprintf("/api/v1/rooms/%s/advance", room.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Room
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, models.StatusCheckedOut, updated.Status)
}

func TestAdvanceEndpointBadID(t *testing.T) {
	router := setupAPI(t, newMemStore(), testSupervisor)

	w := doJSON(router, http.MethodPost, "/api/v1/rooms/not-a-uuid/advance", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "UUID")
}

func TestAdvanceEndpointMissingRoom(t *testing.T) {
	router := setupAPI(t, newMemStore(), testSupervisor)

	w := doJSON(router, http.MethodPost, fmt.Sprintf("/api/v1/rooms/%s/advance", uuid.New()), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetStatusEndpoint(t *testing.T) {
	room := testRoom("101", 1, models.StatusOccupied)
	router := setupAPI(t, newMemStore(room), testSupervisor)

	t.Run("Valid target", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, fmt.Sprintf("/api/v1/rooms/%s/status", room.ID),
			SetStatusRequest{Status: "dnd"})
		assert.Equal(t, http.StatusOK, w.Code)

		var updated models.Room
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.Equal(t, models.StatusDND, updated.Status)
		assert.True(t, updated.DNDSince.Valid)
	})

	t.Run("Invalid target", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, fmt.Sprintf("/api/v1/rooms/%s/status", room.ID),
			SetStatusRequest{Status: "vacant"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Missing body", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, fmt.Sprintf("/api/v1/rooms/%s/status", room.ID), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAssignEndpointRejectedForNonSupervisor(t *testing.T) {
	room := testRoom("101", 1, models.StatusCheckedOut)
	worker := engine.Actor{ID: uuid.New(), Name: "James Okafor", Role: models.RoleHousekeeper}
	router := setupAPI(t, newMemStore(room), worker)

	staffID := uuid.New()
	w := doJSON(router, http.MethodPost, fmt.Sprintf("/api/v1/rooms/%s/assign", room.ID),
		AssignRequest{StaffID: &staffID})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTicketEndpoints(t *testing.T) {
	room := testRoom("202", 2, models.StatusOccupied)
	store := newMemStore(room)
	router := setupAPI(t, store, testSupervisor)

	t.Run("Create forces maintenance", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, fmt.Sprintf("/api/v1/rooms/%s/tickets", room.ID),
			CreateTicketRequest{Note: "AC broken"})
		assert.Equal(t, http.StatusCreated, w.Code)

		roomsResp := doJSON(router, http.MethodGet, fmt.Sprintf("/api/v1/rooms/%s", room.ID), nil)
		var current models.Room
		require.NoError(t, json.Unmarshal(roomsResp.Body.Bytes(), &current))
		assert.Equal(t, models.StatusMaintenance, current.Status)
	})

	t.Run("Blank note rejected", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, fmt.Sprintf("/api/v1/rooms/%s/tickets", room.ID),
			CreateTicketRequest{Note: "   "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Resolve twice conflicts", func(t *testing.T) {
		create := doJSON(router, http.MethodPost, fmt.Sprintf("/api/v1/rooms/%s/tickets", room.ID),
			CreateTicketRequest{Note: "Broken lamp"})
		require.Equal(t, http.StatusCreated, create.Code)

		var ticket models.MaintenanceTicket
		require.NoError(t, json.Unmarshal(create.Body.Bytes(), &ticket))

		first := doJSON(router, http.MethodPost, fmt.Sprintf("/api/v1/tickets/%s/resolve", ticket.ID), nil)
		assert.Equal(t, http.StatusOK, first.Code)

		second := doJSON(router, http.MethodPost, fmt.Sprintf("/api/v1/tickets/%s/resolve", ticket.ID), nil)
		assert.Equal(t, http.StatusConflict, second.Code)
		assert.Contains(t, second.Body.String(), "already resolved")
	})
}

func TestStatsEndpoint(t *testing.T) {
	store := newMemStore(
		testRoom("101", 1, models.StatusOccupied),
		testRoom("102", 1, models.StatusReady),
	)
	router := setupAPI(t, store, testSupervisor)

	w := doJSON(router, http.MethodGet, "/api/v1/rooms/stats", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var counts engine.StatusCounts
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &counts))
	assert.Equal(t, 2, counts.Total)
	assert.Equal(t, 1, counts.ByStatus[models.StatusOccupied])
}

func TestMyQueueEndpoint(t *testing.T) {
	worker := engine.Actor{ID: uuid.New(), Name: "James Okafor", Role: models.RoleHousekeeper}
	mine := testRoom("101", 1, models.StatusInProgress)
	mine.AssignedTo = uuid.NullUUID{UUID: worker.ID, Valid: true}
	store := newMemStore(mine, testRoom("102", 1, models.StatusOccupied))
	router := setupAPI(t, store, worker)

	w := doJSON(router, http.MethodGet, "/api/v1/rooms/my-queue", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Rooms []models.Room `json:"rooms"`
		Count int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "101", resp.Rooms[0].RoomNumber)
}

func TestActivityEndpointLimitValidation(t *testing.T) {
	router := setupAPI(t, newMemStore(), testSupervisor)

	w := doJSON(router, http.MethodGet, "/api/v1/activity?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/activity?limit=-5", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/activity?limit=10", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWorkloadEndpoint(t *testing.T) {
	staffID := uuid.New()
	room := testRoom("101", 1, models.StatusInProgress)
	room.AssignedTo = uuid.NullUUID{UUID: staffID, Valid: true}
	router := setupAPI(t, newMemStore(room), testSupervisor)

	w := doJSON(router, http.MethodGet, fmt.Sprintf("/api/v1/staff/%s/workload", staffID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var workload engine.Workload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &workload))
	assert.Equal(t, 1, workload.AssignedCount)
	assert.Equal(t, 1, workload.InProgressCount)
}
