package database

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandmeridian/room-ops-backend/internal/engine"
)

// newMockDB wires sqlmock into the real sqlx layer so queries run through
// the same struct scanning the production path uses
func newMockDB(t *testing.T) (DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &PostgresDB{DB: sqlx.NewDb(db, "sqlmock")}, mock
}

var roomColumnList = []string{
	"id", "room_number", "floor", "status", "assigned_to", "clean_effort",
	"priority", "dnd_since", "last_cleaned_at", "guest_prefs", "updated_at",
}

func roomRow(id uuid.UUID, number string, floor int, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(roomColumnList).AddRow(
		id, number, floor, status, nil, "Normal",
		false, nil, nil, nil, now,
	)
}

func TestListRooms(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoomRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(roomColumnList).
			AddRow(uuid.New(), "101", 1, "occupied", nil, "Normal", false, nil, nil, nil, time.Now()).
			AddRow(uuid.New(), "205", 2, "dnd", nil, "Heavy", true, time.Now(), nil, nil, time.Now())

		mock.ExpectQuery(`SELECT (.+) FROM rooms ORDER BY floor, room_number`).
			WillReturnRows(rows)

		rooms, err := repo.ListRooms()
		require.NoError(t, err)
		require.Len(t, rooms, 2)
		assert.Equal(t, "101", rooms[0].RoomNumber)
		assert.True(t, rooms[1].DNDSince.Valid)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Connection failure is transient", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM rooms`).
			WillReturnError(errors.New("connection refused"))

		rooms, err := repo.ListRooms()
		assert.Nil(t, rooms)
		assert.True(t, engine.IsTransient(err))

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetRoomByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoomRepository(db)

	t.Run("Success", func(t *testing.T) {
		roomID := uuid.New()
		mock.ExpectQuery(`SELECT (.+) FROM rooms WHERE id = \$1`).
			WithArgs(roomID).
			WillReturnRows(roomRow(roomID, "101", 1, "ready"))

		room, err := repo.GetRoomByID(roomID)
		require.NoError(t, err)
		assert.Equal(t, roomID, room.ID)
		assert.Equal(t, "101", room.RoomNumber)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		roomID := uuid.New()
		mock.ExpectQuery(`SELECT (.+) FROM rooms WHERE id = \$1`).
			WithArgs(roomID).
			WillReturnError(sql.ErrNoRows)

		room, err := repo.GetRoomByID(roomID)
		assert.Nil(t, room)
		assert.ErrorIs(t, err, engine.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateRoom(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoomRepository(db)

	t.Run("Single field", func(t *testing.T) {
		roomID := uuid.New()
		mock.ExpectQuery(`UPDATE rooms SET priority = \$1, updated_at = NOW\(\) WHERE id = \$2 RETURNING`).
			WithArgs(true, roomID).
			WillReturnRows(roomRow(roomID, "101", 1, "occupied"))

		room, err := repo.UpdateRoom(roomID, map[string]interface{}{"priority": true})
		require.NoError(t, err)
		assert.Equal(t, roomID, room.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Status bundles its timestamp in one statement", func(t *testing.T) {
		roomID := uuid.New()
		since := time.Now()

		// Columns are sorted, so dnd_since binds before status
		mock.ExpectQuery(`UPDATE rooms SET dnd_since = \$1, status = \$2, updated_at = NOW\(\) WHERE id = \$3 RETURNING`).
			WithArgs(since, "dnd", roomID).
			WillReturnRows(roomRow(roomID, "205", 2, "dnd"))

		room, err := repo.UpdateRoom(roomID, map[string]interface{}{
			"status":    "dnd",
			"dnd_since": since,
		})
		require.NoError(t, err)
		assert.Equal(t, "205", room.RoomNumber)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown field rejected before touching the database", func(t *testing.T) {
		_, err := repo.UpdateRoom(uuid.New(), map[string]interface{}{"minibar": true})
		assert.True(t, engine.IsValidation(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty field set rejected", func(t *testing.T) {
		_, err := repo.UpdateRoom(uuid.New(), map[string]interface{}{})
		assert.True(t, engine.IsValidation(err))
	})

	t.Run("Missing room", func(t *testing.T) {
		roomID := uuid.New()
		mock.ExpectQuery(`UPDATE rooms SET`).
			WithArgs(true, roomID).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.UpdateRoom(roomID, map[string]interface{}{"priority": true})
		assert.ErrorIs(t, err, engine.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Constraint violation is a write rejection", func(t *testing.T) {
		roomID := uuid.New()
		mock.ExpectQuery(`UPDATE rooms SET`).
			WithArgs("checked_out", roomID).
			WillReturnError(&pq.Error{Code: "23514", Message: "rooms_status_check"})

		_, err := repo.UpdateRoom(roomID, map[string]interface{}{"status": "checked_out"})
		assert.True(t, engine.IsWriteRejected(err))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Driver failure is transient", func(t *testing.T) {
		roomID := uuid.New()
		mock.ExpectQuery(`UPDATE rooms SET`).
			WithArgs(true, roomID).
			WillReturnError(errors.New("broken pipe"))

		_, err := repo.UpdateRoom(roomID, map[string]interface{}{"priority": true})
		assert.True(t, engine.IsTransient(err))

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
