package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/coc-ops/roombook-api/internal/models"
	"github.com/coc-ops/roombook-api/pkg/config"
	appErrors "github.com/coc-ops/roombook-api/pkg/errors"
)

// RoomRepository reads the room catalog from Postgres.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs the repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// List returns every room ordered by id.
func (r *RoomRepository) List(ctx context.Context) ([]models.Room, error) {
	query := `SELECT id, capacity FROM rooms ORDER BY id ASC`
	rooms := make([]models.Room, 0)
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, err
	}
	return rooms, nil
}

// FindByID returns a single room.
func (r *RoomRepository) FindByID(ctx context.Context, id string) (*models.Room, error) {
	query := `SELECT id, capacity FROM rooms WHERE id = $1`
	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, err
	}
	return &room, nil
}

// StaticRoomProvider serves the config-declared catalog when no database is
// attached.
type StaticRoomProvider struct {
	rooms []models.Room
}

// NewStaticRoomProvider copies the configured rooms.
func NewStaticRoomProvider(rooms []config.StaticRoom) *StaticRoomProvider {
	catalog := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		catalog = append(catalog, models.Room{ID: room.ID, Capacity: room.Capacity})
	}
	return &StaticRoomProvider{rooms: catalog}
}

// List returns the static catalog.
func (p *StaticRoomProvider) List(ctx context.Context) ([]models.Room, error) {
	rooms := make([]models.Room, len(p.rooms))
	copy(rooms, p.rooms)
	return rooms, nil
}
