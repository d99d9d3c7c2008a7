package player

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const selectColumns = `id, name, role, born, birthplace, batting_style, bowling_style, debut, image, scores_json, version, created_at, updated_at`

// New creates a new Store backed by db.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

// Create inserts a new player. An empty ID is replaced with a fresh UUID.
func (s *store) Create(ctx context.Context, p *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Version = 1

	scoresJSON, err := json.Marshal(p.Scores)
	if err != nil {
		return storageErr("marshal scores", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO players (id, name, role, born, birthplace, batting_style, bowling_style, debut, image, scores_json, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Role, unixOrNull(p.Born), p.Birthplace, p.BattingStyle, p.BowlingStyle, unixOrNull(p.Debut), p.Image, string(scoresJSON), p.Version, now.Unix(), now.Unix())
	if err != nil {
		log.Error("Failed to insert player", "error", err, "playerID", p.ID)
		return storageErr("insert player", err)
	}
	log.Info("Added new player to the store", "playerID", p.ID, "name", p.Name)
	return nil
}

// FindPlayer loads a single player document.
func (s *store) FindPlayer(ctx context.Context, id string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+selectColumns+" FROM players WHERE id = ?", id)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("Player not found", "playerID", id)
		return nil, ErrNotFound
	}
	if err != nil {
		log.Error("Failed to load player", "error", err, "playerID", id)
		return nil, storageErr("load player", err)
	}
	return p, nil
}

// FindAllPlayers loads every player in the order they were registered.
func (s *store) FindAllPlayers(ctx context.Context) ([]*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+selectColumns+" FROM players ORDER BY rowid")
	if err != nil {
		log.Error("Failed to query all players", "error", err)
		return nil, storageErr("query players", err)
	}
	defer rows.Close()

	players := make([]*Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			return nil, storageErr("scan player", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate players", err)
	}
	return players, nil
}

// Persist writes the full player document using the version as a compare-and-swap guard.
// On success p.Version is advanced to the stored value.
func (s *store) Persist(ctx context.Context, p *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	scoresJSON, err := json.Marshal(p.Scores)
	if err != nil {
		return storageErr("marshal scores", err)
	}
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		UPDATE players SET
			name = ?,
			role = ?,
			born = ?,
			birthplace = ?,
			batting_style = ?,
			bowling_style = ?,
			debut = ?,
			image = ?,
			scores_json = ?,
			version = version + 1,
			updated_at = ?
		WHERE id = ? AND version = ?
	`, p.Name, p.Role, unixOrNull(p.Born), p.Birthplace, p.BattingStyle, p.BowlingStyle, unixOrNull(p.Debut), p.Image, string(scoresJSON), now.Unix(), p.ID, p.Version)
	if err != nil {
		log.Error("Failed to persist player", "error", err, "playerID", p.ID)
		return storageErr("update player", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storageErr("rows affected", err)
	}
	if affected == 0 {
		var exists bool
		if err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", p.ID).Scan(&exists); err != nil {
			return storageErr("check player", err)
		}
		if !exists {
			return ErrNotFound
		}
		log.Warn("Player was modified concurrently", "playerID", p.ID, "version", p.Version)
		return ErrConflict
	}

	p.Version++
	p.UpdatedAt = now
	log.Debug("Persisted player", "playerID", p.ID, "version", p.Version)
	return nil
}

// Delete removes one player and everything it owns.
func (s *store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM players WHERE id = ?", id)
	if err != nil {
		log.Error("Failed to delete player", "error", err, "playerID", id)
		return storageErr("delete player", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storageErr("rows affected", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	log.Info("Deleted player", "playerID", id)
	return nil
}

// DeleteAll removes every player and returns how many were deleted.
func (s *store) DeleteAll(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM players")
	if err != nil {
		log.Error("Failed to clear players table", "error", err)
		return 0, storageErr("delete players", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("rows affected", err)
	}
	log.Info("Cleared players table", "deleted", affected)
	return affected, nil
}

// scanProfile is a helper function to scan a single player row.
func scanProfile(scanner interface{ Scan(...any) error }) (*Profile, error) {
	var p Profile
	var role, birthplace, battingStyle, bowlingStyle, image sql.NullString
	var born, debut sql.NullInt64
	var scoresJSON string
	var createdAt, updatedAt int64

	err := scanner.Scan(
		&p.ID, &p.Name, &role, &born, &birthplace, &battingStyle, &bowlingStyle, &debut,
		&image, &scoresJSON, &p.Version, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Role = role.String
	p.Birthplace = birthplace.String
	p.BattingStyle = battingStyle.String
	p.BowlingStyle = bowlingStyle.String
	if born.Valid {
		p.Born = time.Unix(born.Int64, 0).UTC()
	}
	if debut.Valid {
		p.Debut = time.Unix(debut.Int64, 0).UTC()
	}
	if image.Valid {
		img := image.String
		p.Image = &img
	}
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	p.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	if scoresJSON != "" {
		if err := json.Unmarshal([]byte(scoresJSON), &p.Scores); err != nil {
			log.Error("Failed to unmarshal scores_json", "error", err, "playerID", p.ID)
			return nil, err
		}
	}
	return &p, nil
}

func unixOrNull(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Unix()
}
