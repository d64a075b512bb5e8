// Package repository persists applied record groups to PostgreSQL so
// games can be reloaded and replayed. One row per applied group, in
// application order, with the group body stored as jsonb.
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cubatrice/engine/internal/state"
)

const schema = `
CREATE TABLE IF NOT EXISTS record_groups (
	seq        BIGSERIAL PRIMARY KEY,
	game_id    UUID NOT NULL,
	group_id   BIGINT NOT NULL,
	payload    JSONB NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (game_id, group_id)
);
CREATE INDEX IF NOT EXISTS record_groups_game_idx ON record_groups (game_id, seq);
`

// RecordStore is a pgx-backed store of applied record groups. It
// satisfies the engine's persistence sink.
type RecordStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// Open connects to the database, verifies the connection and ensures
// the schema exists.
func Open(ctx context.Context, dsn string, logger *zap.Logger) (*RecordStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordStore{pool: pool, logger: logger}, nil
}

// Close releases the connection pool.
func (r *RecordStore) Close() {
	r.pool.Close()
}

// Append stores one applied record group for a game.
func (r *RecordStore) Append(ctx context.Context, gameID uuid.UUID, group state.RecordGroup) error {
	payload, err := marshalGroup(group)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO record_groups (game_id, group_id, payload) VALUES ($1, $2, $3)`,
		gameID, int64(group.ID), payload,
	)
	if err != nil {
		return fmt.Errorf("append group %d: %w", group.ID, err)
	}
	r.logger.Debug("record group persisted",
		zap.Stringer("game_id", gameID),
		zap.Int("group", int(group.ID)),
	)
	return nil
}

// Load returns every record group stored for a game, in the order they
// were applied. Feeding the result to the engine's Replay rebuilds the
// game state.
func (r *RecordStore) Load(ctx context.Context, gameID uuid.UUID) ([]state.RecordGroup, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT payload FROM record_groups WHERE game_id = $1 ORDER BY seq`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", gameID, err)
	}
	defer rows.Close()

	var groups []state.RecordGroup
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		group, err := unmarshalGroup(payload)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load game %s: %w", gameID, err)
	}
	return groups, nil
}

// Games lists the game identifiers with at least one stored group.
func (r *RecordStore) Games(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT game_id FROM record_groups ORDER BY game_id`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan game id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func marshalGroup(group state.RecordGroup) ([]byte, error) {
	payload, err := json.Marshal(group)
	if err != nil {
		return nil, fmt.Errorf("encode group %d: %w", group.ID, err)
	}
	return payload, nil
}

func unmarshalGroup(payload []byte) (state.RecordGroup, error) {
	var group state.RecordGroup
	if err := json.Unmarshal(payload, &group); err != nil {
		return state.RecordGroup{}, fmt.Errorf("decode group: %w", err)
	}
	return group, nil
}
