package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cory-johannsen/doorgame/internal/game/character"
	"github.com/cory-johannsen/doorgame/internal/game/store"
)

const characterColumns = `
	id, handle, gender, level, experience, player_kills, dead, inn,
	hit_points, hit_points_max, defense, strength, charm,
	fights_left, human_fights_left,
	seen_bard, seen_dragon, seen_master, seen_violet, weird_event, done_special, flirted,
	weapon_id, armor_id, gold, gem,
	last_alive_time, last_dead_time, world_map_id, cell_id, here_since,
	created_at, updated_at`

func scanCharacter(row pgx.Row) (*character.Character, error) {
	var (
		c        character.Character
		gender   string
		lastDead *time.Time
	)
	err := row.Scan(
		&c.ID, &c.Handle, &gender, &c.Level, &c.Experience, &c.PlayerKills, &c.Dead, &c.Inn,
		&c.HitPoints, &c.HitPointsMax, &c.Defense, &c.Strength, &c.Charm,
		&c.FightsLeft, &c.HumanFightsLeft,
		&c.SeenBard, &c.SeenDragon, &c.SeenMaster, &c.SeenViolet, &c.WeirdEvent, &c.DoneSpecial, &c.Flirted,
		&c.WeaponID, &c.ArmorID, &c.Gold, &c.Gem,
		&c.LastAliveTime, &lastDead, &c.WorldMapID, &c.CellID, &c.HereSince,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Gender = character.Gender(gender)
	if lastDead != nil {
		c.LastDeadTime = *lastDead
	}
	return &c, nil
}

// Character loads and row-locks a character.
//
// Precondition: id must be > 0.
// Postcondition: Returns the Character or store.ErrCharacterNotFound.
func (t *txStore) Character(ctx context.Context, id int64) (*character.Character, error) {
	return t.character(ctx, `SELECT `+characterColumns+` FROM characters WHERE id = $1 FOR UPDATE`, id)
}

// PeekCharacter loads a character without taking a row lock.
//
// Postcondition: Returns the Character or store.ErrCharacterNotFound.
func (t *txStore) PeekCharacter(ctx context.Context, id int64) (*character.Character, error) {
	return t.character(ctx, `SELECT `+characterColumns+` FROM characters WHERE id = $1`, id)
}

func (t *txStore) character(ctx context.Context, query string, id int64) (*character.Character, error) {
	c, err := scanCharacter(t.tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrCharacterNotFound
		}
		if isLockTimeoutError(err) {
			return nil, fmt.Errorf("querying character %d: %w", id, store.ErrLockTimeout)
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return c, nil
}

// CharactersAt returns characters in cellID that arrived after since, ordered by ID.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (t *txStore) CharactersAt(ctx context.Context, cellID int64, since time.Time) ([]*character.Character, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT `+characterColumns+` FROM characters
		 WHERE cell_id = $1 AND here_since > $2 ORDER BY id`,
		cellID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("listing characters at cell: %w", err)
	}
	defer rows.Close()

	chars := make([]*character.Character, 0)
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		chars = append(chars, c)
	}
	return chars, rows.Err()
}

// CreateCharacter inserts c and returns it with ID and timestamps set.
//
// Precondition: c.Handle must be non-empty.
// Postcondition: Returns the created character, or store.ErrHandleTaken on a duplicate handle.
func (t *txStore) CreateCharacter(ctx context.Context, c *character.Character) (*character.Character, error) {
	out, err := scanCharacter(t.tx.QueryRow(ctx, `
		INSERT INTO characters
			(handle, gender, level, experience, player_kills, dead, inn,
			 hit_points, hit_points_max, defense, strength, charm,
			 fights_left, human_fights_left,
			 seen_bard, seen_dragon, seen_master, seen_violet, weird_event, done_special, flirted,
			 weapon_id, armor_id, gold, gem,
			 last_alive_time, last_dead_time, world_map_id, cell_id, here_since)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,
		        $16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30)
		RETURNING `+characterColumns,
		c.Handle, string(c.Gender), c.Level, c.Experience, c.PlayerKills, c.Dead, c.Inn,
		c.HitPoints, c.HitPointsMax, c.Defense, c.Strength, c.Charm,
		c.FightsLeft, c.HumanFightsLeft,
		c.SeenBard, c.SeenDragon, c.SeenMaster, c.SeenViolet, c.WeirdEvent, c.DoneSpecial, c.Flirted,
		c.WeaponID, c.ArmorID, c.Gold, c.Gem,
		c.LastAliveTime, nullTime(c.LastDeadTime), c.WorldMapID, c.CellID, c.HereSince,
	))
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, store.ErrHandleTaken
		}
		return nil, fmt.Errorf("inserting character: %w", err)
	}
	return out, nil
}

// SaveCharacter persists every mutable field of c.
//
// Precondition: c.ID must be > 0.
// Postcondition: Returns nil on success, store.ErrCharacterNotFound if no row updated.
func (t *txStore) SaveCharacter(ctx context.Context, c *character.Character) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE characters SET
			level = $2, experience = $3, player_kills = $4, dead = $5, inn = $6,
			hit_points = $7, hit_points_max = $8, defense = $9, strength = $10, charm = $11,
			fights_left = $12, human_fights_left = $13,
			seen_bard = $14, seen_dragon = $15, seen_master = $16, seen_violet = $17,
			weird_event = $18, done_special = $19, flirted = $20,
			weapon_id = $21, armor_id = $22, gold = $23, gem = $24,
			last_alive_time = $25, last_dead_time = $26,
			world_map_id = $27, cell_id = $28, here_since = $29,
			updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.Level, c.Experience, c.PlayerKills, c.Dead, c.Inn,
		c.HitPoints, c.HitPointsMax, c.Defense, c.Strength, c.Charm,
		c.FightsLeft, c.HumanFightsLeft,
		c.SeenBard, c.SeenDragon, c.SeenMaster, c.SeenViolet,
		c.WeirdEvent, c.DoneSpecial, c.Flirted,
		c.WeaponID, c.ArmorID, c.Gold, c.Gem,
		c.LastAliveTime, nullTime(c.LastDeadTime),
		c.WorldMapID, c.CellID, c.HereSince,
	)
	if err != nil {
		return fmt.Errorf("saving character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrCharacterNotFound
	}
	return nil
}
