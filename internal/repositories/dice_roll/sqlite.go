package dice_roll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/KirkDiggler/rollcall/internal/common/clock"
	"github.com/KirkDiggler/rollcall/internal/common/sqlitemigrate"
	"github.com/KirkDiggler/rollcall/internal/common/uuid"
	"github.com/KirkDiggler/rollcall/internal/models"
	"github.com/KirkDiggler/rollcall/internal/repositories/dice_roll/migrations"
	_ "modernc.org/sqlite"
)

// SQLiteConfig holds configuration for the SQLite dice roll repository
type SQLiteConfig struct {
	// Path to the database file
	Path string

	Clock         clock.Clock
	UUIDGenerator uuid.UUID
}

// SQLiteRepository implements the Repository interface on SQLite
type SQLiteRepository struct {
	sqlDB         *sql.DB
	clock         clock.Clock
	uuidGenerator uuid.UUID
}

const selectRollColumns = `id, campaign_id, user_id, dice_type, rolls, total, modifier,
	multiplier, roll_mode, is_master_roll, hidden_from_players, created_at, seq`

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// NewSQLite opens the database and applies embedded migrations
func NewSQLite(cfg *SQLiteConfig) (*SQLiteRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("storage path is required")
	}

	dsn := filepath.Clean(cfg.Path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.SQLite, "sqlite"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{
		sqlDB:         sqlDB,
		clock:         cfg.Clock,
		uuidGenerator: cfg.UUIDGenerator,
	}
	if repo.clock == nil {
		repo.clock = clock.New()
	}
	if repo.uuidGenerator == nil {
		repo.uuidGenerator = uuid.New()
	}

	return repo, nil
}

// Close closes the SQLite handle
func (s *SQLiteRepository) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Insert persists a roll
func (s *SQLiteRepository) Insert(ctx context.Context, input *InsertInput) (*models.DiceRoll, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	roll := *input.Roll
	roll.ID = s.uuidGenerator.NewUUID()
	roll.CreatedAt = s.clock.Now().UTC().Truncate(time.Millisecond)
	roll.BatchCount = batchCount(&roll)
	roll.Rolls = append([]int(nil), input.Roll.Rolls...)
	roll.DisplayName = ""

	rollsJSON, err := json.Marshal(roll.Rolls)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rolls: %w", err)
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO dice_rolls (
		   id,
		   campaign_id,
		   user_id,
		   dice_type,
		   rolls,
		   total,
		   modifier,
		   multiplier,
		   roll_mode,
		   is_master_roll,
		   hidden_from_players,
		   created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		roll.ID,
		roll.CampaignID,
		roll.UserID,
		roll.DiceType,
		string(rollsJSON),
		roll.Total,
		roll.Modifier,
		roll.BatchCount,
		string(roll.RollMode),
		roll.IsMasterRoll,
		roll.HiddenFromPlayers,
		toMillis(roll.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert dice roll: %w", err)
	}

	seq, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read dice roll sequence: %w", err)
	}
	roll.Seq = seq

	return &roll, nil
}

// FetchRecent returns the newest rolls for a campaign
func (s *SQLiteRepository) FetchRecent(ctx context.Context, input *FetchRecentInput) (*FetchRecentOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+selectRollColumns+`
		 FROM dice_rolls
		 WHERE campaign_id = ?
		 ORDER BY created_at DESC, seq DESC
		 LIMIT ?`,
		input.CampaignID,
		input.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch recent dice rolls: %w", err)
	}
	defer rows.Close()

	rolls := make([]*models.DiceRoll, 0, input.Limit)
	for rows.Next() {
		roll, err := scanSQLiteRoll(rows)
		if err != nil {
			return nil, err
		}
		rolls = append(rolls, roll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dice rolls: %w", err)
	}

	return &FetchRecentOutput{
		Rolls: rolls,
	}, nil
}

// ClearAll deletes every roll for the campaign in one statement
func (s *SQLiteRepository) ClearAll(ctx context.Context, input *ClearAllInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := input.validate(); err != nil {
		return err
	}

	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM dice_rolls WHERE campaign_id = ?`, input.CampaignID); err != nil {
		return fmt.Errorf("clear campaign dice rolls: %w", err)
	}

	return nil
}

func scanSQLiteRoll(rows *sql.Rows) (*models.DiceRoll, error) {
	var (
		roll      models.DiceRoll
		rollsJSON string
		mode      string
		createdAt int64
	)
	if err := rows.Scan(
		&roll.ID,
		&roll.CampaignID,
		&roll.UserID,
		&roll.DiceType,
		&rollsJSON,
		&roll.Total,
		&roll.Modifier,
		&roll.BatchCount,
		&mode,
		&roll.IsMasterRoll,
		&roll.HiddenFromPlayers,
		&createdAt,
		&roll.Seq,
	); err != nil {
		return nil, fmt.Errorf("scan dice roll: %w", err)
	}

	if err := json.Unmarshal([]byte(rollsJSON), &roll.Rolls); err != nil {
		return nil, fmt.Errorf("decode rolls for %s: %w", roll.ID, err)
	}
	roll.RollMode = models.RollMode(mode)
	roll.CreatedAt = fromMillis(createdAt)

	return &roll, nil
}
