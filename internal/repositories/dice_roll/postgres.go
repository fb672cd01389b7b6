package dice_roll

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"time"

	"github.com/KirkDiggler/rollcall/internal/common/clock"
	"github.com/KirkDiggler/rollcall/internal/common/sqlitemigrate"
	"github.com/KirkDiggler/rollcall/internal/common/uuid"
	"github.com/KirkDiggler/rollcall/internal/models"
	"github.com/KirkDiggler/rollcall/internal/repositories/dice_roll/migrations"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const diceRollsTable = "dice_rolls"

var postgresRollColumns = []string{
	"id::text",
	"campaign_id::text",
	"user_id",
	"dice_type",
	"rolls",
	"total",
	"modifier",
	"multiplier",
	"roll_mode",
	"is_master_roll",
	"hidden_from_players",
	"created_at",
	"seq",
}

// pgxQuerier is the subset of *pgxpool.Pool the repository uses
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresConfig holds configuration for the Postgres dice roll repository
type PostgresConfig struct {
	Pool *pgxpool.Pool

	// ApplySchema creates the dice_rolls table when missing
	ApplySchema bool

	Clock         clock.Clock
	UUIDGenerator uuid.UUID
}

// PostgresRepository implements the Repository interface on Postgres.
// The database assigns seq.
type PostgresRepository struct {
	db            pgxQuerier
	clock         clock.Clock
	uuidGenerator uuid.UUID
}

// NewPostgres creates a new Postgres-backed dice roll repository
func NewPostgres(ctx context.Context, cfg *PostgresConfig) (*PostgresRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Pool == nil {
		return nil, errors.New("postgres pool cannot be nil")
	}

	if err := cfg.Pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := &PostgresRepository{
		db:            cfg.Pool,
		clock:         cfg.Clock,
		uuidGenerator: cfg.UUIDGenerator,
	}
	if repo.clock == nil {
		repo.clock = clock.New()
	}
	if repo.uuidGenerator == nil {
		repo.uuidGenerator = uuid.New()
	}
	if cfg.ApplySchema {
		if err := repo.applySchema(ctx); err != nil {
			return nil, err
		}
	}

	return repo, nil
}

func (p *PostgresRepository) applySchema(ctx context.Context) error {
	entries, err := fs.ReadDir(migrations.Postgres, "postgres")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	for _, entry := range entries {
		content, err := fs.ReadFile(migrations.Postgres, "postgres/"+entry.Name())
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		if _, err := p.db.Exec(ctx, sqlitemigrate.ExtractUp(string(content))); err != nil {
			return fmt.Errorf("exec migration %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// Insert persists a roll and reads back its sequence
func (p *PostgresRepository) Insert(ctx context.Context, input *InsertInput) (*models.DiceRoll, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	roll := *input.Roll
	roll.ID = p.uuidGenerator.NewUUID()
	roll.CreatedAt = p.clock.Now().UTC().Truncate(time.Microsecond)
	roll.BatchCount = batchCount(&roll)
	roll.Rolls = append([]int(nil), input.Roll.Rolls...)
	roll.DisplayName = ""

	query, args, err := buildInsertQuery(&roll)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	if err := p.db.QueryRow(ctx, query, args...).Scan(&roll.Seq); err != nil {
		return nil, fmt.Errorf("insert dice roll: %w", err)
	}

	return &roll, nil
}

// FetchRecent returns the newest rolls for a campaign
func (p *PostgresRepository) FetchRecent(ctx context.Context, input *FetchRecentInput) (*FetchRecentOutput, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	query, args, err := buildFetchRecentQuery(input.CampaignID, input.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch recent dice rolls: %w", err)
	}
	defer rows.Close()

	rolls := make([]*models.DiceRoll, 0, input.Limit)
	for rows.Next() {
		var (
			roll      models.DiceRoll
			faces     []int32
			mode      string
			createdAt time.Time
		)
		if err := rows.Scan(
			&roll.ID,
			&roll.CampaignID,
			&roll.UserID,
			&roll.DiceType,
			&faces,
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

		roll.Rolls = make([]int, len(faces))
		for i, f := range faces {
			roll.Rolls[i] = int(f)
		}
		roll.RollMode = models.RollMode(mode)
		roll.CreatedAt = createdAt.UTC()
		rolls = append(rolls, &roll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dice rolls: %w", err)
	}

	return &FetchRecentOutput{
		Rolls: rolls,
	}, nil
}

// ClearAll deletes every roll for the campaign in one statement
func (p *PostgresRepository) ClearAll(ctx context.Context, input *ClearAllInput) error {
	if err := input.validate(); err != nil {
		return err
	}

	query, args, err := buildClearAllQuery(input.CampaignID)
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := p.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("clear campaign dice rolls: %w", err)
	}

	return nil
}

// ErrOutOfRange is returned when a value does not fit an integer column
var ErrOutOfRange = errors.New("value out of range for integer column")

func toInt32(name string, value int) (int32, error) {
	if value < math.MinInt32 || value > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s %d", ErrOutOfRange, name, value)
	}
	return int32(value), nil
}

func buildInsertQuery(roll *models.DiceRoll) (string, []any, error) {
	faces := make([]int32, len(roll.Rolls))
	for i, f := range roll.Rolls {
		face, err := toInt32("face", f)
		if err != nil {
			return "", nil, err
		}
		faces[i] = face
	}

	total, err := toInt32("total", roll.Total)
	if err != nil {
		return "", nil, err
	}
	modifier, err := toInt32("modifier", roll.Modifier)
	if err != nil {
		return "", nil, err
	}
	multiplier, err := toInt32("multiplier", batchCount(roll))
	if err != nil {
		return "", nil, err
	}

	return squirrel.
		Insert(diceRollsTable).
		Columns(
			"id",
			"campaign_id",
			"user_id",
			"dice_type",
			"rolls",
			"total",
			"modifier",
			"multiplier",
			"roll_mode",
			"is_master_roll",
			"hidden_from_players",
			"created_at",
		).
		Values(
			squirrel.Expr("?::uuid", roll.ID),
			squirrel.Expr("?::uuid", roll.CampaignID),
			roll.UserID,
			roll.DiceType,
			faces,
			total,
			modifier,
			multiplier,
			string(roll.RollMode),
			roll.IsMasterRoll,
			roll.HiddenFromPlayers,
			roll.CreatedAt,
		).
		Suffix("RETURNING seq").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func buildFetchRecentQuery(campaignID string, limit int) (string, []any, error) {
	return squirrel.
		Select(postgresRollColumns...).
		From(diceRollsTable).
		Where(squirrel.Expr("campaign_id = ?::uuid", campaignID)).
		OrderBy("created_at DESC", "seq DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func buildClearAllQuery(campaignID string) (string, []any, error) {
	return squirrel.
		Delete(diceRollsTable).
		Where(squirrel.Expr("campaign_id = ?::uuid", campaignID)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}
