package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"algomentor/internal/common"
	"algomentor/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type HintUsageRepository interface {
	CreateHintUsage(ctx context.Context, usage *model.HintUsage) error
	GetUnlockedLevels(ctx context.Context, userID, problemID string) ([]int, error)
	GetHintUsage(ctx context.Context, userID, problemID string, level int) (*model.HintUsage, error)
}

type pgHintUsageRepository struct {
	db *sql.DB
}

func NewPgHintUsageRepository(db *sql.DB) HintUsageRepository {
	return &pgHintUsageRepository{db: db}
}

func (r *pgHintUsageRepository) CreateHintUsage(ctx context.Context, usage *model.HintUsage) error {
	query := `INSERT INTO hint_usages (id, user_id, problem_id, hint_level, content)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, usage.ID, usage.UserID, usage.ProblemID, usage.HintLevel, usage.Content)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // (user, problem, level) unique
			return fmt.Errorf("hint level %d already unlocked: %w", usage.HintLevel, common.ErrConflict)
		}
		return fmt.Errorf("pgHintUsageRepository.CreateHintUsage: %w", err)
	}
	return nil
}

func (r *pgHintUsageRepository) GetUnlockedLevels(ctx context.Context, userID, problemID string) ([]int, error) {
	query := `SELECT hint_level FROM hint_usages
	          WHERE user_id = $1 AND problem_id = $2 ORDER BY hint_level ASC`
	rows, err := r.db.QueryContext(ctx, query, userID, problemID)
	if err != nil {
		return nil, fmt.Errorf("pgHintUsageRepository.GetUnlockedLevels: %w", err)
	}
	defer rows.Close()

	var levels []int
	for rows.Next() {
		var level int
		if err := rows.Scan(&level); err != nil {
			return nil, fmt.Errorf("pgHintUsageRepository.GetUnlockedLevels: scan: %w", err)
		}
		levels = append(levels, level)
	}
	return levels, rows.Err()
}

func (r *pgHintUsageRepository) GetHintUsage(ctx context.Context, userID, problemID string, level int) (*model.HintUsage, error) {
	query := `SELECT id, user_id, problem_id, hint_level, content, created_at
	          FROM hint_usages WHERE user_id = $1 AND problem_id = $2 AND hint_level = $3`
	usage := &model.HintUsage{}
	err := r.db.QueryRowContext(ctx, query, userID, problemID, level).Scan(
		&usage.ID, &usage.UserID, &usage.ProblemID, &usage.HintLevel, &usage.Content, &usage.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgHintUsageRepository.GetHintUsage: %w", err)
	}
	return usage, nil
}
