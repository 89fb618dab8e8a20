package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"algomentor/internal/common"
	"algomentor/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type ProblemRepository interface {
	CreateProblem(ctx context.Context, tx *sql.Tx, problem *model.Problem) error
	CreateTestCases(ctx context.Context, tx *sql.Tx, cases []model.TestCase) error
	FindProblemByID(ctx context.Context, id string) (*model.Problem, error)
	FindProblemBySlug(ctx context.Context, slug string) (*model.Problem, error)
	ListProblems(ctx context.Context, page, pageSize int, difficulty *int) ([]model.Problem, int, error)
	GetTestCasesByProblemID(ctx context.Context, problemID string) ([]model.TestCase, error)
}

type pgProblemRepository struct {
	db *sql.DB
}

func NewPgProblemRepository(db *sql.DB) ProblemRepository {
	return &pgProblemRepository{db: db}
}

func (r *pgProblemRepository) CreateProblem(ctx context.Context, tx *sql.Tx, problem *model.Problem) error {
	algorithmTypes, err := json.Marshal(problem.AlgorithmTypes)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.CreateProblem: marshal algorithm types: %w", err)
	}

	query := `INSERT INTO problems (id, title, slug, description, difficulty, algorithm_types, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = tx.ExecContext(ctx, query, problem.ID, problem.Title, problem.Slug, problem.Description,
		problem.Difficulty, algorithmTypes, problem.CreatedByID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("problem with slug %q already exists: %w", problem.Slug, common.ErrConflict)
		}
		return fmt.Errorf("pgProblemRepository.CreateProblem: %w", err)
	}
	return nil
}

func (r *pgProblemRepository) CreateTestCases(ctx context.Context, tx *sql.Tx, cases []model.TestCase) error {
	query := `INSERT INTO test_cases (id, problem_id, input, expected_output, sort_order)
	          VALUES ($1, $2, $3, $4, $5)`
	for _, tc := range cases {
		if _, err := tx.ExecContext(ctx, query, tc.ID, tc.ProblemID, tc.Input, tc.ExpectedOutput, tc.SortOrder); err != nil {
			return fmt.Errorf("pgProblemRepository.CreateTestCases: %w", err)
		}
	}
	return nil
}

func (r *pgProblemRepository) FindProblemByID(ctx context.Context, id string) (*model.Problem, error) {
	return r.findOne(ctx, `SELECT id, title, slug, description, difficulty, algorithm_types, created_by, created_at, updated_at
	          FROM problems WHERE id = $1`, id)
}

func (r *pgProblemRepository) FindProblemBySlug(ctx context.Context, slug string) (*model.Problem, error) {
	return r.findOne(ctx, `SELECT id, title, slug, description, difficulty, algorithm_types, created_by, created_at, updated_at
	          FROM problems WHERE slug = $1`, slug)
}

func (r *pgProblemRepository) findOne(ctx context.Context, query string, arg any) (*model.Problem, error) {
	problem := &model.Problem{}
	var algorithmTypes []byte
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&problem.ID, &problem.Title, &problem.Slug, &problem.Description, &problem.Difficulty,
		&algorithmTypes, &problem.CreatedByID, &problem.CreatedAt, &problem.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProblemRepository.findOne: %w", err)
	}
	if err := json.Unmarshal(algorithmTypes, &problem.AlgorithmTypes); err != nil {
		return nil, fmt.Errorf("pgProblemRepository.findOne: unmarshal algorithm types: %w", err)
	}
	return problem, nil
}

func (r *pgProblemRepository) ListProblems(ctx context.Context, page, pageSize int, difficulty *int) ([]model.Problem, int, error) {
	where := ""
	args := []any{}
	if difficulty != nil {
		where = "WHERE difficulty = $1"
		args = append(args, *difficulty)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM problems " + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgProblemRepository.ListProblems: count: %w", err)
	}

	query := fmt.Sprintf(`SELECT id, title, slug, description, difficulty, algorithm_types, created_by, created_at, updated_at
	          FROM problems %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgProblemRepository.ListProblems: %w", err)
	}
	defer rows.Close()

	var problems []model.Problem
	for rows.Next() {
		var problem model.Problem
		var algorithmTypes []byte
		if err := rows.Scan(&problem.ID, &problem.Title, &problem.Slug, &problem.Description, &problem.Difficulty,
			&algorithmTypes, &problem.CreatedByID, &problem.CreatedAt, &problem.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("pgProblemRepository.ListProblems: scan: %w", err)
		}
		if err := json.Unmarshal(algorithmTypes, &problem.AlgorithmTypes); err != nil {
			return nil, 0, fmt.Errorf("pgProblemRepository.ListProblems: unmarshal algorithm types: %w", err)
		}
		problems = append(problems, problem)
	}
	return problems, total, rows.Err()
}

func (r *pgProblemRepository) GetTestCasesByProblemID(ctx context.Context, problemID string) ([]model.TestCase, error) {
	query := `SELECT id, problem_id, input, expected_output, sort_order, created_at
	          FROM test_cases WHERE problem_id = $1 ORDER BY sort_order ASC`
	rows, err := r.db.QueryContext(ctx, query, problemID)
	if err != nil {
		return nil, fmt.Errorf("pgProblemRepository.GetTestCasesByProblemID: %w", err)
	}
	defer rows.Close()

	var cases []model.TestCase
	for rows.Next() {
		var tc model.TestCase
		if err := rows.Scan(&tc.ID, &tc.ProblemID, &tc.Input, &tc.ExpectedOutput, &tc.SortOrder, &tc.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgProblemRepository.GetTestCasesByProblemID: scan: %w", err)
		}
		cases = append(cases, tc)
	}
	return cases, rows.Err()
}
