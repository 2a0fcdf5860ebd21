package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/skillswap-service/internal/domain"
)

// SkillFilter captures catalog search parameters.
type SkillFilter struct {
	Status     *domain.SkillStatus
	Category   *string
	SearchTerm *string
	Limit      int
	Offset     int
}

// SkillRepository encapsulates skill-catalog persistence.
type SkillRepository interface {
	Create(ctx context.Context, skill *domain.Skill) error
	Update(ctx context.Context, skill *domain.Skill) error
	GetByID(ctx context.Context, id string) (*domain.Skill, error)
	GetByName(ctx context.Context, name string) (*domain.Skill, error)
	List(ctx context.Context, filter SkillFilter) ([]domain.Skill, error)
	SetStatus(ctx context.Context, id string, status domain.SkillStatus, rejectionReason *string) error
	Delete(ctx context.Context, id string) error
	// Categories returns the distinct non-empty categories of approved
	// skills, sorted.
	Categories(ctx context.Context) ([]string, error)
	CountByStatus(ctx context.Context) (map[domain.SkillStatus]int64, error)
}

type skillRepository struct {
	pool *pgxpool.Pool
}

// NewSkillRepository instantiates the repository.
func NewSkillRepository(pool *pgxpool.Pool) SkillRepository {
	return &skillRepository{pool: pool}
}

const skillColumns = `id, name, description, category, status, rejection_reason, created_by, created_at, updated_at`

func (r *skillRepository) Create(ctx context.Context, skill *domain.Skill) error {
	const query = `
        INSERT INTO skills (name, description, category, status, created_by)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		skill.Name,
		skill.Description,
		skill.Category,
		skill.Status,
		skill.CreatedBy,
	).Scan(&skill.ID, &skill.CreatedAt, &skill.UpdatedAt)
}

func (r *skillRepository) Update(ctx context.Context, skill *domain.Skill) error {
	const query = `
        UPDATE skills SET name=$1, description=$2, category=$3, status=$4,
            rejection_reason=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		skill.Name,
		skill.Description,
		skill.Category,
		skill.Status,
		skill.RejectionReason,
		skill.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *skillRepository) GetByID(ctx context.Context, id string) (*domain.Skill, error) {
	return r.fetchSingle(ctx, `SELECT `+skillColumns+` FROM skills WHERE id=$1`, id)
}

func (r *skillRepository) GetByName(ctx context.Context, name string) (*domain.Skill, error) {
	return r.fetchSingle(ctx, `SELECT `+skillColumns+` FROM skills WHERE LOWER(name)=LOWER($1)`, name)
}

func (r *skillRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Skill, error) {
	var skill domain.Skill
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&skill.ID,
		&skill.Name,
		&skill.Description,
		&skill.Category,
		&skill.Status,
		&skill.RejectionReason,
		&skill.CreatedBy,
		&skill.CreatedAt,
		&skill.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &skill, nil
}

func (r *skillRepository) List(ctx context.Context, filter SkillFilter) ([]domain.Skill, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Category != nil && strings.TrimSpace(*filter.Category) != "" {
		args = append(args, strings.TrimSpace(*filter.Category))
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.SearchTerm))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM skills WHERE %s ORDER BY name LIMIT %d OFFSET %d`,
		skillColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Skill
	for rows.Next() {
		var skill domain.Skill
		if err := rows.Scan(
			&skill.ID,
			&skill.Name,
			&skill.Description,
			&skill.Category,
			&skill.Status,
			&skill.RejectionReason,
			&skill.CreatedBy,
			&skill.CreatedAt,
			&skill.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, skill)
	}
	return result, rows.Err()
}

func (r *skillRepository) SetStatus(ctx context.Context, id string, status domain.SkillStatus, rejectionReason *string) error {
	const query = `UPDATE skills SET status=$1, rejection_reason=$2, updated_at=NOW() WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, status, rejectionReason, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *skillRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM skills WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *skillRepository) Categories(ctx context.Context) ([]string, error) {
	const query = `
        SELECT DISTINCT category FROM skills
        WHERE status=$1 AND category IS NOT NULL AND category <> ''
        ORDER BY category`
	rows, err := r.pool.Query(ctx, query, domain.SkillStatusApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *skillRepository) CountByStatus(ctx context.Context) (map[domain.SkillStatus]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM skills GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.SkillStatus]int64)
	for rows.Next() {
		var status domain.SkillStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
