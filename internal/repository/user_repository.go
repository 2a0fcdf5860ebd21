package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/skillswap-service/internal/domain"
)

// UserFilter captures directory search parameters.
type UserFilter struct {
	Skill      *string
	SearchTerm *string
	OnlyPublic bool
	Limit      int
	Offset     int
}

// UserCounts aggregates account totals for the stats endpoint.
type UserCounts struct {
	Total  int64
	Active int64
	Banned int64
}

// UserRepository defines persistence access for platform members.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
	SetBan(ctx context.Context, id string, banned bool, reason *string) error
	Counts(ctx context.Context) (UserCounts, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, location, profile_photo, availability,
       skills_offered, skills_wanted, is_public, is_banned, ban_reason, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, email, password_hash, location, profile_photo, availability,
                           skills_offered, skills_wanted, is_public)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Location,
		user.ProfilePhoto,
		user.Availability,
		user.SkillsOffered,
		user.SkillsWanted,
		user.IsPublic,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET name=$1, email=$2, password_hash=$3, location=$4, profile_photo=$5,
            availability=$6, skills_offered=$7, skills_wanted=$8, is_public=$9, updated_at=NOW()
        WHERE id=$10`

	cmd, err := r.pool.Exec(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Location,
		user.ProfilePhoto,
		user.Availability,
		user.SkillsOffered,
		user.SkillsWanted,
		user.IsPublic,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Location,
		&user.ProfilePhoto,
		&user.Availability,
		&user.SkillsOffered,
		&user.SkillsWanted,
		&user.IsPublic,
		&user.IsBanned,
		&user.BanReason,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]domain.User, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OnlyPublic {
		clauses = append(clauses, "is_public=TRUE", "is_banned=FALSE")
	}
	if filter.Skill != nil && strings.TrimSpace(*filter.Skill) != "" {
		args = append(args, strings.TrimSpace(*filter.Skill))
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(%s = ANY(skills_offered) OR %s = ANY(skills_wanted))", placeholder, placeholder))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.SearchTerm))+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(name) LIKE %s OR LOWER(email) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		userColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *userRepository) SetBan(ctx context.Context, id string, banned bool, reason *string) error {
	const query = `UPDATE users SET is_banned=$1, ban_reason=$2, updated_at=NOW() WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, banned, reason, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) Counts(ctx context.Context) (UserCounts, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE NOT is_banned),
               COUNT(*) FILTER (WHERE is_banned)
        FROM users`
	var counts UserCounts
	if err := r.pool.QueryRow(ctx, query).Scan(&counts.Total, &counts.Active, &counts.Banned); err != nil {
		return UserCounts{}, err
	}
	return counts, nil
}

func scanUsers(rows pgx.Rows) ([]domain.User, error) {
	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.Location,
			&user.ProfilePhoto,
			&user.Availability,
			&user.SkillsOffered,
			&user.SkillsWanted,
			&user.IsPublic,
			&user.IsBanned,
			&user.BanReason,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
