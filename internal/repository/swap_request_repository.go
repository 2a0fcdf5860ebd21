package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/skillswap-service/internal/domain"
)

// SwapRequestFilter captures listing parameters.
type SwapRequestFilter struct {
	RequesterID *string
	ReceiverID  *string
	Status      *domain.SwapStatus
	Limit       int
	Offset      int
}

// SwapRequestRepository encapsulates swap-request persistence.
type SwapRequestRepository interface {
	Create(ctx context.Context, req *domain.SwapRequest) error
	GetByID(ctx context.Context, id string) (*domain.SwapRequest, error)
	List(ctx context.Context, filter SwapRequestFilter) ([]domain.SwapRequest, error)
	// HasPairWithStatus reports whether a request with the identical
	// (requester, receiver, offered, wanted) tuple exists in the given status.
	HasPairWithStatus(ctx context.Context, requesterID, receiverID, skillOffered, skillWanted string, status domain.SwapStatus) (bool, error)
	// TransitionStatus applies a compare-and-swap update predicated on the
	// row still being PENDING. It returns pgx.ErrNoRows when no row matched,
	// leaving the caller to distinguish a missing record from a lost race.
	TransitionStatus(ctx context.Context, req *domain.SwapRequest, next domain.SwapStatus, acceptanceMessage *string) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[domain.SwapStatus]int64, error)
}

type swapRequestRepository struct {
	pool *pgxpool.Pool
}

// NewSwapRequestRepository instantiates the repository.
func NewSwapRequestRepository(pool *pgxpool.Pool) SwapRequestRepository {
	return &swapRequestRepository{pool: pool}
}

const swapColumns = `id, requester_id, receiver_id, skill_offered, skill_wanted,
       message, acceptance_message, status, created_at, updated_at`

func (r *swapRequestRepository) Create(ctx context.Context, req *domain.SwapRequest) error {
	const query = `
        INSERT INTO swap_requests (requester_id, receiver_id, skill_offered, skill_wanted, message, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		req.RequesterID,
		req.ReceiverID,
		req.SkillOffered,
		req.SkillWanted,
		req.Message,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
}

func (r *swapRequestRepository) GetByID(ctx context.Context, id string) (*domain.SwapRequest, error) {
	query := `SELECT ` + swapColumns + ` FROM swap_requests WHERE id=$1`
	var req domain.SwapRequest
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.RequesterID,
		&req.ReceiverID,
		&req.SkillOffered,
		&req.SkillWanted,
		&req.Message,
		&req.AcceptanceMessage,
		&req.Status,
		&req.CreatedAt,
		&req.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *swapRequestRepository) List(ctx context.Context, filter SwapRequestFilter) ([]domain.SwapRequest, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.RequesterID != nil {
		args = append(args, *filter.RequesterID)
		clauses = append(clauses, fmt.Sprintf("requester_id=$%d", len(args)))
	}
	if filter.ReceiverID != nil {
		args = append(args, *filter.ReceiverID)
		clauses = append(clauses, fmt.Sprintf("receiver_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM swap_requests WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		swapColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSwapRequests(rows)
}

func (r *swapRequestRepository) HasPairWithStatus(ctx context.Context, requesterID, receiverID, skillOffered, skillWanted string, status domain.SwapStatus) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM swap_requests
            WHERE requester_id=$1 AND receiver_id=$2 AND skill_offered=$3 AND skill_wanted=$4 AND status=$5
        )`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, requesterID, receiverID, skillOffered, skillWanted, status).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *swapRequestRepository) TransitionStatus(ctx context.Context, req *domain.SwapRequest, next domain.SwapStatus, acceptanceMessage *string) error {
	const query = `
        UPDATE swap_requests
        SET status=$1, acceptance_message=COALESCE($2, acceptance_message), updated_at=NOW()
        WHERE id=$3 AND status=$4
        RETURNING acceptance_message, updated_at`
	if err := r.pool.QueryRow(ctx, query, next, acceptanceMessage, req.ID, domain.SwapStatusPending).
		Scan(&req.AcceptanceMessage, &req.UpdatedAt); err != nil {
		return err
	}
	req.Status = next
	return nil
}

func (r *swapRequestRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM swap_requests WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *swapRequestRepository) CountByStatus(ctx context.Context) (map[domain.SwapStatus]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM swap_requests GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.SwapStatus]int64)
	for rows.Next() {
		var status domain.SwapStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func scanSwapRequests(rows pgx.Rows) ([]domain.SwapRequest, error) {
	var result []domain.SwapRequest
	for rows.Next() {
		var req domain.SwapRequest
		if err := rows.Scan(
			&req.ID,
			&req.RequesterID,
			&req.ReceiverID,
			&req.SkillOffered,
			&req.SkillWanted,
			&req.Message,
			&req.AcceptanceMessage,
			&req.Status,
			&req.CreatedAt,
			&req.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, rows.Err()
}
