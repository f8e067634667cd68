package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/aydinsahin81/gts-attendance-go/internal/domain/personnel"
	"github.com/aydinsahin81/gts-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type personnelRepositoryImpl struct {
	db *database.DB
}

func NewPersonnelRepository(db *database.DB) personnel.PersonnelRepository {
	return &personnelRepositoryImpl{db: db}
}

// GetByID implements personnel.PersonnelRepository.
func (r *personnelRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (personnel.Personnel, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, display_name, branch_ref, created_at, updated_at
		FROM personnel
		WHERE id = $1 AND company_id = $2
	`

	var result personnel.Personnel
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&result.ID,
		&result.CompanyID,
		&result.DisplayName,
		&result.BranchRef,
		&result.CreatedAt,
		&result.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return personnel.Personnel{}, personnel.ErrPersonnelNotFound
		}
		return personnel.Personnel{}, fmt.Errorf("failed to get personnel: %w", err)
	}

	return result, nil
}

// ListByCompany implements personnel.PersonnelRepository.
func (r *personnelRepositoryImpl) ListByCompany(ctx context.Context, companyID string) ([]personnel.Personnel, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, display_name, branch_ref, created_at, updated_at
		FROM personnel
		WHERE company_id = $1
		ORDER BY display_name ASC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list personnel: %w", err)
	}
	defer rows.Close()

	var people []personnel.Personnel
	for rows.Next() {
		var p personnel.Personnel
		err := rows.Scan(
			&p.ID,
			&p.CompanyID,
			&p.DisplayName,
			&p.BranchRef,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan personnel: %w", err)
		}
		people = append(people, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return people, nil
}
