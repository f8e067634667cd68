package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/aydinsahin81/gts-attendance-go/internal/domain/shift"
	"github.com/aydinsahin81/gts-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

// shiftColumns aggregates member ids alongside the shift row. Start and end
// times are stored as "HH:MM" text and parsed on scan.
const shiftColumns = `
	s.id, s.company_id, s.name, s.start_time, s.end_time,
	s.late_tolerance_minutes, s.early_exit_tolerance_minutes, s.branch_ref,
	COALESCE(array_agg(m.personnel_id) FILTER (WHERE m.personnel_id IS NOT NULL), '{}') AS personnel_ids,
	s.created_at, s.updated_at
`

const shiftGroupBy = `
	GROUP BY s.id, s.company_id, s.name, s.start_time, s.end_time,
		s.late_tolerance_minutes, s.early_exit_tolerance_minutes, s.branch_ref,
		s.created_at, s.updated_at
`

func scanShift(row pgx.Row) (shift.Shift, error) {
	var sh shift.Shift
	var startTime, endTime string

	err := row.Scan(
		&sh.ID,
		&sh.CompanyID,
		&sh.Name,
		&startTime,
		&endTime,
		&sh.LateToleranceMinutes,
		&sh.EarlyExitToleranceMinutes,
		&sh.BranchRef,
		&sh.PersonnelIDs,
		&sh.CreatedAt,
		&sh.UpdatedAt,
	)
	if err != nil {
		return shift.Shift{}, err
	}

	if sh.StartTime, err = shift.ParseClock(startTime); err != nil {
		return shift.Shift{}, fmt.Errorf("failed to parse shift start time: %w", err)
	}
	if sh.EndTime, err = shift.ParseClock(endTime); err != nil {
		return shift.Shift{}, fmt.Errorf("failed to parse shift end time: %w", err)
	}

	return sh, nil
}

// GetByName implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByName(ctx context.Context, name string, companyID string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts s
		LEFT JOIN shift_members m ON m.shift_id = s.id
		WHERE s.name = $1 AND s.company_id = $2
		` + shiftGroupBy

	sh, err := scanShift(q.QueryRow(ctx, query, name, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}

	return sh, nil
}

// GetByPersonnel implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByPersonnel(ctx context.Context, personnelID string, companyID string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	// The assignment collaborator keeps a personnel in at most one shift,
	// so LIMIT 1 is a formality
	query := `
		SELECT ` + shiftColumns + `
		FROM shifts s
		LEFT JOIN shift_members m ON m.shift_id = s.id
		WHERE s.company_id = $2
			AND s.id IN (SELECT shift_id FROM shift_members WHERE personnel_id = $1)
		` + shiftGroupBy + `
		ORDER BY s.name ASC
		LIMIT 1
	`

	sh, err := scanShift(q.QueryRow(ctx, query, personnelID, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift by personnel: %w", err)
	}

	return sh, nil
}

// ListByCompany implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) ListByCompany(ctx context.Context, companyID string) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts s
		LEFT JOIN shift_members m ON m.shift_id = s.id
		WHERE s.company_id = $1
		` + shiftGroupBy + `
		ORDER BY s.name ASC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []shift.Shift
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, sh)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return shifts, nil
}
