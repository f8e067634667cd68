package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/aydinsahin81/gts-attendance-go/internal/domain/attendance"
	"github.com/aydinsahin81/gts-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type recordRepositoryImpl struct {
	db *database.DB
}

func NewRecordRepository(db *database.DB) attendance.RecordRepository {
	return &recordRepositoryImpl{db: db}
}

// Create implements attendance.RecordRepository.
func (r *recordRepositoryImpl) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_records (
			id, company_id, date_key, personnel_id, shift_name,
			entry_at, exit_at, entry_raw_code, exit_raw_code,
			entry_edited, exit_edited, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.ID,
		record.CompanyID,
		record.DateKey,
		record.PersonnelID,
		record.ShiftName,
		record.EntryAt,
		record.ExitAt,
		record.EntryRawCode,
		record.ExitRawCode,
		record.EntryEdited,
		record.ExitEdited,
	).Scan(&record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return record, nil
}

// GetByKey implements attendance.RecordRepository.
func (r *recordRepositoryImpl) GetByKey(ctx context.Context, companyID string, dateKey string, personnelID string) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, date_key, personnel_id, shift_name,
			entry_at, exit_at, entry_raw_code, exit_raw_code,
			entry_edited, exit_edited, created_at, updated_at
		FROM attendance_records
		WHERE company_id = $1 AND date_key = $2 AND personnel_id = $3
	`

	var rec attendance.Record
	err := q.QueryRow(ctx, query, companyID, dateKey, personnelID).Scan(
		&rec.ID,
		&rec.CompanyID,
		&rec.DateKey,
		&rec.PersonnelID,
		&rec.ShiftName,
		&rec.EntryAt,
		&rec.ExitAt,
		&rec.EntryRawCode,
		&rec.ExitRawCode,
		&rec.EntryEdited,
		&rec.ExitEdited,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	return rec, nil
}

// Update implements attendance.RecordRepository. Last write wins on the
// punch fields; the audit flags only ever move from false to true here.
func (r *recordRepositoryImpl) Update(ctx context.Context, record attendance.Record) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET entry_at = $1,
			exit_at = $2,
			entry_raw_code = $3,
			exit_raw_code = $4,
			entry_edited = $5,
			exit_edited = $6,
			updated_at = NOW()
		WHERE company_id = $7 AND date_key = $8 AND personnel_id = $9
	`

	tag, err := q.Exec(ctx, query,
		record.EntryAt,
		record.ExitAt,
		record.EntryRawCode,
		record.ExitRawCode,
		record.EntryEdited,
		record.ExitEdited,
		record.CompanyID,
		record.DateKey,
		record.PersonnelID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}

	return nil
}

// ListByCompany implements attendance.RecordRepository. Date keys are legacy
// text, so range narrowing happens in the service after parsing; the query
// only scopes by company.
func (r *recordRepositoryImpl) ListByCompany(ctx context.Context, companyID string) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT r.id, r.company_id, r.date_key, r.personnel_id, r.shift_name,
			r.entry_at, r.exit_at, r.entry_raw_code, r.exit_raw_code,
			r.entry_edited, r.exit_edited, r.created_at, r.updated_at,
			p.display_name
		FROM attendance_records r
		LEFT JOIN personnel p ON p.id = r.personnel_id AND p.company_id = r.company_id
		WHERE r.company_id = $1
		ORDER BY r.created_at DESC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		err := rows.Scan(
			&rec.ID,
			&rec.CompanyID,
			&rec.DateKey,
			&rec.PersonnelID,
			&rec.ShiftName,
			&rec.EntryAt,
			&rec.ExitAt,
			&rec.EntryRawCode,
			&rec.ExitRawCode,
			&rec.EntryEdited,
			&rec.ExitEdited,
			&rec.CreatedAt,
			&rec.UpdatedAt,
			&rec.PersonnelName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, nil
}

// ListCompanyIDs implements attendance.RecordRepository.
func (r *recordRepositoryImpl) ListCompanyIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT DISTINCT company_id FROM attendance_records ORDER BY company_id ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list company ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan company id: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return ids, nil
}
