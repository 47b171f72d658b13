package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/apatti/hyroxtrainer/internal/models"
)

const programColumns = `id, name, description, raw_input, start_date, end_date, created_at`

// CreateProgram inserts a program and returns the stored row.
func (db *DB) CreateProgram(ctx context.Context, p models.Program) (*models.Program, error) {
	row := db.Pool.QueryRow(ctx,
		`INSERT INTO programs (name, description, raw_input, start_date, end_date)
		 VALUES ($1,$2,$3,$4,$5)
		 RETURNING `+programColumns,
		p.Name, p.Description, p.RawInput, models.DatePtr(p.StartDate), models.DatePtr(p.EndDate))
	out, err := scanProgram(row)
	if err != nil {
		return nil, wrapErr("create program", err)
	}
	return out, nil
}

// GetProgram retrieves a program by ID.
func (db *DB) GetProgram(ctx context.Context, id uuid.UUID) (*models.Program, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+programColumns+` FROM programs WHERE id = $1`, id)
	out, err := scanProgram(row)
	if err != nil {
		return nil, wrapErr("get program", err)
	}
	return out, nil
}

// ListPrograms returns all programs, newest first.
func (db *DB) ListPrograms(ctx context.Context) ([]models.Program, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+programColumns+` FROM programs ORDER BY created_at DESC`)
	if err != nil {
		return nil, wrapErr("list programs", err)
	}
	defer rows.Close()

	result := []models.Program{}
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, wrapErr("list programs", fmt.Errorf("scanning program: %w", err))
		}
		result = append(result, *p)
	}
	return result, wrapErr("list programs", rows.Err())
}

// DeleteProgram removes a program together with its workouts, exercises and results.
func (db *DB) DeleteProgram(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM programs WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete program", err)
	}
	if tag.RowsAffected() == 0 {
		return &PersistenceError{Op: "delete program", Err: ErrNotFound}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProgram(row scanner) (*models.Program, error) {
	var (
		p          models.Program
		start, end *time.Time
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.RawInput, &start, &end, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.StartDate = models.DateFromPtr(start)
	p.EndDate = models.DateFromPtr(end)
	return &p, nil
}
