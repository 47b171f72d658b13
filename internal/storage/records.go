package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/apatti/hyroxtrainer/internal/models"
)

const recordColumns = `id, exercise_type, exercise_name, record_type, record_value, workout_result_id, achieved_at, notes`

// CreatePersonalRecord inserts a manually entered personal record. A zero AchievedAt means now.
func (db *DB) CreatePersonalRecord(ctx context.Context, pr models.PersonalRecord) (*models.PersonalRecord, error) {
	var achieved *time.Time
	if !pr.AchievedAt.IsZero() {
		achieved = &pr.AchievedAt
	}
	row := db.Pool.QueryRow(ctx,
		`INSERT INTO personal_records (exercise_type, exercise_name, record_type, record_value,
		 workout_result_id, achieved_at, notes)
		 VALUES ($1,$2,$3,$4,$5,COALESCE($6, now()),$7)
		 RETURNING `+recordColumns,
		string(pr.ExerciseType), pr.ExerciseName, string(pr.RecordType), pr.RecordValue,
		pr.WorkoutResultID, achieved, pr.Notes)
	out, err := scanRecord(row)
	if err != nil {
		return nil, wrapErr("create personal record", err)
	}
	return out, nil
}

// ListPersonalRecords returns records newest first, optionally for one exercise type.
func (db *DB) ListPersonalRecords(ctx context.Context, exerciseType *models.ExerciseType) ([]models.PersonalRecord, error) {
	var filter *string
	if exerciseType != nil {
		s := string(*exerciseType)
		filter = &s
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT `+recordColumns+` FROM personal_records
		 WHERE ($1::text IS NULL OR exercise_type = $1)
		 ORDER BY achieved_at DESC`, filter)
	if err != nil {
		return nil, wrapErr("list personal records", err)
	}
	defer rows.Close()

	result := []models.PersonalRecord{}
	for rows.Next() {
		pr, err := scanRecord(rows)
		if err != nil {
			return nil, wrapErr("list personal records", fmt.Errorf("scanning personal record: %w", err))
		}
		result = append(result, *pr)
	}
	return result, wrapErr("list personal records", rows.Err())
}

func scanRecord(row scanner) (*models.PersonalRecord, error) {
	var (
		pr           models.PersonalRecord
		etype, rtype string
	)
	if err := row.Scan(&pr.ID, &etype, &pr.ExerciseName, &rtype, &pr.RecordValue,
		&pr.WorkoutResultID, &pr.AchievedAt, &pr.Notes); err != nil {
		return nil, err
	}
	pr.ExerciseType = models.ExerciseType(etype)
	pr.RecordType = models.RecordType(rtype)
	return &pr, nil
}
