package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"poolpass/syncbridge/internal/constants"
	gormModels "poolpass/syncbridge/internal/models/gorm"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type SyncScheduleRepository struct {
	db *sqlx.DB
}

func NewSyncScheduleRepository(db *sqlx.DB) *SyncScheduleRepository {
	return &SyncScheduleRepository{db: db}
}

type scheduleRow struct {
	ID            string       `db:"id"`
	IntegrationID string       `db:"integration_id"`
	SyncType      string       `db:"sync_type"`
	Frequency     string       `db:"frequency"`
	NextRun       time.Time    `db:"next_run"`
	IsActive      bool         `db:"is_active"`
	ErrorCount    int          `db:"error_count"`
	LastRun       sql.NullTime `db:"last_run"`
	LastError     string       `db:"last_error"`
}

func (r scheduleRow) toModel() gormModels.SyncSchedule {
	s := gormModels.SyncSchedule{
		ID:            r.ID,
		IntegrationID: r.IntegrationID,
		SyncType:      r.SyncType,
		Frequency:     r.Frequency,
		NextRun:       r.NextRun,
		IsActive:      r.IsActive,
		ErrorCount:    r.ErrorCount,
		LastError:     r.LastError,
	}
	if r.LastRun.Valid {
		v := r.LastRun.Time
		s.LastRun = &v
	}
	return s
}

const scheduleColumns = `id, integration_id, sync_type, frequency, next_run, is_active, error_count, last_run, last_error`

// Upsert creates or reactivates a schedule keyed by (integration, type).
// Rescheduling resets the error count, so a breaker-tripped schedule gets
// a clean slate when a host re-enables it.
func (r *SyncScheduleRepository) Upsert(ctx context.Context, schedule *gormModels.SyncSchedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.New().String()
	}

	const query = `
		INSERT INTO sync_schedules (id, integration_id, sync_type, frequency, next_run, is_active, error_count, last_error, created_at, updated_at)
		VALUES (:id, :integration_id, :sync_type, :frequency, :next_run, :is_active, 0, '', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (integration_id, sync_type) DO UPDATE
		SET frequency = EXCLUDED.frequency,
		    next_run = EXCLUDED.next_run,
		    is_active = EXCLUDED.is_active,
		    error_count = 0,
		    last_error = '',
		    updated_at = CURRENT_TIMESTAMP
	`

	row := scheduleRow{
		ID:            schedule.ID,
		IntegrationID: schedule.IntegrationID,
		SyncType:      schedule.SyncType,
		Frequency:     schedule.Frequency,
		NextRun:       schedule.NextRun,
		IsActive:      schedule.IsActive,
	}

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to upsert schedule: %w", err)
	}

	return r.db.GetContext(ctx, &schedule.ID,
		r.db.Rebind(`SELECT id FROM sync_schedules WHERE integration_id = ? AND sync_type = ?`),
		schedule.IntegrationID, schedule.SyncType)
}

// Get fetches one schedule by (integration, type), nil when not found
func (r *SyncScheduleRepository) Get(ctx context.Context, integrationID, syncType string) (*gormModels.SyncSchedule, error) {
	var row scheduleRow

	err := r.db.GetContext(ctx, &row,
		r.db.Rebind(`SELECT `+scheduleColumns+` FROM sync_schedules WHERE integration_id = ? AND sync_type = ?`),
		integrationID, syncType)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	s := row.toModel()
	return &s, nil
}

// ListActive returns every active schedule, used to rebuild timers on boot
func (r *SyncScheduleRepository) ListActive(ctx context.Context) ([]gormModels.SyncSchedule, error) {
	var rows []scheduleRow

	err := r.db.SelectContext(ctx, &rows,
		r.db.Rebind(`SELECT `+scheduleColumns+` FROM sync_schedules WHERE is_active = ? AND error_count < ?`),
		true, constants.MaxScheduleErrors)
	if err != nil {
		return nil, fmt.Errorf("failed to list active schedules: %w", err)
	}

	schedules := make([]gormModels.SyncSchedule, len(rows))
	for i, row := range rows {
		schedules[i] = row.toModel()
	}
	return schedules, nil
}

// ListDue returns schedules the sweep should consider at the given instant
func (r *SyncScheduleRepository) ListDue(ctx context.Context, now time.Time) ([]gormModels.SyncSchedule, error) {
	var rows []scheduleRow

	err := r.db.SelectContext(ctx, &rows,
		r.db.Rebind(`
			SELECT `+scheduleColumns+`
			FROM sync_schedules
			WHERE next_run <= ? AND is_active = ? AND error_count < ?`),
		now, true, constants.MaxScheduleErrors)
	if err != nil {
		return nil, fmt.Errorf("failed to list due schedules: %w", err)
	}

	schedules := make([]gormModels.SyncSchedule, len(rows))
	for i, row := range rows {
		schedules[i] = row.toModel()
	}
	return schedules, nil
}

// Claim atomically advances a due schedule's next_run. Exactly one caller
// wins between concurrent sweeps or overlapping timers; losers see zero
// rows affected and skip the execution.
func (r *SyncScheduleRepository) Claim(ctx context.Context, scheduleID string, now, nextRun time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind(`
			UPDATE sync_schedules
			SET next_run = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND next_run <= ? AND is_active = ? AND error_count < ?`),
		nextRun, scheduleID, now, true, constants.MaxScheduleErrors)
	if err != nil {
		return false, fmt.Errorf("failed to claim schedule: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// RecordSuccess resets the consecutive error count
func (r *SyncScheduleRepository) RecordSuccess(ctx context.Context, scheduleID string, ranAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind(`
			UPDATE sync_schedules
			SET error_count = 0, last_error = '', last_run = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?`),
		ranAt, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to record success: %w", err)
	}
	return nil
}

// RecordFailure increments the consecutive error count and returns the
// new count so the scheduler can trip the breaker.
func (r *SyncScheduleRepository) RecordFailure(ctx context.Context, scheduleID string, ranAt time.Time, message string) (int, error) {
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind(`
			UPDATE sync_schedules
			SET error_count = error_count + 1, last_error = ?, last_run = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?`),
		message, ranAt, scheduleID)
	if err != nil {
		return 0, fmt.Errorf("failed to record failure: %w", err)
	}

	var count int
	err = r.db.GetContext(ctx, &count,
		r.db.Rebind(`SELECT error_count FROM sync_schedules WHERE id = ?`),
		scheduleID)
	if err != nil {
		return 0, fmt.Errorf("failed to read error count: %w", err)
	}
	return count, nil
}

// Deactivate marks a schedule inactive without deleting it
func (r *SyncScheduleRepository) Deactivate(ctx context.Context, integrationID, syncType string) error {
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind(`
			UPDATE sync_schedules
			SET is_active = ?, updated_at = CURRENT_TIMESTAMP
			WHERE integration_id = ? AND sync_type = ?`),
		false, integrationID, syncType)
	if err != nil {
		return fmt.Errorf("failed to deactivate schedule: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
