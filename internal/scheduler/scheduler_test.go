package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"poolpass/syncbridge/internal/constants"
	"poolpass/syncbridge/internal/db/repositories"
	gormModels "poolpass/syncbridge/internal/models/gorm"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Setup test database
func setupScheduleRepo(t *testing.T) (*repositories.SyncScheduleRepository, *sqlx.DB) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("Failed to unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(&gormModels.SyncSchedule{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	sdb := sqlx.NewDb(sqlDB, "sqlite3")
	return repositories.NewSyncScheduleRepository(sdb), sdb
}

// Stub SyncExecutor
type stubExecutor struct {
	calls int
	err   error
}

func (s *stubExecutor) Execute(ctx context.Context, integrationID, syncType string) error {
	s.calls++
	return s.err
}

func TestFrequencyInterval(t *testing.T) {
	cases := map[string]time.Duration{
		constants.FrequencyHourly: time.Hour,
		constants.FrequencyDaily:  24 * time.Hour,
		constants.FrequencyWeekly: 7 * 24 * time.Hour,
	}
	for freq, want := range cases {
		got, err := frequencyInterval(freq)
		if err != nil {
			t.Fatalf("frequencyInterval(%s) failed: %v", freq, err)
		}
		if got != want {
			t.Errorf("frequencyInterval(%s) = %v, want %v", freq, got, want)
		}
	}

	if _, err := frequencyInterval("fortnightly"); err == nil {
		t.Error("Expected error for unknown frequency")
	}
}

func TestSyncScheduler_ScheduleSyncValidates(t *testing.T) {
	repo, _ := setupScheduleRepo(t)
	s := NewSyncScheduler(repo, &stubExecutor{}, nil)
	ctx := context.Background()

	if err := s.ScheduleSync(ctx, uuid.NewString(), constants.SyncTypeAvailability, "fortnightly"); err == nil {
		t.Error("Expected invalid frequency to be rejected")
	}
	if err := s.ScheduleSync(ctx, uuid.NewString(), "inventory", constants.FrequencyHourly); err == nil {
		t.Error("Expected invalid sync type to be rejected")
	}

	if err := s.ScheduleSync(ctx, uuid.NewString(), constants.SyncTypeAvailability, constants.FrequencyHourly); err != nil {
		t.Fatalf("ScheduleSync failed: %v", err)
	}
	if len(s.entries) != 1 {
		t.Errorf("Expected 1 timer entry, got %d", len(s.entries))
	}
}

func TestSyncScheduler_SweepExecutesDueSchedules(t *testing.T) {
	repo, _ := setupScheduleRepo(t)
	executor := &stubExecutor{}
	s := NewSyncScheduler(repo, executor, nil)
	ctx := context.Background()

	schedule := &gormModels.SyncSchedule{
		IntegrationID: uuid.NewString(),
		SyncType:      constants.SyncTypeAvailability,
		Frequency:     constants.FrequencyHourly,
		NextRun:       time.Now().UTC().Add(-time.Minute),
		IsActive:      true,
	}
	if err := repo.Upsert(ctx, schedule); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	s.sweep(ctx)
	if executor.calls != 1 {
		t.Fatalf("Expected 1 execution, got %d", executor.calls)
	}

	// The claim advanced next_run, so an immediate second sweep is a
	// no-op.
	s.sweep(ctx)
	if executor.calls != 1 {
		t.Errorf("Expected no re-execution before next window, got %d calls", executor.calls)
	}

	got, err := repo.Get(ctx, schedule.IntegrationID, constants.SyncTypeAvailability)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ErrorCount != 0 {
		t.Errorf("Expected error count 0 after success, got %d", got.ErrorCount)
	}
	if got.LastRun == nil {
		t.Error("Expected last run recorded")
	}
}

func TestSyncScheduler_ConsecutiveFailuresTripBreaker(t *testing.T) {
	repo, sdb := setupScheduleRepo(t)
	executor := &stubExecutor{err: errors.New("provider down")}
	s := NewSyncScheduler(repo, executor, nil)
	ctx := context.Background()

	integrationID := uuid.NewString()
	schedule := &gormModels.SyncSchedule{
		IntegrationID: integrationID,
		SyncType:      constants.SyncTypeBookings,
		Frequency:     constants.FrequencyHourly,
		NextRun:       time.Now().UTC().Add(-time.Minute),
		IsActive:      true,
	}
	if err := repo.Upsert(ctx, schedule); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := s.addEntry(integrationID, constants.SyncTypeBookings, constants.FrequencyHourly); err != nil {
		t.Fatalf("addEntry failed: %v", err)
	}

	for i := 0; i < constants.MaxScheduleErrors; i++ {
		s.sweep(ctx)
		// Rewind next_run so the schedule is due again. A plain update
		// keeps the accumulated error count, unlike Upsert.
		if _, err := sdb.Exec(
			sdb.Rebind(`UPDATE sync_schedules SET next_run = ? WHERE id = ?`),
			time.Now().UTC().Add(-time.Minute), schedule.ID,
		); err != nil {
			t.Fatalf("Failed to rewind next_run: %v", err)
		}
	}

	if executor.calls != constants.MaxScheduleErrors {
		t.Fatalf("Expected %d executions, got %d", constants.MaxScheduleErrors, executor.calls)
	}

	got, err := repo.Get(ctx, integrationID, constants.SyncTypeBookings)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ErrorCount != constants.MaxScheduleErrors {
		t.Errorf("Expected error count %d, got %d", constants.MaxScheduleErrors, got.ErrorCount)
	}
	if !got.IsActive {
		t.Error("Expected schedule to stay enabled after breaker trip")
	}
	if got.LastError == "" {
		t.Error("Expected last error to be recorded")
	}

	// Timer removed and sweep skips the suspended schedule.
	if len(s.entries) != 0 {
		t.Errorf("Expected timer entry removed after breaker trip, got %d", len(s.entries))
	}
	s.sweep(ctx)
	if executor.calls != constants.MaxScheduleErrors {
		t.Errorf("Expected suspended schedule to be skipped, got %d calls", executor.calls)
	}
}

func TestSyncScheduler_SuccessResetsFailureStreak(t *testing.T) {
	repo, sdb := setupScheduleRepo(t)
	executor := &stubExecutor{err: errors.New("flaky")}
	s := NewSyncScheduler(repo, executor, nil)
	ctx := context.Background()

	schedule := &gormModels.SyncSchedule{
		IntegrationID: uuid.NewString(),
		SyncType:      constants.SyncTypeAvailability,
		Frequency:     constants.FrequencyHourly,
		NextRun:       time.Now().UTC().Add(-time.Minute),
		IsActive:      true,
	}
	if err := repo.Upsert(ctx, schedule); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	// Three failures, then recovery.
	for i := 0; i < 3; i++ {
		s.sweep(ctx)
		if _, err := sdb.Exec(
			sdb.Rebind(`UPDATE sync_schedules SET next_run = ? WHERE id = ?`),
			time.Now().UTC().Add(-time.Minute), schedule.ID,
		); err != nil {
			t.Fatalf("Failed to rewind next_run: %v", err)
		}
	}
	executor.err = nil
	s.sweep(ctx)

	got, err := repo.Get(ctx, schedule.IntegrationID, constants.SyncTypeAvailability)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ErrorCount != 0 {
		t.Errorf("Expected error count reset after success, got %d", got.ErrorCount)
	}
}

func TestSyncScheduler_UnscheduleRemovesTimer(t *testing.T) {
	repo, _ := setupScheduleRepo(t)
	s := NewSyncScheduler(repo, &stubExecutor{}, nil)
	ctx := context.Background()

	integrationID := uuid.NewString()
	if err := s.ScheduleSync(ctx, integrationID, constants.SyncTypePools, constants.FrequencyDaily); err != nil {
		t.Fatalf("ScheduleSync failed: %v", err)
	}
	if len(s.entries) != 1 {
		t.Fatalf("Expected 1 timer entry, got %d", len(s.entries))
	}

	if err := s.UnscheduleSync(ctx, integrationID, constants.SyncTypePools); err != nil {
		t.Fatalf("UnscheduleSync failed: %v", err)
	}
	if len(s.entries) != 0 {
		t.Errorf("Expected timer entry removed, got %d", len(s.entries))
	}

	got, err := repo.Get(ctx, integrationID, constants.SyncTypePools)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.IsActive {
		t.Error("Expected schedule deactivated")
	}
}
