package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"poolpass/syncbridge/internal/constants"
	"poolpass/syncbridge/internal/db/repositories"
	"poolpass/syncbridge/internal/metrics"
	gormModels "poolpass/syncbridge/internal/models/gorm"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// sweepSpec is the durability backstop: it re-runs due schedules even if
// the process restarted and lost its per-schedule timers.
const sweepSpec = "@every 5m"

// sweepParallelism bounds how many due schedules one sweep executes
// concurrently.
const sweepParallelism = 4

// SyncExecutor runs one sync operation. Satisfied by services.SyncService.
type SyncExecutor interface {
	Execute(ctx context.Context, integrationID, syncType string) error
}

// SyncScheduler maintains recurring sync schedules: one cron entry per
// active schedule plus a five-minute sweep over the persisted rows. The
// schedule row's atomic claim guarantees at most one execution per due
// window even when a timer fire and a sweep race; the in-flight guard
// keeps long-running syncs from stacking on themselves.
//
// The scheduler is constructed and started explicitly by the composition
// root and injected where sync triggering is needed.
type SyncScheduler struct {
	cron         *cron.Cron
	scheduleRepo *repositories.SyncScheduleRepository
	executor     SyncExecutor
	metricsReg   *metrics.MetricsRegistry

	mu      sync.Mutex
	entries map[string]cron.EntryID
	started bool

	inflightMu sync.Mutex
	inflight   map[string]bool
}

// NewSyncScheduler creates a new sync scheduler
func NewSyncScheduler(
	scheduleRepo *repositories.SyncScheduleRepository,
	executor SyncExecutor,
	metricsReg *metrics.MetricsRegistry,
) *SyncScheduler {
	return &SyncScheduler{
		cron:         cron.New(),
		scheduleRepo: scheduleRepo,
		executor:     executor,
		metricsReg:   metricsReg,
		entries:      make(map[string]cron.EntryID),
		inflight:     make(map[string]bool),
	}
}

// Start loads all active schedules from storage, registers their timers
// and the sweep, and starts the cron runner. Calling Start twice is a
// no-op.
func (s *SyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	schedules, err := s.scheduleRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to load schedules: %w", err)
	}

	for _, schedule := range schedules {
		if err := s.addEntry(schedule.IntegrationID, schedule.SyncType, schedule.Frequency); err != nil {
			log.Printf("[SyncScheduler] Failed to register timer for %s/%s: %v",
				schedule.IntegrationID, schedule.SyncType, err)
		}
	}

	if _, err := s.cron.AddFunc(sweepSpec, func() { s.sweep(context.Background()) }); err != nil {
		return fmt.Errorf("failed to register sweep: %w", err)
	}

	s.cron.Start()
	log.Printf("[SyncScheduler] Started with %d schedule timer(s)", len(schedules))
	return nil
}

// Stop cancels all timers and waits for running jobs to finish.
func (s *SyncScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("[SyncScheduler] Stopped")
}

// ScheduleSync upserts the schedule row for (integration, type), computes
// its next run, and registers a dedicated repeating timer. Rescheduling an
// existing pair resets its error count and replaces the timer.
func (s *SyncScheduler) ScheduleSync(ctx context.Context, integrationID, syncType, frequency string) error {
	interval, err := frequencyInterval(frequency)
	if err != nil {
		return err
	}
	if err := validateSyncType(syncType); err != nil {
		return err
	}

	schedule := &gormModels.SyncSchedule{
		IntegrationID: integrationID,
		SyncType:      syncType,
		Frequency:     frequency,
		NextRun:       time.Now().UTC().Add(interval),
		IsActive:      true,
	}
	if err := s.scheduleRepo.Upsert(ctx, schedule); err != nil {
		return err
	}

	return s.addEntry(integrationID, syncType, frequency)
}

// UnscheduleSync marks the schedule inactive and cancels its timer. The
// row survives so the cadence can be re-enabled later.
func (s *SyncScheduler) UnscheduleSync(ctx context.Context, integrationID, syncType string) error {
	if err := s.scheduleRepo.Deactivate(ctx, integrationID, syncType); err != nil {
		return err
	}
	s.removeEntry(scheduleKey(integrationID, syncType))
	return nil
}

// sweep executes every schedule whose next_run has passed. Claims are
// atomic updates on the schedule row, so a concurrent timer fire or a
// second process sweeping the same table cannot double-run a schedule.
func (s *SyncScheduler) sweep(ctx context.Context) {
	now := time.Now().UTC()

	due, err := s.scheduleRepo.ListDue(ctx, now)
	if err != nil {
		log.Printf("[SyncScheduler] Sweep failed to list due schedules: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}

	log.Printf("[SyncScheduler] Sweep found %d due schedule(s)", len(due))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sweepParallelism)
	for _, schedule := range due {
		schedule := schedule
		g.Go(func() error {
			s.claimAndRun(gctx, schedule)
			return nil
		})
	}
	_ = g.Wait()
}

// onTimer handles one dedicated timer fire.
func (s *SyncScheduler) onTimer(integrationID, syncType string) {
	ctx := context.Background()

	schedule, err := s.scheduleRepo.Get(ctx, integrationID, syncType)
	if err != nil {
		log.Printf("[SyncScheduler] Timer failed to load %s/%s: %v", integrationID, syncType, err)
		return
	}
	if schedule == nil || !schedule.IsActive || schedule.ErrorCount >= constants.MaxScheduleErrors {
		// Stale timer for a schedule that was disabled out of band
		s.removeEntry(scheduleKey(integrationID, syncType))
		return
	}

	s.claimAndRun(ctx, *schedule)
}

// claimAndRun atomically claims a due schedule and executes it.
func (s *SyncScheduler) claimAndRun(ctx context.Context, schedule gormModels.SyncSchedule) {
	interval, err := frequencyInterval(schedule.Frequency)
	if err != nil {
		log.Printf("[SyncScheduler] Schedule %s has invalid frequency %q", schedule.ID, schedule.Frequency)
		return
	}

	now := time.Now().UTC()
	claimed, err := s.scheduleRepo.Claim(ctx, schedule.ID, now, now.Add(interval))
	if err != nil {
		log.Printf("[SyncScheduler] Failed to claim schedule %s: %v", schedule.ID, err)
		return
	}
	if !claimed {
		return
	}

	key := scheduleKey(schedule.IntegrationID, schedule.SyncType)
	if !s.tryAcquire(key) {
		log.Printf("[SyncScheduler] Skipping %s, previous execution still running", key)
		return
	}
	defer s.release(key)

	ranAt := time.Now().UTC()
	execErr := s.executor.Execute(ctx, schedule.IntegrationID, schedule.SyncType)
	if execErr == nil {
		if err := s.scheduleRepo.RecordSuccess(ctx, schedule.ID, ranAt); err != nil {
			log.Printf("[SyncScheduler] Failed to record success for %s: %v", schedule.ID, err)
		}
		return
	}

	count, err := s.scheduleRepo.RecordFailure(ctx, schedule.ID, ranAt, execErr.Error())
	if err != nil {
		log.Printf("[SyncScheduler] Failed to record failure for %s: %v", schedule.ID, err)
		return
	}

	log.Printf("[SyncScheduler] Schedule %s failed (%d consecutive): %v", key, count, execErr)

	// Breaker trip removes the dedicated timer too, so the skipped state
	// has exactly one representation.
	if count >= constants.MaxScheduleErrors {
		s.removeEntry(key)
		if s.metricsReg != nil {
			s.metricsReg.ScheduleBreakers.Inc()
		}
		log.Printf("[SyncScheduler] Schedule %s suspended after %d consecutive errors", key, count)
	}
}

func (s *SyncScheduler) addEntry(integrationID, syncType, frequency string) error {
	interval, err := frequencyInterval(frequency)
	if err != nil {
		return err
	}

	key := scheduleKey(integrationID, syncType)

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[key]; ok {
		s.cron.Remove(existing)
		delete(s.entries, key)
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		s.onTimer(integrationID, syncType)
	})
	if err != nil {
		return fmt.Errorf("failed to add timer: %w", err)
	}

	s.entries[key] = entryID
	if s.metricsReg != nil {
		s.metricsReg.SchedulesActive.Set(float64(len(s.entries)))
	}
	return nil
}

func (s *SyncScheduler) removeEntry(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, ok := s.entries[key]; ok {
		s.cron.Remove(entryID)
		delete(s.entries, key)
		if s.metricsReg != nil {
			s.metricsReg.SchedulesActive.Set(float64(len(s.entries)))
		}
	}
}

func (s *SyncScheduler) tryAcquire(key string) bool {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()

	if s.inflight[key] {
		return false
	}
	s.inflight[key] = true
	return true
}

func (s *SyncScheduler) release(key string) {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	delete(s.inflight, key)
}

func scheduleKey(integrationID, syncType string) string {
	return integrationID + "/" + syncType
}

// frequencyInterval maps a schedule frequency to its repeat interval.
func frequencyInterval(frequency string) (time.Duration, error) {
	switch frequency {
	case constants.FrequencyHourly:
		return time.Hour, nil
	case constants.FrequencyDaily:
		return 24 * time.Hour, nil
	case constants.FrequencyWeekly:
		return 7 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("%s: %q", constants.GetErrorMessage(constants.ErrCodeInvalidFrequency), frequency)
	}
}

func validateSyncType(syncType string) error {
	switch syncType {
	case constants.SyncTypeAvailability, constants.SyncTypePools, constants.SyncTypeBookings:
		return nil
	default:
		return fmt.Errorf("%s: %q", constants.GetErrorMessage(constants.ErrCodeInvalidSyncType), syncType)
	}
}
