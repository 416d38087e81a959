package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"crewroster-service/internal/domain/entity"
	"crewroster-service/internal/domain/repository"
	"crewroster-service/pkg/logger"
	"crewroster-service/pkg/metrics"
)

// ImportResult is what an import run produced. Saved is false when the
// merged roster could not be persisted; the in-memory roster is still
// updated so the user sees their data, they just lose it on restart.
type ImportResult struct {
	Days  []entity.RosterDay
	Saved bool
}

// RosterListener is notified with the full roster after every change.
type RosterListener func(userID string, days []entity.RosterDay)

// RosterManager holds the current roster per user and orchestrates the
// import flow: upload, merge with what is stored, persist, notify. It
// replaces implicit reactive state with explicit subscription.
type RosterManager struct {
	mu        sync.Mutex
	current   map[string][]entity.RosterDay
	listeners []RosterListener

	scheduleRepo repository.ScheduleRepository
	rosterRepo   repository.RosterRepository
	metrics      *metrics.Metrics
	logger       logger.Logger
}

// NewRosterManager creates a roster manager.
func NewRosterManager(
	scheduleRepo repository.ScheduleRepository,
	rosterRepo repository.RosterRepository,
	m *metrics.Metrics,
	logger logger.Logger,
) *RosterManager {
	return &RosterManager{
		current:      make(map[string][]entity.RosterDay),
		scheduleRepo: scheduleRepo,
		rosterRepo:   rosterRepo,
		metrics:      m,
		logger:       logger,
	}
}

// Subscribe registers a listener called after every roster change. Must be
// called before the manager is in use; listeners run synchronously.
func (m *RosterManager) Subscribe(fn RosterListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Roster returns the user's current roster, loading it from the store on
// first access. A corrupt store is logged and treated as empty rather than
// failing the session.
func (m *RosterManager) Roster(userID string) ([]entity.RosterDay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rosterLocked(userID)
}

func (m *RosterManager) rosterLocked(userID string) ([]entity.RosterDay, error) {
	if days, ok := m.current[userID]; ok {
		return days, nil
	}

	days, err := m.rosterRepo.Load(userID)
	if errors.Is(err, entity.ErrNoRoster) {
		days = nil
	} else if err != nil {
		var corrupt *entity.CorruptDataError
		if errors.As(err, &corrupt) {
			m.logger.Warn("Stored roster is corrupt, starting empty",
				"userId", userID, "error", err)
			m.metrics.ErrorsCount.WithLabelValues("load").Inc()
			days = nil
		} else {
			return nil, err
		}
	}

	m.current[userID] = days
	return days, nil
}

// Import uploads a schedule file, merges the returned days into the user's
// roster and persists the result. A failed save is non-fatal: it is logged,
// counted and reported via ImportResult.Saved.
func (m *RosterManager) Import(ctx context.Context, userID string, fileBytes []byte, fileName string) (ImportResult, error) {
	start := time.Now()
	incoming, err := m.scheduleRepo.ImportSchedule(ctx, fileBytes, fileName)
	if err != nil {
		m.metrics.ErrorsCount.WithLabelValues("import").Inc()
		return ImportResult{}, err
	}
	m.metrics.ImportDuration.Observe(time.Since(start).Seconds())

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, err := m.rosterLocked(userID)
	if err != nil {
		// Not an import failure: the parser answered fine, the local
		// store did not.
		return ImportResult{}, &entity.StorageError{Op: "load", Err: err}
	}

	merged := MergeRosterDays(existing, incoming)
	m.current[userID] = merged

	m.metrics.ImportsProcessed.Inc()
	m.metrics.DaysMerged.Add(float64(len(incoming)))

	result := ImportResult{Days: merged, Saved: true}
	if err := m.rosterRepo.Save(userID, merged); err != nil {
		m.logger.Error("Failed to persist roster, changes not saved",
			"userId", userID, "error", err)
		m.metrics.ErrorsCount.WithLabelValues("save").Inc()
		result.Saved = false
	}

	m.notifyLocked(userID, merged)
	return result, nil
}

// Clear drops the user's roster from memory and from the store.
func (m *RosterManager) Clear(userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.current, userID)
	if err := m.rosterRepo.Clear(userID); err != nil {
		m.metrics.ErrorsCount.WithLabelValues("clear").Inc()
		return err
	}
	m.notifyLocked(userID, nil)
	return nil
}

// ClearAll wipes every cached roster, in memory and on disk. Used when the
// install is reset.
func (m *RosterManager) ClearAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for userID := range m.current {
		delete(m.current, userID)
		m.notifyLocked(userID, nil)
	}
	if err := m.rosterRepo.ClearAll(); err != nil {
		m.metrics.ErrorsCount.WithLabelValues("clear").Inc()
		return err
	}
	return nil
}

func (m *RosterManager) notifyLocked(userID string, days []entity.RosterDay) {
	for _, fn := range m.listeners {
		fn(userID, days)
	}
}
