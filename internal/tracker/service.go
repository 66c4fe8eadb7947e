// Package tracker implements the ledger's use cases on top of the state
// store: it enforces the input rules, builds entries and assembles the
// read models that the HTTP, MCP and CLI surfaces share.
package tracker

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/reptracker/internal/calc"
	"github.com/claude/reptracker/internal/datekey"
	"github.com/claude/reptracker/internal/export"
	"github.com/claude/reptracker/internal/ledger"
	"github.com/claude/reptracker/internal/models"
	"github.com/claude/reptracker/internal/storage"
	"github.com/claude/reptracker/internal/validation"
)

// DefaultTypeColor is given to new types created without a colour.
const DefaultTypeColor = "#6290C3"

// QuickAmounts are the increments offered as one-tap actions.
var QuickAmounts = []int{1, 10}

// Service is the single entry point for changing and reading the ledger.
type Service struct {
	store   *ledger.Store
	imports storage.ImportLogger
	log     *slog.Logger
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the current time.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store *ledger.Store, imports storage.ImportLogger, log *slog.Logger, opts ...Option) *Service {
	s := &Service{store: store, imports: imports, log: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) today() string {
	return datekey.Key(s.now().In(time.Local))
}

// LogReps records a new entry. Backfilling is allowed for today and past days only.
func (s *Service) LogReps(ctx context.Context, req LogRequest) (models.LogEntry, error) {
	today := s.today()
	dateKey := req.DateKey
	if dateKey == "" {
		dateKey = today
	}
	if !datekey.Valid(dateKey) {
		return models.LogEntry{}, invalidField("dateKey", "must be a valid date (YYYY-MM-DD)")
	}
	if dateKey > today {
		return models.LogEntry{}, ErrFutureDate
	}
	if req.Count <= 0 {
		return models.LogEntry{}, invalidField("count", "must be greater than zero")
	}

	var entry models.LogEntry
	var typ models.ExerciseType
	_, err := s.store.Update(ctx, func(state models.AppState) (ledger.Action, error) {
		var ok bool
		typ, ok = state.FindType(req.TypeID)
		if !ok {
			return nil, ErrNotFound
		}
		if typ.IsArchived {
			return nil, ErrTypeArchived
		}
		entry = models.LogEntry{
			ID:        uuid.NewString(),
			Timestamp: s.now().UnixMilli(),
			DateKey:   dateKey,
			TypeID:    typ.ID,
			Count:     req.Count,
		}
		return ledger.AddLog{Entry: entry}, nil
	})
	if err != nil {
		return models.LogEntry{}, err
	}
	s.log.Info("logged reps", "type", typ.Name, "count", entry.Count, "date", dateKey)
	return entry, nil
}

// QuickAdd logs one of the QuickAmounts for today.
func (s *Service) QuickAdd(ctx context.Context, typeID string, amount int) (models.LogEntry, error) {
	if !slices.Contains(QuickAmounts, amount) {
		return models.LogEntry{}, invalidField("amount", "must be one of 1, 10")
	}
	return s.LogReps(ctx, LogRequest{TypeID: typeID, Count: amount})
}

// DeleteLog removes an entry; deleting is how mistakes are corrected.
func (s *Service) DeleteLog(ctx context.Context, id string) error {
	_, err := s.store.Update(ctx, func(state models.AppState) (ledger.Action, error) {
		if !slices.ContainsFunc(state.Logs, func(l models.LogEntry) bool { return l.ID == id }) {
			return nil, ErrNotFound
		}
		return ledger.DeleteLog{ID: id}, nil
	})
	if err != nil {
		return err
	}
	s.log.Info("deleted log", "id", id)
	return nil
}

func normalizeType(name, color string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", invalidField("name", "must not be empty")
	}
	color = strings.ToUpper(strings.TrimSpace(color))
	if !validation.IsHexColor(color) {
		return "", "", invalidField("color", "must be a hex color like #FFFFFF")
	}
	return name, color, nil
}

// CreateType adds a new active type. An empty colour gets DefaultTypeColor.
func (s *Service) CreateType(ctx context.Context, name, color string) (models.ExerciseType, error) {
	if strings.TrimSpace(color) == "" {
		color = DefaultTypeColor
	}
	name, color, err := normalizeType(name, color)
	if err != nil {
		return models.ExerciseType{}, err
	}
	typ := models.ExerciseType{ID: uuid.NewString(), Name: name, Color: color}
	s.store.Dispatch(ctx, ledger.AddType{Type: typ})
	s.log.Info("created type", "id", typ.ID, "name", typ.Name)
	return typ, nil
}

// UpdateType renames or recolours a type. The archived flag is kept.
func (s *Service) UpdateType(ctx context.Context, id, name, color string) (models.ExerciseType, error) {
	name, color, err := normalizeType(name, color)
	if err != nil {
		return models.ExerciseType{}, err
	}
	var typ models.ExerciseType
	_, err = s.store.Update(ctx, func(state models.AppState) (ledger.Action, error) {
		var ok bool
		typ, ok = state.FindType(id)
		if !ok {
			return nil, ErrNotFound
		}
		typ.Name, typ.Color = name, color
		return ledger.UpdateType{Type: typ}, nil
	})
	if err != nil {
		return models.ExerciseType{}, err
	}
	return typ, nil
}

// ArchiveType hides a type from selection while keeping its history. The
// last active type cannot be archived.
func (s *Service) ArchiveType(ctx context.Context, id string) (models.ExerciseType, error) {
	var typ models.ExerciseType
	_, err := s.store.Update(ctx, func(state models.AppState) (ledger.Action, error) {
		var ok bool
		typ, ok = state.FindType(id)
		if !ok {
			return nil, ErrNotFound
		}
		if typ.IsArchived {
			return nil, ErrTypeArchived
		}
		if len(state.ActiveTypes()) <= 1 {
			return nil, ErrLastActiveType
		}
		return ledger.ArchiveType{ID: id}, nil
	})
	if err != nil {
		return models.ExerciseType{}, err
	}
	typ.IsArchived = true
	s.log.Info("archived type", "id", id, "name", typ.Name)
	return typ, nil
}

func (s *Service) SetDailyGoal(ctx context.Context, goal int) (models.Settings, error) {
	if goal < 0 {
		return models.Settings{}, invalidField("dailyGoal", "must not be negative")
	}
	return s.store.Dispatch(ctx, ledger.SetDailyGoal{Goal: goal}).Settings, nil
}

func (s *Service) SetStartDate(ctx context.Context, key string) (models.Settings, error) {
	if !datekey.Valid(key) {
		return models.Settings{}, invalidField("startDate", "must be a valid date (YYYY-MM-DD)")
	}
	return s.store.Dispatch(ctx, ledger.SetStartDate{Date: key}).Settings, nil
}

// Dashboard assembles today's progress, the running debt and the chart for r.
func (s *Service) Dashboard(_ context.Context, r calc.ChartRange) (Dashboard, error) {
	if r == "" {
		r = calc.DefaultRange
	}
	state := s.store.State()
	now := s.now().In(time.Local)
	today := datekey.Key(now)
	goal := state.Settings.DailyGoal

	active := state.ActiveTypes()
	if active == nil {
		active = []models.ExerciseType{}
	}
	return Dashboard{
		Today:       today,
		Range:       r,
		Settings:    state.Settings,
		Progress:    calc.TodayProgress(state.Logs, today, goal),
		Breakdown:   calc.BreakdownForDate(state.Logs, today),
		Debt:        calc.Debt(state.Logs, goal, state.Settings.StartDate, today),
		TotalReps:   calc.TotalCount(state.Logs),
		Chart:       calc.AggregateForChart(state.Logs, state.Types, goal, r.Days(now), now),
		ActiveTypes: active,
	}, nil
}

// Day lists one day's entries with their types resolved.
func (s *Service) Day(_ context.Context, key string) (DayView, error) {
	if !datekey.Valid(key) {
		return DayView{}, invalidField("date", "must be a valid date (YYYY-MM-DD)")
	}
	state := s.store.State()
	byID := make(map[string]models.ExerciseType, len(state.Types))
	for _, t := range state.Types {
		byID[t.ID] = t
	}

	logs := calc.LogsForDate(state.Logs, key)
	entries := make([]EntryView, 0, len(logs))
	for _, l := range logs {
		v := EntryView{LogEntry: l, TypeName: models.UnknownTypeName, TypeColor: models.UnknownTypeColor}
		if t, ok := byID[l.TypeID]; ok {
			v.TypeName, v.TypeColor = t.Name, t.Color
		}
		entries = append(entries, v)
	}
	return DayView{
		DateKey:   key,
		Label:     datekey.FormatLabel(key, datekey.LabelShort),
		Total:     calc.TotalForDate(state.Logs, key),
		Goal:      state.Settings.DailyGoal,
		Breakdown: calc.BreakdownForDate(state.Logs, key),
		Entries:   entries,
	}, nil
}

// Restore replaces the ledger with a JSON backup. Every attempt, successful
// or not, is recorded in the import log.
func (s *Service) Restore(ctx context.Context, source string, data []byte) (models.AppState, error) {
	start := s.now()
	state, err := export.ParseJSON(data)

	entry := storage.ImportLog{CreatedAt: start, Source: source, Status: storage.ImportStatusSuccess}
	if err != nil {
		msg := err.Error()
		entry.Status = storage.ImportStatusError
		entry.ErrorMessage = &msg
		s.log.Warn("restore rejected", "source", source, "error", err)
	} else {
		entry.TypesReceived = len(state.Types)
		entry.LogsReceived = len(state.Logs)
		state = s.store.Dispatch(ctx, ledger.ImportState{State: state})
		s.log.Info("restored ledger", "source", source, "types", entry.TypesReceived, "logs", entry.LogsReceived)
	}
	durationMs := int(s.now().Sub(start).Milliseconds())
	entry.DurationMs = &durationMs

	if s.imports != nil {
		if _, logErr := s.imports.InsertImportLog(ctx, entry); logErr != nil {
			s.log.Error("failed to record import", "error", logErr)
		}
	}
	if err != nil {
		return models.AppState{}, err
	}
	return state, nil
}

// Reset wipes the ledger back to defaults starting today.
func (s *Service) Reset(ctx context.Context) models.AppState {
	s.log.Warn("resetting ledger")
	return s.store.Reset(ctx)
}

func (s *Service) State(_ context.Context) (models.AppState, error) {
	return s.store.State().Normalized(), nil
}

// Types returns active types first, then archived ones.
func (s *Service) Types(_ context.Context) ([]models.ExerciseType, error) {
	types := slices.Clone(s.store.State().Types)
	slices.SortStableFunc(types, func(a, b models.ExerciseType) int {
		switch {
		case a.IsArchived == b.IsArchived:
			return 0
		case a.IsArchived:
			return 1
		default:
			return -1
		}
	})
	if types == nil {
		types = []models.ExerciseType{}
	}
	return types, nil
}

// ImportHistory returns recent restore attempts, newest first.
func (s *Service) ImportHistory(ctx context.Context, limit int) ([]storage.ImportLog, error) {
	if s.imports == nil {
		return nil, errors.New("import history is not available")
	}
	logs, err := s.imports.QueryImportLogs(ctx, limit)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []storage.ImportLog{}
	}
	return logs, nil
}
