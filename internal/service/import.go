package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"trailscore/internal/store"
)

// ImportResult summarizes an imported day log
type ImportResult struct {
	ProfileSaved bool
	PlanSaved    bool
	Days         int
	Sessions     int
	SleepNights  int
	FoodEntries  int

	// From and To span the imported days; zero when no days were imported
	From, To time.Time
}

// ImportService writes day logs into the store
type ImportService struct {
	store *store.DB
}

// NewImportService creates a new import service
func NewImportService(db *store.DB) *ImportService {
	return &ImportService{store: db}
}

// ImportFile reads and imports the YAML day log at path
func (s *ImportService) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening day log: %w", err)
	}
	defer f.Close()

	return s.Import(ctx, f)
}

// Import decodes a YAML day log from r and writes it to the store. The whole
// file is validated before anything is written.
func (s *ImportService) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	log, err := DecodeLogFile(r)
	if err != nil {
		return nil, err
	}
	return s.ImportLog(ctx, log)
}

// DecodeLogFile parses a YAML day log
func DecodeLogFile(r io.Reader) (*LogFile, error) {
	var log LogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&log); err != nil {
		if errors.Is(err, io.EOF) {
			return &log, nil
		}
		return nil, fmt.Errorf("parsing day log: %w", err)
	}
	return &log, nil
}

// DecodeSnapshot parses a YAML (or JSON, which YAML accepts) snapshot
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&snap); err != nil {
		if errors.Is(err, io.EOF) {
			return &snap, nil
		}
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	return &snap, nil
}

// ImportLog writes an already decoded day log
func (s *ImportService) ImportLog(ctx context.Context, log *LogFile) (*ImportResult, error) {
	var profile *store.Profile
	var plan *store.Plan
	var err error
	if log.Profile != nil {
		if profile, err = log.Profile.toStore(); err != nil {
			return nil, err
		}
	}
	if log.Plan != nil {
		if plan, err = log.Plan.toStore(); err != nil {
			return nil, err
		}
	}

	entries := make([]*dayEntry, 0, len(log.Days))
	seen := make(map[string]bool)
	for i := range log.Days {
		e, err := log.Days[i].parse()
		if err != nil {
			return nil, fmt.Errorf("day %d: %w", i+1, err)
		}
		key := e.date.Format(store.DateFormat)
		if seen[key] {
			return nil, fmt.Errorf("day %s appears more than once", key)
		}
		seen[key] = true
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].date.Before(entries[j].date) })

	result := &ImportResult{}
	if profile != nil {
		if err := s.store.SaveProfile(ctx, profile); err != nil {
			return result, fmt.Errorf("saving profile: %w", err)
		}
		result.ProfileSaved = true
	}
	if plan != nil {
		if err := s.store.SavePlan(ctx, plan); err != nil {
			return result, fmt.Errorf("saving plan: %w", err)
		}
		result.PlanSaved = true
	}

	for _, e := range entries {
		if err := s.importDay(ctx, e, result); err != nil {
			return result, fmt.Errorf("importing %s: %w", e.date.Format(store.DateFormat), err)
		}
	}

	if len(entries) > 0 {
		result.From = entries[0].date
		result.To = entries[len(entries)-1].date
	}

	slog.Info("imported day log", "days", result.Days, "sessions", result.Sessions,
		"food_entries", result.FoodEntries, "profile", result.ProfileSaved, "plan", result.PlanSaved)
	return result, nil
}

func (s *ImportService) importDay(ctx context.Context, e *dayEntry, result *ImportResult) error {
	if err := s.store.UpsertDay(ctx, e.day); err != nil {
		return fmt.Errorf("saving day: %w", err)
	}
	result.Days++

	for i := range e.sessions {
		if err := s.store.UpsertSession(ctx, &e.sessions[i]); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
		result.Sessions++
	}

	if len(e.sleep) > 0 {
		if err := s.store.ReplaceSleep(ctx, e.date, e.sleep); err != nil {
			return fmt.Errorf("saving sleep: %w", err)
		}
		result.SleepNights++
	}

	if len(e.food) > 0 {
		if err := s.store.ReplaceFood(ctx, e.date, e.food); err != nil {
			return fmt.Errorf("saving food: %w", err)
		}
		result.FoodEntries += len(e.food)
	}
	return nil
}
