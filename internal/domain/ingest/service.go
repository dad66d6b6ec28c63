package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/janhq/health-assistant/internal/domain/health"
	"github.com/janhq/health-assistant/internal/infrastructure/metrics"
	"github.com/janhq/health-assistant/internal/infrastructure/observability"
)

// Table names used in reports and metrics.
const (
	TableOuraSleep     = "oura_sleep"
	TableOuraActivity  = "oura_activity"
	TableOuraReadiness = "oura_readiness"
	TableOuraHeartRate = "oura_heart_rate"
	TablePolarExercise = "polar_exercises"
	TablePolarActivity = "polar_daily_activity"
)

// Options configures a Service. A nil client disables its source.
type Options struct {
	Oura         OuraClient
	Polar        PolarClient
	LookbackDays int
	BackupPath   string
	Now          func() time.Time
}

type Service struct {
	repo     health.IngestRepository
	oura     OuraClient
	polar    PolarClient
	lookback int
	backup   string
	now      func() time.Time
	log      zerolog.Logger

	ouraMu  sync.Mutex
	polarMu sync.Mutex
}

func NewService(repo health.IngestRepository, opts Options, log zerolog.Logger) *Service {
	if opts.LookbackDays <= 0 {
		opts.LookbackDays = 30
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		repo:     repo,
		oura:     opts.Oura,
		polar:    opts.Polar,
		lookback: opts.LookbackDays,
		backup:   opts.BackupPath,
		now:      opts.Now,
		log:      log.With().Str("component", "ingest").Logger(),
	}
}

// Sources lists the configured sources.
func (s *Service) Sources() []string {
	var out []string
	if s.oura != nil {
		out = append(out, SourceOura)
	}
	if s.polar != nil {
		out = append(out, SourcePolar)
	}
	return out
}

// Sync runs the named source.
func (s *Service) Sync(ctx context.Context, source string) (*Report, error) {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case SourceOura:
		return s.SyncOura(ctx)
	case SourcePolar:
		return s.SyncPolar(ctx)
	default:
		return nil, fmt.Errorf("%q: %w", source, ErrUnknownSource)
	}
}

// SyncOura fetches the four Oura collections for the look-back window in
// parallel, upserts every decodable record and writes the optional backup.
func (s *Service) SyncOura(ctx context.Context) (*Report, error) {
	if s.oura == nil {
		return nil, fmt.Errorf("%s: %w", SourceOura, ErrNotConfigured)
	}
	if !s.ouraMu.TryLock() {
		return nil, fmt.Errorf("%s: %w", SourceOura, ErrSyncInProgress)
	}
	defer s.ouraMu.Unlock()

	ctx, span := observability.StartSyncSpan(ctx, SourceOura)
	defer span.End()

	today := health.Truncate(s.now())
	window := health.DateRange{Start: today.AddDate(0, 0, -s.lookback), End: today}
	report := newReport(SourceOura, s.now())
	report.Window = window.String()

	endpoints := []string{EndpointDailySleep, EndpointDailyActivity, EndpointDailyReadiness, EndpointHeartRate}
	payloads := make([][]json.RawMessage, len(endpoints))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for i, endpoint := range endpoints {
		g.Go(func() error {
			records, err := s.oura.FetchCollection(gctx, endpoint, window)
			payloads[i] = records
			if err != nil {
				s.log.Warn().Err(err).Str("endpoint", endpoint).Int("kept", len(records)).Msg("oura fetch stopped early")
				mu.Lock()
				report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", endpoint, err))
				mu.Unlock()
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		observability.RecordError(span, err)
		return nil, fmt.Errorf("oura fetch: %w", err)
	}

	s.saveEach(ctx, report, TableOuraSleep, payloads[0], func(raw json.RawMessage) error {
		rec, err := DecodeSleep(raw)
		if err != nil {
			return skip(err)
		}
		return s.repo.UpsertSleep(ctx, rec)
	})
	s.saveEach(ctx, report, TableOuraActivity, payloads[1], func(raw json.RawMessage) error {
		rec, err := DecodeActivity(raw)
		if err != nil {
			return skip(err)
		}
		return s.repo.UpsertActivity(ctx, rec)
	})
	s.saveEach(ctx, report, TableOuraReadiness, payloads[2], func(raw json.RawMessage) error {
		rec, err := DecodeReadiness(raw)
		if err != nil {
			return skip(err)
		}
		return s.repo.UpsertReadiness(ctx, rec)
	})
	s.saveEach(ctx, report, TableOuraHeartRate, payloads[3], func(raw json.RawMessage) error {
		sample, err := DecodeHeartRate(raw)
		if err != nil {
			return skip(err)
		}
		return s.repo.UpsertHeartRate(ctx, sample)
	})

	if s.backup != "" {
		if err := writeBackup(s.backup, payloads, s.now()); err != nil {
			s.log.Warn().Err(err).Str("path", s.backup).Msg("oura backup not written")
			report.Errors = append(report.Errors, "backup: "+err.Error())
		} else {
			report.BackupPath = s.backup
		}
	}

	report.FinishedAt = s.now().UTC()
	s.logReport(report)
	return report, nil
}

type skipError struct{ err error }

func (e skipError) Error() string { return e.err.Error() }

func skip(err error) error { return skipError{err} }

// saveEach upserts records one at a time; a bad record never aborts the batch.
func (s *Service) saveEach(ctx context.Context, report *Report, table string, records []json.RawMessage, save func(json.RawMessage) error) {
	tc := report.table(table)
	tc.Fetched = len(records)
	for _, raw := range records {
		if ctx.Err() != nil {
			return
		}
		err := save(raw)
		switch err.(type) {
		case nil:
			tc.Saved++
		case skipError:
			tc.Skipped++
			s.log.Debug().Err(err).Str("table", table).Msg("record skipped")
		default:
			tc.Failed++
			s.log.Warn().Err(err).Str("table", table).Msg("record not saved")
		}
	}
	metrics.RecordIngested(SourceOura, table, "saved", tc.Saved)
	metrics.RecordIngested(SourceOura, table, "skipped", tc.Skipped)
	metrics.RecordIngested(SourceOura, table, "failed", tc.Failed)
}

type backupDocument struct {
	Sleep     []json.RawMessage `json:"sleep"`
	Activity  []json.RawMessage `json:"activity"`
	Readiness []json.RawMessage `json:"readiness"`
	HeartRate []json.RawMessage `json:"heart_rate"`
	FetchedAt string            `json:"fetched_at"`
}

func writeBackup(path string, payloads [][]json.RawMessage, fetchedAt time.Time) error {
	doc := backupDocument{
		Sleep:     nonNil(payloads[0]),
		Activity:  nonNil(payloads[1]),
		Readiness: nonNil(payloads[2]),
		HeartRate: nonNil(payloads[3]),
		FetchedAt: fetchedAt.Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func nonNil(v []json.RawMessage) []json.RawMessage {
	if v == nil {
		return []json.RawMessage{}
	}
	return v
}

// SyncPolar drains the exercise and activity transactions. A transaction is
// committed only after its records were stored, so a failed upsert leaves
// the data available for the next run.
func (s *Service) SyncPolar(ctx context.Context) (*Report, error) {
	if s.polar == nil {
		return nil, fmt.Errorf("%s: %w", SourcePolar, ErrNotConfigured)
	}
	if !s.polarMu.TryLock() {
		return nil, fmt.Errorf("%s: %w", SourcePolar, ErrSyncInProgress)
	}
	defer s.polarMu.Unlock()

	ctx, span := observability.StartSyncSpan(ctx, SourcePolar)
	defer span.End()

	report := newReport(SourcePolar, s.now())

	if err := s.syncPolarExercises(ctx, report); err != nil {
		report.Errors = append(report.Errors, "exercises: "+err.Error())
		observability.RecordError(span, err)
	}
	if err := s.syncPolarActivities(ctx, report); err != nil {
		report.Errors = append(report.Errors, "activities: "+err.Error())
		observability.RecordError(span, err)
	}

	report.FinishedAt = s.now().UTC()
	s.logReport(report)
	return report, nil
}

func (s *Service) openTransaction(ctx context.Context, kind TransactionKind) (*Transaction, []string, error) {
	tx, err := s.polar.CreateTransaction(ctx, kind)
	if err != nil || tx == nil {
		return nil, nil, err
	}
	links := tx.Links(kind)
	if len(links) == 0 {
		links, err = s.polar.ListTransaction(ctx, kind, tx.ID)
		if err != nil {
			return tx, nil, fmt.Errorf("list transaction %d: %w", tx.ID, err)
		}
	}
	return tx, links, nil
}

func (s *Service) syncPolarExercises(ctx context.Context, report *Report) error {
	tc := report.table(TablePolarExercise)
	tx, links, err := s.openTransaction(ctx, ExerciseTransactions)
	if err != nil || tx == nil {
		return err
	}

	batch := make([]health.PolarExercise, 0, len(links))
	for _, link := range links {
		tc.Fetched++
		summary, err := s.polar.GetExerciseSummary(ctx, link)
		if err != nil {
			tc.Failed++
			s.log.Warn().Err(err).Str("link", link).Msg("exercise summary not fetched")
			continue
		}
		ex, err := MapExercise(summary, s.polar.UserID())
		if err != nil {
			tc.Skipped++
			s.log.Warn().Err(err).Msg("exercise skipped")
			continue
		}
		batch = append(batch, *ex)
	}

	if len(batch) > 0 {
		n, err := s.repo.UpsertPolarExercises(ctx, batch)
		if err != nil {
			tc.Failed += len(batch)
			metrics.RecordIngested(SourcePolar, TablePolarExercise, "failed", len(batch))
			return fmt.Errorf("upsert exercises: %w", err)
		}
		tc.Saved += n
		metrics.RecordIngested(SourcePolar, TablePolarExercise, "saved", n)
	}
	metrics.RecordIngested(SourcePolar, TablePolarExercise, "skipped", tc.Skipped)

	if err := s.polar.CommitTransaction(ctx, ExerciseTransactions, tx.ID); err != nil {
		return fmt.Errorf("commit transaction %d: %w", tx.ID, err)
	}
	return nil
}

func (s *Service) syncPolarActivities(ctx context.Context, report *Report) error {
	tc := report.table(TablePolarActivity)
	tx, links, err := s.openTransaction(ctx, ActivityTransactions)
	if err != nil || tx == nil {
		return err
	}

	batch := make([]health.PolarDailyActivity, 0, len(links))
	for _, link := range links {
		tc.Fetched++
		summary, err := s.polar.GetActivitySummary(ctx, link)
		if err != nil {
			tc.Failed++
			s.log.Warn().Err(err).Str("link", link).Msg("activity summary not fetched")
			continue
		}
		act, err := MapActivity(summary, tx.ID, s.polar.UserID())
		if err != nil {
			tc.Skipped++
			continue
		}
		batch = append(batch, *act)
	}

	if len(batch) > 0 {
		n, err := s.repo.UpsertPolarActivities(ctx, batch)
		if err != nil {
			tc.Failed += len(batch)
			metrics.RecordIngested(SourcePolar, TablePolarActivity, "failed", len(batch))
			return fmt.Errorf("upsert activities: %w", err)
		}
		tc.Saved += n
		metrics.RecordIngested(SourcePolar, TablePolarActivity, "saved", n)
	}

	if err := s.polar.CommitTransaction(ctx, ActivityTransactions, tx.ID); err != nil {
		return fmt.Errorf("commit transaction %d: %w", tx.ID, err)
	}
	return nil
}

func (s *Service) logReport(r *Report) {
	event := s.log.Info().Str("source", r.Source).Int("errors", len(r.Errors))
	for name, tc := range r.Tables {
		event = event.Str(name, fmt.Sprintf("fetched=%d saved=%d skipped=%d failed=%d", tc.Fetched, tc.Saved, tc.Skipped, tc.Failed))
	}
	event.Dur("duration", r.FinishedAt.Sub(r.StartedAt)).Msg("sync finished")
}
