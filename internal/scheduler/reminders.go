package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/clubhouse/internal/api/apiutil"
	"github.com/codr1/clubhouse/internal/config"
	"github.com/codr1/clubhouse/internal/db"
	dbgen "github.com/codr1/clubhouse/internal/db/generated"
	"github.com/codr1/clubhouse/internal/email"
	"github.com/codr1/clubhouse/internal/tournaments"
)

type ReminderConfig struct {
	CronExpr    string
	HoursBefore int
	FromAddress string
	Location    *time.Location
}

// RegisterMatchReminderJob registers the scheduled match reminder task.
func RegisterMatchReminderJob(database *db.DB, client email.EmailSender, cfg ReminderConfig) error {
	if database == nil {
		return fmt.Errorf("reminder job requires database")
	}

	jobName := "match_reminders"
	jobLogger := log.With().
		Str("component", "match_reminders_job").
		Str("job_name", jobName).
		Str("cron", cfg.CronExpr).
		Logger()

	_, err := AddJob(jobName, cfg.CronExpr, func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		if client == nil {
			jobLogger.Debug().Msg("Reminder job skipped: email client not configured")
			return
		}

		sent, err := SendMatchReminders(ctx, database.Queries, client, cfg, time.Now())
		if err != nil {
			jobLogger.Error().Err(err).Msg("Match reminder run failed")
			return
		}
		if sent > 0 {
			jobLogger.Info().Int("emails", sent).Msg("Match reminders sent")
		}
	})
	if err != nil {
		return fmt.Errorf("add match reminder job: %w", err)
	}

	jobLogger.Info().Msg("Match reminder job registered")
	return nil
}

// reminderWindow returns the scheduled_at range owned by the cron tick at now:
// from this tick to the next one, shifted forward by HoursBefore. Consecutive
// ticks produce adjacent windows so each match falls in exactly one.
func reminderWindow(cfg ReminderConfig, now time.Time) (time.Time, time.Time, error) {
	expr := cfg.CronExpr
	if expr == "" {
		expr = config.DefaultReminderCron
	}
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse reminder cron %q: %w", expr, err)
	}

	tick := now.UTC().Truncate(time.Minute)
	next := schedule.Next(tick)
	if next.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("reminder cron %q never fires after %s", expr, tick.Format(time.RFC3339))
	}

	lead := time.Duration(cfg.HoursBefore) * time.Hour
	return tick.Add(lead), next.Add(lead), nil
}

// SendMatchReminders emails both sides of every unfinished match falling in
// the window owned by the cron tick at now and returns how many sends started.
func SendMatchReminders(ctx context.Context, q *dbgen.Queries, client email.EmailSender, cfg ReminderConfig, now time.Time) (int, error) {
	logger := log.Ctx(ctx)

	windowStart, windowEnd, err := reminderWindow(cfg, now)
	if err != nil {
		return 0, err
	}

	rows, err := q.ListMatchesScheduledBetween(ctx, dbgen.ListMatchesScheduledBetweenParams{
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
	})
	if err != nil {
		return 0, fmt.Errorf("list scheduled matches: %w", err)
	}

	tournamentNames := make(map[int64]string)
	participants := make(map[int64]tournaments.Participant)

	sent := 0
	for _, row := range rows {
		match := apiutil.MatchFromRow(row)
		matchLogger := logger.With().Int64("match_id", match.ID).Int64("tournament_id", match.TournamentID).Logger()

		name, ok := tournamentNames[match.TournamentID]
		if !ok {
			tournament, err := q.GetTournament(ctx, match.TournamentID)
			if err != nil {
				matchLogger.Error().Err(err).Msg("Failed to load tournament for reminder")
				continue
			}
			name = tournament.Name
			tournamentNames[match.TournamentID] = name
		}

		sides := make([]*tournaments.Participant, 0, 2)
		for _, slot := range []tournaments.Slot{match.Participant1, match.Participant2} {
			sides = append(sides, loadParticipant(ctx, q, participants, slot, &matchLogger))
		}

		for i, player := range sides {
			if player == nil || player.Email == "" {
				continue
			}
			opponent := ""
			if other := sides[1-i]; other != nil {
				opponent = other.DisplayName()
			}
			message := email.BuildMatchReminderEmail(email.MatchReminderDetails{
				TournamentName: name,
				PlayerName:     player.DisplayName(),
				OpponentName:   opponent,
				Stage:          string(match.Stage),
				Group:          match.Group,
				Round:          match.Round,
				ScheduledAt:    *match.ScheduledAt,
			}, cfg.Location)
			playerLogger := matchLogger.With().Int64("participant_id", int64(player.ID)).Logger()
			if email.SendReminderEmail(ctx, client, player.Email, message, cfg.FromAddress, &playerLogger) {
				sent++
			}
		}
	}
	return sent, nil
}

func loadParticipant(ctx context.Context, q *dbgen.Queries, cache map[int64]tournaments.Participant, slot tournaments.Slot, logger *zerolog.Logger) *tournaments.Participant {
	id, ok := slot.ID()
	if !ok {
		return nil
	}
	if p, ok := cache[int64(id)]; ok {
		return &p
	}
	row, err := q.GetParticipant(ctx, int64(id))
	if err != nil {
		logger.Error().Err(err).Int64("participant_id", int64(id)).Msg("Failed to load participant for reminder")
		return nil
	}
	p := apiutil.ParticipantFromRow(row)
	cache[int64(id)] = p
	return &p
}
