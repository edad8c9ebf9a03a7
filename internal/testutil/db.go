package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/codr1/clubhouse/internal/db"
	dbgen "github.com/codr1/clubhouse/internal/db/generated"
)

// NewTestDB opens a migrated SQLite database in a per-test temp dir. It is
// closed when the test ends.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "clubhouse_test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(); err != nil {
			t.Logf("close test db: %v", err)
		}
	})
	return database
}

// NewTestTournament inserts a single-group tournament with the confirm bye
// policy.
func NewTestTournament(t *testing.T, database *db.DB, name, format string) dbgen.Tournament {
	t.Helper()

	tournament, err := database.Queries.CreateTournament(context.Background(), dbgen.CreateTournamentParams{
		Name:       name,
		Format:     format,
		GroupCount: 1,
		ByePolicy:  "confirm",
	})
	if err != nil {
		t.Fatalf("create tournament %q: %v", name, err)
	}
	return tournament
}

// NewTestParticipant adds a player to group 1 of a tournament. An empty email
// is stored as NULL.
func NewTestParticipant(t *testing.T, database *db.DB, tournamentID int64, name, email string) dbgen.TournamentParticipant {
	t.Helper()

	participant, err := database.Queries.CreateParticipant(context.Background(), dbgen.CreateParticipantParams{
		TournamentID: tournamentID,
		PlayerName:   name,
		GroupNumber:  1,
		Email:        sql.NullString{String: email, Valid: email != ""},
	})
	if err != nil {
		t.Fatalf("create participant %q: %v", name, err)
	}
	return participant
}
