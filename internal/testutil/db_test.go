package testutil

import (
	"context"
	"testing"
)

func TestFixturesInsertRows(t *testing.T) {
	database := NewTestDB(t)

	tournament := NewTestTournament(t, database, "Spring Ladder", "round_robin")
	if tournament.ID == 0 || tournament.GroupCount != 1 || tournament.ByePolicy != "confirm" {
		t.Fatalf("unexpected tournament: %+v", tournament)
	}

	withEmail := NewTestParticipant(t, database, tournament.ID, "Anna", "anna@test.com")
	withoutEmail := NewTestParticipant(t, database, tournament.ID, "Bea", "")
	if !withEmail.Email.Valid || withEmail.Email.String != "anna@test.com" {
		t.Fatalf("expected stored email, got %+v", withEmail.Email)
	}
	if withoutEmail.Email.Valid {
		t.Fatalf("expected NULL email, got %+v", withoutEmail.Email)
	}

	got, err := database.Queries.GetParticipant(context.Background(), withEmail.ID)
	if err != nil {
		t.Fatalf("get participant: %v", err)
	}
	if got.TournamentID != tournament.ID || got.GroupNumber != 1 {
		t.Fatalf("unexpected participant: %+v", got)
	}
}
