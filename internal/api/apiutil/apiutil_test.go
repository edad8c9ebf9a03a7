package apiutil

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dbgen "github.com/codr1/clubhouse/internal/db/generated"
	"github.com/codr1/clubhouse/internal/tournaments"
)

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Open"}`))
	if err := DecodeJSON(req, &dst); err != nil || dst.Name != "Open" {
		t.Fatalf("expected decode, got %v (%+v)", err, dst)
	}

	for _, body := range []string{`{"name":"Open","extra":1}`, `{"name":"Open"}{"name":"x"}`, `{`} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		if err := DecodeJSON(req, &dst); err == nil {
			t.Fatalf("expected error for %s", body)
		}
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		message   string
		wantField string
	}{
		{name: "handler error", err: HandlerError{Status: http.StatusConflict, Message: "Taken"}, status: http.StatusConflict, message: "Taken"},
		{name: "wrapped handler error", err: fmt.Errorf("tx: %w", HandlerError{Status: http.StatusNotFound, Message: "Gone"}), status: http.StatusNotFound, message: "Gone"},
		{name: "field error", err: FieldError{Field: "name", Reason: "is required"}, status: http.StatusBadRequest, message: "name is required", wantField: "name"},
		{name: "no rows", err: fmt.Errorf("load: %w", sql.ErrNoRows), status: http.StatusNotFound, message: "Not found"},
		{name: "internal", err: errors.New("disk on fire"), status: http.StatusInternalServerError, message: "Internal server error"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

		if rec.Code != tt.status {
			t.Fatalf("%s: expected %d, got %d", tt.name, tt.status, rec.Code)
		}
		var body ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode: %v", tt.name, err)
		}
		if body.Error != tt.message || body.Field != tt.wantField {
			t.Fatalf("%s: unexpected body %+v", tt.name, body)
		}
	}
}

func TestPathID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetPathValue("id", "42")
	if id, err := PathID(req, "id"); err != nil || id != 42 {
		t.Fatalf("expected 42, got %d (%v)", id, err)
	}

	for _, raw := range []string{"", "0", "-1", "abc"} {
		req.SetPathValue("id", raw)
		var fieldErr FieldError
		if _, err := PathID(req, "id"); !errors.As(err, &fieldErr) {
			t.Fatalf("%q: expected FieldError, got %v", raw, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-05-09T10:00:00+02:00", "startDate")
	if err != nil || !got.Equal(time.Date(2026, 5, 9, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected RFC3339 parse: %v (%v)", got, err)
	}
	if _, err := ParseDate("2026-05-09", "startDate"); err != nil {
		t.Fatalf("expected bare date to parse: %v", err)
	}
	if _, err := ParseDate("09/05/2026", "startDate"); err == nil {
		t.Fatalf("expected error for unsupported layout")
	}
}

func TestToNullTimeTruncatesToUTCSeconds(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	at := time.Date(2026, 5, 9, 16, 30, 15, 999, loc)

	got := ToNullTime(&at)
	if !got.Valid || got.Time.Location() != time.UTC || got.Time.Nanosecond() != 0 || got.Time.Hour() != 14 {
		t.Fatalf("unexpected null time: %+v", got)
	}
	if ToNullTime(nil).Valid {
		t.Fatalf("nil time should be NULL")
	}
	if FromNullTime(sql.NullTime{}) != nil {
		t.Fatalf("NULL should map to nil")
	}
}

func TestMatchRowRoundTrip(t *testing.T) {
	row := dbgen.TournamentMatch{
		ID:             7,
		TournamentID:   3,
		Round:          2,
		MatchNumber:    1,
		Stage:          "knockout",
		Participant1ID: sql.NullInt64{Int64: 11, Valid: true},
		Status:         "pending",
	}

	m := MatchFromRow(row)
	if !m.Participant1.Holds(11) || !m.Participant2.IsEmpty() || !m.Winner.IsEmpty() {
		t.Fatalf("unexpected slots: %+v", m)
	}

	params := CreateMatchParams(m)
	if params.Participant1ID != row.Participant1ID || params.Participant2ID.Valid || params.Round != 2 || params.Stage != "knockout" {
		t.Fatalf("unexpected params: %+v", params)
	}

	m.Status = tournaments.StatusCompleted
	if CreateMatchParams(m).Status != string(tournaments.StatusPending) {
		t.Fatalf("completed matches must be inserted as pending")
	}
}

func TestParticipantFromRow(t *testing.T) {
	p := ParticipantFromRow(dbgen.TournamentParticipant{
		ID:          5,
		PlayerName:  "Anna",
		PartnerName: sql.NullString{String: "Bea", Valid: true},
		GroupNumber: 2,
		Seed:        1,
	})
	if p.DisplayName() != "Anna / Bea" || p.Group != 2 || p.Seed != 1 || p.ID != 5 {
		t.Fatalf("unexpected participant: %+v", p)
	}
}
