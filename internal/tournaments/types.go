// Package tournaments builds match schedules for club tournaments and derives
// standings and bracket progression from reported results. Everything here is
// pure: callers load rows, pass them in, and persist what comes back.
package tournaments

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type ParticipantID int64

type Format string

const (
	FormatRoundRobin        Format = "round_robin"
	FormatSingleElimination Format = "single_elimination"
	FormatGroupKnockout     Format = "group_knockout"
)

func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case FormatRoundRobin, FormatSingleElimination, FormatGroupKnockout:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported tournament format %q", raw)
	}
}

type Stage string

const (
	StageGroup    Stage = "group"
	StageKnockout Stage = "knockout"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Slot is one side of a match: either empty or occupied by a participant.
type Slot struct {
	id       ParticipantID
	occupied bool
}

func EmptySlot() Slot {
	return Slot{}
}

func Occupied(id ParticipantID) Slot {
	return Slot{id: id, occupied: true}
}

func (s Slot) ID() (ParticipantID, bool) {
	return s.id, s.occupied
}

func (s Slot) IsEmpty() bool {
	return !s.occupied
}

func (s Slot) Holds(id ParticipantID) bool {
	return s.occupied && s.id == id
}

func (s Slot) String() string {
	if !s.occupied {
		return "empty"
	}
	return fmt.Sprintf("participant %d", s.id)
}

func (s Slot) MarshalJSON() ([]byte, error) {
	if !s.occupied {
		return []byte("null"), nil
	}
	return json.Marshal(int64(s.id))
}

func (s *Slot) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = EmptySlot()
		return nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("slot must be a participant id or null: %w", err)
	}
	*s = Occupied(ParticipantID(id))
	return nil
}

type Participant struct {
	ID    ParticipantID `json:"id"`
	Names []string      `json:"names"`
	// Group is 1-based; zero means unassigned.
	Group int `json:"group,omitempty"`
	// Seed is 1-based, lower is stronger; zero means unseeded.
	Seed  int    `json:"seed,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// DisplayName joins a player and partner for doubles entries.
func (p Participant) DisplayName() string {
	parts := make([]string, 0, len(p.Names))
	for _, name := range p.Names {
		if name = strings.TrimSpace(name); name != "" {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("Participant %d", p.ID)
	}
	return strings.Join(parts, " / ")
}

type Match struct {
	ID           int64      `json:"id"`
	TournamentID int64      `json:"tournamentId"`
	Round        int        `json:"round"`
	MatchNumber  int        `json:"matchNumber"`
	Stage        Stage      `json:"stage"`
	Group        int        `json:"group,omitempty"`
	Participant1 Slot       `json:"participant1Id"`
	Participant2 Slot       `json:"participant2Id"`
	Score        string     `json:"score,omitempty"`
	Winner       Slot       `json:"winnerId"`
	Status       Status     `json:"status"`
	ScheduledAt  *time.Time `json:"scheduledAt,omitempty"`
}

// Slot returns the slot on the given side.
func (m Match) Slot(side Side) Slot {
	if side == SideParticipant2 {
		return m.Participant2
	}
	return m.Participant1
}

func (m *Match) setSlot(side Side, slot Slot) {
	if side == SideParticipant2 {
		m.Participant2 = slot
		return
	}
	m.Participant1 = slot
}

type Side string

const (
	SideParticipant1 Side = "participant1"
	SideParticipant2 Side = "participant2"
)

func ParseSide(raw string) (Side, error) {
	switch s := Side(strings.ToLower(strings.TrimSpace(raw))); s {
	case SideParticipant1, SideParticipant2:
		return s, nil
	default:
		return "", fmt.Errorf("unknown slot side %q", raw)
	}
}
