package tournaments

import (
	"errors"
	"testing"
)

func TestDrawPlaceMovesParticipant(t *testing.T) {
	d := NewDraw(2)
	first := SlotAddress{Match: 0, Side: SideParticipant1}
	second := SlotAddress{Match: 1, Side: SideParticipant2}

	if err := d.Place(first, 5); err != nil {
		t.Fatalf("place: %v", err)
	}
	if err := d.Place(second, 5); err != nil {
		t.Fatalf("move: %v", err)
	}

	if !d.At(first).IsEmpty() {
		t.Fatalf("expected previous slot to be vacated")
	}
	if !d.At(second).Holds(5) {
		t.Fatalf("expected participant in new slot")
	}
	if addr, ok := d.Location(5); !ok || addr != second {
		t.Fatalf("unexpected location: %+v %v", addr, ok)
	}
}

func TestDrawPlaceDisplacesOccupant(t *testing.T) {
	d := NewDraw(1)
	addr := SlotAddress{Match: 0, Side: SideParticipant1}

	_ = d.Place(addr, 1)
	_ = d.Place(addr, 2)

	if !d.At(addr).Holds(2) {
		t.Fatalf("expected participant 2 in slot")
	}
	if _, ok := d.Location(1); ok {
		t.Fatalf("displaced participant should be unplaced")
	}
	unplaced := d.Unplaced([]Participant{{ID: 1}, {ID: 2}, {ID: 3}})
	if len(unplaced) != 2 || unplaced[0].ID != 1 || unplaced[1].ID != 3 {
		t.Fatalf("unexpected unplaced list: %+v", unplaced)
	}
}

func TestDrawRejectsOutOfRange(t *testing.T) {
	d := NewDraw(2)
	for _, addr := range []SlotAddress{
		{Match: -1, Side: SideParticipant1},
		{Match: 2, Side: SideParticipant1},
		{Match: 0, Side: Side("left")},
	} {
		if err := d.Place(addr, 1); !errors.Is(err, ErrSlotOutOfRange) {
			t.Fatalf("%+v: expected ErrSlotOutOfRange, got %v", addr, err)
		}
	}
}

func TestDrawPairingsRoundTrip(t *testing.T) {
	d := NewDraw(2)
	_ = d.Place(SlotAddress{Match: 0, Side: SideParticipant1}, 1)
	_ = d.Place(SlotAddress{Match: 0, Side: SideParticipant2}, 2)
	_ = d.Place(SlotAddress{Match: 1, Side: SideParticipant1}, 3)
	d.Clear(SlotAddress{Match: 0, Side: SideParticipant2})
	_ = d.Place(SlotAddress{Match: 1, Side: SideParticipant2}, 2)
	d.Remove(3)
	_ = d.Place(SlotAddress{Match: 0, Side: SideParticipant2}, 3)

	pairings := d.Pairings()
	if !pairings[0].Participant1.Holds(1) || !pairings[0].Participant2.Holds(3) {
		t.Fatalf("unexpected match 1: %+v", pairings[0])
	}
	if !pairings[1].Participant1.IsEmpty() || !pairings[1].Participant2.Holds(2) {
		t.Fatalf("unexpected match 2: %+v", pairings[1])
	}

	rebuilt, err := NewDrawFromPairings(pairings)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if addr, ok := rebuilt.Location(2); !ok || addr.Match != 1 || addr.Side != SideParticipant2 {
		t.Fatalf("unexpected location after rebuild: %+v", addr)
	}

	matches, err := GenerateFromPairings(1, pairings)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
}

func TestNewDrawFromPairingsRejectsDuplicates(t *testing.T) {
	_, err := NewDrawFromPairings([]Pairing{
		{Participant1: Occupied(1), Participant2: Occupied(2)},
		{Participant1: Occupied(1)},
	})
	if !errors.Is(err, ErrInvalidPairings) {
		t.Fatalf("expected ErrInvalidPairings, got %v", err)
	}
}
