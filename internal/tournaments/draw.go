package tournaments

import (
	"errors"
	"fmt"
)

var ErrSlotOutOfRange = errors.New("draw slot out of range")

// SlotAddress points at one side of a first-round match in a draw. Match is
// 0-based.
type SlotAddress struct {
	Match int  `json:"match"`
	Side  Side `json:"side"`
}

// Draw is a hand-built first round. A participant occupies at most one slot:
// placing them somewhere new vacates their previous slot.
type Draw struct {
	matches  int
	slots    map[SlotAddress]ParticipantID
	location map[ParticipantID]SlotAddress
}

func NewDraw(matches int) *Draw {
	return &Draw{
		matches:  matches,
		slots:    make(map[SlotAddress]ParticipantID),
		location: make(map[ParticipantID]SlotAddress),
	}
}

// NewDrawFromPairings seeds a draw with an existing first round.
func NewDrawFromPairings(pairings []Pairing) (*Draw, error) {
	d := NewDraw(len(pairings))
	for idx, pairing := range pairings {
		for _, side := range []Side{SideParticipant1, SideParticipant2} {
			slot := pairing.Participant1
			if side == SideParticipant2 {
				slot = pairing.Participant2
			}
			id, ok := slot.ID()
			if !ok {
				continue
			}
			if _, placed := d.location[id]; placed {
				return nil, fmt.Errorf("%w: participant %d placed twice", ErrInvalidPairings, id)
			}
			if err := d.Place(SlotAddress{Match: idx, Side: side}, id); err != nil {
				return nil, err
			}
		}
	}
	return d, nil
}

func (d *Draw) Matches() int {
	return d.matches
}

func (d *Draw) valid(addr SlotAddress) bool {
	if addr.Match < 0 || addr.Match >= d.matches {
		return false
	}
	return addr.Side == SideParticipant1 || addr.Side == SideParticipant2
}

// Place puts id at addr, removing id from wherever it sat before and
// displacing whoever held addr.
func (d *Draw) Place(addr SlotAddress, id ParticipantID) error {
	if !d.valid(addr) {
		return fmt.Errorf("%w: match %d %s", ErrSlotOutOfRange, addr.Match+1, addr.Side)
	}
	if prev, ok := d.location[id]; ok {
		delete(d.slots, prev)
	}
	if occupant, ok := d.slots[addr]; ok {
		delete(d.location, occupant)
	}
	d.slots[addr] = id
	d.location[id] = addr
	return nil
}

func (d *Draw) Clear(addr SlotAddress) {
	if occupant, ok := d.slots[addr]; ok {
		delete(d.location, occupant)
		delete(d.slots, addr)
	}
}

func (d *Draw) Remove(id ParticipantID) {
	if addr, ok := d.location[id]; ok {
		delete(d.slots, addr)
		delete(d.location, id)
	}
}

func (d *Draw) At(addr SlotAddress) Slot {
	if id, ok := d.slots[addr]; ok {
		return Occupied(id)
	}
	return EmptySlot()
}

func (d *Draw) Location(id ParticipantID) (SlotAddress, bool) {
	addr, ok := d.location[id]
	return addr, ok
}

// Unplaced lists participants without a slot, in input order.
func (d *Draw) Unplaced(participants []Participant) []Participant {
	var out []Participant
	for _, participant := range participants {
		if _, ok := d.location[participant.ID]; !ok {
			out = append(out, participant)
		}
	}
	return out
}

func (d *Draw) Pairings() []Pairing {
	pairings := make([]Pairing, d.matches)
	for i := range pairings {
		pairings[i] = Pairing{
			Participant1: d.At(SlotAddress{Match: i, Side: SideParticipant1}),
			Participant2: d.At(SlotAddress{Match: i, Side: SideParticipant2}),
		}
	}
	return pairings
}
