// internal/game/session.go
//
// The mystery session state machine.
// Responsibilities:
//   - Track the current room, inventory, known facts and the game-over flag.
//   - Apply the six player actions against the read-only world.
//   - Close the case on the first accusation, right or wrong.
//
// Notes:
//   - Every action runs under one mutex so concurrent callers never observe
//     or produce a half-applied update.
//   - Once the case is closed, every action except Start answers with
//     OutcomeCaseClosed and leaves the state untouched.
//   - Known facts keep insertion order; adding an existing fact is a no-op.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robalobadob/blackwood-mystery/internal/world"
)

// RoomTarget is the examine target that describes the current room.
const RoomTarget = "room"

const caseClosedMessage = "The case is closed. Start a new game to investigate again."

// Session is the single mutable game record.
type Session struct {
	mu       sync.Mutex
	world    *world.World
	now      func() time.Time
	observer Observer

	location  string
	inventory []string
	facts     []string
	factSet   map[string]struct{}
	over      bool
	moves     int
	startedAt time.Time
}

// NewSession creates an active session positioned in the world's start room.
func NewSession(w *world.World) *Session {
	s := &Session{world: w, now: time.Now}
	s.reset()
	return s
}

// OnVerdict registers fn to be called after each accusation.
func (s *Session) OnVerdict(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = fn
}

// reset restores the default state. Caller holds mu (or owns s exclusively).
func (s *Session) reset() {
	s.location = s.world.StartRoom()
	s.inventory = []string{}
	s.facts = []string{}
	s.factSet = make(map[string]struct{})
	s.over = false
	s.moves = 0
	s.startedAt = s.now()
}

// Start resets the session and describes the starting room.
func (s *Session) Start() Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	room := s.currentRoom()
	return s.result(OutcomeOK, "The mystery begins! "+room.Description)
}

// Move walks through the exit in direction dir, if the current room has one.
func (s *Session) Move(dir world.Direction) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.over {
		return s.result(OutcomeCaseClosed, caseClosedMessage)
	}
	room := s.currentRoom()
	dest, ok := room.Exits[dir]
	if !ok {
		return s.result(OutcomeNoExit, fmt.Sprintf("You can't go %s.", dir))
	}
	s.location = dest
	s.moves++
	next := s.currentRoom()
	return s.result(OutcomeOK, fmt.Sprintf("You go %s. %s", dir, next.Description))
}

// Examine describes the room (target "room") or an item present in it.
// Items listed in the world's fact table add their fact to the known facts.
func (s *Session) Examine(target string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.over {
		return s.result(OutcomeCaseClosed, caseClosedMessage)
	}
	room := s.currentRoom()

	switch {
	case target == RoomTarget:
		return s.result(OutcomeOK, describeRoom(room))

	case room.HasItem(target):
		msg, ok := s.world.Clue(target)
		if !ok {
			msg = fmt.Sprintf("You examine the %s, but find nothing unusual.", target)
		}
		if fact, ok := s.world.ItemFact(target); ok {
			s.addFact(fact)
		}
		if hint, ok := s.world.ItemHint(target); ok {
			msg += hint
		}
		return s.result(OutcomeOK, msg)

	default:
		return s.result(OutcomeNoTarget, fmt.Sprintf("There is no '%s' to examine here.", target))
	}
}

// Collect picks up a collectible when the current room holds the item it requires.
func (s *Session) Collect(clue string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.over {
		return s.result(OutcomeCaseClosed, caseClosedMessage)
	}
	room := s.currentRoom()
	c, ok := s.world.Collectible(clue)
	if !ok || !room.HasItem(c.RequiresItem) {
		return s.result(OutcomeCannotCollect, fmt.Sprintf("You can't collect '%s' here.", clue))
	}
	s.inventory = append(s.inventory, c.Inventory)
	if c.Fact != "" {
		s.addFact(c.Fact)
	}
	msg := c.Message
	if msg == "" {
		msg = fmt.Sprintf("You take the %s.", c.ID)
	}
	return s.result(OutcomeOK, msg)
}

// Interrogate questions a suspect standing in the current room.
// Responses are narration only and never add facts.
func (s *Session) Interrogate(suspect world.Suspect) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.over {
		return s.result(OutcomeCaseClosed, caseClosedMessage)
	}
	room := s.currentRoom()
	if !room.HasSuspect(suspect) {
		return s.result(OutcomeSuspectAbsent, fmt.Sprintf("%s is not in this room.", suspect))
	}
	text, _ := s.world.Interrogation(suspect)
	return s.result(OutcomeOK, fmt.Sprintf("You question %s. %s", suspect, text))
}

// Accuse compares the accusation with the solution and closes the case
// whatever the outcome.
func (s *Session) Accuse(killer, weapon, motive string) Result {
	s.mu.Lock()
	if s.over {
		res := s.result(OutcomeCaseClosed, caseClosedMessage)
		s.mu.Unlock()
		return res
	}

	solved := s.world.Solution().Matches(killer, weapon, motive)
	s.over = true

	var res Result
	if solved {
		res = s.result(OutcomeSolved, fmt.Sprintf(
			"You lay out the evidence. %s confesses! The motive was indeed %s, and the weapon was %s. You've solved the case! YOU WIN!",
			killer, motive, weapon))
	} else {
		res = s.result(OutcomeWrongAccusation,
			"Your accusation is incorrect. The real killer slips away, and the case goes cold. GAME OVER.")
	}

	closedAt := s.now()
	v := Verdict{
		ID:         randomID(),
		Killer:     killer,
		Weapon:     weapon,
		Motive:     motive,
		Solved:     solved,
		FactsFound: len(s.facts),
		Moves:      s.moves,
		ElapsedMs:  closedAt.Sub(s.startedAt).Milliseconds(),
		ClosedAt:   closedAt.UTC(),
	}
	obs := s.observer
	s.mu.Unlock()

	if obs != nil {
		obs(v)
	}
	return res
}

// Snapshot returns a copy of the full session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		CurrentLocation: s.location,
		Inventory:       append([]string{}, s.inventory...),
		KnownFacts:      append([]string{}, s.facts...),
		GameOver:        s.over,
		Moves:           s.moves,
		StartedAt:       s.startedAt,
	}
}

// currentRoom looks up the room the player stands in. The location always
// comes from the start room or a validated exit, so the lookup cannot miss.
func (s *Session) currentRoom() world.Room {
	room, _ := s.world.Room(s.location)
	return room
}

func (s *Session) addFact(f string) {
	if _, ok := s.factSet[f]; ok {
		return
	}
	s.factSet[f] = struct{}{}
	s.facts = append(s.facts, f)
}

// result builds a Result from the current state. Caller holds mu.
func (s *Session) result(kind Outcome, msg string) Result {
	return Result{
		Kind:            kind,
		Message:         msg,
		KnownFacts:      append([]string{}, s.facts...),
		CurrentLocation: s.location,
		GameOver:        s.over,
	}
}

// describeRoom renders the room description followed by its items and suspects.
func describeRoom(r world.Room) string {
	var b strings.Builder
	b.WriteString(r.Description)
	if len(r.Items) > 0 {
		fmt.Fprintf(&b, " You see: %s.", strings.Join(r.Items, ", "))
	}
	if len(r.Suspects) > 0 {
		names := make([]string, len(r.Suspects))
		for i, sus := range r.Suspects {
			names[i] = string(sus)
		}
		fmt.Fprintf(&b, " %s is also here.", strings.Join(names, ", "))
	}
	return b.String()
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
