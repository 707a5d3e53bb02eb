package game

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/robalobadob/blackwood-mystery/internal/world"
)

func newTestSession(t testing.TB) *Session {
	t.Helper()
	w, err := world.Load("")
	require.NoError(t, err)
	return NewSession(w)
}

// walk moves through the given directions and fails the test on a blocked exit.
func walk(t *testing.T, s *Session, dirs ...world.Direction) {
	t.Helper()
	for _, d := range dirs {
		res := s.Move(d)
		require.Equal(t, OutcomeOK, res.Kind, "move %s: %s", d, res.Message)
	}
}

func TestSession_Start(t *testing.T) {
	s := newTestSession(t)

	res := s.Start()
	assert.Equal(t, OutcomeOK, res.Kind)
	assert.Equal(t, "foyer", res.CurrentLocation)
	assert.False(t, res.GameOver)
	assert.Empty(t, res.KnownFacts)
	assert.True(t, len(res.Message) > len("The mystery begins! "))
	assert.Contains(t, res.Message, "The mystery begins! You stand in the grand foyer of Blackwood Manor.")
}

func TestSession_StartIsIdempotent(t *testing.T) {
	s := newTestSession(t)

	walk(t, s, world.East, world.North)
	s.Examine("desk")
	s.Collect("letter")
	s.Accuse("Lady Victoria", "knife", "greed")

	first := s.Start()
	snap1 := s.Snapshot()
	second := s.Start()
	snap2 := s.Snapshot()

	assert.Equal(t, first, second)
	assert.Equal(t, "foyer", snap2.CurrentLocation)
	assert.Empty(t, snap2.Inventory)
	assert.Empty(t, snap2.KnownFacts)
	assert.False(t, snap2.GameOver)
	assert.Equal(t, 0, snap2.Moves)
	assert.Equal(t, snap1.CurrentLocation, snap2.CurrentLocation)
	assert.Equal(t, snap1.Inventory, snap2.Inventory)
	assert.Equal(t, snap1.KnownFacts, snap2.KnownFacts)
}

func TestSession_Move(t *testing.T) {
	s := newTestSession(t)

	res := s.Move(world.West)
	assert.Equal(t, OutcomeOK, res.Kind)
	assert.Equal(t, "ballroom", res.CurrentLocation)
	assert.Equal(t, "You go west. A vast, empty ballroom. Champagne glasses are scattered on a table. "+
		"A set of muddy footprints leads to the garden door.", res.Message)

	res = s.Move(world.North)
	assert.Equal(t, OutcomeNoExit, res.Kind)
	assert.Equal(t, "You can't go north.", res.Message)
	assert.Equal(t, "ballroom", res.CurrentLocation)

	res = s.Move(world.East)
	assert.Equal(t, "foyer", res.CurrentLocation)
	assert.Equal(t, 2, s.Snapshot().Moves)
}

func TestSession_ExamineRoom(t *testing.T) {
	s := newTestSession(t)

	res := s.Examine(RoomTarget)
	assert.Equal(t, OutcomeOK, res.Kind)
	assert.True(t, strings.HasSuffix(res.Message, "lies on the floor. You see: body."))

	walk(t, s, world.West)
	res = s.Examine(RoomTarget)
	assert.True(t, strings.HasSuffix(res.Message,
		" You see: muddy footprints, champagne glasses. Lady Victoria is also here."), res.Message)
	assert.Empty(t, res.KnownFacts)
}

func TestSession_ExamineItems(t *testing.T) {
	tests := []struct {
		name      string
		path      []world.Direction
		target    string
		wantKind  Outcome
		wantMsg   string
		wantFacts []string
	}{
		{
			name:      "body reveals poisoning",
			target:    "body",
			wantKind:  OutcomeOK,
			wantMsg:   "You examine the body. There are no visible wounds, but you notice a faint, bitter almond smell.",
			wantFacts: []string{"The victim was poisoned."},
		},
		{
			name:      "whiskey glass reveals weapon",
			path:      []world.Direction{world.East},
			target:    "whiskey glass",
			wantKind:  OutcomeOK,
			wantMsg:   "The glass contains whiskey laced with a fast-acting poison. This was the murder weapon.",
			wantFacts: []string{"The weapon was a poisoned whiskey glass."},
		},
		{
			name:      "desk hints at the letter",
			path:      []world.Direction{world.East, world.North},
			target:    "desk",
			wantKind:  OutcomeOK,
			wantMsg:   "You search the desk and find a hidden compartment containing a threatening letter. You should try to 'collect' the 'letter'.",
			wantFacts: []string{},
		},
		{
			name:      "item without clue",
			path:      []world.Direction{world.East},
			target:    "fireplace",
			wantKind:  OutcomeOK,
			wantMsg:   "You examine the fireplace, but find nothing unusual.",
			wantFacts: []string{},
		},
		{
			name:      "item in another room",
			target:    "desk",
			wantKind:  OutcomeNoTarget,
			wantMsg:   "There is no 'desk' to examine here.",
			wantFacts: []string{},
		},
		{
			name:      "clue text without an item",
			path:      []world.Direction{world.East, world.North},
			target:    "letter",
			wantKind:  OutcomeNoTarget,
			wantMsg:   "There is no 'letter' to examine here.",
			wantFacts: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)
			walk(t, s, tt.path...)

			res := s.Examine(tt.target)
			assert.Equal(t, tt.wantKind, res.Kind)
			assert.Equal(t, tt.wantMsg, res.Message)
			assert.Equal(t, tt.wantFacts, res.KnownFacts)
		})
	}
}

func TestSession_ExamineBodyTwiceKeepsOneFact(t *testing.T) {
	s := newTestSession(t)

	s.Examine("body")
	res := s.Examine("body")
	assert.Equal(t, []string{"The victim was poisoned."}, res.KnownFacts)
}

func TestSession_FactsKeepInsertionOrder(t *testing.T) {
	s := newTestSession(t)

	s.Examine("body")
	walk(t, s, world.East)
	s.Examine("whiskey glass")
	walk(t, s, world.North)
	res := s.Collect("letter")

	assert.Equal(t, []string{
		"The victim was poisoned.",
		"The weapon was a poisoned whiskey glass.",
		"The motive was blackmail by Mr. Giles.",
	}, res.KnownFacts)
}

func TestSession_Collect(t *testing.T) {
	s := newTestSession(t)

	res := s.Collect("letter")
	assert.Equal(t, OutcomeCannotCollect, res.Kind)
	assert.Equal(t, "You can't collect 'letter' here.", res.Message)
	assert.Empty(t, s.Snapshot().Inventory)
	assert.Empty(t, res.KnownFacts)

	walk(t, s, world.East, world.North)

	res = s.Collect("papers")
	assert.Equal(t, OutcomeCannotCollect, res.Kind)
	assert.Empty(t, s.Snapshot().Inventory)

	res = s.Collect("letter")
	assert.Equal(t, OutcomeOK, res.Kind)
	assert.Equal(t, "You take the letter. It's a key piece of evidence!", res.Message)
	assert.Equal(t, "study", res.CurrentLocation)
	assert.Equal(t, []string{"The motive was blackmail by Mr. Giles."}, res.KnownFacts)
	assert.Equal(t, []string{"threatening letter"}, s.Snapshot().Inventory)

	// Inventory keeps duplicates; facts do not.
	res = s.Collect("letter")
	assert.Equal(t, OutcomeOK, res.Kind)
	assert.Equal(t, []string{"threatening letter", "threatening letter"}, s.Snapshot().Inventory)
	assert.Len(t, res.KnownFacts, 1)
}

func TestSession_Interrogate(t *testing.T) {
	s := newTestSession(t)

	res := s.Interrogate(world.MrGiles)
	assert.Equal(t, OutcomeSuspectAbsent, res.Kind)
	assert.Equal(t, "Mr. Giles is not in this room.", res.Message)

	walk(t, s, world.East, world.North)
	before := s.Snapshot()

	res = s.Interrogate(world.MrGiles)
	assert.Equal(t, OutcomeOK, res.Kind)
	assert.Equal(t, "You question Mr. Giles. He stands rigidly. 'I was polishing silver in the pantry, sir. "+
		"A terrible tragedy.' (A lie, he was in the study).", res.Message)
	assert.Equal(t, before, s.Snapshot())

	res = s.Interrogate(world.LadyVictoria)
	assert.Equal(t, OutcomeSuspectAbsent, res.Kind)
	assert.Equal(t, before, s.Snapshot())
}

func TestSession_Accuse(t *testing.T) {
	tests := []struct {
		name                   string
		killer, weapon, motive string
		wantKind               Outcome
		wantMsg                string
	}{
		{
			name:     "correct",
			killer:   "Mr. Giles",
			weapon:   "poison",
			motive:   "blackmail",
			wantKind: OutcomeSolved,
			wantMsg: "You lay out the evidence. Mr. Giles confesses! The motive was indeed blackmail, " +
				"and the weapon was poison. You've solved the case! YOU WIN!",
		},
		{
			name: "wrong killer", killer: "Lady Victoria", weapon: "poison", motive: "blackmail",
			wantKind: OutcomeWrongAccusation,
			wantMsg:  "Your accusation is incorrect. The real killer slips away, and the case goes cold. GAME OVER.",
		},
		{
			name: "wrong weapon", killer: "Mr. Giles", weapon: "candlestick", motive: "blackmail",
			wantKind: OutcomeWrongAccusation,
			wantMsg:  "Your accusation is incorrect. The real killer slips away, and the case goes cold. GAME OVER.",
		},
		{
			name: "wrong motive", killer: "Mr. Giles", weapon: "poison", motive: "inheritance",
			wantKind: OutcomeWrongAccusation,
			wantMsg:  "Your accusation is incorrect. The real killer slips away, and the case goes cold. GAME OVER.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)
			res := s.Accuse(tt.killer, tt.weapon, tt.motive)
			assert.Equal(t, tt.wantKind, res.Kind)
			assert.Equal(t, tt.wantMsg, res.Message)
			assert.True(t, res.GameOver)
		})
	}
}

func TestSession_CaseClosedGuard(t *testing.T) {
	s := newTestSession(t)
	s.Examine("body")
	s.Accuse("Mr. Giles", "poison", "blackmail")
	closed := s.Snapshot()

	results := []Result{
		s.Move(world.East),
		s.Examine("body"),
		s.Examine(RoomTarget),
		s.Collect("letter"),
		s.Interrogate(world.MrGiles),
		s.Accuse("Lady Victoria", "poison", "blackmail"),
	}
	for _, res := range results {
		assert.Equal(t, OutcomeCaseClosed, res.Kind)
		assert.Equal(t, caseClosedMessage, res.Message)
		assert.True(t, res.GameOver)
		assert.Equal(t, "foyer", res.CurrentLocation)
		assert.Equal(t, []string{"The victim was poisoned."}, res.KnownFacts)
	}
	assert.Equal(t, closed, s.Snapshot())

	res := s.Start()
	assert.Equal(t, OutcomeOK, res.Kind)
	assert.False(t, res.GameOver)
}

func TestSession_VerdictObserver(t *testing.T) {
	s := newTestSession(t)
	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return clock }
	s.Start()

	var got []Verdict
	s.OnVerdict(func(v Verdict) { got = append(got, v) })

	s.Examine("body")
	walk(t, s, world.East, world.North)
	s.Collect("letter")
	clock = clock.Add(90 * time.Second)
	s.Accuse("Mr. Giles", "poison", "blackmail")
	s.Accuse("Mr. Giles", "poison", "blackmail") // closed: not reported

	require.Len(t, got, 1)
	v := got[0]
	assert.Len(t, v.ID, 16)
	assert.True(t, v.Solved)
	assert.Equal(t, "Mr. Giles", v.Killer)
	assert.Equal(t, 2, v.FactsFound)
	assert.Equal(t, 2, v.Moves)
	assert.Equal(t, int64(90000), v.ElapsedMs)
	assert.Equal(t, clock, v.ClosedAt)
}

func TestSession_ConcurrentMoves(t *testing.T) {
	s := newTestSession(t)
	w, _ := world.Load("")
	valid := map[string]bool{}
	for _, id := range w.RoomIDs() {
		valid[id] = true
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dir := world.Directions[i%len(world.Directions)]
			res := s.Move(dir)
			assert.True(t, valid[res.CurrentLocation], res.CurrentLocation)
			s.Examine(RoomTarget)
		}(i)
	}
	wg.Wait()
	assert.True(t, valid[s.Snapshot().CurrentLocation])
}

// Every move either follows an exit of the previous room or leaves the
// location unchanged.
func TestSession_MovesFollowExits(t *testing.T) {
	w, err := world.Load("")
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		s := NewSession(w)
		dirs := rapid.SliceOf(rapid.SampledFrom(world.Directions)).Draw(t, "dirs")

		prev := s.Snapshot().CurrentLocation
		for _, d := range dirs {
			room, ok := w.Room(prev)
			if !ok {
				t.Fatalf("location %q is not a room", prev)
			}
			res := s.Move(d)
			if dest, ok := room.Exits[d]; ok {
				if res.Kind != OutcomeOK || res.CurrentLocation != dest {
					t.Fatalf("move %s from %s: got %s (%s), want %s", d, prev, res.CurrentLocation, res.Kind, dest)
				}
			} else if res.Kind != OutcomeNoExit || res.CurrentLocation != prev {
				t.Fatalf("blocked move %s from %s changed location to %s", d, prev, res.CurrentLocation)
			}
			prev = res.CurrentLocation
		}
	})
}
