// internal/game/types.go
//
// Core type definitions for the mystery session.
// Defines:
//   - Outcome: the kind of result an action produced.
//   - Result: the uniform record every action returns.
//   - Snapshot: a read-only view of the whole session.
//   - Verdict: the record of a closed case, handed to an Observer.

package game

import "time"

// Outcome classifies the result of an action.
// Failures are reported in-band; an Outcome never aborts the session.
type Outcome string

const (
	OutcomeOK              Outcome = "ok"
	OutcomeNoExit          Outcome = "no_exit"
	OutcomeNoTarget        Outcome = "no_target"
	OutcomeCannotCollect   Outcome = "cannot_collect"
	OutcomeSuspectAbsent   Outcome = "suspect_absent"
	OutcomeSolved          Outcome = "solved"
	OutcomeWrongAccusation Outcome = "wrong_accusation"
	OutcomeCaseClosed      Outcome = "case_closed"
)

// Result is returned by every session action.
type Result struct {
	Kind            Outcome  `json:"kind"`
	Message         string   `json:"message"`
	KnownFacts      []string `json:"known_facts"`
	CurrentLocation string   `json:"current_location"`
	GameOver        bool     `json:"game_over"`
}

// Snapshot is a copy of the session state at one point in time.
type Snapshot struct {
	CurrentLocation string    `json:"current_location"`
	Inventory       []string  `json:"inventory"`
	KnownFacts      []string  `json:"known_facts"`
	GameOver        bool      `json:"game_over"`
	Moves           int       `json:"moves"`
	StartedAt       time.Time `json:"started_at"`
}

// Verdict records how a case was closed.
type Verdict struct {
	ID         string    `json:"id"`
	Killer     string    `json:"killer"`
	Weapon     string    `json:"weapon"`
	Motive     string    `json:"motive"`
	Solved     bool      `json:"solved"`
	FactsFound int       `json:"facts_found"`
	Moves      int       `json:"moves"`
	ElapsedMs  int64     `json:"elapsed_ms"`
	ClosedAt   time.Time `json:"closed_at"`
}

// Observer is notified after every accusation, outside the session lock.
type Observer func(Verdict)
