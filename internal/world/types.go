// internal/world/types.go
//
// Closed vocabularies of the case: movement directions and suspects.
// Both are parsed at the transport boundary so the game session only ever
// sees known values.

package world

import (
	"errors"
	"strings"
)

var (
	// ErrUnknownDirection is returned by ParseDirection for tokens outside the compass set.
	ErrUnknownDirection = errors.New("unknown direction")
	// ErrUnknownSuspect is returned by ParseSuspect for names outside the cast.
	ErrUnknownSuspect = errors.New("unknown suspect")
)

// Direction is one of the four cardinal movement tokens.
type Direction string

const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
)

// Directions lists every valid Direction.
var Directions = []Direction{North, South, East, West}

// ParseDirection normalizes s and maps it onto a Direction.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", ErrUnknownDirection
	}
	return d, nil
}

// Valid reports whether d is one of the four cardinal directions.
func (d Direction) Valid() bool {
	switch d {
	case North, South, East, West:
		return true
	}
	return false
}

// Suspect identifies a member of the cast who can be interrogated.
type Suspect string

const (
	LadyVictoria Suspect = "Lady Victoria"
	MrGiles      Suspect = "Mr. Giles"
)

// Suspects lists every valid Suspect.
var Suspects = []Suspect{LadyVictoria, MrGiles}

// ParseSuspect matches s against the cast, ignoring case and surrounding space.
func ParseSuspect(s string) (Suspect, error) {
	s = strings.TrimSpace(s)
	for _, sus := range Suspects {
		if strings.EqualFold(s, string(sus)) {
			return sus, nil
		}
	}
	return "", ErrUnknownSuspect
}

// Valid reports whether s belongs to the cast.
func (s Suspect) Valid() bool {
	for _, sus := range Suspects {
		if s == sus {
			return true
		}
	}
	return false
}

// Room is a node of the crime-scene graph.
type Room struct {
	ID          string
	Description string
	Exits       map[Direction]string // direction -> destination room ID
	Items       []string
	Suspects    []Suspect
}

// HasItem reports whether item is present in the room.
func (r Room) HasItem(item string) bool {
	for _, it := range r.Items {
		if it == item {
			return true
		}
	}
	return false
}

// HasSuspect reports whether s is present in the room.
func (r Room) HasSuspect(s Suspect) bool {
	for _, sus := range r.Suspects {
		if sus == s {
			return true
		}
	}
	return false
}

// Solution is the hidden answer checked by an accusation.
type Solution struct {
	Killer string
	Weapon string
	Motive string
}

// Matches reports exact equality on all three components.
func (s Solution) Matches(killer, weapon, motive string) bool {
	return killer == s.Killer && weapon == s.Weapon && motive == s.Motive
}

// Collectible describes a piece of evidence the player can pick up.
// It can only be collected in a room that holds RequiresItem.
type Collectible struct {
	ID           string
	RequiresItem string
	Inventory    string // entry appended to the player's inventory
	Fact         string // fact added to the known facts
	Message      string
}
