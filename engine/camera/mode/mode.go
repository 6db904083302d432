// Package mode defines the camera navigation modes shared by the camera
// implementations, the event payloads and the input listeners.
package mode

import (
	"fmt"
	"strings"
)

// Mode is the active camera navigation mode. Exactly one mode is active at a time.
type Mode uint8

const (
	// Free is unconstrained flight driven by forces and yaw/pitch/roll.
	Free Mode = iota
	// Focus orbits and tracks a focus object.
	Focus
	// Game is free flight with walking controls and pseudo-gravity.
	Game
	// Spacecraft follows a simulated spacecraft.
	Spacecraft
)

// IsFree reports whether m is Free.
func (m Mode) IsFree() bool { return m == Free }

// IsFocus reports whether m is Focus.
func (m Mode) IsFocus() bool { return m == Focus }

// IsGame reports whether m is Game.
func (m Mode) IsGame() bool { return m == Game }

// IsSpacecraft reports whether m is Spacecraft.
func (m Mode) IsSpacecraft() bool { return m == Spacecraft }

// UseFocus reports whether speed scaling should use the focus object.
func (m Mode) UseFocus() bool { return m == Focus }

// UseClosest reports whether speed scaling should use the closest object.
func (m Mode) UseClosest() bool { return m == Free || m == Game }

// IsNatural reports whether m is served by the natural camera.
func (m Mode) IsNatural() bool { return m == Free || m == Focus || m == Game }

func (m Mode) String() string {
	switch m {
	case Free:
		return "free"
	case Focus:
		return "focus"
	case Game:
		return "game"
	case Spacecraft:
		return "spacecraft"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// Parse converts a mode name (case-insensitive) into a Mode.
//
// Parameters:
//   - s: the mode name ("free", "focus", "game" or "spacecraft")
//
// Returns:
//   - Mode: the parsed mode
//   - error: non-nil if the name is unknown
func Parse(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "free":
		return Free, nil
	case "focus":
		return Focus, nil
	case "game":
		return Game, nil
	case "spacecraft":
		return Spacecraft, nil
	}
	return Free, fmt.Errorf("unknown camera mode %q", s)
}

// Provider exposes the currently active mode without giving access to the
// component that owns the mode selection.
type Provider interface {
	Mode() Mode
}
