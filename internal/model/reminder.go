package model

import (
	"errors"
	"fmt"
)

var ErrInvalidReminderTransition = errors.New("model: invalid reminder transition")

type ReminderState string

const (
	ReminderUnarmed ReminderState = "Unarmed"
	ReminderArmed   ReminderState = "Armed"
	ReminderFired   ReminderState = "Fired"
)

func (s ReminderState) IsValid() bool {
	switch s {
	case ReminderUnarmed, ReminderArmed, ReminderFired:
		return true
	default:
		return false
	}
}

// Transition checks a single step of Unarmed -> Armed -> Fired.
// Fired is terminal.
func (s ReminderState) Transition(to ReminderState) (ReminderState, error) {
	if !to.IsValid() {
		return s, fmt.Errorf("%w: %q", ErrInvalidReminderTransition, to)
	}
	switch {
	case s == ReminderUnarmed && to == ReminderArmed:
		return to, nil
	case s == ReminderArmed && to == ReminderFired:
		return to, nil
	default:
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidReminderTransition, s, to)
	}
}
