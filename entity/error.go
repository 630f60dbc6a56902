package entity

import "fmt"

// WrongGeneration is returned by Kill/KillAtomic when the entity's
// generation does not match the slot's current generation — the caller is
// holding a stale Entity token.
type WrongGeneration struct {
	Action    string
	Entity    Entity
	ActualGen Generation
}

func (e *WrongGeneration) Error() string {
	return fmt.Sprintf("entity: cannot %s %s: slot is at %s", e.Action, e.Entity, e.ActualGen)
}
