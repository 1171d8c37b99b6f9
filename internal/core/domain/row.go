package domain

// RowState is the per-row position in the edit lifecycle.
type RowState string

const (
	RowViewing  RowState = "viewing"
	RowEditing  RowState = "editing"
	RowSaving   RowState = "saving"
	RowDeleting RowState = "deleting"
)

// validRowTransitions defines the allowed row state machine transitions.
// Saving and Deleting return to the state they came from on failure.
var validRowTransitions = map[RowState][]RowState{
	RowViewing:  {RowEditing, RowDeleting},
	RowEditing:  {RowViewing, RowSaving, RowDeleting},
	RowSaving:   {RowViewing, RowEditing},
	RowDeleting: {RowViewing, RowEditing},
}

// CanTransitionTo reports whether a row may move from s to next.
func (s RowState) CanTransitionTo(next RowState) bool {
	for _, allowed := range validRowTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
