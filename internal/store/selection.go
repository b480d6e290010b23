package store

const ActionSetID = "select/setId"

// SelectionState guarda el id del animal elegido en el listado.
type SelectionState struct {
	ID string
}

func SetID(id string) Action { return Action{Type: ActionSetID, Payload: id} }

func SelectionReducer(s SelectionState, a Action) SelectionState {
	if a.Type != ActionSetID {
		return s
	}
	if id, ok := a.Payload.(string); ok {
		s.ID = id
	}
	return s
}
