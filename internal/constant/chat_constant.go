package constant

const (
	ChatMessageRoleUser   = "user"
	ChatMessageRoleModel  = "model"
	ChatMessageRoleSystem = "system"

	// NoContextMarker replaces the context block when retrieval returns
	// nothing, so the model is told explicitly there is nothing to cite.
	NoContextMarker = "NO RELEVANT CONTEXT WAS FOUND IN THIS NOTEBOOK."
)
