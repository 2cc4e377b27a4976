package models

// The types below are the fixed JSON contract of the remote engine.

// ActionsResponse is the body of GET /api/actions.
type ActionsResponse struct {
	Actions []ActionOption `json:"actions"`
}

// ApplyActionRequest is the body of POST /api/apply_action.
type ApplyActionRequest struct {
	ActionID string         `json:"action_id"`
	Params   map[string]any `json:"params"`
}

// ApplyActionResponse is the body returned by POST /api/apply_action.
type ApplyActionResponse struct {
	VisibleState VisibleState `json:"visible_state"`
	ActionResult ActionResult `json:"action_result"`
}

// ResetRequest is the body of POST /api/reset. CrimeType and Scenario are optional; a set CrimeType
// replaces the crime type of the scenario.
type ResetRequest struct {
	Seed      int    `json:"seed"`
	CrimeType string `json:"crime_type,omitempty"`
	Scenario  string `json:"scenario,omitempty"`
}
