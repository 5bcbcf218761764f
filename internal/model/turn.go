package model

// Role identifies the author of a conversation message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation history
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// TurnRequest is the input of one conversation turn. History is owned by
// the caller and is never mutated.
type TurnRequest struct {
	Message               string    `json:"message"`
	History               []Message `json:"history,omitempty"`
	City                  string    `json:"city,omitempty"`                   // Empty skips the hotel fetch
	RecommendationRequest bool      `json:"recommendation_request,omitempty"` // User asked for hotels or prices
}

// LoopState is a state of the self-correction loop
type LoopState string

const (
	StateDrafting   LoopState = "drafting"
	StateValidating LoopState = "validating"
	StateCorrecting LoopState = "correcting"
	StateAccepted   LoopState = "accepted"
	StateExhausted  LoopState = "exhausted"
)

// Terminal reports whether the loop stops in this state
func (s LoopState) Terminal() bool {
	return s == StateAccepted || s == StateExhausted
}

// TurnResult is the outcome of one conversation turn
type TurnResult struct {
	TurnID      string              `json:"turn_id"`
	FinalClaim  Claim               `json:"final_claim"`
	Validated   bool                `json:"validated"`
	Attempts    int                 `json:"attempts"`
	Disclosure  *string             `json:"disclosure,omitempty"` // Set when retries were exhausted
	State       LoopState           `json:"state"`
	Report      Report              `json:"report"` // Report of the final claim
	Summary     Summary             `json:"summary"`
	GroundTruth GroundTruth         `json:"ground_truth"`
	AttemptLog  []CorrectionAttempt `json:"attempt_log,omitempty"`
	History     []Message           `json:"history"` // Input history plus this turn
}
