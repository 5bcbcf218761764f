package model

import "fmt"

// IssueKind classifies a validation finding
type IssueKind string

const (
	IssueGroundingMismatch IssueKind = "grounding_mismatch" // Claimed fact differs from ground truth
	IssueDuplicate         IssueKind = "duplicate"          // Same hotel listed twice
	IssueInvalidValue      IssueKind = "invalid_value"      // Value outside its domain or self-contradicting
	IssueImplausible       IssueKind = "implausible"        // Suspicious but possible value
	IssueUnusedData        IssueKind = "unused_data"        // Records available but ignored
	IssueListingOnly       IssueKind = "listing_only"       // Hotels listed without synthesis
)

// IssueKinds lists every kind in checker order
var IssueKinds = []IssueKind{
	IssueGroundingMismatch,
	IssueDuplicate,
	IssueInvalidValue,
	IssueImplausible,
	IssueUnusedData,
	IssueListingOnly,
}

// Issue is a single validation finding
type Issue struct {
	Kind        IssueKind `json:"kind"`
	Checker     string    `json:"checker"`                // Which checker produced it
	Field       string    `json:"field"`                  // name, price, rating, narrative, ...
	Hotel       string    `json:"hotel,omitempty"`        // Claimed hotel name, if any
	Claimed     string    `json:"claimed,omitempty"`      // Claimed value, formatted
	GroundTruth *string   `json:"ground_truth,omitempty"` // Ground-truth value, when known
	Message     string    `json:"message"`
	Advisory    bool      `json:"advisory,omitempty"` // Never marks a hotel unverified on its own
}

// String renders the issue as one line for prompts and logs
func (i Issue) String() string {
	s := fmt.Sprintf("[%s] %s", i.Kind, i.Message)
	if i.Hotel != "" {
		s = fmt.Sprintf("[%s] %s (%s): %s", i.Kind, i.Hotel, i.Field, i.Message)
	}
	if i.GroundTruth != nil {
		s += fmt.Sprintf(" (claimed %q, source data says %q)", i.Claimed, *i.GroundTruth)
	}
	return s
}

// Report is the ordered list of findings for one claim.
// An empty report means the claim is acceptable.
type Report struct {
	Issues []Issue `json:"issues"`
}

// Empty reports whether the claim passed every check
func (r Report) Empty() bool {
	return len(r.Issues) == 0
}

// Blocking returns the non-advisory issues
func (r Report) Blocking() []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if !i.Advisory {
			out = append(out, i)
		}
	}
	return out
}

// CountByKind counts issues per kind
func (r Report) CountByKind() map[IssueKind]int {
	counts := make(map[IssueKind]int)
	for _, i := range r.Issues {
		counts[i.Kind]++
	}
	return counts
}

// HotelsWithBlockingIssues returns the normalized names of hotels that have
// at least one non-advisory issue
func (r Report) HotelsWithBlockingIssues() map[string]bool {
	out := make(map[string]bool)
	for _, i := range r.Blocking() {
		if i.Hotel != "" {
			out[NormalizeName(i.Hotel)] = true
		}
	}
	return out
}

// CorrectionAttempt records one draft of the self-correction loop
type CorrectionAttempt struct {
	Number int    `json:"number"` // 1-based
	Prompt string `json:"prompt"`
	Raw    string `json:"raw"` // Unparsed model output
	Claim  Claim  `json:"claim"`
	Report Report `json:"report"`
}

// Summary is a transparent score of the final claim
type Summary struct {
	Index       int            `json:"index"`        // 0-100
	Confidence  string         `json:"confidence"`   // "low", "medium", "high"
	FusionScore int            `json:"fusion_score"` // 0-100
	Grade       string         `json:"grade"`        // Fusion quality: excellent, good, needs improvement
	Signals     []Signal       `json:"signals"`
	Counts      map[string]int `json:"counts,omitempty"` // Issues per kind
}

// Signal represents a diagnostic signal with transparent scoring data
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// SignalType classifies the type of diagnostic signal
type SignalType string

const (
	SignalGrounding    SignalType = "grounding"   // Share of hotels matched to source data
	SignalConsistency  SignalType = "consistency" // Internal contradictions
	SignalPlausibility SignalType = "plausibility"
	SignalFusion       SignalType = "fusion"     // Narrative synthesis over listed data
	SignalCorrection   SignalType = "correction" // How many drafts were needed
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)
