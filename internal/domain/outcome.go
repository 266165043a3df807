package domain

// Method identifies the social-choice rule that produced an Outcome.
type Method string

// Supported election methods.
const (
	MethodDictatorship Method = "dictatorship"
	MethodScoring      Method = "scoring"
	MethodPlurality    Method = "plurality"
	MethodVeto         Method = "veto"
	MethodBorda        Method = "borda"
	MethodSTV          Method = "stv"
)

// String returns the string representation of the method.
func (m Method) String() string { return string(m) }

// Methods returns every supported method in a stable order.
func Methods() []Method {
	return []Method{
		MethodDictatorship,
		MethodScoring,
		MethodPlurality,
		MethodVeto,
		MethodBorda,
		MethodSTV,
	}
}

// Round captures one elimination round of a multi-round rule.
type Round[C comparable] struct {
	// Number is the 1-based round index.
	Number int `json:"number"`

	// Counts holds the first-preference count of every candidate that was
	// still in the running at the start of the round.
	Counts map[C]int `json:"counts"`

	// Eliminated lists the candidates removed in this round, in canonical
	// candidate order.
	Eliminated []C `json:"eliminated,omitempty"`

	// Remaining lists the candidates that survived the round.
	Remaining []C `json:"remaining"`

	// Collapsed is true when every remaining candidate was tied and the
	// round was settled by the tie-break voter.
	Collapsed bool `json:"collapsed,omitempty"`
}

// Outcome is the explainable result of running one rule over a profile.
type Outcome[C comparable] struct {
	// Rule is the configured name of the rule instance.
	Rule string `json:"rule"`

	// Method is the rule family that produced the outcome.
	Method Method `json:"method"`

	// Winner is the elected candidate.
	Winner C `json:"winner"`

	// Scores holds the final tally per candidate. For STV it is the last
	// round's first-preference count; for a dictatorship it is empty.
	Scores map[C]float64 `json:"scores,omitempty"`

	// TieBroken reports whether the tie-break voter had to be consulted.
	TieBroken bool `json:"tie_broken"`

	// Rounds is populated by multi-round rules only.
	Rounds []Round[C] `json:"rounds,omitempty"`
}
