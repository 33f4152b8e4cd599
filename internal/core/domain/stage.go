package domain

// Stage identifies a named phase of the recruiting pipeline.
type Stage string

// Built-in stages of the default board.
const (
	StageCandidateIntake Stage = "candidate_intake"
	StageOutreachSent    Stage = "outreach_sent"
	StageInterview       Stage = "interview"
	StageOffer           Stage = "offer"
	StageHired           Stage = "hired"
	StageAgentReview     Stage = "agent_review"
)

// StageDefinition describes one column of the board.
type StageDefinition struct {
	// ID is the unique stage identifier (e.g. "interview").
	ID Stage `toml:"id"`

	// Name is the human-readable display name.
	Name string `toml:"name"`

	// Rank orders columns on the board, ascending.
	Rank int `toml:"rank"`

	// TransitionsTo lists the stages an item may move to from this one.
	// Ignored when the board config sets AllowAny.
	TransitionsTo []Stage `toml:"transitions_to,omitempty"`
}

// BoardConfig is the static, ordered catalog of valid stages and the
// transitions permitted between them. It is loaded from configuration
// and validated when the stage registry is built.
type BoardConfig struct {
	// AllowAny permits free-form movement between any two stages.
	// The transition lists are ignored when set.
	AllowAny bool `toml:"allow_any"`

	// Stages are the column definitions.
	Stages []StageDefinition `toml:"stages"`
}

// DefaultBoardConfig returns the canonical board shipped on first run.
// It allows arbitrary moves between stages; recruiters routinely pull
// candidates backwards, so the default board does not restrict the graph.
func DefaultBoardConfig() BoardConfig {
	return BoardConfig{
		AllowAny: true,
		Stages: []StageDefinition{
			{ID: StageCandidateIntake, Name: "Intake", Rank: 1},
			{ID: StageOutreachSent, Name: "Outreach Sent", Rank: 2},
			{ID: StageInterview, Name: "Interview", Rank: 3},
			{ID: StageOffer, Name: "Offer", Rank: 4},
			{ID: StageHired, Name: "Hired", Rank: 5},
			{ID: StageAgentReview, Name: "Agent Review", Rank: 6},
		},
	}
}
