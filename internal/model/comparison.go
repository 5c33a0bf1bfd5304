package model

// Winner identifies which phone a comparison favors.
type Winner int

// Winner values. Tie is the zero value so an unscored result defaults to it.
const (
	Tie Winner = iota
	PhoneA
	PhoneB
)

// String returns a human-readable winner label.
func (w Winner) String() string {
	switch w {
	case PhoneA:
		return "phone_a"
	case PhoneB:
		return "phone_b"
	default:
		return "tie"
	}
}

// Mirror returns the winner with the A/B sides swapped.
func (w Winner) Mirror() Winner {
	switch w {
	case PhoneA:
		return PhoneB
	case PhoneB:
		return PhoneA
	default:
		return Tie
	}
}

// Insight is one templated comparison statement, tagged by category.
type Insight struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

// Recommendation names the better phone for one use case.
type Recommendation struct {
	Category  string `json:"category"`
	Phone     Winner `json:"phone"`
	PhoneName string `json:"phone_name"`
	Detail    string `json:"detail"`
}

// DimensionScore records how one scoring dimension was awarded, so the
// weighted totals stay auditable.
type DimensionScore struct {
	Dimension string  `json:"dimension"`
	Awarded   Winner  `json:"awarded"`
	Points    float64 `json:"points"`
}

// ComparisonResult is the full output of scoring two phone summaries.
type ComparisonResult struct {
	Winner          Winner           `json:"winner"`
	ScoreA          float64          `json:"score_a"`
	ScoreB          float64          `json:"score_b"`
	Dimensions      []DimensionScore `json:"dimensions"`
	Insights        []Insight        `json:"insights"`
	Recommendations []Recommendation `json:"recommendations"`
}
