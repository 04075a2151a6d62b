package models

// Status is the classification label derived from a confidence score
type Status string

const (
	StatusSafe       Status = "safe"
	StatusSuspicious Status = "suspicious"
	StatusDanger     Status = "danger"
)

// Valid reports whether s is one of the three known labels
func (s Status) Valid() bool {
	switch s {
	case StatusSafe, StatusSuspicious, StatusDanger:
		return true
	}
	return false
}

// Category identifies one scam indicator group
type Category string

const (
	CategoryUrgency  Category = "urgency"
	CategoryPrizes   Category = "prizes"
	CategoryFree     Category = "free"
	CategoryAccount  Category = "account"
	CategoryMoney    Category = "money"
	CategoryLinks    Category = "links"
	CategoryPhone    Category = "phone"
	CategoryShouting Category = "shouting"
)

// Finding records one triggered category
type Finding struct {
	Category Category `json:"type"`
	Text     string   `json:"text"`
}

// Verdict is the result of classifying a single message. Findings are in
// category evaluation order.
type Verdict struct {
	Status     Status    `json:"status"`
	Confidence int       `json:"confidence"` // 0-100
	Findings   []Finding `json:"findings"`
	IsScam     bool      `json:"is_scam"`
}

// HasFinding reports whether the given category triggered
func (v Verdict) HasFinding(c Category) bool {
	for _, f := range v.Findings {
		if f.Category == c {
			return true
		}
	}
	return false
}

// CategoryInfo describes a category for clients that want to show or
// mirror the detection table
type CategoryInfo struct {
	Category Category `json:"category"`
	Weight   int      `json:"weight"`
	Keywords []string `json:"keywords,omitempty"`
	Finding  string   `json:"finding"`
	// CaseSensitive is set when keywords are matched against the original text
	CaseSensitive bool `json:"case_sensitive,omitempty"`
}
