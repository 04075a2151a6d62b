package models

// ActionKind identifies a user affordance offered next to a result
type ActionKind string

const (
	ActionMarkAccurate   ActionKind = "mark_accurate"
	ActionMarkInaccurate ActionKind = "mark_inaccurate"
	ActionShare          ActionKind = "share"
)

// Action is a button-like affordance on the result view
type Action struct {
	Kind  ActionKind `json:"kind"`
	Icon  string     `json:"icon"`
	Label string     `json:"label"`
}

// DisplayPayload is everything a renderer needs to show a verdict.
// Rendering itself (HTML, terminal) happens outside the domain.
type DisplayPayload struct {
	Status          Status `json:"status"`
	Icon            string `json:"icon"`
	Title           string `json:"title"`
	Class           string `json:"class"`
	BackgroundColor string `json:"bg_color"`
	TextColor       string `json:"text_color"`

	Confidence      int    `json:"confidence"`
	ConfidenceLabel string `json:"confidence_label"`
	ConfidenceColor string `json:"confidence_color"`

	// Findings is empty when nothing triggered; renderers skip the section
	FindingsHeading string   `json:"findings_heading,omitempty"`
	Findings        []string `json:"findings,omitempty"`

	PreviewLabel string `json:"preview_label"`
	Preview      string `json:"preview"`

	Actions []Action `json:"actions"`
}

// ShowFindings reports whether the findings section should be rendered
func (p DisplayPayload) ShowFindings() bool {
	return len(p.Findings) > 0
}

// ShareMethod is how a share request was finally satisfied
type ShareMethod string

const (
	ShareMethodNative    ShareMethod = "share"
	ShareMethodClipboard ShareMethod = "clipboard"
	ShareMethodManual    ShareMethod = "manual"
)

// ShareOutcome is returned by the share chain
type ShareOutcome struct {
	Method  ShareMethod `json:"method"`
	Title   string      `json:"title"`
	Text    string      `json:"text"`
	Message string      `json:"message,omitempty"`
}
