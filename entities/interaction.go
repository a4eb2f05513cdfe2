package entities

// Severity of an interaction rule
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// InteractionRule describes a known adverse combination. Every token in
// DrugNames must appear in at least one supplied name for the rule to fire.
type InteractionRule struct {
	DrugNames   []string `json:"drugNames"`
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tips        []string `json:"tips"`
}
