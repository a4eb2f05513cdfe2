package interactions

import (
	"strings"

	"github.com/giygas/pharmly/entities"
)

// Status is the outcome class of a check
type Status string

const (
	StatusInsufficient       Status = "insufficient_input"
	StatusNoKnownInteraction Status = "no_known_interaction"
	StatusInteraction        Status = "interaction"
)

// MinDrugs is the number of non-empty names a check needs
const MinDrugs = 2

// Result of a check. Rule is set only when Status is StatusInteraction.
type Result struct {
	Status Status                    `json:"status"`
	Rule   *entities.InteractionRule `json:"rule,omitempty"`
}

// Check normalizes the names, drops empty ones, and returns the first rule
// whose every drug token is contained in at least one supplied name.
func Check(names ...string) Result {
	normalized := make([]string, 0, len(names))
	for _, name := range names {
		if n := strings.ToLower(strings.TrimSpace(name)); n != "" {
			normalized = append(normalized, n)
		}
	}

	if len(normalized) < MinDrugs {
		return Result{Status: StatusInsufficient}
	}

	for i := range rules {
		if matches(rules[i], normalized) {
			rule := rules[i]
			return Result{Status: StatusInteraction, Rule: &rule}
		}
	}

	return Result{Status: StatusNoKnownInteraction}
}

func matches(rule entities.InteractionRule, names []string) bool {
	for _, token := range rule.DrugNames {
		found := false
		for _, n := range names {
			if strings.Contains(n, token) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
