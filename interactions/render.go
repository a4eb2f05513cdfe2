package interactions

import "strings"

// Rendered is the display form of a Result
type Rendered struct {
	Level       string   `json:"level"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tips        []string `json:"tips,omitempty"`
}

// Render turns a result into the text shown to the user. Level is the
// severity for a fired rule, "safe" when nothing matched and "warning" when
// the input was insufficient.
func Render(r Result) Rendered {
	switch r.Status {
	case StatusInsufficient:
		return Rendered{Level: "warning", Title: "⚠️ Please enter at least 2 medicines"}
	case StatusNoKnownInteraction:
		return Rendered{
			Level:       "safe",
			Title:       "✅ No Known Interaction",
			Description: "No significant interaction found in our database for these medicines. Always consult a pharmacist for confirmation.",
		}
	}

	if r.Rule == nil {
		return Rendered{Level: "safe", Title: "✅ No Known Interaction"}
	}
	return Rendered{
		Level:       string(r.Rule.Severity),
		Title:       r.Rule.Title,
		Description: r.Rule.Description,
		Tips:        append([]string(nil), r.Rule.Tips...),
	}
}

// Text flattens a rendered result into plain lines, tips as bullets
func (r Rendered) Text() string {
	var b strings.Builder
	b.WriteString(r.Title)
	if r.Description != "" {
		b.WriteString("\n\n")
		b.WriteString(r.Description)
	}
	for i, tip := range r.Tips {
		if i == 0 {
			b.WriteString("\n")
		}
		b.WriteString("\n• ")
		b.WriteString(tip)
	}
	return b.String()
}
