// Package interactions checks free-text drug names against a static table of
// known adverse combinations.
package interactions

import "github.com/giygas/pharmly/entities"

const (
	titleModerate = "⚠️ Moderate Interaction"
	titleSerious  = "🚨 Serious Interaction"
)

// rules is evaluated in declaration order, first match wins.
var rules = []entities.InteractionRule{
	{
		DrugNames:   []string{"aspirin", "ibuprofen"},
		Severity:    entities.SeverityWarning,
		Title:       titleModerate,
		Description: "Taking Aspirin and Ibuprofen together increases risk of GI bleeding and reduces Aspirin's antiplatelet effect.",
		Tips:        []string{"Separate doses by at least 8 hours", "Use Paracetamol as an alternative", "Consult your doctor if both are prescribed"},
	},
	{
		DrugNames:   []string{"warfarin", "aspirin"},
		Severity:    entities.SeverityDanger,
		Title:       titleSerious,
		Description: "Aspirin significantly increases bleeding risk when combined with Warfarin (blood thinner).",
		Tips:        []string{"Avoid this combination unless directed by a specialist", "Monitor INR closely", "Seek immediate medical advice"},
	},
	{
		DrugNames:   []string{"warfarin", "ibuprofen"},
		Severity:    entities.SeverityDanger,
		Title:       titleSerious,
		Description: "Ibuprofen increases the anticoagulant effect of Warfarin, greatly raising bleeding risk.",
		Tips:        []string{"Use Paracetamol for pain instead", "Notify your doctor immediately", "Do not combine without supervision"},
	},
	{
		DrugNames:   []string{"metformin", "alcohol"},
		Severity:    entities.SeverityDanger,
		Title:       titleSerious,
		Description: "Alcohol combined with Metformin raises the risk of lactic acidosis, a potentially fatal condition.",
		Tips:        []string{"Avoid alcohol entirely while on Metformin", "If consumed, seek medical advice", "Monitor for nausea, muscle pain, or breathing difficulty"},
	},
	{
		DrugNames:   []string{"paracetamol", "alcohol"},
		Severity:    entities.SeverityWarning,
		Title:       titleModerate,
		Description: "Combining Paracetamol (Acetaminophen) with alcohol increases risk of liver damage.",
		Tips:        []string{"Do not exceed 2g/day of Paracetamol if drinking", "Space doses several hours from drinking", "Avoid if you have liver disease"},
	},
	{
		DrugNames:   []string{"simvastatin", "erythromycin"},
		Severity:    entities.SeverityDanger,
		Title:       titleSerious,
		Description: "Erythromycin inhibits Simvastatin metabolism, raising statin levels and risk of muscle damage (rhabdomyolysis).",
		Tips:        []string{"Avoid this combination", "Switch to a non-interacting antibiotic", "Report muscle pain or weakness immediately"},
	},
	{
		DrugNames:   []string{"amoxicillin", "methotrexate"},
		Severity:    entities.SeverityWarning,
		Title:       titleModerate,
		Description: "Amoxicillin may reduce renal clearance of Methotrexate, increasing its toxicity.",
		Tips:        []string{"Monitor Methotrexate levels", "Consult prescribing doctor", "Watch for signs of toxicity: mouth sores, fatigue"},
	},
}

// Rules returns a copy of the rule table in evaluation order.
func Rules() []entities.InteractionRule {
	out := make([]entities.InteractionRule, len(rules))
	copy(out, rules)
	return out
}
