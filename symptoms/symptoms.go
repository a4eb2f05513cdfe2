// Package symptoms maps common complaints to suggested over-the-counter
// medicines.
package symptoms

import (
	"fmt"
	"strings"
)

// Suggestion is one suggested medicine for a symptom
type Suggestion struct {
	Icon string `json:"icon"`
	Name string `json:"name"`
	Note string `json:"note"`
}

// Symptom groups suggestions under a display label
type Symptom struct {
	Key   string       `json:"key"`
	Label string       `json:"label"`
	Meds  []Suggestion `json:"meds"`
}

// Title is the heading shown above the suggestions
func (s Symptom) Title() string {
	return fmt.Sprintf("💊 Recommended for %s", s.Label)
}

var table = []Symptom{
	{Key: "headache", Label: "🤕 Headache", Meds: []Suggestion{
		{"💊", "Paracetamol 500mg", "Take 1–2 tablets every 4–6 hrs. Max 4g/day."},
		{"💊", "Ibuprofen 400mg", "Take with food. Not for empty stomach."},
		{"💊", "Aspirin 300mg", "Avoid if under 16 or on blood thinners."},
		{"🌿", "Caffeine + Paracetamol", "Combination for tension headaches."},
	}},
	{Key: "backpain", Label: "🦴 Back Pain", Meds: []Suggestion{
		{"💊", "Ibuprofen 400mg", "Anti-inflammatory. Take with food, 3x daily."},
		{"💊", "Diclofenac Gel (Topical)", "Apply to affected area 3–4x daily."},
		{"💊", "Paracetamol 650mg", "For mild-moderate pain relief."},
		{"💊", "Methocarbamol 750mg", "Muscle relaxant for spasm-related pain."},
	}},
	{Key: "fever", Label: "🌡️ Fever", Meds: []Suggestion{
		{"💊", "Paracetamol 500mg", "First-line antipyretic. Every 4–6 hrs."},
		{"💊", "Ibuprofen 200mg", "Reduces fever and inflammation."},
		{"💧", "ORS Sachets", "Stay hydrated, essential with fever."},
		{"💊", "Aspirin 300mg", "Adults only. Not for viral fevers in children."},
	}},
	{Key: "cold", Label: "🤧 Cold & Flu", Meds: []Suggestion{
		{"💊", "Cetirizine 10mg", "For runny nose and sneezing."},
		{"💊", "Pseudoephedrine 60mg", "Nasal decongestant. Short-term use."},
		{"💊", "DXM Cough Syrup", "Dextromethorphan for dry cough."},
		{"🌿", "Zinc + Vitamin C", "Reduces duration of cold symptoms."},
	}},
	{Key: "allergy", Label: "🌿 Allergies", Meds: []Suggestion{
		{"💊", "Cetirizine 10mg", "Non-drowsy antihistamine. Once daily."},
		{"💊", "Loratadine 10mg", "24hr relief. Minimal sedation."},
		{"💊", "Fexofenadine 120mg", "For seasonal allergic rhinitis."},
		{"💊", "Levocetirizine 5mg", "Stronger antihistamine for severe allergies."},
	}},
	{Key: "stomach", Label: "🤢 Stomach Pain", Meds: []Suggestion{
		{"💊", "Antacid (Gelusil)", "For acid-related stomach pain."},
		{"💊", "Omeprazole 20mg", "PPI for gastritis. Take before meals."},
		{"💊", "Dicyclomine 10mg", "Antispasmodic for cramps and IBS."},
		{"💊", "ORS + Probiotics", "For diarrhoea-related stomach pain."},
	}},
	{Key: "throat", Label: "😮 Sore Throat", Meds: []Suggestion{
		{"💊", "Benzydamine Gargle", "Anti-inflammatory throat rinse."},
		{"💊", "Strepsils Lozenges", "Antiseptic. Dissolve slowly in mouth."},
		{"💊", "Paracetamol 500mg", "For throat pain and fever."},
		{"🌿", "Honey + Lemon Drink", "Natural soothing remedy."},
	}},
	{Key: "muscle", Label: "💪 Muscle Pain", Meds: []Suggestion{
		{"💊", "Ibuprofen 400mg", "Anti-inflammatory. With meals."},
		{"💊", "Diclofenac Gel", "Apply topically to sore muscles."},
		{"💊", "Methocarbamol 750mg", "Muscle relaxant for spasm relief."},
		{"💊", "Magnesium Supplement", "Helps with muscle cramps."},
	}},
	{Key: "insomnia", Label: "😴 Insomnia", Meds: []Suggestion{
		{"💊", "Melatonin 5mg", "Natural sleep aid. 30 min before bed."},
		{"💊", "Diphenhydramine 25mg", "Short-term sleep aid. OTC."},
		{"🌿", "Valerian Root Extract", "Herbal sleep supplement."},
		{"💊", "Doxylamine 25mg", "Antihistamine-based sleep aid."},
	}},
	{Key: "acidity", Label: "🔥 Acidity", Meds: []Suggestion{
		{"💊", "Omeprazole 20mg", "Take before breakfast. 1x daily."},
		{"💊", "Pantoprazole 40mg", "PPI for severe acid reflux."},
		{"💊", "Antacid Syrup (Digene)", "Fast relief. After meals."},
		{"💊", "Ranitidine 150mg", "H2 blocker for acid control."},
	}},
}

// Lookup finds a symptom by key, ignoring case and surrounding spaces
func Lookup(key string) (Symptom, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, s := range table {
		if s.Key == key {
			return s, true
		}
	}
	return Symptom{}, false
}

// Keys lists the symptom keys in display order
func Keys() []string {
	keys := make([]string, len(table))
	for i, s := range table {
		keys[i] = s.Key
	}
	return keys
}

// All returns every symptom in display order
func All() []Symptom {
	out := make([]Symptom, len(table))
	copy(out, table)
	return out
}
