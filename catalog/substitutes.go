package catalog

import (
	"strings"

	"github.com/giygas/pharmly/entities"
	"github.com/giygas/pharmly/matcher"
)

// substitutes is searched in declaration order, brand keys next to their
// generic keys.
var substitutes = []entities.SubstituteEntry{
	{Key: "lipitor", Alternatives: []entities.Substitute{{Name: "Generic Atorvastatin 10mg", Price: 0.95, SavingsPercent: 78}, {Name: "Rosuvastatin 10mg", Price: 1.20, SavingsPercent: 72}}},
	{Key: "atorvastatin", Alternatives: []entities.Substitute{{Name: "Generic Atorvastatin 10mg", Price: 0.95, SavingsPercent: 78}}},
	{Key: "ventolin", Alternatives: []entities.Substitute{{Name: "Generic Salbutamol Inhaler", Price: 4.80, SavingsPercent: 60}, {Name: "Terbutaline Inhaler", Price: 5.50, SavingsPercent: 54}}},
	{Key: "salbutamol", Alternatives: []entities.Substitute{{Name: "Generic Salbutamol Inhaler", Price: 4.80, SavingsPercent: 60}}},
	{Key: "zithromax", Alternatives: []entities.Substitute{{Name: "Generic Azithromycin 500mg", Price: 1.80, SavingsPercent: 71}}},
	{Key: "azithromycin", Alternatives: []entities.Substitute{{Name: "Generic Azithromycin 500mg", Price: 1.80, SavingsPercent: 71}}},
	{Key: "glucophage", Alternatives: []entities.Substitute{{Name: "Generic Metformin 500mg", Price: 0.80, SavingsPercent: 77}, {Name: "Generic Metformin 850mg", Price: 1.10, SavingsPercent: 74}}},
	{Key: "metformin", Alternatives: []entities.Substitute{{Name: "Generic Metformin 500mg", Price: 0.80, SavingsPercent: 77}}},
	{Key: "prilosec", Alternatives: []entities.Substitute{{Name: "Generic Omeprazole 20mg", Price: 0.70, SavingsPercent: 75}, {Name: "Pantoprazole 20mg", Price: 0.85, SavingsPercent: 70}}},
	{Key: "omeprazole", Alternatives: []entities.Substitute{{Name: "Generic Omeprazole 20mg", Price: 0.70, SavingsPercent: 75}}},
	{Key: "nexium", Alternatives: []entities.Substitute{{Name: "Generic Esomeprazole 20mg", Price: 0.90, SavingsPercent: 68}}},
	{Key: "brufen", Alternatives: []entities.Substitute{{Name: "Generic Ibuprofen 400mg", Price: 0.60, SavingsPercent: 71}}},
	{Key: "ibuprofen", Alternatives: []entities.Substitute{{Name: "Generic Ibuprofen 400mg", Price: 0.60, SavingsPercent: 71}}},
	{Key: "zestril", Alternatives: []entities.Substitute{{Name: "Generic Lisinopril 10mg", Price: 0.85, SavingsPercent: 83}}},
	{Key: "lisinopril", Alternatives: []entities.Substitute{{Name: "Generic Lisinopril 10mg", Price: 0.85, SavingsPercent: 83}}},
	{Key: "amoxil", Alternatives: []entities.Substitute{{Name: "Generic Amoxicillin 500mg", Price: 1.20, SavingsPercent: 75}}},
	{Key: "amoxicillin", Alternatives: []entities.Substitute{{Name: "Generic Amoxicillin 500mg", Price: 1.20, SavingsPercent: 75}}},
	{Key: "coumadin", Alternatives: []entities.Substitute{{Name: "Generic Warfarin 5mg", Price: 1.50, SavingsPercent: 79}}},
	{Key: "warfarin", Alternatives: []entities.Substitute{{Name: "Generic Warfarin 5mg", Price: 1.50, SavingsPercent: 79}}},
	{Key: "calpol", Alternatives: []entities.Substitute{{Name: "Generic Paracetamol 500mg", Price: 0.30, SavingsPercent: 75}}},
	{Key: "paracetamol", Alternatives: []entities.Substitute{{Name: "Generic Paracetamol 500mg", Price: 0.30, SavingsPercent: 75}}},
	{Key: "claritin", Alternatives: []entities.Substitute{{Name: "Generic Loratadine 10mg", Price: 0.50, SavingsPercent: 69}}},
	{Key: "loratadine", Alternatives: []entities.Substitute{{Name: "Generic Loratadine 10mg", Price: 0.50, SavingsPercent: 69}}},
}

// FindSubstitutes returns the first table entry whose key appears in the
// query, or whose key contains the query's first word.
func FindSubstitutes(query string) (entities.SubstituteEntry, bool) {
	q := matcher.Normalize(query)
	if q == "" {
		return entities.SubstituteEntry{}, false
	}
	first := strings.Fields(q)[0]

	for _, entry := range substitutes {
		if strings.Contains(q, entry.Key) || strings.Contains(entry.Key, first) {
			return entry, true
		}
	}
	return entities.SubstituteEntry{}, false
}

// Substitutes returns a copy of the whole table
func Substitutes() []entities.SubstituteEntry {
	out := make([]entities.SubstituteEntry, len(substitutes))
	copy(out, substitutes)
	return out
}
