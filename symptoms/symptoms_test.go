package symptoms

import "testing"

func TestKeys(t *testing.T) {
	keys := Keys()
	if len(keys) != 10 {
		t.Fatalf("Expected 10 symptoms, got %d", len(keys))
	}
	if keys[0] != "headache" || keys[9] != "acidity" {
		t.Errorf("Unexpected key order %v", keys)
	}
}

func TestLookup(t *testing.T) {
	s, ok := Lookup("  Fever ")
	if !ok {
		t.Fatal("Expected fever to be found")
	}
	if s.Label != "🌡️ Fever" {
		t.Errorf("Expected fever label, got %q", s.Label)
	}
	if s.Title() != "💊 Recommended for 🌡️ Fever" {
		t.Errorf("Unexpected title %q", s.Title())
	}

	if _, ok := Lookup("toothache"); ok {
		t.Error("Expected unknown symptom to be missing")
	}
}

func TestEverySymptomHasFourSuggestions(t *testing.T) {
	for _, s := range All() {
		if len(s.Meds) != 4 {
			t.Errorf("Symptom %s has %d suggestions", s.Key, len(s.Meds))
		}
	}
}
