package nlu

import "testing"

func TestExtract_TimerUtterance(t *testing.T) {
	extractor := NewRegexExtractor(newTestRegistry(t))

	occurrences := extractor.Extract("set a timer for 5 minutes")

	numbers := occurrences["number"]
	if len(numbers) != 1 {
		t.Fatalf("expected 1 number occurrence, got %d", len(numbers))
	}
	if numbers[0].Value != 5 {
		t.Errorf("expected number value 5, got %v", numbers[0].Value)
	}

	units := occurrences["time_unit"]
	if len(units) != 1 {
		t.Fatalf("expected 1 time_unit occurrence, got %d", len(units))
	}
	if units[0].Value != "minutes" {
		t.Errorf("expected time_unit value minutes, got %v", units[0].Value)
	}
}

func TestExtract_AllNonOverlappingMatches(t *testing.T) {
	extractor := NewRegexExtractor(newTestRegistry(t))

	occurrences := extractor.Extract("add 12 and 7 and 12")

	numbers := occurrences["number"]
	if len(numbers) != 3 {
		t.Fatalf("expected 3 number occurrences, got %d", len(numbers))
	}
	want := []int{12, 7, 12}
	for i, n := range numbers {
		if n.Value != want[i] {
			t.Errorf("occurrence %d: expected %d, got %v", i, want[i], n.Value)
		}
		if n.Start >= n.End {
			t.Errorf("occurrence %d: invalid span [%d,%d)", i, n.Start, n.End)
		}
	}
	// Document order is preserved, duplicates included.
	if numbers[0].Start >= numbers[1].Start || numbers[1].Start >= numbers[2].Start {
		t.Errorf("occurrences out of document order: %+v", numbers)
	}
}

func TestExtract_FixedValueReplacement(t *testing.T) {
	extractor := NewRegexExtractor(newTestRegistry(t))

	occurrences := extractor.Extract("wait 30 sec then 2 hr")

	units := occurrences["time_unit"]
	if len(units) != 2 {
		t.Fatalf("expected 2 time_unit occurrences, got %d", len(units))
	}
	// Sub-patterns run in order: seconds pattern before hours pattern.
	if units[0].Value != "seconds" || units[1].Value != "hours" {
		t.Errorf("expected [seconds hours], got [%v %v]", units[0].Value, units[1].Value)
	}
}

func TestExtract_LocationCaptureGroup(t *testing.T) {
	extractor := NewRegexExtractor(newTestRegistry(t))

	occurrences := extractor.Extract("what is the weather in London")

	locations := occurrences["location"]
	if len(locations) == 0 {
		t.Fatal("expected at least one location occurrence")
	}
	if locations[0].Value != "London" {
		t.Errorf("expected London, got %v", locations[0].Value)
	}
}

func TestExtract_IndependentOfClassification(t *testing.T) {
	registry := newTestRegistry(t)
	classifier := NewRuleClassifier(registry)
	extractor := NewRegexExtractor(registry)

	// No intent matches, extraction must still find the number.
	input := "zzqx 42 qxzz"
	if got := classifier.Classify(input); got.Intent != IntentUnknown {
		t.Fatalf("expected unknown intent, got %s", got.Intent)
	}
	numbers := extractor.Extract(input)["number"]
	if len(numbers) != 1 || numbers[0].Value != 42 {
		t.Errorf("expected single number 42, got %v", numbers)
	}
}

func TestExtract_Empty(t *testing.T) {
	extractor := NewRegexExtractor(newTestRegistry(t))
	if occurrences := extractor.Extract(""); len(occurrences) != 0 {
		t.Errorf("expected no occurrences for empty input, got %v", occurrences)
	}
}
