package prompt

import (
	"strings"
	"testing"
)

const presetYAML = `presets:
  - name: themes
    question: What content themes appear in the data?
  - name: timing
    question: When do the best posts go out?
`

func TestParsePresets(t *testing.T) {
	pf, err := ParsePresets([]byte(presetYAML))
	if err != nil {
		t.Fatalf("ParsePresets failed: %v", err)
	}
	if len(pf.Presets) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(pf.Presets))
	}

	p, err := pf.Find("timing")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if !strings.Contains(p.Question, "best posts") {
		t.Errorf("unexpected preset question: %q", p.Question)
	}
}

func TestParsePresetsValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing name", "presets:\n  - question: q\n"},
		{"missing question", "presets:\n  - name: n\n"},
		{"invalid yaml", ":\t:::"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParsePresets([]byte(tc.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFindUnknownPreset(t *testing.T) {
	pf, err := ParsePresets([]byte(presetYAML))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := pf.Find("nope"); err == nil {
		t.Error("expected error for unknown preset")
	}
}
