package analysis

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"only stopwords", "the and of a", []string{}},
		{"punctuation only", "!!! ... ???", []string{}},
		{"lowercases", "Robot Mode MAKER", []string{"robot", "mode", "maker"}},
		{"keeps internal hyphen", "idea-wizard", []string{"idea-wizard"}},
		{"trims edge hyphens", "-idea-wizard-", []string{"idea-wizard"}},
		{"collapses hyphen runs", "idea--wizard", []string{"idea-wizard"}},
		{"dedupes in first order", "robot mode robot", []string{"robot", "mode"}},
		{"drops short tokens", "a b go", []string{"go"}},
		{"keeps allow-listed short", "r and c code", []string{"r", "c", "code"}},
		{"folds diacritics", "Café Résumé", []string{"cafe", "resume"}},
		{"splits punctuation", "fix: bugs, (quickly)!", []string{"fix", "bugs", "quickly"}},
		{"digits survive", "k8s v2", []string{"k8s", "v2"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Tokenize(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestTerms_KeepsDuplicatesAndParts(t *testing.T) {
	got := Terms("idea-wizard makes ideas, idea-wizard")
	want := []string{"idea-wizard", "idea", "wizard", "makes", "ideas", "idea-wizard", "idea", "wizard"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Terms = %v, want %v", got, want)
	}
}

func TestParts(t *testing.T) {
	if got := Parts("robot-mode-maker"); !reflect.DeepEqual(got, []string{"robot", "mode", "maker"}) {
		t.Errorf("Parts = %v", got)
	}
	if got := Parts("robot"); !reflect.DeepEqual(got, []string{"robot"}) {
		t.Errorf("Parts = %v", got)
	}
}
