package countries

import (
	"strings"
	"testing"
)

func TestLoadCountries_DedupesSortsAndParsesStates(t *testing.T) {
	input := strings.NewReader(`
# code|name|states
NG|Nigeria|Lagos; Ogun ;;Oyo
gh|Ghana
NG|Duplicate

AT|Austria
`)

	list, err := LoadCountries(input)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 countries, got %d: %#v", len(list), list)
	}
	if list[0].Name != "Austria" || list[1].Name != "Ghana" || list[2].Name != "Nigeria" {
		t.Fatalf("unexpected order: %#v", list)
	}
	if list[1].Code != "GH" {
		t.Fatalf("expected upper-cased code, got %q", list[1].Code)
	}
	if got := strings.Join(list[2].States, ","); got != "Lagos,Ogun,Oyo" {
		t.Fatalf("unexpected states: %q", got)
	}
}

func TestLoadCountries_RejectsMalformedLines(t *testing.T) {
	if _, err := LoadCountries(strings.NewReader("NG\n")); err == nil {
		t.Fatalf("expected error for line without name")
	}
	if _, err := LoadCountries(nil); err == nil {
		t.Fatalf("expected error for nil reader")
	}
}

func TestDefaultCountries_ContainsCommonEntries(t *testing.T) {
	list, err := DefaultCountries()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(list) < 150 {
		t.Fatalf("expected a reasonably sized list, got %d", len(list))
	}
	for _, code := range []string{"NG", "GH", "US", "GB"} {
		if _, ok := Find(list, code); !ok {
			t.Fatalf("expected country %q to be present", code)
		}
	}

	list[0].Name = "mutated"
	again, _ := DefaultCountries()
	if again[0].Name == "mutated" {
		t.Fatalf("expected DefaultCountries to return a copy")
	}
}

func TestFind_ByCodeOrName(t *testing.T) {
	list := []Country{{Code: "NG", Name: "Nigeria"}}
	if _, ok := Find(list, "ng"); !ok {
		t.Fatalf("expected lookup by code")
	}
	if _, ok := Find(list, "NIGERIA"); !ok {
		t.Fatalf("expected lookup by name")
	}
	if _, ok := Find(list, ""); ok {
		t.Fatalf("expected empty key to miss")
	}
}

func TestSearch_PrefixBeforeContains(t *testing.T) {
	list := []Country{
		{Code: "XA", Name: "Anigeria"},
		{Code: "GH", Name: "Ghana"},
		{Code: "NE", Name: "Niger"},
		{Code: "NG", Name: "Nigeria"},
	}

	results := Search(list, "nIgEr", 10, NewOptions())
	want := []string{"Niger", "Nigeria", "Anigeria"}
	if len(results) != len(want) {
		t.Fatalf("expected %d results, got %d: %#v", len(want), len(results), results)
	}
	for i := range want {
		if results[i].Name != want[i] {
			t.Fatalf("unexpected ordering at %d: got %q want %q", i, results[i].Name, want[i])
		}
	}
}

func TestSearch_MatchesCodeExactly(t *testing.T) {
	list := []Country{{Code: "GH", Name: "Ghana"}, {Code: "GB", Name: "United Kingdom"}}
	results := Search(list, "gb", 10, NewOptions())
	if len(results) != 1 || results[0].Code != "GB" {
		t.Fatalf("unexpected results: %#v", results)
	}
}

func TestSearch_EmptyQueryModes(t *testing.T) {
	list := []Country{{Code: "A", Name: "a"}, {Code: "B", Name: "b"}, {Code: "C", Name: "c"}}

	if got := Search(list, "", 0, NewOptions(WithEmptySearchMode(EmptySearchNone))); got != nil {
		t.Fatalf("expected no results, got %#v", got)
	}
	if got := Search(list, "", 0, NewOptions(WithDefaultLimit(2))); len(got) != 2 {
		t.Fatalf("expected default limit to apply, got %#v", got)
	}
	if got := Search(list, "a", -1, NewOptions()); got != nil {
		t.Fatalf("expected negative limit to return nothing, got %#v", got)
	}
}

func TestStateOptions(t *testing.T) {
	list := []Country{{Code: "GH", Name: "Ghana", States: []string{"Ashanti", "Volta"}}, {Code: "AT", Name: "Austria"}}

	states := StateOptions(list, "gh")
	if len(states) != 2 || states[0].Name != "Ashanti" {
		t.Fatalf("unexpected states: %#v", states)
	}
	if StateOptions(list, "Austria") != nil {
		t.Fatalf("expected nil for a country without states")
	}
	if StateOptions(list, "nowhere") != nil {
		t.Fatalf("expected nil for an unknown country")
	}
}

func TestComponent_SelectData(t *testing.T) {
	c := New(WithCountries([]Country{
		{Code: "GH", Name: "Ghana", States: []string{"Volta"}},
		{Code: "NG", Name: "Nigeria"},
	}))

	data, err := c.SelectData("Ghana")
	if err != nil {
		t.Fatalf("select data: %v", err)
	}
	list, _ := data["countries"].([]any)
	if len(list) != 2 {
		t.Fatalf("expected 2 countries, got %#v", data["countries"])
	}
	first, _ := list[0].(map[string]any)
	if first["name"] != "Ghana" || first["code"] != "GH" {
		t.Fatalf("unexpected first entry: %#v", first)
	}
	states, _ := data["states"].([]any)
	if len(states) != 1 || states[0].(map[string]any)["name"] != "Volta" {
		t.Fatalf("unexpected states: %#v", data["states"])
	}

	data, err = c.SelectData("")
	if err != nil {
		t.Fatalf("select data: %v", err)
	}
	if _, ok := data["states"]; ok {
		t.Fatalf("expected no states without a country")
	}
}
