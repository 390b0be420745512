package consistency

import (
	"reflect"
	"testing"

	"github.com/nwstranslate/nwskit/emails"
	"github.com/nwstranslate/nwskit/records"
	"github.com/nwstranslate/nwskit/uifile"
)

func TestMissingLiterature(t *testing.T) {
	orig := []records.LiteratureItem{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}}
	tr := []records.LiteratureItem{{ID: 2, Title: "b"}}

	got := MissingLiterature(orig, tr)
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("MissingLiterature() = %#v, want id 1", got)
	}
	if got := MissingLiterature(nil, nil); got != nil {
		t.Fatalf("MissingLiterature(nil, nil) = %#v, want nil", got)
	}
}

func TestMissingOutlines(t *testing.T) {
	orig := []records.Outline{{Number: 1, Title: "T", Updated: "1/23"}}

	got := MissingOutlines(orig, []records.Outline{{Number: 1, Updated: "1/23"}})
	if !reflect.DeepEqual(got, orig) {
		t.Fatalf("MissingOutlines(untitled translation) = %#v, want %#v", got, orig)
	}

	got = MissingOutlines(orig, []records.Outline{{Number: 1, Title: "T", Updated: "1/23"}})
	if len(got) != 0 {
		t.Fatalf("MissingOutlines(titled translation) = %#v, want none", got)
	}

	got = MissingOutlines(orig, []records.Outline{{Number: 1, Title: "T"}})
	if len(got) != 1 {
		t.Fatalf("translation without updated date should still be missing, got %#v", got)
	}

	untitled := []records.Outline{{Number: 5, Updated: "x"}}
	if got := MissingOutlines(untitled, nil); len(got) != 0 {
		t.Fatalf("untitled originals are never missing, got %#v", got)
	}
}

func TestMissingSongs(t *testing.T) {
	orig := []records.Song{{Number: "1", Title: "a"}, {Number: "2a", Title: "b"}}
	got := MissingSongs(orig, []records.Song{{Number: "1", Title: "x"}})
	if len(got) != 1 || got[0].Number != "2a" {
		t.Fatalf("MissingSongs() = %#v", got)
	}
}

func TestMissingTips(t *testing.T) {
	orig := []records.Tip{{Heading: "A"}, {Heading: "B"}, {Heading: "C"}}
	tr := []records.Tip{{Heading: "a"}, {Heading: ""}}

	got := MissingTips(orig, tr)
	want := []records.Tip{{Heading: "B"}, {Heading: "C"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MissingTips() = %#v, want %#v", got, want)
	}
}

func TestWrongLiterature(t *testing.T) {
	orig := []records.LiteratureItem{
		{ID: 1, CategoryName: "Books", ItemNumber: "6922", Symbol: "es", Title: "Examining"},
		{ID: 2, CategoryName: "Other", Title: "Other"},
		{ID: 3, CategoryName: "Other", Title: "Untranslated"},
	}
	tr := []records.LiteratureItem{
		{ID: 1, CategoryName: "Books", ItemNumber: "6922", Symbol: "esX", Title: "Onderzoek"},
		{ID: 2, CategoryName: "Overig", ItemNumber: "1", Title: "Ander"},
	}

	got := WrongLiterature(orig, tr)
	want := []FieldMismatch{
		{ID: 1, Field: "symbol", Original: "es", Translation: "esX"},
		{ID: 2, Field: "categoryName", Original: "Other", Translation: "Overig"},
		{ID: 2, Field: "itemNumber", Original: "", Translation: "1"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("WrongLiterature() = %#v, want %#v", got, want)
	}
}

func TestInconsistentTips(t *testing.T) {
	orig := []records.Tip{
		{Heading: "Same", Text: "1", URL: "https://a"},
		{Heading: "Same", Text: "2", URL: "https://b"},
		{Heading: "Single", Text: "3", URL: "https://c"},
	}

	got := InconsistentTips(orig, []records.Tip{{Heading: "A"}, {Heading: "B"}, {Heading: "C"}})
	want := []TipConflict{{
		Heading:      "Same",
		Tips:         []TipRef{{Index: 0, Translation: "A"}, {Index: 1, Translation: "B"}},
		Translations: []string{"A", "B"},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("InconsistentTips() = %#v, want %#v", got, want)
	}

	if got := InconsistentTips(orig, []records.Tip{{Heading: "A"}, {Heading: "A"}}); len(got) != 0 {
		t.Fatalf("identical translations should not conflict, got %#v", got)
	}

	if got := InconsistentTips(orig, []records.Tip{{Heading: "A"}, {Heading: ""}}); len(got) != 0 {
		t.Fatalf("untranslated members are skipped, got %#v", got)
	}
}

func TestInconsistentTerms(t *testing.T) {
	reference := uifile.Parse("termA: Value 2\ntermB: Other Value 2\nplain: Unrelated")
	translations := uifile.Parse("termA: A\ntermB: B\nplain: X")

	got := InconsistentTerms(reference, translations, nil)
	want := []TermConflict{{
		Key:         "termA",
		Original:    "Value 2",
		Translation: "A",
		Others:      []TermUse{{Key: "termB", Value: "B"}},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("InconsistentTerms() = %#v, want %#v", got, want)
	}

	marked := map[string][]string{"termA": {"termB"}}
	if got := InconsistentTerms(reference, translations, marked); len(got) != 0 {
		t.Fatalf("marked pair should be suppressed, got %#v", got)
	}
}

func TestInconsistentTerms_ContainedTranslation(t *testing.T) {
	reference := uifile.Parse("term: Field Service\nlong: Field Service Report\ntail: My Field Service")
	translations := uifile.Parse("term: Velddienst\nlong: VELDDIENST rapport\ntail: Mijn prediking")

	got := InconsistentTerms(reference, translations, nil)
	if len(got) != 1 {
		t.Fatalf("InconsistentTerms() = %#v, want one conflict", got)
	}
	if others := got[0].Others; len(others) != 1 || others[0].Key != "tail" {
		t.Fatalf("others = %#v, want only tail", others)
	}
}

func TestInconsistentTerms_UntranslatedTerm(t *testing.T) {
	reference := uifile.Parse("term: Value 2\nlong: Other Value 2")
	translations := uifile.Parse("long: Iets anders")
	if got := InconsistentTerms(reference, translations, nil); len(got) != 0 {
		t.Fatalf("untranslated term should not conflict, got %#v", got)
	}
}

func TestIsTerm(t *testing.T) {
	for value, want := range map[string]bool{
		"Two words":        true,
		"One":              false,
		"Three words here": false,
		"Trailing ":        true,
		"double  gap":      false,
	} {
		if got := IsTerm(value); got != want {
			t.Errorf("IsTerm(%q) = %v, want %v", value, got, want)
		}
	}
}

func TestUIInconsistencies(t *testing.T) {
	nwp := uifile.Parse(`"____GENERAL____": "",` + "\n" + `"key": "NWP Value",` + "\n" + `"key2": "Same",` + "\n" + `"unknown": "x"`)
	translations := uifile.Parse("key: NWS Value\nkey2: Same")
	known := []string{"key", "key2"}

	got := UIInconsistencies(nwp, translations, known, nil)
	want := []UIMismatch{{Key: "key", NWP: "NWP Value", NWS: "NWS Value"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("UIInconsistencies() = %#v, want %#v", got, want)
	}

	if got := UIInconsistencies(nwp, translations, known, []string{"key"}); len(got) != 0 {
		t.Fatalf("consistent key should be skipped, got %#v", got)
	}
}

func TestUIPlaceholders(t *testing.T) {
	reference := uifile.Parse("greet: Hello [NAME]\ncount: [N] items\ntwice: [A] and [A]\nplain: Text\nopen: [X]")
	translations := uifile.Parse("greet: Hallo [NAAM]\ncount: [N] items\ntwice: [A]\nplain: Tekst [EXTRA]\nopen: ")

	got := UIPlaceholders(reference, translations)
	want := []PlaceholderMismatch{
		{Key: "greet", Missing: []string{"NAME"}, Extra: []string{"NAAM"}},
		{Key: "twice"},
		{Key: "plain", Extra: []string{"EXTRA"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("UIPlaceholders() = %#v, want %#v", got, want)
	}
}

func TestMissingUIAndNWP(t *testing.T) {
	reference := uifile.Parse("empty: \nkey: Value\nkey2: Value 2")
	translations := uifile.Parse("key: Waarde\nempty: ")

	if got := MissingUI(reference, translations); !reflect.DeepEqual(got, []string{"key2"}) {
		t.Fatalf("MissingUI() = %#v, want [key2]", got)
	}

	nwp := uifile.New()
	nwp.Set(uifile.ReservedKey, "")
	nwp.Set("emptyKey", "")
	nwp.Set("key", "Has value")
	if got := MissingNWP(nwp); !reflect.DeepEqual(got, []string{"emptyKey"}) {
		t.Fatalf("MissingNWP() = %#v, want [emptyKey]", got)
	}
	if got := NWPKeys(nwp); !reflect.DeepEqual(got, []string{"emptyKey", "key"}) {
		t.Fatalf("NWPKeys() = %#v", got)
	}
	if got := NWPKeys(nil); got != nil {
		t.Fatalf("NWPKeys(nil) = %#v, want nil", got)
	}
}

func TestUnionKeys(t *testing.T) {
	got := UnionKeys(uifile.Parse("extraKey: Extra\nkey: Val"), uifile.Parse("empty: \nkey: Value\nkey2: Value 2"))
	want := []string{"extraKey", "key", "empty", "key2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("UnionKeys() = %#v, want %#v", got, want)
	}
}

func TestEmailInconsistencies(t *testing.T) {
	originals := map[int]emails.Email{
		1: {Text: "Hello [NAME], welcome!"},
		2: {Title: "No text"},
	}

	got := EmailInconsistencies(originals, map[int]emails.Email{
		1: {Text: "Hallo [OTHER], welkom!"},
		2: {Text: "[EXTRA]"},
	})
	want := map[int]emails.Email{1: {Text: "Hello [NAME], welcome!"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("EmailInconsistencies() = %#v, want %#v", got, want)
	}

	got = EmailInconsistencies(originals, map[int]emails.Email{1: {Text: "Hallo [NAME], welkom!"}})
	if len(got) != 0 {
		t.Fatalf("matching variables should not be flagged, got %#v", got)
	}
}

func TestChangedGroups(t *testing.T) {
	songs := []records.Song{{Number: "1", Title: "x"}}
	input := records.Bundle{Songs: songs, Tips: []records.Tip{{Heading: "h"}}}
	translations := records.Bundle{Songs: []records.Song{{Number: "1", Title: "x"}}, Outlines: []records.Outline{}}

	got := ChangedGroups(input, translations)
	if !reflect.DeepEqual(got, []records.Group{records.Tips}) {
		t.Fatalf("ChangedGroups() = %v, want [tips]", got)
	}
	if got := ChangedGroups(records.Bundle{}, records.Bundle{}); got != nil {
		t.Fatalf("ChangedGroups(empty) = %v, want nil", got)
	}
}
