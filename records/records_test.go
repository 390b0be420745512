package records

import (
	"reflect"
	"strings"
	"testing"
)

func TestDecodeLiterature(t *testing.T) {
	data := []byte(`[
		{"id": 1, "categoryName": "CategoryName", "itemNumber": "1", "symbol": "s", "title": "Title"},
		{"id": 2, "categoryName": "Other", "itemNumber": "", "symbol": "", "title": "Title"}
	]`)
	got, err := DecodeLiterature(data)
	if err != nil {
		t.Fatalf("DecodeLiterature: %v", err)
	}
	want := []LiteratureItem{
		{ID: 1, CategoryName: "CategoryName", ItemNumber: "1", Symbol: "s", Title: "Title"},
		{ID: 2, CategoryName: "Other", Title: "Title"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DecodeLiterature() = %#v, want %#v", got, want)
	}
}

func TestDecodeLiterature_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"empty title", `[{"id": 1, "categoryName": "c", "itemNumber": "", "symbol": "", "title": ""}]`, "title"},
		{"missing id", `[{"categoryName": "c", "itemNumber": "", "symbol": "", "title": "t"}]`, "id"},
		{"unknown field", `[{"id": 1, "categoryName": "c", "itemNumber": "", "symbol": "", "title": "t", "extra": 1}]`, "unknown field"},
		{"not an array", `{"id": 1}`, "parsing JSON"},
		{"null", `null`, "expected an array"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeLiterature([]byte(tc.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error = %q, want it to mention %q", err, tc.want)
			}
		})
	}
}

func TestDecodeOutlines(t *testing.T) {
	got, err := DecodeOutlines([]byte(`[
		{"number": 1, "title": "Outline 1", "updated": "1/23"},
		{"number": 2, "updated": "", "notes": "Update Note"}
	]`))
	if err != nil {
		t.Fatalf("DecodeOutlines: %v", err)
	}
	want := []Outline{
		{Number: 1, Title: "Outline 1", Updated: "1/23"},
		{Number: 2, Notes: "Update Note"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DecodeOutlines() = %#v, want %#v", got, want)
	}

	if _, err := DecodeOutlines([]byte(`[{"number": 0, "updated": ""}]`)); err == nil {
		t.Fatal("expected error for non-positive number")
	}
	if _, err := DecodeOutlines([]byte(`[{"number": 3}]`)); err == nil {
		t.Fatal("expected error for missing updated")
	}
}

func TestDecodeSongsAndTips(t *testing.T) {
	songs, err := DecodeSongs([]byte(`[{"number": "1", "title": "Song 1"}]`))
	if err != nil {
		t.Fatalf("DecodeSongs: %v", err)
	}
	if len(songs) != 1 || songs[0].Title != "Song 1" {
		t.Fatalf("DecodeSongs() = %#v", songs)
	}

	tips, err := DecodeTips([]byte(`[{"heading": "H", "text": "T", "url": "https://example.com"}]`))
	if err != nil {
		t.Fatalf("DecodeTips: %v", err)
	}
	if len(tips) != 1 || tips[0].URL != "https://example.com" {
		t.Fatalf("DecodeTips() = %#v", tips)
	}

	_, err = DecodeTips([]byte(`[
		{"heading": "H", "text": "T", "url": "https://example.com"},
		{"heading": "", "text": "T", "url": "not a url"}
	]`))
	if err == nil {
		t.Fatal("expected error for invalid tip")
	}
	msg := err.Error()
	if !strings.Contains(msg, "item 1") || !strings.Contains(msg, "heading") || !strings.Contains(msg, "url") {
		t.Fatalf("error = %q, want item index and both fields", msg)
	}
}

func TestDecodeDispatch(t *testing.T) {
	b, err := Decode(Songs, []byte(`[{"number": "1", "title": "Song 1"}]`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !b.Has(Songs) || b.Has(Tips) || b.Len(Songs) != 1 {
		t.Fatalf("Decode() bundle = %#v", b)
	}

	if _, err := Decode(Tips, []byte(`[{"heading": ""}]`)); err == nil || !strings.HasPrefix(err.Error(), "tips:") {
		t.Fatalf("Decode(tips) error = %v, want tips: prefix", err)
	}
}

func TestParseGroup(t *testing.T) {
	if g, err := ParseGroup(" Tips "); err != nil || g != Tips {
		t.Fatalf("ParseGroup(Tips) = %q, %v", g, err)
	}
	if _, err := ParseGroup("emails"); err == nil {
		t.Fatal("expected error for unknown group")
	}
}

func TestBundleOnly(t *testing.T) {
	b := Bundle{Songs: []Song{{Number: "1", Title: "x"}}, Tips: []Tip{}}
	only := b.Only(Tips)
	if only.Has(Songs) || !only.Has(Tips) {
		t.Fatalf("Only(Tips) = %#v", only)
	}
}

func TestBundleWith(t *testing.T) {
	base := Bundle{
		Songs: []Song{{Number: "1", Title: "old"}},
		Tips:  []Tip{{Heading: "keep"}},
	}
	src := Bundle{
		Songs:      []Song{{Number: "1", Title: "new"}},
		Literature: []LiteratureItem{{ID: 1}},
	}

	got := base.With(src)
	if got.Songs[0].Title != "new" || len(got.Literature) != 1 || got.Tips[0].Heading != "keep" {
		t.Fatalf("With() = %#v", got)
	}

	got = base.With(src, Literature)
	if got.Songs[0].Title != "old" || len(got.Literature) != 1 {
		t.Fatalf("With(src, Literature) = %#v", got)
	}
	if base.Literature != nil {
		t.Fatal("With() modified its receiver")
	}
}
