package emails

import "testing"

func TestGroups(t *testing.T) {
	if len(Groups) != 8 {
		t.Fatalf("len(Groups) = %d, want 8", len(Groups))
	}
	total := 0
	for _, g := range Groups {
		if !g.Key.Valid() {
			t.Errorf("%s not valid", g.Key)
		}
		total += g.Count
	}
	if total != 43 {
		t.Fatalf("total template count = %d, want 43", total)
	}
	if Group("nope").Valid() {
		t.Fatal("unknown group reported valid")
	}
}

func TestParseGroup(t *testing.T) {
	g, err := ParseGroup("PUBLICTALKS")
	if err != nil || g != PublicTalks {
		t.Fatalf("ParseGroup() = %q, %v", g, err)
	}
	if _, err := ParseGroup("letters"); err == nil {
		t.Fatal("expected error")
	}
}

func TestDecodeAndStringify(t *testing.T) {
	e, err := Decode([]byte("{\"text\": \"Line 1\\r\\nLine 2 [NAME]\", \"title\": \"Hi\\r\"}"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if e.Text != "Line 1\nLine 2 [NAME]" || e.Title != "Hi" {
		t.Fatalf("Decode() = %#v", e)
	}

	want := "{\n  \"text\": \"Line 1\\nLine 2 [NAME]\",\n  \"title\": \"Hi\"\n}"
	if got := Stringify(e); got != want {
		t.Fatalf("Stringify() = %q, want %q", got, want)
	}

	if _, err := Decode([]byte(`{"body": "x"}`)); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestExportPath(t *testing.T) {
	got := ExportPath(LifeAndMinistryMeeting, 2, "Reminder")
	want := "DefaultEmailTemplates/LifeAndMinistryMeeting/2_Reminder.txt"
	if got != want {
		t.Fatalf("ExportPath() = %q, want %q", got, want)
	}
}
