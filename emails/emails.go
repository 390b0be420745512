// Package emails defines the default email templates that are translated
// per group and number, and their on-disk forms.
//
// A template document is a small JSON object:
//
//	{
//	  "text": "Dear [NAME], ...",
//	  "title": "Assignment reminder"
//	}
package emails

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Email is one email template. Both fields are optional.
type Email struct {
	Text  string `json:"text,omitempty"`
	Title string `json:"title,omitempty"`
}

// IsZero reports whether the template has neither text nor title.
func (e Email) IsZero() bool {
	return e.Text == "" && e.Title == ""
}

// Group is one of the fixed template categories.
type Group string

const (
	AssignmentsAndDuties   Group = "assignmentsAndDuties"
	FieldServiceReports    Group = "fieldServiceReports"
	LifeAndMinistryMeeting Group = "lifeAndMinistryMeeting"
	Other                  Group = "other"
	Persons                Group = "persons"
	PublicTalks            Group = "publicTalks"
	Schedules              Group = "schedules"
	Territory              Group = "territory"
)

// GroupInfo describes a group: how many templates it holds and its label.
type GroupInfo struct {
	Key   Group
	Count int
	Label string
}

// Groups is the closed, ordered set of email groups.
var Groups = []GroupInfo{
	{Key: AssignmentsAndDuties, Count: 9, Label: "Toewijzingen en taken"},
	{Key: FieldServiceReports, Count: 6, Label: "Velddienstrapporten"},
	{Key: LifeAndMinistryMeeting, Count: 3, Label: "LED-vergadering"},
	{Key: Other, Count: 3, Label: "Overig"},
	{Key: Persons, Count: 6, Label: "Personen"},
	{Key: PublicTalks, Count: 11, Label: "Openbare lezingen"},
	{Key: Schedules, Count: 2, Label: "Schema's"},
	{Key: Territory, Count: 3, Label: "Gebied"},
}

// Info returns the descriptor for g.
func (g Group) Info() (GroupInfo, bool) {
	for _, info := range Groups {
		if info.Key == g {
			return info, true
		}
	}
	return GroupInfo{}, false
}

// Valid reports whether g is one of Groups.
func (g Group) Valid() bool {
	_, ok := g.Info()
	return ok
}

// ParseGroup resolves a group key. Matching ignores case.
func ParseGroup(s string) (Group, error) {
	s = strings.TrimSpace(s)
	for _, info := range Groups {
		if strings.EqualFold(string(info.Key), s) {
			return info.Key, nil
		}
	}
	return "", fmt.Errorf("unknown email group %q", s)
}

// Item is a template together with its position, as exported.
type Item struct {
	Group Group
	Nr    int
	Email
}

// ---------------------------------------------------------------------------
// Codec
// ---------------------------------------------------------------------------

// Decode parses a template document. Carriage returns are removed.
func Decode(data []byte) (Email, error) {
	var e Email
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&e); err != nil {
		return Email{}, fmt.Errorf("parsing email template: %w", err)
	}
	return clean(e), nil
}

// Stringify renders a template document with 2-space indentation and
// carriage returns removed.
func Stringify(e Email) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	// Encoding a struct of strings cannot fail.
	_ = enc.Encode(clean(e))
	return strings.TrimSuffix(buf.String(), "\n")
}

func clean(e Email) Email {
	e.Text = strings.ReplaceAll(e.Text, "\r", "")
	e.Title = strings.ReplaceAll(e.Title, "\r", "")
	return e
}

// RootFolder is the top-level directory of exported templates.
const RootFolder = "DefaultEmailTemplates"

// ExportPath returns the archive path of a template:
// DefaultEmailTemplates/<Group>/<nr>_<title>.txt with the group name's
// first letter upper-cased.
func ExportPath(g Group, nr int, title string) string {
	caser := cases.Title(language.Und, cases.NoLower)
	return path.Join(RootFolder, caser.String(string(g)), strconv.Itoa(nr)+"_"+title+".txt")
}
