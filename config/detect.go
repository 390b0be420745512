package config

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/nwstranslate/nwskit/emails"
	"github.com/nwstranslate/nwskit/records"
	"github.com/nwstranslate/nwskit/uifile"
)

// Sources lists the importable datasets found in a directory.
type Sources struct {
	// Dir is the scanned directory.
	Dir string
	// UIText is a translation file in simple syntax (*.txt).
	UIText string
	// NWPText is a translation file in quoted NWP syntax (*.txt).
	NWPText string
	// ProgramUI is a ProgramUI.json file.
	ProgramUI string
	// Records maps each record group to its <group>.json file.
	Records map[records.Group]string
	// Emails are the templates found under DefaultEmailTemplates/.
	Emails []EmailSource
}

// EmailSource is one template file laid out as
// DefaultEmailTemplates/<Group>/<nr>_<title>.txt.
type EmailSource struct {
	Group emails.Group
	Nr    int
	Title string
	Path  string
}

// Empty reports whether nothing importable was found.
func (s *Sources) Empty() bool {
	return s.UIText == "" && s.NWPText == "" && s.ProgramUI == "" &&
		len(s.Records) == 0 && len(s.Emails) == 0
}

// programUIName is the file name the program uses for its UI strings.
const programUIName = "ProgramUI.json"

var emailFileRe = regexp.MustCompile(`^(\d+)_(.+)\.txt$`)

// Detect scans dir for importable datasets. The first matching file of each
// kind wins, in lexical order; unreadable entries are skipped.
func Detect(dir string) (*Sources, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	s := &Sources{Dir: dir, Records: make(map[records.Group]string)}
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)

		if entry.IsDir() {
			if name == emails.RootFolder {
				s.Emails = detectEmails(path)
			}
			continue
		}

		switch {
		case strings.EqualFold(name, programUIName):
			if s.ProgramUI == "" {
				s.ProgramUI = path
			}
		case strings.HasSuffix(name, ".json"):
			g, err := records.ParseGroup(strings.TrimSuffix(name, ".json"))
			if err != nil {
				continue
			}
			if _, seen := s.Records[g]; !seen {
				s.Records[g] = path
			}
		case strings.HasSuffix(name, ".txt"):
			detectUIText(s, path)
		}
	}
	return s, nil
}

// detectUIText sorts a .txt file into the simple or quoted slot.
func detectUIText(s *Sources, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if uifile.IsQuoted(string(data)) {
		if s.NWPText == "" {
			s.NWPText = path
		}
		return
	}
	if s.UIText == "" {
		s.UIText = path
	}
}

// detectEmails finds template files in root/<Group>/ directories. Group
// directories match case-insensitively, so exported archives import as is.
func detectEmails(root string) []EmailSource {
	groupDirs, err := os.ReadDir(root)
	if err != nil {
		return nil
	}

	var found []EmailSource
	for _, gd := range groupDirs {
		if !gd.IsDir() {
			continue
		}
		g, err := emails.ParseGroup(gd.Name())
		if err != nil {
			continue
		}
		files, err := os.ReadDir(filepath.Join(root, gd.Name()))
		if err != nil {
			continue
		}
		for _, f := range files {
			m := emailFileRe.FindStringSubmatch(f.Name())
			if f.IsDir() || m == nil {
				continue
			}
			nr, err := strconv.Atoi(m[1])
			if err != nil || nr <= 0 {
				continue
			}
			found = append(found, EmailSource{
				Group: g,
				Nr:    nr,
				Title: m[2],
				Path:  filepath.Join(root, gd.Name(), f.Name()),
			})
		}
	}

	order := make(map[emails.Group]int, len(emails.Groups))
	for i, info := range emails.Groups {
		order[info.Key] = i
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].Group != found[j].Group {
			return order[found[i].Group] < order[found[j].Group]
		}
		return found[i].Nr < found[j].Nr
	})
	return found
}
