package consistency

import (
	"github.com/nwstranslate/nwskit/emails"
	"github.com/nwstranslate/nwskit/placeholder"
)

// EmailInconsistencies returns, keyed by template number, the originals
// whose placeholder variables differ from their translation's. Originals
// without text are never reported.
func EmailInconsistencies(originals, translations map[int]emails.Email) map[int]emails.Email {
	out := make(map[int]emails.Email)
	for nr, o := range originals {
		if o.Text == "" {
			continue
		}
		if !placeholder.Match(o.Text, translations[nr].Text) {
			out[nr] = o
		}
	}
	return out
}
