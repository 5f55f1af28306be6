package merchant

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Display renders a canonical merchant name for terminal output. Names stored
// entirely in upper case are title-cased; anything else is returned as given.
func Display(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || name != strings.ToUpper(name) {
		return name
	}
	return cases.Title(language.Und).String(strings.ToLower(name))
}
