package schedule

import (
	"regexp"
	"strings"
)

// Авторы таблицы регулярно пишут время через точку ("08.00" вместо "08:00").
var dotTimeRe = regexp.MustCompile(`(\d)\.(\d{2})`)

// NormalizeCell canonicalizes raw cell text: non-breaking spaces become
// ordinary spaces, dot-separated times become colon-separated, runs of
// whitespace collapse to a single space. Empty input yields "".
func NormalizeCell(raw string) string {
	s := strings.ReplaceAll(raw, " ", " ")
	s = dotTimeRe.ReplaceAllString(s, "$1:$2")
	return strings.Join(strings.Fields(s), " ")
}
