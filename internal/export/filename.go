package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var whitespace = regexp.MustCompile(`\s+`)

// FileName derives the download name: fullName with whitespace runs replaced
// by "-", or resume-<unix millis>.pdf when fullName is blank.
func FileName(fullName string, now time.Time) string {
	name := strings.TrimSpace(fullName)
	if name == "" {
		return fmt.Sprintf("resume-%d.pdf", now.UnixMilli())
	}
	return whitespace.ReplaceAllString(name, "-") + ".pdf"
}
