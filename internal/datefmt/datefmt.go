// Package datefmt formats times with yyyy/MM/dd/HH/mm/ss tokens.
package datefmt

import (
	"fmt"
	"regexp"
	"time"
)

// Common layouts.
const (
	DateTime            = "yyyy-MM-dd HH:mm"
	Date                = "yyyy-MM-dd"
	Time                = "HH:mm"
	DateTimeWithSeconds = "yyyy-MM-dd HH:mm:ss"
)

// Invalid is returned for the zero time.
const Invalid = "Invalid Date"

var tokenRE = regexp.MustCompile(`yyyy|MM|dd|HH|mm|ss`)

// Format renders t in its own location. Text that is not a token is copied
// unchanged.
func Format(t time.Time, layout string) string {
	if t.IsZero() {
		return Invalid
	}
	return tokenRE.ReplaceAllStringFunc(layout, func(tok string) string {
		switch tok {
		case "yyyy":
			return fmt.Sprintf("%04d", t.Year())
		case "MM":
			return fmt.Sprintf("%02d", int(t.Month()))
		case "dd":
			return fmt.Sprintf("%02d", t.Day())
		case "HH":
			return fmt.Sprintf("%02d", t.Hour())
		case "mm":
			return fmt.Sprintf("%02d", t.Minute())
		default:
			return fmt.Sprintf("%02d", t.Second())
		}
	})
}
