package views

import (
	"embed"
	"net/http"
	"strconv"
	"strings"
	"time"

	html "github.com/gofiber/template/html/v2"
)

//go:embed templates/*.html
var files embed.FS

// New returns the template engine backed by the embedded pages.
func New(loc *time.Location) *html.Engine {
	engine := html.NewFileSystem(http.FS(files), ".html")
	engine.Directory = "templates"
	engine.AddFunc("money", Money)
	engine.AddFunc("date", func(rfc3339 string) string { return Date(rfc3339, loc) })
	return engine
}

// Money formats whole kwanza with dot thousands separators, e.g. "12.500 Kz".
func Money(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	digits := strconv.FormatInt(v, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := b.String() + " Kz"
	if neg {
		return "-" + out
	}
	return out
}

// Date renders an RFC 3339 timestamp as dd/mm/yyyy in loc. Unparsable input is returned as is.
func Date(rfc3339 string, loc *time.Location) string {
	t, err := time.Parse(time.RFC3339, rfc3339)
	if err != nil {
		return rfc3339
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("02/01/2006")
}
