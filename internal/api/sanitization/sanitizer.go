package sanitization

import (
	"html/template"
	"strings"
)

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// HeaderValue folds line breaks into spaces so a value cannot start a new header line
func HeaderValue(input string) string {
	return lineBreaks.Replace(input)
}

// EscapeHTML escapes characters with special meaning in HTML
func EscapeHTML(input string) string {
	return template.HTMLEscapeString(input)
}

// LineBreaksToHTML replaces each \n with <br>. Carriage returns are left as is.
func LineBreaksToHTML(input string) string {
	return strings.ReplaceAll(input, "\n", "<br>")
}
