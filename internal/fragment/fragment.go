// Package fragment renders the fixed-shape error, success and loading blocks
// written into page regions.
package fragment

import (
	"embed"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// Kind names a fragment template.
type Kind string

// Fragment kinds. Each doubles as the CSS class of the fragment's root element.
const (
	KindError   Kind = "error"
	KindSuccess Kind = "success"
	KindLoading Kind = "loading"
)

// DefaultLoadingMessage is shown by Loading when no message is given.
const DefaultLoadingMessage = "Loading..."

type data struct {
	Message string
	Code    string
}

// Error renders the error block. The code span is omitted when code is empty.
func Error(message, code string) (string, error) {
	return render(KindError, data{Message: message, Code: code})
}

// Success renders the success block.
func Success(message string) (string, error) {
	return render(KindSuccess, data{Message: message})
}

// Loading renders a spinner with message, or DefaultLoadingMessage when empty.
func Loading(message string) (string, error) {
	if message == "" {
		message = DefaultLoadingMessage
	}
	return render(KindLoading, data{Message: message})
}

func render(kind Kind, d data) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, string(kind), d); err != nil {
		return "", err
	}
	return b.String(), nil
}
