package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	ansiReset = "\033[0m"
	ansiRed   = "\033[31m"
	ansiWhite = "\033[37m"
	ansiCyan  = "\033[36m"
	ansiGray  = "\033[90m"
	ansiBold  = "\033[1m"
)

var useColor = true

// DisableColors turns off ANSI escapes in formatted output.
func DisableColors() { useColor = false }

// EnableColors turns ANSI escapes back on.
func EnableColors() { useColor = true }

// paint wraps text in the given escape sequences.
func paint(text string, codes ...string) string {
	if !useColor || len(codes) == 0 {
		return text
	}
	return strings.Join(codes, "") + text + ansiReset
}

// indent writes each line two spaces in, followed by a blank line.
func indent(b *strings.Builder, lines ...string) {
	for _, line := range lines {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n")
}

// Format renders the error for a terminal: header, location, cause,
// detail and hint, in that order.
func (e *Error) Format() string {
	var b strings.Builder

	header := paint("ERROR: ", ansiRed, ansiBold)
	if e.Code != "" {
		header = paint("ERROR ", ansiRed, ansiBold) + paint(e.Code+": ", ansiWhite, ansiBold)
	}
	b.WriteString("\n" + header + paint(e.Message, ansiWhite) + "\n\n")

	if e.Location != nil {
		indent(&b, paint(e.Location.String(), ansiCyan))
	}
	if e.Wrapped != nil {
		indent(&b, paint(e.Wrapped.Error(), ansiGray))
	}
	if lines := wrapText(e.Detail, 70); len(lines) > 0 {
		indent(&b, lines...)
	}
	if e.Suggestion != "" {
		indent(&b, paint("Hint: ", ansiCyan)+e.Suggestion)
	}
	return b.String()
}

// FormatCompact renders the error on one line, prefixed by its location.
func (e *Error) FormatCompact() string {
	if e.Location == nil {
		return e.Error()
	}
	return e.Location.String() + ": " + e.Error()
}

type jsonError struct {
	Code       string   `json:"code,omitempty"`
	Category   Category `json:"category"`
	Message    string   `json:"message"`
	Detail     string   `json:"detail,omitempty"`
	File       string   `json:"file,omitempty"`
	Pattern    *int     `json:"pattern,omitempty"`
	Cause      string   `json:"cause,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// FormatJSON returns the error as a JSON object.
func (e *Error) FormatJSON() string {
	out := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Suggestion: e.Suggestion,
	}
	if e.Location != nil {
		out.File = e.Location.File
		if e.Location.Pattern >= 0 {
			p := e.Location.Pattern
			out.Pattern = &p
		}
	}
	if e.Wrapped != nil {
		out.Cause = e.Wrapped.Error()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Message)
	}
	return string(data)
}

// wrapText splits text into lines of at most width bytes, breaking on
// whitespace. Single words longer than width get their own line.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	lines := []string{words[0]}
	for _, word := range words[1:] {
		last := &lines[len(lines)-1]
		if len(*last)+1+len(word) > width {
			lines = append(lines, word)
			continue
		}
		*last += " " + word
	}
	return lines
}

// PrintError writes err to w, using the terminal format for coded errors.
func PrintError(w io.Writer, err error) {
	if ce, ok := err.(*Error); ok {
		fmt.Fprint(w, ce.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", paint("ERROR:", ansiRed, ansiBold), err.Error())
}
