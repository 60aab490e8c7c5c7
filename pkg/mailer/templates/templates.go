package templates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	htmpl "html/template"
	"strings"
	"sync"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// EmailData defines the fields available to every template.
type EmailData struct {
	FirstName string
	Email     string
	Brand     string
	URL       string
	ExpiresIn string
	ExpiresAt time.Time
}

// Template names.
const (
	Welcome       = "welcome"
	PasswordReset = "password_reset"
)

// ErrUnknownTemplate is returned by Render for a name with no template files.
var ErrUnknownTemplate = errors.New("templates: unknown template")

// defaultFn supports pipe usage: {{ .FirstName | default "there" }}
func defaultFn(fallback, value string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

var funcs = map[string]any{
	"default":    defaultFn,
	"upper":      strings.ToUpper,
	"formatTime": func(t time.Time, layout string) string { return t.Format(layout) },
}

// set is one parsed template family: subject, text and html bodies.
type set struct {
	subject *texttpl.Template
	text    *texttpl.Template
	html    *htmpl.Template
}

var (
	mu     sync.Mutex
	parsed = map[string]*set{}
)

func load(name string) (*set, error) {
	mu.Lock()
	defer mu.Unlock()
	if s, ok := parsed[name]; ok {
		return s, nil
	}
	if _, err := FS.Open(name + ".subject.tmpl"); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}

	s := &set{}
	var err error
	if s.subject, err = texttpl.New(name+".subject.tmpl").Funcs(funcs).ParseFS(FS, name+".subject.tmpl"); err != nil {
		return nil, fmt.Errorf("parse %s subject: %w", name, err)
	}
	if s.text, err = texttpl.New(name+".text.tmpl").Funcs(funcs).ParseFS(FS, name+".text.tmpl"); err != nil {
		return nil, fmt.Errorf("parse %s text: %w", name, err)
	}
	if s.html, err = htmpl.New(name+".html.tmpl").Funcs(funcs).ParseFS(FS, name+".html.tmpl"); err != nil {
		return nil, fmt.Errorf("parse %s html: %w", name, err)
	}
	parsed[name] = s
	return s, nil
}

// Render executes the subject, text and html templates of name. Only the
// html body is escaped.
func Render(name string, data EmailData) (subject, text, html string, err error) {
	s, err := load(name)
	if err != nil {
		return "", "", "", err
	}
	var buf bytes.Buffer
	if err = s.subject.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("exec %s subject: %w", name, err)
	}
	subject = strings.TrimSpace(buf.String())

	buf.Reset()
	if err = s.text.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("exec %s text: %w", name, err)
	}
	text = buf.String()

	buf.Reset()
	if err = s.html.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("exec %s html: %w", name, err)
	}
	return subject, text, buf.String(), nil
}
