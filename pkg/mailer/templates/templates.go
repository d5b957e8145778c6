// Package templates renders the transactional emails. Each template has
// a text and an HTML variant; the one-time token link is the only
// dynamic part that matters.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
)

//go:embed *.tmpl
var fs embed.FS

var subjects = map[string]string{
	"confirm_account": "Welcome {{.Name}}!",
	"reset_password":  "{{.Name}}, reset your password",
}

// Render produces subject, text body and HTML body for the named
// template. Unknown names are an error so the worker can reject the job.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	subjectTmpl, ok := subjects[name]
	if !ok {
		return "", "", "", fmt.Errorf("templates: unknown template %q", name)
	}

	subject, err = renderText("subject", subjectTmpl, data)
	if err != nil {
		return "", "", "", err
	}
	text, err = renderFile(name+".txt.tmpl", data)
	if err != nil {
		return "", "", "", err
	}
	html, err = renderHTMLFile(name+".html.tmpl", data)
	if err != nil {
		return "", "", "", err
	}
	return subject, text, html, nil
}

func renderText(name, tmpl string, data map[string]any) (string, error) {
	t, err := texttpl.New(name).Parse(tmpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderFile(name string, data map[string]any) (string, error) {
	b, err := fs.ReadFile(name)
	if err != nil {
		return "", err
	}
	return renderText(name, string(b), data)
}

func renderHTMLFile(name string, data map[string]any) (string, error) {
	t, err := htmpl.ParseFS(fs, name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
