// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"text/template"

	"github.com/z5labs/strata/internal/try"
)

// TemplateOption configures a [Template].
type TemplateOption func(*Template)

// TemplateFunc makes f callable from the template as name.
func TemplateFunc(name string, f any) TemplateOption {
	return func(t *Template) {
		t.funcs[name] = f
	}
}

// TemplateDelims sets the action delimiters. An empty delimiter stands
// for the default {{ or }}.
func TemplateDelims(left, right string) TemplateOption {
	return func(t *Template) {
		t.left = left
		t.right = right
	}
}

// TemplateData sets the value the template is executed with.
func TemplateData(v any) TemplateOption {
	return func(t *Template) {
		t.data = v
	}
}

// Template is an [io.ReadCloser] which renders a text/template read from
// another reader. It is meant to sit in front of a document source:
//
//	config.FromYaml(config.RenderTemplate(f, config.TemplateFunc("env", os.Getenv)))
type Template struct {
	r io.Reader

	left, right string
	funcs       template.FuncMap
	data        any

	once sync.Once
	err  error
	buf  bytes.Buffer
}

// RenderTemplate returns a [Template] rendering the contents of r on the
// first read.
func RenderTemplate(r io.Reader, opts ...TemplateOption) *Template {
	t := &Template{
		r:     r,
		funcs: make(template.FuncMap),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TemplateParseError occurs when the config template cannot be parsed.
type TemplateParseError struct {
	Cause error
}

// Error implements the error interface.
func (e TemplateParseError) Error() string {
	return fmt.Sprintf("failed to parse config template: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e TemplateParseError) Unwrap() error {
	return e.Cause
}

// TemplateExecError occurs when the config template fails to execute,
// usually because one of its funcs returned an error.
type TemplateExecError struct {
	Cause error
}

// Error implements the error interface.
func (e TemplateExecError) Error() string {
	return fmt.Sprintf("failed to exec config template: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e TemplateExecError) Unwrap() error {
	return e.Cause
}

// Read implements the [io.Reader] interface.
func (t *Template) Read(b []byte) (int, error) {
	t.once.Do(t.render)
	if t.err != nil {
		return 0, t.err
	}
	return t.buf.Read(b)
}

// Close closes the underlying reader if it is an [io.Closer].
func (t *Template) Close() (err error) {
	try.Close(&err, t.r)
	return
}

func (t *Template) render() {
	src, err := io.ReadAll(t.r)
	if err != nil {
		t.err = err
		return
	}

	tmpl, err := template.New("config").
		Delims(t.left, t.right).
		Funcs(t.funcs).
		Parse(string(src))
	if err != nil {
		t.err = TemplateParseError{Cause: err}
		return
	}

	err = tmpl.Execute(&t.buf, t.data)
	if err != nil {
		t.err = TemplateExecError{Cause: err}
	}
}
