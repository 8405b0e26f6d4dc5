// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTemplate(t *testing.T) {
	t.Run("will render funcs and data before the document is parsed", func(t *testing.T) {
		r := &closeRecorder{Reader: strings.NewReader("name: {{ upper .Name }}\nworkers: {{ workers }}\n")}
		tmpl := RenderTemplate(r,
			TemplateFunc("upper", strings.ToUpper),
			TemplateFunc("workers", func() int { return 4 }),
			TemplateData(struct{ Name string }{Name: "demo"}),
		)

		m, err := Read(FromYaml(tmpl))
		require.NoError(t, err)
		require.True(t, r.closed)
		require.Equal(t, Map{"name": "DEMO", "workers": 4}, m.Map())
	})

	t.Run("will use custom delimiters", func(t *testing.T) {
		tmpl := RenderTemplate(strings.NewReader(`{"name": "<< name >>"}`),
			TemplateDelims("<<", ">>"),
			TemplateFunc("name", func() string { return "demo" }),
		)

		m, err := Read(FromJson(tmpl))
		require.NoError(t, err)
		require.Equal(t, Map{"name": "demo"}, m.Map())
	})

	t.Run("will return a", func(t *testing.T) {
		fnErr := errors.New("no value")

		testCases := []struct {
			Name   string
			Tmpl   *Template
			Target any
		}{
			{
				Name:   "TemplateParseError if the template is malformed",
				Tmpl:   RenderTemplate(strings.NewReader("name: {{ .Name")),
				Target: &TemplateParseError{},
			},
			{
				Name: "TemplateExecError if a func fails",
				Tmpl: RenderTemplate(strings.NewReader("name: {{ fail }}"),
					TemplateFunc("fail", func() (string, error) { return "", fnErr }),
				),
				Target: &TemplateExecError{},
			},
		}

		for _, testCase := range testCases {
			t.Run(testCase.Name, func(t *testing.T) {
				_, err := Read(FromYaml(testCase.Tmpl))
				require.ErrorAs(t, err, testCase.Target)
			})
		}
	})
}
