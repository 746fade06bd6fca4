package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"strings"
	"text/template"
)

type ConnectionParams struct {
	ID   ConnectionID
	Name string
	Type string
	URL  string
}

// Expand returns a copy of the original parameters with expanded fields
func (p *ConnectionParams) Expand() *ConnectionParams {
	return &ConnectionParams{
		ID:   ConnectionID(expandOrDefault(string(p.ID))),
		Name: expandOrDefault(p.Name),
		Type: expandOrDefault(p.Type),
		URL:  expandOrDefault(p.URL),
	}
}

func (p *ConnectionParams) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
		URL  string `json:"url"`
	}{
		ID:   string(p.ID),
		Name: p.Name,
		Type: p.Type,
		URL:  p.URL,
	})
}

// expand renders {{env "VAR"}} and {{exec "cmd"}} templates in a param
// field, so urls with secrets can stay out of config files.
func expand(value string) (string, error) {
	tmpl, err := template.New("expand_variables").
		Funcs(template.FuncMap{
			"env": os.Getenv,
			"exec": func(line string) (string, error) {
				if strings.Contains(line, " | ") {
					out, err := exec.Command("sh", "-c", line).Output()
					return strings.TrimSpace(string(out)), err
				}

				fields := strings.Fields(line)
				if len(fields) < 1 {
					return "", errors.New("no command provided")
				}

				out, err := exec.Command(fields[0], fields[1:]...).Output()
				return strings.TrimSpace(string(out)), err
			},
		}).
		Parse(value)
	if err != nil {
		return "", err
	}

	var out bytes.Buffer
	if err := tmpl.Execute(&out, nil); err != nil {
		return "", err
	}

	return out.String(), nil
}

// expandOrDefault silently suppresses errors.
func expandOrDefault(value string) string {
	ex, err := expand(value)
	if err != nil {
		return value
	}
	return ex
}
