package core

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	r := require.New(t)

	testCases := []struct {
		input    string
		expected string
	}{
		{"normal string", "normal string"},
		{"{{ env `HOME` }}", os.Getenv("HOME")},
		{"{{ exec `echo \"hello\nbuddy\" | grep buddy` }}", "buddy"},
	}

	for _, tc := range testCases {
		actual, err := expand(tc.input)
		r.NoError(err)

		r.Equal(tc.expected, actual)
	}
}

func TestConnectionParams_Expand(t *testing.T) {
	r := require.New(t)

	t.Setenv("TREETAB_TEST_DB", "postgres://localhost/dev")

	params := &ConnectionParams{
		ID:   "dev",
		Name: "dev",
		Type: "postgres",
		URL:  `{{ env "TREETAB_TEST_DB" }}`,
	}

	expanded := params.Expand()
	r.Equal("postgres://localhost/dev", expanded.URL)

	// original stays untouched
	r.Equal(`{{ env "TREETAB_TEST_DB" }}`, params.URL)
}
