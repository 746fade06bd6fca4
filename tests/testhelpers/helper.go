// Package testhelpers provides helpers for integration tests.
package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"github.com/treetab/treetab/core"
)

const (
	// eventBufferTime is a padding to let events come through
	eventBufferTime = 100 * time.Millisecond
	// eventTimeout is the maximum time to wait for an event to come through
	eventTimeout = 10 * time.Second
)

// errTimeOut is an error for when an event did not finish within the expected time.
var errTimeOut = fmt.Errorf("event did not finish within %v", eventTimeout)

// GetContainerProvider returns the container provider type to use for the tests.
// If we detect podman is available, we use it, otherwise we use docker.
func GetContainerProvider() testcontainers.ProviderType {
	if _, err := exec.LookPath("podman"); err == nil {
		fmt.Println("Podman detected. Remember to set TESTCONTAINERS_RYUK_CONTAINER_PRIVILEGED=true;")
		return testcontainers.ProviderPodman
	}
	return testcontainers.ProviderDocker
}

// GetResult is a helper function for calling the Execute method on a
// connection and waiting for the drained table to be available.
func GetResult(t *testing.T, conn *core.Connection, query string) (*core.Table, []core.CallState, error) {
	t.Helper()

	outStates := make([]core.CallState, 0)

	call := conn.Execute(query, func(state core.CallState, _ *core.Call) {
		outStates = append(outStates, state)
	})

	select {
	case <-call.Done():
		time.Sleep(eventBufferTime)
		require.NoError(t, call.Err())

		table, err := call.GetResult().Table()
		require.NoError(t, err)
		return table, outStates, nil

	case <-time.After(eventTimeout):
		return nil, nil, errTimeOut
	}
}

// GetResultWithCancel is a helper function for calling the Execute method on a
// connection and canceling the call after the first state is received.
func GetResultWithCancel(t *testing.T, conn *core.Connection, query string) ([]core.CallState, error) {
	t.Helper()

	outStates := make([]core.CallState, 0)

	call := conn.Execute(query, func(cs core.CallState, c *core.Call) {
		outStates = append(outStates, cs)
		c.Cancel()
	})

	select {
	case <-call.Done():
		time.Sleep(eventBufferTime)
		return outStates, nil
	case <-time.After(eventTimeout):
		return nil, errTimeOut
	}
}

// GetSchemas returns a list of schema names from the given structure.
func GetSchemas(t *testing.T, structure []*core.Structure) []string {
	t.Helper()

	schemas := make([]string, 0)
	for _, s := range structure {
		if s.Name == s.Schema {
			schemas = append(schemas, s.Name)
		}
	}
	return schemas
}

// GetModels returns a list of model names (views, tables, etc) from the given structure.
func GetModels(t *testing.T, structure []*core.Structure, modelType core.StructureType) []string {
	t.Helper()

	out := make([]string, 0)
	for _, s := range structure {
		for _, c := range s.Children {
			if c.Type == modelType {
				out = append(out, c.Name)
			}
		}
	}
	return out
}

// GetTestDataPath returns the path to the testdata directory.
func GetTestDataPath() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to get current file path")
	}

	return filepath.Join(filepath.Dir(currentFile), "../testdata"), nil
}

// GetTestDataFile returns a file from the testdata directory.
func GetTestDataFile(filename string) (*os.File, error) {
	testDataPath, err := GetTestDataPath()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(testDataPath, filename)
	return os.Open(path)
}
