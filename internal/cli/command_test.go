package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with the given args and returns stdout and the
// command error.
func execute(t *testing.T, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

// withFixedBuildID pins report IDs for golden comparison.
func withFixedBuildID(t *testing.T) {
	t.Helper()
	prev := newBuildID
	newBuildID = func() string { return "test-build-id" }
	t.Cleanup(func() { newBuildID = prev })
}

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// TestTermsCommand_Golden tests the text rendering of an expanded product
// formula against a golden file.
func TestTermsCommand_Golden(t *testing.T) {
	buf, err := execute(t, "terms", "y ~ a + b*c")
	require.NoError(t, err)
	golden(t).Assert(t, "terms_product", buf.Bytes())
}

// TestTermsCommand_JSON tests the JSON envelope of the terms command.
func TestTermsCommand_JSON(t *testing.T) {
	buf, err := execute(t, "--format", "json", "terms", "y ~ a + b")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "y ~ a + b", data["formula"])
	assert.Equal(t, "y", data["response"])
	assert.Equal(t, true, data["intercept"])
	assert.Len(t, data["terms"], 2)
}

// TestTermsCommand_ParseError tests the error envelope and exit code for
// bad syntax.
func TestTermsCommand_ParseError(t *testing.T) {
	buf, err := execute(t, "terms", "y ~")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E101]")
}

// TestMatrixCommand_Golden tests the full build pipeline on a clean
// dataset.
func TestMatrixCommand_Golden(t *testing.T) {
	withFixedBuildID(t)
	buf, err := execute(t, "matrix", "y ~ a + b", "testdata/simple.yaml")
	require.NoError(t, err)
	golden(t).Assert(t, "matrix_simple", buf.Bytes())
}

// TestMatrixCommand_MissingRowsGolden tests that rows with missing cells
// are dropped and unused levels pruned before coding.
func TestMatrixCommand_MissingRowsGolden(t *testing.T) {
	withFixedBuildID(t)
	buf, err := execute(t, "matrix", "y ~ g", "testdata/missing.yaml")
	require.NoError(t, err)
	golden(t).Assert(t, "matrix_missing", buf.Bytes())
}

// TestMatrixCommand_JSON tests the JSON matrix report shape.
func TestMatrixCommand_JSON(t *testing.T) {
	buf, err := execute(t, "--format", "json", "matrix", "y ~ a + b", "testdata/simple.yaml")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, data["build_id"])
	assert.Equal(t, float64(3), data["rows"])
	assert.Equal(t, float64(3), data["columns"])
	assert.Equal(t, []any{float64(0), float64(1), float64(2)}, data["assign"])
}

// TestMatrixCommand_UnknownColumn tests the frame-build failure path.
func TestMatrixCommand_UnknownColumn(t *testing.T) {
	buf, err := execute(t, "matrix", "y ~ z", "testdata/simple.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E103]")
}

// TestMatrixCommand_DatasetNotFound tests the command-error exit code.
func TestMatrixCommand_DatasetNotFound(t *testing.T) {
	buf, err := execute(t, "matrix", "y ~ a", "testdata/nope.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E002]")
}

// TestNamesCommand tests coefficient-name output.
func TestNamesCommand(t *testing.T) {
	buf, err := execute(t, "names", "y ~ a + b", "testdata/simple.yaml")
	require.NoError(t, err)
	assert.Equal(t, "(Intercept)\na\nb - q\n", buf.String())
}

// TestValidateCommand tests the dataset validation paths.
func TestValidateCommand(t *testing.T) {
	buf, err := execute(t, "validate", "testdata/simple.yaml")
	require.NoError(t, err)
	assert.Equal(t, "testdata/simple.yaml: valid (3 columns, 3 rows)\n", buf.String())

	buf, err = execute(t, "validate", "testdata/bad_kind.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E004]")
}
