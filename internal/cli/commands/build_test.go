package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into dir for the duration of the test, since build and
// run load configuration from the working directory.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestBuildCommand_CompilesToAdjacentOutput(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile("main.sfn", []byte(`fn main() -> void { print.info("hi"); }`), 0o644))

	out, err := executeCommand(t, "build", "main.sfn")
	require.NoError(t, err)
	assert.Contains(t, out, "Compiled main.sfn")

	data, err := os.ReadFile("main.py")
	require.NoError(t, err)
	assert.Contains(t, string(data), `print("hi")`)
	assert.Contains(t, string(data), `if __name__ == "__main__":`)
}

func TestBuildCommand_ExplicitOutputPath(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile("main.sfn", []byte(`fn main() -> void { }`), 0o644))

	_, err := executeCommand(t, "build", "main.sfn", "-o", filepath.Join("dist", "app.py"))
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join("dist", "app.py"))
	assert.NoError(t, statErr)
}

func TestBuildCommand_DiagnosticsOnBadSource(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile("bad.sfn", []byte(`fn main( { }`), 0o644))

	out, err := executeCommand(t, "build", "bad.sfn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compilation failed")
	assert.Contains(t, out, "ParserError")

	_, statErr := os.Stat("bad.py")
	assert.True(t, os.IsNotExist(statErr), "no output may be written on failure")
}

func TestBuildCommand_MissingFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	_, err := executeCommand(t, "build", "missing.sfn")
	assert.Error(t, err)
}

func TestBuildCommand_CacheHitSecondBuild(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile("main.sfn", []byte(`fn main() -> void { print.info(1); }`), 0o644))

	_, err := executeCommand(t, "build", "main.sfn")
	require.NoError(t, err)

	// The second build hits the persistent cache; with --verbose the
	// hit is reported on stderr.
	out, err := executeCommand(t, "build", "--verbose", "main.sfn")
	require.NoError(t, err)
	assert.Contains(t, out, "cache hit")
}

func TestBuildCommand_NoCacheBypassesStore(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile("main.sfn", []byte(`fn main() -> void { }`), 0o644))

	_, err := executeCommand(t, "build", "--no-cache", "main.sfn")
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(".sailfin", "cache.db"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunCommand_CompileOnly(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile("main.sfn", []byte(`fn main() -> void { print.info("x"); }`), 0o644))

	_, err := executeCommand(t, "run", "main.sfn", "--compile-only")
	require.NoError(t, err)

	_, statErr := os.Stat("main.py")
	assert.NoError(t, statErr)
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, "main.py", defaultOutputPath("main.sfn"))
	assert.Equal(t, filepath.Join("src", "app.py"), defaultOutputPath(filepath.Join("src", "app.sfn")))
}
