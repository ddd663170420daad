package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCommand executes the CLI with the given args and scripted stdin.
func runCommand(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConsoleCommandRunsSession(t *testing.T) {
	dir := t.TempDir()
	secret := filepath.Join(dir, "password.txt")
	require.NoError(t, os.WriteFile(secret, []byte("hunter2"), 0o600))
	db := filepath.Join(dir, "database.db")

	out, err := runCommand(t,
		"2 admin\nhunter2\n4 alpha\n3 *\n1\n",
		"console", "--db", db, "--secret", secret,
		"--config", filepath.Join(dir, "absent.yaml"),
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome to database manager!")
	assert.Contains(t, out, "Entry added: 0 | alpha")
	assert.Contains(t, out, "Goodbye!")
}

func TestConsoleCommandFatalWithoutSecretFile(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "database.db")

	_, err := runCommand(t, "1\n",
		"console", "--db", db,
		"--secret", filepath.Join(dir, "missing.txt"),
		"--config", filepath.Join(dir, "absent.yaml"),
	)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "secret file")
}

func TestConsoleCommandFatalOnCorruptRecordFile(t *testing.T) {
	dir := t.TempDir()
	secret := filepath.Join(dir, "password.txt")
	require.NoError(t, os.WriteFile(secret, []byte("hunter2"), 0o600))
	db := filepath.Join(dir, "database.db")
	require.NoError(t, os.WriteFile(db, []byte("short"), 0o600))

	_, err := runCommand(t, "1\n",
		"console", "--db", db, "--secret", secret,
		"--config", filepath.Join(dir, "absent.yaml"),
	)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "record file")
}

func TestConsoleCommandUsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	secret := filepath.Join(dir, "password.txt")
	require.NoError(t, os.WriteFile(secret, []byte("hunter2"), 0o600))
	cfgPath := filepath.Join(dir, "minidb.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"database: "+filepath.Join(dir, "records.db")+"\n"+
			"secret_file: "+secret+"\n"), 0o600))

	out, err := runCommand(t, "1\n", "console", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Goodbye!")
	assert.FileExists(t, filepath.Join(dir, "records.db"))
}

func TestJournalCommandEndToEnd(t *testing.T) {
	dir := t.TempDir()
	secret := filepath.Join(dir, "password.txt")
	require.NoError(t, os.WriteFile(secret, []byte("hunter2"), 0o600))
	db := filepath.Join(dir, "database.db")
	jpath := filepath.Join(dir, "journal.db")
	absentCfg := filepath.Join(dir, "absent.yaml")

	_, err := runCommand(t,
		"2 admin\nhunter2\n4 alpha\n1\n",
		"console", "--db", db, "--secret", secret,
		"--journal", jpath, "--config", absentCfg,
	)
	require.NoError(t, err)

	out, err := runCommand(t, "", "journal", "--journal", jpath, "--config", absentCfg)
	require.NoError(t, err)
	assert.Contains(t, out, "identity_changed")
	assert.Contains(t, out, "record_inserted (alpha)")
	assert.Contains(t, out, "2 event(s).")
}

func TestJournalCommandJSON(t *testing.T) {
	dir := t.TempDir()
	secret := filepath.Join(dir, "password.txt")
	require.NoError(t, os.WriteFile(secret, []byte("hunter2"), 0o600))
	jpath := filepath.Join(dir, "journal.db")
	absentCfg := filepath.Join(dir, "absent.yaml")

	_, err := runCommand(t, "2 user\n1\n",
		"console", "--db", filepath.Join(dir, "database.db"),
		"--secret", secret, "--journal", jpath, "--config", absentCfg,
	)
	require.NoError(t, err)

	out, err := runCommand(t, "", "journal", "--journal", jpath,
		"--config", absentCfg, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"Kind":"identity_changed"`)
	assert.Contains(t, out, `"Detail":"user"`)
}

func TestJournalCommandRequiresPath(t *testing.T) {
	dir := t.TempDir()
	_, err := runCommand(t, "", "journal", "--config", filepath.Join(dir, "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
