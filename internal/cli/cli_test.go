package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runTally executes one CLI invocation against the store file at dataPath,
// with the config file pointed at a path that does not exist so the
// built-in defaults apply.
func runTally(t *testing.T, dataPath string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{
		"--config", filepath.Join(t.TempDir(), "no-config.yaml"),
		"--data", dataPath,
	}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func testDataPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "tally.json")
}

func TestInit(t *testing.T) {
	path := testDataPath(t)

	out, err := runTally(t, path, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Store initialized at "+path)
	assert.FileExists(t, path)
}

func TestAddAndList(t *testing.T) {
	path := testDataPath(t)

	out, err := runTally(t, path, "add",
		"-a", "100.50", "-d", "Coffee", "-c", "Food", "--date", "2024-01-15")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded Coffee")

	out, err = runTally(t, path, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-01-15")
	assert.Contains(t, out, "100.50 USD")
	assert.Contains(t, out, "Coffee")
	assert.Contains(t, out, "1 transactions")
}

func TestAdd_InvalidAmount(t *testing.T) {
	_, err := runTally(t, testDataPath(t), "add", "-a", "lots", "-d", "x", "-c", "Food")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid amount "lots"`)
}

func TestAdd_InvalidType(t *testing.T) {
	_, err := runTally(t, testDataPath(t), "add", "-a", "5", "-d", "x", "-c", "Food", "-t", "transfer")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestAdd_JSONOutput(t *testing.T) {
	out, err := runTally(t, testDataPath(t), "--format", "json", "add",
		"-a", "25.00", "-d", "Lunch", "-c", "Food")
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "25", data["amount"])
	assert.Equal(t, "Lunch", data["description"])
}

func TestListCategories(t *testing.T) {
	path := testDataPath(t)
	_, err := runTally(t, path, "init")
	require.NoError(t, err)

	out, err := runTally(t, path, "list", "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "11 categories")
}

func TestRemove(t *testing.T) {
	path := testDataPath(t)
	out, err := runTally(t, path, "--format", "json", "add", "-a", "5", "-d", "x", "-c", "Food")
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	id := resp.Data.(map[string]any)["id"].(string)

	out, err = runTally(t, path, "rm", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted "+id)
}

func TestRemove_NotFound(t *testing.T) {
	path := testDataPath(t)
	_, err := runTally(t, path, "init")
	require.NoError(t, err)

	_, err = runTally(t, path, "rm", "no-such-id")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestCategoryAddAndRemove(t *testing.T) {
	path := testDataPath(t)

	out, err := runTally(t, path, "category", "add", "Pets")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved category Pets")

	out, err = runTally(t, path, "category", "rm", "Pets")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted category Pets")
}

func TestCategoryRemove_ProtectedDefault(t *testing.T) {
	path := testDataPath(t)
	_, err := runTally(t, path, "init")
	require.NoError(t, err)

	_, err = runTally(t, path, "category", "rm", "Food")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestCheck(t *testing.T) {
	path := testDataPath(t)
	_, err := runTally(t, path, "init")
	require.NoError(t, err)

	out, err := runTally(t, path, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "OK: 0 transactions, 11 categories")
}

func TestCheck_CorruptFile(t *testing.T) {
	path := testDataPath(t)
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	out, err := runTally(t, path, "check")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "error: invalid JSON format")
}

func TestMigrate(t *testing.T) {
	path := testDataPath(t)
	legacy := `{
	  "transactions": [
	    {"id": "t1", "amount": "12.50", "description": "Bus", "category": "Transportation",
	     "date": "2023-06-01T12:00:00Z", "transaction_type": "EXPENSE"}
	  ],
	  "categories": [{"name": "Transportation", "category_type": "EXPENSE"}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	out, err := runTally(t, path, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Migrated from 0.8.0 to 1.0.0")

	out, err = runTally(t, path, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Already at schema version 1.0.0")
}

func TestMigrate_MissingFile(t *testing.T) {
	path := testDataPath(t)

	_, err := runTally(t, path, "migrate")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "store file does not exist")
	assert.NoFileExists(t, path, "migrate must not create a store")
}

func TestBackupCreateAndList(t *testing.T) {
	path := testDataPath(t)
	_, err := runTally(t, path, "init")
	require.NoError(t, err)

	out, err := runTally(t, path, "backup", "create", "--name", "snap.json")
	require.NoError(t, err)
	assert.Contains(t, out, "Backup created")

	out, err = runTally(t, path, "backup", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "snap.json")
	assert.Contains(t, out, "1 backups")
}

func TestBackupRestore(t *testing.T) {
	path := testDataPath(t)
	_, err := runTally(t, path, "init")
	require.NoError(t, err)

	out, err := runTally(t, path, "--format", "json", "backup", "create")
	require.NoError(t, err)
	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	backupPath := resp.Data.(map[string]any)["path"].(string)

	_, err = runTally(t, path, "add", "-a", "5", "-d", "x", "-c", "Food")
	require.NoError(t, err)

	_, err = runTally(t, path, "backup", "restore", backupPath)
	require.NoError(t, err)

	listOut, err := runTally(t, path, "list")
	require.NoError(t, err)
	assert.Contains(t, listOut, "0 transactions")
}

func TestStats(t *testing.T) {
	path := testDataPath(t)
	_, err := runTally(t, path, "add", "-a", "100.00", "-d", "Pay", "-c", "Salary", "-t", "income")
	require.NoError(t, err)

	out, err := runTally(t, path, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema version: 1.0.0")
	assert.Contains(t, out, "Transactions:   1")
	assert.Contains(t, out, "Income:         100.00 USD")
}

func TestStats_MissingFile(t *testing.T) {
	path := testDataPath(t)

	out, err := runTally(t, path, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Store file does not exist")
}

func TestInvalidFormatFlag(t *testing.T) {
	_, err := runTally(t, testDataPath(t), "--format", "xml", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}
