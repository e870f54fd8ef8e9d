package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand("test")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRunCommand(t *testing.T) {
	def := writeFile(t, "contains-ab.txt", `header
q0,q1,q2
a,b
q2
q0
q0,a->q0,q1
q0,b->q0
q1,b->q2
q2,a->q2
q2,b->q2
`)

	out, err := execute(t, "run", "--kind", "enfa", "--definition", def, "a,a,b", "b,a|c")
	require.NoError(t, err)
	assert.Equal(t, "q0|q0,q1|q0,q1|q0,q2|1\nq0|q0|q0,q1|0\nq0|#|fail|0\n", out)

	_, err = execute(t, "run", "--kind", "dpda", "--definition", def, "a")
	assert.Error(t, err)

	_, err = execute(t, "run", "--kind", "enfa", "--definition", filepath.Join(t.TempDir(), "absent"), "a")
	assert.Error(t, err)
}

func TestTestCommand(t *testing.T) {
	cfgPath := writeFile(t, "config.yaml", "fixtures: ../../../testdata\nlogging:\n  level: error\n")

	out, err := execute(t, "--config", cfgPath, "test", "--dpda", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "tests succeeded 2/2")

	out, err = execute(t, "--config", cfgPath, "test", "--enfa", "--test-num", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "tests succeeded 1/1")

	_, err = execute(t, "--config", cfgPath, "test", "--enfa", "--test-num", "7")
	assert.Error(t, err)

	_, err = execute(t, "--config", cfgPath, "test", "--all")
	assert.Error(t, err)
}
