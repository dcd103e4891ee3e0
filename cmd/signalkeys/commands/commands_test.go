package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signalkeys/cmd/signalkeys/commands"
	"signalkeys/internal/domain"
)

const pass = "Correct-Horse-42"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := commands.NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	return filepath.Join(t.TempDir(), "state")
}

func TestCLI_Lifecycle(t *testing.T) {
	home := isolate(t)
	common := []string{"--home", home, "-p", pass, "--strategy", "software"}

	out, err := run(t, append([]string{"init"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Identity created.")
	assert.Contains(t, out, "Fingerprint: ")

	fp, err := run(t, append([]string{"fingerprint"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, fp[len("Fingerprint: "):len(fp)-1])

	out, err = run(t, append([]string{"prekeys", "--signed-id", "5", "--start", "10", "--count", "4"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Signed pre-key 5")
	assert.Contains(t, out, "10..13")

	out, err = run(t, append([]string{"bundle"}, common...)...)
	require.NoError(t, err)
	var b domain.PreKeyBundle
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.Equal(t, uint32(5), b.SignedPreKeyID)
	assert.Len(t, b.PreKeys, 4)

	path := filepath.Join(t.TempDir(), "bundle.json")
	_, err = run(t, append([]string{"bundle", "-o", path}, common...)...)
	require.NoError(t, err)

	out, err = run(t, "verify", path, "--home", home, "--strategy", "native")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed pre-key 5 OK")
	assert.Contains(t, out, "One-time pre-keys: 4")
}

func TestCLI_VerifyRejectsTamperedBundle(t *testing.T) {
	home := isolate(t)
	common := []string{"--home", home, "-p", pass}
	_, err := run(t, append([]string{"init"}, common...)...)
	require.NoError(t, err)
	_, err = run(t, append([]string{"prekeys", "--count", "1"}, common...)...)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "bundle.json")
	_, err = run(t, append([]string{"bundle", "-o", path}, common...)...)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var b domain.PreKeyBundle
	require.NoError(t, json.Unmarshal(raw, &b))
	b.SignedPreKey[7] ^= 0x10
	raw, err = json.Marshal(b)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	_, err = run(t, "verify", path, "--home", home)
	assert.ErrorContains(t, err, "does not verify")
}

func TestCLI_ConfigAndEnv(t *testing.T) {
	home := isolate(t)

	cfg := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("strategy: software\nlog-level: error\n"), 0o600))
	out, err := run(t, "strategy", "--home", home, "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "Strategy: software\n", out)

	t.Setenv("SIGNALKEYS_STRATEGY", "native")
	out, err = run(t, "strategy", "--home", home)
	require.NoError(t, err)
	assert.Equal(t, "Strategy: native\n", out)

	_, err = run(t, "strategy", "--home", home, "--strategy", "quantum")
	assert.Error(t, err)
}

func TestCLI_RequiresPassphrase(t *testing.T) {
	home := isolate(t)
	_, err := run(t, "init", "--home", home)
	assert.ErrorContains(t, err, "passphrase required")
}

func TestCLI_Version(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "signalkeys version dev")
}
