package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nahan-app/nahan/nahan/identity"
)

func TestReadEnvelopeAcceptsArmorAndRaw(t *testing.T) {
	dir := t.TempDir()
	raw := []byte{0x01, 0xff, 0x00, 0x10}

	armored := filepath.Join(dir, "env.txt")
	require.NoError(t, os.WriteFile(armored, armor(raw), 0o600))
	got, err := readEnvelope(armored)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	binary := filepath.Join(dir, "env.bin")
	require.NoError(t, os.WriteFile(binary, raw, 0o600))
	got, err = readEnvelope(binary)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = readEnvelope(empty)
	require.Error(t, err)
}

func TestParseRecipient(t *testing.T) {
	kp, err := identity.GenerateKeyPair()
	require.NoError(t, err)

	got, err := parseRecipient(identity.EncodeKey(kp.PublicKey))
	require.NoError(t, err)
	assert.Equal(t, kp.PublicKey, got)

	got, err = parseRecipient(identity.NewCard("Bob", kp).String())
	require.NoError(t, err)
	assert.Equal(t, kp.PublicKey, got)

	_, err = parseRecipient("")
	require.Error(t, err)
	_, err = parseRecipient("not a key")
	require.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	stegoOutput = ""
	assert.Equal(t, filepath.Join("pics", "cat.nahan.png"), outputPath(filepath.Join("pics", "cat.jpg"), 1))

	stegoOutput = "out.png"
	defer func() { stegoOutput = "" }()
	assert.Equal(t, "out.png", outputPath("cat.jpg", 1))
	assert.Equal(t, "dog.nahan.png", outputPath("dog.png", 2))
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"keygen", "id", "encrypt", "decrypt", "sign", "verify", "hide", "reveal", "embed", "extract", "cover"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}
