package sign

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erbsland-dev/erbsland-conf-go/lexer"
)

func TestSignFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "doc.elcl")
	require.NoError(t, os.WriteFile(src, []byte("@version: \"1.0\"\nhost: \"localhost\"\n"), 0o644))

	var gotDigest [32]byte
	signer := &Signer{
		SigningPerson: "ops-team",
		Sign: func(source lexer.SourceIdentifier, signingPerson string, docDigest [32]byte) (string, error) {
			require.Equal(t, "ops-team", signingPerson)
			gotDigest = docDigest
			return "sig:deadbeef", nil
		},
	}
	require.NoError(t, signer.SignFile(src, src))

	signed, err := os.ReadFile(src)
	require.NoError(t, err)
	require.Contains(t, string(signed), `@signature: "sig:deadbeef"`)
	require.Contains(t, string(signed), `@version: "1.0"`)
	require.NotEqual(t, [32]byte{}, gotDigest)
}

func TestSignFileRejectsEmptySignature(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "doc.elcl")
	require.NoError(t, os.WriteFile(src, []byte("a: 1\n"), 0o644))

	signer := &Signer{Sign: func(lexer.SourceIdentifier, string, [32]byte) (string, error) { return "", nil }}
	err := signer.SignFile(src, src)
	require.Error(t, err)
	var elErr lexer.Error
	require.ErrorAs(t, err, &elErr)
	require.Equal(t, lexer.Signature, elErr.Category)
}

func TestDigestExcludesExistingSignatureLine(t *testing.T) {
	dir := t.TempDir()
	unsigned := filepath.Join(dir, "unsigned.elcl")
	signed := filepath.Join(dir, "signed.elcl")
	require.NoError(t, os.WriteFile(unsigned, []byte("a: 1\n"), 0o644))
	require.NoError(t, os.WriteFile(signed, []byte("@signature: \"whatever\"\na: 1\n"), 0o644))

	raw1, err := os.ReadFile(unsigned)
	require.NoError(t, err)
	d1, err := digestOf(raw1, lexer.NewFileSourceIdentifier(unsigned))
	require.NoError(t, err)

	raw2, err := os.ReadFile(signed)
	require.NoError(t, err)
	d2, err := digestOf(raw2, lexer.NewFileSourceIdentifier(signed))
	require.NoError(t, err)

	require.Equal(t, d1, d2)
}
