package digest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmptyVector(t *testing.T) {
	d := New()
	require.Equal(t, "a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a", d.Hex())
}

func TestStreamingMatchesSingleShot(t *testing.T) {
	whole := New()
	whole.Update([]byte("hello world"))

	split := New()
	split.Update([]byte("hello "))
	split.Update([]byte("world"))

	require.Equal(t, whole.Sum(), split.Sum())
}
