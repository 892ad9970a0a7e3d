package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogFileWriter_KeepsNewestBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "staffboard.log")
	w, err := openLogFile(path, 32, 16)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	_, err = w.Write([]byte(strings.Repeat("a", 20)))
	require.NoError(t, err)
	_, err = w.Write([]byte(strings.Repeat("b", 20)))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, strings.Repeat("b", 16), string(data))

	_, err = w.Write([]byte("c"))
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, strings.Repeat("b", 16)+"c", string(data))
}
