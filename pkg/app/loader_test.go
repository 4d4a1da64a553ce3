package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cert.pem")
	require.NoError(t, os.WriteFile(path, []byte("certificate"), 0o600))
	t.Setenv("SOLFUND_TEST_TLS_KEY", "private key")

	for fileURL, expected := range map[string]string{
		path:                         "certificate",
		"file://" + path:             "certificate",
		"env://SOLFUND_TEST_TLS_KEY": "private key",
	} {
		data, err := LoadFile(fileURL)
		require.NoError(t, err, fileURL)
		assert.Equal(t, expected, string(data))
	}

	for _, invalid := range []string{
		filepath.Join(t.TempDir(), "missing.pem"),
		"env://SOLFUND_TEST_UNSET",
		"s3://bucket/cert.pem",
		"://",
	} {
		_, err := LoadFile(invalid)
		assert.Error(t, err, invalid)
	}
}
