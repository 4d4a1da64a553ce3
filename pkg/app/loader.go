package app

import (
	"net/url"
	"os"

	"github.com/pkg/errors"
)

// loaders resolve the file URLs accepted for TLS material, keyed by scheme.
// A URL without a scheme is a local path.
var loaders = map[string]func(u *url.URL) ([]byte, error){
	"":     loadLocalFile,
	"file": loadLocalFile,
	"env":  loadEnvFile,
}

// LoadFile reads the contents behind fileURL. Supported forms are a plain
// path, file:///path and env://VARIABLE for PEM data injected through the
// environment.
func LoadFile(fileURL string) ([]byte, error) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid file url %s", fileURL)
	}

	load, ok := loaders[u.Scheme]
	if !ok {
		return nil, errors.Errorf("unsupported file url scheme %q", u.Scheme)
	}
	return load(u)
}

func loadLocalFile(u *url.URL) ([]byte, error) {
	return os.ReadFile(u.Path)
}

func loadEnvFile(u *url.URL) ([]byte, error) {
	value, ok := os.LookupEnv(u.Host)
	if !ok || value == "" {
		return nil, errors.Errorf("environment variable %s is not set", u.Host)
	}
	return []byte(value), nil
}
