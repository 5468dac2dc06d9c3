package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Origin  string `json:"origin"`
	Workers int    `json:"workers"`
	Format  string `json:"format"`
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "squadscraper.json5")

	_, err := ReadConfig[testConfig](name)
	require.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(name, []byte(`{
		// base
		origin: "https://example.com",
		workers: 2,
	}`), 0644))
	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, testConfig{Origin: "https://example.com", Workers: 2}, cfg)

	require.NoError(t, os.WriteFile(LocalName(name), []byte(`{"workers": 4, "format": "md"}`), 0644))
	cfg, err = ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, testConfig{Origin: "https://example.com", Workers: 4, Format: "md"}, cfg)
}

func TestReadRecursively(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "telemetry.json5"), []byte(`{origin: "found"}`), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	defer os.Chdir(wd)

	cfg, err := ReadRecursively[testConfig]("telemetry.json5")
	require.NoError(t, err)
	require.Equal(t, "found", cfg.Origin)

	_, err = ReadRecursively[testConfig]("does-not-exist.json5")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLayer(t *testing.T) {
	cfg, err := Layer(
		testConfig{Origin: "default", Workers: 1, Format: "csv"},
		testConfig{Workers: 3},
		testConfig{Format: "tsv"},
	)
	require.NoError(t, err)
	require.Equal(t, testConfig{Origin: "default", Workers: 3, Format: "tsv"}, cfg)
}

func TestLocalName(t *testing.T) {
	require.Equal(t, filepath.Join("conf", "app.local.json5"), LocalName(filepath.Join("conf", "app.json5")))
}
