package bench

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Hakuto4838/OrderedIndex.git/index/skiplist"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, []int{100, 200, 500, 1000, 2000, 4000, 8000}, cfg.Sizes)
	require.Equal(t, 4, cfg.MaxLevel)
	require.Equal(t, 0.5, cfg.P)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(strings.NewReader("sizes: [10, 20]\nmax_level: 6\nimpls: [skiplist]\n"))
	require.NoError(t, err)
	require.Equal(t, []int{10, 20}, cfg.Sizes)
	require.Equal(t, 6, cfg.MaxLevel)
	require.Equal(t, []string{ImplSkipList}, cfg.Impls)
	// 未指定的欄位維持預設
	require.Equal(t, 0.5, cfg.P)
	require.Equal(t, "datasets", cfg.DatasetDir)

	cfg, err = ReadConfig(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)

	_, err = ReadConfig(strings.NewReader("sizez: [1]\n"))
	require.Error(t, err)

	_, err = ReadConfig(strings.NewReader("impls: [avl]\n"))
	require.True(t, errors.Is(err, ErrUnknownImpl))
}

func TestConfigValidate(t *testing.T) {
	for name, mut := range map[string]func(*Config){
		"sizes":    func(c *Config) { c.Sizes = nil },
		"size":     func(c *Config) { c.Sizes = []int{10, 0} },
		"keys":     func(c *Config) { c.KeyMin, c.KeyMax = 10, 1 },
		"level":    func(c *Config) { c.MaxLevel = -1 },
		"p":        func(c *Config) { c.P = 1 },
		"runs":     func(c *Config) { c.Runs = 0 },
		"no impls": func(c *Config) { c.Impls = nil },
	} {
		cfg := DefaultConfig()
		mut(&cfg)
		require.Error(t, cfg.Validate(), name)
	}
}

func TestConfigFileRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sizes = []int{5, 50}
	cfg.Seed = 99
	cfg.Impls = []string{ImplBST, ImplDSW}

	var buf bytes.Buffer
	require.NoError(t, cfg.WriteYAML(&buf))

	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	back, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, cfg, back)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestParseImpls(t *testing.T) {
	all, err := ParseImpls("all")
	require.NoError(t, err)
	require.Equal(t, AllImpls(), all)

	got, err := ParseImpls(" SkipList, bst ,skiplist,")
	require.NoError(t, err)
	require.Equal(t, []string{ImplSkipList, ImplBST}, got)

	_, err = ParseImpls("bst,splay")
	require.True(t, errors.Is(err, ErrUnknownImpl))
}

func TestNewIndex(t *testing.T) {
	cfg := DefaultConfig()
	for _, impl := range AllImpls() {
		idx, err := NewIndex(impl, cfg, 1)
		require.NoError(t, err)
		idx.Insert(3)
		require.True(t, idx.Contains(3))
	}

	_, err := NewIndex("avl", cfg, 1)
	require.True(t, errors.Is(err, ErrUnknownImpl))

	cfg.P = 2
	idx, err := NewIndex(ImplSkipList, cfg, 1)
	require.Nil(t, idx)
	require.True(t, errors.Is(err, skiplist.ErrInvalidConfig))
}
