package bench

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Hakuto4838/OrderedIndex.git/index"
)

// Config 描述一次實驗：資料集大小、key 範圍、skip list 參數與重複次數
type Config struct {
	Sizes      []int    `yaml:"sizes"`
	KeyMin     index.K  `yaml:"key_min"`
	KeyMax     index.K  `yaml:"key_max"`
	MaxLevel   int      `yaml:"max_level"`
	P          float64  `yaml:"p"`
	Runs       int      `yaml:"runs"`
	Seed       int64    `yaml:"seed"`
	Impls      []string `yaml:"impls"`
	DatasetDir string   `yaml:"dataset_dir"`
	OutputDir  string   `yaml:"output_dir"`
}

func DefaultConfig() Config {
	return Config{
		Sizes:      []int{100, 200, 500, 1000, 2000, 4000, 8000},
		KeyMin:     1,
		KeyMax:     10000,
		MaxLevel:   4,
		P:          0.5,
		Runs:       5,
		Seed:       1,
		Impls:      AllImpls(),
		DatasetDir: "datasets",
		OutputDir:  "results",
	}
}

func (c Config) Validate() error {
	if len(c.Sizes) == 0 {
		return errors.New("no dataset sizes")
	}
	for _, n := range c.Sizes {
		if n <= 0 {
			return fmt.Errorf("invalid dataset size: %d", n)
		}
	}
	if c.KeyMin > c.KeyMax {
		return fmt.Errorf("invalid key range [%d, %d]", c.KeyMin, c.KeyMax)
	}
	if c.MaxLevel < 0 {
		return fmt.Errorf("invalid max level: %d", c.MaxLevel)
	}
	if !(c.P > 0 && c.P < 1) {
		return fmt.Errorf("invalid probability: %v", c.P)
	}
	if c.Runs <= 0 {
		return fmt.Errorf("invalid runs: %d", c.Runs)
	}
	if len(c.Impls) == 0 {
		return errors.New("no implementations")
	}
	for _, impl := range c.Impls {
		if !isKnownImpl(impl) {
			return fmt.Errorf("%w: %s", ErrUnknownImpl, impl)
		}
	}
	return nil
}

// ReadConfig 以 DefaultConfig 為底，覆蓋 YAML 中出現的欄位
func ReadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	data, err := io.ReadAll(r)
	if err != nil {
		return cfg, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	cfg, err := ReadConfig(f)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}
