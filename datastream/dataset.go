package datastream

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Hakuto4838/OrderedIndex.git/index"
)

// 文字資料集：每行一個十進位整數，檔名為 dataset_<n>.txt

// DatasetPath 回傳大小為 n 的資料集路徑
func DatasetPath(dir string, n int) string {
	return filepath.Join(dir, fmt.Sprintf("dataset_%d.txt", n))
}

// GenerateDataset 產生 n 個落在 [lo, hi] 的均勻隨機 key，可能重複
func GenerateDataset(n int, lo, hi index.K, seed int64) ([]index.K, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid dataset size: %d", n)
	}
	if lo > hi {
		return nil, fmt.Errorf("invalid key range [%d, %d]", lo, hi)
	}
	rng := rand.New(rand.NewSource(seed))
	span := hi - lo + 1
	keys := make([]index.K, n)
	for i := range keys {
		keys[i] = lo + rng.Int63n(span)
	}
	return keys, nil
}

func WriteDataset(w io.Writer, keys []index.K) error {
	bw := bufio.NewWriter(w)
	for _, k := range keys {
		bw.WriteString(strconv.FormatInt(k, 10))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ReadDataset 讀取文字資料集，空白行會被略過
func ReadDataset(r io.Reader) ([]index.K, error) {
	var keys []index.K
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" {
			continue
		}
		k, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		keys = append(keys, k)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func LoadDataset(path string) ([]index.K, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	keys, err := ReadDataset(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return keys, nil
}

func SaveDataset(path string, keys []index.K) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteDataset(f, keys); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// WriteDatasets 在 dir 下為每個大小產生一份資料集，回傳寫出的路徑。
// 第 i 份資料集使用 seed+i，因此同一組參數每次結果相同。
func WriteDatasets(dir string, sizes []int, lo, hi index.K, seed int64, log zerolog.Logger) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create dataset dir: %w", err)
	}
	paths := make([]string, 0, len(sizes))
	for i, n := range sizes {
		keys, err := GenerateDataset(n, lo, hi, seed+int64(i))
		if err != nil {
			return paths, err
		}
		path := DatasetPath(dir, n)
		if err := SaveDataset(path, keys); err != nil {
			return paths, err
		}
		log.Info().Int("size", n).Str("path", path).Msg("generated dataset")
		paths = append(paths, path)
	}
	return paths, nil
}
