package datastream

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"sort"

	"github.com/Hakuto4838/OrderedIndex.git/index"
)

// ZipfDataGenerator 產生 0..n-1 的 key 索引。
// 第 r 名（r 從 1 起算）的權重為 1/(r+b)^a，名次與索引的對應以 seed 打亂。
type ZipfDataGenerator struct {
	pdf []float64
	cdf []float64
	rng *rand.Rand
}

func NewZipfDataGenerator(n int, a, b float64, seed int64) *ZipfDataGenerator {
	rng := rand.New(rand.NewSource(seed))
	pdf := make([]float64, n)
	var total float64
	for rank := range pdf {
		pdf[rank] = math.Pow(float64(rank+1)+b, -a)
		total += pdf[rank]
	}
	for i := range pdf {
		pdf[i] /= total
	}
	rng.Shuffle(n, func(i, j int) { pdf[i], pdf[j] = pdf[j], pdf[i] })
	return &ZipfDataGenerator{pdf: pdf, cdf: pdfToCDF(pdf), rng: rng}
}

// Next 以 CDF 二分搜尋抽一個索引
func (z *ZipfDataGenerator) Next() int {
	i := sort.SearchFloat64s(z.cdf, z.rng.Float64())
	// 浮點誤差可能讓最後一格略小於 1
	return min(i, len(z.pdf)-1)
}

func (z *ZipfDataGenerator) GenerateSequence(seqLen int) []int {
	seq := make([]int, seqLen)
	for i := range seq {
		seq[i] = z.Next()
	}
	return seq
}

func (z *ZipfDataGenerator) DistributeToCSV(writer *csv.Writer) error {
	return writeDistCSV(writer, z.pdf)
}

func (z *ZipfDataGenerator) Close() error { return nil }

func (z *ZipfDataGenerator) GetKeyMap() map[index.K]float64 { return pdfToKeyMap(z.pdf) }

// GetCDF 與 GetPDF 都回傳副本
func (z *ZipfDataGenerator) GetCDF() []float64 { return slices.Clone(z.cdf) }

func (z *ZipfDataGenerator) GetPDF() []float64 { return slices.Clone(z.pdf) }

func (z *ZipfDataGenerator) Entropy() float64 { return entropyOf(z.pdf) }

func entropyOf(pdf []float64) float64 {
	var h float64
	for _, p := range pdf {
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}

func pdfToCDF(pdf []float64) []float64 {
	cdf := make([]float64, len(pdf))
	var acc float64
	for i, p := range pdf {
		acc += p
		cdf[i] = acc
	}
	return cdf
}

func pdfToKeyMap(pdf []float64) map[index.K]float64 {
	out := make(map[index.K]float64, len(pdf))
	for i, p := range pdf {
		out[index.K(i)] = p
	}
	return out
}

// writeDistCSV 輸出兩列：key 與機率
func writeDistCSV(writer *csv.Writer, pdf []float64) error {
	keyRow := []string{"key"}
	probRow := []string{"prob"}
	for i, p := range pdf {
		keyRow = append(keyRow, fmt.Sprint(i))
		probRow = append(probRow, fmt.Sprintf("%f", p))
	}
	if err := writer.WriteAll([][]string{keyRow, probRow}); err != nil {
		return fmt.Errorf("write distribution: %w", err)
	}
	return nil
}
