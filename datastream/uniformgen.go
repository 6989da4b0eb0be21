package datastream

import (
	"encoding/csv"
	"math"
	"math/rand"

	"github.com/Hakuto4838/OrderedIndex.git/index"
)

// UniformDataGenerator 產生平均分布的 key 索引，每個索引出現機率相同
type UniformDataGenerator struct {
	n   int
	rng *rand.Rand
}

func NewUniformDataGenerator(n int, seed int64) *UniformDataGenerator {
	return &UniformDataGenerator{
		n:   n,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Next 產生一筆索引 (0~n-1)
func (u *UniformDataGenerator) Next() int {
	return u.rng.Intn(u.n)
}

// GenerateSequence 產生指定長度的索引序列
func (u *UniformDataGenerator) GenerateSequence(seqLen int) []int {
	seq := make([]int, seqLen)
	for i := range seq {
		seq[i] = u.Next()
	}
	return seq
}

func (u *UniformDataGenerator) DistributeToCSV(writer *csv.Writer) error {
	return writeDistCSV(writer, u.GetPDF())
}

func (u *UniformDataGenerator) Close() error {
	return nil
}

func (u *UniformDataGenerator) GetKeyMap() map[index.K]float64 {
	return pdfToKeyMap(u.GetPDF())
}

func (u *UniformDataGenerator) GetCDF() []float64 {
	return pdfToCDF(u.GetPDF())
}

func (u *UniformDataGenerator) GetPDF() []float64 {
	pdf := make([]float64, u.n)
	for i := range pdf {
		pdf[i] = 1.0 / float64(u.n)
	}
	return pdf
}

// Entropy 為 log2(n)
func (u *UniformDataGenerator) Entropy() float64 {
	if u.n <= 0 {
		return 0
	}
	return math.Log2(float64(u.n))
}
