package bench

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Hakuto4838/OrderedIndex.git/index"
	"github.com/Hakuto4838/OrderedIndex.git/index/dsw"
	"github.com/Hakuto4838/OrderedIndex.git/index/skiplist"
)

var ErrUnknownImpl = errors.New("unknown implementation")

const (
	ImplBST      = "bst"      // 只插入不平衡的樹
	ImplDSW      = "dsw"      // 插入後以 DSW 平衡一次
	ImplSkipList = "skiplist" // 機率式 skip list
)

func AllImpls() []string {
	return []string{ImplBST, ImplDSW, ImplSkipList}
}

func isKnownImpl(s string) bool {
	switch s {
	case ImplBST, ImplDSW, ImplSkipList:
		return true
	}
	return false
}

// ParseImpls 解析逗號分隔的實作清單，"all" 或空字串代表全部，重複項目只保留一次
func ParseImpls(s string) ([]string, error) {
	if s == "" || s == "all" {
		return AllImpls(), nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	seen := map[string]bool{}
	for _, p := range parts {
		t := strings.TrimSpace(strings.ToLower(p))
		if t == "" || seen[t] {
			continue
		}
		if !isKnownImpl(t) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownImpl, t)
		}
		out = append(out, t)
		seen[t] = true
	}
	if len(out) == 0 {
		return AllImpls(), nil
	}
	return out, nil
}

// NewIndex 建立一個空的結構；skip list 使用 seed 固定亂數來源
func NewIndex(impl string, cfg Config, seed int64) (index.Index[index.K], error) {
	switch impl {
	case ImplBST, ImplDSW:
		return dsw.New[index.K](), nil
	case ImplSkipList:
		sl, err := skiplist.New[index.K](cfg.MaxLevel, cfg.P, skiplist.WithSeed(seed))
		if err != nil {
			return nil, err
		}
		return sl, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownImpl, impl)
	}
}

type balancer interface {
	Balance()
}

// Build 依序插入 keys；dsw 在全部插入後平衡一次
func Build(impl string, idx index.Index[index.K], keys []index.K) {
	for _, k := range keys {
		idx.Insert(k)
	}
	if impl == ImplDSW {
		if b, ok := idx.(balancer); ok {
			b.Balance()
		}
	}
}

// Shape 回傳樹高或 skip list 目前層級，無法取得時回傳 -1
func Shape(idx index.Index[index.K]) int {
	switch v := idx.(type) {
	case interface{ Height() int }:
		return v.Height()
	case interface{ Level() int }:
		return v.Level()
	}
	return -1
}
