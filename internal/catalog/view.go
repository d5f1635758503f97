package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/UMDhodi/Obsidian/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	ErrInvalidFilter  = errors.New("invalid catalog filter")
	ErrInvalidSortKey = errors.New("invalid sort key")
)

// Filter selects a category, or every product when empty
type Filter struct {
	Category domain.Category
}

// FilterAll matches every product
var FilterAll = Filter{}

func ParseFilter(s string) (Filter, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return FilterAll, nil
	}
	c, err := domain.ParseCategory(s)
	if err != nil {
		return Filter{}, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}
	return Filter{Category: c}, nil
}

func (f Filter) Match(p domain.Product) bool {
	return f.Category == "" || p.Category == f.Category
}

func (f Filter) String() string {
	if f.Category == "" {
		return "all"
	}
	return string(f.Category)
}

type SortKey string

const (
	SortDefault   SortKey = "default"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortNameAsc   SortKey = "name-asc"
)

func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case "":
		return SortDefault, nil
	case SortDefault, SortPriceAsc, SortPriceDesc, SortNameAsc:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSortKey, s)
}

// View filters the catalog and stable-sorts the survivors. The catalog itself is untouched.
func (c *Catalog) View(filter Filter, key SortKey) []domain.Product {
	out := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		if filter.Match(p) {
			out = append(out, cloneProduct(p))
		}
	}

	switch key {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return a.Price.Cmp(b.Price) })
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return b.Price.Cmp(a.Price) })
	case SortNameAsc:
		col := collate.New(language.English, collate.IgnoreCase)
		slices.SortStableFunc(out, func(a, b domain.Product) int { return col.CompareString(a.Name, b.Name) })
	}
	return out
}
