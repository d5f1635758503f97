package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCategory    = errors.New("invalid product category")
	ErrInvalidProductType = errors.New("invalid product type")
	ErrInvalidProduct     = errors.New("invalid product")
)

// Category is the storefront section a product belongs to
type Category string

const (
	CategorySkin      Category = "skin"
	CategoryHair      Category = "hair"
	CategoryFragrance Category = "fragrance"
)

// Categories lists every category in display order
var Categories = []Category{CategorySkin, CategoryHair, CategoryFragrance}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CategorySkin, CategoryHair, CategoryFragrance:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// ProductType is the packaging of a product
type ProductType string

const (
	TypeTube       ProductType = "tube"
	TypeBottle     ProductType = "bottle"
	TypeJar        ProductType = "jar"
	TypeKit        ProductType = "kit"
	TypeElectronic ProductType = "electronic"
)

func ParseProductType(s string) (ProductType, error) {
	t := ProductType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TypeTube, TypeBottle, TypeJar, TypeKit, TypeElectronic:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidProductType, s)
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Tagline     string          `json:"tagline"`
	Description string          `json:"description"`
	Category    Category        `json:"category"`
	Type        ProductType     `json:"type"`
	ImageURL    string          `json:"imageUrl"`
	Price       decimal.Decimal `json:"price"`
	Benefits    []string        `json:"benefits"`
	InStock     bool            `json:"inStock"`
}

// Validate checks the invariants a catalog entry must hold
func (p Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidProduct)
	}
	if _, err := ParseCategory(string(p.Category)); err != nil {
		return fmt.Errorf("%w: product %s: %w", ErrInvalidProduct, p.ID, err)
	}
	if _, err := ParseProductType(string(p.Type)); err != nil {
		return fmt.Errorf("%w: product %s: %w", ErrInvalidProduct, p.ID, err)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: product %s: negative price %s", ErrInvalidProduct, p.ID, p.Price)
	}
	return nil
}

// Quote is a line shown in the storefront ticker
type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}
