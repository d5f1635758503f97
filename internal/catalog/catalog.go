package catalog

import (
	"errors"
	"fmt"

	"github.com/UMDhodi/Obsidian/internal/domain"
)

var ErrDuplicateProduct = errors.New("duplicate product id")

// Catalog is the ordered, read-only product list the storefront sells from
type Catalog struct {
	products []domain.Product
	byID     map[string]int
}

// New validates the products and takes a private copy of them
func New(products []domain.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]domain.Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.byID[p.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProduct, p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, cloneProduct(p))
	}
	return c, nil
}

// Products returns the catalog in insertion order
func (c *Catalog) Products() []domain.Product {
	out := make([]domain.Product, len(c.products))
	for i, p := range c.products {
		out[i] = cloneProduct(p)
	}
	return out
}

// Product looks up a product by id
func (c *Catalog) Product(id string) (domain.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return cloneProduct(c.products[i]), true
}

func (c *Catalog) Len() int {
	return len(c.products)
}

func cloneProduct(p domain.Product) domain.Product {
	p.Benefits = append([]string(nil), p.Benefits...)
	return p
}
