package cart

import (
	"github.com/UMDhodi/Obsidian/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MaxLineQuantity caps a single cart line; larger requests saturate at the cap
const MaxLineQuantity = 999

// ProductLookup resolves catalog products by id
type ProductLookup interface {
	Product(id string) (domain.Product, bool)
}

// Engine owns one shopper's cart lines and wishlist.
// It is not safe for concurrent use; callers serialize access (see session.Session).
type Engine struct {
	catalog  ProductLookup
	lines    []domain.CartLine
	wishlist map[string]struct{}
	logger   *zap.Logger
}

func NewEngine(catalog ProductLookup, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		catalog:  catalog,
		wishlist: make(map[string]struct{}),
		logger:   logger,
	}
}

// AddToCart increments the product's line or appends a new one. Out-of-stock products are ignored.
func (e *Engine) AddToCart(p domain.Product) {
	if !p.InStock {
		e.logger.Debug("add to cart ignored: out of stock", zap.String("product_id", p.ID))
		return
	}
	if i := e.find(p.ID); i >= 0 {
		if e.lines[i].Quantity < MaxLineQuantity {
			e.lines[i].Quantity++
		}
		return
	}
	p.Benefits = append([]string(nil), p.Benefits...)
	e.lines = append(e.lines, domain.CartLine{Product: p, Quantity: 1})
}

// UpdateQuantity shifts a line's quantity by delta, removing the line when it drops to zero.
// The result is clamped to [0, MaxLineQuantity].
func (e *Engine) UpdateQuantity(id string, delta int) {
	i := e.find(id)
	if i < 0 {
		return
	}
	// clamping delta first keeps the sum far from int overflow
	delta = min(max(delta, -MaxLineQuantity), MaxLineQuantity)
	newQuantity := min(max(0, e.lines[i].Quantity+delta), MaxLineQuantity)
	if newQuantity == 0 {
		e.removeAt(i)
		return
	}
	e.lines[i].Quantity = newQuantity
}

func (e *Engine) RemoveFromCart(id string) {
	if i := e.find(id); i >= 0 {
		e.removeAt(i)
	}
}

// Clear empties the cart. The wishlist is kept.
func (e *Engine) Clear() {
	e.lines = nil
}

// ToggleWishlist flips membership of id. Unknown and out-of-stock products are ignored.
func (e *Engine) ToggleWishlist(id string) {
	p, ok := e.catalog.Product(id)
	if !ok || !p.InStock {
		e.logger.Debug("wishlist toggle ignored", zap.String("product_id", id), zap.Bool("known", ok))
		return
	}
	if _, member := e.wishlist[id]; member {
		delete(e.wishlist, id)
		return
	}
	e.wishlist[id] = struct{}{}
}

func (e *Engine) InWishlist(id string) bool {
	_, ok := e.wishlist[id]
	return ok
}

// WishlistIDs returns the wishlisted ids ordered as in products
func (e *Engine) WishlistIDs(products []domain.Product) []string {
	ids := make([]string, 0, len(e.wishlist))
	for _, p := range products {
		if e.InWishlist(p.ID) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func (e *Engine) WishlistSize() int {
	return len(e.wishlist)
}

func (e *Engine) CartTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.lines {
		total = total.Add(l.Total())
	}
	return total
}

func (e *Engine) CartCount() int {
	count := 0
	for _, l := range e.lines {
		count += l.Quantity
	}
	return count
}

// Quantity returns the quantity held for id, 0 when there is no line
func (e *Engine) Quantity(id string) int {
	if i := e.find(id); i >= 0 {
		return e.lines[i].Quantity
	}
	return 0
}

// Lines returns a snapshot of the cart in insertion order
func (e *Engine) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(e.lines))
	for i, l := range e.lines {
		l.Product.Benefits = append([]string(nil), l.Product.Benefits...)
		out[i] = l
	}
	return out
}

func (e *Engine) Reset() {
	e.lines = nil
	e.wishlist = make(map[string]struct{})
}

func (e *Engine) find(id string) int {
	for i := range e.lines {
		if e.lines[i].Product.ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) removeAt(i int) {
	e.lines = append(e.lines[:i], e.lines[i+1:]...)
}
