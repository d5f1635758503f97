package cart

import (
	"math"
	"testing"

	"github.com/UMDhodi/Obsidian/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCatalog map[string]domain.Product

func (m mockCatalog) Product(id string) (domain.Product, bool) {
	p, ok := m[id]
	return p, ok
}

func testProduct(id string, price string, inStock bool) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     "Product " + id,
		Category: domain.CategorySkin,
		Type:     domain.TypeTube,
		Price:    decimal.RequireFromString(price),
		Benefits: []string{"Active Charcoal"},
		InStock:  inStock,
	}
}

var (
	faceWash  = testProduct("s1", "24", true)
	skinCream = testProduct("s2", "32", true)
	pomadeKit = testProduct("h1", "28", false)
)

func setupEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(mockCatalog{
		faceWash.ID:  faceWash,
		skinCream.ID: skinCream,
		pomadeKit.ID: pomadeKit,
	}, nil)
}

func lineIDs(lines []domain.CartLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Product.ID
	}
	return out
}

func TestAddToCart_CreatesLine(t *testing.T) {
	e := setupEngine(t)

	e.AddToCart(faceWash)

	lines := e.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "s1", lines[0].Product.ID)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestAddToCart_MergesSameProduct(t *testing.T) {
	e := setupEngine(t)

	e.AddToCart(faceWash)
	e.AddToCart(faceWash)

	lines := e.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestAddToCart_OutOfStockIsNoop(t *testing.T) {
	e := setupEngine(t)

	e.AddToCart(pomadeKit)

	assert.Empty(t, e.Lines())
	assert.Equal(t, 0, e.CartCount())
}

func TestAddToCart_KeepsInsertionOrder(t *testing.T) {
	e := setupEngine(t)

	e.AddToCart(skinCream)
	e.AddToCart(faceWash)
	e.AddToCart(skinCream)
	e.UpdateQuantity("s1", 3)

	assert.Equal(t, []string{"s2", "s1"}, lineIDs(e.Lines()))
}

func TestUpdateQuantity_Increments(t *testing.T) {
	e := setupEngine(t)
	e.AddToCart(faceWash)

	e.UpdateQuantity("s1", 1)

	assert.Equal(t, 2, e.Quantity("s1"))
}

func TestUpdateQuantity_RemovesAtZero(t *testing.T) {
	e := setupEngine(t)
	e.AddToCart(faceWash)
	e.AddToCart(skinCream)

	e.UpdateQuantity("s1", -1)

	assert.Equal(t, []string{"s2"}, lineIDs(e.Lines()))
	assert.Equal(t, 0, e.Quantity("s1"))
}

func TestUpdateQuantity_LargeNegativeDeltaFloorsAtZero(t *testing.T) {
	e := setupEngine(t)
	e.AddToCart(faceWash)
	e.AddToCart(faceWash)

	e.UpdateQuantity("s1", -10)

	assert.Empty(t, e.Lines())
}

func TestUpdateQuantity_HugeDeltaSaturates(t *testing.T) {
	e := setupEngine(t)
	e.AddToCart(faceWash)

	e.UpdateQuantity("s1", math.MaxInt)

	assert.Equal(t, MaxLineQuantity, e.Quantity("s1"))
	assert.Equal(t, MaxLineQuantity, e.CartCount())
	assert.True(t, e.CartTotal().Equal(decimal.NewFromInt(24*MaxLineQuantity)))
}

func TestUpdateQuantity_MinIntDeltaRemovesLine(t *testing.T) {
	e := setupEngine(t)
	e.AddToCart(faceWash)
	e.UpdateQuantity("s1", math.MaxInt)

	e.UpdateQuantity("s1", math.MinInt)

	assert.Empty(t, e.Lines())
}

func TestAddToCart_AfterSaturationStaysAtCap(t *testing.T) {
	e := setupEngine(t)
	e.AddToCart(faceWash)
	e.UpdateQuantity("s1", math.MaxInt-1)

	e.AddToCart(faceWash)

	assert.Equal(t, MaxLineQuantity, e.Quantity("s1"))
	assert.Positive(t, e.CartCount())
	assert.False(t, e.CartTotal().IsNegative())
}

func TestUpdateQuantity_MissingLineIsNoop(t *testing.T) {
	e := setupEngine(t)
	e.AddToCart(faceWash)

	e.UpdateQuantity("s2", 1)
	e.UpdateQuantity("unknown", -1)

	assert.Equal(t, []string{"s1"}, lineIDs(e.Lines()))
	assert.Equal(t, 0, e.Quantity("s2"))
}

func TestUpdateQuantity_SequenceNeverNegative(t *testing.T) {
	e := setupEngine(t)
	e.AddToCart(faceWash)

	deltas := []int{1, 1, -1, -2, 1, -1, 3, -5}
	for _, d := range deltas {
		before := e.Quantity("s1")
		e.UpdateQuantity("s1", d)
		after := e.Quantity("s1")
		assert.GreaterOrEqual(t, after, 0)
		for _, l := range e.Lines() {
			assert.GreaterOrEqual(t, l.Quantity, 1)
		}
		if before > 0 && before+d <= 0 {
			assert.Equal(t, 0, after)
			assert.Empty(t, e.Lines())
		}
	}
}

func TestRemoveFromCart_Idempotent(t *testing.T) {
	e := setupEngine(t)
	e.AddToCart(faceWash)
	e.AddToCart(faceWash)
	e.AddToCart(skinCream)

	e.RemoveFromCart("s1")
	once := e.Lines()
	e.RemoveFromCart("s1")

	assert.Equal(t, once, e.Lines())
	assert.Equal(t, []string{"s2"}, lineIDs(once))
}

func TestRemoveFromCart_MissingIsNoop(t *testing.T) {
	e := setupEngine(t)

	e.RemoveFromCart("s1")

	assert.Empty(t, e.Lines())
}

func TestToggleWishlist_Symmetry(t *testing.T) {
	e := setupEngine(t)

	e.ToggleWishlist("s1")
	assert.True(t, e.InWishlist("s1"))

	e.ToggleWishlist("s1")
	assert.False(t, e.InWishlist("s1"))
	assert.Equal(t, 0, e.WishlistSize())
}

func TestToggleWishlist_OutOfStockIsNoop(t *testing.T) {
	e := setupEngine(t)

	e.ToggleWishlist("h1")

	assert.False(t, e.InWishlist("h1"))
}

func TestToggleWishlist_UnknownIsNoop(t *testing.T) {
	e := setupEngine(t)

	e.ToggleWishlist("zz")

	assert.Equal(t, 0, e.WishlistSize())
}

func TestWishlistIDs_FollowsGivenOrder(t *testing.T) {
	e := setupEngine(t)
	e.ToggleWishlist("s2")
	e.ToggleWishlist("s1")

	ids := e.WishlistIDs([]domain.Product{faceWash, skinCream, pomadeKit})

	assert.Equal(t, []string{"s1", "s2"}, ids)
}

func TestTotals(t *testing.T) {
	e := setupEngine(t)
	assert.True(t, decimal.Zero.Equal(e.CartTotal()))

	e.AddToCart(faceWash)
	e.AddToCart(faceWash)
	e.AddToCart(skinCream)
	e.UpdateQuantity("s2", 2)

	expectedTotal := decimal.Zero
	expectedCount := 0
	for _, l := range e.Lines() {
		expectedTotal = expectedTotal.Add(l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		expectedCount += l.Quantity
	}
	assert.True(t, expectedTotal.Equal(e.CartTotal()))
	assert.True(t, decimal.NewFromInt(144).Equal(e.CartTotal()))
	assert.Equal(t, expectedCount, e.CartCount())
	assert.Equal(t, 5, e.CartCount())
}

func TestLines_ReturnsSnapshot(t *testing.T) {
	e := setupEngine(t)
	e.AddToCart(faceWash)

	lines := e.Lines()
	lines[0].Quantity = 99
	lines[0].Product.Benefits[0] = "changed"

	assert.Equal(t, 1, e.Quantity("s1"))
	assert.Equal(t, "Active Charcoal", e.Lines()[0].Product.Benefits[0])
}

func TestClear_KeepsWishlist(t *testing.T) {
	e := setupEngine(t)
	e.AddToCart(faceWash)
	e.ToggleWishlist("s2")

	e.Clear()

	assert.Empty(t, e.Lines())
	assert.True(t, e.InWishlist("s2"))
}

func TestCheckout_AddsDeliveryFee(t *testing.T) {
	e := setupEngine(t)
	e.AddToCart(faceWash)
	e.AddToCart(skinCream)

	summary := e.Checkout(DefaultDeliveryFee)

	assert.Equal(t, 2, summary.Count)
	assert.True(t, decimal.NewFromInt(56).Equal(summary.Subtotal))
	assert.True(t, decimal.NewFromInt(12).Equal(summary.Delivery))
	assert.True(t, decimal.NewFromInt(68).Equal(summary.Total))
	assert.Len(t, summary.Lines, 2)
}

func TestPay_EmptyCart(t *testing.T) {
	e := setupEngine(t)

	_, err := e.Pay(DefaultDeliveryFee)

	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPay_ResetsState(t *testing.T) {
	e := setupEngine(t)
	e.AddToCart(faceWash)
	e.ToggleWishlist("s2")

	receipt, err := e.Pay(DefaultDeliveryFee)
	require.NoError(t, err)

	assert.NotEmpty(t, receipt.Reference)
	assert.True(t, decimal.NewFromInt(36).Equal(receipt.Total))
	assert.Equal(t, authorizedMessage, receipt.Message)
	assert.Empty(t, e.Lines())
	assert.Equal(t, 0, e.WishlistSize())
}
