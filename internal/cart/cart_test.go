package cart

import (
	"testing"

	"pos-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduct(id uint, name, sku string, price float64) *model.Product {
	p := &model.Product{Name: name, SKU: sku, Price: price}
	p.ID = id
	return p
}

func TestCartTotals(t *testing.T) {
	c := New(0.08)
	c.AddItem(newProduct(1, "Coffee", "COF-1", 10.00))
	c.SetQuantity(1, 2)
	c.AddItem(newProduct(2, "Muffin", "MUF-1", 5.00))

	assert.Equal(t, 25.00, c.Subtotal())
	assert.Equal(t, 2.00, c.Tax())
	assert.Equal(t, 27.00, c.Total())
}

func TestCartChange(t *testing.T) {
	c := New(0.08)
	c.AddItem(newProduct(1, "Coffee", "COF-1", 10.00))
	c.SetQuantity(1, 2)
	c.AddItem(newProduct(2, "Muffin", "MUF-1", 5.00))

	assert.Equal(t, 3.00, c.Change(30.00))
	// Negative change signals insufficient payment
	assert.Equal(t, -7.00, c.Change(20.00))
}

func TestAddItemMergesExistingLine(t *testing.T) {
	c := New(0)
	p := newProduct(1, "Coffee", "COF-1", 10.00)
	c.AddItem(p)
	c.AddItem(p)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 20.00, c.Subtotal())
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	c := New(0)
	c.AddItem(newProduct(1, "Coffee", "COF-1", 10.00))
	c.AddItem(newProduct(2, "Muffin", "MUF-1", 5.00))

	c.SetQuantity(1, 0)
	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, uint(2), lines[0].ProductID)

	c.SetQuantity(2, -3)
	assert.True(t, c.IsEmpty())
}

func TestRemoveItem(t *testing.T) {
	c := New(0)
	c.AddItem(newProduct(1, "Coffee", "COF-1", 10.00))
	c.RemoveItem(1)
	assert.True(t, c.IsEmpty())

	// Removing an absent product is a no-op
	c.RemoveItem(99)
	assert.True(t, c.IsEmpty())
}

func TestClearDetachesCustomer(t *testing.T) {
	c := New(0)
	c.AddItem(newProduct(1, "Coffee", "COF-1", 10.00))
	c.AttachCustomer(7)
	require.NotNil(t, c.CustomerID())

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Nil(t, c.CustomerID())
}

func TestCompleteSnapshotsLines(t *testing.T) {
	c := New(0.08)
	p := newProduct(1, "Coffee", "COF-1", 10.00)
	c.AddItem(p)
	c.SetQuantity(1, 2)

	// Edits after the line was added must not affect the sale
	p.Name = "Renamed"
	p.Price = 99.99

	txn, err := c.Complete(1, 5, model.PaymentMethodCash, 25.00)
	require.NoError(t, err)

	require.Len(t, txn.Items, 1)
	assert.Equal(t, "Coffee", txn.Items[0].Name)
	assert.Equal(t, "COF-1", txn.Items[0].SKU)
	assert.Equal(t, 10.00, txn.Items[0].UnitPrice)
	assert.Equal(t, 2, txn.Items[0].Quantity)
	assert.Equal(t, 20.00, txn.Items[0].TotalPrice)
}

func TestCompletePaidInFull(t *testing.T) {
	c := New(0.08)
	c.AddItem(newProduct(1, "Coffee", "COF-1", 10.00))
	c.SetQuantity(1, 2)
	c.AddItem(newProduct(2, "Muffin", "MUF-1", 5.00))
	c.AttachCustomer(3)

	txn, err := c.Complete(1, 5, model.PaymentMethodCard, 30.00)
	require.NoError(t, err)

	assert.Equal(t, 25.00, txn.Subtotal)
	assert.Equal(t, 2.00, txn.Tax)
	assert.Equal(t, 27.00, txn.Total)
	assert.Equal(t, 0.00, txn.DueAmount)
	assert.True(t, txn.Paid)
	assert.Equal(t, model.TransactionStatusCompleted, txn.Status)
	assert.NotEmpty(t, txn.Reference)
	require.NotNil(t, txn.CustomerID)
	assert.Equal(t, uint(3), *txn.CustomerID)
	assert.Equal(t, uint(5), txn.CashierID)

	// Completion resets the cart for the next sale
	assert.True(t, c.IsEmpty())
	assert.Nil(t, c.CustomerID())
}

func TestCompleteUnderpaymentBecomesDue(t *testing.T) {
	c := New(0.08)
	c.AddItem(newProduct(1, "Coffee", "COF-1", 10.00))
	c.SetQuantity(1, 2)
	c.AddItem(newProduct(2, "Muffin", "MUF-1", 5.00))

	txn, err := c.Complete(1, 5, model.PaymentMethodCash, 20.00)
	require.NoError(t, err)

	assert.Equal(t, 7.00, txn.DueAmount)
	assert.False(t, txn.Paid)
	assert.Equal(t, model.TransactionStatusDue, txn.Status)
}

func TestCompleteEmptyCart(t *testing.T) {
	c := New(0.08)
	_, err := c.Complete(1, 5, model.PaymentMethodCash, 10.00)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCompleteReferencesAreUnique(t *testing.T) {
	refs := make(map[string]bool)
	for i := 0; i < 5; i++ {
		c := New(0)
		c.AddItem(newProduct(1, "Coffee", "COF-1", 10.00))
		txn, err := c.Complete(1, 5, model.PaymentMethodCash, 10.00)
		require.NoError(t, err)
		assert.False(t, refs[txn.Reference])
		refs[txn.Reference] = true
	}
}

func TestRoundingOnFractionalPrices(t *testing.T) {
	c := New(0.07)
	c.AddItem(newProduct(1, "Gum", "GUM-1", 0.33))
	c.SetQuantity(1, 3)

	assert.Equal(t, 0.99, c.Subtotal())
	assert.Equal(t, 0.07, c.Tax())
	assert.Equal(t, 1.06, c.Total())
}

func TestLinesReturnsCopy(t *testing.T) {
	c := New(0)
	c.AddItem(newProduct(1, "Coffee", "COF-1", 10.00))

	lines := c.Lines()
	lines[0].Quantity = 100

	assert.Equal(t, 10.00, c.Subtotal())
}
