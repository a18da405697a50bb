package cart

import (
	"errors"
	"math"

	"pos-service/internal/model"

	"github.com/google/uuid"
)

// ErrEmptyCart is returned when completing a cart with no lines
var ErrEmptyCart = errors.New("cart is empty")

// Line is a single in-progress sale line. It already carries the
// product fields that will be snapshotted into the transaction, so a
// product edit between add and completion does not affect the sale.
type Line struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	SKU       string  `json:"sku"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// Total returns the line total at the captured unit price
func (l *Line) Total() float64 {
	return round2(l.UnitPrice * float64(l.Quantity))
}

// Cart holds a single in-progress sale. It is not persisted until
// completion produces a Transaction. Derived values are recomputed on
// every read; nothing is cached.
type Cart struct {
	taxRate    float64
	lines      []Line
	customerID *uint
}

// New creates an empty cart with the given tax rate (e.g. 0.08 for 8%)
func New(taxRate float64) *Cart {
	return &Cart{taxRate: taxRate}
}

// AddItem adds a product to the cart. Adding a product already in the
// cart increments its quantity instead of creating a second line.
func (c *Cart) AddItem(p *model.Product) {
	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		SKU:       p.SKU,
		UnitPrice: p.Price,
		Quantity:  1,
	})
}

// SetQuantity sets the quantity of a line. A quantity of zero or below
// removes the line.
func (c *Cart) SetQuantity(productID uint, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// RemoveItem removes the line for the given product, if present
func (c *Cart) RemoveItem(productID uint) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// AttachCustomer associates a customer with the sale
func (c *Cart) AttachCustomer(customerID uint) {
	id := customerID
	c.customerID = &id
}

// DetachCustomer removes the customer association
func (c *Cart) DetachCustomer() {
	c.customerID = nil
}

// CustomerID returns the attached customer, if any
func (c *Cart) CustomerID() *uint {
	return c.customerID
}

// Clear discards every line and detaches the customer
func (c *Cart) Clear() {
	c.lines = nil
	c.customerID = nil
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy of the cart lines in insertion order
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Subtotal is the sum of unit price times quantity over all lines
func (c *Cart) Subtotal() float64 {
	var sum float64
	for i := range c.lines {
		sum += c.lines[i].UnitPrice * float64(c.lines[i].Quantity)
	}
	return round2(sum)
}

// Tax is the subtotal times the cart's tax rate
func (c *Cart) Tax() float64 {
	return round2(c.Subtotal() * c.taxRate)
}

// Total is subtotal plus tax
func (c *Cart) Total() float64 {
	return round2(c.Subtotal() + c.Tax())
}

// Change is amountPaid minus total. A negative result signals
// insufficient payment; whether that is acceptable is the caller's
// policy, not the calculator's.
func (c *Cart) Change(amountPaid float64) float64 {
	return round2(amountPaid - c.Total())
}

// Complete turns the cart into an immutable Transaction: every line is
// snapshotted (name, SKU, unit price at sale time), a reference is
// generated, payment is recorded, and the cart resets to empty.
func (c *Cart) Complete(tenantID, cashierID uint, paymentMethod string, amountPaid float64) (*model.Transaction, error) {
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	subtotal := c.Subtotal()
	tax := c.Tax()
	total := c.Total()

	items := make([]model.TransactionItem, 0, len(c.lines))
	for i := range c.lines {
		line := c.lines[i]
		items = append(items, model.TransactionItem{
			ProductID:  line.ProductID,
			Name:       line.Name,
			SKU:        line.SKU,
			UnitPrice:  line.UnitPrice,
			Quantity:   line.Quantity,
			TotalPrice: line.Total(),
		})
	}

	due := round2(total - amountPaid)
	if due < 0 {
		due = 0
	}

	status := model.TransactionStatusCompleted
	if due > 0 {
		status = model.TransactionStatusDue
	}

	txn := &model.Transaction{
		TenantID:      tenantID,
		Reference:     uuid.New().String(),
		Items:         items,
		CustomerID:    c.customerID,
		CashierID:     cashierID,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         total,
		PaymentMethod: paymentMethod,
		AmountPaid:    amountPaid,
		DueAmount:     due,
		Paid:          due == 0,
		Status:        status,
	}

	c.Clear()
	return txn, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
