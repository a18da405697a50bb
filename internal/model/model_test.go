package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidSubdomain(t *testing.T) {
	valid := []string{"demo", "acme-store", "store42", "a1", "my-pos-shop"}
	for _, s := range valid {
		assert.True(t, ValidSubdomain(s), "expected %q to be valid", s)
	}

	invalid := []string{"", "a", "Demo", "-demo", "demo-", "de_mo", "de mo", "café",
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}
	for _, s := range invalid {
		assert.False(t, ValidSubdomain(s), "expected %q to be invalid", s)
	}
}

func TestTenantIsActive(t *testing.T) {
	assert.True(t, (&Tenant{Status: TenantStatusActive}).IsActive())
	assert.False(t, (&Tenant{Status: TenantStatusSuspended}).IsActive())
	assert.False(t, (&Tenant{Status: TenantStatusCancelled}).IsActive())
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleManager))
	assert.True(t, ValidRole(RoleCashier))
	assert.False(t, ValidRole("owner"))
	assert.False(t, ValidRole(""))
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, ValidPaymentMethod(PaymentMethodCash))
	assert.True(t, ValidPaymentMethod(PaymentMethodCard))
	assert.True(t, ValidPaymentMethod(PaymentMethodMobile))
	assert.False(t, ValidPaymentMethod("check"))
	assert.False(t, ValidPaymentMethod(""))
}

func TestProductNeedsRestock(t *testing.T) {
	assert.True(t, (&Product{Stock: 2, ReorderLevel: 5}).NeedsRestock())
	assert.True(t, (&Product{Stock: 5, ReorderLevel: 5}).NeedsRestock())
	assert.False(t, (&Product{Stock: 6, ReorderLevel: 5}).NeedsRestock())
}

func TestDefaultSettings(t *testing.T) {
	tenant := &Tenant{ID: 9, Name: "Demo Store", Currency: "EUR", TaxRate: 0.19}
	s := DefaultSettings(tenant)

	assert.Equal(t, uint(9), s.TenantID)
	assert.Equal(t, "Demo Store", s.StoreName)
	assert.Equal(t, "EUR", s.Currency)
	assert.Equal(t, 0.19, s.TaxRate)
	assert.Equal(t, 5, s.LowStockThreshold)
	assert.Equal(t, 20, s.ItemsPerPage)
	assert.Equal(t, "light", s.Theme)
}
