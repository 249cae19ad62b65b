package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/erp-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestProfitMargin(t *testing.T) {
	cases := []struct {
		name     string
		sale     string
		purchase string
		want     string
	}{
		{"compra cero", "50", "0", "100"},
		{"margen positivo", "150", "100", "50"},
		{"margen negativo", "80", "100", "-20"},
		{"redondeo a dos decimales", "10", "3", "233.33"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := inventory.ProfitMargin(d(tc.sale), d(tc.purchase))
			assert.True(t, d(tc.want).Equal(got), "esperado %s, obtenido %s", tc.want, got)
		})
	}
}

func TestIsLowStock(t *testing.T) {
	assert.True(t, inventory.IsLowStock(d("5"), d("5")), "igual al mínimo es stock bajo")
	assert.True(t, inventory.IsLowStock(d("2"), d("5")))
	assert.False(t, inventory.IsLowStock(d("6"), d("5")))
}

func TestStockDelta(t *testing.T) {
	assert.True(t, d("-3").Equal(inventory.StockDelta(d("10"), d("7"))))
	assert.True(t, d("4").Equal(inventory.StockDelta(d("6"), d("10"))))
}
