// Package inventory reglas de dominio de precios y stock de productos.
package inventory

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ProfitMargin margen de ganancia porcentual sobre el precio de compra, redondeado a 2 decimales.
// Margen = ((Venta - Compra) / Compra) * 100; si Compra es 0 el margen es 100.
func ProfitMargin(salePrice, purchasePrice decimal.Decimal) decimal.Decimal {
	if purchasePrice.IsZero() {
		return hundred
	}
	return salePrice.Sub(purchasePrice).Div(purchasePrice).Mul(hundred).Round(2)
}

// IsLowStock el stock está bajo cuando no supera el mínimo configurado.
func IsLowStock(currentStock, minStockLevel decimal.Decimal) bool {
	return currentStock.LessThanOrEqual(minStockLevel)
}

// StockDelta cantidad del movimiento de ajuste que lleva el stock de current a target.
// Positivo es entrada, negativo salida.
func StockDelta(current, target decimal.Decimal) decimal.Decimal {
	return target.Sub(current)
}
