package dto

import "github.com/shopspring/decimal"

// CategoryStatsDTO rollup de una categoría con ítems en catálogo.
type CategoryStatsDTO struct {
	Items         int `json:"items"`
	TotalQuantity int `json:"total_quantity"`
}

// StatsResponse snapshot del dashboard de inventario. Las categorías sin
// ítems simplemente no aparecen en el mapa.
type StatsResponse struct {
	TotalItems         int                         `json:"total_items"`
	TotalValue         decimal.Decimal             `json:"total_value"`
	LowStockItems      int                         `json:"low_stock_items"`
	OutOfStockItems    int                         `json:"out_of_stock_items"`
	Categories         map[string]CategoryStatsDTO `json:"categories"`
	RecentTransactions []TransactionResponse       `json:"recent_transactions"`
}
