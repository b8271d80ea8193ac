package model

type DashboardStats struct {
	TotalSales      int              `json:"total_sales"`
	TotalProducts   int              `json:"total_products"`
	TotalEmployees  int              `json:"total_employees"`
	TotalSuppliers  int              `json:"total_suppliers"`
	RecentSales     []SaleRecord     `json:"recent_sales"`
	RecentTransfers []TransferRecord `json:"recent_transfers"`
}
