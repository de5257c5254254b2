package domain

import "time"

// MenuImportMessage is queued on menu-import for each parsing task.
type MenuImportMessage struct {
	TaskID        string `json:"task_id"`
	TenantID      string `json:"tenant_id"`
	SpreadsheetID string `json:"spreadsheet_id"`
}

// PublishRequestMessage is queued on menu-publish.
type PublishRequestMessage struct {
	TenantID    string    `json:"tenant_id"`
	MenuID      string    `json:"menu_id"`
	RequestedBy string    `json:"requested_by"`
	RequestedAt time.Time `json:"requested_at"`
}

// InventoryAdjustmentMessage is a stock movement reported by a point of sale.
type InventoryAdjustmentMessage struct {
	TenantID   string    `json:"tenant_id"`
	MenuID     string    `json:"menu_id"`
	CategoryID string    `json:"category_id"`
	ItemID     string    `json:"item_id"`
	Delta      int       `json:"delta"`
	Reason     string    `json:"reason"`
	Timestamp  time.Time `json:"timestamp"`
}
