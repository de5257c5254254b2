package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ParsingTaskStatus string

const (
	StatusQueued     ParsingTaskStatus = "queued"
	StatusProcessing ParsingTaskStatus = "processing"
	StatusCompleted  ParsingTaskStatus = "completed"
	StatusFailed     ParsingTaskStatus = "failed"
)

// ParsingTask tracks the import of a menu from a spreadsheet into a tenant's
// catalog.
type ParsingTask struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Status        ParsingTaskStatus  `bson:"status" json:"status"`
	TenantID      string             `bson:"tenant_id" json:"tenant_id"`
	SpreadsheetID string             `bson:"spreadsheet_id" json:"spreadsheet_id"`
	MenuName      string             `bson:"menu_name" json:"menu_name"`
	Culture       string             `bson:"culture" json:"culture"`
	MenuID        string             `bson:"menu_id,omitempty" json:"menu_id,omitempty"`
	ErrorMessage  string             `bson:"error_message,omitempty" json:"error_message,omitempty"`
	RetryCount    int                `bson:"retry_count" json:"retry_count"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
