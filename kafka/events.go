package kafka

import "time"

// SaleLineEvent is one line of a completed sale event
type SaleLineEvent struct {
	MedicineID  uint   `json:"medicine_id"`
	Quantity    int    `json:"quantity"`
	PriceAtSale string `json:"price_at_sale"`
}

// SaleCompletedEvent is published after a sale transaction commits
type SaleCompletedEvent struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	SaleID        uint            `json:"sale_id"`
	ReceiptNumber string          `json:"receipt_number"`
	TotalAmount   string          `json:"total_amount"`
	Lines         []SaleLineEvent `json:"lines"`
	Timestamp     time.Time       `json:"timestamp"`
}

// Event types
const (
	EventTypeSaleCompleted = "sale.completed"
)

// Kafka topics
const (
	TopicSaleCompleted = "sale-completed"
)
