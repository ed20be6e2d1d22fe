package websocket

// Actions carried on the inventory event feed.
const (
	ActionStockChanged = "stock.changed"
	ActionStockLow     = "stock.low"
)

// Message is the envelope for every event pushed to connected clients.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}
