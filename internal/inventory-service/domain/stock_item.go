package domain

// Check is one stock query as received from the order service.
type Check struct {
	OrderID   string
	Items     []*StockItem
	RequestID string
}

type StockItem struct {
	ProductID string
	Quantity  int
	// Malformed is set when the line item could not be read as an object.
	Malformed bool
}

// Result is the answer to a Check. Nothing is reserved.
type Result struct {
	InStock bool
	Message string
}

const MessageAllAvailable = "All items available"
