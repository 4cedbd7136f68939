package mappers

import (
	"context"
	"encoding/json"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/chaos-orders/internal/inventory-service/domain"
	"github.com/jcmexdev/chaos-orders/internal/pkg/contract"
)

// lineItem accepts both the sku/qty and the product_id/quantity spellings.
type lineItem struct {
	SKU       string `json:"sku"`
	ProductID string `json:"product_id"`
	Qty       *int   `json:"qty"`
	Quantity  *int   `json:"quantity"`
}

func CheckFromContract(ctx context.Context, req contract.CheckRequest) *domain.Check {
	return &domain.Check{
		OrderID:   req.OrderID,
		Items:     mapItems(req.Items),
		RequestID: middleware.GetReqID(ctx),
	}
}

func mapItems(raw []json.RawMessage) []*domain.StockItem {
	items := make([]*domain.StockItem, len(raw))
	for i, r := range raw {
		items[i] = mapItem(r)
	}
	return items
}

// mapItem defaults a missing quantity to 1.
func mapItem(raw json.RawMessage) *domain.StockItem {
	var li lineItem
	if err := json.Unmarshal(raw, &li); err != nil {
		return &domain.StockItem{Malformed: true}
	}

	item := &domain.StockItem{ProductID: li.SKU, Quantity: 1}
	if item.ProductID == "" {
		item.ProductID = li.ProductID
	}
	switch {
	case li.Qty != nil:
		item.Quantity = *li.Qty
	case li.Quantity != nil:
		item.Quantity = *li.Quantity
	}
	return item
}
