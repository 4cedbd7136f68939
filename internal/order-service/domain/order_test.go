package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	t.Parallel()

	req := OrderRequest{Total: 10, CustomerID: "c1"}
	a := NewOrder(req)
	b := NewOrder(req)

	assert.NotEqual(t, a.ID, b.ID, "identical requests get distinct ids")
	assert.Equal(t, StateCreated, a.State)
	assert.Equal(t, req, a.Request)

	_, err := uuid.Parse(a.ID)
	require.NoError(t, err)
}

func TestState_Terminal(t *testing.T) {
	t.Parallel()

	terminal := map[State]bool{
		StateCreated:           false,
		StateCheckingInventory: false,
		StateInventoryPassed:   false,
		StateInventoryFailed:   true,
		StateProcessingPayment: false,
		StatePaymentFailed:     true,
		StateCompleted:         true,
	}
	for s, want := range terminal {
		assert.Equal(t, want, s.Terminal(), string(s))
	}
}

func TestOrderRequest_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want OrderRequest
	}{
		{
			name: "well typed",
			body: `{"items":[{"sku":"A"}],"total":10.5,"customer_id":"c1"}`,
			want: OrderRequest{Items: []json.RawMessage{json.RawMessage(`{"sku":"A"}`)}, Total: 10.5, CustomerID: "c1"},
		},
		{name: "empty object", body: `{}`, want: OrderRequest{}},
		{name: "numeric string total", body: `{"total":" 10 "}`, want: OrderRequest{Total: 10}},
		{name: "non numeric total", body: `{"total":"ten"}`, want: OrderRequest{}},
		{name: "NaN total", body: `{"total":"NaN"}`, want: OrderRequest{}},
		{name: "items not a list", body: `{"items":{"sku":"A"},"total":3}`, want: OrderRequest{Total: 3}},
		{name: "numeric customer", body: `{"customer_id":42,"total":1}`, want: OrderRequest{Total: 1}},
		{name: "null fields", body: `{"items":null,"total":null,"customer_id":null}`, want: OrderRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got OrderRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderRequest_UnmarshalJSONRejectsNonObject(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`[1,2]`, `"order"`, `7`, `{"items":`} {
		var got OrderRequest
		assert.Error(t, json.Unmarshal([]byte(body), &got), body)
	}
}
