package handlers

import (
	"regexp"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGenerateOrderIDFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d{6}-\d{4}$`)
	for i := 0; i < 50; i++ {
		id := generateOrderID()
		if !pattern.MatchString(id) {
			t.Fatalf("unexpected order id format: %s", id)
		}
	}
}

func TestValidateOrderItemsRejectsEmpty(t *testing.T) {
	if _, err := validateOrderItems(nil); err == nil {
		t.Fatal("expected error for empty item list")
	}
}

func TestValidateOrderItemsRejectsBadProductID(t *testing.T) {
	_, err := validateOrderItems([]orderItemRequest{
		{ProductID: "not-a-hex-id", Quantity: 1},
	})
	if err == nil {
		t.Fatal("expected error for invalid product id")
	}
}

func TestValidateOrderItemsRejectsNonPositiveQuantity(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	for _, quantity := range []int{0, -3} {
		_, err := validateOrderItems([]orderItemRequest{
			{ProductID: id, Quantity: quantity},
		})
		if err == nil {
			t.Fatalf("expected error for quantity=%d", quantity)
		}
	}
}

func TestValidateOrderItemsSnapshotsFields(t *testing.T) {
	id := primitive.NewObjectID()
	items, err := validateOrderItems([]orderItemRequest{
		{ProductID: id.Hex(), Name: "  Denim Jacket ", Price: 59.99, Size: "M", Quantity: 2},
	})
	if err != nil {
		t.Fatalf("validateOrderItems returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	item := items[0]
	if item.ProductID != id || item.Name != "Denim Jacket" || item.Price != 59.99 || item.Size != "M" || item.Quantity != 2 {
		t.Fatalf("unexpected snapshot: %+v", item)
	}
}

func TestNeedsRestockThreshold(t *testing.T) {
	cases := []struct {
		quantity int
		want     bool
	}{
		{0, true},
		{5, true},
		{6, false},
		{100, false},
	}
	for _, tc := range cases {
		if got := needsRestock(tc.quantity); got != tc.want {
			t.Fatalf("needsRestock(%d) = %v, want %v", tc.quantity, got, tc.want)
		}
	}
}
