package handlers

import (
	"testing"

	"lifefashion/internal/models"
)

func TestAddCartItemCreatesNestedMaps(t *testing.T) {
	cart := addCartItem(nil, "p1", "M")
	if cart["p1"]["M"] != 1 {
		t.Fatalf("expected quantity 1, got %d", cart["p1"]["M"])
	}
}

func TestAddCartItemIncrementsExisting(t *testing.T) {
	cart := models.CartData{"p1": {"M": 2}}
	cart = addCartItem(cart, "p1", "M")
	if cart["p1"]["M"] != 3 {
		t.Fatalf("expected quantity 3, got %d", cart["p1"]["M"])
	}
}

func TestSetCartItemPinsQuantity(t *testing.T) {
	cart := models.CartData{"p1": {"M": 2}}
	cart = setCartItem(cart, "p1", "M", 7)
	if cart["p1"]["M"] != 7 {
		t.Fatalf("expected quantity 7, got %d", cart["p1"]["M"])
	}
}

func TestSetCartItemZeroRemovesEntry(t *testing.T) {
	cart := models.CartData{"p1": {"M": 2, "L": 1}}
	cart = setCartItem(cart, "p1", "M", 0)
	if _, ok := cart["p1"]["M"]; ok {
		t.Fatal("expected size entry to be removed")
	}
	if _, ok := cart["p1"]; !ok {
		t.Fatal("item with remaining sizes should survive")
	}

	cart = setCartItem(cart, "p1", "L", -1)
	if _, ok := cart["p1"]; ok {
		t.Fatal("item with no sizes left should be removed")
	}
}
