package mailer

import (
	"strings"
	"testing"

	"lifefashion/internal/models"
)

func TestRenderWelcomeContainsName(t *testing.T) {
	body, err := renderWelcome("Amara")
	if err != nil {
		t.Fatalf("renderWelcome returned error: %v", err)
	}
	if !strings.Contains(body, "Amara") {
		t.Fatal("expected body to contain the recipient name")
	}
}

func TestRenderOTPContainsCodeAndExpiry(t *testing.T) {
	body, err := renderOTP("Amara", "482913")
	if err != nil {
		t.Fatalf("renderOTP returned error: %v", err)
	}
	if !strings.Contains(body, "482913") {
		t.Fatal("expected body to contain the code")
	}
	if !strings.Contains(body, "10 minutes") {
		t.Fatal("expected body to mention the expiry window")
	}
}

func TestRenderOrderConfirmation(t *testing.T) {
	body, err := renderOrderConfirmation("Amara", "ORD-123456-7890", "https://shop.example/orders")
	if err != nil {
		t.Fatalf("renderOrderConfirmation returned error: %v", err)
	}
	if !strings.Contains(body, "ORD-123456-7890") {
		t.Fatal("expected body to contain the order id")
	}
	if !strings.Contains(body, "https://shop.example/orders") {
		t.Fatal("expected body to contain the tracking link")
	}
}

func TestRenderOrderConfirmationDefaultsName(t *testing.T) {
	body, err := renderOrderConfirmation("", "ORD-000000-0000", "")
	if err != nil {
		t.Fatalf("renderOrderConfirmation returned error: %v", err)
	}
	if !strings.Contains(body, "Customer") {
		t.Fatal("expected fallback name")
	}
	if strings.Contains(body, "Track Your Order") {
		t.Fatal("expected tracking button to be omitted without a link")
	}
}

func TestRenderLowStockContainsProductAndQuantity(t *testing.T) {
	body, err := renderLowStock("Denim Jacket", 3, "https://admin.example")
	if err != nil {
		t.Fatalf("renderLowStock returned error: %v", err)
	}
	if !strings.Contains(body, "Denim Jacket") {
		t.Fatal("expected body to contain the product name")
	}
	if !strings.Contains(body, ">3<") {
		t.Fatal("expected body to contain the quantity")
	}
}

func TestRenderDeliveryConfirmationContainsAddress(t *testing.T) {
	body, err := renderDeliveryConfirmation(models.Delivery{
		FirstName: "Amara",
		LastName:  "Perera",
		Email:     "amara@example.com",
		Street:    "12 Galle Road",
		City:      "Colombo",
		State:     "Western",
		Zipcode:   "00300",
		Country:   "Sri Lanka",
	})
	if err != nil {
		t.Fatalf("renderDeliveryConfirmation returned error: %v", err)
	}
	for _, fragment := range []string{"Amara", "Perera", "12 Galle Road", "Colombo", "Sri Lanka", "Not provided"} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected body to contain %q", fragment)
		}
	}
}
