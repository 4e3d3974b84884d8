package mailer

import (
	"html/template"
	"strings"
	"time"

	"lifefashion/internal/models"
)

var (
	welcomeTmpl = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
  <div style="max-width: 600px; margin: auto; background: white; padding: 30px; border-radius: 8px;">
    <h2 style="color: #4A154B;">Welcome to Life Fashion, {{.Name}}!</h2>
    <p>We're excited to have you on board.</p>
    <p>You can now log in to your account and explore the latest in style and trends.</p>
    <p>If you have any questions or need support, feel free to contact us anytime.</p>
    <p style="margin-top: 30px;">&ndash; The Life Fashion Team</p>
  </div>
</body>
</html>`))

	otpTmpl = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 0; background-color: #f4f4f4;">
  <div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 8px;">
    <div style="background-color: #4A154B; padding: 20px; text-align: center;">
      <h1 style="color: white; margin: 0; font-size: 24px;">Life Fashion</h1>
    </div>
    <div style="padding: 30px 25px;">
      <p style="font-size: 16px; color: #333;">Hello <strong>{{.Name}}</strong>,</p>
      <p style="font-size: 16px; color: #333;">Please use the following code to verify your account:</p>
      <div style="background-color: #f7f7f9; border-radius: 6px; padding: 15px; text-align: center; margin: 20px 0;">
        <h2 style="font-size: 28px; letter-spacing: 3px; color: #4A154B; margin: 10px 0;">{{.Code}}</h2>
      </div>
      <p style="font-size: 14px; color: #777;">This code will expire in 10 minutes.</p>
      <p style="font-size: 16px; color: #333; margin-top: 25px;">Thank you,<br>Life Fashion Security Team</p>
    </div>
    <div style="background-color: #f7f7f9; padding: 15px; text-align: center; font-size: 12px; color: #666;">
      <p>&copy; {{.Year}} Life Fashion. All rights reserved.</p>
    </div>
  </div>
</body>
</html>`))

	orderConfirmationTmpl = template.Must(template.New("order").Parse(`<!DOCTYPE html>
<html>
<body style="margin: 0; padding: 0; font-family: Helvetica, Arial, sans-serif; background-color: #f4f4f4;">
  <div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 8px;">
    <div style="background-color: #4A154B; padding: 25px; text-align: center;">
      <h1 style="color: white; margin: 0; font-size: 22px;">Order Confirmation</h1>
    </div>
    <div style="padding: 30px 25px;">
      <h2 style="color: #333; font-size: 20px; margin-top: 0;">Thank you for your order, <span style="color: #4A154B;">{{.Name}}</span>!</h2>
      <p style="font-size: 16px; color: #333;">Your order has been placed successfully and is being processed.</p>
      <div style="background-color: #f7f7f9; border-left: 4px solid #4A154B; padding: 15px; margin: 25px 0;">
        <p style="margin: 0; font-size: 16px;"><strong style="color: #4A154B;">Order ID:</strong> {{.OrderID}}</p>
      </div>
      <p style="font-size: 16px; color: #333;">We'll notify you when your order is out for delivery.</p>
      {{if .OrderListURL}}<div style="text-align: center; margin: 30px 0 20px;">
        <a href="{{.OrderListURL}}" style="background-color: #4A154B; color: white; text-decoration: none; padding: 12px 25px; border-radius: 4px;">Track Your Order</a>
      </div>{{end}}
    </div>
    <div style="background-color: #f7f7f9; padding: 20px; text-align: center;">
      <p style="font-size: 14px; color: #666; margin: 0;">Life Fashion - Your Style Partner</p>
    </div>
  </div>
</body>
</html>`))

	lowStockTmpl = template.Must(template.New("lowstock").Parse(`<!DOCTYPE html>
<html>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; color: #333; background-color: #f7f7f7;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px; background-color: #ffffff; border-radius: 8px;">
    <div style="padding: 15px; background-color: #ff5252; color: white; border-radius: 6px 6px 0 0; text-align: center;">
      <h2 style="margin: 0; font-size: 22px;">Low Stock Alert</h2>
    </div>
    <div style="padding: 25px 20px;">
      <p style="font-size: 16px;">The following product requires immediate attention:</p>
      <div style="background-color: #f9f9f9; border-left: 4px solid #ff5252; padding: 15px; margin: 20px 0;">
        <p style="margin: 5px 0; font-size: 16px;"><strong>Product:</strong> {{.ProductName}}</p>
        <p style="margin: 5px 0; font-size: 16px;"><strong>Current Quantity:</strong> <span style="color: #ff5252; font-weight: bold;">{{.Quantity}}</span></p>
        <p style="margin: 5px 0; font-size: 16px;"><strong>Status:</strong> Below minimum threshold</p>
      </div>
      <p style="font-size: 16px;">Please restock this item as soon as possible to avoid stockouts.</p>
      {{if .DashboardURL}}<div style="text-align: center; margin-top: 30px;">
        <a href="{{.DashboardURL}}" style="display: inline-block; background-color: #4CAF50; color: white; text-decoration: none; padding: 12px 25px; border-radius: 4px;">View Inventory</a>
      </div>{{end}}
    </div>
  </div>
</body>
</html>`))

	deliveryTmpl = template.Must(template.New("delivery").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto;">
  <div style="padding: 20px; border: 1px solid #e4e4e4; border-radius: 5px;">
    <div style="background-color: #4a6ee0; color: white; padding: 15px; text-align: center; border-radius: 5px 5px 0 0;">
      <h1>Delivery Confirmation</h1>
    </div>
    <p>Hello {{.FirstName}} {{.LastName}},</p>
    <p>Thank you for your order. We have received your delivery information and are processing your request.</p>
    <div style="margin: 20px 0;">
      <h3>Delivery Details:</h3>
      <div style="margin-bottom: 10px;"><strong>Name:</strong> {{.FirstName}} {{.LastName}}</div>
      <div style="margin-bottom: 10px;"><strong>Email:</strong> {{.Email}}</div>
      <div style="margin-bottom: 10px;"><strong>Phone:</strong> {{.Phone}}</div>
      <div style="margin-bottom: 10px;">
        <strong>Delivery Address:</strong><br>
        {{.Street}}<br>
        {{.City}}, {{.State}} {{.Zipcode}}<br>
        {{.Country}}
      </div>
    </div>
    <p>If you need to update any information or have questions about your delivery, please contact our customer service.</p>
    <div style="margin-top: 20px; text-align: center; font-size: 12px; color: #888;">
      <p>This is an automated email. Please do not reply to this message.</p>
      <p>&copy; {{.Year}} Life Fashion. All rights reserved.</p>
    </div>
  </div>
</body>
</html>`))
)

func render(tmpl *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func renderWelcome(name string) (string, error) {
	return render(welcomeTmpl, struct{ Name string }{name})
}

func renderOTP(name, code string) (string, error) {
	return render(otpTmpl, struct {
		Name string
		Code string
		Year int
	}{name, code, time.Now().Year()})
}

func renderOrderConfirmation(name, orderID, orderListURL string) (string, error) {
	if name == "" {
		name = "Customer"
	}
	return render(orderConfirmationTmpl, struct {
		Name         string
		OrderID      string
		OrderListURL string
	}{name, orderID, orderListURL})
}

func renderLowStock(productName string, quantity int, dashboardURL string) (string, error) {
	return render(lowStockTmpl, struct {
		ProductName  string
		Quantity     int
		DashboardURL string
	}{productName, quantity, dashboardURL})
}

func renderDeliveryConfirmation(d models.Delivery) (string, error) {
	phone := d.Phone
	if phone == "" {
		phone = "Not provided"
	}
	return render(deliveryTmpl, struct {
		FirstName, LastName, Email, Phone     string
		Street, City, State, Zipcode, Country string
		Year                                  int
	}{d.FirstName, d.LastName, d.Email, phone, d.Street, d.City, d.State, d.Zipcode, d.Country, time.Now().Year()})
}
