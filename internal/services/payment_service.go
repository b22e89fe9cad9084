// internal/services/payment_service.go
package services

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mapstore/store-backend/internal/config"
	"github.com/mapstore/store-backend/internal/models"
	"github.com/mapstore/store-backend/internal/money"
)

// PaymentService describes how to pay manually. Nothing here verifies a
// payment; an admin marks the order paid after checking the transfer.
type PaymentService struct {
	config *config.Config
}

type PaymentInstructions struct {
	StoreName          string                 `json:"store_name"`
	WhatsAppNumber     string                 `json:"whatsapp_number"`
	Methods            []models.PaymentMethod `json:"methods"`
	BankAccounts       []config.BankAccount   `json:"bank_accounts"`
	EWallets           []config.EWallet       `json:"e_wallets"`
	PaymentWindowHours int                    `json:"payment_window_hours"`
}

type OrderPaymentView struct {
	OrderID          string              `json:"order_id"`
	Status           models.OrderStatus  `json:"status"`
	Total            string              `json:"total"`
	TotalAmount      int64               `json:"total_amount"`
	PaymentMethod    string              `json:"payment_method"`
	PayBefore        *time.Time          `json:"pay_before,omitempty"`
	ConfirmationLink string              `json:"confirmation_link"`
	Instructions     PaymentInstructions `json:"instructions"`
}

func NewPaymentService(config *config.Config) *PaymentService {
	return &PaymentService{config: config}
}

func (s *PaymentService) Instructions() PaymentInstructions {
	return PaymentInstructions{
		StoreName:          s.config.Store.Name,
		WhatsAppNumber:     s.config.Store.WhatsAppNumber,
		Methods:            models.PaymentMethods,
		BankAccounts:       s.config.Store.BankAccounts,
		EWallets:           s.config.Store.EWallets,
		PaymentWindowHours: s.config.Store.PaymentWindowHours,
	}
}

// PaymentDeadline is when a pending order stops waiting for payment.
func (s *PaymentService) PaymentDeadline(order *models.Order) time.Time {
	return order.CreatedAt.Add(time.Duration(s.config.Store.PaymentWindowHours) * time.Hour)
}

// ConfirmationMessage is the chat text a buyer sends after transferring.
func (s *PaymentService) ConfirmationMessage(order *models.Order) string {
	contact := order.Contact()

	var b strings.Builder
	fmt.Fprintf(&b, "Halo Admin %s! 👋\n\n", s.config.Store.Name)
	b.WriteString("Saya sudah melakukan pembayaran:\n")
	fmt.Fprintf(&b, "📦 Order ID: %s\n", order.ID)
	fmt.Fprintf(&b, "💰 Total: %s\n\n", money.Format(order.TotalAmount))
	b.WriteString("📋 Produk:\n")
	for i, item := range order.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "• %s x%d", item.ProductTitle, item.Quantity)
	}
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "👤 Nama: %s\n", contact.Name)
	fmt.Fprintf(&b, "📧 Email: %s\n", contact.Email)
	fmt.Fprintf(&b, "📱 WhatsApp: %s\n\n", contact.WhatsApp)
	b.WriteString("Mohon diproses ya, terima kasih! 🙏")
	return b.String()
}

// ConfirmationLink opens a WhatsApp chat with the store, prefilled with
// ConfirmationMessage.
func (s *PaymentService) ConfirmationLink(order *models.Order) string {
	text := strings.ReplaceAll(url.QueryEscape(s.ConfirmationMessage(order)), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", s.config.Store.WhatsAppNumber, text)
}

func (s *PaymentService) OrderPayment(order *models.Order) OrderPaymentView {
	view := OrderPaymentView{
		OrderID:          order.ID.String(),
		Status:           order.Status,
		Total:            money.Format(order.TotalAmount),
		TotalAmount:      order.TotalAmount,
		PaymentMethod:    string(order.PaymentMethod),
		ConfirmationLink: s.ConfirmationLink(order),
		Instructions:     s.Instructions(),
	}
	if order.Status == models.OrderStatusPending {
		deadline := s.PaymentDeadline(order)
		view.PayBefore = &deadline
	}
	return view
}
