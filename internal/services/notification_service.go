// internal/services/notification_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mapstore/store-backend/internal/cache"
	"github.com/mapstore/store-backend/internal/config"
	"github.com/mapstore/store-backend/internal/models"
	"github.com/mapstore/store-backend/internal/money"
)

type NotificationService struct {
	db        *gorm.DB
	config    *config.Config
	mailer    Mailer
	viewCache *cache.ViewCache
}

type orderEmailLine struct {
	Title    string
	Quantity int
	Subtotal string
}

func NewNotificationService(db *gorm.DB, config *config.Config, mailer Mailer, viewCache *cache.ViewCache) *NotificationService {
	return &NotificationService{
		db:        db,
		config:    config,
		mailer:    mailer,
		viewCache: viewCache,
	}
}

// NotifyOrderPlaced records an admin notification and emails the buyer
// their payment instructions.
func (s *NotificationService) NotifyOrderPlaced(ctx context.Context, order *models.Order, confirmationLink string) error {
	contact := order.Contact()

	notification := models.NewOrderPlacedNotification(order,
		"New order "+shortOrderID(order.ID),
		fmt.Sprintf("%s ordered %d item(s) for %s via %s", contact.Name, order.ItemCount(), money.Format(order.TotalAmount), order.PaymentMethod),
	)
	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	s.invalidateStats()

	data := s.orderTemplateData(order)
	data["ConfirmationLink"] = confirmationLink
	data["PaymentWindowHours"] = s.config.Store.PaymentWindowHours

	var errs []error
	if contact.Email != "" {
		subject := fmt.Sprintf("%s - Pesanan %s", s.config.Store.Name, shortOrderID(order.ID))
		if err := s.sendTemplate(ctx, contact.Email, subject, "order_placed", data); err != nil {
			errs = append(errs, err)
		}
	}
	if s.config.Email.AdminEmail != "" {
		subject := "New order " + shortOrderID(order.ID)
		if err := s.sendTemplate(ctx, s.config.Email.AdminEmail, subject, "admin_new_order", data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NotifyOrderStatusChanged emails the buyer when their order is confirmed
// as paid or has been completed. Other statuses are silent.
func (s *NotificationService) NotifyOrderStatusChanged(ctx context.Context, order *models.Order) error {
	var templateName, subject string
	switch order.Status {
	case models.OrderStatusPaid:
		templateName = "order_paid"
		subject = "Pembayaran diterima - " + shortOrderID(order.ID)
	case models.OrderStatusCompleted:
		templateName = "order_completed"
		subject = "Pesanan selesai - " + shortOrderID(order.ID)
	default:
		return nil
	}

	contact := order.Contact()
	if contact.Email == "" {
		return nil
	}
	return s.sendTemplate(ctx, contact.Email, subject, templateName, s.orderTemplateData(order))
}

// NotifyOrderExpired leaves a low priority note for the admin when the
// payment window lapses.
func (s *NotificationService) NotifyOrderExpired(ctx context.Context, order *models.Order) error {
	notification := models.NewOrderExpiredNotification(order,
		"Order "+shortOrderID(order.ID)+" expired",
		fmt.Sprintf("No payment received within %d hours, order cancelled", s.config.Store.PaymentWindowHours),
	)
	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	s.invalidateStats()
	return nil
}

func (s *NotificationService) ListAdminNotifications(ctx context.Context, unreadOnly bool, limit int) ([]models.AdminNotification, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if unreadOnly {
		query = query.Where("status = ?", models.NotificationUnread)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var notifications []models.AdminNotification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *NotificationService) MarkNotificationRead(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	result := s.db.WithContext(ctx).Model(&models.AdminNotification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": models.NotificationRead, "read_at": now})
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	s.invalidateStats()
	return nil
}

// the dashboard shows the unread count
func (s *NotificationService) invalidateStats() {
	s.viewCache.Invalidate(cache.PathAdminStats)
}

func (s *NotificationService) orderTemplateData(order *models.Order) map[string]interface{} {
	lines := make([]orderEmailLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, orderEmailLine{
			Title:    item.ProductTitle,
			Quantity: item.Quantity,
			Subtotal: money.Format(item.Subtotal()),
		})
	}

	contact := order.Contact()
	return map[string]interface{}{
		"StoreName":     s.config.Store.Name,
		"OrderID":       order.ID.String(),
		"ShortID":       shortOrderID(order.ID),
		"BuyerName":     contact.Name,
		"BuyerEmail":    contact.Email,
		"BuyerWhatsApp": contact.WhatsApp,
		"Items":         lines,
		"Total":         money.Format(order.TotalAmount),
		"PaymentMethod": string(order.PaymentMethod),
		"OrderURL":      fmt.Sprintf("%s/checkout/success/%s", s.config.Frontend.BaseURL, order.ID),
	}
}

func (s *NotificationService) sendTemplate(ctx context.Context, to, subject, name string, data interface{}) error {
	body, err := renderEmailTemplate(name, data)
	if err != nil {
		return fmt.Errorf("failed to render email template %s: %w", name, err)
	}
	return s.mailer.Send(ctx, to, subject, body)
}

func shortOrderID(id uuid.UUID) string {
	return id.String()[:8]
}

func renderEmailTemplate(name string, data interface{}) (string, error) {
	tmpl, ok := emailTemplates[name]
	if !ok {
		return "", fmt.Errorf("unknown email template %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var emailTemplates = map[string]*template.Template{
	"order_placed": template.Must(template.New("order_placed").Parse(`
<!DOCTYPE html>
<html>
<body>
	<h2>Terima kasih, {{.BuyerName}}!</h2>
	<p>Pesanan <strong>{{.ShortID}}</strong> sudah kami terima.</p>
	<ul>
	{{range .Items}}<li>{{.Title}} x{{.Quantity}} ({{.Subtotal}})</li>{{end}}
	</ul>
	<p>Total: <strong>{{.Total}}</strong> via {{.PaymentMethod}}</p>
	<p>Selesaikan pembayaran dalam {{.PaymentWindowHours}} jam lalu kirim bukti transfer lewat WhatsApp:</p>
	<p><a href="{{.ConfirmationLink}}">Konfirmasi pembayaran</a></p>
	<p>Salam,<br>{{.StoreName}}</p>
</body>
</html>`)),
	"admin_new_order": template.Must(template.New("admin_new_order").Parse(`
<!DOCTYPE html>
<html>
<body>
	<h2>New order {{.ShortID}}</h2>
	<p>{{.BuyerName}} ({{.BuyerEmail}}, {{.BuyerWhatsApp}})</p>
	<ul>
	{{range .Items}}<li>{{.Title}} x{{.Quantity}} ({{.Subtotal}})</li>{{end}}
	</ul>
	<p>Total: {{.Total}} via {{.PaymentMethod}}</p>
</body>
</html>`)),
	"order_paid": template.Must(template.New("order_paid").Parse(`
<!DOCTYPE html>
<html>
<body>
	<h2>Pembayaran diterima</h2>
	<p>Halo {{.BuyerName}}, pembayaran untuk pesanan <strong>{{.ShortID}}</strong> sebesar {{.Total}} sudah kami konfirmasi.</p>
	<p>Pesanan sedang kami siapkan. Detail: <a href="{{.OrderURL}}">{{.OrderURL}}</a></p>
	<p>Salam,<br>{{.StoreName}}</p>
</body>
</html>`)),
	"order_completed": template.Must(template.New("order_completed").Parse(`
<!DOCTYPE html>
<html>
<body>
	<h2>Pesanan selesai</h2>
	<p>Halo {{.BuyerName}}, pesanan <strong>{{.ShortID}}</strong> sudah selesai. Terima kasih telah berbelanja di {{.StoreName}}!</p>
</body>
</html>`)),
}
