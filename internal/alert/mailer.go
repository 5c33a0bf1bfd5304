package alert

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/nijhum/phonepulse/internal/common"
	"github.com/nijhum/phonepulse/internal/model"
)

// MailConfig holds SMTP delivery settings.
type MailConfig struct {
	Host     string
	Port     int
	Sender   string
	Password string
	SiteURL  string
}

// Mailer delivers triggered-alert emails over SMTP.
type Mailer struct {
	cfg  MailConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer creates an SMTP notifier. It fails fast when credentials are
// missing so a misconfigured deployment is caught at startup.
func NewMailer(cfg MailConfig) (*Mailer, error) {
	if cfg.Sender == "" || cfg.Password == "" {
		return nil, common.ErrMailNotConfigured
	}
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &Mailer{cfg: cfg, send: smtp.SendMail}, nil
}

// NotifyAlert emails the alert owner about matching listings.
func (m *Mailer) NotifyAlert(ctx context.Context, alert model.Alert, matches []model.Listing) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := fmt.Sprintf("🔥 Price Alert: %s %s under ৳%s",
		alert.Brand, alert.Model, formatPrice(alert.TargetPrice))
	body := buildAlertBody(alert, matches, m.cfg.SiteURL)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.Sender)
	fmt.Fprintf(&msg, "To: %s\r\n", alert.Email)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Sender, m.cfg.Password, m.cfg.Host)
	if err := m.send(addr, auth, m.cfg.Sender, []string{alert.Email}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}
	return nil
}

// buildAlertBody renders the HTML summary: the alert's filters plus the top
// three matches.
func buildAlertBody(alert model.Alert, matches []model.Listing, siteURL string) string {
	var b strings.Builder

	b.WriteString("<h2>Your Price Alert Was Triggered! 🎉</h2>\n")
	fmt.Fprintf(&b, "<p>We found <strong>%d</strong> listings matching your criteria:</p>\n", len(matches))

	b.WriteString("<h3>Your Alert:</h3>\n<ul>\n")
	fmt.Fprintf(&b, "<li>Phone: %s %s</li>\n", alert.Brand, alert.Model)
	fmt.Fprintf(&b, "<li>Max Price: ৳%s</li>\n", formatPrice(alert.TargetPrice))
	fmt.Fprintf(&b, "<li>Condition: %s</li>\n", alert.Condition)
	fmt.Fprintf(&b, "<li>Location: %s</li>\n", alert.Location)
	b.WriteString("</ul>\n")

	b.WriteString("<h3>Top 3 Matches:</h3>\n")
	top := matches
	if len(top) > 3 {
		top = top[:3]
	}
	for i := range top {
		l := &top[i]
		b.WriteString(`<div style="border: 1px solid #ddd; padding: 10px; margin: 10px 0;">` + "\n")
		fmt.Fprintf(&b, "<strong>৳%s</strong> - %s<br>\n", formatPrice(l.Price), l.Condition)
		fmt.Fprintf(&b, "📍 %s<br>\n", l.Location)
		fmt.Fprintf(&b, "💾 %s/%s<br>\n", l.RAM, l.Storage)
		fmt.Fprintf(&b, "👤 %s<br>\n", l.SellerName)
		fmt.Fprintf(&b, `<a href="%s" style="color: #667eea;">View Listing →</a>`+"\n", l.URL)
		b.WriteString("</div>\n")
	}

	if siteURL != "" {
		fmt.Fprintf(&b, `<p><a href="%s" style="background: #667eea; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">View All %d Matches</a></p>`+"\n", siteURL, len(matches))
	}
	fmt.Fprintf(&b, `<p style="color: #666; font-size: 12px;">This alert has been triggered %d times.</p>`+"\n", alert.TimesTriggered+1)

	return b.String()
}

func formatPrice(n int) string {
	s := fmt.Sprintf("%d", n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}
