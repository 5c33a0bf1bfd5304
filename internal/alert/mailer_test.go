package alert

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nijhum/phonepulse/internal/common"
	"github.com/nijhum/phonepulse/internal/model"
)

func TestNewMailerRequiresCredentials(t *testing.T) {
	_, err := NewMailer(MailConfig{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMailNotConfigured))

	_, err = NewMailer(MailConfig{Sender: "alerts@example.com"})
	assert.Error(t, err)
}

func TestNewMailerDefaults(t *testing.T) {
	m, err := NewMailer(MailConfig{Sender: "alerts@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "smtp.gmail.com", m.cfg.Host)
	assert.Equal(t, 587, m.cfg.Port)
}

func TestNotifyAlertMessage(t *testing.T) {
	m, err := NewMailer(MailConfig{
		Host: "smtp.example.com", Port: 2525,
		Sender: "alerts@example.com", Password: "secret",
		SiteURL: "https://phonepulse.example.com",
	})
	require.NoError(t, err)

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	alert := model.Alert{
		Email: "buyer@example.com", Brand: "Samsung", Model: "Galaxy A54",
		TargetPrice: 20000, Condition: "Any", Location: "Dhaka",
		TimesTriggered: 2,
	}
	matches := []model.Listing{
		{URL: "https://bikroy.com/en/ad/1", Price: 18000, Condition: "Used", Location: "Dhaka", RAM: "8", Storage: "128", SellerName: "Rafiq"},
		{URL: "https://bikroy.com/en/ad/2", Price: 18500, Condition: "Used", Location: "Dhaka", RAM: "8", Storage: "128", SellerName: "Karim"},
		{URL: "https://bikroy.com/en/ad/3", Price: 19000, Condition: "Used", Location: "Dhaka", RAM: "8", Storage: "128", SellerName: "Hasan"},
		{URL: "https://bikroy.com/en/ad/4", Price: 19500, Condition: "Used", Location: "Dhaka", RAM: "8", Storage: "128", SellerName: "Jamal"},
	}

	require.NoError(t, m.NotifyAlert(context.Background(), alert, matches))

	assert.Equal(t, "smtp.example.com:2525", gotAddr)
	assert.Equal(t, "alerts@example.com", gotFrom)
	assert.Equal(t, []string{"buyer@example.com"}, gotTo)

	body := string(gotMsg)
	assert.Contains(t, body, "Subject: 🔥 Price Alert: Samsung Galaxy A54 under ৳20,000")
	assert.Contains(t, body, "<strong>4</strong> listings")
	assert.Contains(t, body, "triggered 3 times")
	assert.Contains(t, body, "https://phonepulse.example.com")

	// Only the top three matches are itemized.
	assert.Equal(t, 3, strings.Count(body, "View Listing"))
	assert.NotContains(t, body, "https://bikroy.com/en/ad/4")
}

func TestNotifyAlertSendFailure(t *testing.T) {
	m, err := NewMailer(MailConfig{Sender: "alerts@example.com", Password: "secret"})
	require.NoError(t, err)
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err = m.NotifyAlert(context.Background(), model.Alert{Email: "buyer@example.com"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send alert email")
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "999", formatPrice(999))
	assert.Equal(t, "20,000", formatPrice(20000))
	assert.Equal(t, "1,500,000", formatPrice(1500000))
}
