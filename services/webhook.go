// services/webhook.go
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"finest-store-backend/models"
	"finest-store-backend/utils"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Discord-compatible webhook payload. Only the fields the store actually
// sends; the webhook sink ignores the rest.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type EmbedThumbnail struct {
	URL string `json:"url"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

type Embed struct {
	Title     string          `json:"title,omitempty"`
	Color     int             `json:"color,omitempty"`
	Thumbnail *EmbedThumbnail `json:"thumbnail,omitempty"`
	Fields    []EmbedField    `json:"fields,omitempty"`
	Footer    *EmbedFooter    `json:"footer,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}

type WebhookMessage struct {
	Username  string  `json:"username,omitempty"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	Content   string  `json:"content,omitempty"`
	Embeds    []Embed `json:"embeds,omitempty"`
}

const (
	colorPackOrder  = 0xD4AF37
	colorOtherOrder = 0x2B2D31
	colorPaidAudit  = 0xFFC107
	colorFreeClaim  = 0x5865F2
)

// Notifier routes structured messages to the configured webhook channels.
// Sends are best-effort: failures are logged and swallowed, an unset channel
// URL is a silent skip. One instance serves all handler variants.
type Notifier struct {
	PackURL     string // pack-service orders
	OtherURL    string // "Other Services" orders
	AuditURL    string // manual payment audit trail
	FreeURL     string // free-pack claims
	StaffRoleID string
	LogoURL     string

	Client *http.Client
}

func NewNotifierFromEnv() *Notifier {
	return &Notifier{
		PackURL:     os.Getenv("WEBHOOK_PACK"),
		OtherURL:    os.Getenv("WEBHOOK_OTHER"),
		AuditURL:    os.Getenv("WEBHOOK_PAID"),
		FreeURL:     os.Getenv("WEBHOOK_FREE"),
		StaffRoleID: os.Getenv("STAFF_ROLE_ID"),
		LogoURL:     os.Getenv("LOGO_URL"),
		Client:      utils.HTTPClient,
	}
}

// RouteOrderChannel is the category -> channel routing table. "Other
// Services" has its own channel and accent color; everything else is a pack
// order.
func (n *Notifier) RouteOrderChannel(product string) (string, int) {
	if product == "Other Services" {
		return n.OtherURL, colorOtherOrder
	}
	return n.PackURL, colorPackOrder
}

// Send posts one message to a webhook URL. Never returns an error to the
// request path; the caller's store write already succeeded.
func (n *Notifier) Send(url string, msg *WebhookMessage) {
	if url == "" {
		return
	}

	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WEBHOOK] marshal failed: %v", err)
		return
	}

	resp, err := n.Client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[WEBHOOK] send failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("[WEBHOOK] sink answered %d", resp.StatusCode)
		return
	}
	log.Printf("[WEBHOOK] sent (%d)", resp.StatusCode)
}

// SendWithFile posts a multipart message carrying payload_json plus one file
// attachment. Same best-effort contract as Send.
func (n *Notifier) SendWithFile(url string, msg *WebhookMessage, filename string, data []byte) {
	if url == "" {
		return
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WEBHOOK] marshal failed: %v", err)
		return
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("payload_json", string(payload)); err != nil {
		log.Printf("[WEBHOOK] multipart build failed: %v", err)
		return
	}
	part, err := w.CreateFormFile("files[0]", filename)
	if err != nil {
		log.Printf("[WEBHOOK] multipart build failed: %v", err)
		return
	}
	if _, err := part.Write(data); err != nil {
		log.Printf("[WEBHOOK] multipart build failed: %v", err)
		return
	}
	w.Close()

	resp, err := n.Client.Post(url, w.FormDataContentType(), &buf)
	if err != nil {
		log.Printf("[WEBHOOK] send failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("[WEBHOOK] sink answered %d", resp.StatusCode)
		return
	}
	log.Printf("[WEBHOOK] sent (%d)", resp.StatusCode)
}

var amountPrinter = message.NewPrinter(language.English)

func formatAmount(amount float64) string {
	return amountPrinter.Sprintf("₹%.2f", amount)
}

// SendOrderReceived pings staff in the category channel for a new paid order.
func (n *Notifier) SendOrderReceived(p *models.Payment) {
	url, color := n.RouteOrderChannel(p.Product)

	var mention string
	if n.StaffRoleID != "" {
		mention = fmt.Sprintf("<@&%s>", n.StaffRoleID)
	}

	msg := &WebhookMessage{
		Username:  "Finest Order System",
		AvatarURL: n.LogoURL,
		Content:   mention,
		Embeds: []Embed{{
			Title:     "New Order Received",
			Color:     color,
			Thumbnail: &EmbedThumbnail{URL: n.LogoURL},
			Fields: []EmbedField{
				{Name: "Order ID", Value: p.OrderID, Inline: true},
				{Name: "Customer", Value: p.Name, Inline: true},
				{Name: "Product", Value: p.Product, Inline: true},
				{Name: "Amount", Value: formatAmount(p.Amount), Inline: true},
				{Name: "Payment ID", Value: p.PaymentID},
				{Name: "Discord", Value: fmt.Sprintf("%s (ID: %s)", p.DiscordName, p.DiscordID)},
			},
			Footer:    &EmbedFooter{Text: "Finest Store • Automated Order System"},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}},
	}
	n.Send(url, msg)
}

// SendPaymentAudit mirrors every manual payment into the fixed audit channel.
func (n *Notifier) SendPaymentAudit(p *models.Payment) {
	msg := &WebhookMessage{
		Embeds: []Embed{{
			Title: "New Manual Payment Submitted",
			Color: colorPaidAudit,
			Fields: []EmbedField{
				{Name: "Name", Value: p.Name, Inline: true},
				{Name: "Email", Value: p.Email, Inline: true},
				{Name: "Discord", Value: p.DiscordName, Inline: true},
				{Name: "Discord ID", Value: p.DiscordID},
				{Name: "Product", Value: p.Product, Inline: true},
				{Name: "Amount", Value: formatAmount(p.Amount), Inline: true},
				{Name: "Transaction ID", Value: p.PaymentID},
				{Name: "Order ID", Value: p.OrderID},
			},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}},
	}
	n.Send(n.AuditURL, msg)
}

// SendFreePackClaimed announces an ephemeral free-pack claim, if a free
// channel is configured at all.
func (n *Notifier) SendFreePackClaimed(claim *FreeClaim) {
	msg := &WebhookMessage{
		Embeds: []Embed{{
			Title: "Free Pack Claimed",
			Color: colorFreeClaim,
			Fields: []EmbedField{
				{Name: "Name", Value: claim.Name},
				{Name: "Email", Value: claim.Email},
				{Name: "Discord", Value: claim.Discord},
				{Name: "Discord ID", Value: claim.DiscordID},
			},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}},
	}
	n.Send(n.FreeURL, msg)
}

// SendFreeRegistered announces a durable free-pack registration.
func (n *Notifier) SendFreeRegistered(g *models.AccessGrant) {
	msg := &WebhookMessage{
		Embeds: []Embed{{
			Title: "Free Pack Registered",
			Color: colorFreeClaim,
			Fields: []EmbedField{
				{Name: "Name", Value: g.Name, Inline: true},
				{Name: "Email", Value: g.Email, Inline: true},
				{Name: "Discord ID", Value: g.DiscordID},
				{Name: "Order ID", Value: g.OrderID},
			},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}},
	}
	n.Send(n.FreeURL, msg)
}

// SendScreenshot attaches an uploaded payment screenshot to the audit
// channel alongside its stored CDN URL.
func (n *Notifier) SendScreenshot(customerName, cdnURL, filename string, data []byte) {
	msg := &WebhookMessage{
		Embeds: []Embed{{
			Title: "Payment Screenshot Uploaded",
			Color: colorPaidAudit,
			Fields: []EmbedField{
				{Name: "Customer", Value: customerName},
				{Name: "Stored At", Value: cdnURL},
			},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}},
	}
	n.SendWithFile(n.AuditURL, msg, filename, data)
}
