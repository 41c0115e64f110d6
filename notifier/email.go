package notifier

import (
	"fmt"
	"html"
	"strings"

	"b2b-catalog/models"
	"b2b-catalog/pricing"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Email is a rendered message ready to be sent.
type Email struct {
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

var statusLabels = map[models.OrderStatus]string{
	models.OrderPending:   "Beklemede",
	models.OrderApproved:  "Onaylandı",
	models.OrderRejected:  "Reddedildi",
	models.OrderCompleted: "Tamamlandı",
}

// StatusLabel returns the customer facing name of a status.
func StatusLabel(s models.OrderStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// linesTable renders the order lines as an HTML table.
func linesTable(order models.Order) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Ürün", "Kod", "Miktar", "Birim Fiyat", "Toplam"})
	for _, p := range order.Products {
		qty := order.Quantities[p.ID]
		unit := pricing.DiscountedPrice(p.Price, order.User.Discount)
		t.AppendRow(table.Row{p.Name, p.Code, fmt.Sprintf("%d adet", qty), pricing.Format(unit), pricing.Format(unit * float64(qty))})
	}
	t.AppendFooter(table.Row{"Toplam", "", "", "", pricing.Format(order.TotalAmount)})
	t.Style().HTML.CSSClass = "order-lines"
	return t.RenderHTML()
}

// RenderQuoteEmail builds the message the sales team receives for a new quote.
func RenderQuoteEmail(order models.Order, salesAddress string) Email {
	u := order.User
	var b strings.Builder
	b.WriteString("<h2>Yeni Teklif Talebi</h2>")
	b.WriteString("<h3>Müşteri Bilgileri</h3><ul>")
	fmt.Fprintf(&b, "<li>Ad Soyad: %s</li>", html.EscapeString(orDash(u.Name)))
	fmt.Fprintf(&b, "<li>Firma: %s</li>", html.EscapeString(orDash(u.Company)))
	fmt.Fprintf(&b, "<li>E-posta: %s</li>", html.EscapeString(orDash(u.Email)))
	fmt.Fprintf(&b, "<li>Telefon: %s</li>", html.EscapeString(orDash(u.Phone)))
	if u.Discount != nil && *u.Discount > 0 {
		fmt.Fprintf(&b, "<li>İndirim: %%%s</li>", pricing.FormatPlain(*u.Discount))
	}
	b.WriteString("</ul><h3>Ürünler</h3>")
	b.WriteString(linesTable(order))
	if order.Notes != "" {
		fmt.Fprintf(&b, "<h3>Notlar</h3><p>%s</p>", html.EscapeString(order.Notes))
	}
	fmt.Fprintf(&b, "<p>Teklif No: %s</p>", html.EscapeString(order.ID))

	return Email{
		To:      salesAddress,
		ReplyTo: u.Email,
		Subject: fmt.Sprintf("Teklif Talebi - %s", orDash(u.Name)),
		HTML:    b.String(),
	}
}

// RenderStatusEmail builds the message a customer receives when an admin moves their order.
func RenderStatusEmail(order models.Order, previous models.OrderStatus) Email {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Sayın %s,</p>", html.EscapeString(orDash(order.User.Name)))
	fmt.Fprintf(&b, "<p>%s numaralı teklifinizin durumu <b>%s</b> iken <b>%s</b> olarak güncellendi.</p>",
		html.EscapeString(order.ID), StatusLabel(previous), StatusLabel(order.Status))
	b.WriteString(linesTable(order))

	return Email{
		To:      order.User.Email,
		Subject: fmt.Sprintf("Teklif durumu: %s", StatusLabel(order.Status)),
		HTML:    b.String(),
	}
}
