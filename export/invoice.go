package export

import (
	"fmt"
	"io"
	"strconv"

	"b2b-catalog/models"
	"b2b-catalog/pricing"
)

func money(amount float64) string {
	return pricing.FormatPlain(amount) + " TL"
}

// WriteInvoicePDF renders the invoice of an order. Unit prices are the
// discounted prices the order total was computed from.
func WriteInvoicePDF(w io.Writer, order models.Order) error {
	pdf, tr := newPDF("P")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "FATURA", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 10)
	line := func(s string) {
		pdf.CellFormat(0, 5, tr(s), "", 1, "L", false, 0, "")
	}
	line("Fatura No: INV-" + order.ID)
	line("Tarih: " + order.CreatedAt.Format("02.01.2006"))
	pdf.Ln(5)
	line("Müşteri Bilgileri:")
	line("Ad Soyad: " + orDash(order.User.Name))
	line("Firma: " + orDash(order.User.Company))
	line("E-posta: " + orDash(order.User.Email))
	line("Telefon: " + orDash(order.User.Phone))
	pdf.Ln(5)

	widths := []float64{70, 30, 20, 35, 35}
	headers := []string{"Ürün", "Kod", "Miktar", "Birim Fiyat", "Toplam"}
	green := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(46, 125, 50)
		pdf.SetTextColor(255, 255, 255)
	}
	green()
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for _, p := range order.Products {
		qty := order.Quantities[p.ID]
		unit := pricing.DiscountedPrice(p.Price, order.User.Discount)
		cells := []string{
			fit(pdf, tr(p.Name), widths[0]-2),
			fit(pdf, tr(p.Code), widths[1]-2),
			strconv.Itoa(qty),
			money(unit),
			money(unit * float64(qty)),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	green()
	pdf.CellFormat(widths[0]+widths[1]+widths[2]+widths[3], 7, "Toplam", "1", 0, "L", true, 0, "")
	pdf.CellFormat(widths[4], 7, money(order.TotalAmount), "1", 1, "L", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Ln(5)

	line("Ödeme Bilgileri:")
	line("Durum: " + string(order.Status))
	if order.User.Discount != nil && *order.User.Discount > 0 {
		line(fmt.Sprintf("İndirim: %%%s", pricing.FormatPlain(*order.User.Discount)))
	}
	if order.Notes != "" {
		pdf.Ln(3)
		line("Notlar:")
		pdf.MultiCell(0, 5, tr(order.Notes), "", "L", false)
	}

	pdf.SetY(-20)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 5, tr("Bu bir bilgisayar çıktısıdır, imza gerektirmez."), "", 0, "C", false, 0, "")
	return pdf.Output(w)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
