package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"b2b-catalog/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleProducts() []models.Product {
	return []models.Product{
		{
			ID:         "1",
			Name:       `Net "Pro"`,
			Code:       "VN001",
			Price:      975,
			Images:     []string{"https://img/1.jpg", "https://img/2.jpg"},
			Stock:      100,
			CategoryID: "1-1-1",
			Details:    models.ProductDetails{Dimensions: "75*950 cm", Usage: "Amateur, indoor"},
		},
		{ID: "2", Name: "Ball", Code: "VB1", Price: 12.5, Images: []string{}, CategoryID: "1-1-2"},
	}
}

func TestWriteProductsCSV_QuotesEveryField(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteProductsCSV(&buf, sampleProducts()[1:]))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"ID","Name","Code","Price","Image","CategoryID","Details"`, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `"2","Ball","VB1","12.5","","1-1-2","{`))
}

func TestProductsCSV_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteProductsCSV(&buf, sampleProducts()))

	products, err := ReadProductsCSV(&buf)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, `Net "Pro"`, products[0].Name)
	assert.Equal(t, 975.0, products[0].Price)
	assert.Equal(t, []string{"https://img/1.jpg", "https://img/2.jpg"}, products[0].Images)
	assert.Equal(t, "Amateur, indoor", products[0].Details.Usage)
	assert.Equal(t, "1-1-2", products[1].CategoryID)
	assert.Empty(t, products[1].Images)
}

func TestProductsCSV_RoundTripKeepsFullPricePrecision(t *testing.T) {
	products := sampleProducts()
	products[0].Price = 12.3456
	products[1].Price = 0.005

	var buf bytes.Buffer
	require.NoError(t, WriteProductsCSV(&buf, products))
	back, err := ReadProductsCSV(&buf)
	require.NoError(t, err)
	require.Len(t, back, 2)
	assert.Equal(t, 12.3456, back[0].Price)
	assert.Equal(t, 0.005, back[1].Price)
}

func TestReadProductsCSV_Errors(t *testing.T) {
	_, err := ReadProductsCSV(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ReadProductsCSV(strings.NewReader("foo,bar\n"))
	assert.Error(t, err)

	_, err = ReadProductsCSV(strings.NewReader(`"ID","Name","Code","Price","Image","CategoryID","Details"
"","Ball","VB1","abc","","1-1-2","{}"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	products, err := ReadProductsCSV(strings.NewReader(`"ID","Name","Code","Price","Image","CategoryID","Details"
"","Ball","VB1","10","","1-1-2",""
`))
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Empty(t, products[0].ID)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)
	assert.Equal(t, "doc", FormatHTML.Extension())

	_, err = ParseFormat("docx")
	assert.Error(t, err)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	categories := []models.Category{{ID: "1-1-1", Name: "Nets"}}
	require.NoError(t, WriteDocument(&buf, FormatXLSX, sampleProducts(), categories))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Ürünler")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Ürün Adı", rows[0][1])
	assert.Equal(t, "Nets", rows[1][5])
	assert.Equal(t, "1-1-2", rows[2][5])
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, FormatPDF, sampleProducts(), nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, FormatHTML, sampleProducts(), nil))
	out := buf.String()
	assert.Contains(t, out, "<table")
	assert.Contains(t, out, "VN001")
	assert.Contains(t, out, "&#34;Pro&#34;")
	assert.Contains(t, out, "background-color: #2e7d32")
}

func TestWriteInvoicePDF(t *testing.T) {
	discount := 10.0
	order := models.Order{
		ID:          "o-1",
		User:        models.User{Name: "Regular User", Email: "user@example.com", Discount: &discount},
		Products:    []models.Product{{ID: "p1", Name: "Net", Code: "VN001", Price: 100}},
		Quantities:  map[string]int{"p1": 10},
		TotalAmount: 900,
		Status:      models.OrderApproved,
		Notes:       "Teslimat cuma",
		CreatedAt:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	var buf bytes.Buffer
	require.NoError(t, WriteInvoicePDF(&buf, order))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Equal(t, "900.00 TL", money(900))
}
