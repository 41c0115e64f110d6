package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"b2b-catalog/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useMemoryStore points every command at one shared in-memory store.
func useMemoryStore(t *testing.T) {
	t.Helper()
	store := repository.NewMemoryStateStore()
	prev := opener
	opener = func(ctx context.Context) (*app, error) {
		return newApp(ctx, store, func() error { return nil })
	}
	t.Cleanup(func() { opener = prev })
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCategoriesTree(t *testing.T) {
	useMemoryStore(t)

	out, err := run(t, "categories", "tree")
	require.NoError(t, err)
	assert.Contains(t, out, "Sports Equipment [1] (1)")
	assert.Contains(t, out, "Nets [1-1-1] (1)")
	assert.Contains(t, out, "Balls [1-1-2] (0)")
}

func TestProductsImportThenList(t *testing.T) {
	useMemoryStore(t)

	file := filepath.Join(t.TempDir(), "products.csv")
	csv := "ID,Name,Code,Price,Image,CategoryID,Details\n" +
		"p-2,Match Ball,VB002,120.50,,1-1-2,\n"
	require.NoError(t, os.WriteFile(file, []byte(csv), 0o644))

	out, err := run(t, "products", "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1 products")

	out, err = run(t, "products", "list", "--category", "1-1-2")
	require.NoError(t, err)
	assert.Contains(t, out, "VB002")
	assert.NotContains(t, out, "VN001")
}

func TestProductsExport_RejectsUnknownFormat(t *testing.T) {
	useMemoryStore(t)

	_, err := run(t, "products", "export", "--format", "docx")
	assert.Error(t, err)

	out, err := run(t, "products", "export")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `"ID","Name"`))
}

func TestOrdersInvoice_UnknownOrder(t *testing.T) {
	useMemoryStore(t)

	_, err := run(t, "orders", "invoice", "missing", "-o", filepath.Join(t.TempDir(), "x.pdf"))
	assert.Error(t, err)

	out, err := run(t, "orders", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "CUSTOMER")
}
