package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogger_ReusesNamedInstance(t *testing.T) {
	require.NoError(t, Init(nil))

	a := GetLogger("app")
	b := GetAppLogger()
	assert.Same(t, a, b)
	assert.NotSame(t, a, GetAuditLogger())
}

func TestInit_FileOutputWritesRotatedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(&LogConfig{
		Level:      "debug",
		Format:     "json",
		Output:     "file",
		Path:       dir,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
	}))
	t.Cleanup(func() { _ = Init(nil) })

	l := GetLogger("quotes")
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	l.Info("hello")

	data, err := os.ReadFile(filepath.Join(dir, "quotes.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
}
