package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/smart-trainer/powertable-app/internal/powertable"
)

func sampleTable() *powertable.Table {
	t := powertable.NewTable(powertable.DefaultConfig())
	t.Set(60, 100, 500)
	t.Set(60, 200, 900)
	t.Set(60, 300, 1400)
	t.Set(90, 100, 400)
	t.Set(90, 200, 800)
	return t
}

func TestFormatOf(t *testing.T) {
	cases := map[string]string{
		"out.png":     "png",
		"out.PNG":     "png",
		"dir/out.svg": "svg",
		"out.pdf":     "pdf",
		"out.html":    "html",
		"out.htm":     "html",
	}
	for path, want := range cases {
		got, err := FormatOf(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatOf("out.jpg")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = FormatOf("out")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRenderImageFormats(t *testing.T) {
	table := sampleTable()
	original := table.Clone()
	original.Set(60, 150, 700)

	var buf bytes.Buffer
	require.NoError(t, RenderImage(&buf, "png", table, original, DefaultOptions()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	buf.Reset()
	require.NoError(t, RenderImage(&buf, "svg", table, nil, DefaultOptions()))
	assert.Contains(t, buf.String(), "<svg")

	buf.Reset()
	require.NoError(t, RenderImage(&buf, "pdf", table, nil, Options{Title: "pdf"}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestRenderImageRejectsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := RenderImage(&buf, "gif", sampleTable(), nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Zero(t, buf.Len())
}

func TestRenderImageEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	err := RenderImage(&buf, "svg", powertable.NewTable(powertable.DefaultConfig()), nil, DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<svg")
}

func TestRenderHTML(t *testing.T) {
	table := sampleTable()
	original := table.Clone()

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, table, original, "Calibration"))
	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "Calibration")
	assert.Contains(t, html, "60 RPM")
	assert.Contains(t, html, "90 RPM (original)")
}

func TestExportFile(t *testing.T) {
	dir := t.TempDir()
	table := sampleTable()

	for _, name := range []string{"chart.png", "chart.svg", "chart.html"} {
		path := filepath.Join(dir, name)
		require.NoError(t, ExportFile(path, table, nil, DefaultOptions()), name)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size(), name)
	}

	err := ExportFile(filepath.Join(dir, "chart.bmp"), table, nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, statErr := os.Stat(filepath.Join(dir, "chart.bmp"))
	assert.True(t, os.IsNotExist(statErr))
}
