package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Active bookings",
		Headers: []string{"ID", "Student", "Seat"},
		Rows: [][]string{
			{"1", "Jane", "Seat-1"},
			{"2", "Budi, Jr.", "Seat-2"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "ID,Student,Seat\n1,Jane,Seat-1\n2,\"Budi, Jr.\",Seat-2\n", string(out))
}

func TestCSVExporterRejectsRaggedRows(t *testing.T) {
	data := sampleDataset()
	data.Rows = append(data.Rows, []string{"3"})
	_, err := NewCSVExporter().Render(data)
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	data := sampleDataset()
	for i := 0; i < 60; i++ {
		data.Rows = append(data.Rows, []string{"x", "y", "z"})
	}
	out, err := NewPDFExporter().Render(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestForFormat(t *testing.T) {
	r, err := ForFormat(FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", r.ContentType())

	r, err = ForFormat("")
	require.NoError(t, err)
	assert.Equal(t, "csv", r.Extension())

	_, err = ForFormat("xlsx")
	assert.Error(t, err)
}

func TestRenderersRequireHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
}
