package export

import "fmt"

// Format names an export encoding.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// Renderer encodes a dataset into one format.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ForFormat returns the renderer for f.
func ForFormat(f Format) (Renderer, error) {
	switch f {
	case FormatCSV, "":
		return NewCSVExporter(), nil
	case FormatPDF:
		return NewPDFExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", f)
	}
}
