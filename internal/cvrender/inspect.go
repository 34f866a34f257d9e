package cvrender

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// Inspection is what a PDF reader sees in a rendered document.
type Inspection struct {
	Pages int
	Title string
	Text  string
}

// Inspect parses data as PDF and extracts its page count, title and plain
// text.
func Inspect(data []byte) (Inspection, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Inspection{}, fmt.Errorf("open pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return Inspection{}, fmt.Errorf("extract text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return Inspection{}, fmt.Errorf("extract text: %w", err)
	}
	return Inspection{
		Pages: reader.NumPage(),
		Title: reader.Trailer().Key("Info").Key("Title").Text(),
		Text:  buf.String(),
	}, nil
}
