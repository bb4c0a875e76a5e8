package extraction

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

// minUsableTextLen is the threshold below which extracted PDF text is treated
// as a scan and the original bytes are sent to the model instead.
const minUsableTextLen = 40

// prepared is the document content shaped for the model: either plain text or
// base64 bytes with a media type for the vision path.
type prepared struct {
	text      string
	base64    string
	mediaType string
}

// prepareContent converts the stored document bytes into model input based on
// the detected media type. Unsupported types fail here, before any model call
// is spent.
func prepareContent(fileType string, data []byte) (prepared, error) {
	mediaType := fileType
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}

	switch {
	case mediaType == "application/pdf":
		return preparePDF(data)
	case mediaType == "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		text, err := flattenSpreadsheet(data)
		if err != nil {
			return prepared{}, err
		}
		return prepared{text: text}, nil
	case strings.HasPrefix(mediaType, "image/"):
		return prepared{
			base64:    base64.StdEncoding.EncodeToString(data),
			mediaType: mediaType,
		}, nil
	case mediaType == "text/plain" || mediaType == "text/csv":
		return prepared{text: string(data)}, nil
	}
	return prepared{}, fmt.Errorf("unsupported document type %q", fileType)
}

// preparePDF extracts the text layer. Scanned PDFs have no usable text layer,
// so those fall back to sending the raw document for the model to read.
func preparePDF(data []byte) (prepared, error) {
	text, err := pdfText(data)
	if err == nil && len(strings.TrimSpace(text)) >= minUsableTextLen {
		return prepared{text: text}, nil
	}
	return prepared{
		base64:    base64.StdEncoding.EncodeToString(data),
		mediaType: "application/pdf",
	}, nil
}

func pdfText(data []byte) (text string, err error) {
	// The parser panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf open: %w", err)
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// flattenSpreadsheet renders every sheet as tab-separated rows so the model
// sees the tabular layout the way a reader would.
func flattenSpreadsheet(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		sb.WriteString("=== ")
		sb.WriteString(sheet)
		sb.WriteString(" ===\n")
		for _, row := range rows {
			sb.WriteString(strings.Join(row, "\t"))
			sb.WriteString("\n")
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("spreadsheet has no content")
	}
	return sb.String(), nil
}
