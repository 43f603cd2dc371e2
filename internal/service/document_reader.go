package service

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// DocumentReader extracts plain text from an uploaded questionnaire file so
// the extraction prompt can be built from it.
type DocumentReader interface {
	Read(r io.Reader, fileType string) (string, error)
}

type documentReader struct{}

func NewDocumentReader() DocumentReader {
	return &documentReader{}
}

// Read dispatches on the file type tag. The tag is validated before any
// bytes are consumed; unknown tags fail with UnsupportedFormatError.
func (d *documentReader) Read(r io.Reader, fileType string) (text string, err error) {
	fileType = strings.ToLower(strings.TrimSpace(fileType))
	switch fileType {
	case "pdf", "docx", "doc", "xlsx", "xls", "txt":
	default:
		return "", &UnsupportedFormatError{Format: fileType}
	}

	data, readErr := io.ReadAll(r)
	if readErr != nil {
		return "", &ReadFailureError{Format: fileType, Err: readErr}
	}

	// The pdf package panics on some malformed inputs instead of returning
	// an error; convert that to a ReadFailure like any other library error.
	defer func() {
		if rec := recover(); rec != nil {
			log.Warn().Str("file_type", fileType).Interface("panic", rec).Msg("Recovered panic while reading document")
			text = ""
			err = &ReadFailureError{Format: fileType, Err: fmt.Errorf("%v", rec)}
		}
	}()

	switch fileType {
	case "pdf":
		return d.readPDF(data)
	case "docx", "doc":
		return d.readDOCX(data, fileType)
	case "xlsx", "xls":
		return d.readXLSX(data, fileType)
	default:
		return d.readTXT(data), nil
	}
}

// readPDF concatenates per-page text with a blank line between pages.
// Pages that yield no text contribute nothing.
func (d *documentReader) readPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ReadFailureError{Format: "pdf", Err: err}
	}

	var pages []string
	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", &ReadFailureError{Format: "pdf", Err: err}
		}
		if strings.TrimSpace(pageText) != "" {
			pages = append(pages, pageText)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

// readDOCX walks word/document.xml inside the OpenXML zip container and
// emits each non-empty paragraph on its own line.
func (d *documentReader) readDOCX(data []byte, tag string) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ReadFailureError{Format: tag, Err: err}
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", &ReadFailureError{Format: tag, Err: err}
			}
			docXML, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return "", &ReadFailureError{Format: tag, Err: err}
			}
			break
		}
	}
	if docXML == nil {
		return "", &ReadFailureError{Format: tag, Err: fmt.Errorf("word/document.xml not found in container")}
	}

	dec := xml.NewDecoder(bytes.NewReader(docXML))
	var lines []string
	var paragraph strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", &ReadFailureError{Format: tag, Err: err}
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local == "t" {
				var run string
				if err := dec.DecodeElement(&run, &el); err != nil {
					return "", &ReadFailureError{Format: tag, Err: err}
				}
				paragraph.WriteString(run)
			}
		case xml.EndElement:
			if el.Name.Local == "p" {
				if line := paragraph.String(); strings.TrimSpace(line) != "" {
					lines = append(lines, line)
				}
				paragraph.Reset()
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}

// readXLSX renders each worksheet as a "=== name ===" marker followed by
// tab-joined rows. Rows that are all whitespace are skipped.
func (d *documentReader) readXLSX(data []byte, tag string) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", &ReadFailureError{Format: tag, Err: err}
	}
	defer f.Close()

	var lines []string
	for _, sheet := range f.GetSheetList() {
		lines = append(lines, fmt.Sprintf("=== %s ===", sheet))
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", &ReadFailureError{Format: tag, Err: err}
		}
		for _, row := range rows {
			line := strings.Join(row, "\t")
			if strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}

// readTXT decodes permissively; invalid byte sequences are replaced rather
// than failing the read.
func (d *documentReader) readTXT(data []byte) string {
	return strings.ToValidUTF8(string(data), "�")
}
