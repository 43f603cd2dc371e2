package service

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestRead_TXT(t *testing.T) {
	r := NewDocumentReader()
	got, err := r.Read(strings.NewReader("1. What is DNA?\n2. Define osmosis."), "txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "What is DNA?") {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestRead_TXTInvalidUTF8Replaced(t *testing.T) {
	got, err := NewDocumentReader().Read(bytes.NewReader([]byte{'o', 'k', 0xff, 0xfe}), "txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "ok") {
		t.Fatalf("unexpected text: %q", got)
	}
	if strings.ContainsRune(got, 0xff) {
		t.Fatalf("invalid bytes were not replaced")
	}
}

func TestRead_UnsupportedFormat(t *testing.T) {
	_, err := NewDocumentReader().Read(strings.NewReader("data"), "rtf")
	var unsupported *UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedFormatError, got %T: %v", err, err)
	}
	if unsupported.Format != "rtf" {
		t.Fatalf("unexpected format in error: %q", unsupported.Format)
	}
}

func TestRead_EmptyFileIsNotAnError(t *testing.T) {
	got, err := NewDocumentReader().Read(strings.NewReader(""), "txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestRead_DOCXParagraphs(t *testing.T) {
	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph </w:t></w:r><w:r><w:t>with two runs.</w:t></w:r></w:p>
    <w:p><w:r><w:t xml:space="preserve">  </w:t></w:r></w:p>
    <w:p><w:r><w:t>Second paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("creating zip entry: %v", err)
	}
	if _, err := w.Write([]byte(docXML)); err != nil {
		t.Fatalf("writing zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}

	got, err := NewDocumentReader().Read(&buf, "docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 non-empty paragraphs, got %d: %q", len(lines), got)
	}
	if lines[0] != "First paragraph with two runs." {
		t.Fatalf("runs were not joined within the paragraph: %q", lines[0])
	}
	if lines[1] != "Second paragraph." {
		t.Fatalf("unexpected second paragraph: %q", lines[1])
	}
}

func TestRead_DOCXMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("something/else.xml")
	w.Write([]byte("<x/>"))
	zw.Close()

	_, err := NewDocumentReader().Read(&buf, "docx")
	var rf *ReadFailureError
	if !errors.As(err, &rf) {
		t.Fatalf("expected ReadFailureError, got %T: %v", err, err)
	}
}

func TestRead_CorruptDOCX(t *testing.T) {
	_, err := NewDocumentReader().Read(strings.NewReader("this is not a zip"), "docx")
	var rf *ReadFailureError
	if !errors.As(err, &rf) {
		t.Fatalf("expected ReadFailureError, got %T: %v", err, err)
	}
}

func TestRead_FailureNamesTheUploadedFormat(t *testing.T) {
	for _, tag := range []string{"doc", "xls"} {
		_, err := NewDocumentReader().Read(strings.NewReader("not a real container"), tag)
		var rf *ReadFailureError
		if !errors.As(err, &rf) {
			t.Fatalf("%s: expected ReadFailureError, got %T: %v", tag, err, err)
		}
		if rf.Format != tag {
			t.Fatalf("error must name the uploaded format %q, got %q", tag, rf.Format)
		}
	}
}

func TestRead_XLSXRows(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetCellValue(sheet, "A1", "Question")
	f.SetCellValue(sheet, "B1", "Answer")
	f.SetCellValue(sheet, "A2", "Capital of France?")
	f.SetCellValue(sheet, "B2", "Paris")
	f.SetCellValue(sheet, "A3", "True or False: water is wet")
	f.SetCellValue(sheet, "C3", "true")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("writing workbook: %v", err)
	}

	got, err := NewDocumentReader().Read(&buf, "xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "=== "+sheet+" ===") {
		t.Fatalf("expected sheet marker in output: %q", got)
	}
	if !strings.Contains(got, "Capital of France?\tParis") {
		t.Fatalf("expected tab-joined row in output: %q", got)
	}
	// An interior empty cell keeps its column position as an empty string.
	if !strings.Contains(got, "True or False: water is wet\t\ttrue") {
		t.Fatalf("expected empty interior cell preserved in row: %q", got)
	}
}

func TestRead_CorruptPDFDoesNotPanic(t *testing.T) {
	_, err := NewDocumentReader().Read(strings.NewReader("%PDF-1.4 garbage"), "pdf")
	var rf *ReadFailureError
	if !errors.As(err, &rf) {
		t.Fatalf("expected ReadFailureError, got %T: %v", err, err)
	}
}
