package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/fumiama/go-docx"
	"github.com/rmontano/testbank/internal/model"
	"github.com/rs/zerolog/log"
)

// ExamSection is one "PART N" block of a generated exam document: all
// questions of one type plus the fixed instruction for that type.
type ExamSection struct {
	Title       string
	Instruction string
	Questions   []model.Question
}

// ExamData is everything the generator needs to lay out one document.
type ExamData struct {
	Institution string
	Department  string
	Semester    string
	Title       string
	CourseCode  string
	CourseName  string
	Program     string
	Instructor  string
	Directions  string
	Sections    []ExamSection
}

// DocumentGenerator assembles approved questions into a formatted exam
// document, grouped into numbered sections by question type.
type DocumentGenerator interface {
	BuildSections(questions []model.Question) []ExamSection
	Generate(data ExamData) ([]byte, error)
	ConvertToPDF(ctx context.Context, docxPath, outDir string) (string, error)
	SanitizeFilename(subjectCode, title string) string
}

type documentGenerator struct{}

func NewDocumentGenerator() DocumentGenerator {
	return &documentGenerator{}
}

// DefaultDirections is the boilerplate shown when a caller supplies none.
const DefaultDirections = "Write all your answers and solutions directly on the test questionnaire. " +
	"Make sure your responses are well-organized and written clearly and legibly. " +
	"If you have any questions during the exam, feel free to ask the instructor for assistance. " +
	"Wishing you all the best of luck on your exam!"

// BuildSections groups questions by type following the canonical section
// order. Only types with at least one question produce a section, and PART
// numbering counts emitted sections, not types.
func (g *documentGenerator) BuildSections(questions []model.Question) []ExamSection {
	byType := make(map[string][]model.Question)
	for _, q := range questions {
		byType[q.QuestionType.Name] = append(byType[q.QuestionType.Name], q)
	}

	var sections []ExamSection
	part := 1
	for _, sc := range model.SectionOrder {
		qs := byType[sc.Name]
		if len(qs) == 0 {
			continue
		}
		sections = append(sections, ExamSection{
			Title:       fmt.Sprintf("PART %d. %s", part, sc.Label),
			Instruction: sc.Instruction,
			Questions:   qs,
		})
		part++
	}
	return sections
}

// Font sizes are half-points, per WordprocessingML.
const (
	sizeHeader   = "24" // 12pt
	sizeTitle    = "22" // 11pt
	sizeBody     = "20" // 10pt
	sizeOptions  = "18" // 9pt
	colorCorrect = "008000"
)

// Generate renders the document to an in-memory DOCX byte buffer.
func (g *documentGenerator) Generate(data ExamData) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()

	g.addHeader(doc, data)
	g.addTitleBlock(doc, data)
	g.addStudentInfo(doc)
	g.addDirections(doc, data.Directions)

	number := 1
	for _, section := range data.Sections {
		header := doc.AddParagraph()
		header.AddText(section.Title + ".").Size(sizeBody).Bold()
		header.AddText(" " + section.Instruction).Size(sizeBody)
		doc.AddParagraph()

		for _, q := range section.Questions {
			g.addQuestion(doc, q, number)
			number++
		}
		doc.AddParagraph()
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("writing document: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *documentGenerator) addHeader(doc *docx.Docx, data ExamData) {
	doc.AddParagraph().Justification("center").
		AddText(data.Institution).Size(sizeHeader).Bold()
	doc.AddParagraph().Justification("center").
		AddText(data.Department).Size(sizeBody)
	doc.AddParagraph().Justification("center").
		AddText(data.Semester).Size(sizeBody).Italic()
	doc.AddParagraph()
}

// addTitleBlock lays out title/program and course/instructor as a
// two-column borderless table.
func (g *documentGenerator) addTitleBlock(doc *docx.Docx, data ExamData) {
	table := doc.AddTable(2, 2, 0, nil)

	left := table.TableRows[0].TableCells[0].AddParagraph()
	left.AddText(data.Title).Size(sizeTitle).Bold()
	right := table.TableRows[0].TableCells[1].AddParagraph().Justification("right")
	right.AddText(data.Program).Size(sizeBody)

	course := table.TableRows[1].TableCells[0].AddParagraph()
	course.AddText(fmt.Sprintf("%s - %s", data.CourseCode, data.CourseName)).Size(sizeBody)
	instructor := table.TableRows[1].TableCells[1].AddParagraph().Justification("right")
	instructor.AddText(data.Instructor).Size(sizeBody)

	doc.AddParagraph()
}

func (g *documentGenerator) addStudentInfo(doc *docx.Docx) {
	table := doc.AddTable(1, 2, 0, nil)
	name := table.TableRows[0].TableCells[0].AddParagraph()
	name.AddText("Name: ________________________________________________").Size(sizeBody)
	section := table.TableRows[0].TableCells[1].AddParagraph().Justification("right")
	section.AddText("Section: _____________________").Size(sizeBody)
	doc.AddParagraph()
}

func (g *documentGenerator) addDirections(doc *docx.Docx, directions string) {
	if directions == "" {
		directions = DefaultDirections
	}
	p := doc.AddParagraph()
	p.AddText("GENERAL DIRECTION: ").Size(sizeBody).Bold()
	p.AddText(directions).Size(sizeBody)
	doc.AddParagraph()
}

func (g *documentGenerator) addQuestion(doc *docx.Docx, q model.Question, number int) {
	doc.AddParagraph().AddText(fmt.Sprintf("%d. %s", number, q.QuestionText)).Size(sizeBody)

	switch q.QuestionType.Name {
	case model.TypeMultipleChoice:
		// Options in a 2x2 borderless table; the correct option's text is
		// color-distinguished.
		table := doc.AddTable(2, 2, 0, nil)
		for i, opt := range q.Options() {
			cell := table.TableRows[i/2].TableCells[i%2]
			run := cell.AddParagraph().AddText(fmt.Sprintf("%s. %s", strings.ToUpper(opt[0]), opt[1])).Size(sizeOptions)
			if strings.EqualFold(strings.TrimSpace(q.CorrectAnswer), opt[0]) {
				run.Color(colorCorrect)
			}
		}
		doc.AddParagraph()
	case model.TypeTrueFalse:
		doc.AddParagraph().AddText("   A. True          B. False").Size(sizeOptions)
	}
}

// ConvertToPDF shells out to LibreOffice. Conversion is best-effort: the
// caller keeps the DOCX and records that PDF was skipped when this fails.
func (g *documentGenerator) ConvertToPDF(ctx context.Context, docxPath, outDir string) (string, error) {
	soffice, err := exec.LookPath("soffice")
	if err != nil {
		if soffice, err = exec.LookPath("libreoffice"); err != nil {
			return "", fmt.Errorf("libreoffice not available: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, soffice, "--headless", "--convert-to", "pdf", "--outdir", outDir, docxPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("pdf conversion failed: %w (%s)", err, strings.TrimSpace(string(out)))
	}

	pdfPath := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(docxPath), filepath.Ext(docxPath))+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return "", fmt.Errorf("converted pdf not found at %s: %w", pdfPath, err)
	}
	log.Info().Str("pdf", pdfPath).Msg("PDF conversion completed")
	return pdfPath, nil
}

// SanitizeFilename builds a path-safe output name from the subject code
// and exam title: spaces become underscores, everything outside
// [A-Za-z0-9_-] is dropped.
func (g *documentGenerator) SanitizeFilename(subjectCode, title string) string {
	raw := strings.ReplaceAll(subjectCode+"_"+title, " ", "_")
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "questionnaire"
	}
	return b.String()
}
