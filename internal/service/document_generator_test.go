package service

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rmontano/testbank/internal/model"
)

func strPtr(s string) *string { return &s }

func mcQuestion(text, answer string) model.Question {
	return model.Question{
		QuestionType:  model.QuestionType{Name: model.TypeMultipleChoice},
		QuestionText:  text,
		OptionA:       strPtr("alpha"),
		OptionB:       strPtr("beta"),
		OptionC:       strPtr("gamma"),
		OptionD:       strPtr("delta"),
		CorrectAnswer: answer,
	}
}

func TestBuildSections_CanonicalOrderAndNumbering(t *testing.T) {
	questions := []model.Question{
		{QuestionType: model.QuestionType{Name: model.TypeEssay}, QuestionText: "Discuss mitosis."},
		mcQuestion("Pick one.", "a"),
		{QuestionType: model.QuestionType{Name: model.TypeEssay}, QuestionText: "Discuss meiosis."},
	}

	sections := NewDocumentGenerator().BuildSections(questions)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Title != "PART 1. Multiple Choice" {
		t.Fatalf("multiple choice must come before essay, got %q", sections[0].Title)
	}
	if sections[1].Title != "PART 2. Essay" {
		t.Fatalf("unexpected second section: %q", sections[1].Title)
	}
	if len(sections[1].Questions) != 2 {
		t.Fatalf("expected both essay questions grouped, got %d", len(sections[1].Questions))
	}
	if sections[0].Instruction == "" || sections[1].Instruction == "" {
		t.Fatalf("sections must carry their instructions")
	}
}

func TestBuildSections_EmptyTypesProduceNoGaps(t *testing.T) {
	sections := NewDocumentGenerator().BuildSections([]model.Question{
		{QuestionType: model.QuestionType{Name: model.TypeMatching}, QuestionText: "Match these."},
	})
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if !strings.HasPrefix(sections[0].Title, "PART 1.") {
		t.Fatalf("the only section must be PART 1, got %q", sections[0].Title)
	}
}

func TestBuildSections_NoQuestions(t *testing.T) {
	if sections := NewDocumentGenerator().BuildSections(nil); len(sections) != 0 {
		t.Fatalf("expected no sections, got %d", len(sections))
	}
}

func TestGenerate_ProducesDOCX(t *testing.T) {
	g := NewDocumentGenerator()
	data := ExamData{
		Institution: "State University",
		Department:  "College of Science",
		Semester:    "1st Semester, A.Y. 2025-2026",
		Title:       "Midterm Examination",
		CourseCode:  "BIO101",
		CourseName:  "General Biology",
		Program:     "BS Biology",
		Instructor:  "Jane Cruz",
		Directions:  DefaultDirections,
		Sections: g.BuildSections([]model.Question{
			mcQuestion("Which organelle produces ATP?", "b"),
			{QuestionType: model.QuestionType{Name: model.TypeTrueFalse}, QuestionText: "DNA is double stranded.", CorrectAnswer: "true"},
		}),
	}

	out, err := g.Generate(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) == 0 {
		t.Fatalf("expected document bytes")
	}
	// DOCX is a zip container; the magic bytes are a cheap integrity check.
	if !bytes.HasPrefix(out, []byte("PK")) {
		t.Fatalf("output does not look like a zip container: % x", out[:4])
	}
}

func TestSanitizeFilename(t *testing.T) {
	g := NewDocumentGenerator()
	cases := []struct {
		subject, title, want string
	}{
		{"BIO101", "Midterm Exam", "BIO101_Midterm_Exam"},
		{"CS 50", "Final: Part 1!", "CS_50_Final_Part_1"},
		{"///", "???", "questionnaire"},
	}
	for _, tc := range cases {
		if got := g.SanitizeFilename(tc.subject, tc.title); got != tc.want {
			t.Fatalf("SanitizeFilename(%q, %q) = %q, want %q", tc.subject, tc.title, got, tc.want)
		}
	}
}
