package service

import (
	"errors"
	"testing"

	"github.com/rmontano/testbank/internal/model"
)

func TestParseQuestions_CleanArray(t *testing.T) {
	raw := `[
		{"type": "multiple_choice", "question": "What is 2+2?", "option_a": "3", "option_b": "4", "option_c": "5", "option_d": "6", "answer": "b", "difficulty": "easy", "points": 2},
		{"type": "true_false", "question": "The sky is blue.", "answer": "true"}
	]`

	p := NewResponseParser()
	got, err := p.ParseQuestions(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].Type != model.TypeMultipleChoice || got[0].OptionB != "4" || got[0].Points != 2 {
		t.Fatalf("unexpected first candidate: %+v", got[0])
	}
	if got[1].Difficulty != model.DifficultyMedium {
		t.Fatalf("expected default difficulty medium, got %q", got[1].Difficulty)
	}
	if got[1].Points != 1 {
		t.Fatalf("expected default points 1, got %d", got[1].Points)
	}
}

func TestParseQuestions_MarkdownFencedAndProse(t *testing.T) {
	raw := "Here are the questions you asked for:\n```json\n" +
		`[{"type": "essay", "question": "Explain photosynthesis.", "answer": "Key points: light, chlorophyll."}]` +
		"\n```\nLet me know if you need more."

	got, err := NewResponseParser().ParseQuestions(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Type != model.TypeEssay {
		t.Fatalf("expected one essay candidate, got %+v", got)
	}
}

func TestParseQuestions_QuestionsWrapper(t *testing.T) {
	raw := `{"questions": [{"type": "identification", "question": "Capital of France?", "answer": "Paris"}]}`

	got, err := NewResponseParser().ParseQuestions(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Answer != "Paris" {
		t.Fatalf("unexpected candidates: %+v", got)
	}
}

func TestParseQuestions_SalvagesFromTruncatedResponse(t *testing.T) {
	// The second object is cut off mid-field, as happens when the model
	// hits its output token limit.
	raw := `[
		{"type": "identification", "question": "Capital of France?", "answer": "Paris"},
		{"type": "identification", "question": "Capital of Ger`

	got, err := NewResponseParser().ParseQuestions(raw)
	if err != nil {
		t.Fatalf("expected salvage to succeed, got %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 salvaged candidate, got %d", len(got))
	}
	if got[0].Question != "Capital of France?" {
		t.Fatalf("unexpected salvaged candidate: %+v", got[0])
	}
}

func TestParseQuestions_SalvagesInsideTruncatedWrapper(t *testing.T) {
	raw := `{"questions": [
		{"type": "true_false", "question": "Water boils at 100C at sea level.", "answer": "true"},
		{"type": "true_false", "question": "Ice is`

	got, err := NewResponseParser().ParseQuestions(raw)
	if err != nil {
		t.Fatalf("expected salvage to succeed, got %v", err)
	}
	if len(got) != 1 || got[0].Question != "Water boils at 100C at sea level." {
		t.Fatalf("unexpected salvaged candidates: %+v", got)
	}
}

func TestParseQuestions_DropsIncompleteMultipleChoice(t *testing.T) {
	raw := `[
		{"type": "multiple_choice", "question": "Pick one.", "option_a": "x", "option_b": "y", "option_c": "z", "answer": "a"},
		{"type": "multiple_choice", "question": "Pick again.", "option_a": "1", "option_b": "2", "option_c": "3", "option_d": "4", "answer": "d"}
	]`

	got, err := NewResponseParser().ParseQuestions(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected the three-option question to be dropped, got %d candidates", len(got))
	}
	if got[0].Question != "Pick again." {
		t.Fatalf("wrong candidate survived: %+v", got[0])
	}
}

func TestParseQuestions_NestedOptionsShape(t *testing.T) {
	raw := `[{"type": "multiple_choice", "question": "Pick.", "options": {"a": "w", "b": "x", "c": "y", "d": "z"}, "correct_answer": "c"}]`

	got, err := NewResponseParser().ParseQuestions(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].OptionC != "y" || got[0].Answer != "c" {
		t.Fatalf("unexpected candidate: %+v", got)
	}
}

func TestParseQuestions_UnparseableReturnsParseFailure(t *testing.T) {
	_, err := NewResponseParser().ParseQuestions("I could not find any questions in the document, sorry.")
	if err == nil {
		t.Fatalf("expected error")
	}
	var pf *ParseFailureError
	if !errors.As(err, &pf) {
		t.Fatalf("expected ParseFailureError, got %T: %v", err, err)
	}
	if pf.Preview == "" {
		t.Fatalf("expected a preview of the raw response")
	}
}

func TestParseQuestions_PreviewIsBounded(t *testing.T) {
	long := make([]byte, 5000)
	for i := range long {
		long[i] = 'x'
	}
	_, err := NewResponseParser().ParseQuestions(string(long))
	var pf *ParseFailureError
	if !errors.As(err, &pf) {
		t.Fatalf("expected ParseFailureError, got %v", err)
	}
	if len(pf.Preview) > parseFailurePreviewLen {
		t.Fatalf("preview length %d exceeds bound %d", len(pf.Preview), parseFailurePreviewLen)
	}
}

func TestValidateCandidate_Idempotent(t *testing.T) {
	obj := map[string]any{
		"type":       "essay",
		"question":   "Discuss.",
		"answer":     "Anything reasonable.",
		"difficulty": "bogus",
	}
	first, ok := validateCandidate(obj)
	if !ok {
		t.Fatalf("expected valid candidate")
	}
	if first.Difficulty != model.DifficultyMedium || first.Points != 1 {
		t.Fatalf("defaults not applied: %+v", first)
	}

	again := map[string]any{
		"type":       first.Type,
		"question":   first.Question,
		"answer":     first.Answer,
		"difficulty": first.Difficulty,
		"points":     float64(first.Points),
	}
	second, ok := validateCandidate(again)
	if !ok {
		t.Fatalf("expected re-validation to pass")
	}
	if second != first {
		t.Fatalf("re-validation changed the candidate: %+v vs %+v", second, first)
	}
}
