package service

import (
	"strings"
	"testing"

	"github.com/rmontano/testbank/internal/dto"
	"github.com/rmontano/testbank/internal/model"
)

func newQuestionFixture() (QuestionService, *fakeQuestionRepo) {
	qRepo := &fakeQuestionRepo{}
	qnRepo := &fakeQuestionnaireRepo{
		questionnaire: model.Questionnaire{ID: 7, ExtractionStatus: model.StatusCompleted},
	}
	return NewQuestionService(qRepo, qnRepo, &fakeTypeRepo{}), qRepo
}

func TestAddManual_ApprovedImmediately(t *testing.T) {
	svc, qRepo := newQuestionFixture()

	got, err := svc.AddManual(7, dto.ManualQuestionRequest{
		Type:         model.TypeIdentification,
		QuestionText: "Capital of France?",
		Answer:       "Paris",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsApproved {
		t.Fatalf("manual questions must be approved immediately")
	}
	if got.Difficulty != model.DifficultyMedium || got.Points != 1 {
		t.Fatalf("defaults not applied: %+v", got)
	}
	if len(qRepo.created) != 1 {
		t.Fatalf("expected one persisted question, got %d", len(qRepo.created))
	}
}

func TestAddManual_MultipleChoiceRequiresAllOptions(t *testing.T) {
	svc, qRepo := newQuestionFixture()

	a, b, c := "alpha", "beta", "gamma"
	_, err := svc.AddManual(7, dto.ManualQuestionRequest{
		Type:         model.TypeMultipleChoice,
		QuestionText: "Pick one.",
		OptionA:      &a,
		OptionB:      &b,
		OptionC:      &c,
		Answer:       "a",
	})
	if err == nil {
		t.Fatalf("expected error for missing option_d")
	}
	if !strings.Contains(err.Error(), "four options") {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qRepo.created) != 0 {
		t.Fatalf("nothing may be persisted on rejection")
	}
}

func TestAddManual_UnknownTypeRejected(t *testing.T) {
	svc, _ := newQuestionFixture()

	_, err := svc.AddManual(7, dto.ManualQuestionRequest{
		Type:         "riddle",
		QuestionText: "What walks on four legs?",
	})
	if err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestAddManual_UnknownQuestionnaireRejected(t *testing.T) {
	svc, _ := newQuestionFixture()

	_, err := svc.AddManual(99, dto.ManualQuestionRequest{
		Type:         model.TypeEssay,
		QuestionText: "Discuss.",
	})
	if err == nil {
		t.Fatalf("expected error for unknown questionnaire")
	}
}
