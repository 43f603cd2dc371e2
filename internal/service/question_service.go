package service

import (
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/rmontano/testbank/internal/dto"
	"github.com/rmontano/testbank/internal/model"
	"github.com/rmontano/testbank/internal/repository"
	"github.com/rs/zerolog/log"
)

// QuestionService covers the human review loop between extraction and
// document generation: listing, manual entry, edits, approval.
type QuestionService interface {
	ListByQuestionnaire(questionnaireID uint) ([]dto.QuestionResponse, error)
	AddManual(questionnaireID uint, req dto.ManualQuestionRequest) (*dto.QuestionResponse, error)
	Update(id uint, req dto.QuestionUpdateRequest) (*dto.QuestionResponse, error)
	SetApproval(id uint, approved bool) (*dto.QuestionResponse, error)
	Delete(id uint) error
}

type questionService struct {
	questionRepo      repository.QuestionRepository
	questionnaireRepo repository.QuestionnaireRepository
	typeRepo          repository.QuestionTypeRepository
}

func NewQuestionService(
	questionRepo repository.QuestionRepository,
	questionnaireRepo repository.QuestionnaireRepository,
	typeRepo repository.QuestionTypeRepository,
) QuestionService {
	return &questionService{
		questionRepo:      questionRepo,
		questionnaireRepo: questionnaireRepo,
		typeRepo:          typeRepo,
	}
}

func (s *questionService) ListByQuestionnaire(questionnaireID uint) ([]dto.QuestionResponse, error) {
	if _, err := s.questionnaireRepo.FindByID(questionnaireID); err != nil {
		return nil, fmt.Errorf("questionnaire %d not found: %w", questionnaireID, err)
	}
	questions, err := s.questionRepo.FindByQuestionnaire(questionnaireID)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	resp := make([]dto.QuestionResponse, len(questions))
	for i, q := range questions {
		resp[i] = toQuestionResponse(q)
	}
	return resp, nil
}

// AddManual creates a question outside the AI pipeline. Unlike extracted
// questions, manual entries are approved immediately: the reviewer typed
// them in on purpose.
func (s *questionService) AddManual(questionnaireID uint, req dto.ManualQuestionRequest) (*dto.QuestionResponse, error) {
	if _, err := s.questionnaireRepo.FindByID(questionnaireID); err != nil {
		return nil, fmt.Errorf("questionnaire %d not found: %w", questionnaireID, err)
	}

	qt, err := s.typeRepo.FindByName(req.Type)
	if err != nil {
		return nil, fmt.Errorf("unknown question type %q: %w", req.Type, err)
	}
	if req.Type == model.TypeMultipleChoice {
		for _, opt := range []*string{req.OptionA, req.OptionB, req.OptionC, req.OptionD} {
			if opt == nil || strings.TrimSpace(*opt) == "" {
				return nil, fmt.Errorf("multiple choice questions require all four options")
			}
		}
	}

	question := model.Question{
		QuestionnaireID: questionnaireID,
		QuestionTypeID:  qt.ID,
		QuestionText:    req.QuestionText,
		OptionA:         req.OptionA,
		OptionB:         req.OptionB,
		OptionC:         req.OptionC,
		OptionD:         req.OptionD,
		CorrectAnswer:   req.Answer,
		Explanation:     req.Explanation,
		Points:          req.Points,
		Difficulty:      req.Difficulty,
		IsApproved:      true,
	}
	applyQuestionDefaults(&question)

	if err := s.questionRepo.Create(&question); err != nil {
		return nil, fmt.Errorf("creating question: %w", err)
	}
	question.QuestionType = *qt
	resp := toQuestionResponse(question)
	return &resp, nil
}

func (s *questionService) Update(id uint, req dto.QuestionUpdateRequest) (*dto.QuestionResponse, error) {
	question, err := s.questionRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("question %d not found: %w", id, err)
	}

	question.QuestionText = req.QuestionText
	question.OptionA = req.OptionA
	question.OptionB = req.OptionB
	question.OptionC = req.OptionC
	question.OptionD = req.OptionD
	question.CorrectAnswer = req.Answer
	question.Explanation = req.Explanation
	question.Difficulty = req.Difficulty
	question.Points = req.Points
	applyQuestionDefaults(question)

	if err := s.questionRepo.Update(question); err != nil {
		return nil, fmt.Errorf("updating question %d: %w", id, err)
	}
	resp := toQuestionResponse(*question)
	return &resp, nil
}

func (s *questionService) SetApproval(id uint, approved bool) (*dto.QuestionResponse, error) {
	question, err := s.questionRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("question %d not found: %w", id, err)
	}
	question.IsApproved = approved
	if err := s.questionRepo.Update(question); err != nil {
		return nil, fmt.Errorf("updating approval for question %d: %w", id, err)
	}
	log.Info().Uint("questionID", id).Bool("approved", approved).Msg("Question approval updated")
	resp := toQuestionResponse(*question)
	return &resp, nil
}

func (s *questionService) Delete(id uint) error {
	if _, err := s.questionRepo.FindByID(id); err != nil {
		return fmt.Errorf("question %d not found: %w", id, err)
	}
	return s.questionRepo.Delete(id)
}

func applyQuestionDefaults(q *model.Question) {
	switch q.Difficulty {
	case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
	default:
		q.Difficulty = model.DifficultyMedium
	}
	if q.Points < 1 {
		q.Points = 1
	}
}

func toQuestionResponse(q model.Question) dto.QuestionResponse {
	var resp dto.QuestionResponse
	copier.Copy(&resp, &q)
	resp.QuestionTypeName = q.QuestionType.Name
	return resp
}
