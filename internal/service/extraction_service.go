package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rmontano/testbank/internal/model"
	"github.com/rmontano/testbank/internal/repository"
	"github.com/rmontano/testbank/internal/storage"
	"github.com/rs/zerolog/log"
)

// ExtractionService runs the full pipeline for one questionnaire: read the
// stored file, build the mode-specific prompt, call the model, parse the
// response, and persist the surviving candidates. Each run is a strictly
// ordered sequence of blocking calls; concurrency across documents is the
// caller's business and duplicate runs against the same document are fenced
// by the conditional status claim.
type ExtractionService interface {
	Run(ctx context.Context, questionnaireID uint, typeNames []string, mode ExtractionMode) ([]model.Question, error)
	PersistCandidates(questionnaireID uint, candidates []model.CandidateQuestion) ([]model.Question, error)
}

type extractionService struct {
	questionnaireRepo repository.QuestionnaireRepository
	questionRepo      repository.QuestionRepository
	typeRepo          repository.QuestionTypeRepository
	files             storage.FileStore
	reader            DocumentReader
	prompts           PromptBuilder
	llm               GeminiLLMService
	parser            ResponseParser
}

func NewExtractionService(
	questionnaireRepo repository.QuestionnaireRepository,
	questionRepo repository.QuestionRepository,
	typeRepo repository.QuestionTypeRepository,
	files storage.FileStore,
	reader DocumentReader,
	prompts PromptBuilder,
	llm GeminiLLMService,
	parser ResponseParser,
) ExtractionService {
	return &extractionService{
		questionnaireRepo: questionnaireRepo,
		questionRepo:      questionRepo,
		typeRepo:          typeRepo,
		files:             files,
		reader:            reader,
		prompts:           prompts,
		llm:               llm,
		parser:            parser,
	}
}

// Run drives the job state machine: pending/failed -> processing ->
// completed or failed. Every failure mode is converted to a recorded
// failure reason; nothing escapes the job boundary.
func (s *extractionService) Run(ctx context.Context, questionnaireID uint, typeNames []string, mode ExtractionMode) ([]model.Question, error) {
	questionnaire, err := s.questionnaireRepo.FindByID(questionnaireID)
	if err != nil {
		return nil, fmt.Errorf("questionnaire %d not found: %w", questionnaireID, err)
	}

	claimed, err := s.questionnaireRepo.ClaimForExtraction(questionnaireID)
	if err != nil {
		return nil, fmt.Errorf("claiming questionnaire %d for extraction: %w", questionnaireID, err)
	}
	if !claimed {
		return nil, fmt.Errorf("questionnaire %d in status %q: %w", questionnaireID, questionnaire.ExtractionStatus, ErrNotClaimable)
	}

	questions, err := s.run(ctx, questionnaire, typeNames, mode)
	if err != nil {
		if ferr := s.questionnaireRepo.SetExtractionResult(questionnaireID, model.StatusFailed, err.Error()); ferr != nil {
			log.Error().Err(ferr).Uint("questionnaireID", questionnaireID).Msg("Failed to record extraction failure")
		}
		return nil, err
	}

	if err := s.questionnaireRepo.SetExtractionResult(questionnaireID, model.StatusCompleted, ""); err != nil {
		log.Error().Err(err).Uint("questionnaireID", questionnaireID).Msg("Failed to record extraction completion")
	}
	log.Info().Uint("questionnaireID", questionnaireID).Int("questions", len(questions)).Str("mode", mode.String()).Msg("Extraction completed")
	return questions, nil
}

func (s *extractionService) run(ctx context.Context, questionnaire *model.Questionnaire, typeNames []string, mode ExtractionMode) ([]model.Question, error) {
	// A retry re-extracts from scratch; prior questions for this document
	// are cleared rather than upserted.
	if err := s.questionRepo.DeleteByQuestionnaire(questionnaire.ID); err != nil {
		return nil, fmt.Errorf("clearing prior questions: %w", err)
	}

	file, err := s.files.Get(questionnaire.FilePath)
	if err != nil {
		return nil, fmt.Errorf("opening stored file %s: %w", questionnaire.FilePath, err)
	}
	defer file.Close()

	text, err := s.reader.Read(file, questionnaire.FileType)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyContent
	}

	prompt, err := s.prompts.BuildPrompt(text, typeNames, mode)
	if err != nil {
		return nil, err
	}

	raw, err := s.llm.GenerateQuestions(ctx, prompt, mode.Temperature())
	if err != nil {
		return nil, err
	}

	candidates, err := s.parser.ParseQuestions(raw)
	if err != nil {
		return nil, err
	}

	questions, err := s.PersistCandidates(questionnaire.ID, candidates)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrZeroQuestions
	}
	return questions, nil
}

// PersistCandidates maps validated candidates onto stored question rows.
// Candidates referencing an unknown question type are skipped with a note;
// the batch continues. Extracted questions start unapproved.
func (s *extractionService) PersistCandidates(questionnaireID uint, candidates []model.CandidateQuestion) ([]model.Question, error) {
	typeCache := make(map[string]*model.QuestionType)
	persisted := make([]model.Question, 0, len(candidates))

	for _, c := range candidates {
		qt, ok := typeCache[c.Type]
		if !ok {
			found, err := s.typeRepo.FindByName(c.Type)
			if err != nil {
				log.Warn().Str("type", c.Type).Str("question", preview(c.Question)).Msg("Skipping candidate with unknown question type")
				typeCache[c.Type] = nil
				continue
			}
			typeCache[c.Type] = found
			qt = found
		}
		if qt == nil {
			continue
		}

		question := model.Question{
			QuestionnaireID: questionnaireID,
			QuestionTypeID:  qt.ID,
			QuestionText:    c.Question,
			OptionA:         optionPtr(c.OptionA),
			OptionB:         optionPtr(c.OptionB),
			OptionC:         optionPtr(c.OptionC),
			OptionD:         optionPtr(c.OptionD),
			CorrectAnswer:   c.Answer,
			Explanation:     c.Explanation,
			Points:          c.Points,
			Difficulty:      c.Difficulty,
			IsApproved:      false,
		}
		if err := s.questionRepo.Create(&question); err != nil {
			log.Error().Err(err).Str("question", preview(c.Question)).Msg("Failed to persist question, skipping")
			continue
		}
		persisted = append(persisted, question)
	}
	return persisted, nil
}

func optionPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
