package repository

import (
	"testing"

	"github.com/rmontano/testbank/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	// A pooled second connection would see its own empty in-memory DB.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrapping sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&model.Department{},
		&model.Subject{},
		&model.Teacher{},
		&model.QuestionType{},
		&model.Questionnaire{},
		&model.Question{},
		&model.Download{},
	); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

func seedQuestionnaire(t *testing.T, db *gorm.DB, status model.ExtractionStatus) *model.Questionnaire {
	t.Helper()
	dept := model.Department{Name: "College of Science", Code: "SCI"}
	if err := db.Create(&dept).Error; err != nil {
		t.Fatalf("seeding department: %v", err)
	}
	subject := model.Subject{Name: "General Biology", Code: "BIO101", DepartmentID: dept.ID}
	if err := db.Create(&subject).Error; err != nil {
		t.Fatalf("seeding subject: %v", err)
	}
	teacher := model.Teacher{FirstName: "Jane", LastName: "Cruz", Email: "jane.cruz@example.edu"}
	if err := db.Create(&teacher).Error; err != nil {
		t.Fatalf("seeding teacher: %v", err)
	}
	q := model.Questionnaire{
		Title:            "Quiz 1",
		DepartmentID:     dept.ID,
		SubjectID:        subject.ID,
		TeacherID:        teacher.ID,
		FilePath:         "questionnaires/SCI/BIO101/x_quiz.pdf",
		FileType:         "pdf",
		FileSize:         1024,
		ExtractionStatus: status,
		ExtractionError:  "previous failure",
	}
	if err := db.Create(&q).Error; err != nil {
		t.Fatalf("seeding questionnaire: %v", err)
	}
	return &q
}

func TestClaimForExtraction_PendingClaimedOnce(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuestionnaireRepository(db)
	q := seedQuestionnaire(t, db, model.StatusPending)

	claimed, err := repo.ClaimForExtraction(q.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !claimed {
		t.Fatalf("pending questionnaire must be claimable")
	}

	again, err := repo.ClaimForExtraction(q.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again {
		t.Fatalf("second claim must be rejected while processing")
	}

	got, err := repo.FindByID(q.ID)
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}
	if got.ExtractionStatus != model.StatusProcessing {
		t.Fatalf("expected processing, got %q", got.ExtractionStatus)
	}
	if got.ExtractionError != "" {
		t.Fatalf("claim must clear the previous failure reason, got %q", got.ExtractionError)
	}
}

func TestClaimForExtraction_FailedIsRetryable(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuestionnaireRepository(db)
	q := seedQuestionnaire(t, db, model.StatusFailed)

	claimed, err := repo.ClaimForExtraction(q.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !claimed {
		t.Fatalf("failed questionnaire must be claimable for retry")
	}
}

func TestClaimForExtraction_CompletedIsNot(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuestionnaireRepository(db)
	q := seedQuestionnaire(t, db, model.StatusCompleted)

	claimed, err := repo.ClaimForExtraction(q.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claimed {
		t.Fatalf("completed questionnaire must not be claimable")
	}
}

func TestSetExtractionResult(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuestionnaireRepository(db)
	q := seedQuestionnaire(t, db, model.StatusProcessing)

	if err := repo.SetExtractionResult(q.ID, model.StatusFailed, "no questions found"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := repo.FindByID(q.ID)
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}
	if got.ExtractionStatus != model.StatusFailed || got.ExtractionError != "no questions found" {
		t.Fatalf("result not recorded: %+v", got)
	}
}

func TestQuestionRepository_ApprovalFilterAndCascade(t *testing.T) {
	db := newTestDB(t)
	qRepo := NewQuestionRepository(db)
	typeRepo := NewQuestionTypeRepository(db)
	if err := typeRepo.Seed(); err != nil {
		t.Fatalf("seeding types: %v", err)
	}
	qt, err := typeRepo.FindByName(model.TypeIdentification)
	if err != nil {
		t.Fatalf("looking up type: %v", err)
	}

	q := seedQuestionnaire(t, db, model.StatusCompleted)
	approved := model.Question{QuestionnaireID: q.ID, QuestionTypeID: qt.ID, QuestionText: "Capital of France?", CorrectAnswer: "Paris", Points: 1, Difficulty: model.DifficultyMedium, IsApproved: true}
	pending := model.Question{QuestionnaireID: q.ID, QuestionTypeID: qt.ID, QuestionText: "Capital of Spain?", CorrectAnswer: "Madrid", Points: 1, Difficulty: model.DifficultyMedium}
	for _, row := range []*model.Question{&approved, &pending} {
		if err := qRepo.Create(row); err != nil {
			t.Fatalf("creating question: %v", err)
		}
	}

	got, err := qRepo.FindApprovedByIDs(q.ID, []uint{approved.ID, pending.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != approved.ID {
		t.Fatalf("only approved questions may be returned, got %+v", got)
	}

	if err := qRepo.DeleteByQuestionnaire(q.ID); err != nil {
		t.Fatalf("clearing questions: %v", err)
	}
	remaining, err := qRepo.FindByQuestionnaire(q.ID)
	if err != nil {
		t.Fatalf("listing after clear: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected no questions after clear, got %d", len(remaining))
	}

	// Unscoped clear leaves no soft-deleted rows behind either.
	var count int64
	if err := db.Unscoped().Model(&model.Question{}).Where("questionnaire_id = ?", q.ID).Count(&count).Error; err != nil {
		t.Fatalf("counting: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected hard delete, found %d rows", count)
	}
}
