package service

import (
	"ai_academy_backend/internal/model"
	"ai_academy_backend/internal/repository"
	"ai_academy_backend/internal/util"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type AnswerInput struct {
	AnswerText string `json:"answer_text" validate:"required,max=500"`
	IsCorrect  bool   `json:"is_correct"`
	Order      int    `json:"order"`
}

type CreateQuestionInput struct {
	Module       uint          `json:"module" validate:"required"`
	Lesson       *uint         `json:"lesson"`
	QuestionText string        `json:"question_text" validate:"required"`
	QuestionType string        `json:"question_type" validate:"omitempty,oneof=single multiple"`
	Order        int           `json:"order"`
	Answers      []AnswerInput `json:"answers" validate:"dive"`
}

// UpdateQuestionInput 题目所属模块不可修改；答案通过答案接口单独维护。
// lesson 为 0 时解除与课时的关联。
type UpdateQuestionInput struct {
	Lesson       *uint   `json:"lesson"`
	QuestionText *string `json:"question_text"`
	QuestionType *string `json:"question_type" validate:"omitempty,oneof=single multiple"`
	Order        *int    `json:"order"`
}

type QuestionService struct {
	repo    *repository.QuestionRepository
	lessons *repository.LessonRepository
	modules *ModuleService
}

func NewQuestionService(repo *repository.QuestionRepository, lessons *repository.LessonRepository, modules *ModuleService) *QuestionService {
	return &QuestionService{repo: repo, lessons: lessons, modules: modules}
}

func (s *QuestionService) ListQuestions(ctx context.Context) ([]model.Question, error) {
	return s.repo.List(ctx)
}

func (s *QuestionService) ListByModule(ctx context.Context, moduleID uint) ([]model.Question, error) {
	return s.repo.ListByModule(ctx, moduleID)
}

func (s *QuestionService) GetQuestion(ctx context.Context, id uint) (*model.Question, error) {
	question, err := s.repo.FindByID(ctx, id)
	return question, notFound(err, util.ErrQuestionNotFound)
}

func (s *QuestionService) QuestionExists(ctx context.Context, id uint) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func (s *QuestionService) CreateQuestion(ctx context.Context, in CreateQuestionInput) (*model.Question, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := requireExists(ctx, s.modules.ModuleExists, in.Module, "module"); err != nil {
		return nil, err
	}
	if err := s.checkLesson(ctx, in.Module, in.Lesson); err != nil {
		return nil, err
	}

	question := &model.Question{
		ModuleID:     in.Module,
		LessonID:     in.Lesson,
		QuestionText: in.QuestionText,
		QuestionType: model.QuestionType(in.QuestionType),
		Order:        in.Order,
	}
	if question.QuestionType == "" {
		question.QuestionType = model.SingleChoice
	}
	for _, a := range in.Answers {
		question.Answers = append(question.Answers, model.Answer{
			AnswerText: a.AnswerText,
			IsCorrect:  a.IsCorrect,
			Order:      a.Order,
		})
	}

	if err := s.repo.Create(ctx, question); err != nil {
		return nil, err
	}
	s.modules.InvalidateCatalog(ctx)
	return s.GetQuestion(ctx, question.ID)
}

func (s *QuestionService) UpdateQuestion(ctx context.Context, id uint, in UpdateQuestionInput) (*model.Question, error) {
	question, err := s.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	switch {
	case in.Lesson == nil:
	case *in.Lesson == 0:
		fields["lesson_id"] = nil
	default:
		if err := s.checkLesson(ctx, question.ModuleID, in.Lesson); err != nil {
			return nil, err
		}
		fields["lesson_id"] = *in.Lesson
	}
	if in.QuestionText != nil {
		if *in.QuestionText == "" {
			return nil, util.NewValidationError("question_text", "this field may not be blank")
		}
		fields["question_text"] = *in.QuestionText
	}
	if in.QuestionType != nil && *in.QuestionType != "" {
		fields["question_type"] = *in.QuestionType
	}
	if in.Order != nil {
		fields["sort_order"] = *in.Order
	}

	if len(fields) > 0 {
		if err := s.repo.Updates(ctx, id, fields); err != nil {
			return nil, err
		}
		s.modules.InvalidateCatalog(ctx)
	}
	return s.GetQuestion(ctx, id)
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, util.ErrQuestionNotFound)
	}
	s.modules.InvalidateCatalog(ctx)
	return nil
}

// checkLesson 课时（如有）必须属于题目所在模块
func (s *QuestionService) checkLesson(ctx context.Context, moduleID uint, lessonID *uint) error {
	if lessonID == nil {
		return nil
	}
	lesson, err := s.lessons.FindByID(ctx, *lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NewValidationError("lesson", fmt.Sprintf("invalid pk %d - object does not exist", *lessonID))
		}
		return err
	}
	if lesson.ModuleID != moduleID {
		return util.NewValidationError("lesson", "lesson does not belong to this module")
	}
	return nil
}

type CreateAnswerInput struct {
	Question   uint   `json:"question" validate:"required"`
	AnswerText string `json:"answer_text" validate:"required,max=500"`
	IsCorrect  bool   `json:"is_correct"`
	Order      int    `json:"order"`
}

type UpdateAnswerInput struct {
	AnswerText *string `json:"answer_text" validate:"omitempty,max=500"`
	IsCorrect  *bool   `json:"is_correct"`
	Order      *int    `json:"order"`
}

type AnswerService struct {
	repo      *repository.AnswerRepository
	questions *QuestionService
	modules   *ModuleService
}

func NewAnswerService(repo *repository.AnswerRepository, questions *QuestionService, modules *ModuleService) *AnswerService {
	return &AnswerService{repo: repo, questions: questions, modules: modules}
}

// ListAnswers questionID 为 0 时不过滤
func (s *AnswerService) ListAnswers(ctx context.Context, questionID uint) ([]model.Answer, error) {
	return s.repo.List(ctx, questionID)
}

func (s *AnswerService) GetAnswer(ctx context.Context, id uint) (*model.Answer, error) {
	answer, err := s.repo.FindByID(ctx, id)
	return answer, notFound(err, util.ErrAnswerNotFound)
}

func (s *AnswerService) CreateAnswer(ctx context.Context, in CreateAnswerInput) (*model.Answer, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := requireExists(ctx, s.questions.QuestionExists, in.Question, "question"); err != nil {
		return nil, err
	}

	answer := &model.Answer{
		QuestionID: in.Question,
		AnswerText: in.AnswerText,
		IsCorrect:  in.IsCorrect,
		Order:      in.Order,
	}
	if err := s.repo.Create(ctx, answer); err != nil {
		return nil, err
	}
	s.modules.InvalidateCatalog(ctx)
	return answer, nil
}

func (s *AnswerService) UpdateAnswer(ctx context.Context, id uint, in UpdateAnswerInput) (*model.Answer, error) {
	if _, err := s.GetAnswer(ctx, id); err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.AnswerText != nil {
		if *in.AnswerText == "" {
			return nil, util.NewValidationError("answer_text", "this field may not be blank")
		}
		fields["answer_text"] = *in.AnswerText
	}
	if in.IsCorrect != nil {
		fields["is_correct"] = *in.IsCorrect
	}
	if in.Order != nil {
		fields["sort_order"] = *in.Order
	}

	if len(fields) > 0 {
		if err := s.repo.Updates(ctx, id, fields); err != nil {
			return nil, err
		}
		s.modules.InvalidateCatalog(ctx)
	}
	return s.GetAnswer(ctx, id)
}

func (s *AnswerService) DeleteAnswer(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, util.ErrAnswerNotFound)
	}
	s.modules.InvalidateCatalog(ctx)
	return nil
}
