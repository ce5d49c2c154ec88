package service

import (
	"ai_academy_backend/internal/model"
	"ai_academy_backend/internal/repository"
	"ai_academy_backend/internal/util"
	"ai_academy_backend/pkg/logger"
	"ai_academy_backend/pkg/monitoring"
	"ai_academy_backend/pkg/tracing"
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateTestResultInput struct {
	User   uint  `json:"user" validate:"required"`
	Module uint  `json:"module" validate:"required"`
	Lesson *uint `json:"lesson"`
	Score  *int  `json:"score" validate:"required,min=0,max=100"`
	Passed bool  `json:"passed"`
}

// UpdateTestResultInput 仅允许修改分数与是否通过
type UpdateTestResultInput struct {
	Score  *int  `json:"score" validate:"omitempty,min=0,max=100"`
	Passed *bool `json:"passed"`
}

type TestResultService struct {
	repo    *repository.TestResultRepository
	users   *repository.UserRepository
	lessons *repository.LessonRepository
	modules *ModuleService
}

func NewTestResultService(
	repo *repository.TestResultRepository,
	users *repository.UserRepository,
	lessons *repository.LessonRepository,
	modules *ModuleService,
) *TestResultService {
	return &TestResultService{repo: repo, users: users, lessons: lessons, modules: modules}
}

func (s *TestResultService) ListResults(ctx context.Context) ([]model.TestResult, error) {
	return s.repo.List(ctx)
}

func (s *TestResultService) ListByUser(ctx context.Context, userID uint) ([]model.TestResult, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *TestResultService) GetResult(ctx context.Context, id uint) (*model.TestResult, error) {
	result, err := s.repo.FindByID(ctx, id)
	return result, notFound(err, util.ErrTestResultNotFound)
}

// RecordResult 记录一次测试成绩。期末成绩会替换该用户该模块已有的期末成绩，
// 课时成绩则累积保存。
func (s *TestResultService) RecordResult(ctx context.Context, in CreateTestResultInput) (_ *model.TestResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "test_result.record",
		attribute.Int64("user_id", int64(in.User)),
		attribute.Int64("module_id", int64(in.Module)),
		attribute.Bool("final", in.Lesson == nil),
	)
	defer func() { tracing.EndSpan(span, err) }()

	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := requireExists(ctx, s.users.Exists, in.User, "user"); err != nil {
		return nil, err
	}
	if err := requireExists(ctx, s.modules.ModuleExists, in.Module, "module"); err != nil {
		return nil, err
	}
	if err := s.checkLesson(ctx, in.Module, in.Lesson); err != nil {
		return nil, err
	}

	result := &model.TestResult{
		UserID:   in.User,
		ModuleID: in.Module,
		LessonID: in.Lesson,
		Score:    *in.Score,
		Passed:   in.Passed,
	}
	replaced, err := s.store(ctx, result)
	if err != nil {
		return nil, err
	}

	kind := "lesson"
	if result.IsFinal() {
		kind = "module"
	}
	monitoring.TestResultsRecorded.WithLabelValues(kind).Inc()
	if replaced > 0 {
		monitoring.TestResultsReplaced.Add(float64(replaced))
		logger.Log.Debug("final test results replaced",
			zap.Uint("user_id", in.User),
			zap.Uint("module_id", in.Module),
			zap.Int64("replaced", replaced),
		)
	}
	span.SetAttributes(attribute.Int64("replaced", replaced))

	return s.GetResult(ctx, result.ID)
}

// store 写入成绩；校验之后用户被并发删除时，加锁查询找不到用户行
func (s *TestResultService) store(ctx context.Context, result *model.TestResult) (int64, error) {
	replaced, err := s.repo.Create(ctx, result)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, util.NewValidationError("user", fmt.Sprintf("invalid pk %d - object does not exist", result.UserID))
	}
	return replaced, err
}

func (s *TestResultService) UpdateResult(ctx context.Context, id uint, in UpdateTestResultInput) (*model.TestResult, error) {
	if _, err := s.GetResult(ctx, id); err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Score != nil {
		fields["score"] = *in.Score
	}
	if in.Passed != nil {
		fields["passed"] = *in.Passed
	}
	if len(fields) > 0 {
		if err := s.repo.Updates(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return s.GetResult(ctx, id)
}

func (s *TestResultService) DeleteResult(ctx context.Context, id uint) error {
	return notFound(s.repo.Delete(ctx, id), util.ErrTestResultNotFound)
}

func (s *TestResultService) checkLesson(ctx context.Context, moduleID uint, lessonID *uint) error {
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
