package service

import (
	"ai_academy_backend/internal/model"
	"ai_academy_backend/internal/repository"
	"ai_academy_backend/internal/util"
	"ai_academy_backend/pkg/monitoring"
	"ai_academy_backend/pkg/tracing"
	"context"

	"go.opentelemetry.io/otel/attribute"
)

type CreateProgressInput struct {
	User             uint `json:"user" validate:"required"`
	Module           uint `json:"module" validate:"required"`
	Started          bool `json:"started"`
	ViewedLessons    int  `json:"viewed_lessons" validate:"min=0"`
	CompletedLessons int  `json:"completed_lessons" validate:"min=0"`
	TotalLessons     int  `json:"total_lessons" validate:"min=0"`
}

// ProgressFields 进度中可单独覆盖的字段，nil 表示请求中未提供
type ProgressFields struct {
	Started          *bool `json:"started"`
	ViewedLessons    *int  `json:"viewed_lessons" validate:"omitempty,min=0"`
	CompletedLessons *int  `json:"completed_lessons" validate:"omitempty,min=0"`
	TotalLessons     *int  `json:"total_lessons" validate:"omitempty,min=0"`
}

func (f ProgressFields) columns() map[string]interface{} {
	fields := map[string]interface{}{}
	if f.Started != nil {
		fields["started"] = *f.Started
	}
	if f.ViewedLessons != nil {
		fields["viewed_lessons"] = *f.ViewedLessons
	}
	if f.CompletedLessons != nil {
		fields["completed_lessons"] = *f.CompletedLessons
	}
	if f.TotalLessons != nil {
		fields["total_lessons"] = *f.TotalLessons
	}
	return fields
}

type UpsertProgressInput struct {
	User   uint `json:"user_id"`
	Module uint `json:"module_id"`
	ProgressFields
}

type ProgressService struct {
	repo    *repository.ProgressRepository
	users   *repository.UserRepository
	modules *ModuleService
}

func NewProgressService(repo *repository.ProgressRepository, users *repository.UserRepository, modules *ModuleService) *ProgressService {
	return &ProgressService{repo: repo, users: users, modules: modules}
}

func (s *ProgressService) ListProgress(ctx context.Context) ([]model.UserProgress, error) {
	return s.repo.List(ctx)
}

func (s *ProgressService) ListByUser(ctx context.Context, userID uint) ([]model.UserProgress, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *ProgressService) GetProgress(ctx context.Context, id uint) (*model.UserProgress, error) {
	progress, err := s.repo.FindByID(ctx, id)
	return progress, notFound(err, util.ErrProgressNotFound)
}

func (s *ProgressService) CreateProgress(ctx context.Context, in CreateProgressInput) (*model.UserProgress, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, in.User, in.Module); err != nil {
		return nil, err
	}

	taken, err := s.repo.PairExists(ctx, in.User, in.Module)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, util.NewValidationError("non_field_errors", "the fields user, module must make a unique set")
	}

	progress := &model.UserProgress{
		UserID:           in.User,
		ModuleID:         in.Module,
		Started:          in.Started,
		ViewedLessons:    in.ViewedLessons,
		CompletedLessons: in.CompletedLessons,
		TotalLessons:     in.TotalLessons,
	}
	if err := s.repo.Create(ctx, progress); err != nil {
		return nil, duplicate(err, "non_field_errors", "the fields user, module must make a unique set")
	}
	return s.GetProgress(ctx, progress.ID)
}

// UpdateProgress 用户与模块不可修改，只覆盖提供的计数字段
func (s *ProgressService) UpdateProgress(ctx context.Context, id uint, in ProgressFields) (*model.UserProgress, error) {
	if _, err := s.GetProgress(ctx, id); err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if fields := in.columns(); len(fields) > 0 {
		if err := s.repo.Updates(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return s.GetProgress(ctx, id)
}

func (s *ProgressService) DeleteProgress(ctx context.Context, id uint) error {
	return notFound(s.repo.Delete(ctx, id), util.ErrProgressNotFound)
}

// UpdateOrCreate 不存在时按给定值创建（缺省为 false/0），存在时只覆盖给定字段。
// 返回的 bool 表示是否新建。
func (s *ProgressService) UpdateOrCreate(ctx context.Context, in UpsertProgressInput) (_ *model.UserProgress, created bool, err error) {
	ctx, span := tracing.StartSpan(ctx, "progress.update_or_create",
		attribute.Int64("user_id", int64(in.User)),
		attribute.Int64("module_id", int64(in.Module)),
	)
	defer func() { tracing.EndSpan(span, err) }()

	if err := validateStruct(in.ProgressFields); err != nil {
		return nil, false, err
	}
	if err := s.checkRefs(ctx, in.User, in.Module); err != nil {
		return nil, false, err
	}

	progress := &model.UserProgress{UserID: in.User, ModuleID: in.Module}
	if in.Started != nil {
		progress.Started = *in.Started
	}
	if in.ViewedLessons != nil {
		progress.ViewedLessons = *in.ViewedLessons
	}
	if in.CompletedLessons != nil {
		progress.CompletedLessons = *in.CompletedLessons
	}
	if in.TotalLessons != nil {
		progress.TotalLessons = *in.TotalLessons
	}

	created, err = s.repo.Upsert(ctx, progress, in.columns())
	if err != nil {
		return nil, false, err
	}

	outcome := "updated"
	if created {
		outcome = "created"
	}
	monitoring.ProgressUpserts.WithLabelValues(outcome).Inc()
	span.SetAttributes(attribute.Bool("created", created))

	result, err := s.repo.FindByUserAndModule(ctx, in.User, in.Module)
	if err != nil {
		return nil, false, notFound(err, util.ErrProgressNotFound)
	}
	return result, created, nil
}

func (s *ProgressService) checkRefs(ctx context.Context, userID, moduleID uint) error {
	if err := requireExists(ctx, s.users.Exists, userID, "user"); err != nil {
		return err
	}
	return requireExists(ctx, s.modules.ModuleExists, moduleID, "module")
}
