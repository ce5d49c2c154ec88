package service

import (
	"ai_academy_backend/internal/model"
	"ai_academy_backend/internal/repository"
	"ai_academy_backend/internal/util"
	"context"
)

type CreateLessonInput struct {
	Module        uint    `json:"module" validate:"required"`
	Title         string  `json:"title" validate:"required,max=200"`
	Content       string  `json:"content" validate:"required"`
	VideoURL      *string `json:"video_url" validate:"omitempty,max=200,url_or_blank"`
	VideoTitle    *string `json:"video_title" validate:"omitempty,max=200"`
	VideoChannel  *string `json:"video_channel" validate:"omitempty,max=200"`
	VideoDuration *string `json:"video_duration" validate:"omitempty,max=50"`
	Order         int     `json:"order"`
}

type UpdateLessonInput struct {
	Title         *string `json:"title" validate:"omitempty,max=200"`
	Content       *string `json:"content"`
	VideoURL      *string `json:"video_url" validate:"omitempty,max=200,url_or_blank"`
	VideoTitle    *string `json:"video_title" validate:"omitempty,max=200"`
	VideoChannel  *string `json:"video_channel" validate:"omitempty,max=200"`
	VideoDuration *string `json:"video_duration" validate:"omitempty,max=50"`
	Order         *int    `json:"order"`
}

type LessonService struct {
	repo    *repository.LessonRepository
	modules *ModuleService
}

func NewLessonService(repo *repository.LessonRepository, modules *ModuleService) *LessonService {
	return &LessonService{repo: repo, modules: modules}
}

func (s *LessonService) ListLessons(ctx context.Context) ([]model.Lesson, error) {
	return s.repo.List(ctx)
}

func (s *LessonService) ListByModule(ctx context.Context, moduleID uint) ([]model.Lesson, error) {
	return s.repo.ListByModule(ctx, moduleID)
}

func (s *LessonService) GetLesson(ctx context.Context, id uint) (*model.Lesson, error) {
	lesson, err := s.repo.FindByID(ctx, id)
	return lesson, notFound(err, util.ErrLessonNotFound)
}

func (s *LessonService) CreateLesson(ctx context.Context, in CreateLessonInput) (*model.Lesson, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := requireExists(ctx, s.modules.ModuleExists, in.Module, "module"); err != nil {
		return nil, err
	}
	if err := s.checkOrder(ctx, in.Module, in.Order, 0); err != nil {
		return nil, err
	}

	lesson := &model.Lesson{
		ModuleID:      in.Module,
		Title:         in.Title,
		Content:       in.Content,
		VideoURL:      emptyToNil(in.VideoURL),
		VideoTitle:    emptyToNil(in.VideoTitle),
		VideoChannel:  emptyToNil(in.VideoChannel),
		VideoDuration: emptyToNil(in.VideoDuration),
		Order:         in.Order,
	}
	if err := s.repo.Create(ctx, lesson); err != nil {
		return nil, duplicate(err, "order", "lesson with this module and order already exists")
	}
	s.modules.InvalidateCatalog(ctx)
	return s.GetLesson(ctx, lesson.ID)
}

func (s *LessonService) UpdateLesson(ctx context.Context, id uint, in UpdateLessonInput) (*model.Lesson, error) {
	lesson, err := s.GetLesson(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, util.NewValidationError("title", "this field may not be blank")
		}
		fields["title"] = *in.Title
	}
	if in.Content != nil {
		if *in.Content == "" {
			return nil, util.NewValidationError("content", "this field may not be blank")
		}
		fields["content"] = *in.Content
	}
	if in.VideoURL != nil {
		fields["video_url"] = emptyToNil(in.VideoURL)
	}
	if in.VideoTitle != nil {
		fields["video_title"] = emptyToNil(in.VideoTitle)
	}
	if in.VideoChannel != nil {
		fields["video_channel"] = emptyToNil(in.VideoChannel)
	}
	if in.VideoDuration != nil {
		fields["video_duration"] = emptyToNil(in.VideoDuration)
	}
	if in.Order != nil {
		if err := s.checkOrder(ctx, lesson.ModuleID, *in.Order, id); err != nil {
			return nil, err
		}
		fields["sort_order"] = *in.Order
	}

	if len(fields) > 0 {
		if err := s.repo.Updates(ctx, id, fields); err != nil {
			return nil, duplicate(err, "order", "lesson with this module and order already exists")
		}
		s.modules.InvalidateCatalog(ctx)
	}
	return s.GetLesson(ctx, id)
}

// DeleteLesson 级联删除课时下的题目、答案和课时测试结果
func (s *LessonService) DeleteLesson(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, util.ErrLessonNotFound)
	}
	s.modules.InvalidateCatalog(ctx)
	return nil
}

func (s *LessonService) checkOrder(ctx context.Context, moduleID uint, order int, excludeID uint) error {
	taken, err := s.repo.OrderTaken(ctx, moduleID, order, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return util.NewValidationError("order", "lesson with this module and order already exists")
	}
	return nil
}

// emptyToNil 可空文本字段：空字符串按 NULL 存储
func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
