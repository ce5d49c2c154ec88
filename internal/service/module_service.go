package service

import (
	"ai_academy_backend/internal/model"
	"ai_academy_backend/internal/repository"
	"ai_academy_backend/internal/util"
	"ai_academy_backend/pkg/logger"
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ModuleCache 模块目录的读穿缓存。
// 每次 Invalidate 使代数加一；Set 只在代数仍等于读库前取得的值时写入，
// 读库期间发生的失效不会被旧数据覆盖。
type ModuleCache interface {
	Get(ctx context.Context, field string, dst interface{}) (bool, error)
	Generation(ctx context.Context) (int64, error)
	Set(ctx context.Context, gen int64, field string, value interface{}) error
	Invalidate(ctx context.Context) error
}

const (
	cacheActiveModules = "active"
	cacheAllModules    = "all"
)

type CreateModuleInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	Icon        string `json:"icon" validate:"omitempty,oneof=Brain Cpu FileSpreadsheet Image FileText"`
	Duration    *int   `json:"duration" validate:"required,min=0"`
	Order       int    `json:"order"`
	IsActive    *bool  `json:"is_active"`
}

type UpdateModuleInput struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description"`
	Icon        *string `json:"icon" validate:"omitempty,oneof=Brain Cpu FileSpreadsheet Image FileText"`
	Duration    *int    `json:"duration" validate:"omitempty,min=0"`
	Order       *int    `json:"order"`
	IsActive    *bool   `json:"is_active"`
}

type ModuleService struct {
	repo  *repository.ModuleRepository
	cache ModuleCache
}

func NewModuleService(repo *repository.ModuleRepository, cache ModuleCache) *ModuleService {
	return &ModuleService{repo: repo, cache: cache}
}

// ListModules 仅返回启用的模块
func (s *ModuleService) ListModules(ctx context.Context) ([]model.Module, error) {
	return s.list(ctx, cacheActiveModules, true)
}

// ListAllModules 返回包括未启用在内的全部模块
func (s *ModuleService) ListAllModules(ctx context.Context) ([]model.Module, error) {
	return s.list(ctx, cacheAllModules, false)
}

func (s *ModuleService) list(ctx context.Context, key string, activeOnly bool) ([]model.Module, error) {
	gen, cacheable := s.cacheGeneration(ctx)

	var modules []model.Module
	if cacheable && s.cacheGet(ctx, key, &modules) {
		return modules, nil
	}

	modules, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	if cacheable {
		s.cacheSet(ctx, gen, key, modules)
	}
	return modules, nil
}

// GetModule 返回完整的模块树
func (s *ModuleService) GetModule(ctx context.Context, id uint) (*model.Module, error) {
	key := fmt.Sprintf("id:%d", id)
	gen, cacheable := s.cacheGeneration(ctx)

	var cached model.Module
	if cacheable && s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	module, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, util.ErrModuleNotFound)
	}
	if cacheable {
		s.cacheSet(ctx, gen, key, module)
	}
	return module, nil
}

func (s *ModuleService) CreateModule(ctx context.Context, in CreateModuleInput) (*model.Module, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	module := &model.Module{
		Title:       in.Title,
		Description: in.Description,
		Icon:        model.ModuleIcon(in.Icon),
		Duration:    *in.Duration,
		Order:       in.Order,
		IsActive:    true,
	}
	if module.Icon == "" {
		module.Icon = model.IconBrain
	}
	if in.IsActive != nil {
		module.IsActive = *in.IsActive
	}

	if err := s.repo.Create(ctx, module); err != nil {
		return nil, err
	}
	s.InvalidateCatalog(ctx)
	return s.GetModule(ctx, module.ID)
}

func (s *ModuleService) UpdateModule(ctx context.Context, id uint, in UpdateModuleInput) (*model.Module, error) {
	if _, err := s.GetModule(ctx, id); err != nil {
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
	if in.Description != nil {
		if *in.Description == "" {
			return nil, util.NewValidationError("description", "this field may not be blank")
		}
		fields["description"] = *in.Description
	}
	if in.Icon != nil && *in.Icon != "" {
		fields["icon"] = *in.Icon
	}
	if in.Duration != nil {
		fields["duration"] = *in.Duration
	}
	if in.Order != nil {
		fields["sort_order"] = *in.Order
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}

	if len(fields) > 0 {
		if err := s.repo.Updates(ctx, id, fields); err != nil {
			return nil, err
		}
		s.InvalidateCatalog(ctx)
	}
	return s.GetModule(ctx, id)
}

// DeleteModule 级联删除课时、题目、答案、进度和测试结果
func (s *ModuleService) DeleteModule(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, util.ErrModuleNotFound)
	}
	s.InvalidateCatalog(ctx)
	return nil
}

func (s *ModuleService) ModuleExists(ctx context.Context, id uint) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// InvalidateCatalog 任何影响模块树的写操作之后调用
func (s *ModuleService) InvalidateCatalog(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Log.Warn("module cache invalidation failed", zap.Error(err))
	}
}

// cacheGeneration 读取失败时本次请求绕过缓存
func (s *ModuleService) cacheGeneration(ctx context.Context) (int64, bool) {
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		logger.Log.Warn("module cache generation read failed", zap.Error(err))
		return 0, false
	}
	return gen, true
}

func (s *ModuleService) cacheGet(ctx context.Context, key string, dst interface{}) bool {
	hit, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		logger.Log.Warn("module cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (s *ModuleService) cacheSet(ctx context.Context, gen int64, key string, value interface{}) {
	if err := s.cache.Set(ctx, gen, key, value); err != nil {
		logger.Log.Warn("module cache write failed", zap.String("key", key), zap.Error(err))
	}
}
