package service

import (
	"ai_academy_backend/internal/model"
	"ai_academy_backend/internal/repository"
	"ai_academy_backend/internal/testutil"
	"ai_academy_backend/internal/util"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
)

// memoryCache 以 JSON 保存缓存项，代数即失效次数，行为与 Redis 实现一致
type memoryCache struct {
	mu            sync.Mutex
	items         map[string][]byte
	invalidations int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, field string, dst interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.items[field]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dst)
}

func (c *memoryCache) Generation(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int64(c.invalidations), nil
}

func (c *memoryCache) Set(_ context.Context, gen int64, field string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != int64(c.invalidations) {
		return nil
	}
	c.items[field] = data
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = map[string][]byte{}
	c.invalidations++
	return nil
}

func (c *memoryCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

type testServices struct {
	cache      *memoryCache
	users      *UserService
	modules    *ModuleService
	lessons    *LessonService
	questions  *QuestionService
	answers    *AnswerService
	progress   *ProgressService
	results    *TestResultService
	agents     *AIAgentService
	agentQuest *AIAgentQuestionService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := testutil.NewDB(t)

	userRepo := repository.NewUserRepository(db)
	lessonRepo := repository.NewLessonRepository(db)

	s := &testServices{cache: newMemoryCache()}
	s.users = NewUserService(userRepo)
	s.modules = NewModuleService(repository.NewModuleRepository(db), s.cache)
	s.lessons = NewLessonService(lessonRepo, s.modules)
	s.questions = NewQuestionService(repository.NewQuestionRepository(db), lessonRepo, s.modules)
	s.answers = NewAnswerService(repository.NewAnswerRepository(db), s.questions, s.modules)
	s.progress = NewProgressService(repository.NewProgressRepository(db), userRepo, s.modules)
	s.results = NewTestResultService(repository.NewTestResultRepository(db), userRepo, lessonRepo, s.modules)
	s.agents = NewAIAgentService(repository.NewAIAgentRepository(db), userRepo)
	s.agentQuest = NewAIAgentQuestionService(repository.NewAIAgentQuestionRepository(db))
	return s
}

func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }
func uintPtr(v uint) *uint    { return &v }

func (s *testServices) mustUser(t *testing.T, username string) *model.User {
	t.Helper()
	user, err := s.users.CreateUser(context.Background(), CreateUserInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func (s *testServices) mustModule(t *testing.T, title string, order int) *model.Module {
	t.Helper()
	module, err := s.modules.CreateModule(context.Background(), CreateModuleInput{
		Title:       title,
		Description: title + " description",
		Duration:    intPtr(30),
		Order:       order,
	})
	if err != nil {
		t.Fatalf("create module %s: %v", title, err)
	}
	return module
}

func (s *testServices) mustLesson(t *testing.T, moduleID uint, title string, order int) *model.Lesson {
	t.Helper()
	lesson, err := s.lessons.CreateLesson(context.Background(), CreateLessonInput{
		Module:  moduleID,
		Title:   title,
		Content: title + " content",
		Order:   order,
	})
	if err != nil {
		t.Fatalf("create lesson %s: %v", title, err)
	}
	return lesson
}

// assertFieldError 断言错误为字段校验错误且包含指定字段
func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()
	ve, ok := util.IsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error on %q, got %v", field, err)
	}
	if _, ok := ve.Fields[field]; !ok {
		t.Fatalf("expected validation error on %q, got fields %v", field, ve.Fields)
	}
}

func assertNotFound(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
	if !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("expected error to wrap ErrNotFound, got %v", err)
	}
}
