package service

import (
	"ai_academy_backend/internal/model"
	"ai_academy_backend/internal/util"
	"context"
	"testing"
)

// 模块 → 课时 → 题目 → 答案 的完整树按 (order, id) 返回
func TestModuleTreeOrdering(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	m := s.mustModule(t, "Prompting", 1)
	l1 := s.mustLesson(t, m.ID, "Basics", 0)

	q, err := s.questions.CreateQuestion(ctx, CreateQuestionInput{
		Module:       m.ID,
		Lesson:       uintPtr(l1.ID),
		QuestionText: "What is a prompt?",
	})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	a1, err := s.answers.CreateAnswer(ctx, CreateAnswerInput{Question: q.ID, AnswerText: "An instruction", IsCorrect: true, Order: 0})
	if err != nil {
		t.Fatal(err)
	}
	a2, err := s.answers.CreateAnswer(ctx, CreateAnswerInput{Question: q.ID, AnswerText: "A database", IsCorrect: false, Order: 1})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.modules.GetModule(ctx, m.ID)
	if err != nil {
		t.Fatalf("get module: %v", err)
	}
	if got.LessonCount != 1 || len(got.Lessons) != 1 || got.Lessons[0].ID != l1.ID {
		t.Fatalf("lessons = %+v", got.Lessons)
	}
	if len(got.Questions) != 1 || got.Questions[0].ID != q.ID {
		t.Fatalf("questions = %+v", got.Questions)
	}
	answers := got.Questions[0].Answers
	if len(answers) != 2 || answers[0].ID != a1.ID || answers[1].ID != a2.ID {
		t.Fatalf("answers = %+v", answers)
	}
	if !answers[0].IsCorrect || answers[1].IsCorrect {
		t.Errorf("is_correct flags = %v, %v", answers[0].IsCorrect, answers[1].IsCorrect)
	}
	if len(got.Lessons[0].Questions) != 1 || len(got.Lessons[0].Questions[0].Answers) != 2 {
		t.Errorf("lesson subtree = %+v", got.Lessons[0].Questions)
	}
	if got.Questions[0].QuestionType != model.SingleChoice {
		t.Errorf("question_type = %q", got.Questions[0].QuestionType)
	}
}

func TestModuleListsOrderAndActivity(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	second := s.mustModule(t, "Second", 2)
	first := s.mustModule(t, "First", 1)
	hidden, err := s.modules.CreateModule(ctx, CreateModuleInput{
		Title:       "Hidden",
		Description: "draft",
		Duration:    intPtr(0),
		IsActive:    boolPtr(false),
	})
	if err != nil {
		t.Fatal(err)
	}
	if hidden.IsActive {
		t.Fatal("explicit is_active=false was ignored")
	}

	active, err := s.modules.ListModules(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 2 || active[0].ID != first.ID || active[1].ID != second.ID {
		t.Fatalf("active modules = %+v", active)
	}

	all, err := s.modules.ListAllModules(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].ID != hidden.ID {
		t.Fatalf("all modules = %+v", all)
	}
}

func TestCreateModuleValidation(t *testing.T) {
	s := newTestServices(t)

	_, err := s.modules.CreateModule(context.Background(), CreateModuleInput{
		Description: "no title",
		Icon:        "Rocket",
		Duration:    intPtr(-5),
	})
	assertFieldError(t, err, "title")
	assertFieldError(t, err, "icon")
	assertFieldError(t, err, "duration")

	m := s.mustModule(t, "Defaults", 0)
	if m.Icon != model.IconBrain || !m.IsActive {
		t.Errorf("defaults not applied: icon=%q active=%v", m.Icon, m.IsActive)
	}
}

func TestModuleCacheInvalidation(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	m := s.mustModule(t, "Cached", 0)

	if _, err := s.modules.ListModules(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.modules.GetModule(ctx, m.ID); err != nil {
		t.Fatal(err)
	}
	if s.cache.size() == 0 {
		t.Fatal("reads did not populate the cache")
	}

	before := s.cache.invalidations
	s.mustLesson(t, m.ID, "New lesson", 0)
	if s.cache.invalidations == before || s.cache.size() != 0 {
		t.Fatal("lesson create did not invalidate the catalogue")
	}

	got, err := s.modules.GetModule(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.LessonCount != 1 {
		t.Errorf("stale module after invalidation: lesson_count = %d", got.LessonCount)
	}

	updated, err := s.modules.UpdateModule(ctx, m.ID, UpdateModuleInput{Title: strPtr("Renamed")})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != "Renamed" {
		t.Errorf("title = %q", updated.Title)
	}
	list, _ := s.modules.ListModules(ctx)
	if len(list) != 1 || list[0].Title != "Renamed" {
		t.Errorf("cached list not refreshed: %+v", list)
	}
}

// invalidatingCache 在读取代数之后立即失效，相当于读库期间另一个请求完成了写操作
type invalidatingCache struct {
	*memoryCache
}

func (c invalidatingCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.memoryCache.Generation(ctx)
	if err != nil {
		return 0, err
	}
	return gen, c.memoryCache.Invalidate(ctx)
}

func TestModuleCacheSkipsStaleWriteBack(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	m := s.mustModule(t, "Cached", 0)

	s.modules.cache = invalidatingCache{s.cache}
	if _, err := s.modules.GetModule(ctx, m.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.modules.ListAllModules(ctx); err != nil {
		t.Fatal(err)
	}
	if n := s.cache.size(); n != 0 {
		t.Fatalf("stale reads were cached after a concurrent invalidation: %d entries", n)
	}

	s.modules.cache = s.cache
	if _, err := s.modules.GetModule(ctx, m.ID); err != nil {
		t.Fatal(err)
	}
	if s.cache.size() != 1 {
		t.Errorf("cache entries = %d, want 1", s.cache.size())
	}
}

func TestLessonOrderUniquePerModule(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	m1 := s.mustModule(t, "One", 0)
	m2 := s.mustModule(t, "Two", 1)

	s.mustLesson(t, m1.ID, "A", 0)
	_, err := s.lessons.CreateLesson(ctx, CreateLessonInput{Module: m1.ID, Title: "B", Content: "x", Order: 0})
	assertFieldError(t, err, "order")

	// 不同模块可以使用相同的 order
	s.mustLesson(t, m2.ID, "C", 0)

	b := s.mustLesson(t, m1.ID, "B", 1)
	_, err = s.lessons.UpdateLesson(ctx, b.ID, UpdateLessonInput{Order: intPtr(0)})
	assertFieldError(t, err, "order")

	_, err = s.lessons.CreateLesson(ctx, CreateLessonInput{Module: 999, Title: "D", Content: "x"})
	assertFieldError(t, err, "module")
}

func TestLessonVideoFields(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	m := s.mustModule(t, "Video", 0)

	lesson, err := s.lessons.CreateLesson(ctx, CreateLessonInput{
		Module:     m.ID,
		Title:      "Watch",
		Content:    "text",
		VideoURL:   strPtr("https://www.youtube.com/watch?v=abc"),
		VideoTitle: strPtr(""),
	})
	if err != nil {
		t.Fatal(err)
	}
	if lesson.VideoURL == nil || lesson.VideoTitle != nil {
		t.Errorf("video_url = %v, video_title = %v", lesson.VideoURL, lesson.VideoTitle)
	}

	_, err = s.lessons.CreateLesson(ctx, CreateLessonInput{Module: m.ID, Title: "Bad", Content: "x", Order: 1, VideoURL: strPtr("not a url")})
	assertFieldError(t, err, "video_url")

	byModule, err := s.lessons.ListByModule(ctx, m.ID)
	if err != nil || len(byModule) != 1 {
		t.Fatalf("by module = %v, %v", byModule, err)
	}
}

func TestClearLessonVideoURL(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	m := s.mustModule(t, "Video", 0)

	lesson, err := s.lessons.CreateLesson(ctx, CreateLessonInput{
		Module:   m.ID,
		Title:    "Blank",
		Content:  "text",
		VideoURL: strPtr(""),
	})
	if err != nil {
		t.Fatalf("blank video_url rejected: %v", err)
	}
	if lesson.VideoURL != nil {
		t.Errorf("video_url = %q, want NULL", *lesson.VideoURL)
	}

	lesson, err = s.lessons.UpdateLesson(ctx, lesson.ID, UpdateLessonInput{VideoURL: strPtr("https://example.com/v/1")})
	if err != nil {
		t.Fatal(err)
	}
	if lesson.VideoURL == nil || *lesson.VideoURL != "https://example.com/v/1" {
		t.Fatalf("video_url = %v", lesson.VideoURL)
	}

	lesson, err = s.lessons.UpdateLesson(ctx, lesson.ID, UpdateLessonInput{VideoURL: strPtr("")})
	if err != nil {
		t.Fatalf("clearing video_url: %v", err)
	}
	if lesson.VideoURL != nil {
		t.Errorf("video_url = %q after clearing", *lesson.VideoURL)
	}

	_, err = s.lessons.UpdateLesson(ctx, lesson.ID, UpdateLessonInput{VideoURL: strPtr("not a url")})
	assertFieldError(t, err, "video_url")
}

func TestDetachQuestionFromLesson(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	m := s.mustModule(t, "One", 0)
	lesson := s.mustLesson(t, m.ID, "Basics", 0)

	q, err := s.questions.CreateQuestion(ctx, CreateQuestionInput{
		Module:       m.ID,
		Lesson:       uintPtr(lesson.ID),
		QuestionText: "Attached?",
	})
	if err != nil {
		t.Fatal(err)
	}

	// 未提供 lesson 时保持原关联
	q, err = s.questions.UpdateQuestion(ctx, q.ID, UpdateQuestionInput{QuestionText: strPtr("Still attached?")})
	if err != nil {
		t.Fatal(err)
	}
	if q.LessonID == nil || *q.LessonID != lesson.ID {
		t.Fatalf("lesson = %v, want %d", q.LessonID, lesson.ID)
	}

	q, err = s.questions.UpdateQuestion(ctx, q.ID, UpdateQuestionInput{Lesson: uintPtr(0)})
	if err != nil {
		t.Fatal(err)
	}
	if q.LessonID != nil {
		t.Errorf("lesson = %d, want NULL", *q.LessonID)
	}

	tree, err := s.modules.GetModule(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(tree.Lessons[0].Questions) != 0 || len(tree.Questions) != 1 {
		t.Errorf("lesson questions = %d, module questions = %d", len(tree.Lessons[0].Questions), len(tree.Questions))
	}
}

func TestQuestionLessonMustBelongToModule(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	m1 := s.mustModule(t, "One", 0)
	m2 := s.mustModule(t, "Two", 1)
	foreign := s.mustLesson(t, m2.ID, "Elsewhere", 0)

	_, err := s.questions.CreateQuestion(ctx, CreateQuestionInput{
		Module:       m1.ID,
		Lesson:       uintPtr(foreign.ID),
		QuestionText: "Mismatched?",
	})
	assertFieldError(t, err, "lesson")

	_, err = s.questions.CreateQuestion(ctx, CreateQuestionInput{
		Module:       m1.ID,
		Lesson:       uintPtr(999),
		QuestionText: "Missing lesson?",
	})
	assertFieldError(t, err, "lesson")
}

func TestCreateQuestionWithNestedAnswers(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	m := s.mustModule(t, "Quiz", 0)

	q, err := s.questions.CreateQuestion(ctx, CreateQuestionInput{
		Module:       m.ID,
		QuestionText: "Pick all models",
		QuestionType: "multiple",
		Answers: []AnswerInput{
			{AnswerText: "GPT", IsCorrect: true, Order: 1},
			{AnswerText: "Claude", IsCorrect: true, Order: 0},
			{AnswerText: "Excel", Order: 2},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(q.Answers) != 3 || q.Answers[0].AnswerText != "Claude" {
		t.Fatalf("answers = %+v", q.Answers)
	}

	_, err = s.questions.CreateQuestion(ctx, CreateQuestionInput{
		Module:       m.ID,
		QuestionText: "Broken",
		Answers:      []AnswerInput{{AnswerText: ""}},
	})
	assertFieldError(t, err, "answers[0].answer_text")

	byModule, err := s.questions.ListByModule(ctx, m.ID)
	if err != nil || len(byModule) != 1 {
		t.Fatalf("by module = %v, %v", byModule, err)
	}
}

func TestAnswerFilterAndUpdate(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	m := s.mustModule(t, "Quiz", 0)
	q1, _ := s.questions.CreateQuestion(ctx, CreateQuestionInput{Module: m.ID, QuestionText: "Q1", Answers: []AnswerInput{{AnswerText: "a"}}})
	q2, _ := s.questions.CreateQuestion(ctx, CreateQuestionInput{Module: m.ID, QuestionText: "Q2", Answers: []AnswerInput{{AnswerText: "b"}, {AnswerText: "c", Order: 1}}})

	answers, err := s.answers.ListAnswers(ctx, q2.ID)
	if err != nil || len(answers) != 2 {
		t.Fatalf("answers for q2 = %v, %v", answers, err)
	}
	all, _ := s.answers.ListAnswers(ctx, 0)
	if len(all) != 3 {
		t.Errorf("all answers = %d", len(all))
	}

	updated, err := s.answers.UpdateAnswer(ctx, q1.Answers[0].ID, UpdateAnswerInput{IsCorrect: boolPtr(true)})
	if err != nil {
		t.Fatal(err)
	}
	if !updated.IsCorrect || updated.AnswerText != "a" {
		t.Errorf("updated answer = %+v", updated)
	}

	_, err = s.answers.CreateAnswer(ctx, CreateAnswerInput{Question: 999, AnswerText: "orphan"})
	assertFieldError(t, err, "question")
}

func TestDeleteModuleCascades(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	user := s.mustUser(t, "alice")
	m := s.mustModule(t, "Doomed", 0)
	keep := s.mustModule(t, "Kept", 1)
	lesson := s.mustLesson(t, m.ID, "L", 0)
	q, _ := s.questions.CreateQuestion(ctx, CreateQuestionInput{
		Module:       m.ID,
		Lesson:       uintPtr(lesson.ID),
		QuestionText: "Q",
		Answers:      []AnswerInput{{AnswerText: "A"}},
	})
	if _, _, err := s.progress.UpdateOrCreate(ctx, UpsertProgressInput{User: user.ID, Module: m.ID}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.progress.UpdateOrCreate(ctx, UpsertProgressInput{User: user.ID, Module: keep.ID}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.results.RecordResult(ctx, CreateTestResultInput{User: user.ID, Module: m.ID, Lesson: uintPtr(lesson.ID), Score: intPtr(50)}); err != nil {
		t.Fatal(err)
	}

	if err := s.modules.DeleteModule(ctx, m.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err := s.modules.GetModule(ctx, m.ID)
	assertNotFound(t, err, util.ErrModuleNotFound)
	_, err = s.lessons.GetLesson(ctx, lesson.ID)
	assertNotFound(t, err, util.ErrLessonNotFound)
	_, err = s.questions.GetQuestion(ctx, q.ID)
	assertNotFound(t, err, util.ErrQuestionNotFound)
	_, err = s.answers.GetAnswer(ctx, q.Answers[0].ID)
	assertNotFound(t, err, util.ErrAnswerNotFound)

	progress, _ := s.progress.ListByUser(ctx, user.ID)
	if len(progress) != 1 || progress[0].ModuleID != keep.ID {
		t.Errorf("progress after delete = %+v", progress)
	}
	results, _ := s.results.ListByUser(ctx, user.ID)
	if len(results) != 0 {
		t.Errorf("results after delete = %+v", results)
	}
}

func TestDeleteLessonCascades(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	m := s.mustModule(t, "M", 0)
	lesson := s.mustLesson(t, m.ID, "L", 0)
	q, _ := s.questions.CreateQuestion(ctx, CreateQuestionInput{Module: m.ID, Lesson: uintPtr(lesson.ID), QuestionText: "Q"})
	moduleQ, _ := s.questions.CreateQuestion(ctx, CreateQuestionInput{Module: m.ID, QuestionText: "Final"})

	if err := s.lessons.DeleteLesson(ctx, lesson.ID); err != nil {
		t.Fatal(err)
	}
	_, err := s.questions.GetQuestion(ctx, q.ID)
	assertNotFound(t, err, util.ErrQuestionNotFound)
	if _, err := s.questions.GetQuestion(ctx, moduleQ.ID); err != nil {
		t.Errorf("module-level question removed: %v", err)
	}

	err = s.lessons.DeleteLesson(ctx, lesson.ID)
	assertNotFound(t, err, util.ErrLessonNotFound)
}
