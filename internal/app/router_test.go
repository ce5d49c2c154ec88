package app

import (
	"ai_academy_backend/internal/config"
	"ai_academy_backend/internal/testutil"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	return &testAPI{t: t, router: NewRouter(cfg, testutil.NewDB(t), nil)}
}

// do 发送请求并在 out 非空时解析 JSON 响应
func (a *testAPI) do(method, path string, body interface{}, out interface{}) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatal(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	if out != nil && w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			a.t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w
}

func (a *testAPI) expect(w *httptest.ResponseRecorder, code int) {
	a.t.Helper()
	if w.Code != code {
		a.t.Fatalf("status = %d, want %d, body %s", w.Code, code, w.Body.String())
	}
}

type idResponse struct {
	ID uint `json:"id"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func (a *testAPI) createUser(name string) uint {
	a.t.Helper()
	var u idResponse
	w := a.do(http.MethodPost, "/api/users/", map[string]interface{}{
		"username": name,
		"email":    name + "@example.com",
		"password": "s3cret-pass",
	}, &u)
	a.expect(w, http.StatusCreated)
	return u.ID
}

func (a *testAPI) createModule(title string, order int) uint {
	a.t.Helper()
	var m idResponse
	w := a.do(http.MethodPost, "/api/modules/", map[string]interface{}{
		"title":       title,
		"description": title + " description",
		"duration":    45,
		"order":       order,
	}, &m)
	a.expect(w, http.StatusCreated)
	return m.ID
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	var body struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
	w := api.do(http.MethodGet, "/api/health", nil, &body)
	api.expect(w, http.StatusOK)
	if body.Status != "ok" || body.Components["database"] != "up" {
		t.Errorf("health = %+v", body)
	}
	if _, ok := body.Components["redis"]; ok {
		t.Error("redis reported although it is not configured")
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestModuleTreeOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	moduleID := api.createModule("Intro to AI", 0)

	var lesson idResponse
	w := api.do(http.MethodPost, "/api/lessons/", map[string]interface{}{
		"module":  moduleID,
		"title":   "What is AI",
		"content": "Basics",
		"order":   0,
	}, &lesson)
	api.expect(w, http.StatusCreated)

	w = api.do(http.MethodPost, "/api/questions/", map[string]interface{}{
		"module":        moduleID,
		"lesson":        lesson.ID,
		"question_text": "Pick the model",
		"answers": []map[string]interface{}{
			{"answer_text": "A", "is_correct": true, "order": 0},
			{"answer_text": "B", "order": 1},
		},
	}, nil)
	api.expect(w, http.StatusCreated)

	var tree struct {
		Title       string `json:"title"`
		LessonCount int    `json:"lesson_count"`
		Lessons     []struct {
			Title     string `json:"title"`
			Questions []struct {
				QuestionType string `json:"question_type"`
				Answers      []struct {
					AnswerText string `json:"answer_text"`
				} `json:"answers"`
			} `json:"questions"`
		} `json:"lessons"`
		Questions []struct {
			QuestionText string `json:"question_text"`
		} `json:"questions"`
	}
	w = api.do(http.MethodGet, fmt.Sprintf("/api/modules/%d/", moduleID), nil, &tree)
	api.expect(w, http.StatusOK)

	if tree.LessonCount != 1 || len(tree.Lessons) != 1 || len(tree.Questions) != 1 {
		t.Fatalf("tree = %+v", tree)
	}
	qs := tree.Lessons[0].Questions
	if len(qs) != 1 || qs[0].QuestionType != "single" || len(qs[0].Answers) != 2 || qs[0].Answers[0].AnswerText != "A" {
		t.Errorf("lesson questions = %+v", qs)
	}

	var byModule []idResponse
	w = api.do(http.MethodGet, fmt.Sprintf("/api/lessons/by_module/?module_id=%d", moduleID), nil, &byModule)
	api.expect(w, http.StatusOK)
	if len(byModule) != 1 || byModule[0].ID != lesson.ID {
		t.Errorf("by_module = %+v", byModule)
	}
}

func TestErrorResponses(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name    string
		method  string
		path    string
		body    interface{}
		code    int
		message string
	}{
		{"unknown user", http.MethodGet, "/api/users/999/", nil, http.StatusNotFound, "user not found"},
		{"invalid id", http.MethodGet, "/api/modules/abc/", nil, http.StatusNotFound, "module not found"},
		{"delete unknown", http.MethodDelete, "/api/test-results/42/", nil, http.StatusNotFound, "test result not found"},
		{"agent for user", http.MethodGet, "/api/ai-agents/by_user/?user_id=5", nil, http.StatusNotFound, "AI agent not found for this user"},
		{"lessons without module", http.MethodGet, "/api/lessons/by_module/", nil, http.StatusBadRequest, "module_id parameter required"},
		{"questions without module", http.MethodGet, "/api/questions/by_module/", nil, http.StatusBadRequest, "module_id parameter required"},
		{"progress without user", http.MethodGet, "/api/progress/by_user/", nil, http.StatusBadRequest, "user_id parameter required"},
		{"results without user", http.MethodGet, "/api/test-results/by_user/", nil, http.StatusBadRequest, "user_id parameter required"},
		{"upsert without ids", http.MethodPost, "/api/progress/update_or_create/", map[string]interface{}{"started": true}, http.StatusBadRequest, "user_id and module_id required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body errorResponse
			w := api.do(tt.method, tt.path, tt.body, &body)
			if w.Code != tt.code {
				t.Fatalf("status = %d, want %d, body %s", w.Code, tt.code, w.Body.String())
			}
			if body.Error != tt.message {
				t.Errorf("error = %q, want %q", body.Error, tt.message)
			}
		})
	}
}

func TestValidationErrorShape(t *testing.T) {
	api := newTestAPI(t)

	var body errorResponse
	w := api.do(http.MethodPost, "/api/users/", map[string]interface{}{
		"username": "alice",
		"email":    "not-an-email",
	}, &body)
	api.expect(w, http.StatusBadRequest)
	if _, ok := body.Fields["email"]; !ok {
		t.Errorf("fields = %v, want email", body.Fields)
	}
	if _, ok := body.Fields["password"]; !ok {
		t.Errorf("fields = %v, want password", body.Fields)
	}

	w = api.do(http.MethodPost, "/api/users/", "not an object", nil)
	api.expect(w, http.StatusBadRequest)
}

func TestProgressUpdateOrCreateOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	userID := api.createUser("alice")
	moduleID := api.createModule("Intro", 0)

	var first struct {
		ID               uint `json:"id"`
		Started          bool `json:"started"`
		CompletedLessons int  `json:"completed_lessons"`
	}
	w := api.do(http.MethodPost, "/api/progress/update_or_create/", map[string]interface{}{
		"user_id":   userID,
		"module_id": moduleID,
		"started":   true,
	}, &first)
	api.expect(w, http.StatusCreated)

	second := first
	w = api.do(http.MethodPost, "/api/progress/update_or_create/", map[string]interface{}{
		"user_id":           userID,
		"module_id":         moduleID,
		"completed_lessons": 3,
	}, &second)
	api.expect(w, http.StatusOK)
	if second.ID != first.ID || !second.Started || second.CompletedLessons != 3 {
		t.Errorf("second = %+v, first = %+v", second, first)
	}

	var rows []idResponse
	w = api.do(http.MethodGet, fmt.Sprintf("/api/progress/by_user/?user_id=%d", userID), nil, &rows)
	api.expect(w, http.StatusOK)
	if len(rows) != 1 {
		t.Errorf("progress rows = %d, want 1", len(rows))
	}

	var invalid errorResponse
	w = api.do(http.MethodPost, "/api/progress/update_or_create/", map[string]interface{}{
		"user_id":   999,
		"module_id": moduleID,
	}, &invalid)
	api.expect(w, http.StatusBadRequest)
	if _, ok := invalid.Fields["user"]; !ok {
		t.Errorf("fields = %v, want user", invalid.Fields)
	}
}

func TestFinalTestResultReplacedOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	userID := api.createUser("alice")
	moduleID := api.createModule("Intro", 0)

	for _, score := range []int{80, 95} {
		w := api.do(http.MethodPost, "/api/test-results/", map[string]interface{}{
			"user":   userID,
			"module": moduleID,
			"score":  score,
			"passed": score >= 90,
		}, nil)
		api.expect(w, http.StatusCreated)
	}

	var results []struct {
		ID    uint `json:"id"`
		Score int  `json:"score"`
	}
	w := api.do(http.MethodGet, fmt.Sprintf("/api/test-results/by_user/?user_id=%d", userID), nil, &results)
	api.expect(w, http.StatusOK)
	if len(results) != 1 || results[0].Score != 95 {
		t.Fatalf("results = %+v", results)
	}

	w = api.do(http.MethodPost, "/api/test-results/", map[string]interface{}{
		"user":   userID,
		"module": moduleID,
		"score":  101,
	}, nil)
	api.expect(w, http.StatusBadRequest)

	w = api.do(http.MethodDelete, fmt.Sprintf("/api/test-results/%d/", results[0].ID), nil, nil)
	api.expect(w, http.StatusNoContent)
}

func TestUserDetailWithProgress(t *testing.T) {
	api := newTestAPI(t)
	userID := api.createUser("alice")
	moduleID := api.createModule("Intro", 0)

	w := api.do(http.MethodPost, "/api/progress/update_or_create/", map[string]interface{}{
		"user_id":   userID,
		"module_id": moduleID,
		"started":   true,
	}, nil)
	api.expect(w, http.StatusCreated)

	var detail struct {
		Username string       `json:"username"`
		Progress []idResponse `json:"progress"`
		Results  []idResponse `json:"test_results"`
		AIAgent  *idResponse  `json:"ai_agent"`
	}
	w = api.do(http.MethodGet, fmt.Sprintf("/api/users/%d/detail_with_progress/", userID), nil, &detail)
	api.expect(w, http.StatusOK)
	if detail.Username != "alice" || len(detail.Progress) != 1 || len(detail.Results) != 0 || detail.AIAgent != nil {
		t.Errorf("detail = %+v", detail)
	}
}

func TestAgentQuestionsOverHTTP(t *testing.T) {
	api := newTestAPI(t)

	var questions []struct {
		ID      uint `json:"id"`
		Options []struct {
			OptionText string `json:"option_text"`
		} `json:"options"`
	}
	w := api.do(http.MethodGet, "/api/ai-agent-questions/", nil, &questions)
	api.expect(w, http.StatusOK)
	if len(questions) != 10 || len(questions[0].Options) != 4 {
		t.Fatalf("questions = %+v", questions)
	}

	w = api.do(http.MethodPost, "/api/ai-agent-questions/", map[string]interface{}{}, nil)
	if w.Code != http.StatusNotFound && w.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST questionnaire status = %d", w.Code)
	}
}

func TestTrailingSlashRedirect(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/api/users", nil, nil)
	if w.Code != http.StatusMovedPermanently {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusMovedPermanently)
	}
	if loc := w.Header().Get("Location"); loc != "/api/users/" {
		t.Errorf("Location = %q", loc)
	}
}
