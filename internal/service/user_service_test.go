package service

import (
	"ai_academy_backend/internal/model"
	"ai_academy_backend/internal/util"
	"context"
	"testing"
	"time"
)

func TestCreateUserRequiresPassword(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	_, err := s.users.CreateUser(ctx, CreateUserInput{Username: "alice", Email: "alice@example.com"})
	assertFieldError(t, err, "password")

	_, err = s.users.CreateUser(ctx, CreateUserInput{Username: "alice", Email: "alice@example.com", Password: "short"})
	assertFieldError(t, err, "password")
}

func TestCreateUserDefaults(t *testing.T) {
	s := newTestServices(t)

	user := s.mustUser(t, "alice")
	if user.Department != model.DefaultDepartment {
		t.Errorf("department = %q, want %q", user.Department, model.DefaultDepartment)
	}
	if user.Role != model.Student {
		t.Errorf("role = %q, want student", user.Role)
	}
	if want := time.Now().Format(model.DateFormat); user.LastActivity != want {
		t.Errorf("last_activity = %q, want %q", user.LastActivity, want)
	}
	if user.Password == "s3cret-pass" {
		t.Fatal("password stored in plain text")
	}
	if !s.users.CheckPassword(user, "s3cret-pass") {
		t.Error("stored hash does not match password")
	}
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	s.mustUser(t, "alice")

	_, err := s.users.CreateUser(ctx, CreateUserInput{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "another-pass",
	})
	assertFieldError(t, err, "email")

	_, err = s.users.CreateUser(ctx, CreateUserInput{
		Username: "alice",
		Email:    "other@example.com",
		Password: "another-pass",
	})
	assertFieldError(t, err, "username")
}

func TestCreateUserValidatesEmailAndRole(t *testing.T) {
	s := newTestServices(t)

	_, err := s.users.CreateUser(context.Background(), CreateUserInput{
		Username: "bob",
		Email:    "not-an-email",
		Password: "long-enough",
		Role:     "teacher",
	})
	assertFieldError(t, err, "email")
	assertFieldError(t, err, "role")
}

func TestUpdateUserPartial(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	user := s.mustUser(t, "alice")

	updated, err := s.users.UpdateUser(ctx, user.ID, UpdateUserInput{FirstName: strPtr("Alice")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FirstName != "Alice" {
		t.Errorf("first_name = %q", updated.FirstName)
	}
	if updated.Email != user.Email || updated.Department != user.Department {
		t.Errorf("unsupplied fields changed: %+v", updated)
	}
	if !s.users.CheckPassword(updated, "s3cret-pass") {
		t.Error("password changed without being supplied")
	}

	updated, err = s.users.UpdateUser(ctx, user.ID, UpdateUserInput{Password: strPtr("brand-new-pass")})
	if err != nil {
		t.Fatalf("update password: %v", err)
	}
	if !s.users.CheckPassword(updated, "brand-new-pass") {
		t.Error("password was not rehashed")
	}
}

func TestUpdateUserRejectsTakenEmail(t *testing.T) {
	s := newTestServices(t)
	alice := s.mustUser(t, "alice")
	s.mustUser(t, "bob")

	_, err := s.users.UpdateUser(context.Background(), alice.ID, UpdateUserInput{Email: strPtr("bob@example.com")})
	assertFieldError(t, err, "email")

	// 保持自己的邮箱不算冲突
	if _, err := s.users.UpdateUser(context.Background(), alice.ID, UpdateUserInput{Email: strPtr("alice@example.com")}); err != nil {
		t.Fatalf("update with own email: %v", err)
	}
}

func TestSearchUsers(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	s.mustUser(t, "alice")
	s.mustUser(t, "bob")
	if _, err := s.users.CreateUser(ctx, CreateUserInput{
		Username:   "carol",
		Email:      "carol@corp.io",
		Password:   "long-enough",
		Department: "Marketing",
	}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		q    string
		want int
	}{
		{"ALICE", 1},
		{"example.com", 2},
		{"market", 1},
		{"", 3},
		{"nobody", 0},
	}
	for _, tt := range tests {
		users, err := s.users.SearchUsers(ctx, tt.q)
		if err != nil {
			t.Fatalf("search %q: %v", tt.q, err)
		}
		if len(users) != tt.want {
			t.Errorf("search %q returned %d users, want %d", tt.q, len(users), tt.want)
		}
	}
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestServices(t)

	_, err := s.users.GetUser(context.Background(), 999)
	assertNotFound(t, err, util.ErrUserNotFound)

	err = s.users.DeleteUser(context.Background(), 999)
	assertNotFound(t, err, util.ErrUserNotFound)
}

func TestDeleteUserCascades(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	user := s.mustUser(t, "alice")
	module := s.mustModule(t, "Intro", 0)

	if _, _, err := s.progress.UpdateOrCreate(ctx, UpsertProgressInput{User: user.ID, Module: module.ID}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.results.RecordResult(ctx, CreateTestResultInput{User: user.ID, Module: module.ID, Score: intPtr(70)}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.agents.CreateAgent(ctx, agentInput(user.ID)); err != nil {
		t.Fatal(err)
	}

	if err := s.users.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	progress, _ := s.progress.ListByUser(ctx, user.ID)
	results, _ := s.results.ListByUser(ctx, user.ID)
	if len(progress) != 0 || len(results) != 0 {
		t.Errorf("dependent rows left behind: %d progress, %d results", len(progress), len(results))
	}
	_, err := s.agents.GetByUser(ctx, user.ID)
	assertNotFound(t, err, util.ErrAIAgentForUserNotFound)
}

func TestUserDetailWithProgress(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	user := s.mustUser(t, "alice")
	module := s.mustModule(t, "Intro", 0)

	detail, err := s.users.GetUserDetail(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if detail.Progress == nil || detail.TestResults == nil || detail.AIAgent != nil {
		t.Fatalf("empty detail = %+v", detail)
	}

	if _, _, err := s.progress.UpdateOrCreate(ctx, UpsertProgressInput{
		User:           user.ID,
		Module:         module.ID,
		ProgressFields: ProgressFields{Started: boolPtr(true)},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.agents.CreateAgent(ctx, agentInput(user.ID)); err != nil {
		t.Fatal(err)
	}

	detail, err = s.users.GetUserDetail(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(detail.Progress) != 1 || detail.Progress[0].ModuleTitle != "Intro" {
		t.Errorf("progress = %+v", detail.Progress)
	}
	if detail.AIAgent == nil || detail.AIAgent.UserName != "alice" {
		t.Errorf("agent = %+v", detail.AIAgent)
	}
}
