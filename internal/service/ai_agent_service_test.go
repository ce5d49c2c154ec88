package service

import (
	"ai_academy_backend/internal/util"
	"context"
	"testing"
)

func agentInput(userID uint) CreateAIAgentInput {
	return CreateAIAgentInput{
		User:               userID,
		Area:               "Data analysis",
		AutonomyLevel:      "Acts after confirmation",
		DataTypes:          "Spreadsheets",
		LanguageModel:      "Claude",
		ResponseSpeed:      "Within a few seconds",
		Integrations:       "CRM",
		Personalization:    "Adapts to the team",
		SuccessMetrics:     "Time saved",
		LearningCapability: "From explicit feedback",
		Budget:             "Up to $50",
	}
}

func TestCreateAgentOnePerUser(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	user := s.mustUser(t, "alice")

	agent, err := s.agents.CreateAgent(ctx, agentInput(user.ID))
	if err != nil {
		t.Fatal(err)
	}
	if agent.UserName != "alice" || agent.Area != "Data analysis" {
		t.Errorf("agent = %+v", agent)
	}

	_, err = s.agents.CreateAgent(ctx, agentInput(user.ID))
	assertFieldError(t, err, "user")

	byUser, err := s.agents.GetByUser(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if byUser.ID != agent.ID {
		t.Errorf("GetByUser id = %d, want %d", byUser.ID, agent.ID)
	}
}

func TestCreateAgentValidation(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	user := s.mustUser(t, "alice")

	in := agentInput(user.ID)
	in.Budget = ""
	_, err := s.agents.CreateAgent(ctx, in)
	assertFieldError(t, err, "budget")

	_, err = s.agents.CreateAgent(ctx, agentInput(999))
	assertFieldError(t, err, "user")
}

func TestGetAgentByUserWithoutAgent(t *testing.T) {
	s := newTestServices(t)
	user := s.mustUser(t, "alice")

	_, err := s.agents.GetByUser(context.Background(), user.ID)
	assertNotFound(t, err, util.ErrAIAgentForUserNotFound)
}

func TestUpdateAgentPartial(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	user := s.mustUser(t, "alice")
	agent, err := s.agents.CreateAgent(ctx, agentInput(user.ID))
	if err != nil {
		t.Fatal(err)
	}

	updated, err := s.agents.UpdateAgent(ctx, agent.ID, UpdateAIAgentInput{Budget: strPtr("Over $500")})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Budget != "Over $500" || updated.Area != "Data analysis" || updated.UserID != user.ID {
		t.Errorf("updated = %+v", updated)
	}

	_, err = s.agents.UpdateAgent(ctx, agent.ID, UpdateAIAgentInput{Area: strPtr("")})
	assertFieldError(t, err, "area")

	_, err = s.agents.UpdateAgent(ctx, 999, UpdateAIAgentInput{})
	assertNotFound(t, err, util.ErrAIAgentNotFound)

	if err := s.agents.DeleteAgent(ctx, agent.ID); err != nil {
		t.Fatal(err)
	}
	_, err = s.agents.GetAgent(ctx, agent.ID)
	assertNotFound(t, err, util.ErrAIAgentNotFound)
}

func TestAgentQuestionnaire(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	questions, err := s.agentQuest.ListQuestions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(questions) != 10 {
		t.Fatalf("questions = %d, want 10", len(questions))
	}
	for i, q := range questions {
		if q.QuestionID != i+1 {
			t.Errorf("questions[%d].question_id = %d", i, q.QuestionID)
		}
		if len(q.Options) != 4 {
			t.Errorf("question %d has %d options", q.QuestionID, len(q.Options))
			continue
		}
		for j := 1; j < len(q.Options); j++ {
			if q.Options[j-1].Order > q.Options[j].Order {
				t.Errorf("question %d options out of order", q.QuestionID)
			}
		}
	}

	first, err := s.agentQuest.GetQuestion(ctx, questions[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if first.QuestionText != questions[0].QuestionText || len(first.Options) != 4 {
		t.Errorf("first = %+v", first)
	}

	_, err = s.agentQuest.GetQuestion(ctx, 9999)
	assertNotFound(t, err, util.ErrAIAgentQuestionNotFound)
}
