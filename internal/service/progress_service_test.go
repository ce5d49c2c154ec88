package service

import (
	"ai_academy_backend/internal/util"
	"context"
	"sync"
	"testing"
)

func TestUpdateOrCreateProgress(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	user := s.mustUser(t, "alice")
	module := s.mustModule(t, "Intro", 0)

	first, created, err := s.progress.UpdateOrCreate(ctx, UpsertProgressInput{
		User:           user.ID,
		Module:         module.ID,
		ProgressFields: ProgressFields{Started: boolPtr(true)},
	})
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if !created {
		t.Fatal("first call should create the row")
	}
	if !first.Started || first.CompletedLessons != 0 || first.TotalLessons != 0 {
		t.Errorf("created row = %+v", first)
	}

	second, created, err := s.progress.UpdateOrCreate(ctx, UpsertProgressInput{
		User:           user.ID,
		Module:         module.ID,
		ProgressFields: ProgressFields{CompletedLessons: intPtr(3)},
	})
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if created {
		t.Fatal("second call should update the existing row")
	}
	if second.ID != first.ID {
		t.Errorf("row id changed from %d to %d", first.ID, second.ID)
	}
	if !second.Started {
		t.Error("started was overwritten although it was not supplied")
	}
	if second.CompletedLessons != 3 {
		t.Errorf("completed_lessons = %d, want 3", second.CompletedLessons)
	}
	if second.UserName != "alice" || second.ModuleTitle != "Intro" {
		t.Errorf("names = %q/%q", second.UserName, second.ModuleTitle)
	}

	all, _ := s.progress.ListByUser(ctx, user.ID)
	if len(all) != 1 {
		t.Fatalf("rows for pair = %d, want 1", len(all))
	}
}

func TestUpdateOrCreateConcurrent(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	user := s.mustUser(t, "alice")
	module := s.mustModule(t, "Intro", 0)

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		creates int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, created, err := s.progress.UpdateOrCreate(ctx, UpsertProgressInput{
				User:           user.ID,
				Module:         module.ID,
				ProgressFields: ProgressFields{ViewedLessons: intPtr(n)},
			})
			if err != nil {
				t.Errorf("worker %d: %v", n, err)
				return
			}
			if created {
				mu.Lock()
				creates++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if creates != 1 {
		t.Errorf("created %d times, want exactly 1", creates)
	}
	rows, _ := s.progress.ListByUser(ctx, user.ID)
	if len(rows) != 1 {
		t.Errorf("rows = %d, want 1", len(rows))
	}
}

func TestUpdateOrCreateRejectsUnknownRefs(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	user := s.mustUser(t, "alice")
	module := s.mustModule(t, "Intro", 0)

	_, _, err := s.progress.UpdateOrCreate(ctx, UpsertProgressInput{User: 999, Module: module.ID})
	assertFieldError(t, err, "user")

	_, _, err = s.progress.UpdateOrCreate(ctx, UpsertProgressInput{User: user.ID, Module: 999})
	assertFieldError(t, err, "module")

	_, _, err = s.progress.UpdateOrCreate(ctx, UpsertProgressInput{
		User:           user.ID,
		Module:         module.ID,
		ProgressFields: ProgressFields{ViewedLessons: intPtr(-1)},
	})
	assertFieldError(t, err, "viewed_lessons")
}

func TestCreateProgressRejectsDuplicatePair(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	user := s.mustUser(t, "alice")
	module := s.mustModule(t, "Intro", 0)

	p, err := s.progress.CreateProgress(ctx, CreateProgressInput{User: user.ID, Module: module.ID, TotalLessons: 4})
	if err != nil {
		t.Fatal(err)
	}
	if p.TotalLessons != 4 {
		t.Errorf("total_lessons = %d", p.TotalLessons)
	}

	_, err = s.progress.CreateProgress(ctx, CreateProgressInput{User: user.ID, Module: module.ID})
	assertFieldError(t, err, "non_field_errors")
}

func TestUpdateAndDeleteProgress(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	user := s.mustUser(t, "alice")
	module := s.mustModule(t, "Intro", 0)
	p, err := s.progress.CreateProgress(ctx, CreateProgressInput{User: user.ID, Module: module.ID, ViewedLessons: 2})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := s.progress.UpdateProgress(ctx, p.ID, ProgressFields{Started: boolPtr(true)})
	if err != nil {
		t.Fatal(err)
	}
	if !updated.Started || updated.ViewedLessons != 2 {
		t.Errorf("updated = %+v", updated)
	}

	if err := s.progress.DeleteProgress(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	_, err = s.progress.GetProgress(ctx, p.ID)
	assertNotFound(t, err, util.ErrProgressNotFound)
}

func TestListProgressByUser(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := s.mustUser(t, "alice")
	bob := s.mustUser(t, "bob")
	m1 := s.mustModule(t, "One", 0)
	m2 := s.mustModule(t, "Two", 1)

	for _, in := range []UpsertProgressInput{
		{User: alice.ID, Module: m1.ID},
		{User: alice.ID, Module: m2.ID},
		{User: bob.ID, Module: m1.ID},
	} {
		if _, _, err := s.progress.UpdateOrCreate(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := s.progress.ListByUser(ctx, alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("alice rows = %d", len(rows))
	}
	for _, r := range rows {
		if r.UserID != alice.ID {
			t.Errorf("row for user %d in alice's list", r.UserID)
		}
	}
}
