package model

import "testing"

func TestRecomputeProgress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		subs SubTasks
		want int
	}{
		{"no sub-tasks", SubTasks{}, 0},
		{"nil sub-tasks", nil, 0},
		{"none done", SubTasks{{TaskName: "a"}, {TaskName: "b"}}, 0},
		{"half done", SubTasks{{TaskName: "a", IsDone: true}, {TaskName: "b"}}, 50},
		{"one of three", SubTasks{{IsDone: true}, {}, {}}, 33},
		{"two of three", SubTasks{{IsDone: true}, {IsDone: true}, {}}, 67},
		{"all done", SubTasks{{IsDone: true}, {IsDone: true}}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := Goal{SubTasks: tt.subs, ProgressPercentage: 42}
			g.RecomputeProgress()
			if g.ProgressPercentage != tt.want {
				t.Errorf("ProgressPercentage = %d, want %d", g.ProgressPercentage, tt.want)
			}
		})
	}
}

func TestIsBackendID(t *testing.T) {
	t.Parallel()

	if IsBackendID("1") {
		t.Error("placeholder id must not be a backend id")
	}
	if !IsBackendID("4f2c9e0a-9f14-4c6f-8d2e-0a6b1a7d9c31") {
		t.Error("uuid must be a backend id")
	}
}

func TestSubTasksScan(t *testing.T) {
	t.Parallel()

	var s SubTasks
	if err := s.Scan([]byte(`[{"task_name":"leer","is_done":true}]`)); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(s) != 1 || s[0].TaskName != "leer" || !s[0].IsDone {
		t.Errorf("scanned = %+v", s)
	}

	if err := s.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if len(s) != 0 {
		t.Errorf("nil scan should yield empty, got %+v", s)
	}

	if err := s.Scan(42); err == nil {
		t.Error("scanning an int should fail")
	}
}

func TestDefaultGoalsArePlaceholders(t *testing.T) {
	t.Parallel()

	goals := DefaultGoals()
	if len(goals) != 3 {
		t.Fatalf("len = %d, want 3", len(goals))
	}
	for _, g := range goals {
		if IsBackendID(g.ID) {
			t.Errorf("default goal %q carries a backend id", g.ID)
		}
		if g.Persisted {
			t.Errorf("default goal %q marked persisted", g.ID)
		}
	}
}
