package store

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndListRuns(t *testing.T) {
	s := openTestStore(t)

	run, err := s.RecordRun(Run{
		Project:        "./webapp",
		FileCount:      10,
		ProcessedCount: 8,
		ErrorCount:     2,
		NodeCount:      8,
		EdgeCount:      5,
		Connectivity:   0.0892,
		Entropy:        2.5,
	})
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if run.ID == "" {
		t.Error("id not assigned")
	}
	if run.CreatedAt.IsZero() {
		t.Error("timestamp not assigned")
	}

	runs, err := s.ListRuns("", 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	got := runs[0]
	if got.Project != "./webapp" || got.NodeCount != 8 || got.EdgeCount != 5 {
		t.Errorf("run = %+v", got)
	}
	if got.Connectivity != 0.0892 || got.Entropy != 2.5 {
		t.Errorf("metrics = (%v, %v)", got.Connectivity, got.Entropy)
	}
}

func TestListRunsFilterAndLimit(t *testing.T) {
	s := openTestStore(t)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		project := "./a"
		if i == 2 {
			project = "./b"
		}
		_, err := s.RecordRun(Run{
			Project:   project,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	runs, err := s.ListRuns("./a", 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("filtered runs = %d, want 2", len(runs))
	}
	if !runs[0].CreatedAt.After(runs[1].CreatedAt) {
		t.Error("runs not sorted newest first")
	}

	runs, err = s.ListRuns("", 1)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Project != "./b" {
		t.Errorf("limited runs = %+v, want newest only", runs)
	}
}
