package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestGetRun_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	want := archivedRun(t, "run-1", "2024-05-01T10:00:00Z")

	if err := s.SaveRun(context.Background(), want); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	got, err := s.GetRun(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("GetRun() failed: %v", err)
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("round-tripped run differs:\ngot:  %+v\nwant: %+v", got, want)
	}
}

func TestGetRun_Deterministic(t *testing.T) {
	s := openTestStore(t)
	run := archivedRun(t, "run-1", "2024-05-01T10:00:00Z")

	if err := s.SaveRun(context.Background(), run); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	first, err := s.GetRun(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("first GetRun() failed: %v", err)
	}
	second, err := s.GetRun(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("second GetRun() failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("two reads of the same run differ")
	}
}

func TestGetRun_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetRun(context.Background(), "missing")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRun(missing) error = %v, want ErrRunNotFound", err)
	}
}

func TestGetRun_PreservesExecutionOrder(t *testing.T) {
	s := openTestStore(t)
	run := archivedRun(t, "run-1", "2024-05-01T10:00:00Z")

	if err := s.SaveRun(context.Background(), run); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	got, err := s.GetRun(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("GetRun() failed: %v", err)
	}

	for i := range run.Results {
		if got.Results[i].Name != run.Results[i].Name {
			t.Errorf("result %d = %s, want %s", i, got.Results[i].Name, run.Results[i].Name)
		}
	}
}

func TestListRuns_MostRecentFirst(t *testing.T) {
	s := openTestStore(t)

	older := archivedRun(t, "run-old", "2024-05-01T10:00:00Z")
	newer := archivedRun(t, "run-new", "2024-05-03T10:00:00Z")

	if err := s.SaveRun(context.Background(), older); err != nil {
		t.Fatalf("SaveRun(run-old) failed: %v", err)
	}
	if err := s.SaveRun(context.Background(), newer); err != nil {
		t.Fatalf("SaveRun(run-new) failed: %v", err)
	}

	infos, err := s.ListRuns(context.Background())
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}

	if len(infos) != 2 {
		t.Fatalf("ListRuns() returned %d runs, want 2", len(infos))
	}
	if infos[0].Token != "run-new" || infos[1].Token != "run-old" {
		t.Errorf("order = [%s, %s], want [run-new, run-old]", infos[0].Token, infos[1].Token)
	}
	if infos[0].Modules != len(newer.Results) {
		t.Errorf("Modules = %d, want %d", infos[0].Modules, len(newer.Results))
	}
}

func TestListRuns_Empty(t *testing.T) {
	s := openTestStore(t)

	infos, err := s.ListRuns(context.Background())
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("ListRuns() on empty archive returned %d runs", len(infos))
	}
}
