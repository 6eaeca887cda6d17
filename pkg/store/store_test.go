package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	apperr "github.com/lectura/mindmap/pkg/errors"
	"github.com/lectura/mindmap/pkg/mindmap"
)

func sampleTree(text string) *mindmap.Node {
	return &mindmap.Node{ID: "root", Text: text, Children: []*mindmap.Node{
		{ID: "a", Text: "A"},
		{ID: "b", Text: "B", Children: []*mindmap.Node{{ID: "b1", Text: "B1"}}},
	}}
}

// fakeClock steps one second per call.
func fakeClock(t *testing.T) {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	prev := now
	now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}
	t.Cleanup(func() { now = prev })
}

// testStore runs the behaviour every backend shares.
func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("save assigns id and timestamps", func(t *testing.T) {
		m := &MindMap{Title: "Biology", Root: sampleTree("Biology")}
		if err := s.Save(ctx, m); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if _, err := uuid.Parse(m.ID); err != nil {
			t.Errorf("ID %q is not a uuid", m.ID)
		}
		if m.CreatedAt.IsZero() || !m.UpdatedAt.Equal(m.CreatedAt) {
			t.Errorf("timestamps: created=%v updated=%v", m.CreatedAt, m.UpdatedAt)
		}

		got, err := s.Get(ctx, m.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if diff := cmp.Diff(m, got); diff != "" {
			t.Errorf("Get mismatch (-saved +got):\n%s", diff)
		}
	})

	t.Run("update keeps created_at", func(t *testing.T) {
		m := &MindMap{Title: "Draft", Root: sampleTree("Draft")}
		if err := s.Save(ctx, m); err != nil {
			t.Fatal(err)
		}
		created := m.CreatedAt

		update := &MindMap{ID: m.ID, Title: "Final", Root: sampleTree("Final")}
		if err := s.Save(ctx, update); err != nil {
			t.Fatal(err)
		}
		got, err := s.Get(ctx, m.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Title != "Final" || got.Root.Text != "Final" {
			t.Errorf("update not applied: %+v", got)
		}
		if !got.CreatedAt.Equal(created) {
			t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
		}
		if !got.UpdatedAt.After(created) {
			t.Errorf("UpdatedAt %v should be after %v", got.UpdatedAt, created)
		}
	})

	t.Run("returned copies are independent", func(t *testing.T) {
		m := &MindMap{Title: "Copy", Root: sampleTree("Copy")}
		if err := s.Save(ctx, m); err != nil {
			t.Fatal(err)
		}
		m.Root.Text = "mutated"
		got, err := s.Get(ctx, m.ID)
		if err != nil {
			t.Fatal(err)
		}
		got.Root.Children = nil
		again, _ := s.Get(ctx, m.ID)
		if again.Root.Text != "Copy" || len(again.Root.Children) != 2 {
			t.Errorf("stored document was modified: %+v", again.Root)
		}
	})

	t.Run("list newest first with limit", func(t *testing.T) {
		all, err := s.List(ctx, 0)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(all) < 3 {
			t.Fatalf("List returned %d mind maps, want at least 3", len(all))
		}
		for i := 1; i < len(all); i++ {
			if all[i].UpdatedAt.After(all[i-1].UpdatedAt) {
				t.Errorf("List not ordered at %d", i)
			}
		}
		two, err := s.List(ctx, 2)
		if err != nil {
			t.Fatal(err)
		}
		if len(two) != 2 || two[0].ID != all[0].ID {
			t.Errorf("List(2) = %d items", len(two))
		}
	})

	t.Run("delete", func(t *testing.T) {
		m := &MindMap{Title: "Temp", Root: sampleTree("Temp")}
		if err := s.Save(ctx, m); err != nil {
			t.Fatal(err)
		}
		if err := s.Delete(ctx, m.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := s.Get(ctx, m.ID); !apperr.Is(err, apperr.ErrCodeNotFound) {
			t.Errorf("Get after Delete: err = %v, want NOT_FOUND", err)
		}
		if err := s.Delete(ctx, m.ID); !apperr.Is(err, apperr.ErrCodeNotFound) {
			t.Errorf("second Delete: err = %v, want NOT_FOUND", err)
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		tests := []struct {
			name string
			m    *MindMap
			code apperr.Code
		}{
			{"nil", nil, apperr.ErrCodeNoData},
			{"no root", &MindMap{Title: "x"}, apperr.ErrCodeNoData},
			{"bad id", &MindMap{ID: "../etc/passwd", Root: sampleTree("x")}, apperr.ErrCodeInvalidInput},
		}
		for _, tt := range tests {
			if err := s.Save(ctx, tt.m); !apperr.Is(err, tt.code) {
				t.Errorf("%s: err = %v, want %s", tt.name, err, tt.code)
			}
		}
		if _, err := s.Get(ctx, uuid.NewString()); !apperr.Is(err, apperr.ErrCodeNotFound) {
			t.Errorf("unknown id: err = %v, want NOT_FOUND", err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	fakeClock(t)
	s := NewMemoryStore()
	defer s.Close(context.Background())
	testStore(t, s)
}

func TestFileStore(t *testing.T) {
	fakeClock(t)
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close(context.Background())
	testStore(t, s)
}

func TestFileStoreSkipsStrayFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, &MindMap{Title: "Keep", Root: sampleTree("Keep")}); err != nil {
		t.Fatal(err)
	}
	for name, content := range map[string]string{
		"notes.json":                 `{"id":"x"}`,
		uuid.NewString() + ".json":   "not json",
		"readme.txt":                 "hello",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 || all[0].Title != "Keep" {
		t.Errorf("List = %d items, want only the saved mind map", len(all))
	}
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	dir, err := DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/data", "mindmap", "mindmaps") {
		t.Errorf("DefaultDir = %s", dir)
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MINDMAP_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("MINDMAP_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	db := "mindmap_test_" + uuid.NewString()[:8]
	s, err := NewMongoStore(ctx, MongoConfig{URI: uri, Database: db})
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer func() {
		_ = s.client.Database(db).Drop(ctx)
		s.Close(ctx)
	}()

	fakeClock(t)
	testStore(t, s)
}

func TestNewMongoStoreRequiresURI(t *testing.T) {
	_, err := NewMongoStore(context.Background(), MongoConfig{})
	if !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}
