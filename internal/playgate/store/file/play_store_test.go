package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"playgate/internal/playgate/store"
	"playgate/internal/playgate/store/file"
)

func newTestStore(t *testing.T) (*file.PlayStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "play.json")
	return file.NewPlayStore(path), path
}

func TestPlayStore_GetMissingFile_Absent(t *testing.T) {
	st, _ := newTestStore(t)

	_, present, err := st.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if present {
		t.Error("expected absent when no file exists")
	}
}

func TestPlayStore_PutGet_RoundTrip(t *testing.T) {
	st, _ := newTestStore(t)

	gameTime := time.Date(2025, 1, 1, 19, 0, 0, 0, time.UTC)
	want := store.PlayRecord{
		ImageBase64: "data:image/jpeg;base64,abc123",
		GameTime:    gameTime,
		Title:       "Duke -9.5",
		UpdatedAt:   time.Now().UTC().Truncate(time.Second),
	}

	if err := st.Put(context.Background(), want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, present, err := st.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !present {
		t.Fatal("expected a record")
	}
	if got.ImageBase64 != want.ImageBase64 || got.Title != want.Title {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if !got.GameTime.Equal(want.GameTime) {
		t.Errorf("game time: got %s, want %s", got.GameTime, want.GameTime)
	}
	if !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Errorf("updated at: got %s, want %s", got.UpdatedAt, want.UpdatedAt)
	}
}

func TestPlayStore_GetMalformedFile_Error(t *testing.T) {
	st, path := newTestStore(t)

	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Malformed content is an error for the store; the service layer is
	// what degrades it to absent.
	_, _, err := st.Get(context.Background())
	if err == nil {
		t.Error("expected an error for malformed content")
	}
}

func TestPlayStore_Delete_Idempotent(t *testing.T) {
	st, _ := newTestStore(t)

	if err := st.Put(context.Background(), store.PlayRecord{
		ImageBase64: "X",
		GameTime:    time.Now().UTC(),
		Title:       "t",
		UpdatedAt:   time.Now().UTC(),
	}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if err := st.Delete(context.Background()); err != nil {
		t.Fatalf("first Delete: %v", err)
	}
	if err := st.Delete(context.Background()); err != nil {
		t.Fatalf("second Delete should succeed, got %v", err)
	}
}
