package service

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/notehub/notehub/app/notes/internal/model"
	"github.com/notehub/notehub/pkg/logger"
)

// fakeNoteStore 内存实现，排序语义与数据库实现一致
type fakeNoteStore struct {
	notes  map[string]*model.Note
	nextID int
}

func newFakeNoteStore() *fakeNoteStore {
	return &fakeNoteStore{notes: make(map[string]*model.Note)}
}

func (s *fakeNoteStore) GetByID(_ context.Context, id string) (*model.Note, error) {
	note, ok := s.notes[id]
	if !ok {
		return nil, nil
	}
	copied := *note
	return &copied, nil
}

func (s *fakeNoteStore) Save(_ context.Context, note *model.Note) error {
	if note.ID == "" {
		s.nextID++
		note.ID = fmt.Sprintf("note-%03d", s.nextID)
	}
	copied := *note
	s.notes[note.ID] = &copied
	return nil
}

func (s *fakeNoteStore) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := s.notes[id]; !ok {
		return false, nil
	}
	delete(s.notes, id)
	return true, nil
}

func (s *fakeNoteStore) ListByOwner(_ context.Context, ownerID string, limit, offset int) ([]*model.Note, error) {
	var owned []*model.Note
	for _, note := range s.notes {
		if note.OwnerID == ownerID {
			copied := *note
			owned = append(owned, &copied)
		}
	}

	// updated_at 降序，id 降序
	sort.Slice(owned, func(i, j int) bool {
		if !owned[i].UpdatedAt.Equal(owned[j].UpdatedAt) {
			return owned[i].UpdatedAt.After(owned[j].UpdatedAt)
		}
		return owned[i].ID > owned[j].ID
	})

	if offset >= len(owned) {
		return nil, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], nil
}

func newTestService(store NoteStore) *NoteService {
	return NewNoteService(store, logger.NewNop())
}

// TestCreate 测试创建笔记
func TestCreate(t *testing.T) {
	store := newFakeNoteStore()
	svc := newTestService(store)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	note, err := svc.Create(context.Background(), "alice", NoteInput{
		Title:   "first note",
		Content: "hello",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if note.ID == "" {
		t.Error("expected assigned note ID")
	}
	if note.OwnerID != "alice" {
		t.Errorf("OwnerID = %q, want alice", note.OwnerID)
	}
	if !note.CreatedAt.Equal(now) || !note.UpdatedAt.Equal(now) {
		t.Errorf("timestamps = %v/%v, want %v", note.CreatedAt, note.UpdatedAt, now)
	}
	if note.Tags == nil {
		t.Error("expected non-nil tags slice")
	}

	stored, _ := store.GetByID(context.Background(), note.ID)
	if stored == nil {
		t.Fatal("note not persisted")
	}
}

// TestCreateBlankTitle 测试空标题拒绝且不产生写入
func TestCreateBlankTitle(t *testing.T) {
	store := newFakeNoteStore()
	svc := newTestService(store)

	for _, title := range []string{"", "   ", "\t\n"} {
		if _, err := svc.Create(context.Background(), "alice", NoteInput{Title: title}); err != ErrTitleRequired {
			t.Errorf("Create(title=%q) error = %v, want ErrTitleRequired", title, err)
		}
	}

	if len(store.notes) != 0 {
		t.Errorf("expected no persisted notes, got %d", len(store.notes))
	}
}

// TestGetForOwner 测试读路径的归属隔离
func TestGetForOwner(t *testing.T) {
	store := newFakeNoteStore()
	svc := newTestService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", NoteInput{Title: "mine"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := svc.GetForOwner(ctx, created.ID, "alice")
	if err != nil {
		t.Fatalf("GetForOwner() error = %v", err)
	}
	if got.Title != "mine" {
		t.Errorf("Title = %q", got.Title)
	}

	// 他人的笔记与不存在的笔记对外表现一致
	if _, err := svc.GetForOwner(ctx, created.ID, "bob"); err != ErrNoteNotFound {
		t.Errorf("cross-owner get error = %v, want ErrNoteNotFound", err)
	}
	if _, err := svc.GetForOwner(ctx, "no-such-id", "alice"); err != ErrNoteNotFound {
		t.Errorf("absent get error = %v, want ErrNoteNotFound", err)
	}
}

// TestUpdate 测试更新与归属校验
func TestUpdate(t *testing.T) {
	store := newFakeNoteStore()
	svc := newTestService(store)
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	created, err := svc.Create(ctx, "alice", NoteInput{Title: "v1", Content: "old"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	svc.now = func() time.Time { return base.Add(time.Hour) }

	updated, err := svc.Update(ctx, created.ID, "alice", NoteInput{
		Title:   "v2",
		Content: "new",
		Pinned:  true,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "v2" || updated.Content != "new" || !updated.Pinned {
		t.Errorf("unexpected updated note: %+v", updated)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Error("expected UpdatedAt to advance past CreatedAt")
	}
	if updated.OwnerID != "alice" {
		t.Errorf("OwnerID changed to %q", updated.OwnerID)
	}

	// 他人更新被拒绝，且记录保持原样
	if _, err := svc.Update(ctx, created.ID, "bob", NoteInput{Title: "hijacked"}); err != ErrNoteForbidden {
		t.Errorf("cross-owner update error = %v, want ErrNoteForbidden", err)
	}
	current, _ := store.GetByID(ctx, created.ID)
	if current.Title != "v2" {
		t.Errorf("note modified by rejected update: %q", current.Title)
	}

	// 不存在的笔记同样返回 ErrNoteForbidden
	if _, err := svc.Update(ctx, "no-such-id", "alice", NoteInput{Title: "x"}); err != ErrNoteForbidden {
		t.Errorf("absent update error = %v, want ErrNoteForbidden", err)
	}
}

// TestDelete 测试删除幂等性与归属隔离
func TestDelete(t *testing.T) {
	store := newFakeNoteStore()
	svc := newTestService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", NoteInput{Title: "to delete"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// 他人删除不生效
	deleted, err := svc.Delete(ctx, created.ID, "bob")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deleted {
		t.Error("cross-owner delete should report false")
	}
	if _, ok := store.notes[created.ID]; !ok {
		t.Fatal("note removed by cross-owner delete")
	}

	deleted, err = svc.Delete(ctx, created.ID, "alice")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !deleted {
		t.Error("owner delete should report true")
	}

	// 重复删除返回 false 而非错误
	deleted, err = svc.Delete(ctx, created.ID, "alice")
	if err != nil {
		t.Fatalf("repeat Delete() error = %v", err)
	}
	if deleted {
		t.Error("repeat delete should report false")
	}
}

// TestListByOwner 测试分页、排序与归属隔离
func TestListByOwner(t *testing.T) {
	store := newFakeNoteStore()
	svc := newTestService(store)
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		ts := base.Add(time.Duration(i) * time.Minute)
		svc.now = func() time.Time { return ts }
		if _, err := svc.Create(ctx, "alice", NoteInput{Title: fmt.Sprintf("note %d", i)}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	svc.now = func() time.Time { return base.Add(time.Hour) }
	if _, err := svc.Create(ctx, "bob", NoteInput{Title: "bob note"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// 第 0 页：最近更新在前
	page0, err := svc.ListByOwner(ctx, "alice", 0, 2)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(page0) != 2 {
		t.Fatalf("page 0 len = %d, want 2", len(page0))
	}
	if page0[0].Title != "note 4" || page0[1].Title != "note 3" {
		t.Errorf("page 0 = [%q, %q], want newest first", page0[0].Title, page0[1].Title)
	}

	page2, err := svc.ListByOwner(ctx, "alice", 2, 2)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(page2) != 1 || page2[0].Title != "note 0" {
		t.Errorf("page 2 unexpected: %+v", page2)
	}

	// 越界页返回空列表
	overflow, err := svc.ListByOwner(ctx, "alice", 9, 2)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if overflow == nil || len(overflow) != 0 {
		t.Errorf("overflow page = %v, want empty non-nil slice", overflow)
	}

	// 归属隔离
	bobNotes, err := svc.ListByOwner(ctx, "bob", 0, 10)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(bobNotes) != 1 || bobNotes[0].Title != "bob note" {
		t.Errorf("bob notes = %+v", bobNotes)
	}

	// 负页码与非法页大小回退到默认值
	fallback, err := svc.ListByOwner(ctx, "alice", -1, 0)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(fallback) != 5 {
		t.Errorf("fallback len = %d, want 5", len(fallback))
	}
}

// TestListOrderingStable 测试无写入时列表顺序跨调用稳定
func TestListOrderingStable(t *testing.T) {
	store := newFakeNoteStore()
	svc := newTestService(store)
	ctx := context.Background()

	// 同一时间戳下按 id 降序决定次序
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return ts }
	for i := 0; i < 4; i++ {
		if _, err := svc.Create(ctx, "alice", NoteInput{Title: fmt.Sprintf("note %d", i)}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	first, err := svc.ListByOwner(ctx, "alice", 0, 10)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		again, err := svc.ListByOwner(ctx, "alice", 0, 10)
		if err != nil {
			t.Fatalf("ListByOwner() error = %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("list length changed: %d vs %d", len(again), len(first))
		}
		for j := range again {
			if again[j].ID != first[j].ID {
				t.Errorf("order changed at %d: %q vs %q", j, again[j].ID, first[j].ID)
			}
		}
	}
}
