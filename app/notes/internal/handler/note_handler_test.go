package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notehub/notehub/app/notes/internal/metrics"
	"github.com/notehub/notehub/app/notes/internal/model"
	"github.com/notehub/notehub/app/notes/internal/service"
	"github.com/notehub/notehub/pkg/logger"
	"github.com/notehub/notehub/pkg/web"
)

// memStore 内存笔记存储
type memStore struct {
	notes  map[string]*model.Note
	nextID int
}

func newMemStore() *memStore {
	return &memStore{notes: make(map[string]*model.Note)}
}

func (s *memStore) GetByID(_ context.Context, id string) (*model.Note, error) {
	note, ok := s.notes[id]
	if !ok {
		return nil, nil
	}
	copied := *note
	return &copied, nil
}

func (s *memStore) Save(_ context.Context, note *model.Note) error {
	if note.ID == "" {
		s.nextID++
		note.ID = fmt.Sprintf("note-%03d", s.nextID)
	}
	copied := *note
	s.notes[note.ID] = &copied
	return nil
}

func (s *memStore) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := s.notes[id]; !ok {
		return false, nil
	}
	delete(s.notes, id)
	return true, nil
}

func (s *memStore) ListByOwner(_ context.Context, ownerID string, limit, offset int) ([]*model.Note, error) {
	var owned []*model.Note
	for _, note := range s.notes {
		if note.OwnerID == ownerID {
			copied := *note
			owned = append(owned, &copied)
		}
	}
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

func newTestRouter() (*gin.Engine, *memStore) {
	gin.SetMode(gin.TestMode)

	store := newMemStore()
	svc := service.NewNoteService(store, logger.NewNop())
	h := NewNoteHandler(svc, metrics.New("notes_test"), logger.NewNop())

	r := gin.New()
	h.Register(r)
	return r, store
}

func doRequest(r *gin.Engine, method, path, userID string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(HeaderUserID, userID)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// TestMissingUserHeader 测试缺少身份头返回 401
func TestMissingUserHeader(t *testing.T) {
	r, _ := newTestRouter()

	w := doRequest(r, http.MethodGet, "/api/notes", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp web.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 40002, resp.Code)
}

// TestCreateAndGet 测试创建与读取
func TestCreateAndGet(t *testing.T) {
	r, _ := newTestRouter()

	w := doRequest(r, http.MethodPost, "/api/notes", "alice", gin.H{
		"title":   "shopping list",
		"content": "milk, eggs",
		"tags":    []string{"errands"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Code int        `json:"code"`
		Data model.Note `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 0, created.Code)
	require.NotEmpty(t, created.Data.ID)
	assert.Equal(t, "alice", created.Data.OwnerID)

	w = doRequest(r, http.MethodGet, "/api/notes/"+created.Data.ID, "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// 他人读取表现为 404
	w = doRequest(r, http.MethodGet, "/api/notes/"+created.Data.ID, "bob", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestCreateBlankTitle 测试空标题返回 400
func TestCreateBlankTitle(t *testing.T) {
	r, store := newTestRouter()

	w := doRequest(r, http.MethodPost, "/api/notes", "alice", gin.H{
		"title": "   ",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp web.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 40001, resp.Code)
	assert.Empty(t, store.notes)
}

// TestUpdateForbidden 测试他人更新返回 403
func TestUpdateForbidden(t *testing.T) {
	r, _ := newTestRouter()

	w := doRequest(r, http.MethodPost, "/api/notes", "alice", gin.H{"title": "mine"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data model.Note `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doRequest(r, http.MethodPut, "/api/notes/"+created.Data.ID, "bob", gin.H{"title": "hijacked"})
	require.Equal(t, http.StatusForbidden, w.Code)

	var resp web.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 40003, resp.Code)

	// 不存在的笔记同样返回 403
	w = doRequest(r, http.MethodPut, "/api/notes/no-such-id", "alice", gin.H{"title": "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

// TestDeleteSemantics 测试删除返回 204，重复删除返回 404
func TestDeleteSemantics(t *testing.T) {
	r, _ := newTestRouter()

	w := doRequest(r, http.MethodPost, "/api/notes", "alice", gin.H{"title": "temp"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data model.Note `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// 他人删除表现为 404
	w = doRequest(r, http.MethodDelete, "/api/notes/"+created.Data.ID, "bob", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodDelete, "/api/notes/"+created.Data.ID, "alice", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(r, http.MethodDelete, "/api/notes/"+created.Data.ID, "alice", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestListPagination 测试分页参数
func TestListPagination(t *testing.T) {
	r, _ := newTestRouter()

	for i := 0; i < 5; i++ {
		w := doRequest(r, http.MethodPost, "/api/notes", "alice", gin.H{
			"title": fmt.Sprintf("note %d", i),
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doRequest(r, http.MethodGet, "/api/notes?page=0&size=2", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []*model.Note `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)

	// 越界页返回空列表
	w = doRequest(r, http.MethodGet, "/api/notes?page=9&size=2", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Data)
	assert.Empty(t, resp.Data)
}
