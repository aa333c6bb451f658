package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/notehub/notehub/app/notes/internal/model"
	"github.com/notehub/notehub/pkg/logger"
)

var (
	// ErrTitleRequired 标题为空
	ErrTitleRequired = errors.New("notes: title is required")

	// ErrNoteNotFound 笔记不存在（或不属于调用者，读路径不区分两者）
	ErrNoteNotFound = errors.New("notes: note not found")

	// ErrNoteForbidden 更新被拒绝（笔记不存在或不属于调用者）
	ErrNoteForbidden = errors.New("notes: note does not belong to caller")
)

const (
	// DefaultPageSize 默认分页大小
	DefaultPageSize = 20
)

// NoteStore 笔记持久层接口
// 实现必须保证 ListByOwner 的排序在无写入时跨调用稳定
type NoteStore interface {
	// GetByID 按 ID 查询，不存在时返回 (nil, nil)
	GetByID(ctx context.Context, id string) (*model.Note, error)
	// Save 保存记录，ID 为空时由存储层分配
	Save(ctx context.Context, note *model.Note) error
	// Delete 按 ID 删除，返回是否删除了记录
	Delete(ctx context.Context, id string) (bool, error)
	// ListByOwner 按归属者分页查询，按 updated_at 降序、id 降序排列
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*model.Note, error)
}

// NoteInput 创建/更新笔记的字段集合
// 更新时所有可变字段作为整体替换，不支持字段级局部更新
type NoteInput struct {
	Title    string
	Content  string
	Tags     []string
	Pinned   bool
	Archived bool
}

// NoteService 笔记领域服务
// 负责归属校验、分页计算与生命周期时间戳
type NoteService struct {
	store  NoteStore
	logger logger.Logger
	now    func() time.Time
}

// NewNoteService 创建笔记服务
func NewNoteService(store NoteStore, l logger.Logger) *NoteService {
	return &NoteService{
		store:  store,
		logger: l.Named("service.note"),
		now:    time.Now,
	}
}

// Create 创建笔记
// 标题为空（或仅空白）时返回 ErrTitleRequired，且不写入任何记录
func (s *NoteService) Create(ctx context.Context, ownerID string, in NoteInput) (*model.Note, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}

	now := s.now()
	note := &model.Note{
		OwnerID:   ownerID,
		Title:     in.Title,
		Content:   in.Content,
		Tags:      in.Tags,
		Pinned:    in.Pinned,
		Archived:  in.Archived,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if note.Tags == nil {
		note.Tags = []string{}
	}

	if err := s.store.Save(ctx, note); err != nil {
		return nil, err
	}

	s.logger.Info("note created", "note_id", note.ID, "owner_id", ownerID)
	return note, nil
}

// ListByOwner 分页查询归属者的笔记
// page 从 0 开始；越界的页返回空列表而非错误
func (s *NoteService) ListByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]*model.Note, error) {
	if page < 0 {
		page = 0
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	notes, err := s.store.ListByOwner(ctx, ownerID, pageSize, page*pageSize)
	if err != nil {
		return nil, err
	}

	if notes == nil {
		notes = []*model.Note{}
	}
	return notes, nil
}

// GetForOwner 按 ID 查询笔记
// 笔记不存在与归属不匹配均返回 ErrNoteNotFound，避免泄露他人数据的存在性
func (s *NoteService) GetForOwner(ctx context.Context, id, ownerID string) (*model.Note, error) {
	note, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if note == nil || !belongsTo(note, ownerID) {
		return nil, ErrNoteNotFound
	}

	return note, nil
}

// Update 整体替换笔记的可变字段
// 笔记不存在或归属不匹配均返回 ErrNoteForbidden；成功时刷新 UpdatedAt
func (s *NoteService) Update(ctx context.Context, id, ownerID string, in NoteInput) (*model.Note, error) {
	note, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if note == nil || !belongsTo(note, ownerID) {
		return nil, ErrNoteForbidden
	}

	note.Title = in.Title
	note.Content = in.Content
	note.Tags = in.Tags
	if note.Tags == nil {
		note.Tags = []string{}
	}
	note.Pinned = in.Pinned
	note.Archived = in.Archived
	note.UpdatedAt = s.now()

	if err := s.store.Save(ctx, note); err != nil {
		return nil, err
	}

	s.logger.Info("note updated", "note_id", note.ID, "owner_id", ownerID)
	return note, nil
}

// Delete 删除笔记
// 仅当笔记存在且归属匹配时删除并返回 true；重复删除返回 false
func (s *NoteService) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	note, err := s.store.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	if note == nil || !belongsTo(note, ownerID) {
		return false, nil
	}

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, err
	}

	if deleted {
		s.logger.Info("note deleted", "note_id", id, "owner_id", ownerID)
	}
	return deleted, nil
}

// belongsTo 归属判定，读/改/删路径共用
func belongsTo(note *model.Note, ownerID string) bool {
	return note.OwnerID == ownerID
}
