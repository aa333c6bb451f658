package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/notehub/notehub/app/notes/internal/metrics"
	"github.com/notehub/notehub/app/notes/internal/model"
	"github.com/notehub/notehub/pkg/database/postgres"
	"github.com/notehub/notehub/pkg/logger"
)

// noteColumns 查询列顺序，与 scanNote 保持一致
var noteColumns = []string{
	"id", "owner_id", "title", "content", "tags",
	"pinned", "archived", "created_at", "updated_at",
}

// NoteDAO 笔记数据访问对象
type NoteDAO struct {
	db      *postgres.Client
	logger  logger.Logger
	metrics *metrics.NotesMetrics
}

// NewNoteDAO 创建笔记 DAO
func NewNoteDAO(db *postgres.Client, l logger.Logger, m *metrics.NotesMetrics) *NoteDAO {
	return &NoteDAO{
		db:      db,
		logger:  l.Named("dao.note"),
		metrics: m,
	}
}

// EnsureSchema 创建笔记表（幂等）
func (d *NoteDAO) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS notes (
    id         TEXT PRIMARY KEY,
    owner_id   TEXT NOT NULL,
    title      TEXT NOT NULL,
    content    TEXT NOT NULL DEFAULT '',
    tags       TEXT[] NOT NULL DEFAULT '{}',
    pinned     BOOLEAN NOT NULL DEFAULT FALSE,
    archived   BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notes_owner_updated ON notes (owner_id, updated_at DESC, id DESC);
`

	if _, err := d.db.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure notes schema: %w", err)
	}

	d.logger.Info("notes schema ensured")
	return nil
}

// GetByID 根据 ID 获取笔记，不存在时返回 (nil, nil)
func (d *NoteDAO) GetByID(ctx context.Context, id string) (*model.Note, error) {
	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		d.metrics.RecordDBQuery("select", true, duration)
	}()

	query, args, err := postgres.QueryBuilder.
		Select(noteColumns...).
		From("notes").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	note, err := scanNote(d.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		d.logger.Error("failed to get note by id",
			"note_id", id,
			"error", err,
		)
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return note, nil
}

// ListByOwner 分页查询归属者的笔记
// 排序固定为 updated_at 降序、id 降序，保证无写入时结果稳定
func (d *NoteDAO) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*model.Note, error) {
	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		d.metrics.RecordDBQuery("select", true, duration)
	}()

	query, args, err := postgres.QueryBuilder.
		Select(noteColumns...).
		From("notes").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("updated_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := d.db.Query(ctx, query, args...)
	if err != nil {
		d.logger.Error("failed to list notes by owner",
			"owner_id", ownerID,
			"error", err,
		)
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*model.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			d.logger.Error("failed to scan note",
				"owner_id", ownerID,
				"error", err,
			)
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		d.logger.Error("rows iteration error",
			"owner_id", ownerID,
			"error", err,
		)
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return notes, nil
}

// Save 保存笔记
// ID 为空时分配新 ID 并插入，否则按 ID 更新
func (d *NoteDAO) Save(ctx context.Context, note *model.Note) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
		return d.insert(ctx, note)
	}
	return d.update(ctx, note)
}

func (d *NoteDAO) insert(ctx context.Context, note *model.Note) error {
	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		d.metrics.RecordDBQuery("insert", true, duration)
	}()

	query, args, err := postgres.QueryBuilder.
		Insert("notes").
		Columns(noteColumns...).
		Values(
			note.ID, note.OwnerID, note.Title, note.Content, note.Tags,
			note.Pinned, note.Archived, note.CreatedAt, note.UpdatedAt,
		).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := d.db.Exec(ctx, query, args...); err != nil {
		d.logger.Error("failed to insert note",
			"note_id", note.ID,
			"owner_id", note.OwnerID,
			"error", err,
		)
		return fmt.Errorf("failed to insert note: %w", err)
	}

	d.logger.Debug("note inserted",
		"note_id", note.ID,
		"owner_id", note.OwnerID,
	)

	return nil
}

func (d *NoteDAO) update(ctx context.Context, note *model.Note) error {
	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		d.metrics.RecordDBQuery("update", true, duration)
	}()

	query, args, err := postgres.QueryBuilder.
		Update("notes").
		Set("title", note.Title).
		Set("content", note.Content).
		Set("tags", note.Tags).
		Set("pinned", note.Pinned).
		Set("archived", note.Archived).
		Set("updated_at", note.UpdatedAt).
		Where(squirrel.Eq{"id": note.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := d.db.Exec(ctx, query, args...); err != nil {
		d.logger.Error("failed to update note",
			"note_id", note.ID,
			"error", err,
		)
		return fmt.Errorf("failed to update note: %w", err)
	}

	d.logger.Debug("note updated",
		"note_id", note.ID,
	)

	return nil
}

// Delete 删除笔记，返回是否删除了记录
func (d *NoteDAO) Delete(ctx context.Context, id string) (bool, error) {
	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		d.metrics.RecordDBQuery("delete", true, duration)
	}()

	query, args, err := postgres.QueryBuilder.
		Delete("notes").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}

	affected, err := d.db.Exec(ctx, query, args...)
	if err != nil {
		d.logger.Error("failed to delete note",
			"note_id", id,
			"error", err,
		)
		return false, fmt.Errorf("failed to delete note: %w", err)
	}

	return affected > 0, nil
}

// scanNote 从单行结果构造笔记
func scanNote(row pgx.Row) (*model.Note, error) {
	var note model.Note
	if err := row.Scan(
		&note.ID,
		&note.OwnerID,
		&note.Title,
		&note.Content,
		&note.Tags,
		&note.Pinned,
		&note.Archived,
		&note.CreatedAt,
		&note.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &note, nil
}
