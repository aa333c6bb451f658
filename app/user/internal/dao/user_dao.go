package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/notehub/notehub/app/user/internal/metrics"
	"github.com/notehub/notehub/app/user/internal/model"
	"github.com/notehub/notehub/pkg/database/postgres"
	"github.com/notehub/notehub/pkg/logger"
)

// userColumns 查询列顺序，与 scanUser 保持一致
var userColumns = []string{
	"id", "first_name", "last_name", "email", "created_at", "updated_at",
}

// UserDAO 用户数据访问对象
type UserDAO struct {
	db      *postgres.Client
	logger  logger.Logger
	metrics *metrics.UserMetrics
}

// NewUserDAO 创建用户 DAO
func NewUserDAO(db *postgres.Client, l logger.Logger, m *metrics.UserMetrics) *UserDAO {
	return &UserDAO{
		db:      db,
		logger:  l.Named("dao.user"),
		metrics: m,
	}
}

// EnsureSchema 创建用户表（幂等）
func (d *UserDAO) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS users (
    id         TEXT PRIMARY KEY,
    first_name TEXT NOT NULL DEFAULT '',
    last_name  TEXT NOT NULL DEFAULT '',
    email      TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);
`

	if _, err := d.db.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure users schema: %w", err)
	}

	d.logger.Info("users schema ensured")
	return nil
}

// GetByID 根据 ID 获取用户，不存在时返回 (nil, nil)
func (d *UserDAO) GetByID(ctx context.Context, id string) (*model.User, error) {
	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		d.metrics.RecordDBQuery("select", true, duration)
	}()

	query, args, err := postgres.QueryBuilder.
		Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	user, err := scanUser(d.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		d.logger.Error("failed to get user by id",
			"user_id", id,
			"error", err,
		)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// List 获取全部用户，按创建时间升序
func (d *UserDAO) List(ctx context.Context) ([]*model.User, error) {
	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		d.metrics.RecordDBQuery("select", true, duration)
	}()

	query, args, err := postgres.QueryBuilder.
		Select(userColumns...).
		From("users").
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := d.db.Query(ctx, query, args...)
	if err != nil {
		d.logger.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			d.logger.Error("failed to scan user", "error", err)
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		d.logger.Error("rows iteration error", "error", err)
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return users, nil
}

// EmailExists 检查邮箱是否已被其他用户占用
// excludeID 非空时排除该用户自身的记录
func (d *UserDAO) EmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		d.metrics.RecordDBQuery("select", true, duration)
	}()

	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id <> $2)`

	exists, err := d.db.Exists(ctx, query, email, excludeID)
	if err != nil {
		d.logger.Error("failed to check email",
			"email", email,
			"error", err,
		)
		return false, fmt.Errorf("failed to check email: %w", err)
	}

	return exists, nil
}

// Save 保存用户
// ID 为空时分配新 ID 并插入，否则按 ID 更新
func (d *UserDAO) Save(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
		return d.insert(ctx, user)
	}
	return d.update(ctx, user)
}

func (d *UserDAO) insert(ctx context.Context, user *model.User) error {
	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		d.metrics.RecordDBQuery("insert", true, duration)
	}()

	query, args, err := postgres.QueryBuilder.
		Insert("users").
		Columns(userColumns...).
		Values(
			user.ID, user.FirstName, user.LastName, user.Email,
			user.CreatedAt, user.UpdatedAt,
		).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := d.db.Exec(ctx, query, args...); err != nil {
		d.logger.Error("failed to insert user",
			"user_id", user.ID,
			"error", err,
		)
		return fmt.Errorf("failed to insert user: %w", err)
	}

	d.logger.Debug("user inserted", "user_id", user.ID)
	return nil
}

func (d *UserDAO) update(ctx context.Context, user *model.User) error {
	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		d.metrics.RecordDBQuery("update", true, duration)
	}()

	query, args, err := postgres.QueryBuilder.
		Update("users").
		Set("first_name", user.FirstName).
		Set("last_name", user.LastName).
		Set("email", user.Email).
		Set("updated_at", user.UpdatedAt).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := d.db.Exec(ctx, query, args...); err != nil {
		d.logger.Error("failed to update user",
			"user_id", user.ID,
			"error", err,
		)
		return fmt.Errorf("failed to update user: %w", err)
	}

	d.logger.Debug("user updated", "user_id", user.ID)
	return nil
}

// Delete 删除用户，返回是否删除了记录
func (d *UserDAO) Delete(ctx context.Context, id string) (bool, error) {
	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		d.metrics.RecordDBQuery("delete", true, duration)
	}()

	query, args, err := postgres.QueryBuilder.
		Delete("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}

	affected, err := d.db.Exec(ctx, query, args...)
	if err != nil {
		d.logger.Error("failed to delete user",
			"user_id", id,
			"error", err,
		)
		return false, fmt.Errorf("failed to delete user: %w", err)
	}

	return affected > 0, nil
}

// Ping 数据库连通性探测，供 /test-db 使用
func (d *UserDAO) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

// scanUser 从单行结果构造用户
func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	if err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
