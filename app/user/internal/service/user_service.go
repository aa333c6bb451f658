package service

import (
	"context"
	"errors"
	"time"

	"github.com/notehub/notehub/app/user/internal/model"
	"github.com/notehub/notehub/pkg/logger"
)

var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("user: user not found")

	// ErrEmailExists 邮箱已被其他用户占用
	ErrEmailExists = errors.New("user: email already in use")
)

// UserStore 用户持久层接口
type UserStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Save(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) (bool, error)
	// EmailExists 检查邮箱是否已被 excludeID 以外的用户占用
	EmailExists(ctx context.Context, email, excludeID string) (bool, error)
}

// UserInput 创建/更新用户的字段集合
type UserInput struct {
	FirstName string
	LastName  string
	Email     string
}

// UserService 用户服务
// 无归属语义，所有操作按 ID 全局可见
type UserService struct {
	store  UserStore
	logger logger.Logger
	now    func() time.Time
}

// NewUserService 创建用户服务
func NewUserService(store UserStore, l logger.Logger) *UserService {
	return &UserService{
		store:  store,
		logger: l.Named("service.user"),
		now:    time.Now,
	}
}

// Create 创建用户
// 邮箱全局唯一，冲突时返回 ErrEmailExists
func (s *UserService) Create(ctx context.Context, in UserInput) (*model.User, error) {
	taken, err := s.store.EmailExists(ctx, in.Email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailExists
	}

	now := s.now()
	user := &model.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created", "user_id", user.ID)
	return user, nil
}

// List 获取全部用户
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*model.User{}
	}
	return users, nil
}

// GetByID 按 ID 查询用户
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Update 整体替换用户档案字段
func (s *UserService) Update(ctx context.Context, id string, in UserInput) (*model.User, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	// 换绑邮箱时同样要求唯一，排除自身记录
	taken, err := s.store.EmailExists(ctx, in.Email, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailExists
	}

	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Email = in.Email
	user.UpdatedAt = s.now()

	if err := s.store.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user updated", "user_id", id)
	return user, nil
}

// Delete 删除用户，不存在时返回 false
func (s *UserService) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, err
	}

	if deleted {
		s.logger.Info("user deleted", "user_id", id)
	}
	return deleted, nil
}
