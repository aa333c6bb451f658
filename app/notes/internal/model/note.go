package model

import "time"

// Note 笔记记录
// OwnerID 在创建时确定，之后不可变更；更新请求不允许改写归属
type Note struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"user_id" db:"owner_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Tags      []string  `json:"tags" db:"tags"`
	Pinned    bool      `json:"pinned" db:"pinned"`
	Archived  bool      `json:"archived" db:"archived"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
