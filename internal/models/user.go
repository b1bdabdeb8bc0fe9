// Package models содержит доменные структуры: пользователей, администраторов,
// события клуба и загруженные изображения.
package models

import "time"

// User представляет зарегистрированного пользователя сайта.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
}

// Admin представляет учётную запись администратора.
//
// IsActive=false запрещает вход, но запись не удаляется.
type Admin struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at,omitzero"`
}

// SessionAdmin данные администратора, восстановленные из токена.
type SessionAdmin struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// SessionUser данные пользователя, восстановленные из токена.
type SessionUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}
