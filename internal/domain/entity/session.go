package entity

import "time"

// Session única sesión activa de un usuario. Un nuevo login la reemplaza.
type Session struct {
	UserID   string
	Token    string
	IssuedAt time.Time
}
