package model

type Room struct {
	ID           int64  `json:"-"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	CreatedAt    int64  `json:"created_at"`
}
