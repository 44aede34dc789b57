package model

type Admin struct {
	Username     string
	PasswordHash string
}
