package model

const SettingWelcomeMessage = "welcome_message"

type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
