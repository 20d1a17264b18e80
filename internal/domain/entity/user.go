package entity

// User 当前会话用户
type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Tokens int    `json:"tokens"`
}

// Session 登录会话
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Settings 用户偏好，按 JSON 对象原样保存
type Settings map[string]any

// DefaultSettings 默认偏好
func DefaultSettings() Settings {
	return Settings{
		"defaultDuration": "60",
		"defaultStyle":    "Cinematic",
		"notifications":   true,
	}
}

// 界面主题
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)
