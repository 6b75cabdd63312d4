// Package session 客户端会话：当前用户名与配色主题。
// 启动时加载一次，只在显式修改时写回。
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme 解析 light / dark
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", fmt.Errorf("unknown theme %q (want light or dark)", s)
}

// Toggled 返回另一种主题
func (t Theme) Toggled() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Session 持久化的客户端状态
type Session struct {
	Username string `json:"username,omitempty"`
	Theme    Theme  `json:"theme"`

	path string
}

// DefaultPath $XDG_CONFIG_HOME/tweetfeed/session.json
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tweetfeed", "session.json"), nil
}

// Load 读取会话文件；文件不存在视为未登录、浅色主题
func Load(path string) (*Session, error) {
	s := &Session{Theme: ThemeLight, path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", path, err)
	}
	if _, err := ParseTheme(string(s.Theme)); err != nil {
		s.Theme = ThemeLight
	}
	return s, nil
}

func (s *Session) LoggedIn() bool { return s.Username != "" }

// Login 设置用户名并保存
func (s *Session) Login(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("display name must not be empty")
	}
	s.Username = name
	return s.Save()
}

// Logout 清空用户名，保留主题
func (s *Session) Logout() error {
	s.Username = ""
	return s.Save()
}

func (s *Session) SetTheme(t Theme) error {
	s.Theme = t
	return s.Save()
}

// Save 先写临时文件再 rename
func (s *Session) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace session %s: %w", s.path, err)
	}
	return nil
}
