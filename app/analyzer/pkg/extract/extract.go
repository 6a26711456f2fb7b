// Package extract 从模型输出中容错地解析 JSON。
package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

const fence = "```"

// ParseError 提取失败，Raw 保留原始输出便于排查
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("extract json: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// JSON 去掉代码块围栏与语言标记后解码到 v。
// 直接解码失败时，再尝试截取正文中最外层的 {...} 或 [...]。
func JSON(raw string, v any) error {
	cleaned := Clean(raw)
	if cleaned == "" {
		return &ParseError{Raw: raw, Err: fmt.Errorf("empty output")}
	}

	err := json.Unmarshal([]byte(cleaned), v)
	if err == nil {
		return nil
	}
	if span, ok := outermostSpan(cleaned); ok && span != cleaned {
		if json.Unmarshal([]byte(span), v) == nil {
			return nil
		}
	}
	return &ParseError{Raw: raw, Err: err}
}

// Or 解析失败时原样返回 fallback，从不报错
func Or[T any](raw string, fallback T) T {
	var v T
	if err := JSON(raw, &v); err != nil {
		return fallback
	}
	return v
}

// Clean 去掉首尾空白、首个围栏与最后一个围栏，以及紧跟围栏的语言标记
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, fence) {
		return s
	}

	s = strings.TrimPrefix(s, fence)
	if i := strings.LastIndex(s, fence); i >= 0 {
		s = s[:i]
	}

	// 语言标记：围栏后同一行的单个 token，例如 json / JSON / javascript
	line, rest, found := strings.Cut(s, "\n")
	tag := strings.TrimSpace(line)
	if isLanguageTag(tag) {
		if found {
			s = rest
		} else {
			s = ""
		}
	} else if strings.HasPrefix(strings.ToLower(s), "json") && !found {
		s = s[len("json"):]
	}
	return strings.TrimSpace(s)
}

func isLanguageTag(tag string) bool {
	if tag == "" {
		return false
	}
	for _, r := range tag {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '+':
		default:
			return false
		}
	}
	// 纯数字或字面量本身就是合法 JSON，不当作语言标记
	switch tag {
	case "true", "false", "null":
		return false
	}
	return tag[0] < '0' || tag[0] > '9'
}

// outermostSpan 返回第一个 { 或 [ 到与之对应的最后一个 } 或 ] 之间的内容
func outermostSpan(s string) (string, bool) {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", false
	}
	closer := "}"
	if s[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(s, closer)
	if end <= start {
		return "", false
	}
	return s[start : end+1], true
}
