package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FlexString 接受字符串、数字或字符串数组的 JSON 字段。
// 模型经常把 "genre" 写成数组，把 "year" 写成数字。
type FlexString string

// UnmarshalJSON 实现 json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if item = strings.TrimSpace(item); item != "" {
				parts = append(parts, item)
			}
		}
		*f = FlexString(strings.Join(parts, ", "))
		return nil
	}

	return fmt.Errorf("flex string: unsupported value %s", data)
}

// String 返回字符串值
func (f FlexString) String() string {
	return string(f)
}

// Or 为空时返回 def
func (f FlexString) Or(def string) string {
	if f == "" {
		return def
	}
	return string(f)
}
