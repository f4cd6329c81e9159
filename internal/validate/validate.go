// Package validate holds the pure form validators for the create-chat and
// chat-settings dialogs. Results are returned as data; nothing here touches
// controller state or the UI.
package validate

import (
	"regexp"
	"strings"

	"agentchat/pkg/domain"
)

var groupNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Description caps. Chinese characters and all other characters are counted
// against independent limits, not a weighted combined length.
const (
	maxDescChinese = 10
	maxDescOther   = 30
)

// GroupName requires a non-blank name made of letters, digits and
// underscores only. A name of bare underscores is acceptable.
func GroupName(name string) domain.ValidationResult {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Invalid(domain.CodeEmpty, "群聊名称不能为空")
	}
	if !groupNamePattern.MatchString(name) {
		return domain.Invalid(domain.CodeInvalidChars, "群聊名称只能包含字母、数字和下划线")
	}
	return domain.Valid()
}

// GroupDesc accepts an empty description. Otherwise characters in the CJK
// Unified Ideographs block (U+4E00..U+9FA5) may number at most 10 and all
// remaining characters at most 30.
func GroupDesc(desc string) domain.ValidationResult {
	if desc == "" {
		return domain.Valid()
	}
	chinese, other := 0, 0
	for _, r := range desc {
		if r >= 0x4E00 && r <= 0x9FA5 {
			chinese++
		} else {
			other++
		}
	}
	if chinese > maxDescChinese || other > maxDescOther {
		return domain.Invalid(domain.CodeTooLong, "群聊简介过长（中文最多10字，其他字符最多30个）")
	}
	return domain.Valid()
}

// CreateForm validates the create-chat form, name first, short-circuiting
// on the first failure.
func CreateForm(name, desc string) domain.ValidationResult {
	if r := GroupName(name); !r.IsValid {
		return r
	}
	if r := GroupDesc(desc); !r.IsValid {
		return r
	}
	return domain.Valid()
}

// SettingsForm validates the chat-settings form with the same rules.
func SettingsForm(name, desc string) domain.ValidationResult {
	return CreateForm(name, desc)
}
