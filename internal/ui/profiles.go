package ui

import "agentchat/pkg/domain"

// builtinProfiles seed the profile popup. Unknown agent names fall back to
// genericProfile.
var builtinProfiles = []domain.AgentProfile{
	{
		Name:         "Claude",
		Role:         "AI 助手",
		Glyph:        "C",
		Description:  "由 Anthropic 开发的 AI 助手，擅长推理、长文写作和代码分析。",
		Capabilities: []string{"推理分析", "长文写作", "代码理解"},
	},
	{
		Name:         "GPT-4",
		Role:         "AI 助手",
		Glyph:        "G",
		Description:  "由 OpenAI 开发的大型语言模型，知识面广，支持多轮对话。",
		Capabilities: []string{"多轮对话", "知识问答", "文本生成"},
	},
	{
		Name:         "Copilot",
		Role:         "编程助手",
		Glyph:        "Co",
		Description:  "由 GitHub 开发的编程助手，擅长代码补全和重构建议。",
		Capabilities: []string{"代码补全", "重构建议", "单元测试"},
	},
}

func genericProfile(name string) domain.AgentProfile {
	glyph := "?"
	for _, r := range name {
		glyph = string(r)
		break
	}
	return domain.AgentProfile{
		Name:         name,
		Role:         "AI 智能体",
		Glyph:        glyph,
		Description:  "暂无该智能体的详细介绍。",
		Capabilities: []string{"群聊协作"},
	}
}
