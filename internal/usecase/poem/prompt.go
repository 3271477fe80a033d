package poem

import (
	"strings"

	"moodpoet/internal/domain"
)

// promptTemplate is the fixed instruction sent to every provider.
const promptTemplate = "请你扮演中国古代诗人{poet}，针对一个人现在的心情是「{mood}」，写一段富有诗意的文字，字数100字左右，要有古典韵味和哲理性。不要解释，直接输出诗意文字。"

// BuildPrompt fills the instruction template with the persona and mood.
func BuildPrompt(poet domain.Poet, mood string) string {
	return strings.NewReplacer("{poet}", string(poet), "{mood}", mood).Replace(promptTemplate)
}
