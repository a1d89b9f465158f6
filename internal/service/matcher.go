package service

import (
	"sort"
	"strings"

	"blazequiz_backend/internal/model"
	"blazequiz_backend/internal/util"
	"blazequiz_backend/pkg/logger"

	"go.uber.org/zap"
)

const maskPlaceholder = "-"

// NormalizeAnswer 去首尾空白并小写。内部空白保持原样：
// 候选串由掩码槽位重建，词间恒为单个空格，模糊匹配不在范围内。
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// MatchAnswer 归一化后全等比较，无部分得分
func MatchAnswer(userInput, correctContent string) bool {
	return NormalizeAnswer(userInput) == NormalizeAnswer(correctContent)
}

// CorrectAnswer 取题目唯一的正确答案。
// 零个正确答案是内容数据错误而不是"永远答错"，直接拒绝判题；
// 多个正确答案按展示顺序取第一个并告警。
func CorrectAnswer(question *model.Question) (string, error) {
	var correct []model.Answer
	for _, a := range question.Answers {
		if a.IsCorrect && a.IsActive {
			correct = append(correct, a)
		}
	}
	if len(correct) == 0 {
		logger.Log.Error("question has no correct answer",
			zap.String("questionId", question.ID))
		return "", util.ErrNoCorrectAnswer
	}
	if len(correct) > 1 {
		logger.Log.Warn("question has multiple correct answers, using first by order",
			zap.String("questionId", question.ID),
			zap.Int("count", len(correct)))
		sort.SliceStable(correct, func(i, j int) bool { return correct[i].Order < correct[j].Order })
	}
	return strings.TrimSpace(correct[0].Content), nil
}

// Mask 逐词槽位长度，供客户端渲染 hangman 式填空输入
type Mask struct {
	WordLengths []int  `json:"wordLengths"`
	Placeholder string `json:"placeholder"`
}

// AnswerMask 把正确答案按空白切词并记录每词长度，不泄露答案内容
func AnswerMask(correct string) Mask {
	fields := strings.Fields(correct)
	lengths := make([]int, len(fields))
	for i, f := range fields {
		lengths[i] = len([]rune(f))
	}
	return Mask{WordLengths: lengths, Placeholder: maskPlaceholder}
}

// Reconstruct 把已输入字符按槽位还原成完整候选串，词间补单个空格。
// typed 为去掉占位符与空格后的连续字符流。
func (m Mask) Reconstruct(typed string) string {
	runes := []rune(typed)
	var b strings.Builder
	pos := 0
	for i, l := range m.WordLengths {
		end := pos + l
		if end > len(runes) {
			end = len(runes)
		}
		if pos < end {
			b.WriteString(string(runes[pos:end]))
		}
		pos += l
		if i < len(m.WordLengths)-1 {
			b.WriteString(" ")
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// Display 渲染视图：未输入的位置用占位符补齐
func (m Mask) Display(typed string) string {
	runes := []rune(typed)
	var b strings.Builder
	pos := 0
	for i, l := range m.WordLengths {
		filled := 0
		if pos < len(runes) {
			end := pos + l
			if end > len(runes) {
				end = len(runes)
			}
			b.WriteString(string(runes[pos:end]))
			filled = end - pos
		}
		for j := filled; j < l; j++ {
			b.WriteString(m.Placeholder)
		}
		pos += l
		if i < len(m.WordLengths)-1 {
			b.WriteString(" ")
		}
	}
	return b.String()
}
