package service

import (
	"sort"

	"blazequiz_backend/internal/model"
)

// 进度聚合与解锁策略。完成状态永远从 answeredQuestions + 当前题目集
// 全量重算，completedSections 只是每次答题后刷新的缓存。

// SectionComplete 小节完成判定：所有启用题目均已答对；空小节视为完成
func SectionComplete(questionIDs []string, answered map[string]bool) bool {
	for _, id := range questionIDs {
		if !answered[id] {
			return false
		}
	}
	return true
}

// AnsweredSet 便于 O(1) 查询
func AnsweredSet(answeredIDs []string) map[string]bool {
	set := make(map[string]bool, len(answeredIDs))
	for _, id := range answeredIDs {
		set[id] = true
	}
	return set
}

// ComputeCompletedSections 对每个小节重算完成谓词，返回已完成的小节编号（升序）
func ComputeCompletedSections(questionsBySection map[int][]string, answeredIDs []string) []int {
	answered := AnsweredSet(answeredIDs)
	completed := make([]int, 0, len(questionsBySection))
	for number, ids := range questionsBySection {
		if SectionComplete(ids, answered) {
			completed = append(completed, number)
		}
	}
	sort.Ints(completed)
	return completed
}

// SectionFraction 答对比例，PERCENT 规则用
func SectionFraction(answeredCount, total int) float64 {
	if total == 0 {
		return 1
	}
	return float64(answeredCount) / float64(total)
}

// Locked ALL_PREV_CORRECT 链式解锁：首位永不锁定，其余看前一位是否完成
func Locked(index int, completions []bool) bool {
	if index <= 0 {
		return false
	}
	return !completions[index-1]
}

// SectionLocked 按小节自身的解锁规则判定。
// prev 为前一小节（首小节传 nil），prevAnswered/prevTotal 为前一小节的已答/总题数。
func SectionLocked(section *model.Section, prev *model.Section, prevComplete bool, prevAnswered, prevTotal int) bool {
	if prev == nil {
		return false
	}
	switch section.UnlockRule {
	case model.UnlockPercent:
		threshold := section.UnlockThreshold
		if threshold <= 0 {
			threshold = 100
		}
		return SectionFraction(prevAnswered, prevTotal)*100 < float64(threshold)
	case model.UnlockManual:
		// 不做自动计算，完全由作者开关驱动
		return !section.ManualUnlocked
	default: // ALL_PREV_CORRECT
		return !prevComplete
	}
}

// CampaignComplete 战役完成 = 其所有启用小节完成（同一谓词上移一层）
func CampaignComplete(sectionCompletions []bool) bool {
	for _, done := range sectionCompletions {
		if !done {
			return false
		}
	}
	return true
}
