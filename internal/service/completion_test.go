package service

import (
	"reflect"
	"testing"

	"blazequiz_backend/internal/model"
)

func TestSectionComplete(t *testing.T) {
	answered := AnsweredSet([]string{"q1", "q2"})

	if !SectionComplete([]string{"q1", "q2"}, answered) {
		t.Error("all questions answered should be complete")
	}
	if SectionComplete([]string{"q1", "q2", "q3"}, answered) {
		t.Error("unanswered question should block completion")
	}
	// 空小节按空真处理
	if !SectionComplete(nil, answered) {
		t.Error("empty section is vacuously complete")
	}
	if !SectionComplete(nil, AnsweredSet(nil)) {
		t.Error("empty section with no answers is still complete")
	}
}

func TestComputeCompletedSections(t *testing.T) {
	bySection := map[int][]string{
		1: {"a", "b"},
		2: {"c"},
		3: {"d", "e"},
	}

	got := ComputeCompletedSections(bySection, []string{"a", "b", "c", "d"})
	if !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("got %v, want [1 2]", got)
	}

	// 无答题也不是 nil，而是空切片
	got = ComputeCompletedSections(map[int][]string{1: {"a"}}, nil)
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty slice", got)
	}
}

// 题目集合变化后从 answeredQuestions 全量重算，完成状态可以回退
func TestComputeCompletedSectionsRecomputesAfterContentChange(t *testing.T) {
	answered := []string{"a", "b"}

	before := ComputeCompletedSections(map[int][]string{1: {"a", "b"}}, answered)
	if !reflect.DeepEqual(before, []int{1}) {
		t.Fatalf("got %v, want [1]", before)
	}

	// 作者往小节里加了新题
	after := ComputeCompletedSections(map[int][]string{1: {"a", "b", "c"}}, answered)
	if len(after) != 0 {
		t.Errorf("section with a new unanswered question must drop out, got %v", after)
	}
}

func TestSectionFraction(t *testing.T) {
	if got := SectionFraction(1, 2); got != 0.5 {
		t.Errorf("got %v, want 0.5", got)
	}
	if got := SectionFraction(0, 0); got != 1 {
		t.Errorf("empty section fraction = %v, want 1", got)
	}
}

func TestLockedChain(t *testing.T) {
	completions := []bool{true, false, true}

	if Locked(0, completions) {
		t.Error("first section is never locked")
	}
	if Locked(1, completions) {
		t.Error("section after a completed one must be unlocked")
	}
	if !Locked(2, completions) {
		t.Error("section after an incomplete one must be locked")
	}
	if !Locked(3, completions) {
		t.Error("lock depends only on the immediately preceding section")
	}
}

func TestSectionLockedAllPrevCorrect(t *testing.T) {
	sec := &model.Section{UnlockRule: model.UnlockAllPrevCorrect}
	prev := &model.Section{}

	if SectionLocked(sec, nil, false, 0, 0) {
		t.Error("first section is never locked")
	}
	if SectionLocked(sec, prev, true, 2, 2) {
		t.Error("unlocked when previous section is complete")
	}
	if !SectionLocked(sec, prev, false, 1, 2) {
		t.Error("locked when previous section is incomplete")
	}
}

func TestSectionLockedPercent(t *testing.T) {
	prev := &model.Section{}

	sec := &model.Section{UnlockRule: model.UnlockPercent, UnlockThreshold: 50}
	if SectionLocked(sec, prev, false, 1, 2) {
		t.Error("50% answered meets a 50% threshold")
	}
	if !SectionLocked(sec, prev, false, 0, 2) {
		t.Error("0% answered fails a 50% threshold")
	}

	// 阈值缺省按 100 处理
	sec = &model.Section{UnlockRule: model.UnlockPercent}
	if !SectionLocked(sec, prev, false, 1, 2) {
		t.Error("default threshold is 100%")
	}
	if SectionLocked(sec, prev, true, 2, 2) {
		t.Error("100% answered meets the default threshold")
	}

	// 前一小节为空：比例为 1，任何阈值都满足
	if SectionLocked(sec, prev, true, 0, 0) {
		t.Error("empty previous section never blocks a percent rule")
	}
}

func TestSectionLockedManual(t *testing.T) {
	prev := &model.Section{}

	sec := &model.Section{UnlockRule: model.UnlockManual, ManualUnlocked: false}
	if !SectionLocked(sec, prev, true, 2, 2) {
		t.Error("manual section stays locked regardless of progress until toggled")
	}

	sec.ManualUnlocked = true
	if SectionLocked(sec, prev, false, 0, 2) {
		t.Error("toggled manual section is unlocked regardless of progress")
	}
}

func TestCampaignComplete(t *testing.T) {
	if !CampaignComplete([]bool{true, true}) {
		t.Error("all sections complete means campaign complete")
	}
	if CampaignComplete([]bool{true, false}) {
		t.Error("one incomplete section blocks the campaign")
	}
	if !CampaignComplete(nil) {
		t.Error("campaign with no sections is vacuously complete")
	}
}
