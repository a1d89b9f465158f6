package service

import (
	"errors"
	"testing"

	"blazequiz_backend/internal/model"
	"blazequiz_backend/internal/util"
)

func TestNormalizeAnswer(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Paris", "paris"},
		{"  Paris  ", "paris"},
		{"PARIS", "paris"},
		{"New York", "new york"},
		{"\tTokyo\n", "tokyo"},
		{"", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		if got := NormalizeAnswer(c.in); got != c.want {
			t.Errorf("NormalizeAnswer(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMatchAnswer(t *testing.T) {
	if !MatchAnswer("  PARIS ", "Paris") {
		t.Error("expected case- and whitespace-insensitive match")
	}
	if MatchAnswer("pari", "Paris") {
		t.Error("partial input must not match")
	}
	if MatchAnswer("new  york", "New York") {
		t.Error("inner whitespace is significant and must not match")
	}
	// 同一输入反复判定结果必须一致
	for i := 0; i < 10; i++ {
		if !MatchAnswer("Tokyo", "tokyo") {
			t.Fatal("match result changed across repeated calls")
		}
	}
}

func TestCorrectAnswerSingle(t *testing.T) {
	q := &model.Question{Answers: []model.Answer{
		{Content: " Paris ", IsCorrect: true, IsActive: true},
		{Content: "London", IsCorrect: false, IsActive: true},
	}}
	got, err := CorrectAnswer(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Paris" {
		t.Errorf("got %q, want trimmed %q", got, "Paris")
	}
}

func TestCorrectAnswerNone(t *testing.T) {
	q := &model.Question{Answers: []model.Answer{
		{Content: "London", IsCorrect: false, IsActive: true},
		{Content: "Paris", IsCorrect: true, IsActive: false}, // 停用的不算
	}}
	if _, err := CorrectAnswer(q); !errors.Is(err, util.ErrNoCorrectAnswer) {
		t.Fatalf("got %v, want ErrNoCorrectAnswer", err)
	}
}

func TestCorrectAnswerMultipleUsesFirstByOrder(t *testing.T) {
	q := &model.Question{Answers: []model.Answer{
		{Content: "Second", IsCorrect: true, IsActive: true, Order: 2},
		{Content: "First", IsCorrect: true, IsActive: true, Order: 1},
	}}
	got, err := CorrectAnswer(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "First" {
		t.Errorf("got %q, want the lowest-order answer", got)
	}
}

func TestAnswerMask(t *testing.T) {
	m := AnswerMask("New York City")
	want := []int{3, 4, 4}
	if len(m.WordLengths) != len(want) {
		t.Fatalf("got %v, want %v", m.WordLengths, want)
	}
	for i := range want {
		if m.WordLengths[i] != want[i] {
			t.Fatalf("got %v, want %v", m.WordLengths, want)
		}
	}
	if m.Placeholder != "-" {
		t.Errorf("placeholder = %q, want \"-\"", m.Placeholder)
	}
}

func TestMaskReconstruct(t *testing.T) {
	m := AnswerMask("New York")
	if got := m.Reconstruct("newyork"); got != "new york" {
		t.Errorf("Reconstruct full = %q, want %q", got, "new york")
	}
	if got := m.Reconstruct("new"); got != "new" {
		t.Errorf("Reconstruct partial = %q, want %q", got, "new")
	}
	if got := m.Reconstruct(""); got != "" {
		t.Errorf("Reconstruct empty = %q, want empty", got)
	}
	// 重建后的候选串按常规规则判题
	if !MatchAnswer(m.Reconstruct("NewYork"), "new york") {
		t.Error("reconstructed candidate should match via normalization")
	}
}

func TestMaskDisplay(t *testing.T) {
	m := AnswerMask("New York")
	if got := m.Display("ne"); got != "ne- ----" {
		t.Errorf("Display = %q, want %q", got, "ne- ----")
	}
	if got := m.Display(""); got != "--- ----" {
		t.Errorf("Display empty = %q, want %q", got, "--- ----")
	}
	if got := m.Display("newyork"); got != "new york" {
		t.Errorf("Display full = %q, want %q", got, "new york")
	}
}

func TestMaskUnicode(t *testing.T) {
	m := AnswerMask("東京")
	if len(m.WordLengths) != 1 || m.WordLengths[0] != 2 {
		t.Fatalf("rune length expected, got %v", m.WordLengths)
	}
	if got := m.Display("東"); got != "東-" {
		t.Errorf("Display = %q, want %q", got, "東-")
	}
}
