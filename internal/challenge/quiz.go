package challenge

import "strings"

// CheckQuizAnswer reports whether answer matches q's correct option,
// ignoring case and surrounding whitespace.
func CheckQuizAnswer(q QuizQuestion, answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(q.CorrectAnswer))
}

// QuizScore returns the number of correct answers. Missing answers count as
// wrong.
func QuizScore(quiz []QuizQuestion, answers []string) int {
	score := 0
	for i, q := range quiz {
		if i < len(answers) && CheckQuizAnswer(q, answers[i]) {
			score++
		}
	}
	return score
}
