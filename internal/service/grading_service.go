package service

import (
	"github.com/lshigami/Quokka/internal/model"
)

// GradedAnswer is one row of the grading outcome, frozen into the Result
// snapshot at submission time.
type GradedAnswer struct {
	QuestionID       uint
	SelectedOptionID uint
	IsCorrect        bool
	Points           float64
}

type GradeOutcome struct {
	TotalMarks    float64
	MarksObtained float64
	Passed        bool
	Answers       []GradedAnswer
}

type GradingService interface {
	Grade(questions []model.Question, answers []model.Answer, violations map[model.ViolationType]int) GradeOutcome
	Percentage(marksObtained, totalMarks float64) float64
}

type gradingService struct{}

func NewGradingService() GradingService {
	return &gradingService{}
}

// Grade scores a submission against the quiz's question set.
//
// Every question contributes its points to TotalMarks whether answered or
// not. An answer counts only when its selected option is the one flagged
// correct; answers referencing questions outside the set are ignored. When
// both a fullscreen-exit violation and a tab-switch violation were recorded,
// the obtained marks are forced to zero.
func (g *gradingService) Grade(questions []model.Question, answers []model.Answer, violations map[model.ViolationType]int) GradeOutcome {
	byQuestion := make(map[uint]*model.Answer, len(answers))
	for i := range answers {
		byQuestion[answers[i].QuestionID] = &answers[i]
	}

	outcome := GradeOutcome{Answers: make([]GradedAnswer, 0, len(questions))}
	for i := range questions {
		q := &questions[i]
		outcome.TotalMarks += q.Points

		graded := GradedAnswer{QuestionID: q.ID}
		if ans, ok := byQuestion[q.ID]; ok {
			graded.SelectedOptionID = ans.SelectedOptionID
			if correct := q.CorrectOption(); correct != nil && ans.SelectedOptionID == correct.ID {
				graded.IsCorrect = true
				graded.Points = q.Points
				outcome.MarksObtained += q.Points
			}
		}
		outcome.Answers = append(outcome.Answers, graded)
	}

	if violations[model.ViolationFullscreenExit] > 0 && violations[model.ViolationTabSwitch] > 0 {
		outcome.MarksObtained = 0
		for i := range outcome.Answers {
			outcome.Answers[i].Points = 0
		}
	}

	outcome.Passed = outcome.MarksObtained >= 0.5*outcome.TotalMarks
	return outcome
}

func (g *gradingService) Percentage(marksObtained, totalMarks float64) float64 {
	if totalMarks <= 0 {
		return 0
	}
	return marksObtained / totalMarks * 100
}
