package service

import (
	"testing"

	"github.com/lshigami/Quokka/internal/model"
	"github.com/stretchr/testify/assert"
)

func makeQuestion(id uint, points float64) model.Question {
	return model.Question{
		ID:     id,
		Points: points,
		Options: []model.Option{
			{ID: id*10 + 1, QuestionID: id, IsCorrect: true},
			{ID: id*10 + 2, QuestionID: id},
		},
	}
}

func TestGradeScoresSelectedOptions(t *testing.T) {
	g := NewGradingService()
	questions := []model.Question{makeQuestion(1, 5), makeQuestion(2, 5)}
	answers := []model.Answer{
		{QuestionID: 1, SelectedOptionID: 11}, // correct
		{QuestionID: 2, SelectedOptionID: 22}, // wrong
	}

	outcome := g.Grade(questions, answers, nil)

	assert.Equal(t, 10.0, outcome.TotalMarks)
	assert.Equal(t, 5.0, outcome.MarksObtained)
	assert.True(t, outcome.Passed, "50%% should pass")
	assert.Len(t, outcome.Answers, 2)
	assert.True(t, outcome.Answers[0].IsCorrect)
	assert.False(t, outcome.Answers[1].IsCorrect)
}

func TestGradeUnansweredQuestionsStillCountTowardTotal(t *testing.T) {
	g := NewGradingService()
	questions := []model.Question{makeQuestion(1, 4), makeQuestion(2, 6)}
	answers := []model.Answer{{QuestionID: 1, SelectedOptionID: 11}}

	outcome := g.Grade(questions, answers, nil)

	assert.Equal(t, 10.0, outcome.TotalMarks)
	assert.Equal(t, 4.0, outcome.MarksObtained)
	assert.False(t, outcome.Passed)
}

func TestGradeIgnoresAnswersOutsideTheQuestionSet(t *testing.T) {
	g := NewGradingService()
	questions := []model.Question{makeQuestion(1, 5)}
	answers := []model.Answer{
		{QuestionID: 1, SelectedOptionID: 11},
		{QuestionID: 99, SelectedOptionID: 991},
	}

	outcome := g.Grade(questions, answers, nil)

	assert.Equal(t, 5.0, outcome.MarksObtained)
	assert.Len(t, outcome.Answers, 1)
}

func TestGradeHardPenaltyNeedsBothViolationKinds(t *testing.T) {
	g := NewGradingService()
	questions := []model.Question{makeQuestion(1, 5), makeQuestion(2, 5)}
	answers := []model.Answer{
		{QuestionID: 1, SelectedOptionID: 11},
		{QuestionID: 2, SelectedOptionID: 21},
	}

	tests := []struct {
		name       string
		violations map[model.ViolationType]int
		wantMarks  float64
		wantPassed bool
	}{
		{
			name:       "no violations",
			violations: nil,
			wantMarks:  10,
			wantPassed: true,
		},
		{
			name:       "fullscreen only",
			violations: map[model.ViolationType]int{model.ViolationFullscreenExit: 3},
			wantMarks:  10,
			wantPassed: true,
		},
		{
			name:       "tab switch only",
			violations: map[model.ViolationType]int{model.ViolationTabSwitch: 2},
			wantMarks:  10,
			wantPassed: true,
		},
		{
			name: "both kinds zero the score",
			violations: map[model.ViolationType]int{
				model.ViolationFullscreenExit: 1,
				model.ViolationTabSwitch:      1,
			},
			wantMarks:  0,
			wantPassed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := g.Grade(questions, answers, tt.violations)
			assert.Equal(t, tt.wantMarks, outcome.MarksObtained)
			assert.Equal(t, tt.wantPassed, outcome.Passed)
			if tt.wantMarks == 0 {
				for _, a := range outcome.Answers {
					assert.Zero(t, a.Points, "per-answer points must be zeroed too")
				}
			}
		})
	}
}

func TestGradeZeroPointQuizPasses(t *testing.T) {
	g := NewGradingService()

	outcome := g.Grade(nil, nil, nil)

	assert.Zero(t, outcome.TotalMarks)
	assert.True(t, outcome.Passed, "0 >= 0.5*0")
	assert.Zero(t, g.Percentage(outcome.MarksObtained, outcome.TotalMarks))
}
