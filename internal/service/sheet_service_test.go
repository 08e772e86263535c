package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func newSheetService(db *gorm.DB) SheetService {
	return NewSheetService(
		repository.NewUserRepository(db),
		repository.NewClassRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewQuizRepository(db),
		repository.NewResultRepository(db),
	)
}

// workbook builds an in-memory xlsx with a header row followed by the given
// data rows.
func workbook(t *testing.T, header []string, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, h))
	}
	for i, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportStudentsCreatesAndEnrolls(t *testing.T) {
	db := newTestDB(t)
	admin := seedAdmin(t, db)
	class := seedClass(t, db, admin.ID)
	existing := seedStudent(t, db, "2112001")

	buf := workbook(t,
		[]string{"student_id", "email", "name"},
		[][]interface{}{
			{"2112001", existing.Email, existing.Name},
			{"2112002", "new@example.edu", "New Student"},
			{"", "missing-id@example.edu", "No ID"},
		})

	svc := newSheetService(db)
	summary, err := svc.ImportStudents(class.ID, buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"2112001", "2112002"}, summary.Success)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, 4, summary.Errors[0].Row, "row numbers are 1-based and count the header")

	// The unknown student got an account.
	var created model.User
	require.NoError(t, db.Where("student_id = ?", "2112002").First(&created).Error)
	assert.Equal(t, "new@example.edu", created.Email)
	assert.NotEmpty(t, created.PasswordHash)
	assert.False(t, created.IsAdmin)

	// Both ended up enrolled.
	classes, err := repository.NewClassRepository(db).FindAllForStudent(created.ID)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, class.ID, classes[0].ID)
}

func TestImportStudentsRejectsEmptySheet(t *testing.T) {
	db := newTestDB(t)
	admin := seedAdmin(t, db)
	class := seedClass(t, db, admin.ID)

	buf := workbook(t, []string{"student_id", "email", "name"}, nil)

	_, err := newSheetService(db).ImportStudents(class.ID, buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data rows")
}

func TestImportStudentsRejectsNonWorkbook(t *testing.T) {
	db := newTestDB(t)
	admin := seedAdmin(t, db)
	class := seedClass(t, db, admin.ID)

	_, err := newSheetService(db).ImportStudents(class.ID, bytes.NewBufferString("definitely,not,xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a readable xlsx")
}

func TestImportQuestions(t *testing.T) {
	db := newTestDB(t)
	admin := seedAdmin(t, db)
	class := seedClass(t, db, admin.ID)

	buf := workbook(t,
		[]string{"text", "option_a", "option_b", "option_c", "option_d", "correct", "points", "difficulty", "category"},
		[][]interface{}{
			{"What does TLB stand for?", "Translation Lookaside Buffer", "Table Lookup Block", "", "", "A", 2, "easy", "memory"},
			{"Deadlock needs how many Coffman conditions?", "Two", "Three", "Four", "", "C", 3, "", ""},
			{"Broken row", "only one option", "", "", "", "A", 1, "", ""},
		})

	svc := newSheetService(db)
	summary, err := svc.ImportQuestions(admin.ID, class.ID, buf)
	require.NoError(t, err)

	assert.Len(t, summary.Success, 2)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, 4, summary.Errors[0].Row)
	assert.Contains(t, summary.Errors[0].Message, "at least two options")

	questions, err := repository.NewQuestionRepository(db).FindByClassID(class.ID)
	require.NoError(t, err)
	require.Len(t, questions, 2)
}

func TestParseQuestionRow(t *testing.T) {
	tests := []struct {
		name    string
		row     []string
		wantErr string
	}{
		{
			name: "valid four options",
			row:  []string{"Q?", "a", "b", "c", "d", "B", "2.5", "hard", "cpu"},
		},
		{
			name: "valid two options default difficulty",
			row:  []string{"Q?", "yes", "no", "", "", "A", "1"},
		},
		{
			name:    "too few columns",
			row:     []string{"Q?", "a", "b"},
			wantErr: "expected columns",
		},
		{
			name:    "empty text",
			row:     []string{"  ", "a", "b", "", "", "A", "1"},
			wantErr: "text is required",
		},
		{
			name:    "correct letter out of range",
			row:     []string{"Q?", "a", "b", "", "", "C", "1"},
			wantErr: "out of range",
		},
		{
			name:    "empty correct cell",
			row:     []string{"Q?", "a", "b", "", "", "", "1"},
			wantErr: "out of range",
		},
		{
			name:    "zero points",
			row:     []string{"Q?", "a", "b", "", "", "A", "0"},
			wantErr: "invalid points",
		},
		{
			name:    "unknown difficulty",
			row:     []string{"Q?", "a", "b", "", "", "A", "1", "brutal"},
			wantErr: "unknown difficulty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := parseQuestionRow(tt.row, 1, 1)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, q.Options)
			correct := 0
			for _, o := range q.Options {
				if o.IsCorrect {
					correct++
				}
			}
			assert.Equal(t, 1, correct)
		})
	}
}

func TestExportResultsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	admin := seedAdmin(t, db)
	class := seedClass(t, db, admin.ID)
	student := seedStudent(t, db, "2112001")
	now := time.Now()
	quiz := seedQuiz(t, db, class.ID, admin.ID, model.QuizCompleted, now.Add(-2*time.Hour), now.Add(-time.Hour))

	result := model.Result{
		UserID:              student.ID,
		QuizID:              quiz.ID,
		TotalMarks:          10,
		MarksObtained:       7.5,
		TimeSpentSec:        900,
		TabSwitchViolations: 2,
	}
	require.NoError(t, db.Create(&result).Error)

	data, filename, err := newSheetService(db).ExportResults(quiz.ID)
	require.NoError(t, err)
	assert.Contains(t, filename, ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Student ID", rows[0][0])
	assert.Equal(t, "2112001", rows[1][0])
	assert.Equal(t, "75.0%", rows[1][4])
	assert.Equal(t, string(model.ResultPassed), rows[1][5])
	assert.Equal(t, "2", rows[1][6])
}
