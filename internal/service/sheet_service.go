package service

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lshigami/Quokka/internal/apperror"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MaxImportBytes caps uploaded spreadsheets at 10 MB.
const MaxImportBytes = 10 << 20

// SheetService handles spreadsheet import/export: bulk student enrollment,
// bulk question creation, and result export.
type SheetService interface {
	ImportStudents(classID uint, file io.Reader) (*dto.ImportSummaryDTO, error)
	ImportQuestions(creatorID, classID uint, file io.Reader) (*dto.ImportSummaryDTO, error)
	ExportResults(quizID uint) ([]byte, string, error)
}

type sheetService struct {
	userRepo     repository.UserRepository
	classRepo    repository.ClassRepository
	questionRepo repository.QuestionRepository
	quizRepo     repository.QuizRepository
	resultRepo   repository.ResultRepository
}

func NewSheetService(
	userRepo repository.UserRepository,
	classRepo repository.ClassRepository,
	questionRepo repository.QuestionRepository,
	quizRepo repository.QuizRepository,
	resultRepo repository.ResultRepository,
) SheetService {
	return &sheetService{
		userRepo:     userRepo,
		classRepo:    classRepo,
		questionRepo: questionRepo,
		quizRepo:     quizRepo,
		resultRepo:   resultRepo,
	}
}

// ImportStudents reads rows of (student_id, email, name) and enrolls each
// student into the class, creating accounts that don't exist yet. New accounts
// get the student id as their initial password. Row errors are collected, not
// fatal.
func (s *sheetService) ImportStudents(classID uint, file io.Reader) (*dto.ImportSummaryDTO, error) {
	if _, err := s.classRepo.FindByID(classID); err != nil {
		return nil, classNotFound(err)
	}
	rows, err := sheetRows(file)
	if err != nil {
		return nil, err
	}

	summary := dto.ImportSummaryDTO{Success: []string{}, Errors: []dto.ImportRowError{}}
	for i, row := range rows {
		rowNum := i + 2 // 1-based, after the header
		if len(row) < 3 {
			summary.Errors = append(summary.Errors, dto.ImportRowError{Row: rowNum, Message: "expected columns: student_id, email, name"})
			continue
		}
		studentID := strings.TrimSpace(row[0])
		email := strings.TrimSpace(row[1])
		name := strings.TrimSpace(row[2])
		if studentID == "" || email == "" {
			summary.Errors = append(summary.Errors, dto.ImportRowError{Row: rowNum, Message: "student_id and email are required"})
			continue
		}

		user, err := s.userRepo.FindByStudentID(studentID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user, err = s.createStudent(studentID, email, name)
		}
		if err != nil {
			summary.Errors = append(summary.Errors, dto.ImportRowError{Row: rowNum, Message: err.Error()})
			continue
		}

		if err := s.classRepo.AddStudent(classID, user.ID); err != nil {
			summary.Errors = append(summary.Errors, dto.ImportRowError{Row: rowNum, Message: fmt.Sprintf("enrolling %s: %v", studentID, err)})
			continue
		}
		summary.Success = append(summary.Success, studentID)
	}

	log.Info().Uint("classID", classID).Int("imported", len(summary.Success)).
		Int("failed", len(summary.Errors)).Msg("Student import finished")
	return &summary, nil
}

func (s *sheetService) createStudent(studentID, email, name string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(studentID), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing initial password: %w", err)
	}
	user := &model.User{
		StudentID:    studentID,
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("creating account for %s: %w", studentID, err)
	}
	return user, nil
}

// ImportQuestions reads rows of
// (text, option_a, option_b, option_c, option_d, correct_letter, points, difficulty, category).
// Options c and d may be blank for two-option questions.
func (s *sheetService) ImportQuestions(creatorID, classID uint, file io.Reader) (*dto.ImportSummaryDTO, error) {
	if _, err := s.classRepo.FindByID(classID); err != nil {
		return nil, classNotFound(err)
	}
	rows, err := sheetRows(file)
	if err != nil {
		return nil, err
	}

	summary := dto.ImportSummaryDTO{Success: []string{}, Errors: []dto.ImportRowError{}}
	for i, row := range rows {
		rowNum := i + 2
		question, err := parseQuestionRow(row, creatorID, classID)
		if err != nil {
			summary.Errors = append(summary.Errors, dto.ImportRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		if err := s.questionRepo.Create(question); err != nil {
			summary.Errors = append(summary.Errors, dto.ImportRowError{Row: rowNum, Message: fmt.Sprintf("saving question: %v", err)})
			continue
		}
		summary.Success = append(summary.Success, question.Text)
	}

	log.Info().Uint("classID", classID).Int("imported", len(summary.Success)).
		Int("failed", len(summary.Errors)).Msg("Question import finished")
	return &summary, nil
}

func parseQuestionRow(row []string, creatorID, classID uint) (*model.Question, error) {
	if len(row) < 7 {
		return nil, errors.New("expected columns: text, option_a..option_d, correct, points")
	}
	text := strings.TrimSpace(row[0])
	if text == "" {
		return nil, errors.New("question text is required")
	}

	var options []model.Option
	for _, cell := range row[1:5] {
		if opt := strings.TrimSpace(cell); opt != "" {
			options = append(options, model.Option{Text: opt})
		}
	}
	if len(options) < 2 {
		return nil, errors.New("a question needs at least two options")
	}

	correct := strings.ToUpper(strings.TrimSpace(row[5]))
	if len(correct) != 1 || correct[0] < 'A' || int(correct[0]-'A') >= len(options) {
		return nil, fmt.Errorf("correct option %q is out of range", correct)
	}
	options[correct[0]-'A'].IsCorrect = true

	points, err := strconv.ParseFloat(strings.TrimSpace(row[6]), 64)
	if err != nil || points <= 0 {
		return nil, fmt.Errorf("invalid points value %q", row[6])
	}

	difficulty := model.DifficultyMedium
	if len(row) > 7 {
		switch d := model.Difficulty(strings.ToLower(strings.TrimSpace(row[7]))); d {
		case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
			difficulty = d
		case "":
		default:
			return nil, fmt.Errorf("unknown difficulty %q", row[7])
		}
	}
	category := ""
	if len(row) > 8 {
		category = strings.TrimSpace(row[8])
	}

	return &model.Question{
		ClassID:    classID,
		Text:       text,
		Options:    options,
		Points:     points,
		Difficulty: difficulty,
		Category:   category,
		CreatedBy:  creatorID,
	}, nil
}

// ExportResults renders the quiz leaderboard as an xlsx workbook and returns
// the bytes plus a suggested filename.
func (s *sheetService) ExportResults(quizID uint) ([]byte, string, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		return nil, "", quizNotFound(err)
	}
	results, err := s.resultRepo.FindByQuiz(quizID)
	if err != nil {
		return nil, "", fmt.Errorf("loading results: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := []string{"Student ID", "Name", "Marks Obtained", "Total Marks", "Percentage", "Status", "Violations", "Time Spent (s)"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i := range results {
		r := &results[i]
		values := []interface{}{
			r.User.StudentID,
			r.User.Name,
			r.MarksObtained,
			r.TotalMarks,
			fmt.Sprintf("%.1f%%", r.Percentage()),
			string(r.Status),
			r.TotalViolations,
			r.TimeSpentSec,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("writing workbook: %w", err)
	}
	name := fmt.Sprintf("quiz_%d_results.xlsx", quiz.ID)
	return buf.Bytes(), name, nil
}

func sheetRows(file io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(io.LimitReader(file, MaxImportBytes))
	if err != nil {
		return nil, apperror.Validation("File is not a readable xlsx workbook").WithCause(err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, apperror.Validation("Spreadsheet has no data rows")
	}
	return rows[1:], nil // skip the header
}
