package service

import (
	"testing"
	"time"

	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newClassService(db *gorm.DB) ClassService {
	return NewClassService(repository.NewClassRepository(db), repository.NewUserRepository(db))
}

func TestCreateClassValidatesWindow(t *testing.T) {
	db := newTestDB(t)
	admin := seedAdmin(t, db)
	svc := newClassService(db)
	now := time.Now()

	_, err := svc.CreateClass(admin.ID, dto.ClassCreateDTO{
		Name:      "Backwards",
		StartTime: now,
		EndTime:   now.Add(-time.Hour),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after start")

	created, err := svc.CreateClass(admin.ID, dto.ClassCreateDTO{
		Name:      "Operating Systems",
		StartTime: now,
		EndTime:   now.Add(30 * 24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "Operating Systems", created.Name)
	assert.Equal(t, admin.ID, created.CreatedBy)
}

func TestDeleteClassBlockedByLiveQuiz(t *testing.T) {
	db := newTestDB(t)
	admin := seedAdmin(t, db)
	class := seedClass(t, db, admin.ID)
	now := time.Now()
	quiz := seedQuiz(t, db, class.ID, admin.ID, model.QuizPublished, now, now.Add(time.Hour))

	svc := newClassService(db)
	err := svc.DeleteClass(class.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "published or in-progress")

	// Once the quiz is done, the class can go.
	require.NoError(t, db.Model(&model.Quiz{}).Where("id = ?", quiz.ID).
		Update("status", model.QuizCompleted).Error)
	require.NoError(t, svc.DeleteClass(class.ID))

	_, err = svc.GetClass(class.ID)
	assert.Error(t, err)
}

func TestEnrollStudentsReportsPerRowErrors(t *testing.T) {
	db := newTestDB(t)
	admin := seedAdmin(t, db)
	class := seedClass(t, db, admin.ID)
	seedStudent(t, db, "2112001")
	seedStudent(t, db, "2112002")

	svc := newClassService(db)
	summary, err := svc.EnrollStudents(class.ID, []string{"2112001", "ghost", "2112002"})
	require.NoError(t, err)

	assert.Equal(t, []string{"2112001", "2112002"}, summary.Success)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, 2, summary.Errors[0].Row)
	assert.Contains(t, summary.Errors[0].Message, "not found")
}

func TestListClassesForStudentOnlyEnrolled(t *testing.T) {
	db := newTestDB(t)
	admin := seedAdmin(t, db)
	enrolledIn := seedClass(t, db, admin.ID)
	seedClass(t, db, admin.ID) // other class, not enrolled
	student := seedStudent(t, db, "2112001")

	classRepo := repository.NewClassRepository(db)
	require.NoError(t, classRepo.AddStudent(enrolledIn.ID, student.ID))

	svc := newClassService(db)
	classes, err := svc.ListClassesForStudent(student.ID)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, enrolledIn.ID, classes[0].ID)

	all, err := svc.ListClasses()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUnenrollStudent(t *testing.T) {
	db := newTestDB(t)
	admin := seedAdmin(t, db)
	class := seedClass(t, db, admin.ID)
	student := seedStudent(t, db, "2112001")

	classRepo := repository.NewClassRepository(db)
	require.NoError(t, classRepo.AddStudent(class.ID, student.ID))

	svc := newClassService(db)
	require.NoError(t, svc.UnenrollStudent(class.ID, "2112001"))

	classes, err := svc.ListClassesForStudent(student.ID)
	require.NoError(t, err)
	assert.Empty(t, classes)

	err = svc.UnenrollStudent(class.ID, "ghost")
	assert.Error(t, err)
}
