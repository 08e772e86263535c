package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
)

const (
	// CtxQuiz holds the *model.Quiz loaded by RequireQuizAccess.
	CtxQuiz = "quiz"
	// CtxClass holds the *model.Class loaded by RequireClassAccess.
	CtxClass = "class"
)

// RequireClassAccess loads the :classID class and, for non-admins, rejects
// users not enrolled in it.
func RequireClassAccess(classRepo repository.ClassRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		classID, ok := UintParam(c, "classID")
		if !ok {
			return
		}
		class, err := classRepo.FindByID(classID)
		if err != nil {
			abort(c, http.StatusNotFound, "Class not found")
			return
		}

		user := CurrentUser(c)
		if !user.IsAdmin {
			enrolled, err := classRepo.IsEnrolled(class.ID, user.ID)
			if err != nil {
				abort(c, http.StatusInternalServerError, "Internal server error")
				return
			}
			if !enrolled {
				abort(c, http.StatusForbidden, "You are not enrolled in this class")
				return
			}
		}

		c.Set(CtxClass, class)
		c.Next()
	}
}

// RequireQuizAccess loads the :quizID quiz and enforces enrollment in its
// class for non-admins. Draft quizzes are invisible to students.
func RequireQuizAccess(quizRepo repository.QuizRepository, classRepo repository.ClassRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		quizID, ok := UintParam(c, "quizID")
		if !ok {
			return
		}
		quiz, err := quizRepo.FindByID(quizID)
		if err != nil {
			abort(c, http.StatusNotFound, "Quiz not found")
			return
		}

		user := CurrentUser(c)
		if !user.IsAdmin {
			if quiz.Status == model.QuizDraft {
				abort(c, http.StatusNotFound, "Quiz not found")
				return
			}
			enrolled, err := classRepo.IsEnrolled(quiz.ClassID, user.ID)
			if err != nil {
				abort(c, http.StatusInternalServerError, "Internal server error")
				return
			}
			if !enrolled {
				abort(c, http.StatusForbidden, "You are not enrolled in this quiz's class")
				return
			}
		}

		c.Set(CtxQuiz, quiz)
		c.Next()
	}
}

// RequireQuizWindow rejects attempt traffic outside the quiz's time window.
// It must run after RequireQuizAccess.
func RequireQuizWindow() gin.HandlerFunc {
	return func(c *gin.Context) {
		quiz := QuizFromContext(c)
		now := time.Now()
		if now.Before(quiz.StartTime) {
			abort(c, http.StatusBadRequest, "Quiz has not started yet")
			return
		}
		if !now.Before(quiz.EndTime) {
			abort(c, http.StatusBadRequest, "Quiz has ended")
			return
		}
		c.Next()
	}
}

// QuizFromContext returns the quiz attached by RequireQuizAccess.
func QuizFromContext(c *gin.Context) *model.Quiz {
	return c.MustGet(CtxQuiz).(*model.Quiz)
}

// ClassFromContext returns the class attached by RequireClassAccess.
func ClassFromContext(c *gin.Context) *model.Class {
	return c.MustGet(CtxClass).(*model.Class)
}

// UintParam parses a positive integer path parameter, aborting with a 400 on
// anything else.
func UintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		abort(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return uint(v), true
}
