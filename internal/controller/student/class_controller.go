package student

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokka/internal/controller/respond"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/middleware"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/service"
)

type ClassController struct {
	classService service.ClassService
	quizService  service.QuizService
}

func NewClassController(classService service.ClassService, quizService service.QuizService) *ClassController {
	return &ClassController{classService: classService, quizService: quizService}
}

// MyClasses godoc
// @Summary List the classes the student is enrolled in
// @Tags Student - Classes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ClassSummaryDTO
// @Router /classes [get]
func (ctl *ClassController) MyClasses(c *gin.Context) {
	classes, err := ctl.classService.ListClassesForStudent(middleware.CurrentUser(c).ID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, classes)
}

// GetClass godoc
// @Summary Get a class the student is enrolled in
// @Tags Student - Classes
// @Produce json
// @Security BearerAuth
// @Param classID path int true "Class ID"
// @Success 200 {object} dto.ClassResponseDTO
// @Failure 403 {object} dto.ErrorResponse
// @Router /classes/{classID} [get]
func (ctl *ClassController) GetClass(c *gin.Context) {
	class, err := ctl.classService.GetClass(middleware.ClassFromContext(c).ID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, class)
}

// ClassQuizzes godoc
// @Summary List a class's quizzes visible to the student
// @Description Draft quizzes are hidden.
// @Tags Student - Classes
// @Produce json
// @Security BearerAuth
// @Param classID path int true "Class ID"
// @Success 200 {array} dto.QuizSummaryDTO
// @Failure 403 {object} dto.ErrorResponse
// @Router /classes/{classID}/quizzes [get]
func (ctl *ClassController) ClassQuizzes(c *gin.Context) {
	quizzes, err := ctl.quizService.ListByClass(middleware.ClassFromContext(c).ID)
	if err != nil {
		respond.Error(c, err)
		return
	}

	visible := make([]dto.QuizSummaryDTO, 0, len(quizzes))
	for _, q := range quizzes {
		if q.Status != string(model.QuizDraft) {
			visible = append(visible, q)
		}
	}
	c.JSON(http.StatusOK, visible)
}
