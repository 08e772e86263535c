package admin

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokka/internal/controller/respond"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/middleware"
	"github.com/lshigami/Quokka/internal/service"
	"github.com/rs/zerolog/log"
)

type QuizController struct {
	quizService    service.QuizService
	attemptService service.AttemptService
	resultService  service.ResultService
	sheetService   service.SheetService
}

func NewQuizController(
	quizService service.QuizService,
	attemptService service.AttemptService,
	resultService service.ResultService,
	sheetService service.SheetService,
) *QuizController {
	return &QuizController{
		quizService:    quizService,
		attemptService: attemptService,
		resultService:  resultService,
		sheetService:   sheetService,
	}
}

// CreateQuiz godoc
// @Summary (Admin) Create a quiz from class-bank questions
// @Tags Admin - Quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quiz body dto.QuizCreateDTO true "Quiz data"
// @Success 201 {object} dto.QuizResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/quizzes [post]
func (ctl *QuizController) CreateQuiz(c *gin.Context) {
	var req dto.QuizCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateQuiz: failed to bind request")
		respond.BindError(c, err)
		return
	}

	quiz, err := ctl.quizService.CreateQuiz(middleware.CurrentUser(c).ID, req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

// GetQuiz godoc
// @Summary (Admin) Get a quiz with its questions
// @Tags Admin - Quizzes
// @Produce json
// @Security BearerAuth
// @Param quizID path int true "Quiz ID"
// @Success 200 {object} dto.QuizResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/quizzes/{quizID} [get]
func (ctl *QuizController) GetQuiz(c *gin.Context) {
	quiz, err := ctl.quizService.GetQuiz(middleware.QuizFromContext(c).ID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// ListByClass godoc
// @Summary (Admin) List a class's quizzes
// @Tags Admin - Quizzes
// @Produce json
// @Security BearerAuth
// @Param classID path int true "Class ID"
// @Success 200 {array} dto.QuizSummaryDTO
// @Router /admin/classes/{classID}/quizzes [get]
func (ctl *QuizController) ListByClass(c *gin.Context) {
	quizzes, err := ctl.quizService.ListByClass(middleware.ClassFromContext(c).ID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

// UpdateQuiz godoc
// @Summary (Admin) Update a quiz
// @Description Question set and timing are frozen once the quiz is published.
// @Tags Admin - Quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quizID path int true "Quiz ID"
// @Param quiz body dto.QuizUpdateDTO true "Fields to update"
// @Success 200 {object} dto.QuizResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/quizzes/{quizID} [put]
func (ctl *QuizController) UpdateQuiz(c *gin.Context) {
	var req dto.QuizUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	quiz, err := ctl.quizService.UpdateQuiz(middleware.QuizFromContext(c).ID, req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// DeleteQuiz godoc
// @Summary (Admin) Delete a quiz
// @Tags Admin - Quizzes
// @Security BearerAuth
// @Param quizID path int true "Quiz ID"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/quizzes/{quizID} [delete]
func (ctl *QuizController) DeleteQuiz(c *gin.Context) {
	if err := ctl.quizService.DeleteQuiz(middleware.QuizFromContext(c).ID); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PublishQuiz godoc
// @Summary (Admin) Publish a draft quiz
// @Tags Admin - Quizzes
// @Produce json
// @Security BearerAuth
// @Param quizID path int true "Quiz ID"
// @Success 200 {object} dto.QuizResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/quizzes/{quizID}/publish [post]
func (ctl *QuizController) PublishQuiz(c *gin.Context) {
	quiz, err := ctl.quizService.PublishQuiz(middleware.QuizFromContext(c).ID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// ListAttempts godoc
// @Summary (Admin) List live attempts for a quiz
// @Tags Admin - Quizzes
// @Produce json
// @Security BearerAuth
// @Param quizID path int true "Quiz ID"
// @Success 200 {array} dto.AttemptResponseDTO
// @Router /admin/quizzes/{quizID}/attempts [get]
func (ctl *QuizController) ListAttempts(c *gin.Context) {
	attempts, err := ctl.attemptService.ListAttempts(middleware.QuizFromContext(c).ID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, attempts)
}

// TerminateAttempt godoc
// @Summary (Admin) Terminate a student's in-progress attempt
// @Tags Admin - Quizzes
// @Produce json
// @Security BearerAuth
// @Param quizID path int true "Quiz ID"
// @Param userID path int true "Student user ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/quizzes/{quizID}/attempts/{userID}/terminate [post]
func (ctl *QuizController) TerminateAttempt(c *gin.Context) {
	userID, ok := middleware.UintParam(c, "userID")
	if !ok {
		return
	}
	if err := ctl.attemptService.TerminateAttempt(middleware.QuizFromContext(c).ID, userID); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Attempt terminated"})
}

// ListResults godoc
// @Summary (Admin) List a quiz's graded results
// @Tags Admin - Quizzes
// @Produce json
// @Security BearerAuth
// @Param quizID path int true "Quiz ID"
// @Success 200 {array} dto.ResultResponseDTO
// @Router /admin/quizzes/{quizID}/results [get]
func (ctl *QuizController) ListResults(c *gin.Context) {
	results, err := ctl.resultService.ListQuizResults(middleware.QuizFromContext(c).ID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// ExportResults godoc
// @Summary (Admin) Export a quiz's results as an xlsx workbook
// @Tags Admin - Quizzes
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param quizID path int true "Quiz ID"
// @Success 200 {file} binary
// @Router /admin/quizzes/{quizID}/results/export [get]
func (ctl *QuizController) ExportResults(c *gin.Context) {
	data, filename, err := ctl.sheetService.ExportResults(middleware.QuizFromContext(c).ID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// AddFeedback godoc
// @Summary (Admin) Attach feedback to a student's result
// @Tags Admin - Quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quizID path int true "Quiz ID"
// @Param userID path int true "Student user ID"
// @Param feedback body dto.FeedbackDTO true "Feedback text"
// @Success 200 {object} dto.ResultResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/quizzes/{quizID}/results/{userID}/feedback [post]
func (ctl *QuizController) AddFeedback(c *gin.Context) {
	userID, ok := middleware.UintParam(c, "userID")
	if !ok {
		return
	}
	var req dto.FeedbackDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	result, err := ctl.resultService.AddFeedback(middleware.QuizFromContext(c).ID, userID, req.Feedback)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
