package student

import (
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
}

func NewQuizController(quizService service.QuizService, attemptService service.AttemptService) *QuizController {
	return &QuizController{quizService: quizService, attemptService: attemptService}
}

// GetQuiz godoc
// @Summary Get a quiz as a taker sees it
// @Description Options carry no correctness flags; question order is shuffled when the quiz asks for it.
// @Tags Student - Quizzes
// @Produce json
// @Security BearerAuth
// @Param quizID path int true "Quiz ID"
// @Success 200 {object} dto.StudentQuizViewDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{quizID} [get]
func (ctl *QuizController) GetQuiz(c *gin.Context) {
	view, err := ctl.quizService.StudentView(middleware.QuizFromContext(c).ID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// StartQuiz godoc
// @Summary Start the student's attempt
// @Description Allowed once, inside the quiz window. The response carries the submission deadline.
// @Tags Student - Quizzes
// @Produce json
// @Security BearerAuth
// @Param quizID path int true "Quiz ID"
// @Success 200 {object} dto.StartResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /quizzes/{quizID}/start [post]
func (ctl *QuizController) StartQuiz(c *gin.Context) {
	user := middleware.CurrentUser(c)
	quiz := middleware.QuizFromContext(c)

	start, err := ctl.attemptService.StartQuiz(user, quiz, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respond.Error(c, err)
		return
	}
	log.Info().Uint("userID", user.ID).Uint("quizID", quiz.ID).Msg("Student started quiz")
	c.JSON(http.StatusOK, start)
}

// SaveAnswer godoc
// @Summary Save or change an answer
// @Description Idempotent per question; changing an answer bumps its change counter.
// @Tags Student - Quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quizID path int true "Quiz ID"
// @Param answer body dto.AnswerSubmitDTO true "Selected option"
// @Success 200 {object} dto.AttemptResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /quizzes/{quizID}/answers [post]
func (ctl *QuizController) SaveAnswer(c *gin.Context) {
	var req dto.AnswerSubmitDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	attempt, err := ctl.attemptService.SaveAnswer(middleware.CurrentUser(c), middleware.QuizFromContext(c), req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, attempt)
}

// Monitor godoc
// @Summary Report a proctoring event
// @Description Heartbeats refresh camera/fullscreen flags; the other event types may record violations depending on the quiz settings.
// @Tags Student - Quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quizID path int true "Quiz ID"
// @Param event body dto.MonitorEventDTO true "Event"
// @Success 200 {object} dto.AttemptResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /quizzes/{quizID}/monitor [post]
func (ctl *QuizController) Monitor(c *gin.Context) {
	var req dto.MonitorEventDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	attempt, err := ctl.attemptService.RecordMonitoringEvent(middleware.CurrentUser(c), middleware.QuizFromContext(c), req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, attempt)
}

// SubmitQuiz godoc
// @Summary Submit the attempt for grading
// @Tags Student - Quizzes
// @Produce json
// @Security BearerAuth
// @Param quizID path int true "Quiz ID"
// @Success 200 {object} dto.ResultResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /quizzes/{quizID}/submit [post]
func (ctl *QuizController) SubmitQuiz(c *gin.Context) {
	result, err := ctl.attemptService.SubmitQuiz(middleware.CurrentUser(c), middleware.QuizFromContext(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetAttempt godoc
// @Summary Get the student's attempt state for a quiz
// @Tags Student - Quizzes
// @Produce json
// @Security BearerAuth
// @Param quizID path int true "Quiz ID"
// @Success 200 {object} dto.AttemptResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{quizID}/attempt [get]
func (ctl *QuizController) GetAttempt(c *gin.Context) {
	attempt, err := ctl.attemptService.GetAttempt(middleware.CurrentUser(c).ID, middleware.QuizFromContext(c).ID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, attempt)
}
