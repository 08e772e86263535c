package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokka/internal/controller/respond"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/middleware"
	"github.com/lshigami/Quokka/internal/service"
	"github.com/rs/zerolog/log"
)

type QuestionController struct {
	questionService service.QuestionService
}

func NewQuestionController(questionService service.QuestionService) *QuestionController {
	return &QuestionController{questionService: questionService}
}

// CreateQuestion godoc
// @Summary (Admin) Create a question in a class's bank
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param question body dto.QuestionCreateDTO true "Question with options"
// @Success 201 {object} dto.QuestionResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/questions [post]
func (ctl *QuestionController) CreateQuestion(c *gin.Context) {
	var req dto.QuestionCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateQuestion: failed to bind request")
		respond.BindError(c, err)
		return
	}

	question, err := ctl.questionService.CreateQuestion(middleware.CurrentUser(c).ID, req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

// GetQuestion godoc
// @Summary (Admin) Get a question
// @Tags Admin - Questions
// @Produce json
// @Security BearerAuth
// @Param questionID path int true "Question ID"
// @Success 200 {object} dto.QuestionResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/questions/{questionID} [get]
func (ctl *QuestionController) GetQuestion(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}
	question, err := ctl.questionService.GetQuestion(id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// UpdateQuestion godoc
// @Summary (Admin) Update a question
// @Description Options can only change while no quiz references the question.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param questionID path int true "Question ID"
// @Param question body dto.QuestionUpdateDTO true "Fields to update"
// @Success 200 {object} dto.QuestionResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/questions/{questionID} [put]
func (ctl *QuestionController) UpdateQuestion(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}
	var req dto.QuestionUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	question, err := ctl.questionService.UpdateQuestion(id, req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// DeleteQuestion godoc
// @Summary (Admin) Delete a question
// @Description Fails while a quiz still references the question.
// @Tags Admin - Questions
// @Security BearerAuth
// @Param questionID path int true "Question ID"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/questions/{questionID} [delete]
func (ctl *QuestionController) DeleteQuestion(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}
	if err := ctl.questionService.DeleteQuestion(id); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func questionID(c *gin.Context) (uint, bool) {
	return middleware.UintParam(c, "questionID")
}
