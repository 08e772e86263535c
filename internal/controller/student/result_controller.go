package student

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokka/internal/controller/respond"
	"github.com/lshigami/Quokka/internal/middleware"
	"github.com/lshigami/Quokka/internal/service"
)

type ResultController struct {
	resultService service.ResultService
}

func NewResultController(resultService service.ResultService) *ResultController {
	return &ResultController{resultService: resultService}
}

// MyResults godoc
// @Summary List the student's results across quizzes
// @Tags Student - Results
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ResultResponseDTO
// @Router /results [get]
func (ctl *ResultController) MyResults(c *gin.Context) {
	results, err := ctl.resultService.ListStudentResults(middleware.CurrentUser(c).ID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// QuizResult godoc
// @Summary Get the student's result for one quiz
// @Tags Student - Results
// @Produce json
// @Security BearerAuth
// @Param quizID path int true "Quiz ID"
// @Success 200 {object} dto.ResultResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{quizID}/result [get]
func (ctl *ResultController) QuizResult(c *gin.Context) {
	result, err := ctl.resultService.GetStudentResult(middleware.CurrentUser(c).ID, middleware.QuizFromContext(c).ID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
