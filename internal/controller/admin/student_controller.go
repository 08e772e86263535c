package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokka/internal/controller/respond"
	"github.com/lshigami/Quokka/internal/service"
)

type StudentController struct {
	authService service.AuthService
}

func NewStudentController(authService service.AuthService) *StudentController {
	return &StudentController{authService: authService}
}

// ListStudents godoc
// @Summary (Admin) List all student accounts
// @Tags Admin - Students
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ProfileDTO
// @Router /admin/students [get]
func (ctl *StudentController) ListStudents(c *gin.Context) {
	students, err := ctl.authService.ListStudents()
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

// GetStudent godoc
// @Summary (Admin) Look up a student account by student id
// @Tags Admin - Students
// @Produce json
// @Security BearerAuth
// @Param studentID path string true "Student ID"
// @Success 200 {object} dto.ProfileDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/students/{studentID} [get]
func (ctl *StudentController) GetStudent(c *gin.Context) {
	student, err := ctl.authService.GetStudent(c.Param("studentID"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, student)
}
