package admin

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokka/internal/apperror"
	"github.com/lshigami/Quokka/internal/controller/respond"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/middleware"
	"github.com/lshigami/Quokka/internal/service"
	"github.com/rs/zerolog/log"
)

type ClassController struct {
	classService    service.ClassService
	questionService service.QuestionService
	sheetService    service.SheetService
}

func NewClassController(classService service.ClassService, questionService service.QuestionService, sheetService service.SheetService) *ClassController {
	return &ClassController{
		classService:    classService,
		questionService: questionService,
		sheetService:    sheetService,
	}
}

// CreateClass godoc
// @Summary (Admin) Create a class
// @Tags Admin - Classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param class body dto.ClassCreateDTO true "Class data"
// @Success 201 {object} dto.ClassResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/classes [post]
func (ctl *ClassController) CreateClass(c *gin.Context) {
	var req dto.ClassCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateClass: failed to bind request")
		respond.BindError(c, err)
		return
	}

	class, err := ctl.classService.CreateClass(middleware.CurrentUser(c).ID, req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, class)
}

// ListClasses godoc
// @Summary (Admin) List all classes
// @Tags Admin - Classes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ClassSummaryDTO
// @Router /admin/classes [get]
func (ctl *ClassController) ListClasses(c *gin.Context) {
	classes, err := ctl.classService.ListClasses()
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, classes)
}

// GetClass godoc
// @Summary (Admin) Get a class with its students and quizzes
// @Tags Admin - Classes
// @Produce json
// @Security BearerAuth
// @Param classID path int true "Class ID"
// @Success 200 {object} dto.ClassResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/classes/{classID} [get]
func (ctl *ClassController) GetClass(c *gin.Context) {
	class, err := ctl.classService.GetClass(middleware.ClassFromContext(c).ID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, class)
}

// UpdateClass godoc
// @Summary (Admin) Update a class
// @Tags Admin - Classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param classID path int true "Class ID"
// @Param class body dto.ClassUpdateDTO true "Fields to update"
// @Success 200 {object} dto.ClassResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/classes/{classID} [put]
func (ctl *ClassController) UpdateClass(c *gin.Context) {
	var req dto.ClassUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	class, err := ctl.classService.UpdateClass(middleware.ClassFromContext(c).ID, req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, class)
}

// DeleteClass godoc
// @Summary (Admin) Delete a class
// @Description Fails while the class has published or in-progress quizzes.
// @Tags Admin - Classes
// @Security BearerAuth
// @Param classID path int true "Class ID"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/classes/{classID} [delete]
func (ctl *ClassController) DeleteClass(c *gin.Context) {
	if err := ctl.classService.DeleteClass(middleware.ClassFromContext(c).ID); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// EnrollStudents godoc
// @Summary (Admin) Enroll students by student ID
// @Tags Admin - Classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param classID path int true "Class ID"
// @Param students body dto.EnrollDTO true "Student IDs to enroll"
// @Success 200 {object} dto.ImportSummaryDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/classes/{classID}/students [post]
func (ctl *ClassController) EnrollStudents(c *gin.Context) {
	var req dto.EnrollDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	summary, err := ctl.classService.EnrollStudents(middleware.ClassFromContext(c).ID, req.StudentIDs)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// UnenrollStudent godoc
// @Summary (Admin) Remove a student from a class
// @Tags Admin - Classes
// @Security BearerAuth
// @Param classID path int true "Class ID"
// @Param studentID path string true "Student ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/classes/{classID}/students/{studentID} [delete]
func (ctl *ClassController) UnenrollStudent(c *gin.Context) {
	err := ctl.classService.UnenrollStudent(middleware.ClassFromContext(c).ID, c.Param("studentID"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ImportStudents godoc
// @Summary (Admin) Bulk-enroll students from an xlsx upload
// @Description Expects columns student_id, email, name. Rows that fail are reported, not fatal.
// @Tags Admin - Classes
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param classID path int true "Class ID"
// @Param file formData file true "xlsx workbook"
// @Success 200 {object} dto.ImportSummaryDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/classes/{classID}/students/import [post]
func (ctl *ClassController) ImportStudents(c *gin.Context) {
	file, ok := openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	summary, err := ctl.sheetService.ImportStudents(middleware.ClassFromContext(c).ID, file)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ListQuestions godoc
// @Summary (Admin) List a class's question bank
// @Tags Admin - Questions
// @Produce json
// @Security BearerAuth
// @Param classID path int true "Class ID"
// @Success 200 {array} dto.QuestionResponseDTO
// @Router /admin/classes/{classID}/questions [get]
func (ctl *ClassController) ListQuestions(c *gin.Context) {
	questions, err := ctl.questionService.ListByClass(middleware.ClassFromContext(c).ID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

// ImportQuestions godoc
// @Summary (Admin) Bulk-create questions from an xlsx upload
// @Tags Admin - Questions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param classID path int true "Class ID"
// @Param file formData file true "xlsx workbook"
// @Success 200 {object} dto.ImportSummaryDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/classes/{classID}/questions/import [post]
func (ctl *ClassController) ImportQuestions(c *gin.Context) {
	file, ok := openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	summary, err := ctl.sheetService.ImportQuestions(
		middleware.CurrentUser(c).ID,
		middleware.ClassFromContext(c).ID,
		file,
	)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func openUpload(c *gin.Context) (multipart.File, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, apperror.Validation("Missing file upload"))
		return nil, false
	}
	if header.Size > service.MaxImportBytes {
		respond.Error(c, apperror.Validation("File exceeds the 10 MB limit"))
		return nil, false
	}
	file, err := header.Open()
	if err != nil {
		respond.Error(c, apperror.Internal("Failed to read upload").WithCause(err))
		return nil, false
	}
	return file, true
}
