package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"

	"github.com/davicafu/taskvault/internal/task/application"
	taskDomain "github.com/davicafu/taskvault/internal/task/domain"
	"github.com/davicafu/taskvault/pkg/utils"
)

// TaskHandler encapsula los endpoints HTTP de Task. Valida la forma del
// input antes de llamar al servicio: el core confía en su caller.
type TaskHandler struct {
	service *application.TaskService
}

// NewTaskHandler crea un nuevo TaskHandler.
func NewTaskHandler(service *application.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// --- Esquemas de validación ---

type createTaskRequest struct {
	Title      string  `json:"title" binding:"required,min=1,max=100"`
	Detail     *string `json:"detail" binding:"omitempty,max=1000"`
	DueAt      *string `json:"dueAt"`
	IsComplete *bool   `json:"isComplete"`
}

type updateTaskRequest struct {
	Title      string  `json:"title" binding:"required,min=1,max=100"`
	Detail     *string `json:"detail" binding:"omitempty,max=1000"`
	DueAt      *string `json:"dueAt"`
	IsComplete *bool   `json:"isComplete" binding:"required"`
}

// bindStrictJSON decodifica rechazando campos desconocidos y después
// valida con el engine de binding de gin. ShouldBindJSON no sabe
// rechazar campos extra, así que la decodificación va por json.Decoder.
func bindStrictJSON(c *gin.Context, obj interface{}) error {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(obj); err != nil {
		return err
	}
	// No debe quedar nada tras el primer documento JSON.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("unexpected trailing data in request body")
	}
	return binding.Validator.ValidateStruct(obj)
}

// parseDueAt valida el formato ISO-8601 y normaliza a UTC/ms.
func parseDueAt(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, err
	}
	n := taskDomain.NormalizeTime(t)
	return &n, nil
}

// --- Handlers CRUD ---

// CreateTask endpoint POST /tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := bindStrictJSON(c, &req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	dueAt, err := parseDueAt(req.DueAt)
	if err != nil {
		utils.SendBadRequest(c, "dueAt must be an ISO-8601 timestamp")
		return
	}

	in := taskDomain.CreateInput{
		Title:  req.Title,
		Detail: req.Detail,
		DueAt:  dueAt,
	}
	if req.IsComplete != nil {
		in.IsComplete = *req.IsComplete
	}

	task, err := h.service.CreateTask(c.Request.Context(), in)
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetTask endpoint GET /tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid task id")
		return
	}

	task, err := h.service.GetTask(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, taskDomain.ErrTaskNotFound) {
			utils.SendNotFound(c, "task not found")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, task)
}

// ListTasks endpoint GET /tasks (scan completo, sin paginación)
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.service.ListTasks(c.Request.Context())
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}

	if tasks == nil {
		tasks = []*taskDomain.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

// UpdateTask endpoint PUT /tasks/:id
// detail y dueAt omitidos significan "eliminar", no "conservar".
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid task id")
		return
	}

	var req updateTaskRequest
	if err := bindStrictJSON(c, &req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	dueAt, err := parseDueAt(req.DueAt)
	if err != nil {
		utils.SendBadRequest(c, "dueAt must be an ISO-8601 timestamp")
		return
	}

	in := taskDomain.UpdateInput{
		Title:      req.Title,
		IsComplete: *req.IsComplete,
		Detail:     req.Detail,
		DueAt:      dueAt,
	}

	task, err := h.service.UpdateTask(c.Request.Context(), id, in)
	if err != nil {
		if errors.Is(err, taskDomain.ErrTaskNotFound) {
			utils.SendNotFound(c, "task not found")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask endpoint DELETE /tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid task id")
		return
	}

	if err := h.service.DeleteTask(c.Request.Context(), id); err != nil {
		if errors.Is(err, taskDomain.ErrTaskNotFound) {
			utils.SendNotFound(c, "task not found")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	c.Status(http.StatusNoContent)
}
