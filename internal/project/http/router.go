package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	commonerrors "github.com/AlibekovAA/taskflow/backend/internal/common/errors"
	commonhttp "github.com/AlibekovAA/taskflow/backend/internal/common/http"
	"github.com/AlibekovAA/taskflow/backend/internal/common/jwtverify"
	"github.com/AlibekovAA/taskflow/backend/internal/common/logger"
	"github.com/AlibekovAA/taskflow/backend/internal/project/service"
)

type Handler struct {
	projects *service.Service
	errors   *commonhttp.ErrorHandler
	log      *logger.Logger
}

func NewHandler(projects *service.Service, log *logger.Logger) *Handler {
	return &Handler{
		projects: projects,
		errors:   commonhttp.NewErrorHandler(log),
		log:      log,
	}
}

// Register mounts the project routes. r must already require a bearer token.
func (h *Handler) Register(r chi.Router) {
	r.Post("/projects", h.createProject)
	r.Get("/projects", h.listProjects)

	r.Route("/project/{projectId}", func(r chi.Router) {
		r.Get("/", h.getProject)
		r.Post("/groups", h.createGroup)
		r.Delete("/groups/{groupId}", h.deleteGroup)
		r.Post("/groups/{groupId}/columns", h.createColumn)
		r.Delete("/groups/{groupId}/columns/{columnId}", h.deleteColumn)
		r.Post("/groups/{groupId}/columns/{columnId}/tasks", h.createTask)
		r.Delete("/groups/{groupId}/columns/{columnId}/tasks/{taskId}", h.deleteTask)
	})
}

func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	var input service.CreateProjectInput
	if !h.decode(w, r, callerID, "create_project", &input) {
		return
	}

	project, err := h.projects.CreateProject(r.Context(), callerID, input)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "project created",
		"project": project,
	})
}

func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	projects, err := h.projects.ListProjects(r.Context(), callerID)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (h *Handler) getProject(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}
	ids, ok := h.params(w, r, "projectId")
	if !ok {
		return
	}

	project, err := h.projects.GetProject(r.Context(), callerID, ids[0])
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{"project": project})
}

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}
	ids, ok := h.params(w, r, "projectId")
	if !ok {
		return
	}

	var input service.CreateGroupInput
	if !h.decode(w, r, callerID, "create_group", &input) {
		return
	}

	group, err := h.projects.CreateGroup(r.Context(), callerID, ids[0], input)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "group created",
		"group":   group,
	})
}

func (h *Handler) createColumn(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}
	ids, ok := h.params(w, r, "projectId", "groupId")
	if !ok {
		return
	}

	var input service.CreateColumnInput
	if !h.decode(w, r, callerID, "create_column", &input) {
		return
	}

	column, err := h.projects.CreateColumn(r.Context(), callerID, ids[0], ids[1], input)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "column created",
		"column":  column,
	})
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}
	ids, ok := h.params(w, r, "projectId", "groupId", "columnId")
	if !ok {
		return
	}

	var input service.CreateTaskInput
	if !h.decode(w, r, callerID, "create_task", &input) {
		return
	}

	task, err := h.projects.CreateTask(r.Context(), callerID, ids[0], ids[1], ids[2], input)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "task created",
		"task":    task,
	})
}

func (h *Handler) deleteGroup(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}
	ids, ok := h.params(w, r, "projectId", "groupId")
	if !ok {
		return
	}

	groupID, err := h.projects.DeleteGroup(r.Context(), callerID, ids[0], ids[1])
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "group deleted",
		"groupId": groupID,
	})
}

func (h *Handler) deleteColumn(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}
	ids, ok := h.params(w, r, "projectId", "groupId", "columnId")
	if !ok {
		return
	}

	columnID, err := h.projects.DeleteColumn(r.Context(), callerID, ids[0], ids[1], ids[2])
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{
		"message":  "column deleted",
		"columnId": columnID,
	})
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}
	ids, ok := h.params(w, r, "projectId", "groupId", "columnId", "taskId")
	if !ok {
		return
	}

	taskID, err := h.projects.DeleteTask(r.Context(), callerID, ids[0], ids[1], ids[2], ids[3])
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "task deleted",
		"taskId":  taskID,
	})
}

func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		h.errors.HandleError(w, r, commonerrors.ErrMissingToken)
		return "", false
	}
	return claims.UserID, true
}

// params reads the named path parameters in order.
func (h *Handler) params(w http.ResponseWriter, r *http.Request, names ...string) ([]string, bool) {
	values := make([]string, len(names))
	for i, name := range names {
		v, err := commonhttp.URLParam(r, name)
		if err != nil {
			h.errors.HandleError(w, r, err)
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, callerID, action string, v any) bool {
	if err := commonhttp.DecodeJSON(r, v); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"user_id": callerID,
			"action":  action + "_invalid_json",
		}).Warnf("%s failed: invalid json: %v", action, err)
		h.errors.HandleError(w, r, err)
		return false
	}
	return true
}
