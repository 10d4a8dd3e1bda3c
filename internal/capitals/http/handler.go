package http

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/capitalsapp/capitals/internal/capitals/domain"
	"github.com/capitalsapp/capitals/internal/capitals/service"
	commonhttp "github.com/capitalsapp/capitals/internal/common/http"
	"github.com/capitalsapp/capitals/internal/common/logger"
)

type listResponse struct {
	Message string           `json:"message"`
	Data    []domain.Capital `json:"data"`
}

type capitalResponse struct {
	Message string         `json:"message"`
	Data    domain.Capital `json:"data"`
}

type Handler struct {
	capitals *service.Service
	log      *logger.Logger
}

func NewHandler(capitals *service.Service, log *logger.Logger) *Handler {
	return &Handler{capitals: capitals, log: log}
}

func (h *Handler) Mount(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/api/capitals", h.list)
	router.Handle(http.MethodGet, "/country/:id", h.get)
	router.HandlerFunc(http.MethodPost, "/country", h.create)
	router.Handle(http.MethodPut, "/country/:id", h.update)
	router.Handle(http.MethodDelete, "/country/:id", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	capitals, err := h.capitals.List(r.Context())
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, listResponse{
		Message: "List of capitals",
		Data:    capitals,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := h.parseID(w, ps)
	if !ok {
		return
	}

	c, err := h.capitals.Get(r.Context(), id)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var input service.Input
	if err := commonhttp.DecodeJSON(r, &input); err != nil {
		h.log.Warnf("create capital failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json")
		return
	}

	c, err := h.capitals.Create(r.Context(), input)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, capitalResponse{
		Message: "Capital created successfully",
		Data:    c,
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := h.parseID(w, ps)
	if !ok {
		return
	}

	var input service.Input
	if err := commonhttp.DecodeJSON(r, &input); err != nil {
		h.log.Warnf("update capital failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json")
		return
	}

	c, err := h.capitals.Update(r.Context(), id, input)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, capitalResponse{
		Message: "Capital updated successfully",
		Data:    c,
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := h.parseID(w, ps)
	if !ok {
		return
	}

	c, err := h.capitals.Delete(r.Context(), id)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, capitalResponse{
		Message: "Capital deleted successfully",
		Data:    c,
	})
}

// parseID treats a non-numeric id like any other id that matches no row.
func (h *Handler) parseID(w http.ResponseWriter, ps httprouter.Params) (int64, bool) {
	id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
	if err != nil {
		commonhttp.WriteError(w, http.StatusNotFound, commonhttp.CodeNotFound, "capital not found")
		return 0, false
	}
	return id, true
}
