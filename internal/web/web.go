package web

import (
	"embed"
	"html/template"
	"io/fs"
	"math/rand/v2"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	authhttp "github.com/capitalsapp/capitals/internal/auth/http"
	"github.com/capitalsapp/capitals/internal/capitals/service"
	commonhttp "github.com/capitalsapp/capitals/internal/common/http"
	"github.com/capitalsapp/capitals/internal/common/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

type greetingRequest struct {
	Name string `json:"name"`
}

type Handler struct {
	capitals  *service.Service
	templates *template.Template
	log       *logger.Logger
}

func NewHandler(capitals *service.Service, log *logger.Logger) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Handler{capitals: capitals, templates: tmpl, log: log}, nil
}

// Mount registers the page routes. The home page goes through the session
// guard; the forms and the static assets are public.
func (h *Handler) Mount(router *httprouter.Router, guard func(http.Handler) http.Handler) {
	router.Handler(http.MethodGet, "/", guard(http.HandlerFunc(h.home)))
	router.HandlerFunc(http.MethodGet, "/login", h.loginPage)
	router.HandlerFunc(http.MethodGet, "/register", h.registerPage)
	router.HandlerFunc(http.MethodPost, "/random", h.random)

	static, _ := fs.Sub(staticFS, "static")
	router.Handler(http.MethodGet, "/static/*filepath", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	claims, ok := authhttp.ClaimsFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	capitals, err := h.capitals.List(r.Context())
	if err != nil {
		h.log.Errorf("home page failed: %v", err)
		http.Error(w, "Error loading page.", http.StatusInternalServerError)
		return
	}

	h.render(w, "index.html", map[string]any{
		"Username": claims.Username,
		"Capitals": capitals,
	})
}

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", nil)
}

func (h *Handler) registerPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "register.html", nil)
}

func (h *Handler) random(w http.ResponseWriter, r *http.Request) {
	var req greetingRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json")
		return
	}

	n := rand.IntN(100) + 1
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Hello, " + req.Name + "! Your random number is " + strconv.Itoa(n) + "."))
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.log.Errorf("template %s failed: %v", name, err)
	}
}

