package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/clouddrop/clouddrop"
)

type Service interface {
	Upload(ctx context.Context, filename, contentType string, content io.Reader) (clouddrop.ObjectRecord, error)
	Get(ctx context.Context, key string) (clouddrop.ObjectRecord, io.ReadSeekCloser, error)
	Delete(ctx context.Context, key string) error
	Timeline(ctx context.Context) (clouddrop.Timeline, error)
}

type CORSConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	MaxAge         int      `mapstructure:"max_age"`
}

// DefaultCORSConfig returns the permissive browser policy the web app
// expects: any origin, the object-access methods, and the auth header.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		Enabled:        true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", AuthHeader},
		MaxAge:         86400,
	}
}

type HandlerConfig struct {
	// AuthSecret is the shared secret compared against AuthHeader.
	// Empty means fail closed, not public access.
	AuthSecret string
	// MaxUploadSize caps upload request bodies in bytes. Zero means
	// no limit.
	MaxUploadSize int64
	CORS          CORSConfig
}

// Handler provides HTTP handlers for the file share.
type Handler struct {
	config  HandlerConfig
	service Service
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	return &Handler{
		config:  *config,
		service: service,
	}
}

// Router returns the configured http.Handler. The /api prefix is
// reserved: unknown /api paths are 404 and never reach object access.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: h.config.CORS.AllowedOrigins,
			AllowedMethods: h.config.CORS.AllowedMethods,
			AllowedHeaders: h.config.CORS.AllowedHeaders,
			MaxAge:         h.config.CORS.MaxAge,
		}))
	}

	// Bare OPTIONS on any path gets the CORS policy back with an empty
	// body, before routing or auth. Preflights never reach this: the
	// cors middleware answers them itself.
	r.Use(h.answerOptions)

	r.Get("/", h.handleLoginPage)
	r.Get("/app", h.handleAppPage)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(h.config.AuthSecret))
			r.Post("/upload", h.handleUpload)
			r.Get("/timeline", h.handleTimeline)
		})
	})

	// Direct object access. Auth runs before the method check, so an
	// unauthenticated PUT gets 401 rather than 405.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(h.config.AuthSecret))
		r.Get("/*", h.handleGet)
		r.Delete("/*", h.handleDelete)
		r.Post("/*", h.handleMethodNotAllowed)
		r.Put("/*", h.handleMethodNotAllowed)
		r.Patch("/*", h.handleMethodNotAllowed)
		r.Head("/*", h.handleMethodNotAllowed)
		r.Connect("/*", h.handleMethodNotAllowed)
		r.Trace("/*", h.handleMethodNotAllowed)
	})

	return r
}

func (h *Handler) answerOptions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		if h.config.CORS.Enabled {
			header := w.Header()
			header.Set("Access-Control-Allow-Origin", strings.Join(h.config.CORS.AllowedOrigins, ", "))
			header.Set("Access-Control-Allow-Methods", strings.Join(h.config.CORS.AllowedMethods, ", "))
			header.Set("Access-Control-Allow-Headers", strings.Join(h.config.CORS.AllowedHeaders, ", "))
			header.Set("Access-Control-Max-Age", strconv.Itoa(h.config.CORS.MaxAge))
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if h.config.AuthSecret == "" {
		_ = WriteJSON(w, http.StatusInternalServerError, loginResponse{Error: "server configuration error"})
		return
	}

	var req loginRequest
	if err := decodeJSONBody(r, &req); err != nil {
		_ = WriteJSON(w, http.StatusBadRequest, loginResponse{Error: "could not process login request"})
		return
	}

	if req.Password != h.config.AuthSecret {
		_ = WriteJSON(w, http.StatusUnauthorized, loginResponse{Error: "wrong password"})
		return
	}

	_ = WriteJSON(w, http.StatusOK, loginResponse{Success: true})
}

func decodeJSONBody(r *http.Request, dst any) error {
	defer func() { _, _ = io.Copy(io.Discard, r.Body) }()
	return json.NewDecoder(r.Body).Decode(dst)
}

type uploadResponse struct {
	Success  bool   `json:"success"`
	FileName string `json:"fileName"`
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if h.config.MaxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadSize)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, "too_large", "Upload exceeds the size limit")
			return
		}
		WriteError(w, http.StatusBadRequest, "invalid_file", "File field missing or invalid")
		return
	}
	defer func() { _ = file.Close() }()

	contentType := header.Header.Get("Content-Type")

	rec, err := h.service.Upload(r.Context(), header.Filename, contentType, file)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, uploadResponse{Success: true, FileName: rec.Key})
}

func (h *Handler) handleTimeline(w http.ResponseWriter, r *http.Request) {
	timeline, err := h.service.Timeline(r.Context())
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, timeline)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/")

	if key == "" || key == "app" {
		WriteError(w, http.StatusNotFound, "not_found", "Object not found")
		return
	}

	if !clouddrop.IsValidKey(key) {
		WriteError(w, http.StatusBadRequest, "invalid_key", "Invalid key")
		return
	}

	rec, content, err := h.service.Get(r.Context(), key)
	if err != nil {
		HandleError(w, err)
		return
	}
	defer func() { _ = content.Close() }()

	w.Header().Set("ETag", `"`+rec.ETag+`"`)
	w.Header().Set("Content-Type", rec.ContentType)

	http.ServeContent(w, r, "", rec.Uploaded, content)
}

type deleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/")

	if key == "" || key == "app" {
		WriteError(w, http.StatusNotFound, "not_found", "Object not found")
		return
	}

	if !clouddrop.IsValidKey(key) {
		WriteError(w, http.StatusBadRequest, "invalid_key", "Invalid key")
		return
	}

	if err := h.service.Delete(r.Context(), key); err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, deleteResponse{Success: true, Message: "Deleted " + key})
}

func (h *Handler) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/")

	if key == "" || key == "app" {
		WriteError(w, http.StatusNotFound, "not_found", "Not found")
		return
	}

	w.Header().Set("Allow", "GET, DELETE")
	WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed for this resource")
}
