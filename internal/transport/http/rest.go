package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"quizdrill/internal/app"
	"quizdrill/internal/domain"
	"quizdrill/internal/source"
)

// NewRouter assembles the REST and websocket surface over the drill service.
func NewRouter(service *app.DrillService, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	rest := &restHandler{service: service}
	ws := NewWSHandler(service)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/quizzes", func(r chi.Router) {
			r.Get("/", rest.listQuizzes)
			r.Post("/", rest.createQuiz)
			r.Post("/generate", rest.generateQuiz)
			r.Get("/{quizID}", rest.getQuiz)
		})
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", rest.startSession)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", rest.sessionState)
				r.Delete("/", rest.endSession)
				r.Post("/toggle", rest.toggle)
				r.Get("/progress", rest.progress)
				r.Get("/summary", rest.summary)
				r.Get("/export", rest.export)
				r.Post("/reset", rest.reset)
			})
		})
	})
	r.Get("/ws", ws.ServeWS)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

type restHandler struct {
	service *app.DrillService
}

type createQuizRequest struct {
	Title         string `json:"title"`
	QuestionsText string `json:"questionsText"`
	AnswersText   string `json:"answersText"`
}

type generateQuizRequest struct {
	Title         string `json:"title"`
	SourceText    string `json:"sourceText"`
	QuestionCount int    `json:"questionCount"`
}

type quizCreatedResponse struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Questions []domain.Question `json:"questions"`
	Matched   int               `json:"matched"`
	Unmatched int               `json:"unmatched"`
}

type startSessionRequest struct {
	QuizID string `json:"quizId"`
}

type toggleRequest struct {
	QuestionID string `json:"questionId"`
	Key        string `json:"key"`
}

type toggleResponse struct {
	Feedback domain.Feedback `json:"feedback"`
	Progress domain.Progress `json:"progress"`
}

func (h *restHandler) createQuiz(w http.ResponseWriter, r *http.Request) {
	var req createQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	quiz, err := h.service.CreateQuiz(r.Context(), req.Title, req.QuestionsText, req.AnswersText)
	if err != nil {
		jsonError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, quizResponse(quiz))
}

func (h *restHandler) generateQuiz(w http.ResponseWriter, r *http.Request) {
	var req generateQuizRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var err error
		req, err = parseGenerateForm(r)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.SourceText) == "" {
		jsonError(w, http.StatusBadRequest, "source text is required")
		return
	}
	quiz, err := h.service.GenerateQuiz(r.Context(), req.Title, req.SourceText, req.QuestionCount)
	if err != nil {
		jsonError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, quizResponse(quiz))
}

// parseGenerateForm accepts a multipart upload and extracts drill source text
// from the attached file, honoring its extension (.pdf, .html, plain text).
func parseGenerateForm(r *http.Request) (generateQuizRequest, error) {
	var req generateQuizRequest
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return req, errors.New("invalid multipart form")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return req, errors.New("missing file field")
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "quizdrill-upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		return req, err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		return req, err
	}
	if err := tmp.Close(); err != nil {
		return req, err
	}

	text, err := source.Extract(tmp.Name())
	if err != nil {
		return req, err
	}
	req.SourceText = text
	req.Title = r.FormValue("title")
	if count := r.FormValue("count"); count != "" {
		n, err := strconv.Atoi(count)
		if err != nil {
			return req, errors.New("count must be an integer")
		}
		req.QuestionCount = n
	}
	return req, nil
}

func (h *restHandler) listQuizzes(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.ListQuizzes(r.Context())
	if err != nil {
		jsonError(w, statusFor(err), err.Error())
		return
	}
	if summaries == nil {
		summaries = []domain.QuizSummary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *restHandler) getQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.service.GetQuiz(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		jsonError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, app.SanitizedQuiz(quiz))
}

func (h *restHandler) startSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.QuizID == "" {
		jsonError(w, http.StatusBadRequest, "quizId is required")
		return
	}
	view, err := h.service.StartSession(r.Context(), req.QuizID)
	if err != nil {
		jsonError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *restHandler) sessionState(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.SessionState(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		jsonError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *restHandler) toggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	feedback, progress, err := h.service.Toggle(r.Context(), chi.URLParam(r, "sessionID"), req.QuestionID, req.Key)
	if err != nil {
		jsonError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{Feedback: feedback, Progress: progress})
}

func (h *restHandler) progress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.service.Progress(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		jsonError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (h *restHandler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		jsonError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *restHandler) export(w http.ResponseWriter, r *http.Request) {
	export, err := h.service.Export(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		jsonError(w, statusFor(err), err.Error())
		return
	}
	filename := "incorrect_answers_" + export.Timestamp.Format("20060102_150405") + ".json"
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	writeJSON(w, http.StatusOK, export)
}

func (h *restHandler) reset(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Reset(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		jsonError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *restHandler) endSession(w http.ResponseWriter, r *http.Request) {
	h.service.EndSession(r.Context(), chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

func quizResponse(quiz domain.Quiz) quizCreatedResponse {
	matched := 0
	for _, q := range quiz.Questions {
		if q.Status != domain.StatusUngraded {
			matched++
		}
	}
	sanitized := app.SanitizedQuiz(quiz)
	return quizCreatedResponse{
		ID:        quiz.ID,
		Title:     quiz.Title,
		Questions: sanitized.Questions,
		Matched:   matched,
		Unmatched: len(quiz.Questions) - matched,
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrQuestionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrChoiceNotFound),
		errors.Is(err, domain.ErrNoQuestions),
		errors.Is(err, domain.ErrNoAnswers):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrMissingPartMarkers):
		return http.StatusBadGateway
	case errors.Is(err, app.ErrGeneratorDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func jsonError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorPayload{Message: message})
}
