package api

import (
	"encoding/json"
	"net/http"

	"github.com/mjaus29/survey/internal/middleware"
	"github.com/mjaus29/survey/internal/services"
)

// Router wires the HTTP boundary: the auth gateway and the survey endpoints.
// Authentication and storage failures are collapsed into generic messages
// with fixed status codes; no internal error detail crosses this boundary.
type Router struct {
	store  Store
	auth   *services.AuthService
	survey *services.SurveyService
}

func NewRouter(store Store, surveyID string) *Router {
	return &Router{
		store:  store,
		auth:   services.NewAuthService(newAuthStoreAdapter(store), middleware.SignToken, middleware.VerifyToken),
		survey: services.NewSurveyService(newSurveyStoreAdapter(store), surveyID),
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth", rt.handleAuth) // POST sign-up/sign-in/sign-out, GET check
	mux.Handle("/api/survey", middleware.WithAuth(http.HandlerFunc(rt.handleSurvey)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func serviceErrorStatus(code services.ErrorCode) int {
	switch code {
	case services.ErrorInvalid, services.ErrorValidation:
		return http.StatusBadRequest
	case services.ErrorUnauthorized:
		return http.StatusUnauthorized
	case services.ErrorConflict:
		return http.StatusConflict
	case services.ErrorNotFound:
		return http.StatusNotFound
	case services.ErrorStorage:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	if ve, ok := services.AsValidationError(err); ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": ve.Error(), "fields": ve.Fields})
		return
	}
	if se, ok := services.AsServiceError(err); ok {
		writeErrorMsg(w, serviceErrorStatus(se.Code), se.Message)
		return
	}
	writeErrorMsg(w, http.StatusInternalServerError, fallback)
}

func setTokenCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   maxAge,
		SameSite: http.SameSiteLaxMode,
	})
}

type authRequest struct {
	Action   string `json:"action"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth — sign-up, sign-in, sign-out.
// GET  /api/auth — authentication check; never errors to the caller.
func (rt *Router) handleAuth(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.handleAuthAction(w, r)
	case http.MethodGet:
		rt.handleAuthCheck(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (rt *Router) handleAuthAction(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch req.Action {
	case "sign-out":
		// Tokens are stateless; signing out only clears the held credential.
		setTokenCookie(w, "", -1)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	case "sign-up":
		res, err := rt.auth.SignUp(req.Email, req.Password)
		if err != nil {
			writeServiceError(w, err, "authentication failed")
			return
		}
		setTokenCookie(w, res.Token, int(rt.auth.TokenTTL().Seconds()))
		writeJSON(w, http.StatusCreated, map[string]any{"success": true})
	case "sign-in":
		res, err := rt.auth.SignIn(req.Email, req.Password)
		if err != nil {
			writeServiceError(w, err, "authentication failed")
			return
		}
		setTokenCookie(w, res.Token, int(rt.auth.TokenTTL().Seconds()))
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	default:
		writeErrorMsg(w, http.StatusBadRequest, "invalid action")
	}
}

func (rt *Router) handleAuthCheck(w http.ResponseWriter, r *http.Request) {
	_, ok := rt.auth.Verify(middleware.TokenFromRequest(r))
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": ok})
}

// answerView embeds the question definition so a review surface can render
// without a second fetch.
type answerView struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"questionId"`
	Response   string    `json:"response"`
	Question   *Question `json:"question,omitempty"`
}

// GET  /api/survey — question catalog plus the subject's saved answers.
// POST /api/survey — full answer set submission, upserted per question.
func (rt *Router) handleSurvey(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.SubjectFromContext(r.Context())
	if !ok {
		writeErrorMsg(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	switch r.Method {
	case http.MethodGet:
		rt.handleSurveyGet(w, subject)
	case http.MethodPost:
		rt.handleSurveyPost(w, r, subject)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (rt *Router) handleSurveyGet(w http.ResponseWriter, subject string) {
	data, err := rt.survey.Load(subject)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve data")
		return
	}

	questions := make([]*Question, 0, len(data.Questions))
	byID := make(map[string]*Question, len(data.Questions))
	for _, q := range data.Questions {
		view := convertServiceQuestion(q)
		questions = append(questions, view)
		byID[q.ID] = view
	}
	answers := make([]answerView, 0, len(data.Answers))
	for _, a := range data.Answers {
		answers = append(answers, answerView{ID: a.ID, QuestionID: a.QuestionID, Response: a.Response, Question: byID[a.QuestionID]})
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": questions, "answers": answers})
}

func (rt *Router) handleSurveyPost(w http.ResponseWriter, r *http.Request, subject string) {
	var req struct {
		Answers json.RawMessage `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid payload")
		return
	}
	var inputs []struct {
		QuestionID string `json:"questionId"`
		Response   string `json:"response"`
	}
	// JSON null decodes into a nil slice without error; answers must be an
	// actual list.
	if err := json.Unmarshal(req.Answers, &inputs); err != nil || inputs == nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid payload")
		return
	}

	submitted := make([]services.AnswerInput, 0, len(inputs))
	for _, in := range inputs {
		submitted = append(submitted, services.AnswerInput{QuestionID: in.QuestionID, Response: in.Response})
	}
	if _, err := rt.survey.SubmitAnswers(subject, submitted); err != nil {
		writeServiceError(w, err, "failed to save answers")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func convertServiceQuestion(q *services.Question) *Question {
	return &Question{
		ID:          q.ID,
		Code:        q.Code,
		SurveyID:    q.SurveyID,
		Title:       q.Title,
		Description: q.Description,
		Type:        string(q.Kind),
		Required:    q.Required,
		Options:     q.Options,
		Position:    q.Position,
	}
}
