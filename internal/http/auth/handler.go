package auth

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/MrJamesThe3rd/garage/internal/auth"
	"github.com/MrJamesThe3rd/garage/internal/http/web"
)

type Handler struct {
	svc       *auth.Service
	loginRate limiter.Rate
}

// NewHandler serves login, throttled per client IP to rate (e.g. "5-M").
func NewHandler(svc *auth.Service, rate string) (*Handler, error) {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}

	return &Handler{svc: svc, loginRate: r}, nil
}

func (h *Handler) Routes(r chi.Router) {
	throttle := stdlib.NewMiddleware(limiter.New(memory.NewStore(), h.loginRate))

	r.With(throttle.Handler).Post("/login", h.login)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !web.Decode(w, r, &req) {
		return
	}

	token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		web.Error(w, r, err)
		return
	}

	web.JSON(w, http.StatusOK, loginResponse{Token: token})
}

type verifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Middleware rejects requests without a valid bearer token and stores the
// verified claims in the request context.
func Middleware(v verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := v.Verify(token)
			if err != nil {
				web.Error(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.NewContext(r.Context(), claims)))
		})
	}
}
