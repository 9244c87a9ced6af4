package httpserver

import (
	"net/http"
	"time"

	"github.com/weynak/weynak/internal/server/services"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	Otp         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

type meResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	_, err := s.accounts.Register(r.Context(), req.Name, req.Email, req.Password)
	s.metrics.recordFlow("register", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, services.MsgRegistered)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	token, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	s.metrics.recordFlow("login", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (s *Server) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	err := s.accounts.RequestReset(r.Context(), req.Email)
	s.metrics.recordFlow("request_reset", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, services.MsgOtpSent)
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	err := s.accounts.ConfirmReset(r.Context(), req.Email, req.Otp, req.NewPassword)
	s.metrics.recordFlow("confirm_reset", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, services.MsgPasswordReset)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "Access Denied!"})
		return
	}

	resp := meResponse{ID: claims.UserID, Username: claims.Username}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) notFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, messageResponse{Message: "Not found"})
}
