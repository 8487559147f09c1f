// internal/api/handler/auth.go
package handler

import (
	"encoding/json"
	"net/http"

	"vaultcore-ledger/internal/api/types"
	"vaultcore-ledger/internal/auth"
	"vaultcore-ledger/internal/notify"
	"vaultcore-ledger/internal/otp"
	"vaultcore-ledger/internal/service"
	"vaultcore-ledger/internal/util"

	"go.uber.org/zap"
)

// AuthHandler handles the thin signup/login flow around the ledger: OTP-gated
// signup, bcrypt verification, token issuance.
type AuthHandler struct {
	ledger   service.LedgerService
	auth     *auth.Service
	otpStore *otp.Store
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(ledger service.LedgerService, authSvc *auth.Service, otpStore *otp.Store, notifier notify.Notifier, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		ledger:   ledger,
		auth:     authSvc,
		otpStore: otpStore,
		notifier: notifier,
		logger:   logger,
	}
}

// SignupRequestBody is the request body for POST /auth/signup-request.
type SignupRequestBody struct {
	Email string `json:"email"`
}

// SignupRequest issues an OTP for a new signup and sends it to the email.
// POST /auth/signup-request
func (h *AuthHandler) SignupRequest(w http.ResponseWriter, r *http.Request) {
	var req SignupRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		respondWithJSON(w, h.logger, http.StatusBadRequest, types.ErrorResponse{Error: "email is required"})
		return
	}

	if _, err := h.ledger.ResolveUser(r.Context(), req.Email); err == nil {
		respondWithError(w, h.logger, util.ErrDuplicateEntry)
		return
	}

	code, err := h.otpStore.Generate(req.Email)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	if err := h.notifier.Send(r.Context(), req.Email, "VaultCore - Verification OTP", "Your secure signup OTP is: "+code); err != nil {
		h.logger.Error("failed to send signup otp", zap.Error(err))
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.MessageResponse{Message: "OTP sent successfully."})
}

// SignupVerifyBody is the request body for POST /auth/signup-verify.
type SignupVerifyBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp"`
}

// SignupVerify checks the OTP, then creates the user and their account with
// the joining bonus.
// POST /auth/signup-verify
func (h *AuthHandler) SignupVerify(w http.ResponseWriter, r *http.Request) {
	var req SignupVerifyBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		respondWithJSON(w, h.logger, http.StatusBadRequest, types.ErrorResponse{Error: "email and password are required"})
		return
	}

	if !h.otpStore.Validate(req.Email, req.OTP) {
		respondWithJSON(w, h.logger, http.StatusBadRequest, types.ErrorResponse{Error: "Invalid or expired OTP."})
		return
	}

	hash, err := h.auth.HashPassword(req.Password)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	if _, _, err := h.ledger.OpenAccount(r.Context(), req.Email, hash); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusCreated, types.MessageResponse{Message: "User registered successfully."})
}

// LoginBody is the request body for POST /auth/login.
type LoginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and issues an access token.
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		respondWithJSON(w, h.logger, http.StatusBadRequest, types.ErrorResponse{Error: "email and password are required"})
		return
	}

	user, err := h.ledger.ResolveUser(r.Context(), req.Email)
	if err != nil || !h.auth.CheckPassword(user.PasswordHash, req.Password) {
		respondWithJSON(w, h.logger, http.StatusUnauthorized, types.ErrorResponse{Error: "Invalid email or password."})
		return
	}

	token, err := h.auth.IssueToken(user.Email)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.LoginResponse{
		AccessToken: token,
		Username:    user.Username,
		Email:       user.Email,
	})
}
