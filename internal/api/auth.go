package api

import (
	"context"
	"net/http"
)

// AuthUser is the minimal user representation returned by the auth
// endpoints.
type AuthUser struct {
	Email      string `json:"email"`
	IsVerified bool   `json:"isVerified"`
}

// LoginResult is the response of POST /api/auth/login.
type LoginResult struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login obtains a session credential. The caller is responsible for
// storing the returned token; an unverified account surfaces as a
// ValidationError with the server's message.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	err := c.unauthenticatedJSON(ctx, http.MethodPost, "/api/auth/login",
		credentialsRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup creates an account. The account stays unverified until the OTP
// flow completes.
func (c *Client) Signup(ctx context.Context, email, password string) error {
	return c.unauthenticatedJSON(ctx, http.MethodPost, "/api/auth/signup",
		credentialsRequest{Email: email, Password: password}, nil)
}

type otpRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// VerifyOTP confirms the account email with a one-time code.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) error {
	return c.unauthenticatedJSON(ctx, http.MethodPost, "/api/auth/verify-otp",
		otpRequest{Email: email, OTP: otp}, nil)
}

type emailRequest struct {
	Email string `json:"email"`
}

// ResendOTP asks the server to send a fresh verification code.
func (c *Client) ResendOTP(ctx context.Context, email string) error {
	return c.unauthenticatedJSON(ctx, http.MethodPost, "/api/auth/resend-otp",
		emailRequest{Email: email}, nil)
}

// GenerateOTP triggers a verification code for accounts that never got
// one (the login flow's unverified branch uses this endpoint).
func (c *Client) GenerateOTP(ctx context.Context, email string) error {
	return c.unauthenticatedJSON(ctx, http.MethodPost, "/api/auth/generate-otp",
		emailRequest{Email: email}, nil)
}

// RequestPasswordReset begins a password reset; the server mails a reset
// token to the address.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.unauthenticatedJSON(ctx, http.MethodPost, "/api/auth/reset-password-request",
		emailRequest{Email: email}, nil)
}

type resetPasswordRequest struct {
	ResetToken  string `json:"resetToken"`
	NewPassword string `json:"newPassword"`
}

// ResetPassword completes a password reset with the mailed token.
func (c *Client) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	return c.unauthenticatedJSON(ctx, http.MethodPost, "/api/auth/reset-password",
		resetPasswordRequest{ResetToken: resetToken, NewPassword: newPassword}, nil)
}
