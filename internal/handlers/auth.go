package handlers

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/meetmart/meetmart/internal/app"
)

// ---------------------------------------------------------------------------
// LoginHandler – login <email> <password>
// ---------------------------------------------------------------------------

// LoginHandler signs into an existing account.
type LoginHandler struct {
	app    *app.App
	logger *logrus.Logger
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(a *app.App, logger *logrus.Logger) *LoginHandler {
	return &LoginHandler{app: a, logger: logger}
}

// Handle processes the login command.
func (h *LoginHandler) Handle(ctx context.Context, out io.Writer, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(out, "Usage: login <email> <password>")
		return nil
	}

	user, err := h.app.Session.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{"user_id": user.ID}).Info("Logged in")
	fmt.Fprintf(out, "Welcome back, %s.\n", user.DisplayName())
	if !user.IsVerified {
		fmt.Fprintln(out, "Your account is not verified yet. Use: verify <code>")
	}
	return nil
}

// ---------------------------------------------------------------------------
// SignupHandler – signup <name> <email> <password>
// ---------------------------------------------------------------------------

// SignupHandler registers a new account.
type SignupHandler struct {
	app    *app.App
	logger *logrus.Logger
}

// NewSignupHandler creates a new SignupHandler.
func NewSignupHandler(a *app.App, logger *logrus.Logger) *SignupHandler {
	return &SignupHandler{app: a, logger: logger}
}

// Handle processes the signup command.
func (h *SignupHandler) Handle(ctx context.Context, out io.Writer, args []string) error {
	if len(args) != 3 {
		fmt.Fprintln(out, "Usage: signup <name> <email> <password>")
		return nil
	}

	user, err := h.app.Session.Signup(ctx, args[0], args[1], args[2])
	if err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{"user_id": user.ID}).Info("Account created")
	fmt.Fprintf(out, "Account created for %s. A verification code was sent to %s.\n", user.DisplayName(), user.Email)
	fmt.Fprintln(out, "Use: verify <code>")
	return nil
}

// ---------------------------------------------------------------------------
// VerifyHandler – verify <code>
// ---------------------------------------------------------------------------

// VerifyHandler confirms the signup OTP.
type VerifyHandler struct {
	app    *app.App
	logger *logrus.Logger
}

// NewVerifyHandler creates a new VerifyHandler.
func NewVerifyHandler(a *app.App, logger *logrus.Logger) *VerifyHandler {
	return &VerifyHandler{app: a, logger: logger}
}

// Handle processes the verify command.
func (h *VerifyHandler) Handle(ctx context.Context, out io.Writer, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(out, "Usage: verify <code>")
		return nil
	}

	user, err := h.app.Session.VerifyOTP(ctx, args[0])
	if err != nil {
		if h.app.HandleAuthFailure(ctx, err) {
			fmt.Fprintln(out, "Your session expired. Please log in again.")
		}
		return err
	}

	fmt.Fprintf(out, "Account verified. Happy shopping, %s.\n", user.DisplayName())
	return nil
}

// ---------------------------------------------------------------------------
// ForgotPasswordHandler – forgot-password <email>
// ---------------------------------------------------------------------------

// ForgotPasswordHandler requests a password reset code.
type ForgotPasswordHandler struct {
	app    *app.App
	logger *logrus.Logger
}

// NewForgotPasswordHandler creates a new ForgotPasswordHandler.
func NewForgotPasswordHandler(a *app.App, logger *logrus.Logger) *ForgotPasswordHandler {
	return &ForgotPasswordHandler{app: a, logger: logger}
}

// Handle processes the forgot-password command.
func (h *ForgotPasswordHandler) Handle(ctx context.Context, out io.Writer, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(out, "Usage: forgot-password <email>")
		return nil
	}

	if err := h.app.Session.RequestPasswordReset(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(out, "If that email exists, a reset code is on its way. Use: reset-password <code> <new-password>")
	return nil
}

// ---------------------------------------------------------------------------
// ResetPasswordHandler – reset-password <code> <new-password>
// ---------------------------------------------------------------------------

// ResetPasswordHandler completes a password reset.
type ResetPasswordHandler struct {
	app    *app.App
	logger *logrus.Logger
}

// NewResetPasswordHandler creates a new ResetPasswordHandler.
func NewResetPasswordHandler(a *app.App, logger *logrus.Logger) *ResetPasswordHandler {
	return &ResetPasswordHandler{app: a, logger: logger}
}

// Handle processes the reset-password command.
func (h *ResetPasswordHandler) Handle(ctx context.Context, out io.Writer, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(out, "Usage: reset-password <code> <new-password>")
		return nil
	}

	if err := h.app.Session.ResetPassword(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintln(out, "Password updated. You can log in now.")
	return nil
}

// ---------------------------------------------------------------------------
// LogoutHandler – logout
// ---------------------------------------------------------------------------

// LogoutHandler ends the session and closes the chat channel.
type LogoutHandler struct {
	app    *app.App
	logger *logrus.Logger
}

// NewLogoutHandler creates a new LogoutHandler.
func NewLogoutHandler(a *app.App, logger *logrus.Logger) *LogoutHandler {
	return &LogoutHandler{app: a, logger: logger}
}

// Handle processes the logout command.
func (h *LogoutHandler) Handle(ctx context.Context, out io.Writer, args []string) error {
	if err := h.app.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "Logged out.")
	return nil
}

// ---------------------------------------------------------------------------
// WhoamiHandler – whoami
// ---------------------------------------------------------------------------

// WhoamiHandler shows the current session.
type WhoamiHandler struct {
	app    *app.App
	logger *logrus.Logger
}

// NewWhoamiHandler creates a new WhoamiHandler.
func NewWhoamiHandler(a *app.App, logger *logrus.Logger) *WhoamiHandler {
	return &WhoamiHandler{app: a, logger: logger}
}

// Handle processes the whoami command.
func (h *WhoamiHandler) Handle(ctx context.Context, out io.Writer, args []string) error {
	user := h.app.Session.Current()
	if user == nil {
		fmt.Fprintln(out, "Not logged in.")
		return nil
	}
	fmt.Fprintf(out, "%s <%s>", user.DisplayName(), user.Email)
	if user.IsAdmin {
		fmt.Fprint(out, " [admin]")
	}
	if !user.IsVerified {
		fmt.Fprint(out, " [unverified]")
	}
	fmt.Fprintln(out)
	return nil
}
