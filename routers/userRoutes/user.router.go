package userRoutes

import (
	"github.com/gofiber/fiber/v2"

	userController "coursehub/controllers/user"
	userValidator "coursehub/validators/user"
)

// SetupUserRoutes wires the account and session endpoints under /api/v1.
func SetupUserRoutes(app *fiber.App, auth fiber.Handler, ctrl *userController.Controller) {
	group := app.Group("/api/v1")

	// OTP-gated registration and login
	group.Post("/register", userValidator.Register(), ctrl.Register)
	group.Post("/verify-otp", userValidator.VerifyOTP(), ctrl.VerifyOTP)
	group.Post("/login", userValidator.Login(), ctrl.SignIn)
	group.Post("/verify-login-otp", userValidator.VerifyOTP(), ctrl.VerifyLoginOTP)
	group.Post("/register-superadmin", userValidator.Register(), ctrl.RegisterSuperAdmin)
	group.Post("/verify-superadmin", userValidator.VerifyOTP(), ctrl.VerifySuperAdmin)
	group.Post("/logout", ctrl.Logout)

	// Self-service account management, session required
	group.Get("/validate-token", auth, ctrl.ValidateToken)
	group.Get("/user", auth, ctrl.GetUser)
	group.Post("/update", auth, userValidator.UpdateUser(), ctrl.UpdateUser)
	group.Post("/update-email", auth, userValidator.UpdateEmail(), ctrl.UpdateEmail)
	group.Post("/validate-email-update", auth, userValidator.VerifyOTP(), ctrl.ValidateEmailUpdate)
	group.Get("/password-reset", auth, ctrl.PasswordReset)
	group.Post("/validate-password-reset", auth, userValidator.PasswordReset(), ctrl.ValidatePasswordReset)
}
