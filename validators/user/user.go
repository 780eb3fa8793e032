package userValidator

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"coursehub/middleware"
)

var validate = validator.New()

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Name           string `json:"name"`
	Password       string `json:"password"`
	ProfilePicture string `json:"profile_picture"`
}

type UpdateEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetRequest struct {
	Password string `json:"password" validate:"required,min=8"`
	OTP      string `json:"otp" validate:"required,len=6"`
}

// Register validator middleware
func Register() fiber.Handler {
	return body[RegisterRequest]("validatedRegister")
}

// VerifyOTP validator middleware, shared by every code-submission endpoint
func VerifyOTP() fiber.Handler {
	return body[VerifyOTPRequest]("validatedVerifyOTP")
}

// Login validator middleware
func Login() fiber.Handler {
	return body[LoginRequest]("validatedLogin")
}

// UpdateUser validator middleware. Every field is optional; the handler keeps
// existing values for anything omitted.
func UpdateUser() fiber.Handler {
	return body[UpdateUserRequest]("validatedUpdateUser")
}

// UpdateEmail validator middleware
func UpdateEmail() fiber.Handler {
	return body[UpdateEmailRequest]("validatedUpdateEmail")
}

// PasswordReset validator middleware
func PasswordReset() fiber.Handler {
	return body[PasswordResetRequest]("validatedPasswordReset")
}

// body parses the request into T, validates it and stashes it in Locals for
// the controller.
func body[T any](localsKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(T)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.BadRequest("Invalid request body!")
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationError(err)
		}
		c.Locals(localsKey, reqData)
		return c.Next()
	}
}
