package userController

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"coursehub/config"
	"coursehub/mailer"
	"coursehub/media"
	"coursehub/middleware"
	"coursehub/models"
	"coursehub/repository"
	"coursehub/utils"

	userValidator "coursehub/validators/user"
)

type Controller struct {
	cfg    *config.Config
	users  repository.UserRepository
	otps   repository.OTPRepository
	mailer mailer.Mailer
	media  media.Store
}

func New(cfg *config.Config, users repository.UserRepository, otps repository.OTPRepository, m mailer.Mailer, store media.Store) *Controller {
	return &Controller{cfg: cfg, users: users, otps: otps, mailer: m, media: store}
}

// Register starts the signup flow: issue an OTP with the pending name and
// password stashed alongside it. The account is only created on verification.
func (ctrl *Controller) Register(c *fiber.Ctx) error {
	reqData := c.Locals("validatedRegister").(*userValidator.RegisterRequest)

	if _, err := ctrl.users.FindByEmail(reqData.Email); err == nil {
		return middleware.BadRequest("User already exists")
	}

	// Only the registration flow rejects a duplicate pending code.
	pending, err := ctrl.otps.PendingExists(reqData.Email)
	if err != nil {
		return err
	}
	if pending {
		return middleware.BadRequest("OTP already sent")
	}

	return ctrl.issueOTP(c, reqData.Email, reqData.Name, "registration", &models.OTPPayload{
		Name:     reqData.Name,
		Password: reqData.Password,
	})
}

// VerifyOTP finishes registration: match the code, create the user with its
// profile, consume the record and start a session.
func (ctrl *Controller) VerifyOTP(c *fiber.Ctx) error {
	reqData := c.Locals("validatedVerifyOTP").(*userValidator.VerifyOTPRequest)

	record, err := ctrl.otps.Verify(reqData.Email, reqData.OTP)
	if err != nil {
		return middleware.BadRequest("Invalid OTP")
	}
	payload, err := record.DecodePayload()
	if err != nil {
		return err
	}

	user, err := ctrl.users.Create(payload.Name, reqData.Email, payload.Password, models.RoleUser)
	if err != nil {
		return err
	}
	if err := ctrl.otps.Consume(reqData.Email, reqData.OTP); err != nil {
		return err
	}

	if err := ctrl.startSession(c, user.ID); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User Registered"})
}

// SignIn checks credentials and issues a login OTP. The session only starts
// once the code is verified.
func (ctrl *Controller) SignIn(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLogin").(*userValidator.LoginRequest)

	user, err := ctrl.users.FindByEmail(reqData.Email)
	if err != nil {
		return middleware.BadRequest("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.BadRequest("Invalid credentials")
	}

	return ctrl.issueOTP(c, user.Email, user.Name, "login", nil)
}

func (ctrl *Controller) VerifyLoginOTP(c *fiber.Ctx) error {
	reqData := c.Locals("validatedVerifyOTP").(*userValidator.VerifyOTPRequest)

	if _, err := ctrl.otps.Verify(reqData.Email, reqData.OTP); err != nil {
		return middleware.BadRequest("Invalid OTP")
	}
	if err := ctrl.otps.Consume(reqData.Email, reqData.OTP); err != nil {
		return err
	}

	user, err := ctrl.users.FindByEmail(reqData.Email)
	if err != nil {
		return middleware.BadRequest("Invalid OTP")
	}

	if err := ctrl.startSession(c, user.ID); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "User login successful"})
}

func (ctrl *Controller) Logout(c *fiber.Ctx) error {
	middleware.ClearAuthCookie(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Logged out"})
}

// ValidateToken returns the authenticated identity resolved by the auth
// middleware.
func (ctrl *Controller) ValidateToken(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"userId": userID})
}

func (ctrl *Controller) GetUser(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	user, err := ctrl.users.FindByID(userID)
	if err != nil {
		return middleware.BadRequest("User not found")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}

// UpdateUser patches name, password and profile picture. Omitted fields keep
// their existing values; a new picture replaces the stored media asset.
func (ctrl *Controller) UpdateUser(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	reqData := c.Locals("validatedUpdateUser").(*userValidator.UpdateUserRequest)

	if _, err := ctrl.users.FindByID(userID); err != nil {
		return middleware.BadRequest("User not found")
	}
	profile, err := ctrl.users.ProfileByUserID(userID)
	if err != nil {
		return middleware.BadRequest("User not found")
	}

	if reqData.Name != "" {
		if err := ctrl.users.UpdateName(userID, reqData.Name); err != nil {
			return err
		}
	}
	if reqData.Password != "" {
		if err := ctrl.users.UpdatePassword(userID, reqData.Password); err != nil {
			return err
		}
	}
	if reqData.ProfilePicture != "" {
		if profile.ProfilePicture != "" {
			if err := ctrl.media.Delete(c.Context(), profile.ProfilePicture); err != nil {
				log.Printf("Error deleting previous profile picture: %v", err)
			}
		}
		url, err := ctrl.media.Upload(c.Context(), reqData.ProfilePicture)
		if err != nil {
			return middleware.BadGateway("Failed to store profile picture")
		}
		if err := ctrl.users.UpdateProfilePicture(profile.ID, url); err != nil {
			return err
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "User Updated Successfully"})
}

// UpdateEmail issues an OTP to the new address; the change applies on
// ValidateEmailUpdate.
func (ctrl *Controller) UpdateEmail(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	reqData := c.Locals("validatedUpdateEmail").(*userValidator.UpdateEmailRequest)

	user, err := ctrl.users.FindByID(userID)
	if err != nil {
		return middleware.BadRequest("User not found")
	}
	if user.Email == reqData.Email {
		return middleware.BadRequest("Email already exists")
	}

	return ctrl.issueOTP(c, reqData.Email, user.Name, "email update", nil)
}

func (ctrl *Controller) ValidateEmailUpdate(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	reqData := c.Locals("validatedVerifyOTP").(*userValidator.VerifyOTPRequest)

	if _, err := ctrl.otps.Verify(reqData.Email, reqData.OTP); err != nil {
		return middleware.BadRequest("Invalid OTP")
	}
	if err := ctrl.users.UpdateEmail(userID, reqData.Email); err != nil {
		return err
	}
	if err := ctrl.otps.Consume(reqData.Email, reqData.OTP); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Email updated successfully"})
}

// PasswordReset issues an OTP to the account's own email.
func (ctrl *Controller) PasswordReset(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	user, err := ctrl.users.FindByID(userID)
	if err != nil {
		return middleware.BadRequest("User not found")
	}

	return ctrl.issueOTP(c, user.Email, user.Name, "password reset", nil)
}

func (ctrl *Controller) ValidatePasswordReset(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	reqData := c.Locals("validatedPasswordReset").(*userValidator.PasswordResetRequest)

	user, err := ctrl.users.FindByID(userID)
	if err != nil {
		return middleware.BadRequest("User not found")
	}
	if _, err := ctrl.otps.Verify(user.Email, reqData.OTP); err != nil {
		return middleware.BadRequest("Invalid OTP")
	}

	// Plain password in, hashed exactly once inside the repository.
	if err := ctrl.users.UpdatePassword(userID, reqData.Password); err != nil {
		return err
	}
	if err := ctrl.otps.Consume(user.Email, reqData.OTP); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Password updated successfully"})
}

// RegisterSuperAdmin mirrors Register for the SUPERADMIN role.
func (ctrl *Controller) RegisterSuperAdmin(c *fiber.Ctx) error {
	reqData := c.Locals("validatedRegister").(*userValidator.RegisterRequest)

	if _, err := ctrl.users.FindByEmail(reqData.Email); err == nil {
		return middleware.BadRequest("User already exists")
	}

	return ctrl.issueOTP(c, reqData.Email, reqData.Name, "superadmin registration", &models.OTPPayload{
		Name:     reqData.Name,
		Password: reqData.Password,
	})
}

// VerifySuperAdmin registers the superadmin account but does not start a
// session; the new superadmin logs in through the normal flow.
func (ctrl *Controller) VerifySuperAdmin(c *fiber.Ctx) error {
	reqData := c.Locals("validatedVerifyOTP").(*userValidator.VerifyOTPRequest)

	record, err := ctrl.otps.Verify(reqData.Email, reqData.OTP)
	if err != nil {
		return middleware.BadRequest("Invalid OTP")
	}
	payload, err := record.DecodePayload()
	if err != nil {
		return err
	}

	if _, err := ctrl.users.Create(payload.Name, reqData.Email, payload.Password, models.RoleSuperAdmin); err != nil {
		return err
	}
	if err := ctrl.otps.Consume(reqData.Email, reqData.OTP); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "SuperAdmin Registered Successfully"})
}

// issueOTP generates a code, persists it and mails it. A gateway failure is
// surfaced to the caller as a 502; the stale record falls to the sweeper.
func (ctrl *Controller) issueOTP(c *fiber.Ctx, email, name, purpose string, payload *models.OTPPayload) error {
	code, err := utils.GenerateOTP()
	if err != nil {
		return err
	}
	if _, err := ctrl.otps.Issue(email, code, payload); err != nil {
		return err
	}
	if err := ctrl.mailer.SendOTP(email, name, code, purpose); err != nil {
		log.Printf("Error sending OTP email to %s: %v", email, err)
		return middleware.BadGateway("Failed to send OTP email")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "OTP sent to your " + email})
}

// startSession mints the session token and sets the auth cookie.
func (ctrl *Controller) startSession(c *fiber.Ctx, userID uint) error {
	token, err := middleware.GenerateJWT(userID, ctrl.cfg.JWTKey)
	if err != nil {
		return err
	}
	middleware.SetAuthCookie(c, token, ctrl.cfg.IsProduction())
	return nil
}
