package userController_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"coursehub/config"
	userController "coursehub/controllers/user"
	"coursehub/middleware"
	"coursehub/models"
	"coursehub/repository"
	userRoutes "coursehub/routers/userRoutes"
)

type fakeMailer struct {
	lastEmail   string
	lastCode    string
	lastPurpose string
	failNext    bool
}

func (m *fakeMailer) SendOTP(toEmail, name, otp, purpose string) error {
	if m.failNext {
		m.failNext = false
		return fmt.Errorf("gateway unavailable")
	}
	m.lastEmail = toEmail
	m.lastCode = otp
	m.lastPurpose = purpose
	return nil
}

type fakeMedia struct {
	uploaded []string
	deleted  []string
}

func (m *fakeMedia) Upload(_ context.Context, source string) (string, error) {
	m.uploaded = append(m.uploaded, source)
	return fmt.Sprintf("https://cdn.test/object-%d", len(m.uploaded)), nil
}

func (m *fakeMedia) Delete(_ context.Context, objectURL string) error {
	m.deleted = append(m.deleted, objectURL)
	return nil
}

type testEnv struct {
	app    *fiber.App
	mailer *fakeMailer
	media  *fakeMedia
	users  repository.UserRepository
	otps   repository.OTPRepository
	cfg    *config.Config
	db     *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.UserProfile{}, &models.OTPRecord{},
		&models.Course{}, &models.Enrollment{},
	))

	cfg := &config.Config{JWTKey: "test-secret", SaltRound: bcrypt.MinCost}
	m := &fakeMailer{}
	store := &fakeMedia{}
	users := repository.NewUserRepository(db, cfg.SaltRound)
	otps := repository.NewOTPRepository(db)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	auth := middleware.AuthMiddleware(cfg.JWTKey)
	userRoutes.SetupUserRoutes(app, auth, userController.New(cfg, users, otps, m, store))

	return &testEnv{app: app, mailer: m, media: store, users: users, otps: otps, cfg: cfg, db: db}
}

func (env *testEnv) request(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func authCookie(resp *http.Response) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.AuthCookieName {
			return cookie
		}
	}
	return nil
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestRegisterAndVerifyFlow(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "POST", "/api/v1/register", fiber.Map{
		"name": "Al", "email": "a@x.com", "password": "secret-pw",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "a@x.com", env.mailer.lastEmail)
	require.Equal(t, "registration", env.mailer.lastPurpose)
	require.Len(t, env.mailer.lastCode, 6)

	// No account yet: it only exists once the code is verified
	_, err := env.users.FindByEmail("a@x.com")
	require.Error(t, err)

	resp = env.request(t, "POST", "/api/v1/verify-otp", fiber.Map{
		"email": "a@x.com", "otp": env.mailer.lastCode,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	cookie := authCookie(resp)
	require.NotNil(t, cookie)
	require.NotEmpty(t, cookie.Value)
	require.True(t, cookie.HttpOnly)

	user, err := env.users.FindByEmail("a@x.com")
	require.NoError(t, err)
	require.Equal(t, models.RoleUser, user.Role)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret-pw")))

	_, err = env.users.ProfileByUserID(user.ID)
	require.NoError(t, err)

	// One-time use: the record is consumed
	resp = env.request(t, "POST", "/api/v1/verify-otp", fiber.Map{
		"email": "a@x.com", "otp": env.mailer.lastCode,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterRejectsDuplicatePendingOTP(t *testing.T) {
	env := newTestEnv(t)

	payload := fiber.Map{"name": "Al", "email": "a@x.com", "password": "secret-pw"}
	resp := env.request(t, "POST", "/api/v1/register", payload)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, "POST", "/api/v1/register", payload)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "OTP already sent", decodeBody(t, resp)["errors"])
}

func TestRegisterRejectsExistingUser(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.users.Create("Al", "a@x.com", "secret-pw", models.RoleUser)
	require.NoError(t, err)

	resp := env.request(t, "POST", "/api/v1/register", fiber.Map{
		"name": "Al", "email": "a@x.com", "password": "secret-pw",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "User already exists", decodeBody(t, resp)["errors"])
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "POST", "/api/v1/register", fiber.Map{
		"name": "Al", "email": "not-an-email", "password": "short",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errs, ok := decodeBody(t, resp)["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 2)
}

func TestMailerFailureSurfacesAsBadGateway(t *testing.T) {
	env := newTestEnv(t)
	env.mailer.failNext = true

	resp := env.request(t, "POST", "/api/v1/register", fiber.Map{
		"name": "Al", "email": "a@x.com", "password": "secret-pw",
	})
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestLoginFlow(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.users.Create("Al", "a@x.com", "secret-pw", models.RoleUser)
	require.NoError(t, err)

	resp := env.request(t, "POST", "/api/v1/login", fiber.Map{
		"email": "a@x.com", "password": "wrong-password",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid credentials", decodeBody(t, resp)["errors"])

	resp = env.request(t, "POST", "/api/v1/login", fiber.Map{
		"email": "a@x.com", "password": "secret-pw",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "login", env.mailer.lastPurpose)

	resp = env.request(t, "POST", "/api/v1/verify-login-otp", fiber.Map{
		"email": "a@x.com", "otp": env.mailer.lastCode,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, authCookie(resp))
}

func TestVerifyLoginOTPWrongCode(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.users.Create("Al", "a@x.com", "secret-pw", models.RoleUser)
	require.NoError(t, err)

	resp := env.request(t, "POST", "/api/v1/login", fiber.Map{
		"email": "a@x.com", "password": "secret-pw",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, "POST", "/api/v1/verify-login-otp", fiber.Map{
		"email": "a@x.com", "otp": "000000",
	})
	if env.mailer.lastCode == "000000" {
		t.Skip("generated code collided with the probe value")
	}
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid OTP", decodeBody(t, resp)["errors"])
}

func TestValidateTokenRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "GET", "/api/v1/validate-token", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Unauthorized Access", decodeBody(t, resp)["errors"])
}

func TestValidateTokenReturnsIdentity(t *testing.T) {
	env := newTestEnv(t)
	user, err := env.users.Create("Al", "a@x.com", "secret-pw", models.RoleUser)
	require.NoError(t, err)

	token, err := middleware.GenerateJWT(user.ID, env.cfg.JWTKey)
	require.NoError(t, err)

	resp := env.request(t, "GET", "/api/v1/validate-token", nil,
		&http.Cookie{Name: middleware.AuthCookieName, Value: token})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, user.ID, decodeBody(t, resp)["userId"])
}

func TestSuperAdminRegistrationDoesNotAutoLogin(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "POST", "/api/v1/register-superadmin", fiber.Map{
		"name": "Root", "email": "root@x.com", "password": "secret-pw",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "superadmin registration", env.mailer.lastPurpose)

	resp = env.request(t, "POST", "/api/v1/verify-superadmin", fiber.Map{
		"email": "root@x.com", "otp": env.mailer.lastCode,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Nil(t, authCookie(resp))

	user, err := env.users.FindByEmail("root@x.com")
	require.NoError(t, err)
	require.Equal(t, models.RoleSuperAdmin, user.Role)
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)
	user, err := env.users.Create("Al", "a@x.com", "old-secret", models.RoleUser)
	require.NoError(t, err)

	token, err := middleware.GenerateJWT(user.ID, env.cfg.JWTKey)
	require.NoError(t, err)
	session := &http.Cookie{Name: middleware.AuthCookieName, Value: token}

	resp := env.request(t, "GET", "/api/v1/password-reset", nil, session)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "a@x.com", env.mailer.lastEmail)
	require.Equal(t, "password reset", env.mailer.lastPurpose)

	resp = env.request(t, "POST", "/api/v1/validate-password-reset", fiber.Map{
		"password": "new-secret-pw", "otp": env.mailer.lastCode,
	}, session)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	updated, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("new-secret-pw")))

	// The code was consumed; replaying it fails
	resp = env.request(t, "POST", "/api/v1/validate-password-reset", fiber.Map{
		"password": "another-pw", "otp": env.mailer.lastCode,
	}, session)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateEmailFlow(t *testing.T) {
	env := newTestEnv(t)
	user, err := env.users.Create("Al", "a@x.com", "secret-pw", models.RoleUser)
	require.NoError(t, err)

	token, err := middleware.GenerateJWT(user.ID, env.cfg.JWTKey)
	require.NoError(t, err)
	session := &http.Cookie{Name: middleware.AuthCookieName, Value: token}

	resp := env.request(t, "POST", "/api/v1/update-email", fiber.Map{"email": "a@x.com"}, session)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, "POST", "/api/v1/update-email", fiber.Map{"email": "new@x.com"}, session)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "new@x.com", env.mailer.lastEmail)

	resp = env.request(t, "POST", "/api/v1/validate-email-update", fiber.Map{
		"email": "new@x.com", "otp": env.mailer.lastCode,
	}, session)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	updated, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	require.Equal(t, "new@x.com", updated.Email)
}

func TestUpdateUserReplacesProfilePicture(t *testing.T) {
	env := newTestEnv(t)
	user, err := env.users.Create("Al", "a@x.com", "secret-pw", models.RoleUser)
	require.NoError(t, err)
	profile, err := env.users.ProfileByUserID(user.ID)
	require.NoError(t, err)
	require.NoError(t, env.users.UpdateProfilePicture(profile.ID, "https://cdn.test/old-object"))

	token, err := middleware.GenerateJWT(user.ID, env.cfg.JWTKey)
	require.NoError(t, err)
	session := &http.Cookie{Name: middleware.AuthCookieName, Value: token}

	resp := env.request(t, "POST", "/api/v1/update", fiber.Map{
		"name":            "Al Updated",
		"profile_picture": "https://example.com/new.png",
	}, session)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Equal(t, []string{"https://cdn.test/old-object"}, env.media.deleted)
	require.Len(t, env.media.uploaded, 1)

	updated, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	require.Equal(t, "Al Updated", updated.Name)
	// Omitted password keeps its value
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("secret-pw")))
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "POST", "/api/v1/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := authCookie(resp)
	require.NotNil(t, cookie)
	require.Empty(t, cookie.Value)
}
