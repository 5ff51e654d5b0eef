// services/auth_service.go
package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"regexp"
	"strings"
	"time"

	"tournament-management-system/models"
	"tournament-management-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const resetTokenTTL = 15 * time.Minute

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type AuthService struct {
	DB     *gorm.DB
	Tokens *TokenService
	Mail   Mailer
}

func NewAuthService(db *gorm.DB, tokens *TokenService, mail Mailer) *AuthService {
	return &AuthService{DB: db, Tokens: tokens, Mail: mail}
}

type SignupRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

func (r *SignupRequest) validate() error {
	switch {
	case strings.TrimSpace(r.Username) == "":
		return utils.ValidationError("username", "cannot be empty")
	case len(r.Username) < 3 || len(r.Username) > 50:
		return utils.ValidationError("username", "must be between 3 and 50 characters")
	case strings.TrimSpace(r.FirstName) == "":
		return utils.ValidationError("first_name", "cannot be empty")
	case strings.TrimSpace(r.LastName) == "":
		return utils.ValidationError("last_name", "cannot be empty")
	case !emailPattern.MatchString(r.Email):
		return utils.ValidationError("email", "must be a valid email address")
	case len(r.Password) < 6:
		return utils.ValidationError("password", "must be at least 6 characters")
	}
	return nil
}

// Health is a plain liveness probe for the mobile clients.
func (s *AuthService) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "UP",
		"timestamp": time.Now().Format(time.RFC3339),
		"message":   "API server is running",
	})
}

// Signup registers a new user. The email uniqueness check here is a
// convenience for friendly errors; the unique index on users.email is what
// actually closes the concurrent-signup race.
func (s *AuthService) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, utils.ValidationError("body", "must be valid JSON"))
	}
	if err := req.validate(); err != nil {
		return utils.ErrorResponse(c, err)
	}

	var count int64
	if err := s.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	if count > 0 {
		return utils.ErrorResponse(c, fmt.Errorf("%w: email is already taken", utils.ErrConflict))
	}

	digest, err := HashPassword(req.Password)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	now := time.Now()
	user := &models.User{
		Username:      req.Username,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Password:      digest,
		Phone:         req.Phone,
		Address:       req.Address,
		Role:          models.RoleUser,
		Status:        models.StatusActive,
		Avatar:        "https://api.dicebear.com/7.x/avataaars/svg?seed=" + req.FirstName,
		Notifications: true,
		WinPercentage: "0%",
		CreatedAt:     now,
		UpdatedAt:     now,
		LastLogin:     now,
	}

	if err := s.DB.Create(user).Error; err != nil {
		// unique index violation on username or email
		if isUniqueViolation(err) {
			return utils.ErrorResponse(c, fmt.Errorf("%w: username or email is already taken", utils.ErrConflict))
		}
		return utils.ErrorResponse(c, err)
	}

	log.Printf("[AUTH] user registered with ID %d", user.ID)
	return utils.Response(c, fiber.StatusCreated, "User registered successfully", user)
}

type LoginRequest struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
}

// Login verifies credentials and issues a bearer token. Unknown user and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, utils.ValidationError("body", "must be valid JSON"))
	}
	if strings.TrimSpace(req.UsernameOrEmail) == "" || req.Password == "" {
		return utils.ErrorResponse(c, utils.ValidationError("username_or_email and password", "cannot be empty"))
	}

	user, err := s.authenticate(req.UsernameOrEmail, req.Password)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	user.LastLogin = time.Now()
	if err := s.DB.Model(user).Update("last_login", user.LastLogin).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	token, err := s.Tokens.Issue(user.ID, user.Role)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	return utils.Response(c, fiber.StatusOK, "Login successful", fiber.Map{
		"access_token": token,
		"token_type":   "Bearer",
	})
}

// authenticate resolves the user by exact username or email match and checks
// the password. Both failure modes collapse into ErrInvalidCredentials.
func (s *AuthService) authenticate(usernameOrEmail, password string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("username = ? OR email = ?", usernameOrEmail, usernameOrEmail).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(password, user.Password) {
		return nil, utils.ErrInvalidCredentials
	}
	return &user, nil
}

// Me returns the profile of the authenticated user. The token may outlive
// the account, so a vanished user is a 404, not a 401.
func (s *AuthService) Me(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Current user", user)
}

type UpdateProfileRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Avatar    string `json:"avatar"`
}

// UpdateProfile applies a partial update: only non-empty fields overwrite.
// Changing username or email re-checks uniqueness against all other users.
func (s *AuthService) UpdateProfile(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, utils.ValidationError("body", "must be valid JSON"))
	}

	if req.Email != "" && req.Email != user.Email {
		if !emailPattern.MatchString(req.Email) {
			return utils.ErrorResponse(c, utils.ValidationError("email", "must be a valid email address"))
		}
		var count int64
		if err := s.DB.Model(&models.User{}).Where("email = ? AND id <> ?", req.Email, user.ID).Count(&count).Error; err != nil {
			return utils.ErrorResponse(c, err)
		}
		if count > 0 {
			return utils.ErrorResponse(c, fmt.Errorf("%w: email is already in use", utils.ErrConflict))
		}
		user.Email = req.Email
	}
	if req.Username != "" && req.Username != user.Username {
		if len(req.Username) < 3 || len(req.Username) > 50 {
			return utils.ErrorResponse(c, utils.ValidationError("username", "must be between 3 and 50 characters"))
		}
		var count int64
		if err := s.DB.Model(&models.User{}).Where("username = ? AND id <> ?", req.Username, user.ID).Count(&count).Error; err != nil {
			return utils.ErrorResponse(c, err)
		}
		if count > 0 {
			return utils.ErrorResponse(c, fmt.Errorf("%w: username is already in use", utils.ErrConflict))
		}
		user.Username = req.Username
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Address != "" {
		user.Address = req.Address
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}

	user.UpdatedAt = time.Now()
	if err := s.DB.Save(user).Error; err != nil {
		if isUniqueViolation(err) {
			return utils.ErrorResponse(c, fmt.Errorf("%w: username or email is already in use", utils.ErrConflict))
		}
		return utils.ErrorResponse(c, err)
	}

	return utils.Response(c, fiber.StatusOK, "Profile updated successfully", user)
}

// Logout is a stateless acknowledgement: tokens cannot be revoked server
// side, the client discards its copy.
func (s *AuthService) Logout(c *fiber.Ctx) error {
	c.Locals("user_id", nil)
	c.Locals("user_role", nil)
	return utils.Response(c, fiber.StatusOK, "Logged out successfully", nil)
}

// UploadAvatar stores a new profile picture in R2 and points the user's
// avatar field at the CDN URL.
func (s *AuthService) UploadAvatar(c *fiber.Ctx) error {
	if !utils.UploadsEnabled() {
		return utils.Response(c, fiber.StatusServiceUnavailable, "File uploads are not configured", nil)
	}
	user, err := s.currentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return utils.ErrorResponse(c, utils.ValidationError("avatar", "file is required"))
	}

	key := utils.UploadKey("users/avatars", user.Username, file.Filename)
	url, err := utils.UploadFileToR2(file, key)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	user.Avatar = url
	user.UpdatedAt = time.Now()
	if err := s.DB.Save(user).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Avatar updated", fiber.Map{"avatar": url})
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword issues a reset code when the email resolves to a user. The
// response is identical either way so callers cannot probe for accounts.
func (s *AuthService) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil || !emailPattern.MatchString(req.Email) {
		return utils.ErrorResponse(c, utils.ValidationError("email", "must be a valid email address"))
	}

	if err := s.createResetToken(req.Email); err != nil {
		return utils.ErrorResponse(c, err)
	}

	return utils.Response(c, fiber.StatusOK,
		"If the email address is registered, a verification code has been sent", nil)
}

// createResetToken persists a fresh 6-digit code for the email and hands it
// to the mailer. Unknown emails are silently skipped.
func (s *AuthService) createResetToken(email string) error {
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[AUTH] password reset requested for unknown email")
			return nil
		}
		return err
	}

	code, err := generateVerificationCode()
	if err != nil {
		return err
	}

	token := &models.PasswordResetToken{
		Email:            email,
		VerificationCode: code,
		ExpiryDate:       time.Now().Add(resetTokenTTL),
		CreatedAt:        time.Now(),
	}
	if err := s.DB.Create(token).Error; err != nil {
		return err
	}

	// Best-effort: the token is valid even if the email never arrives.
	if err := s.Mail.SendPasswordResetCode(email, code); err != nil {
		log.Printf("[MAIL] failed to send reset code: %v", err)
	}
	return nil
}

type VerifyResetCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// VerifyResetCode checks the (email, code) pair without consuming the token.
func (s *AuthService) VerifyResetCode(c *fiber.Ctx) error {
	var req VerifyResetCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, utils.ValidationError("body", "must be valid JSON"))
	}

	valid, err := s.verifyResetCode(req.Email, req.Code)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}
	msg := "Verification code is valid"
	if !valid {
		msg = "Verification code is invalid or expired"
	}
	return utils.Response(c, fiber.StatusOK, msg, fiber.Map{"valid": valid})
}

// verifyResetCode returns true iff an unused, unexpired token exists with
// that exact email and code. Ties break toward the newest token.
func (s *AuthService) verifyResetCode(email, code string) (bool, error) {
	token, err := s.latestResetToken(email, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return !token.IsExpired(), nil
}

func (s *AuthService) latestResetToken(email, code string) (*models.PasswordResetToken, error) {
	var token models.PasswordResetToken
	err := s.DB.
		Where("email = ? AND verification_code = ? AND used = ?", email, code, false).
		Order("created_at DESC").
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

type ResetPasswordRequest struct {
	Email           string `json:"email"`
	Code            string `json:"code"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ResetPassword consumes a verification code and sets a new password. The
// token is marked used inside the same transaction as the password write, so
// a code can never succeed twice.
func (s *AuthService) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, utils.ValidationError("body", "must be valid JSON"))
	}
	if len(req.NewPassword) < 6 {
		return utils.ErrorResponse(c, utils.ValidationError("new_password", "must be at least 6 characters"))
	}
	if req.NewPassword != req.ConfirmPassword {
		return utils.ErrorResponse(c, utils.ValidationError("confirm_password", "does not match new password"))
	}

	if err := s.resetPassword(req.Email, req.Code, req.NewPassword); err != nil {
		return utils.ErrorResponse(c, err)
	}

	// Confirmation is best-effort, like the code email.
	if err := s.Mail.SendPasswordResetConfirmation(req.Email); err != nil {
		log.Printf("[MAIL] failed to send reset confirmation: %v", err)
	}
	return utils.Response(c, fiber.StatusOK, "Password has been reset successfully", nil)
}

func (s *AuthService) resetPassword(email, code, newPassword string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var token models.PasswordResetToken
		err := tx.
			Where("email = ? AND verification_code = ? AND used = ?", email, code, false).
			Order("created_at DESC").
			First(&token).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ValidationError("code", "is invalid or expired")
			}
			return err
		}
		if token.IsExpired() {
			return utils.ValidationError("code", "is invalid or expired")
		}

		var user models.User
		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ValidationError("code", "is invalid or expired")
			}
			return err
		}

		digest, err := HashPassword(newPassword)
		if err != nil {
			return err
		}
		user.Password = digest
		user.UpdatedAt = time.Now()
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		token.Used = true
		return tx.Save(&token).Error
	})
}

// currentUser loads the user record behind the validated token in locals.
func (s *AuthService) currentUser(c *fiber.Ctx) (*models.User, error) {
	userID, ok := c.Locals("user_id").(uint)
	if !ok || userID == 0 {
		return nil, utils.ErrUnauthorized
	}
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", utils.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// generateVerificationCode draws a uniformly random 6-digit numeric code.
func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// isUniqueViolation matches unique-index errors from both postgres and the
// sqlite driver used in tests.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
