// handlers/auth.go
package handlers

import (
	"tournament-management-system/middleware"
	"tournament-management-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, authService *services.AuthService) {
	auth := app.Group("/api/auth")

	// 🔓 Public routes
	auth.Get("/health", authService.Health)
	auth.Post("/signup", authService.Signup)
	auth.Post("/login", authService.Login)
	auth.Post("/forgot-password", authService.ForgotPassword)
	auth.Post("/verify-reset-code", authService.VerifyResetCode)
	auth.Post("/reset-password", authService.ResetPassword)

	// 🔐 Secured routes — require a valid Bearer token
	secured := auth.Group("/", middleware.AuthRequired(authService.Tokens))

	secured.Get("/me", authService.Me)
	secured.Put("/update-profile", authService.UpdateProfile)
	secured.Post("/logout", authService.Logout)
	secured.Put("/avatar", authService.UploadAvatar)
}
