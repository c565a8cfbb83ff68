// FILE: internal/controller/oauth_controller.go
package controller

import (
	"fmt"
	"log"
	"os"

	"ai-imagestudio-be/internal/pkg/serverutils"
	"ai-imagestudio-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
}

type oauthController struct {
	service service.IOAuthService
}

func NewOAuthController(service service.IOAuthService) IOAuthController {
	return &oauthController{service: service}
}

// Registered after the auth controller so the static /me route wins over
// the :provider parameter.
func (c *oauthController) RegisterRoutes(r fiber.Router) {
	// e.g., /auth/v1/google
	h := r.Group("/auth/v1")
	h.Get("/:provider", c.Login)
	h.Get("/:provider/callback", c.Callback)
}

func (c *oauthController) Login(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")
	redirectURI := ctx.Query("redirect_uri")
	log.Printf("[OAuth] Login initiated for provider: %s", provider)

	url, err := c.service.GetLoginURL(provider, redirectURI)
	if err != nil {
		log.Printf("[OAuth] ERROR - Failed to get login URL: %v", err)
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	log.Printf("[OAuth] Redirecting user to: %s", url)
	// Redirect user to Google
	return ctx.Redirect(url)
}

func (c *oauthController) Callback(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")
	code := ctx.Query("code")
	state := ctx.Query("state")

	log.Printf("[OAuth] Callback received for provider: %s", provider)

	if code == "" || state == "" {
		log.Printf("[OAuth] ERROR - Missing authorization code or state")
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Missing code or state"))
	}

	res, err := c.service.HandleCallback(ctx.Context(), provider, state, code)
	if err != nil {
		log.Printf("[OAuth] ERROR - HandleCallback failed: %v", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	log.Printf("[OAuth] ✅ User authenticated successfully")
	log.Printf("[OAuth] User ID: %s", res.Login.User.Id)
	log.Printf("[OAuth] User Email: %s", res.Login.User.Email)

	// Redirect to the frontend URI the flow was started from, with the
	// token in the URL. Falls back to the configured frontend root.
	target := res.RedirectURI
	if target == "" {
		frontendURL := os.Getenv("FRONTEND_URL")
		if frontendURL == "" {
			frontendURL = "http://localhost:5173" // fallback default
			log.Printf("[OAuth] WARNING - FRONTEND_URL not set in .env, using default: %s", frontendURL)
		}
		target = frontendURL + "/app"
	}

	redirectURL := fmt.Sprintf("%s?token=%s", target, res.Login.AccessToken)
	log.Printf("[OAuth] Redirecting to Frontend: %s?token=***", target)

	return ctx.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}
