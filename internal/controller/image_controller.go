package controller

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ai-imagestudio-be/internal/constant"
	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/pkg/serverutils"
	"ai-imagestudio-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IImageController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	Edit(ctx *fiber.Ctx) error
	ListGenerations(ctx *fiber.Ctx) error
	ShowGeneration(ctx *fiber.Ctx) error
	DeleteGeneration(ctx *fiber.Ctx) error
	ListEdits(ctx *fiber.Ctx) error
	DeleteEdit(ctx *fiber.Ctx) error
	Catalog(ctx *fiber.Ctx) error
}

type imageController struct {
	generationService service.IGenerationService
	editService       service.IEditService
}

// Client for pulling a source image when the edit request passes a URL
// instead of an upload.
var editFetchClient = &http.Client{Timeout: 30 * time.Second}

func NewImageController(generationService service.IGenerationService, editService service.IEditService) IImageController {
	return &imageController{
		generationService: generationService,
		editService:       editService,
	}
}

func (c *imageController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/image/v1")
	h.Get("/catalog", c.Catalog) // Public route, frontend needs it before login

	// Protected Routes
	h.Use(serverutils.JwtMiddleware)
	h.Post("/generate", c.Generate)
	h.Post("/edit", c.Edit)
	h.Get("/generations", c.ListGenerations)
	h.Get("/generations/:id", c.ShowGeneration)
	h.Delete("/generations/:id", c.DeleteGeneration)
	h.Get("/edits", c.ListEdits)
	h.Delete("/edits/:id", c.DeleteEdit)
}

// renderImageError maps workflow errors onto the wire. The 402 and 429
// cases carry their own body shape; everything else goes through the
// standard envelope via the error middleware.
func renderImageError(ctx *fiber.Ctx, err error) error {
	var insufficient *dto.InsufficientCreditsError
	if errors.As(err, &insufficient) {
		return ctx.Status(fiber.StatusPaymentRequired).JSON(dto.InsufficientCreditsResponse{
			Success:   false,
			Code:      fiber.StatusPaymentRequired,
			Message:   "Insufficient credits",
			ErrorType: "INSUFFICIENT_CREDITS",
			Data: dto.InsufficientCreditsData{
				Required:       insufficient.Required,
				Available:      insufficient.Available,
				ShowModalTopup: true,
			},
		})
	}

	var limited *dto.RateLimitedError
	if errors.As(err, &limited) {
		if limited.RetryAfterSeconds > 0 {
			ctx.Set(fiber.HeaderRetryAfter, strconv.Itoa(limited.RetryAfterSeconds))
		}
		return ctx.Status(fiber.StatusTooManyRequests).JSON(dto.RateLimitedResponse{
			Success:   false,
			Code:      fiber.StatusTooManyRequests,
			Message:   "Provider rate limit hit, try again shortly",
			ErrorType: "RATE_LIMITED",
			Data: dto.RateLimitedData{
				Provider:          limited.Provider,
				RetryAfterSeconds: limited.RetryAfterSeconds,
			},
		})
	}

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrQuotaExhausted),
		errors.Is(err, service.ErrGenerationFailed),
		errors.Is(err, service.ErrEditFailed):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return err
}

func (c *imageController) Generate(ctx *fiber.Ctx) error {
	// 1. Ambil User ID dari Token
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.GenerateImageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	// 2. Kirim userId ke Service
	res, err := c.generationService.Generate(ctx.Context(), userId, &req)
	if err != nil {
		return renderImageError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate image", res))
}

func (c *imageController) Edit(ctx *fiber.Ctx) error {
	// 1. Ambil User ID dari Token
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	input, err := c.resolveEditInput(ctx)
	if err != nil {
		return err
	}

	// 2. Kirim userId ke Service
	res, err := c.editService.Edit(ctx.Context(), userId, input)
	if err != nil {
		return renderImageError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success edit image", res))
}

// resolveEditInput accepts either a multipart upload or a JSON body with an
// image URL and normalizes both to raw bytes for the service.
func (c *imageController) resolveEditInput(ctx *fiber.Ctx) (*dto.EditImageInput, error) {
	contentType := ctx.Get(fiber.HeaderContentType)

	if strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		fileHeader, err := ctx.FormFile("image")
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "image file is required")
		}

		f, err := fileHeader.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return nil, err
		}

		return &dto.EditImageInput{
			Image:       data,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Mode:        ctx.FormValue("mode"),
		}, nil
	}

	var req dto.EditImageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return nil, err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}

	resp, err := editFetchClient.Get(req.ImageUrl)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "source image could not be fetched")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fiber.NewError(fiber.StatusBadRequest, "source image could not be fetched")
	}

	// Read one byte past the limit so the service can reject oversized
	// sources the same way it rejects oversized uploads.
	data, err := io.ReadAll(io.LimitReader(resp.Body, constant.MaxEditUploadBytes+1))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "source image could not be read")
	}

	return &dto.EditImageInput{
		Image:       data,
		ContentType: resp.Header.Get("Content-Type"),
		SourceUrl:   req.ImageUrl,
		Mode:        req.Mode,
	}, nil
}

func (c *imageController) ListGenerations(ctx *fiber.Ctx) error {
	// 1. Ambil User ID dari Token
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.HistoryListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return err
	}

	// 2. Kirim userId ke Service
	res, err := c.generationService.List(ctx.Context(), userId, &req)
	if err != nil {
		return renderImageError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list generations", res))
}

func (c *imageController) ShowGeneration(ctx *fiber.Ctx) error {
	// 1. Ambil User ID dari Token
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	// 2. Kirim userId ke Service
	res, err := c.generationService.Show(ctx.Context(), userId, id)
	if err != nil {
		return renderImageError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show generation", res))
}

func (c *imageController) DeleteGeneration(ctx *fiber.Ctx) error {
	// 1. Ambil User ID dari Token
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	// 2. Kirim userId ke Service
	err := c.generationService.Delete(ctx.Context(), userId, id)
	if err != nil {
		return renderImageError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete generation", nil))
}

func (c *imageController) ListEdits(ctx *fiber.Ctx) error {
	// 1. Ambil User ID dari Token
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.HistoryListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return err
	}

	// 2. Kirim userId ke Service
	res, err := c.editService.List(ctx.Context(), userId, &req)
	if err != nil {
		return renderImageError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list edits", res))
}

func (c *imageController) DeleteEdit(ctx *fiber.Ctx) error {
	// 1. Ambil User ID dari Token
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	// 2. Kirim userId ke Service
	err := c.editService.Delete(ctx.Context(), userId, id)
	if err != nil {
		return renderImageError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete edit", nil))
}

func (c *imageController) Catalog(ctx *fiber.Ctx) error {
	res := c.generationService.Catalog()
	return ctx.JSON(serverutils.SuccessResponse("Success fetching catalog", res))
}
