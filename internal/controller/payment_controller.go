package controller

import (
	"errors"
	"fmt"

	"markethub-be/internal/dto"
	"markethub-be/internal/pkg/serverutils"
	"markethub-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	Checkout(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
	Reconcile(ctx *fiber.Ctx) error
	RenewSubscription(ctx *fiber.Ctx) error
	SubscriptionStatus(ctx *fiber.Ctx) error
}

type paymentController struct {
	service service.IPaymentService
}

func NewPaymentController(service service.IPaymentService) IPaymentController {
	return &paymentController{service: service}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/payment")
	h.Post("/midtrans/notification", c.Webhook)

	// Protected Routes
	h.Post("/checkout", serverutils.JwtMiddleware, c.Checkout)
	h.Post("/reconcile/:reference", serverutils.JwtMiddleware, c.Reconcile)
	h.Post("/subscription/renew", serverutils.JwtMiddleware, c.RenewSubscription)
	h.Get("/subscription", serverutils.JwtMiddleware, c.SubscriptionStatus)
}

func (c *paymentController) Checkout(ctx *fiber.Ctx) error {
	var req dto.CheckoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	res, err := c.service.Checkout(ctx.Context(), userId, &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Checkout created", res))
}

// Webhook receives gateway notifications. The raw body is kept byte-exact
// for signature verification; the parsed fields are advisory only.
func (c *paymentController) Webhook(ctx *fiber.Ctx) error {
	rawPayload := ctx.Body()
	signature := ctx.Get("X-Signature")

	err := c.service.HandleWebhook(ctx.Context(), rawPayload, signature)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSignature) {
			return ctx.SendStatus(fiber.StatusUnauthorized)
		}
		fmt.Printf("[WEBHOOK ERROR] Handling failed: %v\n", err)
		// Return 500 so the gateway will retry the notification
		return ctx.SendStatus(fiber.StatusInternalServerError)
	}

	return ctx.SendStatus(fiber.StatusOK)
}

// Reconcile lets support re-run a payment reference by hand. Applying it
// twice is harmless.
func (c *paymentController) Reconcile(ctx *fiber.Ctx) error {
	reference := ctx.Params("reference")
	if reference == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "reference is required"))
	}

	res, err := c.service.Reconcile(ctx.Context(), reference)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return ctx.Status(fiber.StatusBadGateway).JSON(serverutils.ErrorResponse(502, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Reconcile finished", res))
}

func (c *paymentController) RenewSubscription(ctx *fiber.Ctx) error {
	var req dto.RenewSubscriptionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	res, err := c.service.RenewSubscription(ctx.Context(), userId, &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription renewed", res))
}

func (c *paymentController) SubscriptionStatus(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	res, err := c.service.SubscriptionStatus(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription status", res))
}

func currentUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return uuid.Parse(userIdStr)
}
