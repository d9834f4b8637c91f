package middleware

import (
	"time"

	"petshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// BasketCookie names the cookie carrying the visitor's basket ID.
const BasketCookie = "basket_id"

// ResolveBasket resolves the visitor's current open basket once per request
// and exposes its ID via locals, so handlers and services work with an
// explicit basket handle rather than ambient session state. A cookie
// pointing at a processed or missing basket is cleared. Must run after
// AuthOptional so authenticated visitors fall back to their account basket.
func ResolveBasket(basketService *services.BasketService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if basketID := c.Cookies(BasketCookie); basketID != "" {
			if basket, err := basketService.GetBasket(basketID); err == nil {
				c.Locals(BasketCookie, basket.ID)
				return c.Next()
			}
			// Stale pointer: the basket was processed or never existed.
			c.ClearCookie(BasketCookie)
		}

		if userID := UserID(c); userID != "" {
			if basket, err := basketService.GetUserBasket(userID); err == nil {
				c.Locals(BasketCookie, basket.ID)
				SetBasketCookie(c, basket.ID)
			}
		}

		return c.Next()
	}
}

// SetBasketCookie points the visitor's session at the given basket.
func SetBasketCookie(c *fiber.Ctx, basketID string) {
	c.Cookie(&fiber.Cookie{
		Name:     BasketCookie,
		Value:    basketID,
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// BasketID returns the resolved basket ID for the request, empty when the
// visitor has no open basket yet.
func BasketID(c *fiber.Ctx) string {
	if id, ok := c.Locals(BasketCookie).(string); ok {
		return id
	}
	return ""
}
