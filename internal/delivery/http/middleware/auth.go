package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/report-microservice/internal/domain"
	"github.com/report-microservice/internal/domain/repository"
	"github.com/report-microservice/internal/pkg/errors"
	"github.com/report-microservice/internal/pkg/utils"
)

const userLocalsKey = "current_user"

// Auth - middleware аутентификации: валидирует Bearer-токен сессии
// и кладёт пользователя в locals запроса
func Auth(sessionRepo repository.SessionRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return utils.SendError(c, errors.ErrUnauthorized)
		}

		user, err := sessionRepo.GetCurrentUser(c.Context(), token)
		if err != nil {
			return utils.SendError(c, err)
		}

		c.Locals(userLocalsKey, user)
		return c.Next()
	}
}

// CurrentUser возвращает пользователя, положенного Auth-middleware
func CurrentUser(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals(userLocalsKey).(*domain.User)
	return user
}
