package middleware

import (
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// RequireSupervisor valida o JWT de supervisor do header Authorization.
// Tokens assinados com algoritmo diferente de HS256 são rejeitados.
func RequireSupervisor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		jwtSecret := os.Getenv("JWT_SECRET")
		if jwtSecret == "" {
			return c.Status(503).JSON(fiber.Map{"error": "Autenticação de supervisor não configurada"})
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Token de autenticação ausente"})
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" || tokenString == authHeader {
			return c.Status(401).JSON(fiber.Map{"error": "Header Authorization malformado"})
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("método de assinatura inesperado: %v", t.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(401).JSON(fiber.Map{"error": "Token inválido ou expirado"})
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if name, ok := claims["name"].(string); ok {
				c.Locals("supervisor_name", name)
			}
		}

		return c.Next()
	}
}
