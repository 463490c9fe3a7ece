package handlers

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthHandler emite tokens de supervisor para as rotas protegidas
type AuthHandler struct{}

// NewAuthHandler cria uma nova instância de AuthHandler
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// loginRequest é o payload de login do supervisor
type loginRequest struct {
	AccessKey string `json:"access_key" validate:"required,min=1"`
	Name      string `json:"name" validate:"omitempty,max=200"`
}

// Login valida a chave de acesso do supervisor e emite um JWT de 24 horas
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Payload inválido"})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validação falhou: " + err.Error()})
	}

	accessKey := os.Getenv("SUPERVISOR_ACCESS_KEY")
	jwtSecret := os.Getenv("JWT_SECRET")
	if accessKey == "" || jwtSecret == "" {
		return c.Status(503).JSON(fiber.Map{"error": "Autenticação de supervisor não configurada"})
	}

	if req.AccessKey != accessKey {
		return c.Status(401).JSON(fiber.Map{"error": "Chave de acesso inválida"})
	}

	name := req.Name
	if name == "" {
		name = "supervisor"
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "supervisor",
		"name": name,
		"iat":  now.Unix(),
		"exp":  now.Add(24 * time.Hour).Unix(),
	})

	signed, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao assinar token: " + err.Error()})
	}

	return c.JSON(fiber.Map{
		"token":      signed,
		"expires_in": int64((24 * time.Hour).Seconds()),
	})
}
