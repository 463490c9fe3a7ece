package handlers

import (
	"github.com/go-playground/validator/v10"
)

// Instância única do validator compartilhada pelos handlers
var validate = validator.New()
