package utils

import (
	"os"
	"time"
)

// FieldTimezone retorna o nome do timezone das equipes de campo.
// O padrão é Lagos (UTC+1); SURVEY_TZ sobrescreve. Usado tanto para datar
// relatórios quanto para configurar as sessões de banco.
func FieldTimezone() string {
	if tz := os.Getenv("SURVEY_TZ"); tz != "" {
		return tz
	}
	return "Africa/Lagos"
}

// GetFieldLocation retorna a localização das equipes de campo. Esta função
// deve ser usada em todo o projeto para datar relatórios e exports,
// garantindo consistência com o dia de trabalho dos enumeradores.
func GetFieldLocation() *time.Location {
	fieldLocation, err := time.LoadLocation(FieldTimezone())
	if err != nil {
		// Fallback para UTC+1 se não conseguir carregar a localização
		fieldLocation = time.FixedZone("WAT", 1*60*60)
	}
	return fieldLocation
}
