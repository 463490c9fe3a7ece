package database

import (
	"fmt"
	"time"

	"github.com/openfieldhq/openfield-collect-api/internal/domain/entities"
	"github.com/openfieldhq/openfield-collect-api/internal/domain/repositories"
	"gorm.io/gorm"
)

type seedQuestion struct {
	text       string
	qtype      string
	orderNo    int
	isRequired bool
}

type seedTemplate struct {
	name        string
	description string
	questions   []seedQuestion
}

// defaultTemplates são os templates embutidos disponíveis desde o primeiro boot
var defaultTemplates = []seedTemplate{
	{
		name:        "Facility Assessment",
		description: "Standard facility assessment checklist for routine visits.",
		questions: []seedQuestion{
			{"Facility type (e.g., Hospital, Clinic, PHC)", entities.QuestionTypeText, 1, true},
			{"Is the facility currently operational?", entities.QuestionTypeYesNo, 2, true},
			{"Number of staff currently on duty", entities.QuestionTypeNumber, 3, false},
			{"Top challenge observed today", entities.QuestionTypeText, 4, false},
		},
	},
	{
		name:        "Service Availability",
		description: "Quick service availability and basic capacity checks.",
		questions: []seedQuestion{
			{"Are essential medicines available today?", entities.QuestionTypeYesNo, 1, true},
			{"Is power supply available now?", entities.QuestionTypeYesNo, 2, true},
			{"Is clean water available today?", entities.QuestionTypeYesNo, 3, true},
			{"Average waiting time (minutes)", entities.QuestionTypeNumber, 4, false},
		},
	},
	{
		name:        "Patient Experience Quick Check",
		description: "Short patient experience snapshot for service improvement.",
		questions: []seedQuestion{
			{"Were patients treated respectfully today?", entities.QuestionTypeYesNo, 1, true},
			{"Were fees clearly explained?", entities.QuestionTypeYesNo, 2, false},
			{"Main patient complaint (if any)", entities.QuestionTypeText, 3, false},
		},
	},
}

// SeedDefaultTemplates cria os templates padrão de coleta. Idempotente:
// templates existentes são reaproveitados e perguntas só são semeadas quando
// o template ainda não tem nenhuma.
func SeedDefaultTemplates(db *gorm.DB) error {
	repo := repositories.NewTemplateRepository(db)

	for _, t := range defaultTemplates {
		tpl, err := repo.CreateTemplate(t.name, t.description)
		if err != nil {
			return fmt.Errorf("erro ao semear template %q: %w", t.name, err)
		}

		count, err := repo.CountQuestions(tpl.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		for _, q := range t.questions {
			question := entities.TemplateQuestion{
				TemplateID:   tpl.ID,
				QuestionText: q.text,
				QuestionType: q.qtype,
				OrderNo:      q.orderNo,
				IsRequired:   q.isRequired,
				CreatedAt:    time.Now(),
			}
			if err := repo.AddQuestion(&question); err != nil {
				return fmt.Errorf("erro ao semear pergunta do template %q: %w", t.name, err)
			}
		}
	}

	return nil
}
