package usecases

import (
	"fmt"
	"strings"
	"time"

	"github.com/openfieldhq/openfield-collect-api/internal/domain/entities"
	"github.com/openfieldhq/openfield-collect-api/internal/domain/repositories"
	"github.com/openfieldhq/openfield-collect-api/internal/infrastructure/cache"
)

// TTL do cache de perguntas de template; invalidação explícita ao adicionar pergunta
const templateQuestionsCacheTTL = 5 * time.Minute

// TemplateUseCase implementa os casos de uso relacionados a templates de survey
type TemplateUseCase struct {
	templateRepo *repositories.TemplateRepository
	cache        *cache.Cache
}

// NewTemplateUseCase cria uma nova instância de TemplateUseCase
func NewTemplateUseCase(templateRepo *repositories.TemplateRepository, c *cache.Cache) *TemplateUseCase {
	return &TemplateUseCase{
		templateRepo: templateRepo,
		cache:        c,
	}
}

// CreateTemplate cria (ou reutiliza, por nome) um template
func (u *TemplateUseCase) CreateTemplate(name, description string) (entities.SurveyTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return entities.SurveyTemplate{}, fmt.Errorf("name é obrigatório")
	}
	return u.templateRepo.CreateTemplate(name, strings.TrimSpace(description))
}

// ListTemplates lista os templates em ordem alfabética
func (u *TemplateUseCase) ListTemplates(limit int) ([]entities.SurveyTemplate, error) {
	return u.templateRepo.ListTemplates(limit)
}

// GetTemplate busca um template pelo id; ErrTemplateNotFound quando ausente
func (u *TemplateUseCase) GetTemplate(id int64) (entities.SurveyTemplate, error) {
	tpl, err := u.templateRepo.GetTemplate(id)
	if err != nil {
		return entities.SurveyTemplate{}, err
	}
	return tpl, nil
}

// AddQuestion adiciona uma pergunta a um template e invalida o cache de perguntas
func (u *TemplateUseCase) AddQuestion(templateID int64, questionText, questionType string, orderNo int, isRequired bool) (entities.TemplateQuestion, error) {
	if _, err := u.templateRepo.GetTemplate(templateID); err != nil {
		return entities.TemplateQuestion{}, err
	}

	text := strings.TrimSpace(questionText)
	if text == "" {
		return entities.TemplateQuestion{}, fmt.Errorf("question_text é obrigatório")
	}

	if orderNo <= 0 {
		orderNo = 1
	}

	question := entities.TemplateQuestion{
		TemplateID:   templateID,
		QuestionText: text,
		QuestionType: entities.NormalizeQuestionType(questionType),
		OrderNo:      orderNo,
		IsRequired:   isRequired,
		CreatedAt:    time.Now(),
	}
	if err := u.templateRepo.AddQuestion(&question); err != nil {
		return entities.TemplateQuestion{}, err
	}

	u.cache.Delete(questionsCacheKey(templateID))
	return question, nil
}

// GetTemplateQuestions retorna as perguntas ordenadas de um template.
// As perguntas são lidas a cada upsert de resposta do enumerador, então o
// resultado fica em cache com TTL curto.
func (u *TemplateUseCase) GetTemplateQuestions(templateID int64) ([]entities.TemplateQuestion, error) {
	key := questionsCacheKey(templateID)
	if cached, found := u.cache.Get(key); found {
		if questions, ok := cached.([]entities.TemplateQuestion); ok {
			return questions, nil
		}
	}

	if _, err := u.templateRepo.GetTemplate(templateID); err != nil {
		return nil, err
	}

	questions, err := u.templateRepo.GetTemplateQuestions(templateID)
	if err != nil {
		return nil, err
	}

	u.cache.Set(key, questions, templateQuestionsCacheTTL)
	return questions, nil
}

func questionsCacheKey(templateID int64) string {
	return fmt.Sprintf("template_questions:%d", templateID)
}
