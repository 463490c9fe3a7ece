package usecases

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/openfieldhq/openfield-collect-api/internal/domain/entities"
)

// Erros de domínio do fluxo de coleta; os repositórios retornam estes
// sentinels quando o id não existe
var (
	ErrFacilityNotFound = entities.ErrFacilityNotFound
	ErrTemplateNotFound = entities.ErrTemplateNotFound
	ErrQuestionNotFound = entities.ErrQuestionNotFound
)

// ISurveyWriter é a visão de escrita do store de surveys usada pelo fluxo de coleta
type ISurveyWriter interface {
	CreateSurvey(s *entities.Survey) error
	GetSurveyByID(id int64) (entities.Survey, error)
	FilterSurveys(status string, templateID int64, enumerator string, limit int) ([]entities.Survey, error)
	DraftsForEnumerator(enumerator string, limit int) ([]entities.Survey, error)
	CompleteSurvey(id int64) error
}

// IAnswerWriter é a visão de escrita do store de respostas
type IAnswerWriter interface {
	AddAnswer(a *entities.SurveyAnswer) error
	UpsertTemplateAnswer(a *entities.SurveyAnswer) error
}

// IFacilityResolver resolve facilities por id ou por nome (get-or-create)
type IFacilityResolver interface {
	GetFacilityByID(id int64) (entities.Facility, error)
	GetOrCreateByName(name string) (entities.Facility, error)
}

// ITemplateReader é a visão de leitura do store de templates
type ITemplateReader interface {
	GetTemplate(id int64) (entities.SurveyTemplate, error)
	GetQuestion(questionID int64) (entities.TemplateQuestion, error)
}

// SurveyUseCase implementa os casos de uso do fluxo de coleta do enumerador
type SurveyUseCase struct {
	surveyStore   ISurveyWriter
	answerStore   IAnswerWriter
	facilityStore IFacilityResolver
	templateStore ITemplateReader
}

// NewSurveyUseCase cria uma nova instância de SurveyUseCase
func NewSurveyUseCase(surveyStore ISurveyWriter, answerStore IAnswerWriter, facilityStore IFacilityResolver, templateStore ITemplateReader) *SurveyUseCase {
	return &SurveyUseCase{
		surveyStore:   surveyStore,
		answerStore:   answerStore,
		facilityStore: facilityStore,
		templateStore: templateStore,
	}
}

// CreateSurveyInput parametriza a criação de uma survey.
// FacilityID tem precedência; sem id, FacilityName resolve por get-or-create.
// TemplateID preenchido cria survey de template (o nome do template vira o
// survey_type); nulo cria survey manual com o título informado.
type CreateSurveyInput struct {
	FacilityID     int64
	FacilityName   string
	TemplateID     *int64
	SurveyTitle    string
	EnumeratorName string
}

// CreateSurvey cria o cabeçalho de uma survey em status DRAFT
func (u *SurveyUseCase) CreateSurvey(input CreateSurveyInput) (entities.Survey, error) {
	enumerator := strings.TrimSpace(input.EnumeratorName)
	if enumerator == "" {
		return entities.Survey{}, fmt.Errorf("enumerator_name é obrigatório")
	}

	var facility entities.Facility
	var err error
	if input.FacilityID > 0 {
		facility, err = u.facilityStore.GetFacilityByID(input.FacilityID)
		if err != nil {
			return entities.Survey{}, err
		}
	} else {
		name := strings.TrimSpace(input.FacilityName)
		if name == "" {
			return entities.Survey{}, fmt.Errorf("facility_id ou facility_name é obrigatório")
		}
		facility, err = u.facilityStore.GetOrCreateByName(name)
		if err != nil {
			return entities.Survey{}, err
		}
	}

	surveyType := strings.TrimSpace(input.SurveyTitle)
	if input.TemplateID != nil {
		tpl, err := u.templateStore.GetTemplate(*input.TemplateID)
		if err != nil {
			return entities.Survey{}, err
		}
		// Nome do template vira o survey_type para relatórios limpos
		surveyType = tpl.Name
	} else if surveyType == "" {
		surveyType = "Manual Survey"
	}

	survey := entities.Survey{
		FacilityID:     facility.ID,
		TemplateID:     input.TemplateID,
		SurveyType:     surveyType,
		EnumeratorName: enumerator,
		Status:         entities.SurveyStatusDraft,
		CreatedAt:      time.Now(),
	}
	if err := u.surveyStore.CreateSurvey(&survey); err != nil {
		return entities.Survey{}, err
	}
	return survey, nil
}

// AddManualAnswer adiciona uma resposta livre a uma survey manual (append-only)
func (u *SurveyUseCase) AddManualAnswer(surveyID int64, question, answer string) (entities.SurveyAnswer, error) {
	if _, err := u.surveyStore.GetSurveyByID(surveyID); err != nil {
		return entities.SurveyAnswer{}, err
	}

	q := strings.TrimSpace(question)
	a := strings.TrimSpace(answer)
	if q == "" {
		return entities.SurveyAnswer{}, fmt.Errorf("question é obrigatória")
	}
	if a == "" {
		return entities.SurveyAnswer{}, fmt.Errorf("answer é obrigatória")
	}

	row := entities.SurveyAnswer{
		SurveyID:  surveyID,
		Question:  q,
		Answer:    a,
		CreatedAt: time.Now(),
	}
	if err := u.answerStore.AddAnswer(&row); err != nil {
		return entities.SurveyAnswer{}, err
	}
	return row, nil
}

// TemplateAnswerInput parametriza a resposta de uma pergunta de template
type TemplateAnswerInput struct {
	Answer          string
	AnswerSource    string
	ConfidenceLevel string
}

// AnswerTemplateQuestion grava (upsert) a resposta de uma pergunta de
// template, validando o valor conforme o tipo da pergunta. Proveniência e
// confiança fora da enumeração caem nos defaults INTERVIEW e MEDIUM.
func (u *SurveyUseCase) AnswerTemplateQuestion(surveyID, questionID int64, input TemplateAnswerInput) (entities.SurveyAnswer, error) {
	if _, err := u.surveyStore.GetSurveyByID(surveyID); err != nil {
		return entities.SurveyAnswer{}, err
	}

	question, err := u.templateStore.GetQuestion(questionID)
	if err != nil {
		return entities.SurveyAnswer{}, err
	}

	cleaned, err := ValidateAnswerByType(question.QuestionType, input.Answer)
	if err != nil {
		return entities.SurveyAnswer{}, err
	}

	source, ok := entities.NormalizeAnswerSource(input.AnswerSource)
	if !ok {
		source = entities.SourceInterview
	}
	confidence, ok := entities.NormalizeConfidence(input.ConfidenceLevel)
	if !ok {
		confidence = entities.ConfidenceMedium
	}

	row := entities.SurveyAnswer{
		SurveyID:           surveyID,
		TemplateQuestionID: &question.ID,
		Question:           question.QuestionText,
		Answer:             cleaned,
		AnswerSource:       source,
		ConfidenceLevel:    confidence,
		CreatedAt:          time.Now(),
	}
	if err := u.answerStore.UpsertTemplateAnswer(&row); err != nil {
		return entities.SurveyAnswer{}, err
	}
	return row, nil
}

// SkipTemplateQuestion marca uma pergunta de template como não obtida,
// gravando o sentinel de ausência e o motivo validado (default UNAVAILABLE)
func (u *SurveyUseCase) SkipTemplateQuestion(surveyID, questionID int64, missingReason string) (entities.SurveyAnswer, error) {
	if _, err := u.surveyStore.GetSurveyByID(surveyID); err != nil {
		return entities.SurveyAnswer{}, err
	}

	question, err := u.templateStore.GetQuestion(questionID)
	if err != nil {
		return entities.SurveyAnswer{}, err
	}

	reason, ok := entities.NormalizeMissingReason(missingReason)
	if !ok {
		reason = entities.MissingUnavailable
	}

	row := entities.SurveyAnswer{
		SurveyID:           surveyID,
		TemplateQuestionID: &question.ID,
		Question:           question.QuestionText,
		Answer:             entities.AnswerMissingSentinel,
		IsMissing:          true,
		MissingReason:      reason,
		CreatedAt:          time.Now(),
	}
	if err := u.answerStore.UpsertTemplateAnswer(&row); err != nil {
		return entities.SurveyAnswer{}, err
	}
	return row, nil
}

// CompleteSurvey marca uma survey como COMPLETED (transição unidirecional)
func (u *SurveyUseCase) CompleteSurvey(surveyID int64) error {
	if _, err := u.surveyStore.GetSurveyByID(surveyID); err != nil {
		return err
	}
	return u.surveyStore.CompleteSurvey(surveyID)
}

// FilterSurveys lista surveys com filtros opcionais, mais recentes primeiro
func (u *SurveyUseCase) FilterSurveys(status string, templateID int64, enumerator string, limit int) ([]entities.Survey, error) {
	return u.surveyStore.FilterSurveys(strings.ToUpper(strings.TrimSpace(status)), templateID, strings.TrimSpace(enumerator), limit)
}

// DraftsForEnumerator lista os rascunhos de um enumerador
func (u *SurveyUseCase) DraftsForEnumerator(enumerator string, limit int) ([]entities.Survey, error) {
	enumerator = strings.TrimSpace(enumerator)
	if enumerator == "" {
		return []entities.Survey{}, nil
	}
	return u.surveyStore.DraftsForEnumerator(enumerator, limit)
}

// ValidateAnswerByType valida e normaliza a resposta conforme o tipo da pergunta:
// YESNO aceita yes/y/true/1 e no/n/false/0; NUMBER precisa parsear como número;
// TEXT exige valor não vazio
func ValidateAnswerByType(questionType, raw string) (string, error) {
	v := strings.TrimSpace(raw)

	switch entities.NormalizeQuestionType(questionType) {
	case entities.QuestionTypeYesNo:
		switch strings.ToLower(v) {
		case "yes", "y", "true", "1":
			return "YES", nil
		case "no", "n", "false", "0":
			return "NO", nil
		}
		return "", fmt.Errorf("resposta YESNO inválida: %q", raw)

	case entities.QuestionTypeNumber:
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return "", fmt.Errorf("resposta NUMBER inválida: %q", raw)
		}
		return v, nil

	default:
		if v == "" {
			return "", fmt.Errorf("resposta é obrigatória")
		}
		return v, nil
	}
}
