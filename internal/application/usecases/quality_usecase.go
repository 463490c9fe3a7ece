package usecases

import (
	"fmt"
	"sort"
	"strings"

	"github.com/openfieldhq/openfield-collect-api/internal/domain/entities"
)

// ErrSurveyNotFound indica que o id de survey não existe no store
var ErrSurveyNotFound = entities.ErrSurveyNotFound

// Thresholds e limites padrão do dashboard de alertas
const (
	DefaultStatusFilter      = entities.SurveyStatusCompleted
	DefaultMissingThreshold  = 20.0
	DefaultLowConfThreshold  = 20.0
	DefaultNoSourceThreshold = 10.0
	DefaultNoConfThreshold   = 10.0
	DefaultAlertLimit        = 50
)

// AlertThresholds são os quatro thresholds percentuais do motor de alertas
type AlertThresholds struct {
	MissingPct  float64
	LowConfPct  float64
	NoSourcePct float64
	NoConfPct   float64
}

// DefaultThresholds retorna os thresholds padrão (20, 20, 10, 10)
func DefaultThresholds() AlertThresholds {
	return AlertThresholds{
		MissingPct:  DefaultMissingThreshold,
		LowConfPct:  DefaultLowConfThreshold,
		NoSourcePct: DefaultNoSourceThreshold,
		NoConfPct:   DefaultNoConfThreshold,
	}
}

// AlertParams parametriza uma varredura do motor de alertas
type AlertParams struct {
	StatusFilter string
	Thresholds   AlertThresholds
	Limit        int
}

// ISurveyStore é a visão do store de surveys que o motor de qualidade precisa
type ISurveyStore interface {
	FindByStatus(status string) ([]entities.Survey, error)
	GetSurveyByID(id int64) (entities.Survey, error)
	CountSurveys(status string) (int64, error)
}

// IAnswerStore é a visão do store de respostas que o motor de qualidade precisa
type IAnswerStore interface {
	AggregateBySurvey(surveyID int64) (entities.AnswerAggregate, error)
	ListBySurvey(surveyID int64) ([]entities.SurveyAnswer, error)
}

// IFacilityNameStore resolve nomes de exibição de facilities
type IFacilityNameStore interface {
	NameByID(id int64) (string, bool, error)
	CountFacilities() (int64, error)
}

// QualityUseCase implementa o motor de alertas de QA, o resumo de qualidade
// por survey e a agregação de desempenho por enumerador. Toda a computação é
// leitura pura: nada é persistido, os alertas são recalculados a cada consulta.
type QualityUseCase struct {
	surveyStore   ISurveyStore
	answerStore   IAnswerStore
	facilityStore IFacilityNameStore
}

// NewQualityUseCase cria uma nova instância de QualityUseCase
func NewQualityUseCase(surveyStore ISurveyStore, answerStore IAnswerStore, facilityStore IFacilityNameStore) *QualityUseCase {
	return &QualityUseCase{
		surveyStore:   surveyStore,
		answerStore:   answerStore,
		facilityStore: facilityStore,
	}
}

// ComputeQualitySummary calcula o resumo fixo de qualidade de uma survey a
// partir da lista completa de respostas. Redução pura, determinística e
// independente de ordem; lista vazia produz resumo todo zero.
func ComputeQualitySummary(answers []entities.SurveyAnswer) entities.QASummary {
	summary := entities.QASummary{
		TotalAnswers: len(answers),
	}

	for _, a := range answers {
		if a.IsMissing {
			summary.MissingCount++
		}

		conf := strings.TrimSpace(a.ConfidenceLevel)
		if strings.EqualFold(conf, entities.ConfidenceLow) {
			summary.LowConfidenceCount++
		}
		if conf == "" {
			summary.NoConfidenceCount++
		}

		if strings.TrimSpace(a.AnswerSource) == "" {
			summary.NoSourceCount++
		}
	}

	return summary
}

// NormalizeAlertParams aplica os defaults e normaliza o filtro de status
func NormalizeAlertParams(p AlertParams) AlertParams {
	p.StatusFilter = strings.ToUpper(strings.TrimSpace(p.StatusFilter))
	if p.StatusFilter == "" {
		p.StatusFilter = DefaultStatusFilter
	}
	if p.Limit <= 0 {
		p.Limit = DefaultAlertLimit
	}
	return p
}

// metricPct calcula o percentual de uma métrica sobre o total (total > 0)
func metricPct(count, total int64) float64 {
	return float64(count) * 100.0 / float64(total)
}

// applyFlags testa cada percentual contra seu threshold (comparação >=) e
// devolve as flags na ordem fixa MISSING, LOW_CONF, NO_SOURCE, NO_CONF
func applyFlags(missingPct, lowConfPct, noSourcePct, noConfPct float64, t AlertThresholds) []string {
	var flags []string
	if missingPct >= t.MissingPct {
		flags = append(flags, entities.FlagMissing)
	}
	if lowConfPct >= t.LowConfPct {
		flags = append(flags, entities.FlagLowConf)
	}
	if noSourcePct >= t.NoSourcePct {
		flags = append(flags, entities.FlagNoSource)
	}
	if noConfPct >= t.NoConfPct {
		flags = append(flags, entities.FlagNoConfidence)
	}
	return flags
}

// GetQAAlerts varre as surveys com o status filtrado, calcula os percentuais
// de qualidade de cada uma, aplica as regras de flag e devolve os alertas
// ordenados por severidade decrescente (empate: survey id decrescente),
// truncados ao limite.
//
// Surveys sem respostas são puladas (não avaliáveis); surveys sem nenhuma
// flag não são reportadas. Severidade é a soma crua dos quatro percentuais.
func (uc *QualityUseCase) GetQAAlerts(params AlertParams) ([]entities.QAAlert, error) {
	params = NormalizeAlertParams(params)

	surveys, err := uc.surveyStore.FindByStatus(params.StatusFilter)
	if err != nil {
		return nil, fmt.Errorf("erro ao varrer surveys para alertas: %w", err)
	}

	alerts := make([]entities.QAAlert, 0, len(surveys))

	for _, s := range surveys {
		agg, err := uc.answerStore.AggregateBySurvey(s.ID)
		if err != nil {
			return nil, fmt.Errorf("erro ao agregar respostas da survey %d: %w", s.ID, err)
		}

		// Survey sem respostas não é avaliável
		if agg.Total == 0 {
			continue
		}

		missingPct := metricPct(agg.Missing, agg.Total)
		lowConfPct := metricPct(agg.LowConf, agg.Total)
		noSourcePct := metricPct(agg.NoSource, agg.Total)
		noConfPct := metricPct(agg.NoConf, agg.Total)

		flags := applyFlags(missingPct, lowConfPct, noSourcePct, noConfPct, params.Thresholds)
		if len(flags) == 0 {
			continue
		}

		facilityName, found, err := uc.facilityStore.NameByID(s.FacilityID)
		if err != nil {
			return nil, err
		}
		if !found {
			facilityName = "-"
		}

		alerts = append(alerts, entities.QAAlert{
			SurveyID:       s.ID,
			FacilityID:     s.FacilityID,
			FacilityName:   facilityName,
			TemplateID:     s.TemplateID,
			SurveyType:     s.SurveyType,
			EnumeratorName: s.EnumeratorName,
			Status:         s.Status,
			CreatedAt:      s.CreatedAt,
			TotalAnswers:   agg.Total,
			Missing:        agg.Missing,
			LowConfidence:  agg.LowConf,
			NoSource:       agg.NoSource,
			NoConfidence:   agg.NoConf,
			MissingPct:     missingPct,
			LowConfPct:     lowConfPct,
			NoSourcePct:    noSourcePct,
			NoConfPct:      noConfPct,
			Flags:          flags,
			Severity:       missingPct + lowConfPct + noSourcePct + noConfPct,
		})
	}

	// Varredura vem em id desc; o sort estável preserva id desc nos empates
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Severity > alerts[j].Severity
	})

	if len(alerts) > params.Limit {
		alerts = alerts[:params.Limit]
	}

	return alerts, nil
}

// GetEnumeratorPerformance agrupa a mesma varredura por enumerador: os
// percentuais são calculados sobre a união das respostas de todas as surveys
// do enumerador com o status filtrado. Mesmas regras de skip, flags e
// severidade; empate de severidade resolvido por nome ascendente.
func (uc *QualityUseCase) GetEnumeratorPerformance(params AlertParams) ([]entities.EnumeratorPerformance, error) {
	params = NormalizeAlertParams(params)

	surveys, err := uc.surveyStore.FindByStatus(params.StatusFilter)
	if err != nil {
		return nil, fmt.Errorf("erro ao varrer surveys por enumerador: %w", err)
	}

	type accum struct {
		surveys int64
		agg     entities.AnswerAggregate
	}

	totals := make(map[string]*accum)
	for _, s := range surveys {
		agg, err := uc.answerStore.AggregateBySurvey(s.ID)
		if err != nil {
			return nil, fmt.Errorf("erro ao agregar respostas da survey %d: %w", s.ID, err)
		}

		acc, ok := totals[s.EnumeratorName]
		if !ok {
			acc = &accum{}
			totals[s.EnumeratorName] = acc
		}
		acc.surveys++
		acc.agg.Total += agg.Total
		acc.agg.Missing += agg.Missing
		acc.agg.LowConf += agg.LowConf
		acc.agg.NoSource += agg.NoSource
		acc.agg.NoConf += agg.NoConf
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]entities.EnumeratorPerformance, 0, len(names))
	for _, name := range names {
		acc := totals[name]
		if acc.agg.Total == 0 {
			continue
		}

		missingPct := metricPct(acc.agg.Missing, acc.agg.Total)
		lowConfPct := metricPct(acc.agg.LowConf, acc.agg.Total)
		noSourcePct := metricPct(acc.agg.NoSource, acc.agg.Total)
		noConfPct := metricPct(acc.agg.NoConf, acc.agg.Total)

		flags := applyFlags(missingPct, lowConfPct, noSourcePct, noConfPct, params.Thresholds)
		if len(flags) == 0 {
			continue
		}

		results = append(results, entities.EnumeratorPerformance{
			EnumeratorName: name,
			SurveyCount:    acc.surveys,
			TotalAnswers:   acc.agg.Total,
			Missing:        acc.agg.Missing,
			LowConfidence:  acc.agg.LowConf,
			NoSource:       acc.agg.NoSource,
			NoConfidence:   acc.agg.NoConf,
			MissingPct:     missingPct,
			LowConfPct:     lowConfPct,
			NoSourcePct:    noSourcePct,
			NoConfPct:      noConfPct,
			Flags:          flags,
			Severity:       missingPct + lowConfPct + noSourcePct + noConfPct,
		})
	}

	// Entrada ordenada por nome; o sort estável preserva nome asc nos empates
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Severity > results[j].Severity
	})

	if len(results) > params.Limit {
		results = results[:params.Limit]
	}

	return results, nil
}

// SurveyDetails é a tripla (cabeçalho, respostas ordenadas, resumo de QA)
// consumida por API, UI e exports
type SurveyDetails struct {
	Survey       entities.Survey         `json:"survey"`
	FacilityName string                  `json:"facility_name"`
	Answers      []entities.SurveyAnswer `json:"answers"`
	QA           entities.QASummary      `json:"qa"`
}

// GetSurveyDetails monta a tripla de detalhe de uma survey.
// Retorna ErrSurveyNotFound quando o id não existe.
func (uc *QualityUseCase) GetSurveyDetails(surveyID int64) (SurveyDetails, error) {
	survey, err := uc.surveyStore.GetSurveyByID(surveyID)
	if err != nil {
		return SurveyDetails{}, err
	}

	answers, err := uc.answerStore.ListBySurvey(surveyID)
	if err != nil {
		return SurveyDetails{}, fmt.Errorf("erro ao buscar respostas da survey %d: %w", surveyID, err)
	}

	facilityName, found, err := uc.facilityStore.NameByID(survey.FacilityID)
	if err != nil {
		return SurveyDetails{}, err
	}
	if !found {
		facilityName = "-"
	}

	return SurveyDetails{
		Survey:       survey,
		FacilityName: facilityName,
		Answers:      answers,
		QA:           ComputeQualitySummary(answers),
	}, nil
}

// DashboardCounts é o resumo do dashboard do supervisor
type DashboardCounts struct {
	Facilities       int64              `json:"facilities"`
	Surveys          int64              `json:"surveys"`
	CompletedSurveys int64              `json:"completed_surveys"`
	TopAlerts        []entities.QAAlert `json:"top_alerts"`
}

// GetSupervisorDashboard retorna as contagens gerais e os 10 alertas mais severos
func (uc *QualityUseCase) GetSupervisorDashboard() (DashboardCounts, error) {
	facilities, err := uc.facilityStore.CountFacilities()
	if err != nil {
		return DashboardCounts{}, err
	}

	surveys, err := uc.surveyStore.CountSurveys("")
	if err != nil {
		return DashboardCounts{}, err
	}

	completed, err := uc.surveyStore.CountSurveys(entities.SurveyStatusCompleted)
	if err != nil {
		return DashboardCounts{}, err
	}

	topAlerts, err := uc.GetQAAlerts(AlertParams{Thresholds: DefaultThresholds(), Limit: 10})
	if err != nil {
		return DashboardCounts{}, err
	}

	return DashboardCounts{
		Facilities:       facilities,
		Surveys:          surveys,
		CompletedSurveys: completed,
		TopAlerts:        topAlerts,
	}, nil
}
