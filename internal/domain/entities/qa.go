package entities

import (
	"time"
)

// Flags de qualidade atribuídas quando o percentual correspondente
// atinge ou ultrapassa o threshold configurado
const (
	FlagMissing      = "MISSING"
	FlagLowConf      = "LOW_CONF"
	FlagNoSource     = "NO_SOURCE"
	FlagNoConfidence = "NO_CONF"
)

// QASummary é o resumo fixo de qualidade de uma survey (somente contagens, sem thresholds)
type QASummary struct {
	TotalAnswers       int `json:"total_answers"`
	MissingCount       int `json:"missing_count"`
	LowConfidenceCount int `json:"low_confidence_count"`
	NoSourceCount      int `json:"no_source_count"`
	NoConfidenceCount  int `json:"no_confidence_count"`
}

// AnswerAggregate são as contagens agregadas de respostas de uma survey
// (ou da união de surveys de um enumerador)
type AnswerAggregate struct {
	Total    int64 `json:"total"`
	Missing  int64 `json:"missing"`
	LowConf  int64 `json:"low_conf"`
	NoSource int64 `json:"no_source"`
	NoConf   int64 `json:"no_conf"`
}

// QAAlert é um registro derivado, nunca persistido: uma survey cujas métricas
// de qualidade cruzaram os thresholds. Recalculado a cada consulta.
type QAAlert struct {
	SurveyID       int64     `json:"survey_id"`
	FacilityID     int64     `json:"facility_id"`
	FacilityName   string    `json:"facility_name"`
	TemplateID     *int64    `json:"template_id"`
	SurveyType     string    `json:"survey_type"`
	EnumeratorName string    `json:"enumerator_name"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`

	TotalAnswers int64 `json:"total_answers"`

	Missing       int64 `json:"missing"`
	LowConfidence int64 `json:"low_confidence"`
	NoSource      int64 `json:"no_source"`
	NoConfidence  int64 `json:"no_confidence"`

	MissingPct  float64 `json:"missing_pct"`
	LowConfPct  float64 `json:"low_conf_pct"`
	NoSourcePct float64 `json:"no_source_pct"`
	NoConfPct   float64 `json:"no_conf_pct"`

	Flags    []string `json:"flags"`
	Severity float64  `json:"severity"`
}

// EnumeratorPerformance é o mesmo formato do QAAlert agrupado por enumerador,
// calculado sobre a união das respostas de todas as surveys do enumerador
type EnumeratorPerformance struct {
	EnumeratorName string `json:"enumerator_name"`
	SurveyCount    int64  `json:"survey_count"`
	TotalAnswers   int64  `json:"total_answers"`

	Missing       int64 `json:"missing"`
	LowConfidence int64 `json:"low_confidence"`
	NoSource      int64 `json:"no_source"`
	NoConfidence  int64 `json:"no_confidence"`

	MissingPct  float64 `json:"missing_pct"`
	LowConfPct  float64 `json:"low_conf_pct"`
	NoSourcePct float64 `json:"no_source_pct"`
	NoConfPct   float64 `json:"no_conf_pct"`

	Flags    []string `json:"flags"`
	Severity float64  `json:"severity"`
}
