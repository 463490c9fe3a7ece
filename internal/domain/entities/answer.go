package entities

import (
	"strings"
	"time"
)

// AnswerMissingSentinel é gravado no campo answer quando a pergunta foi pulada
const AnswerMissingSentinel = "__MISSING__"

// Proveniência da resposta
const (
	SourceObservation = "OBSERVATION"
	SourceInterview   = "INTERVIEW"
	SourceRecord      = "RECORD"
	SourceEstimate    = "ESTIMATE"
)

// Nível de confiança declarado pelo enumerador
const (
	ConfidenceHigh   = "HIGH"
	ConfidenceMedium = "MEDIUM"
	ConfidenceLow    = "LOW"
)

// Motivos aceitos para resposta ausente
const (
	MissingNotApplicable  = "NOT_APPLICABLE"
	MissingRefused        = "REFUSED"
	MissingUnavailable    = "UNAVAILABLE"
	MissingUnsure         = "UNSURE"
	MissingTimeConstraint = "TIME_CONSTRAINT"
)

// Enumerações fechadas validadas na borda da API
var (
	AllowedAnswerSources  = []string{SourceObservation, SourceInterview, SourceRecord, SourceEstimate}
	AllowedConfidences    = []string{ConfidenceHigh, ConfidenceMedium, ConfidenceLow}
	AllowedMissingReasons = []string{MissingNotApplicable, MissingRefused, MissingUnavailable, MissingUnsure, MissingTimeConstraint}
)

// SurveyAnswer representa uma resposta individual dentro de uma survey.
// TemplateQuestionID nulo indica resposta de survey manual; para respostas
// de template vale no máximo uma linha por (survey_id, template_question_id).
type SurveyAnswer struct {
	ID                 int64     `json:"id" gorm:"primaryKey;column:id"`
	SurveyID           int64     `json:"survey_id" gorm:"column:survey_id;index:idx_answers_survey"`
	TemplateQuestionID *int64    `json:"template_question_id" gorm:"column:template_question_id"`
	Question           string    `json:"question" gorm:"column:question"`
	Answer             string    `json:"answer" gorm:"column:answer"`
	AnswerSource       string    `json:"answer_source" gorm:"column:answer_source"`
	ConfidenceLevel    string    `json:"confidence_level" gorm:"column:confidence_level"`
	IsMissing          bool      `json:"is_missing" gorm:"column:is_missing;default:false"`
	MissingReason      string    `json:"missing_reason" gorm:"column:missing_reason"`
	CreatedAt          time.Time `json:"created_at" gorm:"column:created_at"`
}

func normalizeEnum(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

// NormalizeAnswerSource valida a proveniência contra a enumeração fechada
func NormalizeAnswerSource(v string) (string, bool) {
	n := normalizeEnum(v)
	for _, s := range AllowedAnswerSources {
		if n == s {
			return n, true
		}
	}
	return "", false
}

// NormalizeConfidence valida o nível de confiança contra a enumeração fechada
func NormalizeConfidence(v string) (string, bool) {
	n := normalizeEnum(v)
	for _, c := range AllowedConfidences {
		if n == c {
			return n, true
		}
	}
	return "", false
}

// NormalizeMissingReason valida o motivo de ausência contra a enumeração fechada
func NormalizeMissingReason(v string) (string, bool) {
	n := normalizeEnum(v)
	for _, r := range AllowedMissingReasons {
		if n == r {
			return n, true
		}
	}
	return "", false
}
