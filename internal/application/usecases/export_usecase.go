package usecases

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/openfieldhq/openfield-collect-api/internal/domain/entities"
	"github.com/openfieldhq/openfield-collect-api/internal/domain/repositories"
)

// IFacilityExportStore é a visão do store de facilities usada pelos exports
type IFacilityExportStore interface {
	ListAllFacilities() ([]entities.Facility, error)
}

// ISurveyExportStore é a visão do store de surveys usada pelos exports
type ISurveyExportStore interface {
	ListAllSurveys(limit int) ([]entities.Survey, error)
}

// IAnswerExportStore é a visão do store de respostas usada pelos exports
type IAnswerExportStore interface {
	ListBySurvey(surveyID int64) ([]entities.SurveyAnswer, error)
	FlatExportRows() ([]repositories.FlatExportRow, error)
}

// ExportUseCase monta os exports CSV/JSON consumidos pelo supervisor
type ExportUseCase struct {
	quality       *QualityUseCase
	facilityStore IFacilityExportStore
	surveyStore   ISurveyExportStore
	answerStore   IAnswerExportStore
}

// NewExportUseCase cria uma nova instância de ExportUseCase
func NewExportUseCase(quality *QualityUseCase, facilityStore IFacilityExportStore, surveyStore ISurveyExportStore, answerStore IAnswerExportStore) *ExportUseCase {
	return &ExportUseCase{
		quality:       quality,
		facilityStore: facilityStore,
		surveyStore:   surveyStore,
		answerStore:   answerStore,
	}
}

// BuildQAAlertsCSV gera o CSV de alertas de QA com contagens e percentuais
// formatados com uma casa decimal
func (u *ExportUseCase) BuildQAAlertsCSV(params AlertParams) ([]byte, error) {
	alerts, err := u.quality.GetQAAlerts(params)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"survey_id", "facility_id", "facility_name",
		"template_id", "survey_type", "enumerator_name", "status", "created_at",
		"total_answers",
		"missing", "missing_pct",
		"low_confidence", "low_conf_pct",
		"no_source", "no_source_pct",
		"no_confidence", "no_conf_pct",
		"flags", "severity",
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("erro ao escrever cabeçalho do CSV de alertas: %w", err)
	}

	for _, a := range alerts {
		record := []string{
			strconv.FormatInt(a.SurveyID, 10),
			strconv.FormatInt(a.FacilityID, 10),
			a.FacilityName,
			formatNullableID(a.TemplateID),
			a.SurveyType,
			a.EnumeratorName,
			a.Status,
			a.CreatedAt.Format(time.RFC3339),
			strconv.FormatInt(a.TotalAnswers, 10),
			strconv.FormatInt(a.Missing, 10),
			fmt.Sprintf("%.1f", a.MissingPct),
			strconv.FormatInt(a.LowConfidence, 10),
			fmt.Sprintf("%.1f", a.LowConfPct),
			strconv.FormatInt(a.NoSource, 10),
			fmt.Sprintf("%.1f", a.NoSourcePct),
			strconv.FormatInt(a.NoConfidence, 10),
			fmt.Sprintf("%.1f", a.NoConfPct),
			strings.Join(a.Flags, "; "),
			fmt.Sprintf("%.1f", a.Severity),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("erro ao escrever linha do CSV de alertas: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildFacilitiesCSV gera o CSV de todas as facilities
func (u *ExportUseCase) BuildFacilitiesCSV() ([]byte, error) {
	facilities, err := u.facilityStore.ListAllFacilities()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"id", "name", "facility_type", "address",
		"lga", "state", "contact_name", "contact_phone", "created_at",
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("erro ao escrever cabeçalho do CSV de facilities: %w", err)
	}

	for _, f := range facilities {
		record := []string{
			strconv.FormatInt(f.ID, 10),
			f.Name,
			f.FacilityType,
			f.Address,
			f.LGA,
			f.State,
			f.ContactName,
			f.ContactPhone,
			f.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("erro ao escrever linha do CSV de facilities: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildSurveysFlatCSV gera o CSV plano de surveys e respostas (uma linha por
// resposta; surveys sem respostas aparecem com os campos de resposta vazios)
func (u *ExportUseCase) BuildSurveysFlatCSV() ([]byte, error) {
	rows, err := u.answerStore.FlatExportRows()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"survey_id", "facility_name", "template_id",
		"survey_type", "enumerator_name", "status",
		"survey_created_at", "answer_id",
		"template_question_id", "question", "answer",
		"answer_source", "confidence_level",
		"is_missing", "missing_reason",
		"answer_created_at",
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("erro ao escrever cabeçalho do CSV plano: %w", err)
	}

	for _, r := range rows {
		record := []string{
			strconv.FormatInt(r.SurveyID, 10),
			r.FacilityName,
			formatNullableID(r.TemplateID),
			r.SurveyType,
			r.EnumeratorName,
			r.Status,
			r.SurveyCreatedAt.Format(time.RFC3339),
			formatNullableID(r.AnswerID),
			formatNullableID(r.TemplateQuestionID),
			stringOrEmpty(r.Question),
			stringOrEmpty(r.Answer),
			stringOrEmpty(r.AnswerSource),
			stringOrEmpty(r.ConfidenceLevel),
			formatNullableBool(r.IsMissing),
			stringOrEmpty(r.MissingReason),
			formatNullableTime(r.AnswerCreatedAt),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("erro ao escrever linha do CSV plano: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportedSurveyHeader é o cabeçalho de survey no export JSON
type ExportedSurveyHeader struct {
	ID             int64     `json:"id"`
	FacilityID     int64     `json:"facility_id"`
	FacilityName   string    `json:"facility_name"`
	TemplateID     *int64    `json:"template_id"`
	SurveyType     string    `json:"survey_type"`
	EnumeratorName string    `json:"enumerator_name"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// ExportedSurvey é uma survey aninhada com suas respostas no export JSON
type ExportedSurvey struct {
	Survey  ExportedSurveyHeader    `json:"survey"`
	Answers []entities.SurveyAnswer `json:"answers"`
}

// ExportSurveysJSON monta o export JSON estruturado das surveys mais recentes
func (u *ExportUseCase) ExportSurveysJSON(limit int) ([]ExportedSurvey, error) {
	surveys, err := u.surveyStore.ListAllSurveys(limit)
	if err != nil {
		return nil, err
	}

	output := make([]ExportedSurvey, 0, len(surveys))
	for _, s := range surveys {
		answers, err := u.answerStore.ListBySurvey(s.ID)
		if err != nil {
			return nil, err
		}
		output = append(output, ExportedSurvey{
			Survey:  exportHeader(s),
			Answers: answers,
		})
	}
	return output, nil
}

// ExportSurveyJSON monta o export JSON de uma única survey.
// Retorna ErrSurveyNotFound quando o id não existe.
func (u *ExportUseCase) ExportSurveyJSON(surveyID int64) (ExportedSurvey, error) {
	details, err := u.quality.GetSurveyDetails(surveyID)
	if err != nil {
		return ExportedSurvey{}, err
	}

	header := exportHeader(details.Survey)
	header.FacilityName = details.FacilityName

	return ExportedSurvey{
		Survey:  header,
		Answers: details.Answers,
	}, nil
}

func exportHeader(s entities.Survey) ExportedSurveyHeader {
	facilityName := "-"
	if s.Facility != nil && s.Facility.Name != "" {
		facilityName = s.Facility.Name
	}
	return ExportedSurveyHeader{
		ID:             s.ID,
		FacilityID:     s.FacilityID,
		FacilityName:   facilityName,
		TemplateID:     s.TemplateID,
		SurveyType:     s.SurveyType,
		EnumeratorName: s.EnumeratorName,
		Status:         s.Status,
		CreatedAt:      s.CreatedAt,
	}
}

func formatNullableID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatNullableBool(b *bool) string {
	if b == nil {
		return ""
	}
	if *b {
		return "1"
	}
	return "0"
}

func formatNullableTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
