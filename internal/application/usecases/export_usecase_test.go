package usecases

import (
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/openfieldhq/openfield-collect-api/internal/domain/entities"
	"github.com/openfieldhq/openfield-collect-api/internal/domain/repositories"
)

type fakeFacilityExportStore struct {
	facilities []entities.Facility
}

func (f *fakeFacilityExportStore) ListAllFacilities() ([]entities.Facility, error) {
	return f.facilities, nil
}

type fakeSurveyExportStore struct {
	surveys []entities.Survey
}

func (f *fakeSurveyExportStore) ListAllSurveys(limit int) ([]entities.Survey, error) {
	if limit > 0 && limit < len(f.surveys) {
		return f.surveys[:limit], nil
	}
	return f.surveys, nil
}

type fakeAnswerExportStore struct {
	answers map[int64][]entities.SurveyAnswer
	rows    []repositories.FlatExportRow
}

func (f *fakeAnswerExportStore) ListBySurvey(surveyID int64) ([]entities.SurveyAnswer, error) {
	return f.answers[surveyID], nil
}

func (f *fakeAnswerExportStore) FlatExportRows() ([]repositories.FlatExportRow, error) {
	return f.rows, nil
}

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("CSV inválido: %v", err)
	}
	return records
}

func TestBuildQAAlertsCSV(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	survey := completedSurvey(1, 100, "Amina")
	survey.CreatedAt = created

	quality := NewQualityUseCase(
		&fakeSurveyStore{surveys: []entities.Survey{survey}},
		&fakeAnswerStore{aggregates: map[int64]entities.AnswerAggregate{
			1: {Total: 10, Missing: 4, LowConf: 2, NoSource: 1, NoConf: 1},
		}},
		&fakeFacilityStore{names: map[int64]string{100: "General Hospital Ikeja"}},
	)
	uc := NewExportUseCase(quality, &fakeFacilityExportStore{}, &fakeSurveyExportStore{}, &fakeAnswerExportStore{})

	data, err := uc.BuildQAAlertsCSV(AlertParams{Thresholds: DefaultThresholds()})
	if err != nil {
		t.Fatalf("BuildQAAlertsCSV() error = %v", err)
	}

	records := parseCSV(t, data)
	if len(records) != 2 {
		t.Fatalf("linhas = %d, want cabeçalho + 1 alerta", len(records))
	}

	header := records[0]
	if header[0] != "survey_id" || header[len(header)-1] != "severity" {
		t.Errorf("cabeçalho inesperado: %v", header)
	}

	row := records[1]
	checks := map[int]string{
		0:  "1",                      // survey_id
		2:  "General Hospital Ikeja", // facility_name
		8:  "10",                     // total_answers
		9:  "4",                      // missing
		10: "40.0",                   // missing_pct
		11: "2",                      // low_confidence
		12: "20.0",                   // low_conf_pct
		13: "1",                      // no_source
		14: "10.0",                   // no_source_pct
		17: "MISSING; LOW_CONF; NO_SOURCE; NO_CONF",
		18: "80.0", // severity
	}
	for idx, want := range checks {
		if row[idx] != want {
			t.Errorf("coluna %d (%s) = %q, want %q", idx, header[idx], row[idx], want)
		}
	}
	if row[7] != created.Format(time.RFC3339) {
		t.Errorf("created_at = %q", row[7])
	}
}

func TestBuildFacilitiesCSV(t *testing.T) {
	uc := NewExportUseCase(nil, &fakeFacilityExportStore{facilities: []entities.Facility{
		{ID: 1, Name: "PHC Surulere", FacilityType: "PHC", LGA: "Surulere", State: "Lagos"},
	}}, &fakeSurveyExportStore{}, &fakeAnswerExportStore{})

	data, err := uc.BuildFacilitiesCSV()
	if err != nil {
		t.Fatalf("BuildFacilitiesCSV() error = %v", err)
	}

	records := parseCSV(t, data)
	if len(records) != 2 {
		t.Fatalf("linhas = %d, want 2", len(records))
	}
	if records[1][1] != "PHC Surulere" || records[1][4] != "Surulere" {
		t.Errorf("linha = %v", records[1])
	}
}

func TestBuildSurveysFlatCSV(t *testing.T) {
	answerID := int64(5)
	question := "Is power supply available now?"
	answer := "NO"
	isMissing := false
	answerCreated := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	uc := NewExportUseCase(nil, &fakeFacilityExportStore{}, &fakeSurveyExportStore{}, &fakeAnswerExportStore{
		rows: []repositories.FlatExportRow{
			{
				SurveyID:        1,
				FacilityName:    "PHC Surulere",
				SurveyType:      "Service Availability",
				EnumeratorName:  "Amina",
				Status:          entities.SurveyStatusCompleted,
				SurveyCreatedAt: answerCreated,
				AnswerID:        &answerID,
				Question:        &question,
				Answer:          &answer,
				IsMissing:       &isMissing,
				AnswerCreatedAt: &answerCreated,
			},
			{
				// Survey sem respostas sai com os campos de resposta vazios
				SurveyID:        2,
				FacilityName:    "General Hospital Ikeja",
				SurveyType:      "Manual Survey",
				EnumeratorName:  "Bola",
				Status:          entities.SurveyStatusDraft,
				SurveyCreatedAt: answerCreated,
			},
		},
	})

	data, err := uc.BuildSurveysFlatCSV()
	if err != nil {
		t.Fatalf("BuildSurveysFlatCSV() error = %v", err)
	}

	records := parseCSV(t, data)
	if len(records) != 3 {
		t.Fatalf("linhas = %d, want 3", len(records))
	}
	if records[1][7] != "5" || records[1][10] != "NO" || records[1][13] != "0" {
		t.Errorf("linha com resposta = %v", records[1])
	}
	if records[2][7] != "" || records[2][10] != "" || records[2][13] != "" {
		t.Errorf("linha sem resposta = %v", records[2])
	}
}

func TestExportSurveysJSON(t *testing.T) {
	facility := entities.Facility{ID: 1, Name: "PHC Surulere"}
	uc := NewExportUseCase(nil, &fakeFacilityExportStore{},
		&fakeSurveyExportStore{surveys: []entities.Survey{
			{ID: 2, FacilityID: 1, Facility: &facility, SurveyType: "Manual Survey", EnumeratorName: "Bola", Status: entities.SurveyStatusDraft},
			{ID: 1, FacilityID: 9, SurveyType: "Manual Survey", EnumeratorName: "Amina", Status: entities.SurveyStatusCompleted},
		}},
		&fakeAnswerExportStore{answers: map[int64][]entities.SurveyAnswer{
			2: {{ID: 10, SurveyID: 2, Question: "q", Answer: "a"}},
		}},
	)

	out, err := uc.ExportSurveysJSON(0)
	if err != nil {
		t.Fatalf("ExportSurveysJSON() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if out[0].Survey.FacilityName != "PHC Surulere" {
		t.Errorf("FacilityName = %q", out[0].Survey.FacilityName)
	}
	// Sem relação carregada o nome cai no traço
	if out[1].Survey.FacilityName != "-" {
		t.Errorf("FacilityName sem relação = %q, want -", out[1].Survey.FacilityName)
	}
	if len(out[0].Answers) != 1 || len(out[1].Answers) != 0 {
		t.Errorf("answers = %d/%d", len(out[0].Answers), len(out[1].Answers))
	}
}

func TestExportSurveyJSON_NotFound(t *testing.T) {
	quality := NewQualityUseCase(
		&fakeSurveyStore{},
		&fakeAnswerStore{},
		&fakeFacilityStore{},
	)
	uc := NewExportUseCase(quality, &fakeFacilityExportStore{}, &fakeSurveyExportStore{}, &fakeAnswerExportStore{})

	if _, err := uc.ExportSurveyJSON(42); !errors.Is(err, ErrSurveyNotFound) {
		t.Errorf("error = %v, want ErrSurveyNotFound", err)
	}
}
