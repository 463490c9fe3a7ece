package usecases

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/openfieldhq/openfield-collect-api/internal/domain/entities"
)

// fakeSurveyStore serve surveys em memória na ordem configurada (id desc).
// failWith, quando setado, simula uma falha de infraestrutura do store.
type fakeSurveyStore struct {
	surveys  []entities.Survey
	failWith error
}

func (f *fakeSurveyStore) FindByStatus(status string) ([]entities.Survey, error) {
	var out []entities.Survey
	for _, s := range f.surveys {
		if s.Status == status {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSurveyStore) GetSurveyByID(id int64) (entities.Survey, error) {
	if f.failWith != nil {
		return entities.Survey{}, f.failWith
	}
	for _, s := range f.surveys {
		if s.ID == id {
			return s, nil
		}
	}
	return entities.Survey{}, entities.ErrSurveyNotFound
}

func (f *fakeSurveyStore) CountSurveys(status string) (int64, error) {
	var count int64
	for _, s := range f.surveys {
		if status == "" || s.Status == status {
			count++
		}
	}
	return count, nil
}

// fakeAnswerStore serve agregados e respostas por survey
type fakeAnswerStore struct {
	aggregates map[int64]entities.AnswerAggregate
	answers    map[int64][]entities.SurveyAnswer
}

func (f *fakeAnswerStore) AggregateBySurvey(surveyID int64) (entities.AnswerAggregate, error) {
	return f.aggregates[surveyID], nil
}

func (f *fakeAnswerStore) ListBySurvey(surveyID int64) ([]entities.SurveyAnswer, error) {
	return f.answers[surveyID], nil
}

// fakeFacilityStore resolve nomes por id
type fakeFacilityStore struct {
	names map[int64]string
}

func (f *fakeFacilityStore) NameByID(id int64) (string, bool, error) {
	name, ok := f.names[id]
	return name, ok, nil
}

func (f *fakeFacilityStore) CountFacilities() (int64, error) {
	return int64(len(f.names)), nil
}

func completedSurvey(id, facilityID int64, enumerator string) entities.Survey {
	return entities.Survey{
		ID:             id,
		FacilityID:     facilityID,
		SurveyType:     "Facility Assessment",
		EnumeratorName: enumerator,
		Status:         entities.SurveyStatusCompleted,
	}
}

func TestComputeQualitySummary(t *testing.T) {
	tests := []struct {
		name    string
		answers []entities.SurveyAnswer
		want    entities.QASummary
	}{
		{
			name:    "lista vazia produz resumo zero",
			answers: nil,
			want:    entities.QASummary{},
		},
		{
			name: "resposta completa nao conta em nenhuma metrica",
			answers: []entities.SurveyAnswer{
				{Answer: "YES", AnswerSource: entities.SourceObservation, ConfidenceLevel: entities.ConfidenceHigh},
			},
			want: entities.QASummary{TotalAnswers: 1},
		},
		{
			name: "resposta pulada conta como missing",
			answers: []entities.SurveyAnswer{
				{Answer: entities.AnswerMissingSentinel, IsMissing: true, AnswerSource: entities.SourceInterview, ConfidenceLevel: entities.ConfidenceMedium},
			},
			want: entities.QASummary{TotalAnswers: 1, MissingCount: 1},
		},
		{
			name: "confianca LOW e caso-insensitiva",
			answers: []entities.SurveyAnswer{
				{Answer: "5", AnswerSource: entities.SourceRecord, ConfidenceLevel: "low"},
			},
			want: entities.QASummary{TotalAnswers: 1, LowConfidenceCount: 1},
		},
		{
			name: "campos vazios contam como sem fonte e sem confianca",
			answers: []entities.SurveyAnswer{
				{Answer: "texto"},
			},
			want: entities.QASummary{TotalAnswers: 1, NoSourceCount: 1, NoConfidenceCount: 1},
		},
		{
			name: "metricas sao independentes e acumulam",
			answers: []entities.SurveyAnswer{
				{Answer: "YES", AnswerSource: entities.SourceObservation, ConfidenceLevel: entities.ConfidenceHigh},
				{Answer: entities.AnswerMissingSentinel, IsMissing: true},
				{Answer: "NO", ConfidenceLevel: entities.ConfidenceLow},
				{Answer: "3", AnswerSource: entities.SourceEstimate},
			},
			want: entities.QASummary{
				TotalAnswers:       4,
				MissingCount:       1,
				LowConfidenceCount: 1,
				NoSourceCount:      2,
				NoConfidenceCount:  2,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeQualitySummary(tt.answers)
			if got != tt.want {
				t.Errorf("ComputeQualitySummary() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalizeAlertParams(t *testing.T) {
	got := NormalizeAlertParams(AlertParams{})
	if got.StatusFilter != entities.SurveyStatusCompleted {
		t.Errorf("StatusFilter padrão = %q, want %q", got.StatusFilter, entities.SurveyStatusCompleted)
	}
	if got.Limit != DefaultAlertLimit {
		t.Errorf("Limit padrão = %d, want %d", got.Limit, DefaultAlertLimit)
	}

	got = NormalizeAlertParams(AlertParams{StatusFilter: " draft ", Limit: 5})
	if got.StatusFilter != entities.SurveyStatusDraft {
		t.Errorf("StatusFilter = %q, want %q", got.StatusFilter, entities.SurveyStatusDraft)
	}
	if got.Limit != 5 {
		t.Errorf("Limit = %d, want 5", got.Limit)
	}
}

func TestGetQAAlerts_FlagsAndSeverity(t *testing.T) {
	// Survey 1: 10 respostas, 4 missing (40%), restantes limpas
	surveys := &fakeSurveyStore{surveys: []entities.Survey{
		completedSurvey(1, 100, "Amina"),
	}}
	answers := &fakeAnswerStore{aggregates: map[int64]entities.AnswerAggregate{
		1: {Total: 10, Missing: 4},
	}}
	facilities := &fakeFacilityStore{names: map[int64]string{100: "General Hospital Ikeja"}}

	uc := NewQualityUseCase(surveys, answers, facilities)

	alerts, err := uc.GetQAAlerts(AlertParams{Thresholds: DefaultThresholds()})
	if err != nil {
		t.Fatalf("GetQAAlerts() error = %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("len(alerts) = %d, want 1", len(alerts))
	}

	a := alerts[0]
	if !reflect.DeepEqual(a.Flags, []string{entities.FlagMissing}) {
		t.Errorf("Flags = %v, want [MISSING]", a.Flags)
	}
	if a.MissingPct != 40.0 {
		t.Errorf("MissingPct = %v, want 40.0", a.MissingPct)
	}
	if a.Severity != 40.0 {
		t.Errorf("Severity = %v, want 40.0", a.Severity)
	}
	if a.FacilityName != "General Hospital Ikeja" {
		t.Errorf("FacilityName = %q", a.FacilityName)
	}
}

func TestGetQAAlerts_TwoFlagScenario(t *testing.T) {
	// 10 respostas: 3 missing (30%), 1 sem fonte (10%), nada mais.
	// Com os thresholds padrão sinaliza MISSING e NO_SOURCE, severidade 40.0.
	surveys := &fakeSurveyStore{surveys: []entities.Survey{
		completedSurvey(1, 100, "Amina"),
	}}
	answers := &fakeAnswerStore{aggregates: map[int64]entities.AnswerAggregate{
		1: {Total: 10, Missing: 3, NoSource: 1},
	}}
	uc := NewQualityUseCase(surveys, answers, &fakeFacilityStore{names: map[int64]string{100: "Clinic"}})

	alerts, err := uc.GetQAAlerts(AlertParams{Thresholds: DefaultThresholds()})
	if err != nil {
		t.Fatalf("GetQAAlerts() error = %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("len(alerts) = %d, want 1", len(alerts))
	}

	a := alerts[0]
	want := []string{entities.FlagMissing, entities.FlagNoSource}
	if !reflect.DeepEqual(a.Flags, want) {
		t.Errorf("Flags = %v, want %v", a.Flags, want)
	}
	if a.Severity != 40.0 {
		t.Errorf("Severity = %v, want 40.0", a.Severity)
	}
	if a.Severity != a.MissingPct+a.LowConfPct+a.NoSourcePct+a.NoConfPct {
		t.Errorf("severidade não é a soma dos percentuais: %+v", a)
	}
}

func TestGetQAAlerts_LoweringThresholdOnlyAdds(t *testing.T) {
	// Baixar um threshold isolado só pode acrescentar flags e alertas
	surveys := &fakeSurveyStore{surveys: []entities.Survey{
		completedSurvey(2, 1, "Amina"),
		completedSurvey(1, 1, "Bola"),
	}}
	answers := &fakeAnswerStore{aggregates: map[int64]entities.AnswerAggregate{
		2: {Total: 10, Missing: 3},
		1: {Total: 10, LowConf: 1},
	}}
	uc := NewQualityUseCase(surveys, answers, &fakeFacilityStore{names: map[int64]string{1: "Clinic"}})

	base, err := uc.GetQAAlerts(AlertParams{Thresholds: DefaultThresholds()})
	if err != nil {
		t.Fatalf("GetQAAlerts() error = %v", err)
	}
	if len(base) != 1 || base[0].SurveyID != 2 {
		t.Fatalf("base = %+v, want apenas survey 2", base)
	}

	lowered := DefaultThresholds()
	lowered.LowConfPct = 10.0
	wider, err := uc.GetQAAlerts(AlertParams{Thresholds: lowered})
	if err != nil {
		t.Fatalf("GetQAAlerts() error = %v", err)
	}
	if len(wider) != 2 {
		t.Fatalf("len(wider) = %d, want 2", len(wider))
	}
	for _, a := range wider {
		if a.SurveyID == 2 && !reflect.DeepEqual(a.Flags, []string{entities.FlagMissing}) {
			t.Errorf("flags da survey 2 mudaram: %v", a.Flags)
		}
		if a.SurveyID == 1 && !reflect.DeepEqual(a.Flags, []string{entities.FlagLowConf}) {
			t.Errorf("flags da survey 1 = %v, want [LOW_CONF]", a.Flags)
		}
	}
}

func TestGetQAAlerts_ThresholdBoundary(t *testing.T) {
	// Exatamente no threshold sinaliza (comparação >=); logo abaixo não
	surveys := &fakeSurveyStore{surveys: []entities.Survey{
		completedSurvey(2, 1, "Bola"),
		completedSurvey(1, 1, "Bola"),
	}}
	answers := &fakeAnswerStore{aggregates: map[int64]entities.AnswerAggregate{
		2: {Total: 5, Missing: 1},  // 20% == threshold
		1: {Total: 10, Missing: 1}, // 10% < threshold
	}}
	uc := NewQualityUseCase(surveys, answers, &fakeFacilityStore{names: map[int64]string{1: "PHC Surulere"}})

	alerts, err := uc.GetQAAlerts(AlertParams{Thresholds: DefaultThresholds()})
	if err != nil {
		t.Fatalf("GetQAAlerts() error = %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("len(alerts) = %d, want 1", len(alerts))
	}
	if alerts[0].SurveyID != 2 {
		t.Errorf("SurveyID = %d, want 2", alerts[0].SurveyID)
	}
}

func TestGetQAAlerts_FlagOrderIsFixed(t *testing.T) {
	// Todas as quatro métricas acima dos thresholds
	surveys := &fakeSurveyStore{surveys: []entities.Survey{
		completedSurvey(1, 1, "Chidi"),
	}}
	answers := &fakeAnswerStore{aggregates: map[int64]entities.AnswerAggregate{
		1: {Total: 4, Missing: 2, LowConf: 1, NoSource: 4, NoConf: 2},
	}}
	uc := NewQualityUseCase(surveys, answers, &fakeFacilityStore{names: map[int64]string{1: "Clinic"}})

	alerts, err := uc.GetQAAlerts(AlertParams{Thresholds: DefaultThresholds()})
	if err != nil {
		t.Fatalf("GetQAAlerts() error = %v", err)
	}

	want := []string{entities.FlagMissing, entities.FlagLowConf, entities.FlagNoSource, entities.FlagNoConfidence}
	if !reflect.DeepEqual(alerts[0].Flags, want) {
		t.Errorf("Flags = %v, want %v", alerts[0].Flags, want)
	}
	if alerts[0].Severity != 50.0+25.0+100.0+50.0 {
		t.Errorf("Severity = %v, want 225.0", alerts[0].Severity)
	}
}

func TestGetQAAlerts_SkipsUnevaluableAndClean(t *testing.T) {
	surveys := &fakeSurveyStore{surveys: []entities.Survey{
		completedSurvey(3, 1, "Dada"), // sem respostas
		completedSurvey(2, 1, "Dada"), // limpa
		completedSurvey(1, 1, "Dada"), // sinalizada
	}}
	answers := &fakeAnswerStore{aggregates: map[int64]entities.AnswerAggregate{
		3: {},
		2: {Total: 10},
		1: {Total: 10, NoSource: 10},
	}}
	uc := NewQualityUseCase(surveys, answers, &fakeFacilityStore{names: map[int64]string{1: "Clinic"}})

	alerts, err := uc.GetQAAlerts(AlertParams{Thresholds: DefaultThresholds()})
	if err != nil {
		t.Fatalf("GetQAAlerts() error = %v", err)
	}
	if len(alerts) != 1 || alerts[0].SurveyID != 1 {
		t.Fatalf("alerts = %+v, want apenas survey 1", alerts)
	}
}

func TestGetQAAlerts_FacilityFallback(t *testing.T) {
	surveys := &fakeSurveyStore{surveys: []entities.Survey{
		completedSurvey(1, 999, "Efe"),
	}}
	answers := &fakeAnswerStore{aggregates: map[int64]entities.AnswerAggregate{
		1: {Total: 2, Missing: 2},
	}}
	uc := NewQualityUseCase(surveys, answers, &fakeFacilityStore{names: map[int64]string{}})

	alerts, err := uc.GetQAAlerts(AlertParams{Thresholds: DefaultThresholds()})
	if err != nil {
		t.Fatalf("GetQAAlerts() error = %v", err)
	}
	if alerts[0].FacilityName != "-" {
		t.Errorf("FacilityName = %q, want -", alerts[0].FacilityName)
	}
}

func TestGetQAAlerts_SortAndTieBreak(t *testing.T) {
	// Surveys 1 e 3 empatam em severidade; o empate resolve por id decrescente.
	// Survey 2 tem severidade maior e vem primeiro.
	surveys := &fakeSurveyStore{surveys: []entities.Survey{
		completedSurvey(3, 1, "Femi"),
		completedSurvey(2, 1, "Femi"),
		completedSurvey(1, 1, "Femi"),
	}}
	answers := &fakeAnswerStore{aggregates: map[int64]entities.AnswerAggregate{
		3: {Total: 10, Missing: 5},
		2: {Total: 10, Missing: 9},
		1: {Total: 10, Missing: 5},
	}}
	uc := NewQualityUseCase(surveys, answers, &fakeFacilityStore{names: map[int64]string{1: "Clinic"}})

	alerts, err := uc.GetQAAlerts(AlertParams{Thresholds: DefaultThresholds()})
	if err != nil {
		t.Fatalf("GetQAAlerts() error = %v", err)
	}

	var gotIDs []int64
	for _, a := range alerts {
		gotIDs = append(gotIDs, a.SurveyID)
	}
	want := []int64{2, 3, 1}
	if !reflect.DeepEqual(gotIDs, want) {
		t.Errorf("ordem = %v, want %v", gotIDs, want)
	}
}

func TestGetQAAlerts_LimitTruncates(t *testing.T) {
	var list []entities.Survey
	aggregates := make(map[int64]entities.AnswerAggregate)
	for i := int64(10); i >= 1; i-- {
		list = append(list, completedSurvey(i, 1, fmt.Sprintf("Enum %d", i)))
		aggregates[i] = entities.AnswerAggregate{Total: 10, Missing: i}
	}
	surveys := &fakeSurveyStore{surveys: list}
	answers := &fakeAnswerStore{aggregates: aggregates}
	uc := NewQualityUseCase(surveys, answers, &fakeFacilityStore{names: map[int64]string{1: "Clinic"}})

	alerts, err := uc.GetQAAlerts(AlertParams{Thresholds: DefaultThresholds(), Limit: 3})
	if err != nil {
		t.Fatalf("GetQAAlerts() error = %v", err)
	}
	if len(alerts) != 3 {
		t.Fatalf("len(alerts) = %d, want 3", len(alerts))
	}
	// Os mais severos primeiro: missing 10, 9, 8
	if alerts[0].SurveyID != 10 || alerts[1].SurveyID != 9 || alerts[2].SurveyID != 8 {
		t.Errorf("ids = %d,%d,%d", alerts[0].SurveyID, alerts[1].SurveyID, alerts[2].SurveyID)
	}
}

func TestGetQAAlerts_StatusFilter(t *testing.T) {
	draft := completedSurvey(2, 1, "Gbenga")
	draft.Status = entities.SurveyStatusDraft

	surveys := &fakeSurveyStore{surveys: []entities.Survey{
		draft,
		completedSurvey(1, 1, "Gbenga"),
	}}
	answers := &fakeAnswerStore{aggregates: map[int64]entities.AnswerAggregate{
		2: {Total: 10, Missing: 10},
		1: {Total: 10, Missing: 10},
	}}
	uc := NewQualityUseCase(surveys, answers, &fakeFacilityStore{names: map[int64]string{1: "Clinic"}})

	// Padrão: somente COMPLETED
	alerts, err := uc.GetQAAlerts(AlertParams{Thresholds: DefaultThresholds()})
	if err != nil {
		t.Fatalf("GetQAAlerts() error = %v", err)
	}
	if len(alerts) != 1 || alerts[0].SurveyID != 1 {
		t.Fatalf("alerts = %+v, want apenas survey 1", alerts)
	}

	// Filtro explícito por DRAFT
	alerts, err = uc.GetQAAlerts(AlertParams{StatusFilter: "draft", Thresholds: DefaultThresholds()})
	if err != nil {
		t.Fatalf("GetQAAlerts() error = %v", err)
	}
	if len(alerts) != 1 || alerts[0].SurveyID != 2 {
		t.Fatalf("alerts = %+v, want apenas survey 2", alerts)
	}
}

func TestGetEnumeratorPerformance_GroupsAcrossSurveys(t *testing.T) {
	// Amina: 2 surveys, 20 respostas na união, 5 missing => 25%
	// Bola: 1 survey limpa => não reportada
	surveys := &fakeSurveyStore{surveys: []entities.Survey{
		completedSurvey(3, 1, "Amina"),
		completedSurvey(2, 1, "Bola"),
		completedSurvey(1, 1, "Amina"),
	}}
	answers := &fakeAnswerStore{aggregates: map[int64]entities.AnswerAggregate{
		3: {Total: 10, Missing: 5},
		2: {Total: 10},
		1: {Total: 10},
	}}
	uc := NewQualityUseCase(surveys, answers, &fakeFacilityStore{names: map[int64]string{1: "Clinic"}})

	perf, err := uc.GetEnumeratorPerformance(AlertParams{Thresholds: DefaultThresholds()})
	if err != nil {
		t.Fatalf("GetEnumeratorPerformance() error = %v", err)
	}
	if len(perf) != 1 {
		t.Fatalf("len(perf) = %d, want 1", len(perf))
	}

	p := perf[0]
	if p.EnumeratorName != "Amina" {
		t.Errorf("EnumeratorName = %q", p.EnumeratorName)
	}
	if p.SurveyCount != 2 || p.TotalAnswers != 20 || p.Missing != 5 {
		t.Errorf("agregado = %+v", p)
	}
	if p.MissingPct != 25.0 || p.Severity != 25.0 {
		t.Errorf("MissingPct = %v, Severity = %v", p.MissingPct, p.Severity)
	}
	if !reflect.DeepEqual(p.Flags, []string{entities.FlagMissing}) {
		t.Errorf("Flags = %v", p.Flags)
	}
}

func TestGetEnumeratorPerformance_TieBreakByName(t *testing.T) {
	surveys := &fakeSurveyStore{surveys: []entities.Survey{
		completedSurvey(2, 1, "Zainab"),
		completedSurvey(1, 1, "Abu"),
	}}
	answers := &fakeAnswerStore{aggregates: map[int64]entities.AnswerAggregate{
		2: {Total: 10, Missing: 5},
		1: {Total: 10, Missing: 5},
	}}
	uc := NewQualityUseCase(surveys, answers, &fakeFacilityStore{names: map[int64]string{1: "Clinic"}})

	perf, err := uc.GetEnumeratorPerformance(AlertParams{Thresholds: DefaultThresholds()})
	if err != nil {
		t.Fatalf("GetEnumeratorPerformance() error = %v", err)
	}
	if len(perf) != 2 {
		t.Fatalf("len(perf) = %d, want 2", len(perf))
	}
	if perf[0].EnumeratorName != "Abu" || perf[1].EnumeratorName != "Zainab" {
		t.Errorf("ordem = %q, %q; want Abu, Zainab", perf[0].EnumeratorName, perf[1].EnumeratorName)
	}
}

func TestGetSurveyDetails(t *testing.T) {
	surveys := &fakeSurveyStore{surveys: []entities.Survey{
		completedSurvey(1, 100, "Amina"),
	}}
	answers := &fakeAnswerStore{answers: map[int64][]entities.SurveyAnswer{
		1: {
			{ID: 1, SurveyID: 1, Answer: "YES", AnswerSource: entities.SourceObservation, ConfidenceLevel: entities.ConfidenceHigh},
			{ID: 2, SurveyID: 1, Answer: entities.AnswerMissingSentinel, IsMissing: true},
		},
	}}
	facilities := &fakeFacilityStore{names: map[int64]string{100: "General Hospital Ikeja"}}
	uc := NewQualityUseCase(surveys, answers, facilities)

	details, err := uc.GetSurveyDetails(1)
	if err != nil {
		t.Fatalf("GetSurveyDetails() error = %v", err)
	}
	if details.FacilityName != "General Hospital Ikeja" {
		t.Errorf("FacilityName = %q", details.FacilityName)
	}
	if len(details.Answers) != 2 {
		t.Errorf("len(Answers) = %d, want 2", len(details.Answers))
	}
	want := entities.QASummary{TotalAnswers: 2, MissingCount: 1, NoSourceCount: 1, NoConfidenceCount: 1}
	if details.QA != want {
		t.Errorf("QA = %+v, want %+v", details.QA, want)
	}

	if _, err := uc.GetSurveyDetails(42); !errors.Is(err, ErrSurveyNotFound) {
		t.Errorf("GetSurveyDetails(42) error = %v, want ErrSurveyNotFound", err)
	}
}

func TestGetSurveyDetails_StoreFailureIsNotNotFound(t *testing.T) {
	storeErr := errors.New("connection refused")
	surveys := &fakeSurveyStore{failWith: storeErr}
	uc := NewQualityUseCase(surveys, &fakeAnswerStore{}, &fakeFacilityStore{})

	_, err := uc.GetSurveyDetails(1)
	if errors.Is(err, ErrSurveyNotFound) {
		t.Fatalf("falha do store virou ErrSurveyNotFound: %v", err)
	}
	if !errors.Is(err, storeErr) {
		t.Errorf("error = %v, want %v", err, storeErr)
	}
}

func TestGetSupervisorDashboard(t *testing.T) {
	draft := completedSurvey(2, 100, "Amina")
	draft.Status = entities.SurveyStatusDraft

	surveys := &fakeSurveyStore{surveys: []entities.Survey{
		draft,
		completedSurvey(1, 100, "Amina"),
	}}
	answers := &fakeAnswerStore{aggregates: map[int64]entities.AnswerAggregate{
		1: {Total: 10, Missing: 5},
	}}
	facilities := &fakeFacilityStore{names: map[int64]string{100: "General Hospital Ikeja"}}
	uc := NewQualityUseCase(surveys, answers, facilities)

	dash, err := uc.GetSupervisorDashboard()
	if err != nil {
		t.Fatalf("GetSupervisorDashboard() error = %v", err)
	}
	if dash.Facilities != 1 || dash.Surveys != 2 || dash.CompletedSurveys != 1 {
		t.Errorf("contagens = %+v", dash)
	}
	if len(dash.TopAlerts) != 1 || dash.TopAlerts[0].SurveyID != 1 {
		t.Errorf("TopAlerts = %+v", dash.TopAlerts)
	}
}
