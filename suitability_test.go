package carteira

import (
	"errors"
	"testing"
)

func TestProfileForScore(t *testing.T) {
	testCases := []struct {
		score int
		want  RiskProfile
	}{
		{3, Conservador},
		{4, Conservador},
		{5, Moderado},
		{7, Moderado},
		{8, Agressivo},
		{9, Agressivo},
	}
	for _, tc := range testCases {
		if got := ProfileForScore(tc.score); got != tc.want {
			t.Errorf("ProfileForScore(%d) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestSuitability_SubmitAnswers(t *testing.T) {
	testCases := []struct {
		name    string
		answers []string
		want    RiskProfile
	}{
		{"all conservative", []string{"A", "A", "A"}, Conservador},
		{"boundary to moderate", []string{"A", "B", "B"}, Moderado},
		{"all moderate", []string{"B", "B", "B"}, Moderado},
		{"boundary to aggressive", []string{"C", "C", "B"}, Agressivo},
		{"all aggressive", []string{"C", "C", "C"}, Agressivo},
		{"lowercase and spaces", []string{" a ", "b", "c"}, Moderado},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, suit, store := newTestBank(t)
			got, err := suit.SubmitAnswers(t.Context(), testCustomer, tc.answers...)
			if err != nil {
				t.Fatalf("SubmitAnswers() failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("SubmitAnswers(%v) = %s, want %s", tc.answers, got, tc.want)
			}
			// The profile must be persisted on the ledger.
			if persisted := mustLedger(t, store).RiskProfile; persisted != tc.want {
				t.Errorf("persisted profile = %s, want %s", persisted, tc.want)
			}
		})
	}
}

func TestSuitability_SubmitAnswersInvalid(t *testing.T) {
	testCases := []struct {
		name    string
		answers []string
	}{
		{"too few answers", []string{"A", "B"}},
		{"too many answers", []string{"A", "B", "C", "A"}},
		{"unknown letter", []string{"A", "D", "C"}},
		{"empty answer", []string{"A", "", "C"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, suit, store := newTestBank(t)
			_, err := suit.SubmitAnswers(t.Context(), testCustomer, tc.answers...)
			if !errors.Is(err, ErrInvalidAnswer) {
				t.Fatalf("SubmitAnswers() error = %v, want %v", err, ErrInvalidAnswer)
			}
			if profile := mustLedger(t, store).RiskProfile; profile != "" {
				t.Errorf("profile = %s after rejected answers, want unset", profile)
			}
		})
	}
}

func TestSuitability_ReassessmentOverwritesProfile(t *testing.T) {
	_, suit, _ := newTestBank(t)
	ctx := t.Context()

	if _, err := suit.SubmitAnswers(ctx, testCustomer, "A", "A", "A"); err != nil {
		t.Fatalf("SubmitAnswers() failed: %v", err)
	}
	if _, err := suit.SubmitAnswers(ctx, testCustomer, "C", "C", "C"); err != nil {
		t.Fatalf("SubmitAnswers() failed: %v", err)
	}
	profile, err := suit.Profile(ctx, testCustomer)
	if err != nil {
		t.Fatalf("Profile() failed: %v", err)
	}
	if profile != Agressivo {
		t.Errorf("profile after reassessment = %s, want %s", profile, Agressivo)
	}
}

func TestSuitability_SuggestRequiresProfile(t *testing.T) {
	_, suit, _ := newTestBank(t)
	if _, err := suit.Suggest(t.Context(), testCustomer); !errors.Is(err, ErrProfileUndefined) {
		t.Fatalf("Suggest() error = %v, want %v", err, ErrProfileUndefined)
	}
}

func TestSuitability_Suggest(t *testing.T) {
	testCases := []struct {
		profile     RiskProfile
		wantTickers []string
	}{
		{Conservador, []string{"CDB_BTG_DI", "LCI_BTG_360", "TESOURO_SELIC_2029"}},
		{Moderado, []string{
			"CDB_BTG_DI", "LCI_BTG_360", "TESOURO_SELIC_2029",
			"FUNDO_MULTIMERCADO_BTG", "BPAC11", "PETR4",
		}},
		// Every product is eligible for the aggressive profile; the list is
		// capped at seven, in catalog order.
		{Agressivo, []string{
			"CDB_BTG_DI", "LCI_BTG_360", "TESOURO_SELIC_2029",
			"FUNDO_MULTIMERCADO_BTG", "FUNDO_ACOES_BTG_ABSOLUTO", "BPAC11", "PETR4",
		}},
	}

	answersFor := map[RiskProfile][]string{
		Conservador: {"A", "A", "A"},
		Moderado:    {"B", "B", "B"},
		Agressivo:   {"C", "C", "C"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.profile), func(t *testing.T) {
			_, suit, _ := newTestBank(t)
			ctx := t.Context()
			if _, err := suit.SubmitAnswers(ctx, testCustomer, answersFor[tc.profile]...); err != nil {
				t.Fatalf("SubmitAnswers() failed: %v", err)
			}
			products, err := suit.Suggest(ctx, testCustomer)
			if err != nil {
				t.Fatalf("Suggest() failed: %v", err)
			}
			if len(products) != len(tc.wantTickers) {
				t.Fatalf("Suggest() returned %d products, want %d", len(products), len(tc.wantTickers))
			}
			for i, want := range tc.wantTickers {
				if products[i].Ticker != want {
					t.Errorf("Suggest()[%d] = %s, want %s", i, products[i].Ticker, want)
				}
			}
		})
	}
}

func TestQuestionnaire(t *testing.T) {
	qs := Questionnaire()
	if len(qs) != 3 {
		t.Fatalf("Questionnaire() returned %d questions, want 3", len(qs))
	}
	for _, q := range qs {
		if len(q.Options) != 3 {
			t.Errorf("question %q has %d options, want 3", q.ID, len(q.Options))
		}
		for i, want := range []string{"A", "B", "C"} {
			if q.Options[i].Letter != want {
				t.Errorf("question %q option %d = %s, want %s", q.ID, i, q.Options[i].Letter, want)
			}
		}
	}
}
