package carteira

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Option is one selectable answer of a questionnaire question.
type Option struct {
	Letter string `json:"letra"`
	Text   string `json:"texto"`
}

// Question is one entry of the fixed suitability questionnaire.
type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"pergunta"`
	Options []Option `json:"opcoes"`
}

// questions is the fixed 3-question suitability questionnaire. Answers A, B
// and C are worth 1, 2 and 3 points; the total maps to the investor profile.
var questions = []Question{
	{
		ID:     "objetivo",
		Prompt: "Qual é o seu principal objetivo ao investir?",
		Options: []Option{
			{Letter: "A", Text: "Preservar meu patrimônio, mesmo com rendimentos menores"},
			{Letter: "B", Text: "Equilibrar segurança e rentabilidade"},
			{Letter: "C", Text: "Maximizar a rentabilidade, aceitando riscos maiores"},
		},
	},
	{
		ID:     "tolerancia",
		Prompt: "Como você reagiria se seus investimentos caíssem 20% em um mês?",
		Options: []Option{
			{Letter: "A", Text: "Resgataria tudo imediatamente"},
			{Letter: "B", Text: "Manteria a posição e aguardaria a recuperação"},
			{Letter: "C", Text: "Aproveitaria para investir ainda mais"},
		},
	},
	{
		ID:     "horizonte",
		Prompt: "Por quanto tempo pretende manter seu dinheiro investido?",
		Options: []Option{
			{Letter: "A", Text: "Menos de 1 ano"},
			{Letter: "B", Text: "Entre 1 e 5 anos"},
			{Letter: "C", Text: "Mais de 5 anos"},
		},
	},
}

// Questionnaire returns the fixed question sequence. It is pure and
// idempotent; answering happens through SubmitAnswers.
func Questionnaire() []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	return out
}

// answerPoints maps an answer letter to its score.
func answerPoints(answer string) (int, error) {
	switch strings.ToUpper(strings.TrimSpace(answer)) {
	case "A":
		return 1, nil
	case "B":
		return 2, nil
	case "C":
		return 3, nil
	default:
		return 0, fmt.Errorf("%w: %q (esperava A, B ou C)", ErrInvalidAnswer, answer)
	}
}

// ProfileForScore maps a questionnaire total to the investor profile:
// up to 4 points Conservador, up to 7 Moderado, above that Agressivo.
func ProfileForScore(total int) RiskProfile {
	switch {
	case total <= 4:
		return Conservador
	case total <= 7:
		return Moderado
	default:
		return Agressivo
	}
}

// maxSuggestions caps how many products a suggestion returns.
const maxSuggestions = 7

// Suitability computes and persists the investor profile and gates catalog
// access on it.
type Suitability struct {
	catalog *Catalog
	store   Store
	log     zerolog.Logger
}

// NewSuitability creates a suitability engine over the given catalog and
// store.
func NewSuitability(catalog *Catalog, store Store, log zerolog.Logger) *Suitability {
	return &Suitability{
		catalog: catalog,
		store:   store,
		log:     log.With().Str("component", "suitability").Logger(),
	}
}

// Profile returns the customer's current risk profile; the empty profile
// means the questionnaire was never answered.
func (s *Suitability) Profile(ctx context.Context, customerID string) (RiskProfile, error) {
	ledger, err := s.store.Load(ctx, customerID)
	if err != nil {
		return "", err
	}
	return ledger.RiskProfile, nil
}

// SubmitAnswers scores the three answers, persists the resulting profile on
// the ledger and returns it. Answers are case-insensitive A/B/C; anything
// else fails with ErrInvalidAnswer and leaves the ledger unchanged.
func (s *Suitability) SubmitAnswers(ctx context.Context, customerID string, answers ...string) (RiskProfile, error) {
	if len(answers) != len(questions) {
		return "", fmt.Errorf("%w: esperava %d respostas, recebeu %d", ErrInvalidAnswer, len(questions), len(answers))
	}
	total := 0
	for i, a := range answers {
		points, err := answerPoints(a)
		if err != nil {
			return "", fmt.Errorf("pergunta %q: %w", questions[i].ID, err)
		}
		total += points
	}
	profile := ProfileForScore(total)

	err := s.store.Update(ctx, customerID, func(l *Ledger) error {
		l.RiskProfile = profile
		return nil
	})
	if err != nil {
		return "", err
	}

	s.log.Info().
		Str("customer", customerID).
		Int("score", total).
		Str("profile", string(profile)).
		Msg("perfil de investidor definido")
	return profile, nil
}

// Suggest returns up to 7 products eligible for the customer's profile, in
// catalog iteration order. It fails with ErrProfileUndefined before the
// questionnaire was answered.
func (s *Suitability) Suggest(ctx context.Context, customerID string) ([]Product, error) {
	profile, err := s.Profile(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if profile == "" {
		return nil, ErrProfileUndefined
	}
	eligible := s.catalog.ListByProfile(profile)
	if len(eligible) > maxSuggestions {
		eligible = eligible[:maxSuggestions]
	}
	return eligible, nil
}
