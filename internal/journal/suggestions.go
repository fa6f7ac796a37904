package journal

import (
	"math/rand/v2"

	"github.com/roach88/presente/internal/model"
)

// Suggestion is a small daily activity with the command that starts it.
type Suggestion struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ActionText  string `json:"actionText"`
	Command     string `json:"command"`
}

var DailySuggestions = []Suggestion{
	{
		ID:          "sug1",
		Title:       "Respiración Consciente (3-5 min)",
		Description: "Dedica unos minutos a la respiración diafragmática. Inhala contando hasta 4, sostén 4, exhala 6. Repite.",
		ActionText:  "Probar técnica de respiración",
		Command:     "presente breathe",
	},
	{
		ID:          "sug2",
		Title:       "Pequeño Acto de Autocuidado",
		Description: "Realiza una actividad breve que disfrutes y te relaje: escuchar una canción, estirarte, o tomar tu bebida favorita.",
		ActionText:  "Ver ideas de regulación",
		Command:     "presente anchor",
	},
	{
		ID:          "sug3",
		Title:       "Observa un Pensamiento Negativo",
		Description: "Identifica un pensamiento ansioso o negativo que hayas tenido hoy. Obsérvalo sin juzgarlo, como una nube pasajera.",
		ActionText:  "Ir a Reestructuración",
		Command:     "presente thought add",
	},
	{
		ID:          "sug4",
		Title:       "Planifica un Pequeño Reto Social",
		Description: "Piensa en una interacción social pequeña que podrías hacer hoy o mañana, como saludar a un vecino o preguntar algo a un empleado.",
		ActionText:  "Ver ideas de exposición",
		Command:     "presente exposure add",
	},
	{
		ID:          "sug5",
		Title:       "Anota Algo Positivo",
		Description: "Escribe una cosa buena que te haya pasado hoy, por pequeña que sea, o algo por lo que estés agradecido/a.",
		ActionText:  "Ir a Bitácora Emocional",
		Command:     "presente log add",
	},
}

// SuggestionFor returns the suggestion of day. Every day maps to the same
// suggestion and consecutive days rotate through the list.
func SuggestionFor(day model.Day) Suggestion {
	n := int64(len(DailySuggestions))
	idx := ((day.Ordinal() % n) + n) % n
	return DailySuggestions[idx]
}

// DailySuggestion returns today's suggestion in the service's location.
func (s *Service) DailySuggestion() Suggestion {
	return SuggestionFor(model.DayOf(s.now(), s.loc))
}

var DailyChallenges = []string{
	"Mantén contacto visual con la próxima persona con la que hables por 5 segundos.",
	"Inicia una pequeña conversación con un cajero o barista (ej. '¿Qué tal tu día?').",
	"Haz una pregunta abierta a un compañero o conocido (ej. '¿Qué planes tienes para el fin de semana?').",
	"Da un cumplido sincero a alguien.",
	"Pide ayuda con algo pequeño, incluso si crees que puedes hacerlo solo/a.",
}

// ChallengeFor returns the social mini-challenge of day. Like SuggestionFor
// it is stable within a day and rotates across days.
func ChallengeFor(day model.Day) string {
	n := int64(len(DailyChallenges))
	return DailyChallenges[((day.Ordinal()%n)+n)%n]
}

// DailyChallenge returns today's challenge in the service's location.
func (s *Service) DailyChallenge() string {
	return ChallengeFor(model.DayOf(s.now(), s.loc))
}

// OtherChallenge picks a challenge different from current with intn, which
// must return a value in [0,n). A nil intn uses math/rand/v2.
func OtherChallenge(current string, intn func(n int) int) string {
	if intn == nil {
		intn = rand.IntN
	}
	others := make([]string, 0, len(DailyChallenges))
	for _, c := range DailyChallenges {
		if c != current {
			others = append(others, c)
		}
	}
	if len(others) == 0 {
		return current
	}
	return others[intn(len(others))]
}

var Affirmations = []string{
	"Estoy bien tal como soy.",
	"No necesito ser perfecto/a para ser valorado/a.",
	"Merezco sentirme tranquilo/a y seguro/a.",
	"Puedo manejar situaciones sociales con calma.",
	"Mis pensamientos no siempre son la realidad.",
	"Elijo enfocarme en lo positivo.",
	"Soy capaz y fuerte.",
	"Cada día es una nueva oportunidad para crecer.",
}

// RandomAffirmation picks an affirmation with intn, which must return a
// value in [0,n). A nil intn uses math/rand/v2.
func RandomAffirmation(intn func(n int) int) string {
	if intn == nil {
		intn = rand.IntN
	}
	return Affirmations[intn(len(Affirmations))]
}
