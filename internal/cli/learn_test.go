package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/presente/internal/journal"
	"github.com/roach88/presente/internal/model"
)

func TestChallenge_Today(t *testing.T) {
	opts := newTestOptions(t)
	want := journal.ChallengeFor(model.DayOf(start, start.Location()))

	out := mustRun(t, opts, "challenge")
	assert.Contains(t, out, "Mini Reto Diario\n")
	assert.Contains(t, out, "  "+want+"\n")

	assert.Equal(t, want, decodeData[challengeView](t, opts, "challenge").Challenge,
		"the challenge is stable within a day")
}

func TestChallenge_Another(t *testing.T) {
	opts := newTestOptions(t)
	opts.Rand = func(int) int { return 0 }
	today := journal.ChallengeFor(model.DayOf(start, start.Location()))

	got := decodeData[challengeView](t, opts, "challenge", "--another").Challenge
	assert.NotEqual(t, today, got)
	assert.Contains(t, journal.DailyChallenges, got)
}

func TestLearn_ListsAll(t *testing.T) {
	opts := newTestOptions(t)

	got := decodeData[[]journal.Resource](t, opts, "learn")
	assert.Len(t, got, len(journal.Resources))

	out := mustRun(t, opts, "learn")
	assert.Contains(t, out, "2  [video] Técnicas de Respiración para la Calma\n")
	assert.Contains(t, out, "   Etiquetas: TCC, pensamientos, distorsiones\n")
}

func TestLearn_Search(t *testing.T) {
	opts := newTestOptions(t)

	got := decodeData[[]journal.Resource](t, opts, "learn", "historias", "reales")
	require.Len(t, got, 1)
	assert.Equal(t, "4", got[0].ID)

	assert.Equal(t, "No se encontraron recursos que coincidan con tu búsqueda.\n", mustRun(t, opts, "learn", "ajedrez"))
}

func TestLearn_Show(t *testing.T) {
	opts := newTestOptions(t)

	out := mustRun(t, opts, "learn", "show", "3")
	assert.Contains(t, out, "Entendiendo las Distorsiones Cognitivas (artículo)\n")
	assert.Contains(t, out, "Las distorsiones cognitivas son patrones")

	r := decodeData[journal.Resource](t, opts, "learn", "show", "2")
	assert.Equal(t, "https://www.youtube.com/embed/exampleVideoID", r.URL)

	_, stderr, code := run(t, opts, "", "learn", "show", "9")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, `resource "9" not found`)
}
