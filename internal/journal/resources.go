package journal

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Resource kinds.
const (
	ResourceArticle = "article"
	ResourceVideo   = "video"
)

// Resource is an entry of the educational catalog. Articles carry Content,
// videos carry URL.
type Resource struct {
	ID      string   `json:"id"`
	Kind    string   `json:"type"`
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
	Content string   `json:"content,omitempty"`
	URL     string   `json:"contentUrl,omitempty"`
}

// Body is what a reader opens: the article text, the video link, or the
// summary when neither is set.
func (r Resource) Body() string {
	switch {
	case r.Content != "":
		return r.Content
	case r.URL != "":
		return r.URL
	}
	return r.Summary
}

var Resources = []Resource{
	{
		ID:      "1",
		Kind:    ResourceArticle,
		Title:   "¿Qué es la Ansiedad Social?",
		Summary: "Una introducción a la ansiedad social, sus síntomas y causas comunes.",
		Tags:    []string{"ansiedad social", "introducción"},
		Content: "La ansiedad social, también conocida como fobia social, es un tipo de trastorno de ansiedad que causa miedo extremo en situaciones sociales. Quien la vive teme ser juzgado, observado o rechazado, y con frecuencia evita las situaciones que la despiertan.",
	},
	{
		ID:      "2",
		Kind:    ResourceVideo,
		Title:   "Técnicas de Respiración para la Calma",
		Summary: "Aprende ejercicios de respiración simples para reducir la ansiedad rápidamente.",
		Tags:    []string{"respiración", "calma", "técnicas"},
		URL:     "https://www.youtube.com/embed/exampleVideoID",
	},
	{
		ID:      "3",
		Kind:    ResourceArticle,
		Title:   "Entendiendo las Distorsiones Cognitivas",
		Summary: "Descubre los patrones de pensamiento negativos que alimentan la ansiedad y cómo identificarlos.",
		Tags:    []string{"TCC", "pensamientos", "distorsiones"},
		Content: "Las distorsiones cognitivas son patrones de pensamiento exagerados o irracionales que pueden causar y perpetuar problemas emocionales. Reconocerlas es el primer paso para cuestionarlas y encontrar pensamientos más equilibrados.",
	},
	{
		ID:      "4",
		Kind:    ResourceVideo,
		Title:   "Historias de Superación",
		Summary: "Personas reales comparten sus experiencias superando la ansiedad social.",
		Tags:    []string{"inspiración", "historias reales"},
		URL:     "https://www.youtube.com/embed/anotherVideoID",
	},
}

// SearchResources returns the catalog entries whose title, summary or a
// tag contains term, ignoring case and Unicode normalization. An empty
// term matches every entry.
func SearchResources(term string) []Resource {
	fold := cases.Fold()
	key := func(s string) string { return fold.String(norm.NFC.String(s)) }

	want := key(strings.TrimSpace(term))
	out := make([]Resource, 0, len(Resources))
	for _, r := range Resources {
		if matches(want, key, r) {
			out = append(out, r)
		}
	}
	return out
}

func matches(want string, key func(string) string, r Resource) bool {
	if strings.Contains(key(r.Title), want) || strings.Contains(key(r.Summary), want) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(key(tag), want) {
			return true
		}
	}
	return false
}

// ResourceByID returns the catalog entry with id.
func ResourceByID(id string) (Resource, bool) {
	for _, r := range Resources {
		if r.ID == id {
			return r, true
		}
	}
	return Resource{}, false
}
