package model

import "time"

// EmotionalLogEntry is one entry of the emotional log.
type EmotionalLogEntry struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	Situation    string    `json:"situation"`
	Thoughts     string    `json:"thoughts"`
	Feelings     string    `json:"feelings"`
	Actions      string    `json:"actions"`
	AnxietyLevel int       `json:"anxietyLevel"` // 0-10
}

// RecordID implements Identified.
func (e EmotionalLogEntry) RecordID() string { return e.ID }

// Timestamp implements Dated.
func (e EmotionalLogEntry) Timestamp() time.Time { return e.Date }

// ThoughtRecord is a cognitive-restructuring worksheet.
type ThoughtRecord struct {
	ID                 string    `json:"id"`
	Date               time.Time `json:"date"`
	Situation          string    `json:"situation"`
	AutomaticThought   string    `json:"automaticThought"`
	Emotion            string    `json:"emotion"`
	EvidenceFor        string    `json:"evidenceFor"`
	EvidenceAgainst    string    `json:"evidenceAgainst"`
	AlternativeThought string    `json:"alternativeThought"`
	Outcome            string    `json:"outcome"`
}

// RecordID implements Identified.
func (r ThoughtRecord) RecordID() string { return r.ID }

// Timestamp implements Dated.
func (r ThoughtRecord) Timestamp() time.Time { return r.Date }

// ExposureStep is one rung of the graded-exposure ladder.
type ExposureStep struct {
	ID            string `json:"id"`
	Description   string `json:"description"`
	TargetAnxiety int    `json:"targetAnxiety"` // 0-10
	Completed     bool   `json:"completed"`
	Repetitions   int    `json:"repetitions"` // >= 1
	Notes         string `json:"notes,omitempty"`
}

// RecordID implements Identified.
func (s ExposureStep) RecordID() string { return s.ID }

// Achievement is a progress badge. Unlocked only ever moves false -> true.
type Achievement struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Unlocked     bool       `json:"unlocked"`
	DateUnlocked *time.Time `json:"dateUnlocked,omitempty"`
	Icon         string     `json:"icon"`
}

// RecordID implements Identified.
func (a Achievement) RecordID() string { return a.ID }

// Feeling is the mood picked on the dashboard. The empty Feeling means none.
type Feeling string

const (
	FeelingHappy      Feeling = "Feliz"
	FeelingSad        Feeling = "Triste"
	FeelingAnxious    Feeling = "Ansioso"
	FeelingAngry      Feeling = "Enojado"
	FeelingCalm       Feeling = "Calmado"
	FeelingExcited    Feeling = "Entusiasmado"
	FeelingNeutral    Feeling = "Neutral"
	FeelingUnselected Feeling = ""
)

// Feelings lists the selectable feelings in display order.
var Feelings = []Feeling{
	FeelingHappy,
	FeelingSad,
	FeelingAnxious,
	FeelingAngry,
	FeelingCalm,
	FeelingExcited,
	FeelingNeutral,
}

// Preferences holds per-user settings.
type Preferences struct {
	Timezone      string `json:"timezone,omitempty"`
	DailyReminder string `json:"dailyReminder,omitempty"` // cron spec
}

// Identified is implemented by records that carry a collection-unique id.
type Identified interface {
	RecordID() string
}

// Dated is implemented by records stamped with a submission time.
type Dated interface {
	Timestamp() time.Time
}
