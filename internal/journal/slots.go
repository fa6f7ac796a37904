package journal

import (
	"github.com/roach88/presente/internal/engine"
	"github.com/roach88/presente/internal/model"
	"github.com/roach88/presente/internal/schema"
	"github.com/roach88/presente/internal/store"
)

// Slot keys.
const (
	KeyEmotionalLog   = "presenteSeguro_emotionalLog"
	KeyThoughtRecords = "presenteSeguro_thoughtRecords"
	KeyExposureSteps  = "presenteSeguro_exposureSteps"
	KeyAchievements   = "presenteSeguro_achievements"
	KeyCurrentFeeling = "presenteSeguro_currentFeeling"
	KeyPreferences    = "presenteSeguro_userPrefs"
)

// Collection names used by the achievement catalog.
const (
	CollectionEmotionalLog   = "emotionalLog"
	CollectionThoughtRecords = "thoughtRecords"
	CollectionExposureSteps  = "exposureSteps"
)

var (
	EmotionalLog = store.Slot[[]model.EmotionalLogEntry]{
		Key:      KeyEmotionalLog,
		Default:  func() []model.EmotionalLogEntry { return []model.EmotionalLogEntry{} },
		Schema:   schema.EmotionalLog,
		Validate: model.ValidateCollection[model.EmotionalLogEntry],
	}

	ThoughtRecords = store.Slot[[]model.ThoughtRecord]{
		Key:      KeyThoughtRecords,
		Default:  func() []model.ThoughtRecord { return []model.ThoughtRecord{} },
		Schema:   schema.ThoughtRecords,
		Validate: model.ValidateCollection[model.ThoughtRecord],
	}

	ExposureSteps = store.Slot[[]model.ExposureStep]{
		Key:      KeyExposureSteps,
		Default:  func() []model.ExposureStep { return []model.ExposureStep{} },
		Schema:   schema.ExposureSteps,
		Validate: model.ValidateCollection[model.ExposureStep],
	}

	Achievements = store.Slot[[]model.Achievement]{
		Key:      KeyAchievements,
		Default:  func() []model.Achievement { return engine.DefaultCatalog().Defaults() },
		Schema:   schema.Achievements,
		Validate: model.ValidateCollection[model.Achievement],
		Check:    model.CheckAchievementTransition,
	}

	CurrentFeeling = store.Slot[model.Feeling]{
		Key:     KeyCurrentFeeling,
		Default: func() model.Feeling { return model.FeelingUnselected },
		Schema:  schema.Feeling,
		Validate: func(f model.Feeling) error {
			if !f.Valid() {
				return &model.FieldError{Field: "feeling", Message: "unknown feeling " + string(f)}
			}
			return nil
		},
	}

	Preferences = store.Slot[model.Preferences]{
		Key:      KeyPreferences,
		Default:  func() model.Preferences { return model.Preferences{} },
		Schema:   schema.Preferences,
		Validate: model.Preferences.Validate,
	}
)

// Collections returns the engine registrations for the record collections.
func Collections() []engine.Collection {
	return []engine.Collection{
		engine.Watch(CollectionEmotionalLog, EmotionalLog),
		engine.Watch(CollectionThoughtRecords, ThoughtRecords),
		engine.Watch(CollectionExposureSteps, ExposureSteps),
	}
}

// Keys lists every slot key, for history lookups.
var Keys = []string{
	KeyEmotionalLog,
	KeyThoughtRecords,
	KeyExposureSteps,
	KeyAchievements,
	KeyCurrentFeeling,
	KeyPreferences,
}
