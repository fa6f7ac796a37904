package exercise

// Exercise names.
const (
	NameBreathing        = "breathing"
	NameAttentionAnchor  = "attention_anchor"
	NamePanicPrevention  = "panic_prevention"
	NameSensoryGrounding = "sensory_grounding"
	NameMindfulObserver  = "mindful_observer"
)

// Breathing is diaphragmatic breathing: inhale 4s, hold 4s, exhale 6s,
// repeated until stopped.
func Breathing() Definition {
	return Definition{
		Name:        NameBreathing,
		Description: "Respiración diafragmática",
		Loop:        true,
		Phases: []Phase{
			{Label: "inhale", Duration: 4, Instruction: "Inhala..."},
			{Label: "hold", Duration: 4, Instruction: "Sostén..."},
			{Label: "exhale", Duration: 6, Instruction: "Exhala..."},
		},
	}
}

// AttentionAnchor is a one-minute focus on a neutral object.
func AttentionAnchor() Definition {
	return Definition{
		Name:        NameAttentionAnchor,
		Description: "Ancla tu Atención",
		Phases: []Phase{{
			Label:       "focus",
			Duration:    60,
			Instruction: "Elige un objeto en tu entorno y enfoca toda tu atención en sus detalles: colores, formas, texturas.",
		}},
	}
}

// PanicPreventionSteps returns the panic-prevention guide: a welcome screen
// and five manual steps.
func PanicPreventionSteps() []Step {
	return []Step{
		{
			Title:       "Bienvenido/a al Ejercicio de Prevención de Pánico",
			Instruction: "Esta guía te ayudará a manejar las sensaciones físicas y los pensamientos que pueden desencadenar ansiedad intensa o pánico.",
		},
		{
			Title:       "Paso 1: Reconoce y Normaliza",
			Instruction: "Es común sentir opresión en el pecho cuando estás ansioso/a. Recuerda: esta sensación no es peligrosa, solo incómoda.",
		},
		{
			Title:       "Paso 2: Observación Consciente de tu Pecho",
			Instruction: "Lleva tu atención a tu pecho y observa la sensación sin juzgarla. Toma 3 respiraciones profundas y lentas.",
		},
		{
			Title:       "Paso 3: Anclaje en el Presente",
			Instruction: "Nombra 3 cosas que puedes ver, 2 sonidos que puedes escuchar y 1 sensación táctil.",
		},
		{
			Title:       "Paso 4: Distanciándote de los Pensamientos",
			Instruction: "Estos son solo pensamientos, no hechos. Tú eres el cielo, no las nubes pasajeras.",
		},
		{
			Title:       "Paso 5: Refuerzo Positivo y Cierre",
			Instruction: "Estoy seguro/a y soy capaz. Controlo mis respuestas. Estas sensaciones y pensamientos pasarán.",
		},
	}
}

// SensoryGroundingSteps returns the 5-4-3-2-1 grounding steps. Every step
// requires an answer.
func SensoryGroundingSteps() []Step {
	return []Step{
		{Title: "5", Instruction: "Nombra 5 cosas que puedes VER a tu alrededor.", Placeholder: "Ej: una lámpara, un cuadro, tus manos...", Input: true},
		{Title: "4", Instruction: "Identifica 4 cosas que puedes TOCAR.", Placeholder: "Ej: la tela de tu ropa, la mesa, tu cabello...", Input: true},
		{Title: "3", Instruction: "Escucha 3 sonidos diferentes.", Placeholder: "Ej: el tic-tac del reloj, pájaros cantando, tu respiración...", Input: true},
		{Title: "2", Instruction: "Huele 2 olores distintos.", Placeholder: "Ej: el aroma del café, un perfume, el aire fresco...", Input: true},
		{Title: "1", Instruction: "Saborea 1 cosa (o imagina un sabor).", Placeholder: "Ej: un sorbo de agua, un chicle, el recuerdo de tu comida favorita...", Input: true},
	}
}

// PanicPrevention returns a wizard over PanicPreventionSteps.
func PanicPrevention() *Wizard {
	w, _ := NewWizard(NamePanicPrevention, PanicPreventionSteps())
	return w
}

// SensoryGrounding returns a wizard over SensoryGroundingSteps.
func SensoryGrounding() *Wizard {
	w, _ := NewWizard(NameSensoryGrounding, SensoryGroundingSteps())
	return w
}

// MindfulObserverSteps returns the assumption-challenge worksheet: a recent
// tense social moment, what was noticed, the first reading of it and two
// alternative readings.
func MindfulObserverSteps() []Step {
	return []Step{
		{Title: "Situación", Instruction: "Piensa en una situación social reciente donde te sentiste particularmente alerta o ansioso/a.", Placeholder: "Ej: Durante una reunión de equipo...", Input: true},
		{Title: "Señales Específicas Notadas", Instruction: "¿Qué señales concretas notaste?", Placeholder: "Ej: Alguien miró su reloj, hubo un silencio largo...", Input: true},
		{Title: "Interpretación Inmediata (Tu 'Radar')", Instruction: "¿Qué pensaste en el momento?", Placeholder: "Ej: 'Se están aburriendo', 'Dije algo incorrecto'", Input: true},
		{Title: "Interpretación Alternativa 1 (Más Neutral)", Instruction: "¿Qué otra explicación neutral podría tener?", Placeholder: "Ej: 'Quizás están pensando en su próxima tarea', 'El silencio es solo una pausa natural'", Input: true},
		{Title: "Interpretación Alternativa 2 (Positiva o Realista)", Instruction: "¿Y una explicación positiva o realista?", Placeholder: "Ej: 'Tal vez están procesando la información', 'Puede que simplemente no tengan nada que añadir en este momento'", Input: true},
		{Title: "Reflexión Final", Instruction: "¿Cómo cambia tu sentir o perspectiva al considerar estas alternativas?", Input: true},
	}
}

// MindfulObserver returns a wizard over MindfulObserverSteps.
func MindfulObserver() *Wizard {
	w, _ := NewWizard(NameMindfulObserver, MindfulObserverSteps())
	return w
}
