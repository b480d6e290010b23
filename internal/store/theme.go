package store

import "petlar-client/internal/domain/animals"

const ActionChangeTheme = "theme/changeTheme"

type Colors struct {
	Primary    string
	Hover      string
	Secondary  string
	Background string
	Highlight  string
	Font       string
}

// Theme es la paleta de una especie.
type Theme struct {
	Name   animals.Species
	Colors Colors
}

func baseColors(primary, hover string) Colors {
	return Colors{
		Primary:    primary,
		Hover:      hover,
		Secondary:  "#DDDDDD",
		Background: "#E2E2E2",
		Highlight:  "#CCCCCC",
		Font:       "#1F1F1F",
	}
}

var (
	DogTheme   = Theme{Name: animals.SpeciesDogs, Colors: baseColors("#D9A066", "#C9925B")}
	CatTheme   = Theme{Name: animals.SpeciesCats, Colors: baseColors("#95A5A6", "#859394")}
	BirdTheme  = Theme{Name: animals.SpeciesBirds, Colors: baseColors("#06923E", "#068338")}
	OtherTheme = Theme{Name: animals.SpeciesOthers, Colors: baseColors("#0288D1", "#0277BD")}
)

var themes = map[animals.Species]Theme{
	DogTheme.Name:   DogTheme,
	CatTheme.Name:   CatTheme,
	BirdTheme.Name:  BirdTheme,
	OtherTheme.Name: OtherTheme,
}

// ThemeFor devuelve el tema de una especie; ok=false si no existe.
func ThemeFor(name string) (Theme, bool) {
	t, ok := themes[animals.Species(name)]
	return t, ok
}

type ThemeState struct {
	Theme Theme
}

func InitialTheme() ThemeState { return ThemeState{Theme: DogTheme} }

func ChangeTheme(name string) Action {
	return Action{Type: ActionChangeTheme, Payload: name}
}

// ThemeReducer: un nombre desconocido deja el tema actual.
func ThemeReducer(s ThemeState, a Action) ThemeState {
	if a.Type != ActionChangeTheme {
		return s
	}
	name, _ := a.Payload.(string)
	if t, ok := ThemeFor(name); ok {
		s.Theme = t
	}
	return s
}
