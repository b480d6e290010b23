package animals

import "strings"

// AdoptionStatus usa las etiquetas que devuelve el backend.
type AdoptionStatus string

const (
	StatusAvailable AdoptionStatus = "Disponível"
	StatusAdopted   AdoptionStatus = "Adotado"
)

// ParseStatus acepta la etiqueta sin distinguir mayúsculas, o los nombres en inglés.
func ParseStatus(s string) (AdoptionStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "disponível", "disponivel", "available":
		return StatusAvailable, true
	case "adotado", "adopted":
		return StatusAdopted, true
	}
	return "", false
}

type Sex string

const (
	SexMale   Sex = "Macho"
	SexFemale Sex = "Fêmea"
)

type Size string

const (
	SizeSmall  Size = "Pequeno"
	SizeMedium Size = "Médio"
	SizeLarge  Size = "Grande"
)

// Type es la especie tal como la serializa el backend.
type Type string

const (
	TypeDog   Type = "CACHORRO"
	TypeCat   Type = "GATO"
	TypeBird  Type = "PASSARO"
	TypeOther Type = "OUTRO"
)

// Species es el segmento de ruta / nombre de tema de cada especie.
type Species string

const (
	SpeciesDogs   Species = "dogs"
	SpeciesCats   Species = "cats"
	SpeciesBirds  Species = "birds"
	SpeciesOthers Species = "others"
)

var typeToSpecies = map[Type]Species{
	TypeDog:   SpeciesDogs,
	TypeCat:   SpeciesCats,
	TypeBird:  SpeciesBirds,
	TypeOther: SpeciesOthers,
}

// Species convierte el tipo a su segmento de ruta. ok=false si el tipo es desconocido.
func (t Type) Species() (Species, bool) {
	s, ok := typeToSpecies[Type(strings.ToUpper(strings.TrimSpace(string(t))))]
	return s, ok
}

// ParseSpecies acepta "dogs", "dog", "cachorro", ... y devuelve el tipo correspondiente.
func ParseSpecies(s string) (Species, Type, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dogs", "dog", "cachorro", "cachorros":
		return SpeciesDogs, TypeDog, true
	case "cats", "cat", "gato", "gatos":
		return SpeciesCats, TypeCat, true
	case "birds", "bird", "passaro", "pássaro", "passaros", "pássaros":
		return SpeciesBirds, TypeBird, true
	case "others", "other", "outro", "outros":
		return SpeciesOthers, TypeOther, true
	}
	return "", "", false
}

// Author es el responsable que publicó el animal.
type Author struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// Animal es un value object; el ciclo de vida lo maneja el servidor.
type Animal struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type Type   `json:"type,omitempty"`

	// Age en meses (revisión con edad) o BirthDate YYYY-MM-DD (revisión con fecha).
	Age       int    `json:"age,omitempty"`
	BirthDate string `json:"birthDate,omitempty"`

	Sex    Sex     `json:"sex,omitempty"`
	Breed  string  `json:"breed,omitempty"`
	Weight Centikg `json:"weight,omitempty"`
	Size   Size    `json:"size,omitempty"`

	RegistrationDate string         `json:"registrationDate,omitempty"`
	Status           AdoptionStatus `json:"status"`

	Author      *Author `json:"author,omitempty"`
	ImagePath   string  `json:"imagePath,omitempty"`
	URLImage    string  `json:"urlImage,omitempty"`
	Description string  `json:"description,omitempty"`
}

// Image devuelve la referencia de imagen disponible, sea cual sea la revisión.
func (a Animal) Image() string {
	if a.ImagePath != "" {
		return a.ImagePath
	}
	return a.URLImage
}

// CreateAnimal es el payload de alta: sin ID ni Status (los asigna el servidor).
type CreateAnimal struct {
	Name        string   `json:"name"`
	Type        Type     `json:"type,omitempty"`
	Age         int      `json:"age"`
	Breed       string   `json:"breed"`
	Sex         Sex      `json:"sex"`
	Weight      *Centikg `json:"weight"`
	Size        Size     `json:"size"`
	Description string   `json:"description,omitempty"`
	URLImage    string   `json:"urlImage,omitempty"`
	Author      string   `json:"author"`
	Phone       string   `json:"phone"`
}
