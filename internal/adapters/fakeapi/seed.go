package fakeapi

import (
	"context"

	"petlar-client/internal/domain/animals"
	"petlar-client/internal/ports/backend"
)

var demoAnimals = []animals.Animal{
	{ID: "1", Name: "Rex", Type: animals.TypeDog, Age: 24, Sex: animals.SexMale, Breed: "SRD", Weight: 1250, Size: animals.SizeMedium, Status: animals.StatusAvailable, RegistrationDate: "2025-01-10", Description: "Brincalhão e dócil."},
	{ID: "2", Name: "Luna", Type: animals.TypeDog, Age: 8, Sex: animals.SexFemale, Breed: "Vira-lata", Weight: 420, Size: animals.SizeSmall, Status: animals.StatusAdopted, RegistrationDate: "2025-02-03"},
	{ID: "3", Name: "Mia", Type: animals.TypeCat, Age: 36, Sex: animals.SexFemale, Breed: "Siamês", Weight: 380, Size: animals.SizeSmall, Status: animals.StatusAvailable, RegistrationDate: "2025-02-14"},
	{ID: "4", Name: "Tom", Type: animals.TypeCat, Age: 1, Sex: animals.SexMale, Breed: "SRD", Weight: 60, Size: animals.SizeSmall, Status: animals.StatusAvailable, RegistrationDate: "2025-03-01"},
	{ID: "5", Name: "Piu", Type: animals.TypeBird, Age: 12, Sex: animals.SexMale, Breed: "Calopsita", Weight: 9, Size: animals.SizeSmall, Status: animals.StatusAvailable, RegistrationDate: "2025-03-20"},
	{ID: "6", Name: "Bolinha", Type: animals.TypeOther, Age: 6, Sex: animals.SexFemale, Breed: "Hamster", Weight: 12, Size: animals.SizeSmall, Status: animals.StatusAvailable, RegistrationDate: "2025-04-02"},
}

// Seed carga animales de demostración (uno o más por especie).
func Seed(ctx context.Context, repo backend.AnimalStore) error {
	for _, a := range demoAnimals {
		if err := repo.Put(ctx, a); err != nil {
			return err
		}
	}
	return nil
}
