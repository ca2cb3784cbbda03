package models

// Horse is static horse metadata used for pedigree lookups.
type Horse struct {
	ID        string `db:"id" json:"id" validate:"required"`
	Name      string `db:"name" json:"name"`
	Sex       string `db:"sex" json:"sex"`
	BirthYear int    `db:"birth_year" json:"birth_year"`
	Sire      string `db:"sire" json:"sire"`
	Dam       string `db:"dam" json:"dam"`
	DamSire   string `db:"dam_sire" json:"dam_sire"`
}
