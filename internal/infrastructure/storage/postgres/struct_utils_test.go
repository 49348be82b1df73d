package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tourops/internal/core/entity"
	"tourops/internal/core/id"
)

type fakeCatalog struct {
	entity.Catalog
	City  string `db:"city" json:"city"`
	Stars int    `db:"stars" json:"stars"`
}

func TestExtractDBColumns_EmbeddedStructs(t *testing.T) {
	cols := ExtractDBColumns[fakeCatalog]()

	expectedCols := []string{
		"id", "deletion_mark", "version", "code", "name", "city", "stars",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "-")
}

func TestStructToMap_EmbeddedStructs(t *testing.T) {
	cat := fakeCatalog{
		Catalog: entity.Catalog{
			BaseCatalog: entity.BaseCatalog{
				BaseEntity: entity.BaseEntity{
					ID:           id.New(),
					DeletionMark: true,
					Version:      5,
				},
			},
			Code: "HTL-001",
			Name: "Grand Plaza",
		},
		City:  "Tbilisi",
		Stars: 4,
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "HTL-001", m["code"])
	assert.Equal(t, "Grand Plaza", m["name"])
	assert.Equal(t, "Tbilisi", m["city"])
	assert.Equal(t, 4, m["stars"])
}

func TestStructToMap_PointerInput(t *testing.T) {
	cat := &fakeCatalog{City: "Batumi"}

	m := StructToMap(cat)

	assert.Equal(t, "Batumi", m["city"])
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
	assert.Nil(t, StructToMap("not a struct"))
}
