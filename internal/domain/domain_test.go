package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGene_Validate(t *testing.T) {
	tests := []struct {
		name    string
		gene    Gene
		wantErr error
	}{
		{"valid", Gene{Symbol: "dnaA", Organism: "Escherichia coli"}, nil},
		{"empty symbol", Gene{Organism: "Escherichia coli"}, ErrGeneSymbolEmpty},
		{"blank symbol", Gene{Symbol: "   ", Organism: "Escherichia coli"}, ErrGeneSymbolEmpty},
		{"empty organism", Gene{Symbol: "dnaA"}, ErrGeneOrganismEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.gene.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestResearcher_Validate(t *testing.T) {
	valid := Researcher{ID: uuid.New(), Name: "Carter"}
	assert.NoError(t, valid.Validate())

	noID := Researcher{Name: "Carter"}
	assert.ErrorIs(t, noID.Validate(), ErrIDEmpty)

	noName := Researcher{ID: uuid.New()}
	assert.ErrorIs(t, noName.Validate(), ErrNameEmpty)
}

func TestArticle_Validate(t *testing.T) {
	valid := Article{ID: uuid.New(), Title: "Replication initiation in E. coli"}
	assert.NoError(t, valid.Validate())

	noTitle := Article{ID: uuid.New()}
	assert.ErrorIs(t, noTitle.Validate(), ErrTitleEmpty)
}

func TestTag_Validate(t *testing.T) {
	valid := Tag{ID: uuid.New(), Name: "replication"}
	assert.NoError(t, valid.Validate())

	noName := Tag{ID: uuid.New()}
	assert.ErrorIs(t, noName.Validate(), ErrNameEmpty)
}
