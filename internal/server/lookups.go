package server

import (
	"github.com/saulfrancisco-ruizacevedo/go-peraturan"
	"github.com/saulfrancisco-ruizacevedo/go-peraturan/models"
)

// DefaultLookups returns the three autocomplete endpoints backed by gm:
// regulation numbers, topic names and form names.
func DefaultLookups(gm *peraturan.GraphManager) ([]Lookup, error) {
	peraturanRepo, err := peraturan.RepositoryFor[models.Peraturan](gm)
	if err != nil {
		return nil, err
	}
	topikRepo, err := peraturan.RepositoryFor[models.Topik](gm)
	if err != nil {
		return nil, err
	}
	bentukRepo, err := peraturan.RepositoryFor[models.Bentuk](gm)
	if err != nil {
		return nil, err
	}

	return []Lookup{
		{Path: "/nomorPeraturan", Name: "nomor peraturan", Field: "NomorPeraturan", Lister: peraturanRepo},
		{Path: "/topik", Name: "topik", Field: "NamaTopik", Lister: topikRepo},
		{Path: "/bentukPeraturan", Name: "bentuk peraturan", Field: "Name", Lister: bentukRepo},
	}, nil
}
