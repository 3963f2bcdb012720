package peraturan

import (
	"reflect"
	"testing"

	"github.com/saulfrancisco-ruizacevedo/go-peraturan/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTags_Peraturan(t *testing.T) {
	meta, err := parseTags[models.Peraturan]()
	require.NoError(t, err)

	assert.Equal(t, "Peraturan", meta.Label)
	assert.Equal(t, "NomorPeraturan", meta.PKField)
	assert.Equal(t, "nomorPeraturan", meta.PKProp)
	assert.Equal(t, map[string]string{
		"NomorPeraturan": "nomorPeraturan",
		"Judul":          "judul",
		"No":             "no",
		"Tahun":          "tahun",
	}, meta.Mappings)
}

func TestParseTags_Errors(t *testing.T) {
	type noPK struct {
		Name string `crud:"property:name"`
	}
	type noProperty struct {
		ID string `crud:"pk"`
	}
	type twoPKs struct {
		A string `crud:"pk,property:a"`
		B string `crud:"pk,property:b"`
	}

	for _, typ := range []reflect.Type{
		reflect.TypeOf(noPK{}),
		reflect.TypeOf(noProperty{}),
		reflect.TypeOf(twoPKs{}),
		reflect.TypeOf(""),
	} {
		_, err := parseTagsFromType(typ)
		assert.Error(t, err, typ.String())
	}
}

func TestParseTags_LabelOverride(t *testing.T) {
	type year struct {
		Value string `crud:"pk,property:tahun,label:Tahun"`
	}
	meta, err := parseTagsFromType(reflect.TypeOf(&year{}))
	require.NoError(t, err)
	assert.Equal(t, "Tahun", meta.Label)

	prop, err := meta.property("Value")
	require.NoError(t, err)
	assert.Equal(t, "tahun", prop)

	prop, err = meta.property("tahun")
	require.NoError(t, err)
	assert.Equal(t, "tahun", prop)

	_, err = meta.property("missing")
	assert.Error(t, err)
}
