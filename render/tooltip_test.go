package render

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapWords_NoLineExceedsWidth(t *testing.T) {
	inputs := []string{
		"Peraturan Pemerintah tentang Penyelenggaraan Bidang Pertanian",
		"a bb ccc dddd eeeee ffffff ggggggg hhhhhhhh iiiiiiiii jjjjjjjjjj",
		"Pengelolaan Keuangan Negara dan Perbendaharaan Negara",
		"Supercalifragilisticexpialidocious-and-some-more-characters tail",
	}
	for _, in := range inputs {
		lines := WrapWords(in, TooltipWidth)
		require.NotEmpty(t, lines)
		for _, l := range lines {
			assert.LessOrEqual(t, utf8.RuneCountInString(l), TooltipWidth, "line %q of %q", l, in)
			assert.NotEmpty(t, l)
		}
		// Words are kept in order; only whitespace changes.
		assert.Equal(t, strings.ReplaceAll(in, " ", ""), strings.ReplaceAll(strings.Join(lines, ""), " ", ""))
	}
}

func TestWrapWords_Greedy(t *testing.T) {
	lines := WrapWords("Peraturan Pemerintah tentang Penyelenggaraan Bidang Pertanian", TooltipWidth)
	assert.Equal(t, []string{
		"Peraturan Pemerintah tentang",
		"Penyelenggaraan Bidang",
		"Pertanian",
	}, lines)
}

func TestFormatTooltip(t *testing.T) {
	props := map[string]interface{}{
		"nomorPeraturan": "PP No. 26 Tahun 2021",
		"judul":          "Penyelenggaraan Bidang Pertanian dan Ketahanan Pangan",
		"tahun":          int64(2021),
	}

	got := FormatTooltip(props)

	assert.Equal(t,
		"Judul: Penyelenggaraan Bidang\nPertanian dan Ketahanan Pangan\n"+
			"Nomor Peraturan: PP No. 26 Tahun 2021\n"+
			"Tahun: 2021\n",
		got)
}

func TestFormatTooltip_ShortValueUnchanged(t *testing.T) {
	value := strings.Repeat("x", TooltipWidth)
	got := FormatTooltip(map[string]interface{}{"name": value})
	assert.Equal(t, "Name: "+value+"\n", got)
}
