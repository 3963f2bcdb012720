package peraturan

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertBalanced(t *testing.T, cypher string) {
	t.Helper()
	pairs := map[rune]rune{')': '(', ']': '[', '}': '{'}
	var stack []rune
	for _, r := range cypher {
		switch r {
		case '(', '[', '{':
			stack = append(stack, r)
		case ')', ']', '}':
			require.NotEmpty(t, stack, "unbalanced %q in %s", r, cypher)
			require.Equal(t, pairs[r], stack[len(stack)-1], "mismatched %q in %s", r, cypher)
			stack = stack[:len(stack)-1]
		}
	}
	require.Empty(t, stack, "unclosed brackets in %s", cypher)
}

func paramNames(stmt Statement) []string {
	names := make([]string, 0, len(stmt.Params))
	for k := range stmt.Params {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func TestBuildStatement_NoCriteriaUsesCappedDefault(t *testing.T) {
	stmt, err := BuildStatement(Criteria{})
	require.NoError(t, err)

	assert.Equal(t, 100, DefaultLimit)
	assert.Equal(t, map[string]interface{}{ParamLimit: DefaultLimit}, stmt.Params)
	assert.Contains(t, stmt.Cypher, "WITH n LIMIT $limit\nWITH collect(n) AS ns")
	assert.NotContains(t, stmt.Cypher, "[..$limit]", "the cap applies before collecting")
	assert.Contains(t, stmt.Cypher, "WHERE m IN ns")
	assertBalanced(t, stmt.Cypher)
}

func TestBuildStatement_CustomLimit(t *testing.T) {
	stmt, err := (&QueryBuilder{Limit: 25}).Build(Criteria{Topic: "   "})
	require.NoError(t, err)
	assert.Equal(t, 25, stmt.Params[ParamLimit])
}

func TestBuildStatement_RegulationNumber(t *testing.T) {
	stmt, err := BuildStatement(Criteria{RegulationNumber: " UU No. 11 Tahun 2020 ", Topic: "ignored"})
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{ParamNomorPeraturan: "UU No. 11 Tahun 2020"}, stmt.Params)
	assert.Contains(t, stmt.Cypher, "MATCH (p:Peraturan {nomorPeraturan: $nomorPeraturan})")
	assert.Contains(t, stmt.Cypher, "(p)-[:MEMILIKI_TOPIK]->(t:Topik)<-[rs:MEMILIKI_TOPIK]-(s:Peraturan)")
	assert.Contains(t, stmt.Cypher, "MATCH (s)-[rn]-(sn)")
	assert.NotContains(t, stmt.Cypher, "UU No. 11")

	// Every hop is reduced by a WITH before the next MATCH.
	assert.Contains(t, stmt.Cypher, "WITH p, collect(DISTINCT r) AS rels, collect(DISTINCT n) AS neighbours\nOPTIONAL MATCH (p)-[:MEMILIKI_TOPIK]")
	assert.Contains(t, stmt.Cypher, "collect(DISTINCT s) AS siblings\nCALL {")
	assert.True(t, strings.HasSuffix(stmt.Cypher, "RETURN p, rels, neighbours, siblingRels, siblings, siblingNeighbourRels, siblingNeighbours"))
	assertBalanced(t, stmt.Cypher)
}

func TestBuildStatement_AllCriteriaSubsets(t *testing.T) {
	type field struct {
		param string
		set   func(*Criteria)
		want  interface{}
		frag  string
	}
	fields := []field{
		{ParamTopik, func(c *Criteria) { c.Topic = "Pajak" }, "Pajak", "{namaTopik: $topik}"},
		{ParamTahunRelasi, func(c *Criteria) { c.Year = "2020" }, "DITERBITKAN_2020", "type(y) = $tahunRelasi"},
		{ParamBentuk, func(c *Criteria) { c.Form = "Undang-Undang" }, "Undang-Undang", "{name: $bentuk}"},
		{ParamStatus, func(c *Criteria) { c.Status = "Tidak Berlaku" }, "TidakBerlaku", "$status IN labels(p)"},
	}

	for mask := 0; mask < 1<<len(fields); mask++ {
		var c Criteria
		var want []string
		for i, f := range fields {
			if mask&(1<<i) != 0 {
				f.set(&c)
				want = append(want, f.param)
			}
		}
		sort.Strings(want)

		t.Run(fmt.Sprintf("mask=%04b", mask), func(t *testing.T) {
			stmt, err := BuildStatement(c)
			require.NoError(t, err)
			assertBalanced(t, stmt.Cypher)

			if mask == 0 {
				assert.Equal(t, []string{ParamLimit}, paramNames(stmt))
				return
			}

			assert.Equal(t, want, paramNames(stmt))
			for i, f := range fields {
				if mask&(1<<i) != 0 {
					assert.Equal(t, f.want, stmt.Params[f.param])
					assert.Equal(t, 2, strings.Count(stmt.Cypher, f.frag), "one predicate per UNION branch")
				} else {
					assert.NotContains(t, stmt.Cypher, f.frag)
				}
			}

			// One filter WHERE per branch plus the sibling guard.
			assert.Equal(t, 3, strings.Count(stmt.Cypher, "\nWHERE "))
			assert.Equal(t, 1, strings.Count(stmt.Cypher, "UNION"))
			assert.Equal(t, 2*(len(want)-1), strings.Count(stmt.Cypher, "\n  AND "))
			assert.NotContains(t, stmt.Cypher, "WHERE\n")
			assert.NotContains(t, stmt.Cypher, "WHERE  AND")
			assert.NotContains(t, stmt.Cypher, "AND\nOPTIONAL")
			assert.NotContains(t, stmt.Cypher, "$\n")
		})
	}
}

func TestBuildStatement_FilterReturnShape(t *testing.T) {
	stmt, err := BuildStatement(Criteria{Topic: "Pajak"})
	require.NoError(t, err)
	assert.Contains(t, stmt.Cypher, "RETURN p AS source, r AS rel, n AS target\nUNION\n")
	assert.Contains(t, stmt.Cypher, "RETURN t AS source, r AS rel, s AS target")
}

func TestBuildStatement_ValuesAreNeverInterpolated(t *testing.T) {
	hostile := `x'}) DETACH DELETE p //`
	c := Criteria{Topic: hostile, Year: hostile, Form: hostile, Status: hostile}
	stmt, err := BuildStatement(c)
	require.NoError(t, err)

	assert.NotContains(t, stmt.Cypher, "DETACH DELETE")
	assert.NotContains(t, stmt.Cypher, "'")
	assert.Equal(t, hostile, stmt.Params[ParamTopik])
	assert.Equal(t, hostile, stmt.Params[ParamBentuk])
	assert.Equal(t, "DITERBITKAN_"+hostile, stmt.Params[ParamTahunRelasi])
	assert.Equal(t, hostile, stmt.Params[ParamStatus])

	stmt, err = BuildStatement(Criteria{RegulationNumber: hostile})
	require.NoError(t, err)
	assert.NotContains(t, stmt.Cypher, "DETACH DELETE")
	assert.Equal(t, hostile, stmt.Params[ParamNomorPeraturan])
}

func TestBuildStatement_RawQuery(t *testing.T) {
	raw := "MATCH (n:Tahun) RETURN n"
	stmt, err := BuildStatement(Criteria{RawQuery: raw, RegulationNumber: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, raw, stmt.Cypher)
	assert.Empty(t, stmt.Params)

	// Three characters or fewer fall through to criteria.
	stmt, err = BuildStatement(Criteria{RawQuery: " abc ", Form: "Perpres"})
	require.NoError(t, err)
	assert.Equal(t, "Perpres", stmt.Params[ParamBentuk])

	stmt, err = BuildStatement(Criteria{RawQuery: "abcd"})
	require.NoError(t, err)
	assert.Equal(t, "abcd", stmt.Cypher)
}

func TestBuildStatement_RawQueryDisabled(t *testing.T) {
	b := &QueryBuilder{AllowRawQueries: false}
	_, err := b.Build(Criteria{RawQuery: "MATCH (n) RETURN n"})
	assert.ErrorIs(t, err, ErrRawQueryDisabled)

	stmt, err := b.Build(Criteria{RawQuery: "abc"})
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, stmt.Params[ParamLimit])
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Berlaku", StatusLabel("berlaku"))
	assert.Equal(t, "TidakBerlaku", StatusLabel("Tidak Berlaku"))
	assert.Equal(t, "TidakBerlaku", StatusLabel("TidakBerlaku"))
	assert.Equal(t, "TidakDiketahui", StatusLabel("tidak  diketahui"))
	assert.Equal(t, "Dicabut", StatusLabel("Dicabut"))
}

func TestYearRelationship(t *testing.T) {
	assert.Equal(t, "DITERBITKAN_2021", YearRelationship(" 2021"))
}
