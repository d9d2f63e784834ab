package roster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlRoster = `
- id:
    bioguide: D000001
  name:
    first: Jane
    last: Doe
    official_full: Jane Doe
  terms:
    - type: rep
      state: CA
      district: 12
      start: '2021-01-03'
      party: Democrat
      url: https://doe.house.gov
    - type: sen
      state: CA
      start: '2015-01-03'
`

const jsonRoster = `[
  {
    "id": {"bioguide": "R000001"},
    "name": {"first": "John", "last": "Roe"},
    "terms": [
      {"type": "rep", "state": "VT", "district": "at-large", "start": "2023-01-03"}
    ]
  }
]`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	legs, err := Load(writeTemp(t, "legislators.yaml", yamlRoster))
	require.NoError(t, err)
	require.Len(t, legs, 1)
	assert.Equal(t, "D000001", legs[0].ID.Bioguide)
	assert.Equal(t, "Jane", legs[0].Name.First)
	require.Len(t, legs[0].Terms, 2)
	assert.Equal(t, RawDistrict("12"), legs[0].Terms[0].District)
	assert.Equal(t, "sen", legs[0].Terms[1].Type)
}

func TestLoadJSON(t *testing.T) {
	legs, err := Load(writeTemp(t, "legislators.json", jsonRoster))
	require.NoError(t, err)
	require.Len(t, legs, 1)
	assert.Equal(t, RawDistrict("at-large"), legs[0].Terms[0].District)
}

func TestLoadDistrictScalarShapes(t *testing.T) {
	legs, err := Load(writeTemp(t, "r.json", `[{"name":{"last":"X"},"terms":[{"type":"rep","state":"CA","district":7}]}]`))
	require.NoError(t, err)
	assert.Equal(t, RawDistrict("7"), legs[0].Terms[0].District)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load(writeTemp(t, "roster.csv", "a,b"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeTemp(t, "bad.yaml", "::::"))
	assert.Error(t, err)
}
