package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestLoadDataset_YAML(t *testing.T) {
	ds, err := LoadDataset("testdata/fixture.yaml", zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)

	assert.Len(t, ds.Vendors, 2)
	assert.Len(t, ds.Products, 2)
	require.Len(t, ds.Vulnerabilities, 3)

	log4shell := ds.Vulnerabilities[0]
	require.NotNil(t, log4shell.CVSSScore)
	assert.Equal(t, 10.0, *log4shell.CVSSScore)
	require.NotNil(t, log4shell.PublishedDate)
	assert.Equal(t, 2021, log4shell.PublishedDate.Year())

	derived := ds.Vulnerabilities[1]
	require.NotNil(t, derived.CVSSScore, "score should be derived from the vector")
	assert.Equal(t, 9.8, *derived.CVSSScore)

	assert.Nil(t, ds.Vulnerabilities[2].CVSSScore)
	assert.Equal(t, "64b000000000000000000001", ds.Products[0].Vendor.ID)
}

func TestLoadDataset_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"vendors": [{"id": "v1", "name": "Oracle", "cveCount": 1}],
		"vulnerabilities": [{"cveId": "CVE-2024-1", "description": "x", "cvssScore": 5.5, "publishedDate": "2024-02-01T00:00:00Z"}]
	}`), 0o600))

	ds, err := LoadDataset(path, nil)
	require.NoError(t, err)
	require.Len(t, ds.Vulnerabilities, 1)
	assert.Equal(t, 5.5, *ds.Vulnerabilities[0].CVSSScore)
	assert.Equal(t, "Oracle", ds.Vendors[0].Name)
}

func TestLoadDataset_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadDataset(filepath.Join(dir, "missing.yaml"), nil)
	assert.Error(t, err)

	txt := filepath.Join(dir, "fixture.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o600))
	_, err = LoadDataset(txt, nil)
	assert.ErrorContains(t, err, "unsupported fixture format")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"vulnerabilities":[{"cveId":"CVE-1","cvssScore":11}]}`), 0o600))
	_, err = LoadDataset(bad, nil)
	assert.ErrorContains(t, err, "outside [0, 10]")
}

func TestScoreFromVector(t *testing.T) {
	score, err := ScoreFromVector("CVSS:3.0/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H")
	require.NoError(t, err)
	assert.Equal(t, 9.8, score)

	score, err = ScoreFromVector("CVSS:3.1/AV:L/AC:L/PR:L/UI:N/S:U/C:H/I:N/A:N")
	require.NoError(t, err)
	assert.Equal(t, 5.5, score)

	_, err = ScoreFromVector("AV:N/AC:L/Au:N/C:P/I:P/A:P")
	assert.Error(t, err)

	_, err = ScoreFromVector("CVSS:3.1/garbage")
	assert.Error(t, err)
}
