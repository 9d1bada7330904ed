package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cvedex/core"
	gocvss30 "github.com/pandatix/go-cvss/30"
	gocvss31 "github.com/pandatix/go-cvss/31"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Dataset is the on-disk shape of a fixture file.
type Dataset struct {
	Vulnerabilities []core.Vulnerability `json:"vulnerabilities" yaml:"vulnerabilities"`
	Vendors         []core.Vendor        `json:"vendors" yaml:"vendors"`
	Products        []core.Product       `json:"products" yaml:"products"`
}

// LoadDataset reads a YAML or JSON fixture, chosen by file extension.
func LoadDataset(path string, logger *zap.SugaredLogger) (Dataset, error) {
	var ds Dataset

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return ds, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &ds)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &ds)
	default:
		return ds, fmt.Errorf("unsupported fixture format %q", filepath.Ext(path))
	}
	if err != nil {
		return ds, fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}

	if err := ds.normalize(logger); err != nil {
		return ds, fmt.Errorf("invalid fixture %s: %w", path, err)
	}
	return ds, nil
}

// normalize checks score ranges, derives missing scores from CVSS vectors
// and converts timestamps to UTC.
func (ds *Dataset) normalize(logger *zap.SugaredLogger) error {
	for i := range ds.Vulnerabilities {
		v := &ds.Vulnerabilities[i]
		if v.CVEID == "" {
			return fmt.Errorf("vulnerability at index %d has no cveId", i)
		}
		if v.CVSSScore == nil && v.CVSSVector != "" {
			score, err := ScoreFromVector(v.CVSSVector)
			if err != nil {
				if logger != nil {
					logger.Warnw("Error parsing CVSS vector", "cveId", v.CVEID, "vector", v.CVSSVector, "error", err)
				}
			} else {
				v.CVSSScore = &score
			}
		}
		if v.CVSSScore != nil && (*v.CVSSScore < 0 || *v.CVSSScore > 10) {
			return fmt.Errorf("%s: cvssScore %.1f outside [0, 10]", v.CVEID, *v.CVSSScore)
		}
		v.PublishedDate = utcPtr(v.PublishedDate)
		v.LastModifiedDate = utcPtr(v.LastModifiedDate)
		v.Severity = ""
	}
	for i := range ds.Vendors {
		ds.Vendors[i].FirstSeen = utcPtr(ds.Vendors[i].FirstSeen)
		ds.Vendors[i].LastSeen = utcPtr(ds.Vendors[i].LastSeen)
	}
	for i := range ds.Products {
		ds.Products[i].FirstSeen = utcPtr(ds.Products[i].FirstSeen)
		ds.Products[i].LastSeen = utcPtr(ds.Products[i].LastSeen)
	}
	return nil
}

// ScoreFromVector computes the base score of a CVSS v3.0 or v3.1 vector.
func ScoreFromVector(vector string) (float64, error) {
	switch {
	case strings.HasPrefix(vector, "CVSS:3.1/"):
		cvss, err := gocvss31.ParseVector(vector)
		if err != nil {
			return 0, err
		}
		return cvss.BaseScore(), nil
	case strings.HasPrefix(vector, "CVSS:3.0/"):
		cvss, err := gocvss30.ParseVector(vector)
		if err != nil {
			return 0, err
		}
		return cvss.BaseScore(), nil
	default:
		return 0, fmt.Errorf("unsupported CVSS vector version: %s", vector)
	}
}
