package ingest

import (
	"os"

	"gopkg.in/yaml.v3"

	"blockdebug/internal/domain"
)

// correspondenceFile mirrors the on-disk YAML shape:
//
//	pairs:
//	  - left: name
//	    right: full_name
//	  - left: city
//	    right: town
type correspondenceFile struct {
	Pairs []struct {
		Left  string `yaml:"left"`
		Right string `yaml:"right"`
	} `yaml:"pairs"`
}

// LoadCorrespondenceFile reads an explicit attribute correspondence from a
// YAML file, for callers that would rather check one into version control
// than rely on DefaultCorrespondence's same-name heuristic.
func LoadCorrespondenceFile(path string) (domain.Correspondence, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.ErrInvalidArgument("read correspondence file %s: %v", path, err)
	}

	var parsed correspondenceFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, domain.ErrMalformedCorrespondence("parse correspondence file %s: %v", path, err)
	}

	out := make(domain.Correspondence, 0, len(parsed.Pairs))
	for _, p := range parsed.Pairs {
		if p.Left == "" || p.Right == "" {
			return nil, domain.ErrMalformedCorrespondence("correspondence file %s has a pair with a blank column name", path)
		}
		out = append(out, domain.AttrPair{Left: p.Left, Right: p.Right})
	}
	return out, nil
}
