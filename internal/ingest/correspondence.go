package ingest

import (
	"strings"

	"blockdebug/internal/domain"
)

// DefaultCorrespondence pairs columns that share the same name, ignoring
// case, between ltable and rtable. This is the "external schema
// collaborator" the core's Schema Aligner is handed when a caller has no
// explicit attribute correspondence to supply.
func DefaultCorrespondence(ltable, rtable *domain.Table) domain.Correspondence {
	rbyLower := make(map[string]string, len(rtable.Columns))
	for _, c := range rtable.Columns {
		rbyLower[strings.ToLower(c)] = c
	}

	var out domain.Correspondence
	for _, lc := range ltable.Columns {
		if rc, ok := rbyLower[strings.ToLower(lc)]; ok {
			out = append(out, domain.AttrPair{Left: lc, Right: rc})
		}
	}
	return out
}

