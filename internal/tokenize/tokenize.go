// Package tokenize turns selected table columns into per-record token lists
// and reorders those lists by a global cross-table frequency order, the two
// steps a prefix-filtering similarity join needs before it can run.
package tokenize

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"blockdebug/internal/domain"
)

// stringify renders one cell for tokenization: nil becomes "", numeric
// values are truncated to an integer string (load-bearing behavior
// inherited from the original _replace_nan_to_empty helper), everything
// else must already be a string.
func stringify(v domain.Value) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case int:
		return strconv.Itoa(x), nil
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", x), nil
	case float32:
		return strconv.FormatFloat(math.Trunc(float64(x)), 'f', 0, 64), nil
	case float64:
		return strconv.FormatFloat(math.Trunc(x), 'f', 0, 64), nil
	default:
		return "", domain.ErrInvalidArgument("cell value %v of type %T is neither null, numeric, nor a string", v, v)
	}
}

// tokenizeColumn lowercases one column across every row of the table and
// splits it on single space characters, returning one token slice per row.
func tokenizeColumn(t *domain.Table, col string) ([][]string, error) {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		s, err := stringify(row[col])
		if err != nil {
			return nil, err
		}
		if s == "" {
			out[i] = nil
			continue
		}
		out[i] = strings.Split(strings.ToLower(s), " ")
	}
	return out, nil
}

// Tokenize builds the per-record token list for table, concatenating the
// selected columns (in order) and disambiguating repeated tokens within a
// record by suffixing "_<n>" on the (n+1)-th occurrence.
func Tokenize(t *domain.Table, selected []string) ([][]string, error) {
	perColumn := make([][][]string, len(selected))
	for i, col := range selected {
		toks, err := tokenizeColumn(t, col)
		if err != nil {
			return nil, err
		}
		perColumn[i] = toks
	}

	records := make([][]string, len(t.Rows))
	for r := range t.Rows {
		occur := make(map[string]int)
		var record []string
		for c := range selected {
			for _, tok := range perColumn[c][r] {
				if tok == "" {
					continue
				}
				n := occur[tok]
				if n == 0 {
					record = append(record, tok)
				} else {
					record = append(record, tok+"_"+strconv.Itoa(n))
				}
				occur[tok] = n + 1
			}
		}
		records[r] = record
	}
	return records, nil
}

// BuildOrder accumulates the document-frequency map used to sort tokens by
// rarity: ord[token] is the number of record-occurrences of token across
// both lrecords and rrecords.
func BuildOrder(lrecords, rrecords [][]string) map[string]int {
	ord := make(map[string]int)
	accumulate := func(records [][]string) {
		for _, rec := range records {
			for _, tok := range rec {
				ord[tok]++
			}
		}
	}
	accumulate(lrecords)
	accumulate(rrecords)
	return ord
}

// OrderTokens sorts each record's token list in place by (ord[token]
// ascending, token ascending). Tokens absent from ord (which cannot happen
// given ord is built from these same lists) are dropped defensively.
func OrderTokens(records [][]string, ord map[string]int) {
	for i, rec := range records {
		kept := rec[:0:0]
		for _, tok := range rec {
			if _, ok := ord[tok]; ok {
				kept = append(kept, tok)
			}
		}
		sort.Slice(kept, func(a, b int) bool {
			fa, fb := ord[kept[a]], ord[kept[b]]
			if fa != fb {
				return fa < fb
			}
			return kept[a] < kept[b]
		})
		records[i] = kept
	}
}
