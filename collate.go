package couchmap

import (
	"sort"
	"strings"
)

// Collate orders two raw values the way a CouchDB-style store orders view
// keys: null < booleans < numbers < strings < arrays < objects; false
// before true; arrays element-wise then by length; objects by sorted
// key/value pairs. Strings compare bytewise rather than by ICU collation.
func Collate(a, b any) int {
	ra, rb := collateRank(a), collateRank(b)
	if ra != rb {
		return cmpInt(ra, rb)
	}
	switch ra {
	case 0: // null
		return 0
	case 1:
		ba, bb := a.(bool), b.(bool)
		switch {
		case ba == bb:
			return 0
		case !ba:
			return -1
		default:
			return 1
		}
	case 2:
		fa, _ := asFloat(a)
		fb, _ := asFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	case 3:
		return strings.Compare(a.(string), b.(string))
	case 4:
		la, lb := a.(RawList), b.(RawList)
		for i := 0; i < len(la) && i < len(lb); i++ {
			if c := Collate(la[i], lb[i]); c != 0 {
				return c
			}
		}
		return cmpInt(len(la), len(lb))
	default:
		ma, mb := a.(RawDocument), b.(RawDocument)
		ka, kb := sortedKeys(ma), sortedKeys(mb)
		for i := 0; i < len(ka) && i < len(kb); i++ {
			if c := strings.Compare(ka[i], kb[i]); c != 0 {
				return c
			}
			if c := Collate(ma[ka[i]], mb[kb[i]]); c != 0 {
				return c
			}
		}
		return cmpInt(len(ka), len(kb))
	}
}

func collateRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case string:
		return 3
	case RawList:
		return 4
	case RawDocument:
		return 5
	default:
		if _, ok := asFloat(v); ok {
			return 2
		}
		return 5
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func sortedKeys(m RawDocument) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
