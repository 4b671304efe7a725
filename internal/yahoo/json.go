package yahoo

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Yahoo's JSON encodes resources as arrays of single-key objects, often
// nested one level deep, and collections as objects keyed "0".."n-1" plus
// a "count". These helpers turn both shapes into something addressable.

// fields is a merged view of a resource node.
type fields map[string]gjson.Result

// flatten merges every object found in res, descending into arrays. The
// first occurrence of a key wins.
func flatten(res gjson.Result) fields {
	f := fields{}
	f.merge(res)
	return f
}

func (f fields) merge(res gjson.Result) {
	switch {
	case res.IsArray():
		res.ForEach(func(_, v gjson.Result) bool {
			f.merge(v)
			return true
		})
	case res.IsObject():
		res.ForEach(func(k, v gjson.Result) bool {
			if _, ok := f[k.String()]; !ok {
				f[k.String()] = v
			}
			return true
		})
	}
}

// get resolves a dotted path whose first component is a merged key.
func (f fields) get(path string) gjson.Result {
	head, rest, _ := strings.Cut(path, ".")
	r := f[head]
	if rest == "" {
		return r
	}
	return r.Get(rest)
}

func (f fields) str(path string) string {
	return f.get(path).String()
}

func (f fields) int(path string) int {
	return int(f.get(path).Int())
}

func (f fields) float(path string) float64 {
	return f.get(path).Float()
}

func (f fields) flag(path string) bool {
	r := f.get(path)
	if r.Type == gjson.True {
		return true
	}
	return r.Int() == 1
}

// collection returns the item nodes of a numeric-keyed collection. Arrays
// of wrapped items are accepted too.
func collection(res gjson.Result, item string) []gjson.Result {
	out := []gjson.Result{}
	res.ForEach(func(k, v gjson.Result) bool {
		if k.String() == "count" {
			return true
		}
		if it := v.Get(item); it.Exists() {
			out = append(out, it)
		}
		return true
	})
	return out
}
