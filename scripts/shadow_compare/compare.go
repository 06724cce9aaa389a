package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

// maxDiffs caps how many differences are listed per endpoint.
const maxDiffs = 20

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

type comparison struct {
	Target         target
	LegacyStatus   int
	GoStatus       int
	Diffs          []string
	Error          error
	DurationGo     time.Duration
	DurationLegacy time.Duration
}

func (c comparison) ok() bool {
	return c.Error == nil && c.GoStatus == c.LegacyStatus && len(c.Diffs) == 0
}

type comparer struct {
	client     *http.Client
	goBase     string
	legacyBase string
	ignore     map[string]struct{}
}

func (c comparer) compare(tgt target) comparison {
	res := comparison{Target: tgt}

	goBody, goStatus, goDur, err := c.fetch(c.goBase, tgt)
	if err != nil {
		res.Error = fmt.Errorf("go request failed: %w", err)
		return res
	}
	legacyBody, legacyStatus, legacyDur, err := c.fetch(c.legacyBase, tgt)
	if err != nil {
		res.Error = fmt.Errorf("legacy request failed: %w", err)
		return res
	}
	res.GoStatus, res.LegacyStatus = goStatus, legacyStatus
	res.DurationGo, res.DurationLegacy = goDur, legacyDur

	diffs, err := diffJSON(legacyBody, goBody, c.ignore)
	if err != nil {
		res.Error = err
		return res
	}
	res.Diffs = diffs
	return res
}

func (c comparer) fetch(base string, tgt target) ([]byte, int, time.Duration, error) {
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		return nil, 0, 0, err
	}
	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, time.Since(start), nil
}

// diffJSON lists the paths where got differs from want. Keys in ignore are
// skipped at any depth.
func diffJSON(want, got []byte, ignore map[string]struct{}) ([]string, error) {
	var w, g interface{}
	if err := json.Unmarshal(want, &w); err != nil {
		return nil, fmt.Errorf("legacy body is not JSON: %w", err)
	}
	if err := json.Unmarshal(got, &g); err != nil {
		return nil, fmt.Errorf("go body is not JSON: %w", err)
	}
	var diffs []string
	walk("$", w, g, ignore, &diffs)
	if len(diffs) > maxDiffs {
		diffs = append(diffs[:maxDiffs], fmt.Sprintf("... %d more", len(diffs)-maxDiffs))
	}
	return diffs, nil
}

func walk(path string, want, got interface{}, ignore map[string]struct{}, diffs *[]string) {
	switch w := want.(type) {
	case map[string]interface{}:
		g, ok := got.(map[string]interface{})
		if !ok {
			*diffs = append(*diffs, fmt.Sprintf("%s: legacy object, go %s", path, kind(got)))
			return
		}
		for _, key := range unionKeys(w, g) {
			if _, skip := ignore[key]; skip {
				continue
			}
			wv, inW := w[key]
			gv, inG := g[key]
			switch {
			case !inG:
				*diffs = append(*diffs, fmt.Sprintf("%s.%s: missing in go", path, key))
			case !inW:
				*diffs = append(*diffs, fmt.Sprintf("%s.%s: only in go", path, key))
			default:
				walk(path+"."+key, wv, gv, ignore, diffs)
			}
		}
	case []interface{}:
		g, ok := got.([]interface{})
		if !ok {
			*diffs = append(*diffs, fmt.Sprintf("%s: legacy array, go %s", path, kind(got)))
			return
		}
		if len(w) != len(g) {
			*diffs = append(*diffs, fmt.Sprintf("%s: legacy has %d items, go has %d", path, len(w), len(g)))
		}
		for i := 0; i < len(w) && i < len(g); i++ {
			walk(fmt.Sprintf("%s[%d]", path, i), w[i], g[i], ignore, diffs)
		}
	default:
		if fmt.Sprint(want) != fmt.Sprint(got) || kind(want) != kind(got) {
			*diffs = append(*diffs, fmt.Sprintf("%s: legacy %v, go %v", path, want, got))
		}
	}
}

func unionKeys(a, b map[string]interface{}) []string {
	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func kind(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "bool"
	default:
		return fmt.Sprintf("%T", v)
	}
}
