// Package spec defines the specification search request and its validation.
package spec

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"specsearch/domain/core"
)

// ModelTypeOLS is the only estimator this tool supports.
const ModelTypeOLS = "ols"

// supportedKeys is the closed set of keys a raw configuration may contain.
var supportedKeys = map[string]bool{
	"dependent":           true,
	"main_predictors":     true,
	"controls":            true,
	"moderators":          true,
	"year_variable":       true,
	"drop_earliest_years": true,
	"model_type":          true,
}

// Request is a fully-populated, validated specification search request.
// Instances are only produced by FromDocument and are not mutated afterwards.
type Request struct {
	Dependent         string   `json:"dependent"`
	MainPredictors    []string `json:"main_predictors"`
	Controls          []string `json:"controls"`
	Moderators        []string `json:"moderators"`
	YearVariable      string   `json:"year_variable,omitempty"`
	DropEarliestYears []int    `json:"drop_earliest_years"`
	ModelType         string   `json:"model_type"`
}

// FromDocument parses and validates a raw JSON configuration document.
// Unknown keys are rejected so that typos never silently change a search.
func FromDocument(doc []byte) (*Request, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrConfigInvalid, err)
	}

	for _, key := range []string{"dependent", "main_predictors"} {
		if _, ok := raw[key]; !ok {
			return nil, core.NewMissingKeyError(key)
		}
	}

	var unsupported []string
	for key := range raw {
		if !supportedKeys[key] {
			unsupported = append(unsupported, key)
		}
	}
	if len(unsupported) > 0 {
		sort.Strings(unsupported)
		return nil, core.NewUnsupportedKeyError(unsupported)
	}

	req := &Request{
		Controls:          []string{},
		Moderators:        []string{},
		DropEarliestYears: []int{0},
		ModelType:         ModelTypeOLS,
	}

	if err := decodeField(raw, "dependent", &req.Dependent); err != nil {
		return nil, err
	}
	if err := decodeField(raw, "main_predictors", &req.MainPredictors); err != nil {
		return nil, err
	}
	if len(req.MainPredictors) == 0 {
		return nil, fmt.Errorf("%w: main_predictors must not be empty", core.ErrConfigInvalid)
	}
	if err := decodeField(raw, "controls", &req.Controls); err != nil {
		return nil, err
	}
	if err := decodeField(raw, "moderators", &req.Moderators); err != nil {
		return nil, err
	}
	if msg, ok := raw["year_variable"]; ok && string(msg) != "null" {
		if err := decodeField(raw, "year_variable", &req.YearVariable); err != nil {
			return nil, err
		}
	}
	if err := decodeField(raw, "drop_earliest_years", &req.DropEarliestYears); err != nil {
		return nil, err
	}

	// Only an absent model_type key falls back to the default; any explicit
	// value, empty or null included, must name a supported estimator.
	if _, ok := raw["model_type"]; ok {
		var modelType string
		if err := decodeField(raw, "model_type", &modelType); err != nil {
			return nil, err
		}
		req.ModelType = strings.ToLower(modelType)
	}
	if req.ModelType != ModelTypeOLS {
		return nil, fmt.Errorf("%w: %q (only OLS models are supported)", core.ErrUnsupportedModel, req.ModelType)
	}

	return req, nil
}

// LoadFile reads and validates a JSON configuration file.
func LoadFile(path string) (*Request, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return FromDocument(doc)
}

// Variables returns every variable name the request references, deduplicated
// in first-mention order. Used for dataset profiling and validation.
func (r *Request) Variables() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	add(r.Dependent)
	for _, p := range r.MainPredictors {
		add(p)
	}
	for _, c := range r.Controls {
		add(c)
	}
	for _, m := range r.Moderators {
		add(m)
	}
	add(r.YearVariable)
	return names
}

func decodeField(raw map[string]json.RawMessage, key string, dst interface{}) error {
	msg, ok := raw[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(msg, dst); err != nil {
		return fmt.Errorf("%w: key %q: %v", core.ErrConfigInvalid, key, err)
	}
	return nil
}
