// Package variant expands product option definitions into the full
// cross-product of sellable variants. Regeneration is identity preserving:
// a combination that exists before and after an edit keeps its persisted id,
// prices, unit, and active flag.
package variant

import (
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/backend-gorden/internal/attrs"
)

// Money represents a monetary value stored in minor units.
type Money = int64

// MaxOptions is the design limit on simultaneously active options.
const MaxOptions = 4

// keySep joins attribute pairs inside a variant identity key. Option names
// and values are rejected at validation time when they contain it.
const keySep = "|"

// OptionDefinition is one named axis of variation together with its values,
// in display order.
type OptionDefinition struct {
	Name   string   `json:"name" validate:"max=100"`
	Values []string `json:"values" validate:"dive,max=100"`
}

// Variant is one priceable combination of one value per active option.
type Variant struct {
	ID         string            `json:"id,omitempty"`
	Attributes map[string]string `json:"attributes"`
	PriceGross Money             `json:"price_gross"`
	PriceNet   Money             `json:"price_net"`
	Unit       string            `json:"unit"`
	Active     bool              `json:"active"`
}

// activeOptions filters to options that contribute a dimension: non-empty
// name and at least one non-empty value. Values are trimmed; duplicates
// after normalization are collapsed keeping the first spelling.
func activeOptions(options []OptionDefinition) []OptionDefinition {
	out := make([]OptionDefinition, 0, len(options))
	for _, opt := range options {
		name := strings.TrimSpace(opt.Name)
		if name == "" {
			continue
		}
		seen := make(map[string]struct{}, len(opt.Values))
		values := make([]string, 0, len(opt.Values))
		for _, v := range opt.Values {
			trimmed := strings.TrimSpace(v)
			if trimmed == "" {
				continue
			}
			norm := attrs.Normalize(trimmed)
			if _, dup := seen[norm]; dup {
				continue
			}
			seen[norm] = struct{}{}
			values = append(values, trimmed)
		}
		if len(values) == 0 {
			continue
		}
		out = append(out, OptionDefinition{Name: name, Values: values})
	}
	return out
}

// ValidateOptions enforces the option design constraints: at most MaxOptions
// active options, values unique within an option after normalization, and no
// reserved separator characters in names or values.
func ValidateOptions(options []OptionDefinition) error {
	active := 0
	for _, opt := range options {
		name := strings.TrimSpace(opt.Name)
		if name == "" {
			continue
		}
		if strings.Contains(name, keySep) {
			return fmt.Errorf("option %q: name must not contain %q", name, keySep)
		}
		seen := make(map[string]string, len(opt.Values))
		nonEmpty := 0
		for _, v := range opt.Values {
			trimmed := strings.TrimSpace(v)
			if trimmed == "" {
				continue
			}
			nonEmpty++
			if strings.Contains(trimmed, keySep) {
				return fmt.Errorf("option %q: value %q must not contain %q", name, trimmed, keySep)
			}
			norm := attrs.Normalize(trimmed)
			if prev, dup := seen[norm]; dup {
				return fmt.Errorf("option %q: duplicate value %q (same as %q)", name, trimmed, prev)
			}
			seen[norm] = trimmed
		}
		if nonEmpty > 0 {
			active++
		}
	}
	if active > MaxOptions {
		return fmt.Errorf("at most %d active options are supported, got %d", MaxOptions, active)
	}
	return nil
}

// Key builds the normalized identity key of an attribute set: pairs sorted
// by option name, values normalized, joined with the reserved separator.
func Key(attributes map[string]string) string {
	names := make([]string, 0, len(attributes))
	for name := range attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteString(keySep)
		}
		b.WriteString(strings.TrimSpace(name))
		b.WriteString("=")
		b.WriteString(attrs.Normalize(attributes[name]))
	}
	return b.String()
}

// Generate expands the active options into the full cartesian product of
// variants, carrying forward id, prices, unit, and active flag from any
// previous variant whose normalized attribute set matches exactly. New
// combinations start with zero prices and active=true. Pure: previous is
// never mutated and the caller owns persistence.
func Generate(options []OptionDefinition, previous []Variant) []Variant {
	active := activeOptions(options)
	if len(active) == 0 {
		return nil
	}

	prior := make(map[string]Variant, len(previous))
	for _, pv := range previous {
		key := Key(pv.Attributes)
		if _, exists := prior[key]; !exists {
			prior[key] = pv
		}
	}

	total := 1
	for _, opt := range active {
		total *= len(opt.Values)
	}

	out := make([]Variant, 0, total)
	indices := make([]int, len(active))
	for {
		attributes := make(map[string]string, len(active))
		for i, opt := range active {
			attributes[opt.Name] = opt.Values[indices[i]]
		}
		v := Variant{Attributes: attributes, Active: true}
		if prev, ok := prior[Key(attributes)]; ok {
			v.ID = prev.ID
			v.PriceGross = prev.PriceGross
			v.PriceNet = prev.PriceNet
			v.Unit = prev.Unit
			v.Active = prev.Active
		}
		out = append(out, v)

		// Advance the rightmost index, rippling left, so combinations come
		// out in display order of the options.
		pos := len(active) - 1
		for pos >= 0 {
			indices[pos]++
			if indices[pos] < len(active[pos].Values) {
				break
			}
			indices[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}
	return out
}

// Deduplicate collapses redundant variants that differ only in formatting or
// derived fields. The composite key is the normalized attribute identity
// plus the effective price (net preferred, gross as fallback) and the unit.
// First occurrence wins. Generation never produces duplicates; this guards
// externally loaded lists that pre-date normalization.
func Deduplicate(variants []Variant) []Variant {
	seen := make(map[string]struct{}, len(variants))
	out := make([]Variant, 0, len(variants))
	for _, v := range variants {
		price := v.PriceNet
		if price == 0 {
			price = v.PriceGross
		}
		// Unlike generation matching, deduplication also folds case: legacy
		// rows were entered by hand and "Merah" vs "merah" is the same entry.
		key := strings.ToLower(fmt.Sprintf("%s%sp=%d%su=%s",
			Key(v.Attributes), keySep, price, keySep, strings.TrimSpace(v.Unit)))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

// PriceWarnings reports variants whose gross price does not exceed the net
// price while both are set. The pair is inclusive vs. exclusive pricing, so
// an inverted pair is suspicious but may be intentional; the operator
// decides, nothing is blocked.
func PriceWarnings(variants []Variant) []string {
	var warnings []string
	for _, v := range variants {
		if v.PriceGross > 0 && v.PriceNet > 0 && v.PriceGross <= v.PriceNet {
			warnings = append(warnings, fmt.Sprintf(
				"variant %s: gross price %d should be greater than net price %d",
				Key(v.Attributes), v.PriceGross, v.PriceNet))
		}
	}
	return warnings
}
