// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"net/netip"
	"os"
	"regexp"
	"strings"

	"github.com/apex/log"

	"github.com/tfctl/tagwatch/internal/dataset"
)

// filterRegex splits a filter expression into key, operator (with optional
// negation) and target. Examples: "id=Sql", "id!^Azure", "net=10.0.0.0/8".
var filterRegex = regexp.MustCompile(`^([^!=^~<>@/]*)(!?[=^~<>@/])(.*)$`)

// Filter is a single parsed --filter expression.
type Filter struct {
	Key     string `yaml:"key" json:"Key"`
	Negate  bool   `yaml:"negate" json:"Negate"`
	Operand string `yaml:"operand" json:"Operand"`
	Value   string `yaml:"value" json:"Value"`
}

// BuildFilters parses a filter specification string into a slice of Filter.
func BuildFilters(spec string) ([]Filter, error) {
	//nolint:prealloc
	var filters []Filter

	if strings.TrimSpace(spec) == "" {
		return filters, nil
	}

	// Default delimiter is ",", allow an override for regexes that need commas.
	delim := ","
	if d, ok := os.LookupEnv("TAGWATCH_FILTER_DELIM"); ok && d != "" {
		delim = d
	}

	for _, filterSpec := range strings.Split(spec, delim) {
		filterSpec = strings.TrimSpace(filterSpec)
		if filterSpec == "" {
			continue
		}

		parts := filterRegex.FindStringSubmatch(filterSpec)
		if parts == nil {
			return nil, fmt.Errorf("invalid filter %q: missing operator", filterSpec)
		}

		f := Filter{
			Key:     strings.TrimSpace(parts[1]),
			Operand: strings.TrimPrefix(parts[2], "!"),
			Negate:  strings.HasPrefix(parts[2], "!"),
			Value:   parts[3],
		}
		if err := f.validate(); err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", filterSpec, err)
		}

		filters = append(filters, f)
	}

	log.Debugf("filters: %+v", filters)
	return filters, nil
}

func (f Filter) validate() error {
	switch f.Key {
	case "id", "prefix":
		if f.Operand == "/" {
			if _, err := regexp.Compile(f.Value); err != nil {
				return err
			}
		}
	case "net":
		if f.Operand != "=" {
			return fmt.Errorf("net only supports = and !=")
		}
		if _, err := netip.ParsePrefix(f.Value); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown key %q, must be id, prefix or net", f.Key)
	}
	return nil
}

// Apply returns ds narrowed by filters. With no filters ds is returned as is.
func Apply(ds *dataset.Dataset, filters []Filter) *dataset.Dataset {
	if len(filters) == 0 {
		return ds
	}

	var idFilters, prefixFilters []Filter
	for _, f := range filters {
		if f.Key == "id" {
			idFilters = append(idFilters, f)
		} else {
			prefixFilters = append(prefixFilters, f)
		}
	}

	return ds.Select(
		func(id string) bool { return passes(id, idFilters) },
		func(_, prefix string) bool { return passes(prefix, prefixFilters) },
	)
}

func passes(value string, filters []Filter) bool {
	for _, f := range filters {
		var ok bool
		if f.Key == "net" {
			ok = checkNetOperand(value, f)
		} else {
			ok = checkStringOperand(value, f)
		}
		if !ok {
			return false
		}
	}
	return true
}

// checkNetOperand reports whether value, a prefix or bare address, lies within
// the filter's network. Unparseable values never lie within it.
func checkNetOperand(value string, filter Filter) bool {
	network, err := netip.ParsePrefix(filter.Value)
	if err != nil {
		return false
	}

	p, err := netip.ParsePrefix(value)
	if err != nil {
		a, aerr := netip.ParseAddr(value)
		if aerr != nil {
			return filter.Negate
		}
		p = netip.PrefixFrom(a, a.BitLen())
	}

	inside := network.Bits() <= p.Bits() && network.Masked().Contains(p.Addr())
	return inside == !filter.Negate
}

// checkStringOperand evaluates a string comparison style filter against the
// provided value using the operand semantics.
func checkStringOperand(value string, filter Filter) bool {
	switch filter.Operand {
	case "=":
		return value == filter.Value == !filter.Negate
	case "~":
		return strings.EqualFold(value, filter.Value) == !filter.Negate
	case "^":
		return strings.HasPrefix(value, filter.Value) == !filter.Negate
	case ">":
		return value > filter.Value == !filter.Negate
	case "<":
		return value < filter.Value == !filter.Negate
	case "@":
		return strings.Contains(value, filter.Value) == !filter.Negate
	case "/":
		matched, err := regexp.MatchString(filter.Value, value)
		if err != nil {
			log.Error("invalid regex: " + filter.Value)
			return false
		}
		return matched == !filter.Negate
	default:
		log.Error("unsupported filtering operand: " + filter.Operand)
		return false
	}
}
