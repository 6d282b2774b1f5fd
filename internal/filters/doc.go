// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters narrows a dataset before it is compared.
//
// Filters are key-operator-target expressions joined by a configurable
// delimiter (default: comma, override with TAGWATCH_FILTER_DELIM). Every filter
// must pass for an identifier or prefix to be kept.
//
// Keys:
//
//   - id     : the service tag identifier
//   - prefix : an address prefix, compared as a string
//   - net    : an address prefix, compared as a network
//
// Operators for id and prefix:
//
//   - = : exact match
//   - ~ : case-insensitive match
//   - ^ : starts with
//   - @ : contains substring
//   - / : regular expression
//   - < : sorts before
//   - > : sorts after
//
// The net key accepts = only; the target is a CIDR prefix and a value matches
// when it lies inside it. Any operator is negated with a leading !.
//
// Examples:
//
//   - "id^AzureCloud" : only the AzureCloud tags
//   - "id!/\.(eastus|westus)$" : drop two regions
//   - "net=2603::/16" : only prefixes inside 2603::/16
//   - "prefix!@:" : drop IPv6 prefixes
//
// Filters only change what is reported. Snapshots are always stored whole.
package filters
