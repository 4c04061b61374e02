// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package config loads Coordinator settings from YAML.

A result type's equality semantics (for Count) or aggregation function
(for Average) can't be expressed in a config file, so this package stops
short of producing a coordinator.Settings directly. Instead, Load and
LoadFile parse the numeric and policy-shape fields into a Settings
value, and the package-level Count and Average functions fill in a
coordinator.Settings
once the caller supplies the missing type parameter and, for Average,
the aggregator.

A typical YAML document looks like:

	max_parallel: 4
	policy:
	  count: 2
	retries: 1
	retries_for_inconsistency: 1

or, for an averaging policy:

	max_parallel: 4
	policy:
	  average: 3
	retries: 1
*/
package config
