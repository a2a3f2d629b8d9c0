// Package datacontainer is an in-memory, column-oriented data container with
// typed columns, stable row keys, cached column domains, data classification
// and one- or multi-dimensional binning.
//
// # Architecture
//
// A table is a set of equal-length columns plus a $key column. Every layer
// has one job:
//
//  1. Type inference: each value is quantitative, categorical, temporal,
//     interval, geometry, a nested table or invalid (missing). A column takes
//     the type of its first valid value and must stay homogeneous.
//
//  2. Keys: every row has a key that survives deletes and reordering. Keys
//     are generated ("0", "1", ...) unless the input supplies a $key column.
//
//  3. Domains: the value range of a column is computed on first use and
//     cached until the column changes.
//
//  4. Classification and binning: seven breakpoint algorithms (equal
//     interval, quantile, standard deviation, arithmetic and geometric
//     progression, Jenks natural breaks, Ckmeans) plus fixed-size and manual
//     boundaries feed a binning engine that groups rows into sub-tables.
//
// # Quick Start
//
//	import (
//	    "github.com/ajitpratap0/datacontainer/pkg/binning"
//	    "github.com/ajitpratap0/datacontainer/pkg/table"
//	)
//
//	tbl, err := table.New(map[string]interface{}{
//	    "a": []interface{}{1, 2, 3, 4, 5, 6, 7},
//	    "b": []interface{}{8, 9, 10, 11, 12, 13, 14},
//	})
//
//	d, err := tbl.Domain("a") // domain.Range{1, 7}
//
//	binned, err := tbl.Bin(binning.Instruction{
//	    Column:     "a",
//	    Method:     binning.EqualInterval,
//	    NumClasses: 3,
//	})
//	// binned has columns bins, $grouped and $key; every $grouped value is
//	// a *table.Table holding the rows of one bin
//
// # Key Packages
//
//	pkg/table        - The container: ingestion, modification, transformations
//	pkg/datatype     - Semantic types of values and columns
//	pkg/domain       - Domain calculation and the per-table domain cache
//	pkg/keyindex     - Key to row position index
//	pkg/columnar     - Typed column storage
//	pkg/classify     - Breakpoint algorithms
//	pkg/binning      - Bin ranges, 1D and multi-dimensional binning
//	pkg/formats      - Arrow IPC interchange and CSV ingestion
//	pkg/compression  - Compressed dataset streams
//	pkg/config       - Configuration loading and defaults
//	pkg/errors       - Structured error handling
//	pkg/logger       - Structured logging
//	pkg/metrics      - Classification and binning metrics
//
// # Command Line
//
// cmd/datacontainer loads JSON, GeoJSON, CSV or Arrow files, optionally
// compressed, and reports domains, boundaries, bins and groups:
//
//	datacontainer domain cities.geojson.zst
//	datacontainer bin cities.csv --by pop:Jenks:5 --by area:Quantile:4
//	datacontainer export cities.csv --out cities.arrow.lz4 --sort pop --desc
//
// # Configuration
//
// Binning defaults, logging and output compression come from a YAML file or
// DATACONTAINER_* environment variables:
//
//	binning:
//	  default_method: Quantile
//	  default_num_classes: 5
//	logging:
//	  level: warn
//	io:
//	  compression: zstd
//
// Environment variables are supported with ${VAR_NAME} syntax.
package datacontainer
