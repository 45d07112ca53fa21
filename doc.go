// Package hepkit provides data preparation utilities for physics analyses in Go:
// bulk loading of per-run event files, deduplication, column checks and
// conversion of tables into datasets ready for unbinned fits.
//
// # Features
//
//   - Pattern loading: select files by substrings of their names and tag every
//     row with the matched values
//   - Merging: concatenate many files into one table with a source column
//   - Deduplication with a summary of removed rows
//   - Conversion of numeric columns into fit datasets with observed ranges
//   - Structured logging and stack-carrying errors
//
// # Installation
//
//	go get github.com/YuminosukeSato/hepkit
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/hepkit/fit"
//	    "github.com/YuminosukeSato/hepkit/loader"
//	    "github.com/YuminosukeSato/hepkit/preprocessing"
//	)
//
//	func main() {
//	    // Load every file of detector det1 into one table
//	    merged, err := loader.LoadMerged("data/", loader.Pattern{"detector": "det1"})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Drop events recorded twice
//	    clean, report, err := preprocessing.RemoveDuplicateRows(merged, []string{"run", "event"})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(report)
//
//	    // Build a dataset over the invariant mass
//	    ds, err := fit.FromTable(clean, []string{"mass"})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(ds.NumEntries())
//	}
//
// # Packages
//
//   - frame: typed in-memory tables, CSV and XLSX reading, concatenation
//   - loader: pattern based file discovery, loading and merging
//   - preprocessing: duplicate removal and column checks
//   - fit: fit variables, datasets, persistence and histograms
//   - pkg/errors: structured errors and warnings
//   - pkg/log: logger interface backed by zerolog
//   - pkg/progress: terminal progress bars
//
// The hepkit command in cmd/hepkit exposes loading, checking and conversion on
// the command line.
//
// # License
//
// hepkit is released under the MIT License.
package hepkit
