// Package fit holds the inputs of an unbinned maximum-likelihood fit: bounded
// real variables and datasets of observations over them.
//
// The usual entry point is FromTable, which turns a loaded table into a
// Dataset whose variable ranges are the observed column ranges:
//
//	tbl, _ := loader.LoadMerged("/data/runs", loader.Pattern{"detector": "det1"})
//	ds, err := fit.FromTable(tbl, []string{"mass", "pt"})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(ds.NumEntries(), ds.Mean("mass"))
package fit
