package fit

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"github.com/YuminosukeSato/hepkit/pkg/errors"
)

// datasetFile is the on-disk form of a Dataset.
type datasetFile struct {
	Name    string
	Title   string
	Vars    []varFile
	Values  []float64
	Entries int
}

type varFile struct {
	Name  string
	Title string
	Min   float64
	Max   float64
}

// SaveDataset writes ds to w in gob encoding.
func SaveDataset(ds *Dataset, w io.Writer) error {
	f := datasetFile{
		Name:    ds.name,
		Title:   ds.title,
		Vars:    make([]varFile, ds.vars.Len()),
		Values:  ds.values,
		Entries: ds.entries,
	}
	for i, v := range ds.vars.vars {
		f.Vars[i] = varFile{Name: v.Name, Title: v.Title, Min: v.Min, Max: v.Max}
	}
	if err := gob.NewEncoder(w).Encode(&f); err != nil {
		return errors.Wrap(err, "failed to encode dataset")
	}
	return nil
}

// LoadDataset reads a dataset written by SaveDataset.
func LoadDataset(r io.Reader) (*Dataset, error) {
	var f datasetFile
	if err := gob.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(err, "failed to decode dataset")
	}
	if f.Entries < 0 {
		return nil, errors.NewValueError("LoadDataset", "negative entry count")
	}
	if len(f.Values) != f.Entries*len(f.Vars) {
		return nil, errors.NewValueError("LoadDataset", "value count does not match entries and variables")
	}

	vars := NewArgSet()
	for _, v := range f.Vars {
		if !vars.Add(&RealVar{Name: v.Name, Title: v.Title, Min: v.Min, Max: v.Max}) {
			return nil, errors.NewValueError("LoadDataset", fmt.Sprintf("duplicate variable '%s'", v.Name))
		}
	}
	return &Dataset{
		name:    f.Name,
		title:   f.Title,
		vars:    vars,
		values:  f.Values,
		entries: f.Entries,
	}, nil
}

// SaveDatasetFile writes ds to filename.
func SaveDatasetFile(ds *Dataset, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	if err := SaveDataset(ds, file); err != nil {
		file.Close()
		return err
	}
	return errors.WithStack(file.Close())
}

// LoadDatasetFile reads a dataset from filename.
func LoadDatasetFile(filename string) (*Dataset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	return LoadDataset(file)
}
