// Standard attribute keys for data loading and conversion logs. Using the
// same keys everywhere keeps log output filterable across components.

package log

// Operation context
const (
	// ComponentKey identifies the package emitting the record.
	// Examples: "loader", "preprocessing", "fit"
	ComponentKey = "component"

	// OperationKey names the operation being performed.
	OperationKey = "operation"
)

// Files and directories
const (
	// DirectoryKey is the directory being scanned.
	DirectoryKey = "dir"

	// FilePathKey is the full path of a file being read.
	FilePathKey = "file.path"

	// FileNameKey is the base name of a file.
	FileNameKey = "file.name"

	// FilesKey is a number of files.
	FilesKey = "files.count"

	// FileListKey is a list of file names.
	FileListKey = "files.list"

	// PatternKey is the filename pattern used for matching.
	PatternKey = "pattern"
)

// Table shape
const (
	// RowsKey is a number of rows.
	RowsKey = "data.rows"

	// ColumnsKey is a number of columns.
	ColumnsKey = "data.columns"

	// ColumnKey names a single column.
	ColumnKey = "data.column"

	// RemovedRowsKey is the number of rows dropped by deduplication.
	RemovedRowsKey = "dedup.removed"

	// DuplicatePercentKey is the share of duplicate rows, in percent.
	DuplicatePercentKey = "dedup.percent"
)

// Fitting datasets
const (
	// DatasetKey names a fitting dataset.
	DatasetKey = "dataset.name"

	// VariablesKey is the number of fitting variables.
	VariablesKey = "dataset.variables"

	// EntriesKey is the number of dataset entries.
	EntriesKey = "dataset.entries"
)

// Performance
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Standard operation names.
const (
	OperationLoad        = "load"
	OperationMerge       = "merge"
	OperationDeduplicate = "deduplicate"
	OperationCheck       = "check_columns"
	OperationConvert     = "convert"
)
