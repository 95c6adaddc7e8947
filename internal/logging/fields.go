package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for split run identifiers.
	FieldRunID = "run_id"
	// FieldInput is the standardized structured logging key for source audiobook paths.
	FieldInput = "input"
	// FieldOutput is the standardized structured logging key for produced file paths.
	FieldOutput = "output"
	// FieldMethod is the standardized structured logging key for boundary resolution methods.
	FieldMethod = "method"
	// FieldChapter is the standardized structured logging key for 1-based chapter positions.
	FieldChapter = "chapter"
	// FieldTitle is the standardized structured logging key for chapter titles.
	FieldTitle = "title"
)
