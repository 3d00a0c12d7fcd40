package logging

// Field names shared by all components so log output stays filterable.
const (
	FieldComponent  = "component"
	FieldOperation  = "operation"
	FieldBudgetID   = "budget_id"
	FieldCategory   = "category"
	FieldCount      = "count"
	FieldSkipped    = "skipped"
	FieldStartDate  = "start_date"
	FieldEndDate    = "end_date"
	FieldStatus     = "status"
	FieldAttempt    = "attempt"
	FieldDuration   = "duration_ms"
	FieldOutputFile = "output_file"
	FieldStage      = "stage"
)
