package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldUserID    = "user_id"
	FieldExpenseID = "expense_id"
	FieldEmail     = "email"
	FieldCategory  = "category"
	FieldAmount    = "amount"
	FieldYear      = "year"
	FieldMonth     = "month"
	FieldError     = "error"
	FieldDBPath    = "db_path"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentService = "service"
	ComponentStorage = "storage"
	ComponentSession = "session"
)
