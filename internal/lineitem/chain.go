package lineitem

// NumberChain resolves a numeric canonical field. Item aliases are tried
// before record aliases; the first coercible value wins.
type NumberChain struct {
	Field         string
	ItemAliases   []string
	RecordAliases []string
}

// TextChain resolves a string canonical field. The first present value wins;
// a non-primitive value renders as Placeholder, nothing present as Default.
type TextChain struct {
	Field         string
	ItemAliases   []string
	RecordAliases []string
	Default       string
}

// Placeholder replaces values that cannot be printed, such as objects or lists
const Placeholder = "N/A"

var (
	HoursChain = NumberChain{
		Field:         "hours",
		ItemAliases:   []string{"hours", "hoursWorked", "quantity", "totalHours"},
		RecordAliases: []string{"hours", "totalHours"},
	}
	RateChain = NumberChain{
		Field:         "rate",
		ItemAliases:   []string{"rate", "hourlyRate", "unitPrice", "billRate"},
		RecordAliases: []string{"hourlyRate", "rate"},
	}
	// TotalChain only reads the record when the item is synthesised from it;
	// a record level total covers every item and cannot be attributed to one.
	TotalChain = NumberChain{
		Field:         "total",
		ItemAliases:   []string{"amount", "total"},
		RecordAliases: []string{"total", "totalAmount", "amount", "subtotal"},
	}
	EmployeeNameChain = TextChain{
		Field:         "employeeName",
		ItemAliases:   []string{"employeeName", "employee"},
		RecordAliases: []string{"employeeName"},
		Default:       "Employee Name",
	}
	RoleChain = TextChain{
		Field:         "role",
		ItemAliases:   []string{"role", "position", "title"},
		RecordAliases: []string{"role", "position"},
		Default:       "Software Engineer",
	}
	// PeriodLabelChain has no default; an empty label is filled from the
	// billing period when the draft is assembled
	PeriodLabelChain = TextChain{
		Field:       "periodLabel",
		ItemAliases: []string{"description"},
	}
)
