package types

// ConsoleInterface define a interface para saída no console.
type ConsoleInterface interface {
	Print(a ...interface{})
	Printf(format string, a ...interface{})
	Println(a ...interface{})

	LogInfo(format string, a ...interface{})
	LogWarning(format string, a ...interface{})
	LogError(format string, a ...interface{})
	LogSuccess(format string, a ...interface{})

	Status(message string) StatusHandle
	ProgressWithTotal(total int) ProgressHandle

	CreateTable() TableInterface
	DisplayUsageBreakdown(summary UsageSummary)
}

// StatusHandle é uma interface para atualizar uma mensagem de status.
type StatusHandle interface {
	Update(message string)
	Stop()
}

// ProgressHandle é uma interface para atualizar uma barra de progresso.
type ProgressHandle interface {
	Increment()
	Stop()
}

// TableInterface define a interface para criar e manipular tabelas.
type TableInterface interface {
	AddColumn(name string, options ...interface{})
	AddRow(cells ...interface{})
	Render() string
}

// UsageSummary carries the report cardinalities for the breakdown panel.
type UsageSummary struct {
	Period           string `json:"period"`
	AccountID        string `json:"account_id"`
	Source           string `json:"source"`
	ApprovedInUse    int    `json:"approved_in_use"`
	ApprovedNotInUse int    `json:"approved_not_in_use"`
	UnapprovedInUse  int    `json:"unapproved_in_use"`
	SkippedMalformed int    `json:"skipped_malformed"`
}
