package utils

const (
	OrganizationName = "Keystone"

	InvoiceNumberPrefix = "INV-"
	DefaultCurrency     = "USD"
)
