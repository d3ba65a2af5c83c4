package routes

const (
	// Public
	Health  = "/health"
	Metrics = "/metrics"

	APIPrefix = "/api/v1"

	// Account
	Me = APIPrefix + "/me"

	// Dashboard
	Dashboard = APIPrefix + "/dashboard"

	// Properties
	Properties         = APIPrefix + "/properties"
	PropertiesStats    = APIPrefix + "/properties/stats"
	PropertiesAnalytics = APIPrefix + "/properties/analytics"
	Property           = APIPrefix + "/properties/{id}"
	PropertyUnits      = APIPrefix + "/properties/{id}/units"
	PropertyLeases     = APIPrefix + "/properties/{id}/leases"
	PropertyRequests   = APIPrefix + "/properties/{id}/maintenance"

	// Units
	Units      = APIPrefix + "/units"
	UnitsStats = APIPrefix + "/units/stats"
	Unit       = APIPrefix + "/units/{id}"
	UnitStatus = APIPrefix + "/units/{id}/status"
	UnitLeases = APIPrefix + "/units/{id}/leases"

	// Tenants
	Tenants          = APIPrefix + "/tenants"
	TenantsStats     = APIPrefix + "/tenants/stats"
	TenantsAnalytics = APIPrefix + "/tenants/analytics"
	Tenant           = APIPrefix + "/tenants/{id}"
	TenantLeases     = APIPrefix + "/tenants/{id}/leases"
	TenantActivity   = APIPrefix + "/tenants/{id}/activity"

	// Leases
	Leases          = APIPrefix + "/leases"
	LeasesStats     = APIPrefix + "/leases/stats"
	LeasesAnalytics = APIPrefix + "/leases/analytics"
	LeasesExpiring  = APIPrefix + "/leases/expiring"
	Lease           = APIPrefix + "/leases/{id}"
	LeaseSubmit     = APIPrefix + "/leases/{id}/submit"
	LeaseWithdraw   = APIPrefix + "/leases/{id}/withdraw"
	LeaseActivate   = APIPrefix + "/leases/{id}/activate"
	LeaseTerminate  = APIPrefix + "/leases/{id}/terminate"
	LeaseRenew      = APIPrefix + "/leases/{id}/renew"

	// Maintenance
	Maintenance          = APIPrefix + "/maintenance"
	MaintenanceStats     = APIPrefix + "/maintenance/stats"
	MaintenanceAnalytics = APIPrefix + "/maintenance/analytics"
	MaintenanceRequest   = APIPrefix + "/maintenance/{id}"
	MaintenanceAssign    = APIPrefix + "/maintenance/{id}/assign"
	MaintenanceWorkLog   = APIPrefix + "/maintenance/{id}/work-log"
	MaintenanceComplete  = APIPrefix + "/maintenance/{id}/complete"
	MaintenanceCancel    = APIPrefix + "/maintenance/{id}/cancel"

	// Invoices
	Invoices        = APIPrefix + "/invoices"
	InvoicesStats   = APIPrefix + "/invoices/stats"
	InvoiceByNumber = APIPrefix + "/invoices/number/{number}"
	Invoice         = APIPrefix + "/invoices/{id}"
	InvoicePay      = APIPrefix + "/invoices/{id}/pay"
	InvoiceVoid     = APIPrefix + "/invoices/{id}/void"

	// Subscriptions
	Subscriptions       = APIPrefix + "/subscriptions"
	SubscriptionCurrent = APIPrefix + "/subscriptions/current"
	SubscriptionsStats  = APIPrefix + "/subscriptions/stats"
	Subscription        = APIPrefix + "/subscriptions/{id}"
	SubscriptionCancel  = APIPrefix + "/subscriptions/{id}/cancel"
	SubscriptionUsage   = APIPrefix + "/subscriptions/{id}/usage"

	// Notifications
	Notifications            = APIPrefix + "/notifications"
	NotificationsUnreadCount = APIPrefix + "/notifications/unread-count"
	NotificationsReadAll     = APIPrefix + "/notifications/read-all"
	Notification             = APIPrefix + "/notifications/{id}"
	NotificationRead         = APIPrefix + "/notifications/{id}/read"

	// Billing
	StripeWebhook = APIPrefix + "/billing/stripe/webhook"

	// Admin
	AdminExpireLeases = APIPrefix + "/admin/leases/expire"
)
