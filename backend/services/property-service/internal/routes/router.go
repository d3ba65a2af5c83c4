package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/poofware/mono-repo/backend/services/property-service/internal/app"
	"github.com/poofware/mono-repo/backend/services/property-service/internal/controllers"
	"github.com/poofware/mono-repo/backend/services/property-service/internal/metrics"
	"github.com/poofware/mono-repo/backend/shared/go-middleware"
)

// NewRouter registers every endpoint of the service. Fixed paths such as
// /stats are registered before their {id} siblings.
func NewRouter(a *app.App) *mux.Router {
	healthCtrl := controllers.NewHealthController(a)
	propertyCtrl := controllers.NewPropertyController(a.Repos)
	unitCtrl := controllers.NewUnitController(a.Repos)
	tenantCtrl := controllers.NewTenantController(a.Repos)
	leaseCtrl := controllers.NewLeaseController(a.Repos, a.LeaseService)
	maintenanceCtrl := controllers.NewMaintenanceController(a.Repos)
	invoiceCtrl := controllers.NewInvoiceController(a.Repos)
	subscriptionCtrl := controllers.NewSubscriptionController(a.Repos)
	notificationCtrl := controllers.NewNotificationController(a.Repos, a.NotificationService)
	dashboardCtrl := controllers.NewDashboardController(a.DashboardService)
	userCtrl := controllers.NewUserController(a.Repos)

	router := mux.NewRouter()
	router.Use(metrics.Middleware)

	// Public
	router.HandleFunc(Health, healthCtrl.HealthCheckHandler).Methods(http.MethodGet)
	router.Handle(Metrics, promhttp.Handler()).Methods(http.MethodGet)
	if secret := a.Config.Billing.StripeWebhookSecret; secret != "" {
		stripeCtrl := controllers.NewStripeWebhookController(secret, a.BillingService)
		router.HandleFunc(StripeWebhook, stripeCtrl.WebhookHandler).Methods(http.MethodPost)
	}

	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(a.Config.RSAPublicKey(), a.Config.Auth.Issuer))

	// Account
	secured.HandleFunc(Me, userCtrl.GetMeHandler).Methods(http.MethodGet)
	secured.HandleFunc(Me, userCtrl.PatchMeHandler).Methods(http.MethodPatch)
	secured.HandleFunc(Dashboard, dashboardCtrl.GetHandler).Methods(http.MethodGet)

	// Properties
	secured.HandleFunc(Properties, propertyCtrl.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(Properties, propertyCtrl.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(PropertiesStats, propertyCtrl.StatsHandler).Methods(http.MethodGet)
	secured.HandleFunc(PropertiesAnalytics, propertyCtrl.AnalyticsHandler).Methods(http.MethodGet)
	secured.HandleFunc(Property, propertyCtrl.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(Property, propertyCtrl.UpdateHandler).Methods(http.MethodPatch)
	secured.HandleFunc(Property, propertyCtrl.DeleteHandler).Methods(http.MethodDelete)
	secured.HandleFunc(PropertyUnits, propertyCtrl.ListUnitsHandler).Methods(http.MethodGet)
	secured.HandleFunc(PropertyLeases, leaseCtrl.ListByPropertyHandler).Methods(http.MethodGet)
	secured.HandleFunc(PropertyRequests, maintenanceCtrl.ListByPropertyHandler).Methods(http.MethodGet)

	// Units
	secured.HandleFunc(Units, unitCtrl.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(Units, unitCtrl.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(UnitsStats, unitCtrl.StatsHandler).Methods(http.MethodGet)
	secured.HandleFunc(Unit, unitCtrl.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(Unit, unitCtrl.UpdateHandler).Methods(http.MethodPatch)
	secured.HandleFunc(Unit, unitCtrl.DeleteHandler).Methods(http.MethodDelete)
	secured.HandleFunc(UnitStatus, unitCtrl.UpdateStatusHandler).Methods(http.MethodPut)
	secured.HandleFunc(UnitLeases, unitCtrl.ListLeasesHandler).Methods(http.MethodGet)

	// Tenants
	secured.HandleFunc(Tenants, tenantCtrl.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(Tenants, tenantCtrl.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(TenantsStats, tenantCtrl.StatsHandler).Methods(http.MethodGet)
	secured.HandleFunc(TenantsAnalytics, tenantCtrl.AnalyticsHandler).Methods(http.MethodGet)
	secured.HandleFunc(Tenant, tenantCtrl.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(Tenant, tenantCtrl.UpdateHandler).Methods(http.MethodPatch)
	secured.HandleFunc(Tenant, tenantCtrl.DeleteHandler).Methods(http.MethodDelete)
	secured.HandleFunc(TenantLeases, tenantCtrl.ListLeasesHandler).Methods(http.MethodGet)
	secured.HandleFunc(TenantActivity, tenantCtrl.ActivityHandler).Methods(http.MethodGet)

	// Leases
	secured.HandleFunc(Leases, leaseCtrl.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(Leases, leaseCtrl.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(LeasesStats, leaseCtrl.StatsHandler).Methods(http.MethodGet)
	secured.HandleFunc(LeasesAnalytics, leaseCtrl.AnalyticsHandler).Methods(http.MethodGet)
	secured.HandleFunc(LeasesExpiring, leaseCtrl.ExpiringHandler).Methods(http.MethodGet)
	secured.HandleFunc(Lease, leaseCtrl.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(Lease, leaseCtrl.UpdateHandler).Methods(http.MethodPatch)
	secured.HandleFunc(Lease, leaseCtrl.DeleteHandler).Methods(http.MethodDelete)
	secured.HandleFunc(LeaseSubmit, leaseCtrl.SubmitHandler).Methods(http.MethodPost)
	secured.HandleFunc(LeaseWithdraw, leaseCtrl.WithdrawHandler).Methods(http.MethodPost)
	secured.HandleFunc(LeaseActivate, leaseCtrl.ActivateHandler).Methods(http.MethodPost)
	secured.HandleFunc(LeaseTerminate, leaseCtrl.TerminateHandler).Methods(http.MethodPost)
	secured.HandleFunc(LeaseRenew, leaseCtrl.RenewHandler).Methods(http.MethodPost)

	// Maintenance
	secured.HandleFunc(Maintenance, maintenanceCtrl.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(Maintenance, maintenanceCtrl.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(MaintenanceStats, maintenanceCtrl.StatsHandler).Methods(http.MethodGet)
	secured.HandleFunc(MaintenanceAnalytics, maintenanceCtrl.AnalyticsHandler).Methods(http.MethodGet)
	secured.HandleFunc(MaintenanceRequest, maintenanceCtrl.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(MaintenanceRequest, maintenanceCtrl.UpdateHandler).Methods(http.MethodPatch)
	secured.HandleFunc(MaintenanceRequest, maintenanceCtrl.DeleteHandler).Methods(http.MethodDelete)
	secured.HandleFunc(MaintenanceAssign, maintenanceCtrl.AssignHandler).Methods(http.MethodPost)
	secured.HandleFunc(MaintenanceWorkLog, maintenanceCtrl.WorkLogHandler).Methods(http.MethodPost)
	secured.HandleFunc(MaintenanceComplete, maintenanceCtrl.CompleteHandler).Methods(http.MethodPost)
	secured.HandleFunc(MaintenanceCancel, maintenanceCtrl.CancelHandler).Methods(http.MethodPost)

	// Invoices
	secured.HandleFunc(Invoices, invoiceCtrl.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(Invoices, invoiceCtrl.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(InvoicesStats, invoiceCtrl.StatsHandler).Methods(http.MethodGet)
	secured.HandleFunc(InvoiceByNumber, invoiceCtrl.GetByNumberHandler).Methods(http.MethodGet)
	secured.HandleFunc(Invoice, invoiceCtrl.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(Invoice, invoiceCtrl.UpdateHandler).Methods(http.MethodPatch)
	secured.HandleFunc(Invoice, invoiceCtrl.DeleteHandler).Methods(http.MethodDelete)
	secured.HandleFunc(InvoicePay, invoiceCtrl.MarkPaidHandler).Methods(http.MethodPost)
	secured.HandleFunc(InvoiceVoid, invoiceCtrl.VoidHandler).Methods(http.MethodPost)

	// Subscriptions
	secured.HandleFunc(Subscriptions, subscriptionCtrl.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(Subscriptions, subscriptionCtrl.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(SubscriptionCurrent, subscriptionCtrl.CurrentHandler).Methods(http.MethodGet)
	secured.HandleFunc(SubscriptionsStats, subscriptionCtrl.StatsHandler).Methods(http.MethodGet)
	secured.HandleFunc(Subscription, subscriptionCtrl.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(Subscription, subscriptionCtrl.UpdateHandler).Methods(http.MethodPatch)
	secured.HandleFunc(SubscriptionCancel, subscriptionCtrl.CancelHandler).Methods(http.MethodPost)
	secured.HandleFunc(SubscriptionUsage, subscriptionCtrl.ListUsageHandler).Methods(http.MethodGet)
	secured.HandleFunc(SubscriptionUsage, subscriptionCtrl.RecordUsageHandler).Methods(http.MethodPost)

	// Notifications
	secured.HandleFunc(Notifications, notificationCtrl.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(Notifications, notificationCtrl.SendHandler).Methods(http.MethodPost)
	secured.HandleFunc(NotificationsUnreadCount, notificationCtrl.UnreadCountHandler).Methods(http.MethodGet)
	secured.HandleFunc(NotificationsReadAll, notificationCtrl.MarkAllReadHandler).Methods(http.MethodPost)
	secured.HandleFunc(NotificationRead, notificationCtrl.MarkReadHandler).Methods(http.MethodPost)
	secured.HandleFunc(Notification, notificationCtrl.DeleteHandler).Methods(http.MethodDelete)

	// Admin
	admin := secured.NewRoute().Subrouter()
	admin.Use(middleware.AdminOnly)
	admin.HandleFunc(AdminExpireLeases, leaseCtrl.ExpireDueHandler).Methods(http.MethodPost)

	return router
}
