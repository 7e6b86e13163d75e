package auth

// Permission names carried in access token claims
const (
	PermViewShippingRates   = "view_shipping_rates"
	PermManageShippingRates = "manage_shipping_rates"
	PermViewAuditLogs       = "view_audit_logs"
	PermManageShipments     = "manage_shipments"
	PermViewPayments        = "view_payments"
	PermConfirmPayments     = "confirm_payments"
	PermViewOrders          = "view_orders"
	PermUpdateOrderStatus   = "update_order_status"
)

// AllPermissions lists every permission the API checks
var AllPermissions = []string{
	PermViewShippingRates,
	PermManageShippingRates,
	PermViewAuditLogs,
	PermManageShipments,
	PermViewPayments,
	PermConfirmPayments,
	PermViewOrders,
	PermUpdateOrderStatus,
}
