package core

import "reviewdesk-backend-go/internal/models"

// Destination is the landing page for a signed-in user.
type Destination string

const (
	RouteAdminDashboard Destination = "/admin/dashboard"
	RouteDashboard      Destination = "/dashboard"
	RouteOnboarding     Destination = "/onboarding"
)

// Route picks the landing page: admins go to the admin dashboard, business users who
// finished onboarding go to their dashboard, everyone else to onboarding.
func Route(user *models.User) Destination {
	switch {
	case user.IsAdmin():
		return RouteAdminDashboard
	case user != nil && user.Role == models.RoleBusinessUser && user.BusinessFormFilled:
		return RouteDashboard
	default:
		return RouteOnboarding
	}
}
