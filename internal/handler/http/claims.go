package http

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
)

// claimsFromRequest pulls the employee and company identity out of the
// verified access token.
func claimsFromRequest(r *http.Request) (employeeID, companyID string, ok bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", "", false
	}
	employeeID, ok = claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", "", false
	}
	companyID, ok = claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", false
	}
	return employeeID, companyID, true
}
