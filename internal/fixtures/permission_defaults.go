package fixtures

import "github.com/gestio-app/gestio-backend-go/internal/domain/permission"

// DefaultPermissions is the seedable catalog. Seeding runs at process
// start and only inserts codes that are missing, so redeploys never
// mutate existing entries.
func DefaultPermissions() []permission.Permission {
	return []permission.Permission{
		// General
		{Code: "VIEW_DASHBOARD", Name: "View dashboard", Description: "Access the company dashboard", Module: "Dashboard", Category: permission.CategoryGeneral},
		{Code: "VIEW_GENERAL_CATEGORY", Name: "View general section", Description: "Access the general navigation section", Module: "Navigation", Category: permission.CategoryGeneral},
		{Code: "VIEW_PLANNING", Name: "View planning", Description: "See the shared company planning", Module: "Planning", Category: permission.CategoryGeneral},

		// Paperwork
		{Code: "VIEW_PAPERASSE_CATEGORY", Name: "View paperwork section", Description: "Access the paperwork navigation section", Module: "Navigation", Category: permission.CategoryPaperasse},
		{Code: "VIEW_FACTURES", Name: "View invoices", Description: "See company invoices", Module: "Invoicing", Category: permission.CategoryPaperasse},
		{Code: "CREATE_FACTURES", Name: "Create invoices", Description: "Issue new invoices", Module: "Invoicing", Category: permission.CategoryPaperasse},
		{Code: "MANAGE_FACTURES", Name: "Manage invoices", Description: "Edit and void invoices", Module: "Invoicing", Category: permission.CategoryPaperasse},
		{Code: "VIEW_CHARGES", Name: "View charges", Description: "See recorded charges", Module: "Accounting", Category: permission.CategoryPaperasse},
		{Code: "MANAGE_CHARGES", Name: "Manage charges", Description: "Record and edit charges", Module: "Accounting", Category: permission.CategoryPaperasse},
		{Code: "MANAGE_DEVIS", Name: "Manage quotes", Description: "Create and send quotes", Module: "Sales", Category: permission.CategoryPaperasse},

		// Administration
		{Code: "VIEW_ADMINISTRATION_CATEGORY", Name: "View administration section", Description: "Access the administration navigation section", Module: "Navigation", Category: permission.CategoryAdministration},
		{Code: "MANAGE_EMPLOYEES", Name: "Manage employees", Description: "Hire, edit and remove employees", Module: "HR", Category: permission.CategoryAdministration},
		{Code: "MANAGE_ROLES", Name: "Manage roles", Description: "Create roles and edit their permissions", Module: "HR", Category: permission.CategoryAdministration},
		{Code: "MANAGE_CODES", Name: "Manage invitation codes", Description: "Generate and deactivate invitation codes", Module: "HR", Category: permission.CategoryAdministration},
		{Code: "VIEW_SALARIES", Name: "View salaries", Description: "See employee salary data", Module: "HR", Category: permission.CategoryAdministration},
		{Code: "MANAGE_SALARIES", Name: "Manage salaries", Description: "Edit employee salary data", Module: "HR", Category: permission.CategoryAdministration},

		// Management
		{Code: "VIEW_GESTION_CATEGORY", Name: "View management section", Description: "Access the management navigation section", Module: "Navigation", Category: permission.CategoryGestion},
		{Code: "MANAGE_COMPANY", Name: "Manage company", Description: "Edit company profile and settings", Module: "Company", Category: permission.CategoryGestion},
		{Code: "VIEW_STOCK", Name: "View inventory", Description: "See inventory levels", Module: "Inventory", Category: permission.CategoryGestion},
		{Code: "MANAGE_STOCK", Name: "Manage inventory", Description: "Adjust inventory levels", Module: "Inventory", Category: permission.CategoryGestion},
		{Code: "VIEW_REPORTS", Name: "View reports", Description: "See financial and activity reports", Module: "Reports", Category: permission.CategoryGestion},
	}
}

// DefaultAdminRolePermissions returns the base set granted to the role
// created for a company's first account.
func DefaultAdminRolePermissions() []string {
	perms := DefaultPermissions()
	codes := make([]string, 0, len(perms))
	for _, p := range perms {
		codes = append(codes, p.Code)
	}
	return codes
}

// DefaultEmployeeRolePermissions is the base set for the default role
// assigned on invitation-code redemption.
func DefaultEmployeeRolePermissions() []string {
	return []string{
		"VIEW_DASHBOARD",
		"VIEW_GENERAL_CATEGORY",
		"VIEW_PLANNING",
		"VIEW_FACTURES",
	}
}
