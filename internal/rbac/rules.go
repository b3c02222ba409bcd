package rbac

// Default policy for the admin panel. hr runs day-to-day content and people
// management; admin additionally manages staff accounts.
var RolePermissions = map[string][]string{
	"hr": {
		"employees:list",
		"employees:manage",
		"departments:manage",
		"documents:manage",
		"quizzes:manage",
		"attempts:view",
		"mailings:manage",
		"content:manage",
	},
	"admin": {
		"*", // everything
	},
}
