package instructions

import "strings"

// aliasTable maps collapsed (lowercase, alphanumeric-only) driver name
// variants to canonical driver identifiers. Read-only for the process
// lifetime.
var aliasTable = map[string]string{
	// Azure DevOps
	"azuredevopsservices": "azuredevops",
	"azuredevopsserver":   "azuredevops",
	"vsts":                "azuredevops",
	"tfs":                 "azuredevops",
	"ado":                 "azuredevops",

	// SQL Server
	"mssql":              "sqlserver",
	"microsoftsqlserver": "sqlserver",
	"sqlsvr":             "sqlserver",

	// PostgreSQL
	"postgres":  "postgresql",
	"pgsql":     "postgresql",
	"pg":        "postgresql",
	"timescale": "postgresql",
	"cockroach": "postgresql",
	"greenplum": "postgresql",

	// MySQL family
	"mariadb": "mysql",
	"aurora":  "mysql",

	// Salesforce
	"sfdc":            "salesforce",
	"forcecom":        "salesforce",
	"salesforcecloud": "salesforce",

	// Snowflake
	"snowflakedb": "snowflake",

	// Google BigQuery
	"bigquery": "googlebigquery",
	"gbq":      "googlebigquery",

	// Dynamics 365
	"dynamics":    "dynamics365",
	"dynamicscrm": "dynamics365",
	"msdynamics":  "dynamics365",

	// Misc SaaS
	"jiracloud":        "jira",
	"jiraserver":       "jira",
	"snow":             "servicenow",
	"mongo":            "mongodb",
	"oracledb":         "oracle",
	"amazonredshift":   "redshift",
	"sharepointonline": "sharepoint",
}

// Normalize maps a raw client-supplied driver name to a canonical driver
// identifier. The input is lowercased and stripped of everything that is not
// alphanumeric before the alias lookup. Unknown names are returned in their
// collapsed form rather than rejected; they fall through to the generic
// instruction tier during resolution.
func Normalize(rawName string) string {
	collapsed := collapse(rawName)
	if canonical, ok := aliasTable[collapsed]; ok {
		return canonical
	}
	return collapsed
}

// collapse lowercases s and removes all non-alphanumeric characters.
func collapse(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
