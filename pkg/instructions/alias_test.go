package instructions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Aliases(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"vsts upper", "VSTS", "azuredevops"},
		{"tfs", "TFS", "azuredevops"},
		{"vsts trailing space", "vsts ", "azuredevops"},
		{"display name", "Azure DevOps Services", "azuredevops"},
		{"hyphenated", "azure-devops", "azuredevops"},
		{"postgres", "Postgres", "postgresql"},
		{"mssql", "MSSQL", "sqlserver"},
		{"sfdc", "SFDC", "salesforce"},
		{"bigquery", "BigQuery", "googlebigquery"},
		{"already canonical", "snowflake", "snowflake"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalize_UnknownPassesThrough(t *testing.T) {
	// Unknown drivers are not rejected; they collapse and fall through to
	// the generic tier later.
	assert.Equal(t, "frobnicatordb", Normalize("Frobnicator-DB"))
	assert.Equal(t, "", Normalize("  ***  "))
}

func TestNormalize_Deterministic(t *testing.T) {
	for range 3 {
		assert.Equal(t, "azuredevops", Normalize("Azure DevOps Services"))
	}
}
