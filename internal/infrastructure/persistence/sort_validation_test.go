package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	cases := map[string]string{
		"":                "DESC",
		"ASC":             "ASC",
		"asc":             "ASC",
		"  asc  ":         "ASC",
		"DESC":            "DESC",
		"desc":            "DESC",
		"ascending":       "DESC",
		"   ":             "DESC",
		"ASC; DROP TABLE": "DESC",
	}

	for input, want := range cases {
		assert.Equal(t, want, ValidateSortOrder(input), "input %q", input)
	}
}

func TestValidateSortField(t *testing.T) {
	t.Run("known field passes through", func(t *testing.T) {
		assert.Equal(t, "starts_at", ValidateSortField("starts_at", SessionSortFields, "created_at"))
		assert.Equal(t, "daily_rate", ValidateSortField("  daily_rate  ", TrainerSortFields, "created_at"))
	})

	t.Run("unknown or empty falls back to default", func(t *testing.T) {
		assert.Equal(t, "created_at", ValidateSortField("", SessionSortFields, "created_at"))
		assert.Equal(t, "created_at", ValidateSortField("   ", SessionSortFields, "created_at"))
		assert.Equal(t, "created_at", ValidateSortField("rating", SessionSortFields, "created_at"))
	})

	t.Run("matching is case sensitive", func(t *testing.T) {
		assert.Equal(t, "created_at", ValidateSortField("STARTS_AT", SessionSortFields, "created_at"))
	})

	t.Run("empty default stays empty for unknown field", func(t *testing.T) {
		assert.Equal(t, "", ValidateSortField("rating", SessionSortFields, ""))
	})
}

func TestValidateSortFieldRejectsInjection(t *testing.T) {
	payloads := []string{
		"starts_at; DROP TABLE training_sessions;--",
		"starts_at' OR '1'='1",
		"starts_at UNION SELECT * FROM users",
		"starts_at, (SELECT password_hash FROM users)",
		"starts_at/**/;DELETE FROM certificates",
		"starts_at\n; TRUNCATE payroll_months",
	}

	for _, payload := range payloads {
		assert.Equal(t, "created_at", ValidateSortField(payload, SessionSortFields, "created_at"), "payload %q", payload)
		assert.Equal(t, "DESC", ValidateSortOrder(payload), "payload %q", payload)
	}
}

func TestSortFieldWhitelists(t *testing.T) {
	whitelists := map[string]map[string]bool{
		"users":           UserSortFields,
		"deals":           DealSortFields,
		"trainers":        TrainerSortFields,
		"rooms":           RoomSortFields,
		"mobile units":    MobileUnitSortFields,
		"sessions":        SessionSortFields,
		"certificates":    CertificateSortFields,
		"products":        ProductSortFields,
		"variants":        VariantSortFields,
		"material orders": MaterialOrderSortFields,
		"payroll":         PayrollSortFields,
	}

	for name, whitelist := range whitelists {
		t.Run(name, func(t *testing.T) {
			for field := range CommonSortFields {
				assert.True(t, whitelist[field], "missing base field %q", field)
			}
			assert.Greater(t, len(whitelist), len(CommonSortFields))
		})
	}
}
