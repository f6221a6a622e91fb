package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaEnforcesOneOpenAlertPerKey(t *testing.T) {
	assert.Contains(t, schema,
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_alerts_open_key ON alerts (facility_code, type, subject) WHERE acknowledged_at IS NULL;")
}
