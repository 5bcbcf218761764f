package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordTurn(t *testing.T) {
	before := testutil.ToFloat64(TurnsTotal.WithLabelValues(OutcomeCorrected))

	RecordTurn(OutcomeCorrected, 2, 0.8)

	assert.Equal(t, before+1, testutil.ToFloat64(TurnsTotal.WithLabelValues(OutcomeCorrected)))
}

func TestRecordIssueAndUpstream(t *testing.T) {
	issues := testutil.ToFloat64(ValidationIssuesTotal.WithLabelValues("duplicate"))
	calls := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("hotels", "timeout"))

	RecordIssue("duplicate")
	RecordUpstream("hotels", "timeout")

	assert.Equal(t, issues+1, testutil.ToFloat64(ValidationIssuesTotal.WithLabelValues("duplicate")))
	assert.Equal(t, calls+1, testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("hotels", "timeout")))
}
