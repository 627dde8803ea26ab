// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveExternal(t *testing.T) {
	before := testutil.ToFloat64(ExternalRequestsTotal.WithLabelValues("core", OutcomeOK))
	ObserveExternal("core", OutcomeOK, time.Now())
	after := testutil.ToFloat64(ExternalRequestsTotal.WithLabelValues("core", OutcomeOK))
	assert.Equal(t, before+1, after)
}

func TestInit(t *testing.T) {
	Init("test")
	assert.Equal(t, 1.0, testutil.ToFloat64(BuildInfo.WithLabelValues("test")))
}
