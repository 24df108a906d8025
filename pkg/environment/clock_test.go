package environment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClock_KnownZone(t *testing.T) {
	clock := NewClock("Asia/Shanghai")
	summary := clock.Summary()
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2} \w+ \(Asia/Shanghai\)$`, summary)
}

func TestClock_UnknownZoneFallsBackToUTC(t *testing.T) {
	clock := NewClock("Not/AZone")
	assert.Contains(t, clock.Summary(), "(UTC)")
}

func TestService_Brief(t *testing.T) {
	svc := NewService(NewClock("UTC"), nil, "Shanghai")
	brief := svc.Brief(context.Background())
	assert.Contains(t, brief, "local time ")
	assert.NotContains(t, brief, "weather")
}
