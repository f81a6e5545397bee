package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTransitionRecorder_Record(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry(), "consult-booking")
	rec := NewTransitionRecorder(m)

	rec.Record("cancel", "ok")
	rec.Record("cancel", "ok")
	rec.Record("cancel", "deadline_passed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingTransitionsTotal.WithLabelValues("cancel", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingTransitionsTotal.WithLabelValues("cancel", "deadline_passed")))
}

func TestTransitionRecorder_Disabled(t *testing.T) {
	var rec *TransitionRecorder
	assert.NotPanics(t, func() { rec.Record("confirm", "ok") })
	assert.NotPanics(t, func() { NewTransitionRecorder(nil).Record("confirm", "ok") })
}
