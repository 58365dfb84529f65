package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"clothstore/internal/services"
)

func TestOrderEventAuditor_Handle(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	auditor := services.NewOrderEventAuditor(zap.New(core))

	body := []byte(`{"type":"order.created","order_id":"o1","customer_id":"c1","status":"active","final_price":"180","items":2}`)
	assert.NoError(t, auditor.Handle(services.EventOrderCreated, body))

	entries := logs.FilterMessage("order event").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "o1", fields["order_id"])
		assert.Equal(t, "180.00", fields["final_price"])
	}

	assert.Error(t, auditor.Handle(services.EventOrderCreated, []byte("{not json")))
	assert.Error(t, auditor.Handle(services.EventOrderCancelled, []byte(`{"type":"order.cancelled"}`)))
	assert.Equal(t, 1, logs.Len())
}
