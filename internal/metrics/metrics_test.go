package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRun(t *testing.T) {
	okBefore := testutil.ToFloat64(RunsTotal.WithLabelValues("parse", ResultSuccess))
	failBefore := testutil.ToFloat64(RunsTotal.WithLabelValues("parse", ResultFailure))

	RecordRun("parse", nil, time.Second)
	RecordRun("parse", errors.New("boom"), time.Second)
	RecordRun("parse", errors.New("boom"), time.Second)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(RunsTotal.WithLabelValues("parse", ResultSuccess)))
	assert.Equal(t, failBefore+2, testutil.ToFloat64(RunsTotal.WithLabelValues("parse", ResultFailure)))
}

func TestRecordUpsert(t *testing.T) {
	ins := testutil.ToFloat64(ItemsUpserted.WithLabelValues("movie", ActionInsert))
	upd := testutil.ToFloat64(ItemsUpserted.WithLabelValues("movie", ActionUpdate))

	RecordUpsert("movie", true)
	RecordUpsert("movie", false)
	RecordUpsert("movie", false)

	assert.Equal(t, ins+1, testutil.ToFloat64(ItemsUpserted.WithLabelValues("movie", ActionInsert)))
	assert.Equal(t, upd+2, testutil.ToFloat64(ItemsUpserted.WithLabelValues("movie", ActionUpdate)))
}

func TestSetBusy(t *testing.T) {
	SetBusy(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(Busy))

	SetBusy(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(Busy))
}
