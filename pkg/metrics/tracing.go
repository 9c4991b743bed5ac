package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// TraceMethodCall traces a method call with a given struct/package and method
// names. It returns nil when ctx carries neither a New Relic transaction nor
// an application; every MethodTracer method is safe to call on nil.
func TraceMethodCall(ctx context.Context, structOrPackageName, methodName string) *MethodTracer {
	name := fmt.Sprintf("%s %s", structOrPackageName, methodName)

	txn := newrelic.FromContext(ctx)
	app := fromContext(ctx)
	if txn == nil && app == nil {
		return nil
	}

	t := &MethodTracer{
		ctx:   ctx,
		name:  name,
		start: time.Now(),
		txn:   txn,
	}
	if txn != nil {
		t.seg = txn.StartSegment(name)
	}
	return t
}

// MethodTracer collects analytics for a given method call within an existing
// trace.
type MethodTracer struct {
	ctx    context.Context
	name   string
	start  time.Time
	failed bool

	txn *newrelic.Transaction
	seg *newrelic.Segment
}

// AddAttribute adds a key-value pair metadata to the method trace
func (t *MethodTracer) AddAttribute(key string, value interface{}) {
	if t == nil || t.seg == nil {
		return
	}

	t.seg.AddAttribute(key, value)
}

// OnError observes an error within a method trace
func (t *MethodTracer) OnError(err error) {
	if t == nil || err == nil {
		return
	}

	t.failed = true
	if t.txn != nil {
		t.txn.NoticeError(err)
	}
}

// End completes the trace for the method call and records its duration and
// outcome as custom metrics.
func (t *MethodTracer) End() {
	if t == nil {
		return
	}

	if t.seg != nil {
		t.seg.End()
	}

	outcome := "success"
	if t.failed {
		outcome = "failure"
	}
	RecordDuration(t.ctx, "Custom/"+t.name+"/duration", time.Since(t.start))
	RecordCount(t.ctx, "Custom/"+t.name+"/"+outcome, 1)
}
