package reasoncache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	dommm "github.com/momcircle/matchd/internal/domain/magicmatch"
	"github.com/momcircle/matchd/internal/metrics"
)

func TestCache_GetAdd(t *testing.T) {
	c, err := New(8)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	hits := testutil.ToFloat64(metrics.ReasonCacheTotal.WithLabelValues("hit"))
	misses := testutil.ToFloat64(metrics.ReasonCacheTotal.WithLabelValues("miss"))

	if _, ok := c.Get("v", "c"); ok {
		t.Fatal("empty cache returned a hit")
	}
	c.Add("v", "c", dommm.Result{MatchScore: 92, PrimaryReason: "Both love hiking"})

	r, ok := c.Get("v", "c")
	if !ok || r.MatchScore != 92 {
		t.Fatalf("got %+v ok=%v", r, ok)
	}
	if _, ok := c.Get("c", "v"); ok {
		t.Error("keys are directional: (c,v) must miss")
	}

	if d := testutil.ToFloat64(metrics.ReasonCacheTotal.WithLabelValues("hit")) - hits; d != 1 {
		t.Errorf("hit delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(metrics.ReasonCacheTotal.WithLabelValues("miss")) - misses; d != 2 {
		t.Errorf("miss delta = %v, want 2", d)
	}
}

func TestCache_Evicts(t *testing.T) {
	c, err := New(2)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	c.Add("v", "a", dommm.Result{})
	c.Add("v", "b", dommm.Result{})
	c.Add("v", "c", dommm.Result{})

	if c.Len() != 2 {
		t.Errorf("len = %d, want 2", c.Len())
	}
	if _, ok := c.Get("v", "a"); ok {
		t.Error("oldest entry should be evicted")
	}
}

func TestCache_DefaultSize(t *testing.T) {
	c, err := New(0)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for i := range DefaultSize + 10 {
		c.Add("v", fmt.Sprint(i), dommm.Result{})
	}
	if c.Len() != DefaultSize {
		t.Errorf("len = %d, want %d", c.Len(), DefaultSize)
	}
}

func TestCache_Concurrent(t *testing.T) {
	c, err := New(64)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprint(i)
			c.Add("v", id, dommm.Result{MatchScore: i})
			c.Get("v", id)
		}(i)
	}
	wg.Wait()
	if c.Len() != 16 {
		t.Errorf("len = %d, want 16", c.Len())
	}
}
