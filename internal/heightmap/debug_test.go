package heightmap

import (
	"bytes"
	"strings"
	"testing"
)

func TestSetLogWriters_Streams(t *testing.T) {
	var ops, diag, trace bytes.Buffer
	SetLogWriters(&ops, &diag, &trace)
	defer SetLogWriters(nil, nil, nil)

	opsf("ops %d", 1)
	diagf("diag %d", 2)
	tracef("trace %d", 3)

	for name, tc := range map[string]struct {
		buf  *bytes.Buffer
		want string
	}{
		"ops":   {&ops, "ops 1"},
		"diag":  {&diag, "diag 2"},
		"trace": {&trace, "trace 3"},
	} {
		out := tc.buf.String()
		if !strings.Contains(out, tc.want) {
			t.Errorf("%s stream = %q, want it to contain %q", name, out, tc.want)
		}
		if !strings.Contains(out, "[heightmap]") {
			t.Errorf("%s stream missing prefix: %q", name, out)
		}
	}
}

func TestSetLogWriters_Disabled(t *testing.T) {
	SetLogWriters(nil, nil, nil)
	if opsLogger != nil || diagLogger != nil || traceLogger != nil {
		t.Fatal("loggers should be nil after SetLogWriters(nil, nil, nil)")
	}
	// Must not panic with every stream disabled.
	opsf("x")
	diagf("x")
	tracef("x")
}

func TestLoad_LogsSummary(t *testing.T) {
	var diag bytes.Buffer
	SetLogWriters(nil, &diag, nil)
	defer SetLogWriters(nil, nil, nil)

	m, err := New(StaticPoints(unitSquare()), 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !strings.Contains(diag.String(), "loaded 2x2 grid from 4 points") {
		t.Errorf("unexpected diag output: %q", diag.String())
	}
}
