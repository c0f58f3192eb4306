package exit

import (
	"bytes"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name        string
		status      *Status
		wantCode    int
		wantMessage string
	}{
		{name: "matched", status: Matched(), wantCode: 0, wantMessage: ""},
		{name: "success with message", status: Success("usage: dq"), wantCode: 0, wantMessage: "usage: dq"},
		{name: "no_matches", status: NoMatches(), wantCode: 1, wantMessage: ""},
		{name: "usage", status: Usagef("unknown flag %q", "-x"), wantCode: 2, wantMessage: `unknown flag "-x"`},
		{name: "runtime", status: Runtimef("read %s: no such file", "a.yaml"), wantCode: 3, wantMessage: "read a.yaml: no such file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.status.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", tt.status.Code, tt.wantCode)
			}
			if tt.status.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", tt.status.Message, tt.wantMessage)
			}
		})
	}
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	status := Usagef("bad expression")
	status.Output = &buf
	status.Print()
	if got, want := buf.String(), "bad expression\n"; got != want {
		t.Errorf("Print() wrote %q, want %q", got, want)
	}
}

func TestPrintEmptyMessage(t *testing.T) {
	var buf bytes.Buffer
	status := Matched()
	status.Output = &buf
	status.Print()
	if buf.Len() != 0 {
		t.Errorf("Print() wrote %q, want nothing", buf.String())
	}
}
