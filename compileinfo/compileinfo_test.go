package compileinfo

import (
	"runtime/debug"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
)

func TestFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		GoVersion: "go1.22.0",
		Path:      "github.com/carbocation/relsurv/cmd/relsurv",
		Main:      debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2021-01-01T00:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	c := fromBuildInfo(bi, true)
	if c.Commit != "abc123" || !c.Modified || c.GoVersion != "go1.22.0" {
		t.Errorf("Unexpected %+v", c)
	}
	if !strings.Contains(c.String(), "modified after that commit") {
		t.Errorf("Expected the modification to be reported: %s", c)
	}

	if empty := fromBuildInfo(nil, false); empty != (CompileInfo{}) {
		t.Errorf("Expected an empty CompileInfo, got %+v", empty)
	}
	if !strings.Contains(CompileInfo{}.String(), "not available") {
		t.Errorf("Unexpected %s", CompileInfo{})
	}
}

func TestLog(t *testing.T) {
	log, hook := test.NewNullLogger()

	Log(log)

	if len(hook.Entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(hook.Entries))
	}
	if _, ok := hook.LastEntry().Data["go"]; !ok {
		t.Errorf("Expected a go field, got %v", hook.LastEntry().Data)
	}
}
