package trace

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceLevels(t *testing.T) {
	var buf bytes.Buffer
	tr := New(&buf, true)

	tr.Info("created demo from unknown")
	tr.Error("could not read project metadata")

	out := buf.String()
	assert.Contains(t, out, "INF")
	assert.Contains(t, out, "created demo from unknown")
	assert.Contains(t, out, "ERR")
	assert.Contains(t, out, "could not read project metadata")
}

func TestTraceDebug(t *testing.T) {
	var buf bytes.Buffer
	tr := New(&buf, true)
	tr.SetDebug(false)

	l := tr.Logger()
	l.Debug().Msg("hidden")
	assert.NotContains(t, buf.String(), "hidden")

	tr.SetDebug(true)
	l = tr.Logger()
	l.Debug().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestRecorder(t *testing.T) {
	var r Recorder
	var rep Reporter = &r
	rep.Info("a")
	rep.Error("b")
	assert.Equal(t, []string{"a"}, r.Infos)
	assert.Equal(t, []string{"b"}, r.Errors)
}

func TestNoColor(t *testing.T) {
	assert.True(t, NoColor(&bytes.Buffer{}))

	t.Setenv("NO_COLOR", "1")
	assert.True(t, NoColor(os.Stderr))
}
