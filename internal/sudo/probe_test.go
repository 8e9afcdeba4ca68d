package sudo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bolasblack/boxfetch/internal/util"
)

func TestProbe_Granted(t *testing.T) {
	cmd := util.NewMockCommandRunner().ExpectSuccess("su -c id", []byte("uid=0(root) gid=0(root)\n"))
	state := NewProber(NewExecutor(ModeSu, cmd)).Probe(context.Background())

	assert.Equal(t, PermissionGranted, state.Kind)
	assert.True(t, state.Granted())
}

func TestProbe_DeniedWhenNotRoot(t *testing.T) {
	cmd := util.NewMockCommandRunner().ExpectSuccess("su -c id", []byte("uid=2000(shell) gid=2000(shell)\n"))
	state := NewProber(NewExecutor(ModeSu, cmd)).Probe(context.Background())

	assert.Equal(t, PermissionDenied, state.Kind)
	assert.False(t, state.Granted())
}

func TestProbe_ExecutionErrorIsProbeFailed(t *testing.T) {
	cmd := util.NewMockCommandRunner().
		ExpectFailure("su -c id", []byte("su: not found"), errors.New("exec: \"su\": executable file not found in $PATH"))
	state := NewProber(NewExecutor(ModeSu, cmd)).Probe(context.Background())

	assert.Equal(t, PermissionProbeFailed, state.Kind)
	assert.Contains(t, state.Reason, "su: not found")
	assert.Contains(t, state.String(), "root check failed")
}

func TestPermissionState_ZeroValueIsUnknown(t *testing.T) {
	var state PermissionState
	assert.Equal(t, PermissionUnknown, state.Kind)
	assert.Equal(t, "root status unknown", state.String())
}
