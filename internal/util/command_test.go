package util

import (
	"bytes"
	"context"
	"testing"
)

func TestRun_StreamsToStdoutAndCaptures(t *testing.T) {
	var stdout, stderr bytes.Buffer
	runner := NewStreamingCommandRunner(&stdout, &stderr)
	output, err := runner.Run(context.Background(), "echo", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Contains(output, []byte("hello")) {
		t.Errorf("expected captured output to contain 'hello', got %q", output)
	}
	if !bytes.Contains(stdout.Bytes(), []byte("hello")) {
		t.Errorf("expected stdout to contain 'hello', got %q", stdout.String())
	}
}

func TestRun_StreamsBothStreams(t *testing.T) {
	var stdout, stderr bytes.Buffer
	runner := NewStreamingCommandRunner(&stdout, &stderr)
	output, err := runner.Run(context.Background(), "sh", "-c", "echo out; echo err >&2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"out", "err"} {
		if !bytes.Contains(output, []byte(want)) {
			t.Errorf("expected captured output to contain %q, got %q", want, output)
		}
	}
	if stdout.String() != "out\n" || stderr.String() != "err\n" {
		t.Errorf("streams mixed up: stdout=%q stderr=%q", stdout.String(), stderr.String())
	}
}

func TestRun_ErrorPropagation(t *testing.T) {
	runner := NewCommandRunner()
	_, err := runner.Run(context.Background(), "false")
	if err == nil {
		t.Fatal("expected error from 'false' command, got nil")
	}
}

func TestRun_ReturnsOutputOnError(t *testing.T) {
	runner := NewCommandRunner()
	output, err := runner.Run(context.Background(), "sh", "-c", "echo failure-output >&2 && exit 1")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !bytes.Contains(output, []byte("failure-output")) {
		t.Errorf("expected output to contain 'failure-output', got %q", output)
	}
}

func TestMockCommandRunner_RecordsCalls(t *testing.T) {
	mock := NewMockCommandRunner().
		ExpectSuccess("su -c id", []byte("uid=0(root) gid=0(root)"))

	out, err := mock.Run(context.Background(), "su", "-c", "id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "uid=0(root) gid=0(root)" {
		t.Errorf("got output %q", out)
	}
	mock.AssertCalled(t, "su -c id")
	if mock.CallCount("su -c id") != 1 {
		t.Errorf("expected one call, got %d", mock.CallCount("su -c id"))
	}

	if _, err := mock.Run(context.Background(), "rm", "-rf", "/"); err == nil {
		t.Error("expected unexpected command to fail")
	}
}
