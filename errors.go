package cmdcore

import "errors"

// Sentinel errors returned by Recorder lifecycle methods and reported by End.
// Errors raised during recording are latched and wrapped; use errors.Is to
// test against these sentinels.
var (
	// ErrNilDevice indicates NewRecorder was called without a device.
	ErrNilDevice = errors.New("cmdcore: device is nil")

	// ErrNotRecording indicates a recording call arrived before Begin or
	// after End.
	ErrNotRecording = errors.New("cmdcore: recorder is not recording")

	// ErrAlreadyRecording indicates Begin was called twice without an
	// intervening End or Reset.
	ErrAlreadyRecording = errors.New("cmdcore: recorder is already recording")

	// ErrWrongQueueClass indicates an operation that the recorder's queue
	// class cannot execute, such as a draw on a compute-only recorder.
	ErrWrongQueueClass = errors.New("cmdcore: operation not supported on this queue class")

	// ErrNoPipeline indicates a draw or dispatch with no pipeline bound.
	ErrNoPipeline = errors.New("cmdcore: no pipeline bound")

	// ErrNoIndexBuffer indicates an indexed draw with no index buffer bound.
	ErrNoIndexBuffer = errors.New("cmdcore: indexed draw without an index buffer")
)
