// Package async provides the single async-operation state machine
// shared by every loading flow in the app (initialization, popular
// listing, search, recommendation pages).
package async

// Status is the lifecycle state of an asynchronous operation.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Op tracks one asynchronous operation: its status, its last
// successful value, and its last error. A successful completion
// clears the error; a failed one keeps the zero value.
type Op[T any] struct {
	status Status
	value  T
	err    error
}

func (o *Op[T]) Start() {
	o.status = StatusPending
}

func (o *Op[T]) Succeed(v T) {
	o.status = StatusSuccess
	o.value = v
	o.err = nil
}

func (o *Op[T]) Fail(err error) {
	o.status = StatusFailure
	o.err = err
}

// Reset returns the operation to idle, dropping value and error.
func (o *Op[T]) Reset() {
	var zero T
	o.status = StatusIdle
	o.value = zero
	o.err = nil
}

func (o *Op[T]) Status() Status { return o.status }
func (o *Op[T]) Pending() bool  { return o.status == StatusPending }
func (o *Op[T]) Value() T       { return o.value }
func (o *Op[T]) Err() error     { return o.err }
