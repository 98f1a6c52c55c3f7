package mq

import "errors"

var ErrNotConfirmed = errors.New("publish not confirmed by broker")

// TempError marks a handler failure worth redelivering.
type TempError struct {
	Err error
}

func (e TempError) Error() string {
	return e.Err.Error()
}

func (e TempError) Unwrap() error {
	return e.Err
}

func (e TempError) Temporary() bool {
	return true
}

func Temporary(err error) error {
	if err == nil {
		return nil
	}
	return TempError{Err: err}
}

func shouldRequeue(err error) bool {
	var te interface{ Temporary() bool }
	return errors.As(err, &te) && te.Temporary()
}
